package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"proposal_builder/internal/config"
	"proposal_builder/internal/usecase/interfaces"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrMissingAPIKey = errors.New("missing ANTHROPIC_API_KEY")

// creditMarkers are substrings of provider errors caused by an empty account.
var creditMarkers = []string{
	"credit balance is too low",
	"billing",
}

// modelPricing holds {input, output} USD per million tokens for usage logs.
var modelPricing = map[string][2]float64{
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"claude-opus-4-6":            {15.00, 75.00},
}

// AnthropicGateway implements interfaces.ILLMGateway on top of the Messages API.
// Calls are throttled by a token bucket and never retried.
type AnthropicGateway struct {
	client    sdk.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	limiter   *rate.Limiter
}

var _ interfaces.ILLMGateway = (*AnthropicGateway)(nil)

func NewAnthropicGateway(cfg config.AnthropicConfig, opts ...option.RequestOption) (*AnthropicGateway, error) {
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, ErrMissingAPIKey
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.Key),
		option.WithMaxRetries(0),
	}, opts...)

	zap.L().Info("[llm][gateway] anthropic client initialized",
		zap.String("model", cfg.Model),
		zap.Float64("rps", cfg.RequestsPerSecond),
	)
	return &AnthropicGateway{
		client:    sdk.NewClient(clientOpts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout(),
		limiter:   rate.NewLimiter(limit, burst),
	}, nil
}

func (g *AnthropicGateway) Complete(ctx context.Context, req interfaces.CompletionRequest) (interfaces.CompletionResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return interfaces.CompletionResponse{}, fmt.Errorf("%w: %w", interfaces.ErrLLMUnavailable, eris.Wrap(err, "anthropic: rate limiter"))
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}
	params := sdk.MessageNewParams{
		Model:     sdk.Model(g.model),
		MaxTokens: maxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt))},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	start := time.Now()
	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		classified := classify(err)
		zap.L().Error("[llm][gateway] create message failed",
			zap.String("purpose", req.Purpose),
			zap.Bool("credits_exhausted", errors.Is(classified, interfaces.ErrLLMCreditsExhausted)),
			zap.Error(err),
		)
		return interfaces.CompletionResponse{}, classified
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	resp := interfaces.CompletionResponse{
		Text:         sb.String(),
		Model:        string(msg.Model),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	logUsage(req.Purpose, resp, time.Since(start))
	return resp, nil
}

// classify sorts a provider failure into credits-exhausted or unavailable.
func classify(err error) error {
	wrapped := eris.Wrap(err, "anthropic: create message")
	if isCreditError(err) {
		return fmt.Errorf("%w: %w", interfaces.ErrLLMCreditsExhausted, wrapped)
	}
	return fmt.Errorf("%w: %w", interfaces.ErrLLMUnavailable, wrapped)
}

func isCreditError(err error) bool {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusPaymentRequired {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range creditMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func logUsage(purpose string, resp interfaces.CompletionResponse, elapsed time.Duration) {
	var cost float64
	if p, ok := modelPricing[resp.Model]; ok {
		cost = float64(resp.InputTokens)/1e6*p[0] + float64(resp.OutputTokens)/1e6*p[1]
	}
	zap.L().Info("[llm][gateway] usage",
		zap.String("purpose", purpose),
		zap.String("model", resp.Model),
		zap.Int64("input_tokens", resp.InputTokens),
		zap.Int64("output_tokens", resp.OutputTokens),
		zap.Float64("estimated_cost_usd", cost),
		zap.Duration("elapsed", elapsed),
	)
}
