package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/domain/pricing"
	"proposal_builder/internal/usecase/interfaces"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrMissingClientName       = errors.New("client name is required")
	ErrInvalidBudget           = errors.New("budget must be greater than zero")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrMissingProposal         = errors.New("proposal is required")
	ErrMissingPrompt           = errors.New("edit prompt is required")
	ErrInvalidProposalID       = errors.New("invalid proposal id")
	ErrProposalNotFound        = errors.New("proposal not found")
	ErrEditResponseUnparseable = errors.New("edit response could not be parsed")
	ErrCatalogUnavailable      = errors.New("catalog unavailable")

	ErrInvalidEditField = pricing.ErrUnknownField
	ErrNegativeValue    = pricing.ErrNegativeValue
	ErrDiscountTooLarge = pricing.ErrDiscountTooLarge

	ErrLLMCreditsExhausted = interfaces.ErrLLMCreditsExhausted
	ErrLLMUnavailable      = interfaces.ErrLLMUnavailable
)

// defaultMaxTokens bounds the analysis and prompt-edit completions.
const defaultMaxTokens int64 = 4000

// AnalyzeInput is the upload step of the builder.
type AnalyzeInput struct {
	ClientName        string
	Budget            float64
	ProjectType       string
	AdditionalContext string
	Files             []entities.BriefFile
}

// AnalyzeResult carries the raw suggestion next to the reconciled proposal.
type AnalyzeResult struct {
	Suggestion entities.Suggestion
	Proposal   entities.Proposal
	Step       entities.WorkflowStep
}

// IProposalUseCase exposes the proposal builder operations.
//
//   - Analyze: brief + catalogs -> LLM suggestion -> reconciled proposal
//   - ApplyFieldEdit / ApplyDiscount: deterministic recalculation
//   - ApplyPromptEdit: LLM-driven edit, re-derived and atomic
//   - Save / GetByID: terminal persistence
type IProposalUseCase interface {
	Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeResult, error)
	ApplyFieldEdit(ctx context.Context, p entities.Proposal, phaseID, lineItemID, field string, value float64) (entities.Proposal, error)
	ApplyPromptEdit(ctx context.Context, p entities.Proposal, instruction string) (entities.Proposal, error)
	ApplyDiscount(ctx context.Context, p entities.Proposal, discount float64) (entities.Proposal, error)
	Save(ctx context.Context, p entities.Proposal) (entities.Proposal, error)
	GetByID(ctx context.Context, id string) (entities.Proposal, error)
}

type ProposalUseCase struct {
	services   interfaces.IServiceCatalogRepository
	packages   interfaces.IPackageCatalogRepository
	proposals  interfaces.IProposalRepository
	llm        interfaces.ILLMGateway
	store      interfaces.IDocumentStore
	reconciler *pricing.Reconciler
	maxTokens  int64
	now        func() time.Time
}

var _ IProposalUseCase = (*ProposalUseCase)(nil)

// ProposalOption configures a ProposalUseCase.
type ProposalOption func(*ProposalUseCase)

// WithDocumentStore enables archiving of uploaded briefs.
func WithDocumentStore(store interfaces.IDocumentStore) ProposalOption {
	return func(u *ProposalUseCase) { u.store = store }
}

func WithReconciler(r *pricing.Reconciler) ProposalOption {
	return func(u *ProposalUseCase) { u.reconciler = r }
}

func WithMaxTokens(n int64) ProposalOption {
	return func(u *ProposalUseCase) {
		if n > 0 {
			u.maxTokens = n
		}
	}
}

func WithProposalClock(now func() time.Time) ProposalOption {
	return func(u *ProposalUseCase) { u.now = now }
}

func NewProposalUseCase(
	services interfaces.IServiceCatalogRepository,
	packages interfaces.IPackageCatalogRepository,
	proposals interfaces.IProposalRepository,
	llm interfaces.ILLMGateway,
	opts ...ProposalOption,
) *ProposalUseCase {
	u := &ProposalUseCase{
		services:   services,
		packages:   packages,
		proposals:  proposals,
		llm:        llm,
		reconciler: pricing.NewReconciler(),
		maxTokens:  defaultMaxTokens,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *ProposalUseCase) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeResult, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ProjectType = strings.TrimSpace(in.ProjectType)
	zap.L().Info("[proposal][usecase] analyze start",
		zap.String("client", in.ClientName),
		zap.Float64("budget", in.Budget),
		zap.Int("files", len(in.Files)),
	)

	if !entities.CanSubmit(in.ClientName, in.Budget) {
		if in.ClientName == "" {
			return AnalyzeResult{}, ErrMissingClientName
		}
		return AnalyzeResult{}, ErrInvalidBudget
	}
	if err := validateBriefFiles(in.Files); err != nil {
		return AnalyzeResult{}, err
	}
	documents := extractDocuments(in.Files)

	services, packages, err := u.loadCatalog(ctx)
	if err != nil {
		zap.L().Error("[proposal][usecase] catalog load failed", zap.Error(err))
		return AnalyzeResult{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	prompt, err := buildAnalysisPrompt(in, documents, services, packages)
	if err != nil {
		return AnalyzeResult{}, err
	}
	resp, err := u.llm.Complete(ctx, interfaces.CompletionRequest{
		Purpose:   "analyze",
		Prompt:    prompt,
		MaxTokens: u.maxTokens,
	})
	if err != nil {
		zap.L().Error("[proposal][usecase] analyze llm call failed", zap.Error(err))
		return AnalyzeResult{}, err
	}

	suggestion := pricing.ParseSuggestion(resp.Text)
	if suggestion.Degraded {
		zap.L().Warn("[proposal][usecase] analysis response unparseable; using degraded suggestion",
			zap.Int("response_len", len(resp.Text)))
	}
	if suggestion.WantsPackages() {
		if _, unmatched := pricing.MatchPackages(suggestion.Packages, packages); len(unmatched) > 0 {
			names := make([]string, 0, len(unmatched))
			for _, sp := range unmatched {
				names = append(names, sp.Name+"|"+sp.PackageRef)
			}
			zap.L().Warn("[proposal][usecase] suggested packages not in catalog", zap.Strings("packages", names))
		}
	}

	proposal := u.reconciler.Reconcile(suggestion, services, packages, pricing.ProposalInput{
		ClientName:  in.ClientName,
		ProjectType: in.ProjectType,
		Budget:      in.Budget,
	})
	u.archiveBriefs(ctx, proposal.ID, in.Files)

	step, err := entities.NextStep(entities.WorkflowStepAnalyzing, entities.WorkflowEventAnalysisSucceeded)
	if err != nil {
		return AnalyzeResult{}, err
	}
	zap.L().Info("[proposal][usecase] analyze success",
		zap.String("proposal_id", proposal.ID),
		zap.String("mode", string(proposal.Mode)),
		zap.Int("phases", len(proposal.Phases)),
		zap.Float64("total", proposal.Total),
	)
	return AnalyzeResult{Suggestion: suggestion, Proposal: proposal, Step: step}, nil
}

func (u *ProposalUseCase) loadCatalog(ctx context.Context) ([]entities.Service, []entities.Package, error) {
	var services []entities.Service
	var packages []entities.Package

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		services, err = u.services.ListServices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		packages, err = u.packages.ListPackages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return services, packages, nil
}

// archiveBriefs copies uploads to the document store. Failures are logged only.
func (u *ProposalUseCase) archiveBriefs(ctx context.Context, proposalID string, files []entities.BriefFile) {
	if u.store == nil || len(files) == 0 {
		return
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, f := range files {
		g.Go(func() error {
			key := briefObjectKey(proposalID, f.Name)
			if err := u.store.Put(gctx, key, f.Data, f.ContentType); err != nil {
				zap.L().Warn("[proposal][usecase] brief archive failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (u *ProposalUseCase) ApplyFieldEdit(_ context.Context, p entities.Proposal, phaseID, lineItemID, field string, value float64) (entities.Proposal, error) {
	f, err := pricing.ParseField(field)
	if err != nil {
		return entities.Proposal{}, err
	}
	out, err := pricing.ApplyFieldEdit(p, strings.TrimSpace(phaseID), strings.TrimSpace(lineItemID), f, value)
	if err != nil {
		return entities.Proposal{}, err
	}
	out.UpdatedAt = u.now()
	return out, nil
}

// ApplyPromptEdit asks the LLM to rewrite p. It either returns a fully
// re-derived replacement or an error; p itself is never modified.
func (u *ProposalUseCase) ApplyPromptEdit(ctx context.Context, p entities.Proposal, instruction string) (entities.Proposal, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return entities.Proposal{}, ErrMissingPrompt
	}
	if p.ID == "" && len(p.Phases) == 0 {
		return entities.Proposal{}, ErrMissingProposal
	}
	zap.L().Info("[proposal][usecase] prompt edit start", zap.String("proposal_id", p.ID), zap.Int("prompt_len", len(instruction)))

	prompt, err := buildPromptEditPrompt(p, instruction)
	if err != nil {
		return entities.Proposal{}, err
	}
	resp, err := u.llm.Complete(ctx, interfaces.CompletionRequest{
		Purpose:   "prompt-edit",
		Prompt:    prompt,
		MaxTokens: u.maxTokens,
	})
	if err != nil {
		zap.L().Error("[proposal][usecase] prompt edit llm call failed", zap.String("proposal_id", p.ID), zap.Error(err))
		return entities.Proposal{}, err
	}

	edited, err := pricing.ParseProposal(resp.Text)
	if err != nil {
		zap.L().Warn("[proposal][usecase] prompt edit response unparseable",
			zap.String("proposal_id", p.ID), zap.Int("response_len", len(resp.Text)))
		return entities.Proposal{}, fmt.Errorf("%w: %w", ErrEditResponseUnparseable, err)
	}

	out := u.reconciler.AdoptEdited(p, edited)
	zap.L().Info("[proposal][usecase] prompt edit success",
		zap.String("proposal_id", out.ID),
		zap.Float64("total_before", p.Total),
		zap.Float64("total_after", out.Total),
	)
	return out, nil
}

func (u *ProposalUseCase) ApplyDiscount(_ context.Context, p entities.Proposal, discount float64) (entities.Proposal, error) {
	out, err := pricing.ApplyDiscount(p, discount)
	if err != nil {
		return entities.Proposal{}, err
	}
	out.UpdatedAt = u.now()
	return out, nil
}

// Save persists a recalculated copy of p. Amounts sent by the caller are never stored as-is.
func (u *ProposalUseCase) Save(ctx context.Context, p entities.Proposal) (entities.Proposal, error) {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		return entities.Proposal{}, ErrInvalidProposalID
	}
	out := pricing.Recalculate(p)
	now := u.now()
	if out.CreatedAt.IsZero() {
		out.CreatedAt = now
	}
	out.UpdatedAt = now

	saved, err := u.proposals.Save(ctx, out)
	if err != nil {
		zap.L().Error("[proposal][usecase] save failed", zap.String("proposal_id", p.ID), zap.Error(err))
		return entities.Proposal{}, err
	}
	zap.L().Info("[proposal][usecase] saved", zap.String("proposal_id", saved.ID), zap.Float64("total", saved.Total))
	return saved, nil
}

func (u *ProposalUseCase) GetByID(ctx context.Context, id string) (entities.Proposal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Proposal{}, ErrInvalidProposalID
	}

	p, err := u.proposals.GetByID(ctx, id)
	if err != nil {
		return entities.Proposal{}, err
	}
	if p.ID == "" {
		return entities.Proposal{}, ErrProposalNotFound
	}
	return p, nil
}
