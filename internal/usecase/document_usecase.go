package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
	ErrMissingProjectType      = errors.New("project type is required")
	ErrMissingDeadline         = errors.New("deadline is required")
	ErrNoBriefFiles            = errors.New("at least one document must be uploaded")
	ErrNoExtractableText       = errors.New("could not extract text from any uploaded file")
	ErrMissingSOW              = errors.New("current sow is required")
)

// GenerateDocumentInput asks for prose derived from a proposal.
// ClientName and Budget fall back to the proposal's own values.
type GenerateDocumentInput struct {
	Type       entities.DocumentType
	Proposal   entities.Proposal
	ClientName string
	Budget     float64
}

// BriefDocumentInput asks for prose derived straight from uploaded files.
type BriefDocumentInput struct {
	Type        entities.DocumentType
	ClientName  string
	ProjectType string
	Deadline    time.Time
	Files       []entities.BriefFile
}

// IDocumentUseCase exposes LLM document generation.
type IDocumentUseCase interface {
	Generate(ctx context.Context, in GenerateDocumentInput) (entities.Document, error)
	GenerateFromBrief(ctx context.Context, in BriefDocumentInput) (entities.Document, error)
	EditSOW(ctx context.Context, currentSOW, instruction string) (entities.Document, error)
}

type DocumentUseCase struct {
	llm       interfaces.ILLMGateway
	services  interfaces.IServiceCatalogRepository
	maxTokens int64
}

var _ IDocumentUseCase = (*DocumentUseCase)(nil)

// NewDocumentUseCase builds the document generator. services is optional and
// only feeds agency rates into brief-derived documents.
func NewDocumentUseCase(llm interfaces.ILLMGateway, services interfaces.IServiceCatalogRepository) *DocumentUseCase {
	return &DocumentUseCase{llm: llm, services: services, maxTokens: defaultMaxTokens}
}

func (u *DocumentUseCase) Generate(ctx context.Context, in GenerateDocumentInput) (entities.Document, error) {
	if !in.Type.IsProposalDocument() {
		return entities.Document{}, ErrUnsupportedDocumentType
	}
	if in.Proposal.ID == "" && len(in.Proposal.Phases) == 0 {
		return entities.Document{}, ErrMissingProposal
	}
	clientName := strings.TrimSpace(in.ClientName)
	if clientName == "" {
		clientName = in.Proposal.ClientName
	}
	budget := in.Budget
	if budget <= 0 {
		budget = in.Proposal.Budget
	}

	prompt, err := buildProposalDocumentPrompt(in.Type, in.Proposal, clientName, budget)
	if err != nil {
		return entities.Document{}, err
	}
	return u.complete(ctx, in.Type, interfaces.CompletionRequest{
		Purpose:   string(in.Type),
		Prompt:    prompt,
		MaxTokens: u.maxTokens,
	})
}

func (u *DocumentUseCase) GenerateFromBrief(ctx context.Context, in BriefDocumentInput) (entities.Document, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ProjectType = strings.TrimSpace(in.ProjectType)
	switch {
	case in.ClientName == "":
		return entities.Document{}, ErrMissingClientName
	case in.ProjectType == "":
		return entities.Document{}, ErrMissingProjectType
	case in.Deadline.IsZero():
		return entities.Document{}, ErrMissingDeadline
	case !in.Type.IsBriefDocument():
		return entities.Document{}, ErrUnsupportedDocumentType
	case len(in.Files) == 0:
		return entities.Document{}, ErrNoBriefFiles
	}
	if err := validateBriefFiles(in.Files); err != nil {
		return entities.Document{}, err
	}
	documents := extractDocuments(in.Files)
	if len(documents) == 0 {
		return entities.Document{}, ErrNoExtractableText
	}

	var services []entities.Service
	if u.services != nil {
		list, err := u.services.ListServices(ctx)
		if err != nil {
			// rates are context only; generate without them
			zap.L().Warn("[document][usecase] service catalog unavailable", zap.Error(err))
		} else {
			services = groupedServices(list)
		}
	}

	prompt, err := buildBriefDocumentPrompt(in.Type, briefPromptData{
		Documents:   strings.Join(documents, "\n\n"),
		ClientName:  in.ClientName,
		ProjectType: in.ProjectType,
		Deadline:    in.Deadline.Format("January 2, 2006"),
		Services:    services,
	})
	if err != nil {
		return entities.Document{}, err
	}
	return u.complete(ctx, in.Type, interfaces.CompletionRequest{
		Purpose:   string(in.Type),
		System:    documentSystemPrompt,
		Prompt:    prompt,
		MaxTokens: briefDocumentTokens[in.Type],
	})
}

func (u *DocumentUseCase) EditSOW(ctx context.Context, currentSOW, instruction string) (entities.Document, error) {
	if strings.TrimSpace(currentSOW) == "" {
		return entities.Document{}, ErrMissingSOW
	}
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return entities.Document{}, ErrMissingPrompt
	}

	prompt, err := buildEditSOWPrompt(currentSOW, instruction)
	if err != nil {
		return entities.Document{}, err
	}
	return u.complete(ctx, entities.DocumentTypeSOW, interfaces.CompletionRequest{
		Purpose:   "edit-sow",
		Prompt:    prompt,
		MaxTokens: u.maxTokens,
	})
}

func (u *DocumentUseCase) complete(ctx context.Context, docType entities.DocumentType, req interfaces.CompletionRequest) (entities.Document, error) {
	zap.L().Info("[document][usecase] generate start", zap.String("purpose", req.Purpose), zap.Int64("max_tokens", req.MaxTokens))
	resp, err := u.llm.Complete(ctx, req)
	if err != nil {
		zap.L().Error("[document][usecase] generate failed", zap.String("purpose", req.Purpose), zap.Error(err))
		return entities.Document{}, err
	}
	return entities.Document{Type: docType, Content: resp.Text}, nil
}

// groupedServices flattens the catalog back out in category order.
func groupedServices(list []entities.Service) []entities.Service {
	var out []entities.Service
	for _, g := range groupServices(list) {
		out = append(out, g.Services...)
	}
	return out
}
