package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	request "proposal_builder/internal/adapter/http/dto/request"
	response "proposal_builder/internal/adapter/http/dto/response"
	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/usecase"
	"proposal_builder/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errInvalidProposalPayload = pkg.NewDomainErrorSimple("INVALID_PROPOSAL_INPUT", "Invalid proposal payload", http.StatusBadRequest)

// ProposalHandler serves the upload, review and save steps of the builder.
type ProposalHandler struct {
	usecase    usecase.IProposalUseCase
	creditsURL string
	now        func() time.Time
}

func NewProposalHandler(uc usecase.IProposalUseCase, creditsURL string) *ProposalHandler {
	return &ProposalHandler{usecase: uc, creditsURL: creditsURL, now: time.Now}
}

// Analyze runs the upload step: multipart form in, suggestion and proposal out.
func (h *ProposalHandler) Analyze(c *gin.Context) {
	var form request.AnalyzeForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	budget, err := form.ResolveBudget()
	if err != nil {
		writeError(c, pkg.NewDomainErrorSimple("INVALID_BUDGET", "Budget must be a number", http.StatusBadRequest))
		return
	}

	var files []entities.BriefFile
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		files, err = request.ReadBriefFiles(mf.File["files"])
		if err != nil {
			zap.L().Warn("[proposal][handler] reading uploads failed", zap.Error(err))
			writeError(c, mapProposalError(err, h.creditsURL))
			return
		}
	}

	res, err := h.usecase.Analyze(c.Request.Context(), usecase.AnalyzeInput{
		ClientName:        form.ClientName,
		Budget:            budget,
		ProjectType:       form.ProjectType,
		AdditionalContext: form.AdditionalContext,
		Files:             files,
	})
	if err != nil {
		zap.L().Error("[proposal][handler] analyze failed", zap.Error(err))
		appErr := mapProposalError(err, h.creditsURL)
		if step, stepErr := entities.NextStep(entities.WorkflowStepAnalyzing, entities.WorkflowEventAnalysisFailed); stepErr == nil {
			appErr = appErr.WithDetail("step", string(step))
		}
		writeError(c, appErr)
		return
	}

	c.JSON(http.StatusOK, response.FromAnalyze(res.Suggestion, res.Proposal, res.Step))
}

func (h *ProposalHandler) FieldEdit(c *gin.Context) {
	var payload request.FieldEditRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidProposalPayload)
		return
	}
	if payload.Proposal.IsEmpty() {
		writeError(c, errInvalidProposalPayload)
		return
	}

	out, err := h.usecase.ApplyFieldEdit(c.Request.Context(), payload.Proposal.ToEntity(),
		payload.PhaseID, payload.LineItemID, payload.Field, *payload.Value)
	if err != nil {
		writeError(c, mapProposalError(err, h.creditsURL))
		return
	}
	h.reviewResponse(c, out, entities.WorkflowEventEdit)
}

func (h *ProposalHandler) PromptEdit(c *gin.Context) {
	var payload request.PromptEditRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidProposalPayload)
		return
	}

	out, err := h.usecase.ApplyPromptEdit(c.Request.Context(), payload.Proposal.ToEntity(), payload.Prompt)
	if err != nil {
		zap.L().Warn("[proposal][handler] prompt edit failed", zap.String("proposal_id", payload.Proposal.ID), zap.Error(err))
		writeError(c, mapProposalError(err, h.creditsURL))
		return
	}
	h.reviewResponse(c, out, entities.WorkflowEventEdit)
}

func (h *ProposalHandler) Discount(c *gin.Context) {
	var payload request.DiscountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidProposalPayload)
		return
	}

	out, err := h.usecase.ApplyDiscount(c.Request.Context(), payload.Proposal.ToEntity(), *payload.Discount)
	if err != nil {
		writeError(c, mapProposalError(err, h.creditsURL))
		return
	}
	h.reviewResponse(c, out, entities.WorkflowEventEdit)
}

// Save is the terminal action of the review step.
func (h *ProposalHandler) Save(c *gin.Context) {
	var payload request.ProposalRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidProposalPayload)
		return
	}

	saved, err := h.usecase.Save(c.Request.Context(), payload.ToEntity())
	if err != nil {
		writeError(c, mapProposalError(err, h.creditsURL))
		return
	}
	step, _ := entities.NextStep(entities.WorkflowStepReview, entities.WorkflowEventSave)
	c.JSON(http.StatusCreated, response.FromProposalStep(saved, step))
}

func (h *ProposalHandler) GetByID(c *gin.Context) {
	p, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapProposalError(err, h.creditsURL))
		return
	}
	c.JSON(http.StatusOK, response.FromProposal(p))
}

// Export downloads a saved proposal as a JSON file.
func (h *ProposalHandler) Export(c *gin.Context) {
	p, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapProposalError(err, h.creditsURL))
		return
	}
	body, err := json.MarshalIndent(response.FromProposal(p), "", "  ")
	if err != nil {
		writeError(c, errInternal)
		return
	}

	filename := fmt.Sprintf("proposal-%s-%d.json", slugify(p.ClientName), h.now().Unix())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/json", body)
}

func (h *ProposalHandler) reviewResponse(c *gin.Context, p entities.Proposal, event entities.WorkflowEvent) {
	step, err := entities.NextStep(entities.WorkflowStepReview, event)
	if err != nil {
		writeError(c, errInternal)
		return
	}
	c.JSON(http.StatusOK, response.FromProposalStep(p, step))
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if slug == "" {
		return "client"
	}
	return slug
}

func mapProposalError(err error, creditsURL string) *pkg.AppError {
	if appErr, ok := mapLLMError(err, creditsURL); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrMissingClientName):
		return pkg.NewDomainErrorSimple("MISSING_CLIENT_NAME", "Client name is required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidBudget):
		return pkg.NewDomainErrorSimple("INVALID_BUDGET", "Budget must be greater than zero", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnsupportedFileType):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_FILE_TYPE", "Unsupported file type", http.StatusBadRequest)
	case errors.Is(err, request.ErrFileTooLarge):
		return pkg.NewDomainErrorSimple("FILE_TOO_LARGE", "Uploaded file is too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, usecase.ErrInvalidEditField):
		return pkg.NewDomainErrorSimple("INVALID_EDIT_FIELD", "Field must be hours or rate", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNegativeValue):
		return pkg.NewDomainErrorSimple("NEGATIVE_VALUE", "Value must not be negative", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrDiscountTooLarge):
		return pkg.NewDomainErrorSimple("DISCOUNT_TOO_LARGE", "Discount exceeds subtotal", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrMissingPrompt), errors.Is(err, usecase.ErrMissingProposal), errors.Is(err, usecase.ErrInvalidProposalID):
		return errInvalidRequest
	case errors.Is(err, usecase.ErrEditResponseUnparseable):
		return pkg.NewDomainError("EDIT_RESPONSE_UNPARSEABLE", "Failed to parse edit response", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrProposalNotFound):
		return pkg.NewDomainErrorSimple("PROPOSAL_NOT_FOUND", "Proposal not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrCatalogUnavailable):
		return pkg.NewDomainError("CATALOG_UNAVAILABLE", "Pricing catalog could not be loaded", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
