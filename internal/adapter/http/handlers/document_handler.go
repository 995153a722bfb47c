package handlers

import (
	"errors"
	"net/http"

	request "proposal_builder/internal/adapter/http/dto/request"
	response "proposal_builder/internal/adapter/http/dto/response"
	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/usecase"
	"proposal_builder/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	usecase    usecase.IDocumentUseCase
	creditsURL string
}

func NewDocumentHandler(uc usecase.IDocumentUseCase, creditsURL string) *DocumentHandler {
	return &DocumentHandler{usecase: uc, creditsURL: creditsURL}
}

// Generate writes a sow or client brief for a proposal under review.
func (h *DocumentHandler) Generate(c *gin.Context) {
	var payload request.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	docType := entities.DocumentType(payload.Type)
	doc, err := h.usecase.Generate(c.Request.Context(), usecase.GenerateDocumentInput{
		Type:       docType,
		Proposal:   payload.Proposal.ToEntity(),
		ClientName: payload.ClientName,
		Budget:     payload.Budget,
	})
	if err != nil {
		zap.L().Error("[document][handler] generate failed", zap.String("type", payload.Type), zap.Error(err))
		writeError(c, mapDocumentError(err, h.creditsURL))
		return
	}

	var step entities.WorkflowStep
	if docType == entities.DocumentTypeSOW {
		step, _ = entities.NextStep(entities.WorkflowStepReview, entities.WorkflowEventGenerateSOW)
	}
	c.JSON(http.StatusOK, response.FromDocument(doc, step))
}

// GenerateFromBrief writes an internal document straight from uploaded files.
func (h *DocumentHandler) GenerateFromBrief(c *gin.Context) {
	var form request.BriefDocumentForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	deadline, err := form.ResolveDeadline()
	if err != nil {
		writeError(c, pkg.NewDomainErrorSimple("INVALID_DEADLINE", "Deadline must be YYYY-MM-DD", http.StatusBadRequest))
		return
	}

	var files []entities.BriefFile
	if mf, err := c.MultipartForm(); err == nil && mf != nil {
		files, err = request.ReadBriefFiles(mf.File["files"])
		if err != nil {
			writeError(c, mapDocumentError(err, h.creditsURL))
			return
		}
	}

	doc, err := h.usecase.GenerateFromBrief(c.Request.Context(), usecase.BriefDocumentInput{
		Type:        entities.DocumentType(form.DocumentType),
		ClientName:  form.ClientName,
		ProjectType: form.ProjectType,
		Deadline:    deadline,
		Files:       files,
	})
	if err != nil {
		zap.L().Error("[document][handler] brief document failed", zap.String("type", form.DocumentType), zap.Error(err))
		writeError(c, mapDocumentError(err, h.creditsURL))
		return
	}
	c.JSON(http.StatusOK, response.FromDocument(doc, ""))
}

func (h *DocumentHandler) EditSOW(c *gin.Context) {
	var payload request.EditSOWRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	doc, err := h.usecase.EditSOW(c.Request.Context(), payload.CurrentSOW, payload.Prompt)
	if err != nil {
		writeError(c, mapDocumentError(err, h.creditsURL))
		return
	}
	step, _ := entities.NextStep(entities.WorkflowStepSOWEditor, entities.WorkflowEventEdit)
	c.JSON(http.StatusOK, response.FromDocument(doc, step))
}

func mapDocumentError(err error, creditsURL string) *pkg.AppError {
	if appErr, ok := mapLLMError(err, creditsURL); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrUnsupportedDocumentType):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_DOCUMENT_TYPE", "Unsupported document type", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrMissingClientName),
		errors.Is(err, usecase.ErrMissingProjectType),
		errors.Is(err, usecase.ErrMissingDeadline):
		return pkg.NewDomainErrorSimple("MISSING_REQUIRED_FIELDS", "Client name, project type and deadline are required", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNoBriefFiles):
		return pkg.NewDomainErrorSimple("NO_DOCUMENTS", "At least one document must be uploaded", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNoExtractableText):
		return pkg.NewDomainErrorSimple("NO_EXTRACTABLE_TEXT", "Could not extract text from any uploaded file", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrUnsupportedFileType):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_FILE_TYPE", "Unsupported file type", http.StatusBadRequest)
	case errors.Is(err, request.ErrFileTooLarge):
		return pkg.NewDomainErrorSimple("FILE_TOO_LARGE", "Uploaded file is too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, usecase.ErrMissingProposal), errors.Is(err, usecase.ErrMissingSOW), errors.Is(err, usecase.ErrMissingPrompt):
		return errInvalidRequest
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
