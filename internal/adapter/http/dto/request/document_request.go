package request

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"proposal_builder/internal/domain/entities"
)

var (
	ErrInvalidBudget   = errors.New("invalid budget")
	ErrInvalidDeadline = errors.New("deadline must be YYYY-MM-DD")
	ErrFileTooLarge    = errors.New("uploaded file is too large")
)

// MaxBriefFileBytes caps a single uploaded brief document.
const MaxBriefFileBytes = 10 << 20

const deadlineLayout = "2006-01-02"

// AnalyzeForm is the multipart form of the upload step. Files are read from
// the "files" field separately.
type AnalyzeForm struct {
	ClientName        string `form:"client_name"`
	Budget            string `form:"budget"`
	ProjectType       string `form:"project_type"`
	AdditionalContext string `form:"additional_context"`
}

// ResolveBudget parses the budget field. Blank becomes zero so the usecase can
// report a missing budget; a non-number is an error.
func (f AnalyzeForm) ResolveBudget() (float64, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(f.Budget, ",", ""))
	raw = strings.TrimPrefix(raw, "$")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ErrInvalidBudget
	}
	return v, nil
}

// BriefDocumentForm is the multipart form for brief-derived documents.
type BriefDocumentForm struct {
	ClientName   string `form:"client_name"`
	ProjectType  string `form:"project_type"`
	Deadline     string `form:"deadline"`
	DocumentType string `form:"document_type"`
}

// ResolveDeadline parses the deadline; blank yields the zero time.
func (f BriefDocumentForm) ResolveDeadline() (time.Time, error) {
	raw := strings.TrimSpace(f.Deadline)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(deadlineLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDeadline
	}
	return t, nil
}

// ReadBriefFiles loads uploaded files into memory.
func ReadBriefFiles(headers []*multipart.FileHeader) ([]entities.BriefFile, error) {
	files := make([]entities.BriefFile, 0, len(headers))
	for _, h := range headers {
		if h.Size > MaxBriefFileBytes {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, h.Filename)
		}
		f, err := h.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, MaxBriefFileBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		if len(data) > MaxBriefFileBytes {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, h.Filename)
		}
		files = append(files, entities.BriefFile{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

// GenerateDocumentRequest asks for a sow or brief from a proposal.
type GenerateDocumentRequest struct {
	Type       string          `json:"type" binding:"required"`
	Proposal   ProposalRequest `json:"proposal"`
	ClientName string          `json:"client_name"`
	Budget     float64         `json:"budget"`
}

type EditSOWRequest struct {
	CurrentSOW string `json:"current_sow"`
	Prompt     string `json:"prompt"`
}
