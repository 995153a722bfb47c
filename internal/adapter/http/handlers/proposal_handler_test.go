package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"proposal_builder/internal/adapter/http/handlers/mocks"
	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

const proposalJSON = `{"id":"proposal-1","client_name":"Acme Corp","phases":[{"id":"phase-1","name":"Creative","line_items":[{"id":"item-1","name":"Design","hours":5,"rate":100}]}]}`

func reviewedProposal() entities.Proposal {
	return entities.Proposal{
		ID:         "proposal-1",
		ClientName: "Acme Corp",
		Phases: []entities.Phase{{
			ID: "phase-1", Name: "Creative", TotalCost: 1000,
			LineItems: []entities.LineItem{{ID: "item-1", Name: "Design", Hours: 10, Rate: 100, Cost: 1000, IsEdited: true}},
		}},
		Subtotal: 1000,
		Total:    1000,
	}
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		fw.Write([]byte(content))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body: %v (%s)", err, w.Body.String())
	}
	return out
}

func TestProposalHandler_Analyze(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("non numeric budget", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		r := gin.New()
		r.POST("/v1/proposals/analyze", h.Analyze)

		body, ct := multipartBody(t, map[string]string{"client_name": "Acme", "budget": "lots"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/proposals/analyze", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("passes form and files to usecase", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		uc.EXPECT().Analyze(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in usecase.AnalyzeInput) (usecase.AnalyzeResult, error) {
				if in.ClientName != "Acme" || in.Budget != 25000 || in.ProjectType != "branding" {
					t.Fatalf("unexpected input: %+v", in)
				}
				if len(in.Files) != 1 || in.Files[0].Name != "brief.txt" || string(in.Files[0].Data) != "we need a logo" {
					t.Fatalf("unexpected files: %+v", in.Files)
				}
				return usecase.AnalyzeResult{
					Suggestion: entities.Suggestion{UsePackages: true},
					Proposal:   reviewedProposal(),
					Step:       entities.WorkflowStepReview,
				}, nil
			})

		r := gin.New()
		r.POST("/v1/proposals/analyze", h.Analyze)

		body, ct := multipartBody(t,
			map[string]string{"client_name": "Acme", "budget": "$25,000", "project_type": "branding"},
			map[string]string{"brief.txt": "we need a logo"})
		req := httptest.NewRequest(http.MethodPost, "/v1/proposals/analyze", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"step":"review"`) {
			t.Fatalf("expected review step, got %s", w.Body.String())
		}
	})

	t.Run("credits exhausted carries remediation and upload step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "https://console.example.com/billing")

		uc.EXPECT().Analyze(gomock.Any(), gomock.Any()).
			Return(usecase.AnalyzeResult{}, fmt.Errorf("analyze: %w", usecase.ErrLLMCreditsExhausted))

		r := gin.New()
		r.POST("/v1/proposals/analyze", h.Analyze)

		body, ct := multipartBody(t, map[string]string{"client_name": "Acme", "budget": "5000"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/proposals/analyze", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusPaymentRequired {
			t.Fatalf("expected 402, got %d", w.Code)
		}
		out := decodeError(t, w)
		if out["code"] != "LLM_CREDITS_EXHAUSTED" {
			t.Fatalf("unexpected code: %v", out["code"])
		}
		details, _ := out["details"].(map[string]any)
		if details["remediation_url"] != "https://console.example.com/billing" || details["step"] != "upload" {
			t.Fatalf("unexpected details: %v", details)
		}
	})

	t.Run("missing client name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		uc.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(usecase.AnalyzeResult{}, usecase.ErrMissingClientName)

		r := gin.New()
		r.POST("/v1/proposals/analyze", h.Analyze)

		body, ct := multipartBody(t, map[string]string{"budget": "5000"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/proposals/analyze", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestProposalHandler_FieldEdit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing value", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		r := gin.New()
		r.POST("/v1/proposals/field-edit", h.FieldEdit)

		payload := `{"proposal":` + proposalJSON + `,"phase_id":"phase-1","line_item_id":"item-1","field":"hours"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/proposals/field-edit", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("zero value is accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		uc.EXPECT().ApplyFieldEdit(gomock.Any(), gomock.Any(), "phase-1", "item-1", "rate", 0.0).
			Return(reviewedProposal(), nil)

		r := gin.New()
		r.POST("/v1/proposals/field-edit", h.FieldEdit)

		payload := `{"proposal":` + proposalJSON + `,"phase_id":"phase-1","line_item_id":"item-1","field":"rate","value":0}`
		req := httptest.NewRequest(http.MethodPost, "/v1/proposals/field-edit", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
		}
	})

	t.Run("unknown field maps to 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		uc.EXPECT().ApplyFieldEdit(gomock.Any(), gomock.Any(), "phase-1", "item-1", "name", 3.0).
			Return(entities.Proposal{}, usecase.ErrInvalidEditField)

		r := gin.New()
		r.POST("/v1/proposals/field-edit", h.FieldEdit)

		payload := `{"proposal":` + proposalJSON + `,"phase_id":"phase-1","line_item_id":"item-1","field":"name","value":3}`
		req := httptest.NewRequest(http.MethodPost, "/v1/proposals/field-edit", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if out := decodeError(t, w); out["code"] != "INVALID_EDIT_FIELD" {
			t.Fatalf("unexpected code: %v", out["code"])
		}
	})

	t.Run("success stays in review", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		uc.EXPECT().ApplyFieldEdit(gomock.Any(), gomock.Any(), "phase-1", "item-1", "hours", 10.0).
			DoAndReturn(func(_ context.Context, p entities.Proposal, _, _, _ string, _ float64) (entities.Proposal, error) {
				if p.ID != "proposal-1" || len(p.Phases) != 1 {
					t.Fatalf("unexpected proposal: %+v", p)
				}
				return reviewedProposal(), nil
			})

		r := gin.New()
		r.POST("/v1/proposals/field-edit", h.FieldEdit)

		payload := `{"proposal":` + proposalJSON + `,"phase_id":"phase-1","line_item_id":"item-1","field":"hours","value":10}`
		req := httptest.NewRequest(http.MethodPost, "/v1/proposals/field-edit", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var out struct {
			Step     string `json:"step"`
			Proposal struct {
				Total float64 `json:"total"`
			} `json:"proposal"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Step != "review" || out.Proposal.Total != 1000 {
			t.Fatalf("unexpected body: %+v", out)
		}
	})
}

func TestProposalHandler_PromptEdit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "unparseable", err: usecase.ErrEditResponseUnparseable, status: http.StatusBadGateway, code: "EDIT_RESPONSE_UNPARSEABLE"},
		{name: "llm unavailable", err: usecase.ErrLLMUnavailable, status: http.StatusBadGateway, code: "LLM_UNAVAILABLE"},
		{name: "missing prompt", err: usecase.ErrMissingPrompt, status: http.StatusBadRequest, code: "INVALID_REQUEST"},
		{name: "unexpected", err: fmt.Errorf("boom"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			uc := mocks.NewMockIProposalUseCase(ctrl)
			h := NewProposalHandler(uc, "")

			uc.EXPECT().ApplyPromptEdit(gomock.Any(), gomock.Any(), "double design").Return(entities.Proposal{}, tc.err)

			r := gin.New()
			r.POST("/v1/proposals/prompt-edit", h.PromptEdit)

			payload := `{"proposal":` + proposalJSON + `,"prompt":"double design"}`
			req := httptest.NewRequest(http.MethodPost, "/v1/proposals/prompt-edit", bytes.NewBufferString(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			if out := decodeError(t, w); out["code"] != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, out["code"])
			}
		})
	}
}

func TestProposalHandler_Discount(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIProposalUseCase(ctrl)
	h := NewProposalHandler(uc, "")

	uc.EXPECT().ApplyDiscount(gomock.Any(), gomock.Any(), 5000.0).Return(entities.Proposal{}, usecase.ErrDiscountTooLarge)

	r := gin.New()
	r.POST("/v1/proposals/discount", h.Discount)

	payload := `{"proposal":` + proposalJSON + `,"discount":5000}`
	req := httptest.NewRequest(http.MethodPost, "/v1/proposals/discount", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestProposalHandler_Save(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		r := gin.New()
		r.POST("/v1/proposals", h.Save)

		req := httptest.NewRequest(http.MethodPost, "/v1/proposals", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("created with done step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		uc.EXPECT().Save(gomock.Any(), gomock.Any()).Return(reviewedProposal(), nil)

		r := gin.New()
		r.POST("/v1/proposals", h.Save)

		req := httptest.NewRequest(http.MethodPost, "/v1/proposals", bytes.NewBufferString(proposalJSON))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"step":"done"`) {
			t.Fatalf("expected done step, got %s", w.Body.String())
		}
	})
}

func TestProposalHandler_GetByID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		uc.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.Proposal{}, usecase.ErrProposalNotFound)

		r := gin.New()
		r.GET("/v1/proposals/:id", h.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/v1/proposals/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("ok", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIProposalUseCase(ctrl)
		h := NewProposalHandler(uc, "")

		uc.EXPECT().GetByID(gomock.Any(), "proposal-1").Return(reviewedProposal(), nil)

		r := gin.New()
		r.GET("/v1/proposals/:id", h.GetByID)

		req := httptest.NewRequest(http.MethodGet, "/v1/proposals/proposal-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestProposalHandler_Export(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIProposalUseCase(ctrl)
	h := NewProposalHandler(uc, "")
	h.now = func() time.Time { return time.Unix(1767225600, 0) }

	uc.EXPECT().GetByID(gomock.Any(), "proposal-1").Return(reviewedProposal(), nil)

	r := gin.New()
	r.GET("/v1/proposals/:id/export", h.Export)

	req := httptest.NewRequest(http.MethodGet, "/v1/proposals/proposal-1/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := `attachment; filename="proposal-acme-corp-1767225600.json"`
	if got := w.Header().Get("Content-Disposition"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("export is not json: %v", err)
	}
	if out["id"] != "proposal-1" {
		t.Fatalf("unexpected export: %v", out)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme Corp":        "acme-corp",
		"  Globex & Sons ": "globex-sons",
		"???":              "client",
		"":                 "client",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
