package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/domain/pricing"
	"proposal_builder/internal/usecase/interfaces"
	mock_interfaces "proposal_builder/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testReconciler() *pricing.Reconciler {
	var mu sync.Mutex
	n := 0
	return pricing.NewReconciler(
		pricing.WithIDGenerator(func(kind string) string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("%s-%d", kind, n)
		}),
		pricing.WithClock(func() time.Time { return fixedNow }),
	)
}

type proposalMocks struct {
	services  *mock_interfaces.MockIServiceCatalogRepository
	packages  *mock_interfaces.MockIPackageCatalogRepository
	proposals *mock_interfaces.MockIProposalRepository
	llm       *mock_interfaces.MockILLMGateway
	store     *mock_interfaces.MockIDocumentStore
}

func newProposalUseCase(t *testing.T) (*ProposalUseCase, proposalMocks) {
	ctrl := gomock.NewController(t)
	m := proposalMocks{
		services:  mock_interfaces.NewMockIServiceCatalogRepository(ctrl),
		packages:  mock_interfaces.NewMockIPackageCatalogRepository(ctrl),
		proposals: mock_interfaces.NewMockIProposalRepository(ctrl),
		llm:       mock_interfaces.NewMockILLMGateway(ctrl),
		store:     mock_interfaces.NewMockIDocumentStore(ctrl),
	}
	uc := NewProposalUseCase(m.services, m.packages, m.proposals, m.llm,
		WithDocumentStore(m.store),
		WithReconciler(testReconciler()),
		WithProposalClock(func() time.Time { return fixedNow }),
	)
	return uc, m
}

func catalogServices() []entities.Service {
	return []entities.Service{
		{Name: "Account Service", Category: "management", DefaultRate: 100, BillingUnit: "hour"},
		{Name: "Creative Design", Category: "creative", DefaultRate: 150, BillingUnit: "hour"},
		{Name: "Copywriting", Category: "creative", DefaultRate: 150, BillingUnit: "hour"},
	}
}

func catalogPackages() []entities.Package {
	return []entities.Package{{
		ID:   "pkg-branding-1",
		Name: "Branding Tier I",
		Phases: []entities.PackagePhase{
			{Name: "Discovery", LineItems: []entities.PackageLineItem{{Name: "Brand Audit", Hours: 10, Rate: 150, Cost: 1500}}},
			{Name: "Design", LineItems: []entities.PackageLineItem{
				{Name: "Logo Design", Hours: 20, Rate: 150, Cost: 3000},
				{Name: "Brand Guidelines", Hours: 10, Rate: 155, Cost: 1550},
			}},
		},
	}}
}

func sampleProposal() entities.Proposal {
	return pricing.Recalculate(entities.Proposal{
		ID:         "proposal-1",
		ClientName: "Acme",
		Budget:     5000,
		Mode:       entities.ProposalModeCustom,
		CreatedAt:  fixedNow.Add(-time.Hour),
		Phases: []entities.Phase{{
			ID:   "phase-1",
			Name: "Creative Services",
			LineItems: []entities.LineItem{
				{ID: "item-1", Name: "Creative Design", Hours: 5, Rate: 100},
				{ID: "item-2", Name: "Copywriting", Hours: 2, Rate: 150},
			},
		}},
	})
}

func TestProposalUseCase_Analyze_Validations(t *testing.T) {
	t.Run("missing client name", func(t *testing.T) {
		uc := NewProposalUseCase(nil, nil, nil, nil)
		_, err := uc.Analyze(context.Background(), AnalyzeInput{ClientName: "  ", Budget: 1000})
		if !errors.Is(err, ErrMissingClientName) {
			t.Fatalf("expected ErrMissingClientName, got %v", err)
		}
	})

	t.Run("invalid budget", func(t *testing.T) {
		uc := NewProposalUseCase(nil, nil, nil, nil)
		_, err := uc.Analyze(context.Background(), AnalyzeInput{ClientName: "Acme", Budget: 0})
		if !errors.Is(err, ErrInvalidBudget) {
			t.Fatalf("expected ErrInvalidBudget, got %v", err)
		}
	})

	t.Run("unsupported file", func(t *testing.T) {
		uc := NewProposalUseCase(nil, nil, nil, nil)
		_, err := uc.Analyze(context.Background(), AnalyzeInput{
			ClientName: "Acme",
			Budget:     1000,
			Files:      []entities.BriefFile{{Name: "setup.exe", Data: []byte("MZ")}},
		})
		if !errors.Is(err, ErrUnsupportedFileType) {
			t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
		}
	})
}

func TestProposalUseCase_Analyze_CatalogFailure(t *testing.T) {
	uc, m := newProposalUseCase(t)
	m.services.EXPECT().ListServices(gomock.Any()).Return(nil, errors.New("dynamo down"))
	m.packages.EXPECT().ListPackages(gomock.Any()).Return(catalogPackages(), nil).MaxTimes(1)

	_, err := uc.Analyze(context.Background(), AnalyzeInput{ClientName: "Acme", Budget: 1000})
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestProposalUseCase_Analyze_LLMFailure(t *testing.T) {
	uc, m := newProposalUseCase(t)
	m.services.EXPECT().ListServices(gomock.Any()).Return(catalogServices(), nil)
	m.packages.EXPECT().ListPackages(gomock.Any()).Return(catalogPackages(), nil)
	m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).
		Return(interfaces.CompletionResponse{}, fmt.Errorf("%w: credit balance is too low", interfaces.ErrLLMCreditsExhausted))

	_, err := uc.Analyze(context.Background(), AnalyzeInput{ClientName: "Acme", Budget: 1000})
	if !errors.Is(err, ErrLLMCreditsExhausted) {
		t.Fatalf("expected ErrLLMCreditsExhausted, got %v", err)
	}
}

func TestProposalUseCase_Analyze_Packages(t *testing.T) {
	uc, m := newProposalUseCase(t)
	m.services.EXPECT().ListServices(gomock.Any()).Return(catalogServices(), nil)
	m.packages.EXPECT().ListPackages(gomock.Any()).Return(catalogPackages(), nil)
	m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req interfaces.CompletionRequest) (interfaces.CompletionResponse, error) {
			if req.Purpose != "analyze" || req.MaxTokens != defaultMaxTokens {
				t.Fatalf("unexpected request: %+v", req)
			}
			for _, want := range []string{
				"- Client: Acme",
				"- Budget: $8,000",
				"--- brief.md ---\nWe need a brand refresh\n",
				"MANAGEMENT:",
				"  - Creative Design: $150/hour",
				`"name": "Branding Tier I"`,
			} {
				if !strings.Contains(req.Prompt, want) {
					t.Fatalf("prompt missing %q:\n%s", want, req.Prompt)
				}
			}
			if strings.Contains(req.Prompt, "%PDF") {
				t.Fatalf("binary upload leaked into prompt")
			}
			return interfaces.CompletionResponse{Text: "Here you go\n```json\n" +
				`{"usePackages": true, "packages": [{"name": "Branding Tier I"}, {"name": "Ghost"}], "reasoning": "fits"}` +
				"\n```"}, nil
		},
	)

	var keys []string
	var mu sync.Mutex
	m.store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(_ context.Context, key string, _ []byte, _ string) error {
			mu.Lock()
			defer mu.Unlock()
			keys = append(keys, key)
			if strings.HasSuffix(key, ".pdf") {
				return errors.New("bucket full")
			}
			return nil
		},
	)

	res, err := uc.Analyze(context.Background(), AnalyzeInput{
		ClientName:  " Acme ",
		Budget:      8000,
		ProjectType: "Branding",
		Files: []entities.BriefFile{
			{Name: "brief.md", ContentType: "text/markdown", Data: []byte("We need a brand refresh")},
			{Name: "deck.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Step != entities.WorkflowStepReview {
		t.Fatalf("expected review step, got %s", res.Step)
	}
	if res.Suggestion.Degraded || res.Suggestion.Reasoning != "fits" {
		t.Fatalf("unexpected suggestion: %+v", res.Suggestion)
	}
	p := res.Proposal
	if p.Mode != entities.ProposalModePackages || p.ClientName != "Acme" || p.Budget != 8000 {
		t.Fatalf("unexpected proposal header: %+v", p)
	}
	if p.Subtotal != 6050 || p.Total != 6050 || len(p.Phases) != 2 {
		t.Fatalf("unexpected totals: subtotal=%v total=%v phases=%d", p.Subtotal, p.Total, len(p.Phases))
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 archived files, got %v", keys)
	}
	for _, k := range keys {
		if !strings.HasPrefix(k, "briefs/"+p.ID+"/") {
			t.Fatalf("unexpected object key %s", k)
		}
	}
}

func TestProposalUseCase_Analyze_DegradedFallsBackToCustomBuild(t *testing.T) {
	uc, m := newProposalUseCase(t)
	m.services.EXPECT().ListServices(gomock.Any()).Return(catalogServices(), nil)
	m.packages.EXPECT().ListPackages(gomock.Any()).Return(nil, nil)
	m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(interfaces.CompletionResponse{Text: "I am not sure."}, nil)

	res, err := uc.Analyze(context.Background(), AnalyzeInput{ClientName: "Acme", Budget: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Suggestion.Degraded || res.Suggestion.Reasoning != "I am not sure." {
		t.Fatalf("expected degraded suggestion, got %+v", res.Suggestion)
	}
	if res.Proposal.Mode != entities.ProposalModeCustom || res.Proposal.LineItemCount() != 3 {
		t.Fatalf("expected zero-filled custom build, got %+v", res.Proposal)
	}
	if res.Proposal.Total != 0 {
		t.Fatalf("expected zero total, got %v", res.Proposal.Total)
	}
}

func TestProposalUseCase_ApplyFieldEdit(t *testing.T) {
	uc := NewProposalUseCase(nil, nil, nil, nil, WithProposalClock(func() time.Time { return fixedNow }))

	t.Run("invalid field", func(t *testing.T) {
		_, err := uc.ApplyFieldEdit(context.Background(), sampleProposal(), "phase-1", "item-1", "cost", 1)
		if !errors.Is(err, ErrInvalidEditField) {
			t.Fatalf("expected ErrInvalidEditField, got %v", err)
		}
	})

	t.Run("negative value", func(t *testing.T) {
		_, err := uc.ApplyFieldEdit(context.Background(), sampleProposal(), "phase-1", "item-1", "hours", -2)
		if !errors.Is(err, ErrNegativeValue) {
			t.Fatalf("expected ErrNegativeValue, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		out, err := uc.ApplyFieldEdit(context.Background(), sampleProposal(), "phase-1", "item-1", "hours", 8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		item := out.Phases[0].LineItems[0]
		if item.Cost != 800 || !item.IsEdited {
			t.Fatalf("unexpected item: %+v", item)
		}
		if out.Subtotal != 1100 || out.Total != 1100 || !out.UpdatedAt.Equal(fixedNow) {
			t.Fatalf("unexpected proposal: %+v", out)
		}
	})
}

func TestProposalUseCase_ApplyPromptEdit(t *testing.T) {
	t.Run("missing prompt", func(t *testing.T) {
		uc := NewProposalUseCase(nil, nil, nil, nil)
		_, err := uc.ApplyPromptEdit(context.Background(), sampleProposal(), "  ")
		if !errors.Is(err, ErrMissingPrompt) {
			t.Fatalf("expected ErrMissingPrompt, got %v", err)
		}
	})

	t.Run("missing proposal", func(t *testing.T) {
		uc := NewProposalUseCase(nil, nil, nil, nil)
		_, err := uc.ApplyPromptEdit(context.Background(), entities.Proposal{}, "add QA")
		if !errors.Is(err, ErrMissingProposal) {
			t.Fatalf("expected ErrMissingProposal, got %v", err)
		}
	})

	t.Run("llm unavailable", func(t *testing.T) {
		uc, m := newProposalUseCase(t)
		m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(interfaces.CompletionResponse{}, interfaces.ErrLLMUnavailable)

		_, err := uc.ApplyPromptEdit(context.Background(), sampleProposal(), "add QA")
		if !errors.Is(err, ErrLLMUnavailable) {
			t.Fatalf("expected ErrLLMUnavailable, got %v", err)
		}
	})

	t.Run("unparseable response leaves input untouched", func(t *testing.T) {
		uc, m := newProposalUseCase(t)
		m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).Return(interfaces.CompletionResponse{Text: "Sorry, I cannot."}, nil)

		in := sampleProposal()
		before := in.Clone()
		_, err := uc.ApplyPromptEdit(context.Background(), in, "add QA")
		if !errors.Is(err, ErrEditResponseUnparseable) {
			t.Fatalf("expected ErrEditResponseUnparseable, got %v", err)
		}
		if in.Total != before.Total || in.Phases[0].LineItems[0].Hours != before.Phases[0].LineItems[0].Hours {
			t.Fatalf("input proposal was modified")
		}
	})

	t.Run("success re-derives totals", func(t *testing.T) {
		uc, m := newProposalUseCase(t)
		m.llm.EXPECT().Complete(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req interfaces.CompletionRequest) (interfaces.CompletionResponse, error) {
				if req.Purpose != "prompt-edit" || !strings.Contains(req.Prompt, `"add QA"`) || !strings.Contains(req.Prompt, `"id": "item-1"`) {
					t.Fatalf("unexpected request: %+v", req)
				}
				return interfaces.CompletionResponse{Text: "```json\n" + `{
				  "id": "proposal-1",
				  "client_name": "Acme",
				  "phases": [{"id": "phase-1", "name": "Creative Services", "total": 1,
				    "line_items": [
				      {"id": "item-1", "name": "Creative Design", "hours": 5, "rate": 100, "cost": 1},
				      {"id": "item-2", "name": "Copywriting", "hours": 2, "rate": 150, "cost": 1},
				      {"name": "QA", "hours": 4, "rate": 80, "cost": 1}
				    ]}],
				  "subtotal": 3, "total": 3
				}` + "\n```"}, nil
			},
		)

		out, err := uc.ApplyPromptEdit(context.Background(), sampleProposal(), "add QA")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.ID != "proposal-1" || out.Budget != 5000 {
			t.Fatalf("identity not preserved: %+v", out)
		}
		items := out.Phases[0].LineItems
		if len(items) != 3 || items[0].ID != "item-1" || items[2].ID == "" {
			t.Fatalf("unexpected items: %+v", items)
		}
		if items[0].IsEdited || !items[2].IsEdited {
			t.Fatalf("unexpected edited flags: %+v", items)
		}
		if items[2].Cost != 320 || out.Subtotal != 1120 || out.Total != 1120 {
			t.Fatalf("costs not re-derived: subtotal=%v total=%v", out.Subtotal, out.Total)
		}
	})
}

func TestProposalUseCase_ApplyDiscount(t *testing.T) {
	uc := NewProposalUseCase(nil, nil, nil, nil)

	out, err := uc.ApplyDiscount(context.Background(), sampleProposal(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Total != 700 || out.Discount != 100 {
		t.Fatalf("unexpected totals: %+v", out)
	}

	_, err = uc.ApplyDiscount(context.Background(), sampleProposal(), 10000)
	if !errors.Is(err, ErrDiscountTooLarge) {
		t.Fatalf("expected ErrDiscountTooLarge, got %v", err)
	}
}

func TestProposalUseCase_Save(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewProposalUseCase(nil, nil, nil, nil)
		_, err := uc.Save(context.Background(), entities.Proposal{ID: " "})
		if !errors.Is(err, ErrInvalidProposalID) {
			t.Fatalf("expected ErrInvalidProposalID, got %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		uc, m := newProposalUseCase(t)
		m.proposals.EXPECT().Save(gomock.Any(), gomock.Any()).Return(entities.Proposal{}, errors.New("db"))

		_, err := uc.Save(context.Background(), sampleProposal())
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("recalculates before saving", func(t *testing.T) {
		uc, m := newProposalUseCase(t)
		in := sampleProposal()
		in.Total = 1
		in.Phases[0].LineItems[0].Cost = 99999

		m.proposals.EXPECT().Save(gomock.Any(), gomock.AssignableToTypeOf(entities.Proposal{})).DoAndReturn(
			func(_ context.Context, p entities.Proposal) (entities.Proposal, error) {
				if p.Total != 800 || p.Phases[0].LineItems[0].Cost != 500 {
					t.Fatalf("proposal not recalculated: %+v", p)
				}
				if !p.UpdatedAt.Equal(fixedNow) || p.CreatedAt.Equal(fixedNow) {
					t.Fatalf("unexpected timestamps: %+v", p)
				}
				return p, nil
			},
		)

		res, err := uc.Save(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ID != "proposal-1" {
			t.Fatalf("unexpected id %s", res.ID)
		}
	})
}

func TestProposalUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewProposalUseCase(nil, nil, nil, nil)
		_, err := uc.GetByID(context.Background(), " ")
		if !errors.Is(err, ErrInvalidProposalID) {
			t.Fatalf("expected ErrInvalidProposalID, got %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		uc, m := newProposalUseCase(t)
		m.proposals.EXPECT().GetByID(gomock.Any(), "proposal-1").Return(entities.Proposal{}, errors.New("db"))
		_, err := uc.GetByID(context.Background(), "proposal-1")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		uc, m := newProposalUseCase(t)
		m.proposals.EXPECT().GetByID(gomock.Any(), "proposal-1").Return(entities.Proposal{}, nil)
		_, err := uc.GetByID(context.Background(), "proposal-1")
		if !errors.Is(err, ErrProposalNotFound) {
			t.Fatalf("expected ErrProposalNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		uc, m := newProposalUseCase(t)
		m.proposals.EXPECT().GetByID(gomock.Any(), "proposal-1").Return(sampleProposal(), nil)
		p, err := uc.GetByID(context.Background(), " proposal-1 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ClientName != "Acme" {
			t.Fatalf("unexpected proposal %+v", p)
		}
	})
}
