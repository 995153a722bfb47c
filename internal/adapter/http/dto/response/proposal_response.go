package response

import (
	"time"

	"proposal_builder/internal/domain/entities"
)

type LineItemResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
	Rate       float64 `json:"rate"`
	Cost       float64 `json:"cost"`
	IsEdited   bool    `json:"is_edited"`
	IsOptional bool    `json:"is_optional"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

type PhaseResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Total     float64            `json:"total"`
	LineItems []LineItemResponse `json:"line_items"`
}

type ProposalResponse struct {
	ID          string          `json:"id"`
	ClientName  string          `json:"client_name"`
	ProjectType string          `json:"project_type"`
	Budget      float64         `json:"budget"`
	Mode        string          `json:"mode,omitempty"`
	Phases      []PhaseResponse `json:"phases"`
	Subtotal    float64         `json:"subtotal"`
	Discount    float64         `json:"discount"`
	Total       float64         `json:"total"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func FromProposal(p entities.Proposal) ProposalResponse {
	res := ProposalResponse{
		ID:          p.ID,
		ClientName:  p.ClientName,
		ProjectType: p.ProjectType,
		Budget:      p.Budget,
		Mode:        string(p.Mode),
		Phases:      make([]PhaseResponse, 0, len(p.Phases)),
		Subtotal:    p.Subtotal,
		Discount:    p.Discount,
		Total:       p.Total,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, ph := range p.Phases {
		pr := PhaseResponse{
			ID:        ph.ID,
			Name:      ph.Name,
			Total:     ph.TotalCost,
			LineItems: make([]LineItemResponse, 0, len(ph.LineItems)),
		}
		for _, it := range ph.LineItems {
			pr.LineItems = append(pr.LineItems, LineItemResponse(it))
		}
		res.Phases = append(res.Phases, pr)
	}
	return res
}

// ProposalStepResponse is returned by every operation of the review step.
type ProposalStepResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Step     string           `json:"step"`
}

func FromProposalStep(p entities.Proposal, step entities.WorkflowStep) ProposalStepResponse {
	return ProposalStepResponse{Proposal: FromProposal(p), Step: string(step)}
}

type SuggestedPackageResponse struct {
	PackageID string  `json:"packageId,omitempty"`
	Name      string  `json:"name"`
	Cost      float64 `json:"cost"`
	Reason    string  `json:"reason,omitempty"`
}

type SuggestedRoleResponse struct {
	ServiceName string   `json:"serviceName"`
	Category    string   `json:"category,omitempty"`
	Hours       float64  `json:"hours"`
	Rate        *float64 `json:"rate,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Reasoning   string   `json:"reasoning,omitempty"`
}

type CustomBuildResponse struct {
	Roles          []SuggestedRoleResponse `json:"roles"`
	EstimatedTotal float64                 `json:"estimatedTotal"`
}

type SuggestionResponse struct {
	UsePackages    bool                       `json:"usePackages"`
	Packages       []SuggestedPackageResponse `json:"packages"`
	CustomBuild    *CustomBuildResponse       `json:"customBuild,omitempty"`
	Reasoning      string                     `json:"reasoning"`
	Alternatives   string                     `json:"alternatives,omitempty"`
	SuggestedTotal float64                    `json:"suggestedTotal"`
	BudgetAnalysis string                     `json:"budgetAnalysis,omitempty"`
	Degraded       bool                       `json:"degraded,omitempty"`
}

func FromSuggestion(s entities.Suggestion) SuggestionResponse {
	res := SuggestionResponse{
		UsePackages:    s.UsePackages,
		Packages:       make([]SuggestedPackageResponse, 0, len(s.Packages)),
		Reasoning:      s.Reasoning,
		Alternatives:   s.Alternatives,
		SuggestedTotal: s.SuggestedTotal,
		BudgetAnalysis: s.BudgetAnalysis,
		Degraded:       s.Degraded,
	}
	for _, p := range s.Packages {
		res.Packages = append(res.Packages, SuggestedPackageResponse{
			PackageID: p.PackageRef,
			Name:      p.Name,
			Cost:      p.Cost,
			Reason:    p.Reason,
		})
	}
	if s.CustomBuild != nil {
		cb := &CustomBuildResponse{
			Roles:          make([]SuggestedRoleResponse, 0, len(s.CustomBuild.Roles)),
			EstimatedTotal: s.CustomBuild.EstimatedTotal,
		}
		for _, r := range s.CustomBuild.Roles {
			cb.Roles = append(cb.Roles, SuggestedRoleResponse(r))
		}
		res.CustomBuild = cb
	}
	return res
}

type AnalyzeResponse struct {
	Suggestion SuggestionResponse `json:"suggestion"`
	Proposal   ProposalResponse   `json:"proposal"`
	Step       string             `json:"step"`
}

func FromAnalyze(s entities.Suggestion, p entities.Proposal, step entities.WorkflowStep) AnalyzeResponse {
	return AnalyzeResponse{
		Suggestion: FromSuggestion(s),
		Proposal:   FromProposal(p),
		Step:       string(step),
	}
}
