package request

import (
	"errors"
	"strings"
	"time"

	"proposal_builder/internal/domain/entities"
)

var ErrMissingProposal = errors.New("proposal is required")

type LineItemRequest struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
	Rate       float64 `json:"rate"`
	Cost       float64 `json:"cost"`
	IsEdited   bool    `json:"is_edited"`
	IsOptional bool    `json:"is_optional"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

type PhaseRequest struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Total     float64           `json:"total"`
	LineItems []LineItemRequest `json:"line_items"`
}

// ProposalRequest is the whole-proposal round-trip payload. Amounts sent by
// the client are accepted but always re-derived server side.
type ProposalRequest struct {
	ID          string         `json:"id"`
	ClientName  string         `json:"client_name"`
	ProjectType string         `json:"project_type"`
	Budget      float64        `json:"budget"`
	Mode        string         `json:"mode"`
	Phases      []PhaseRequest `json:"phases"`
	Subtotal    float64        `json:"subtotal"`
	Discount    float64        `json:"discount"`
	Total       float64        `json:"total"`
	CreatedAt   *time.Time     `json:"created_at,omitempty"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

// IsEmpty reports whether no proposal was sent at all.
func (r ProposalRequest) IsEmpty() bool {
	return strings.TrimSpace(r.ID) == "" && len(r.Phases) == 0
}

func (r ProposalRequest) ToEntity() entities.Proposal {
	p := entities.Proposal{
		ID:          strings.TrimSpace(r.ID),
		ClientName:  strings.TrimSpace(r.ClientName),
		ProjectType: strings.TrimSpace(r.ProjectType),
		Budget:      r.Budget,
		Mode:        entities.ProposalMode(r.Mode),
		Phases:      make([]entities.Phase, 0, len(r.Phases)),
		Subtotal:    r.Subtotal,
		Discount:    r.Discount,
		Total:       r.Total,
	}
	if r.CreatedAt != nil {
		p.CreatedAt = r.CreatedAt.UTC()
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = r.UpdatedAt.UTC()
	}
	for _, ph := range r.Phases {
		phase := entities.Phase{
			ID:        ph.ID,
			Name:      ph.Name,
			TotalCost: ph.Total,
			LineItems: make([]entities.LineItem, 0, len(ph.LineItems)),
		}
		for _, it := range ph.LineItems {
			phase.LineItems = append(phase.LineItems, entities.LineItem{
				ID:         it.ID,
				Name:       it.Name,
				Hours:      it.Hours,
				Rate:       it.Rate,
				Cost:       it.Cost,
				IsEdited:   it.IsEdited,
				IsOptional: it.IsOptional,
				Reasoning:  it.Reasoning,
			})
		}
		p.Phases = append(p.Phases, phase)
	}
	return p
}

// FieldEditRequest edits hours or rate of one line item.
type FieldEditRequest struct {
	Proposal   ProposalRequest `json:"proposal"`
	PhaseID    string          `json:"phase_id" binding:"required"`
	LineItemID string          `json:"line_item_id" binding:"required"`
	Field      string          `json:"field" binding:"required"`
	Value      *float64        `json:"value" binding:"required"`
}

// PromptEditRequest asks for a natural-language edit of the proposal.
type PromptEditRequest struct {
	Proposal ProposalRequest `json:"proposal"`
	Prompt   string          `json:"prompt"`
}

type DiscountRequest struct {
	Proposal ProposalRequest `json:"proposal"`
	Discount *float64        `json:"discount" binding:"required"`
}
