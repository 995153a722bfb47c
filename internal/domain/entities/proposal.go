package entities

import "time"

// ProposalMode records how a proposal was reconciled from a suggestion.
type ProposalMode string

const (
	ProposalModePackages ProposalMode = "packages"
	ProposalModeCustom   ProposalMode = "custom"
)

// Proposal is the root pricing document for one client engagement.
//
// Storage model (DynamoDB):
//   - PK: id
//   - payload: full proposal JSON
//
// Monetary representation:
//   - Subtotal is the sum of every phase total.
//   - Total is Subtotal minus Discount.
//   - Both are derived; recalculation overwrites whatever a caller supplied.
type Proposal struct {
	ID          string       `json:"id"`
	ClientName  string       `json:"client_name"`
	ProjectType string       `json:"project_type"`
	Budget      float64      `json:"budget"`
	Mode        ProposalMode `json:"mode,omitempty"`
	Phases      []Phase      `json:"phases"`
	Subtotal    float64      `json:"subtotal"`
	Discount    float64      `json:"discount"`
	Total       float64      `json:"total"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Phase is an ordered grouping of line items.
type Phase struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	TotalCost float64    `json:"total"`
	LineItems []LineItem `json:"line_items"`
}

// LineItem is the smallest billable unit. Cost equals Hours * Rate after every
// reconciliation or recalculation pass.
type LineItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
	Rate       float64 `json:"rate"`
	Cost       float64 `json:"cost"`
	IsEdited   bool    `json:"is_edited"`
	IsOptional bool    `json:"is_optional"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// LineItemCount returns the number of line items across all phases.
func (p Proposal) LineItemCount() int {
	n := 0
	for _, ph := range p.Phases {
		n += len(ph.LineItems)
	}
	return n
}

// Clone returns a deep copy so callers can mutate the result without
// touching the receiver's phases or line items.
func (p Proposal) Clone() Proposal {
	out := p
	if p.Phases == nil {
		return out
	}
	out.Phases = make([]Phase, len(p.Phases))
	for i, ph := range p.Phases {
		cp := ph
		if ph.LineItems != nil {
			cp.LineItems = make([]LineItem, len(ph.LineItems))
			copy(cp.LineItems, ph.LineItems)
		}
		out.Phases[i] = cp
	}
	return out
}
