package pricing

import (
	"errors"
	"strings"

	"proposal_builder/internal/domain/entities"
)

var (
	ErrUnknownField     = errors.New("unknown line item field")
	ErrNegativeValue    = errors.New("value must not be negative")
	ErrDiscountTooLarge = errors.New("discount exceeds subtotal")
)

// Field names a line item attribute that can be edited directly.
type Field string

const (
	FieldHours Field = "hours"
	FieldRate  Field = "rate"
)

// ParseField validates a field name coming from a client.
func ParseField(s string) (Field, error) {
	switch Field(strings.ToLower(strings.TrimSpace(s))) {
	case FieldHours:
		return FieldHours, nil
	case FieldRate:
		return FieldRate, nil
	}
	return "", ErrUnknownField
}

// Recalculate returns a copy of p with every line item cost, phase total,
// subtotal and total re-derived from hours and rate.
func Recalculate(p entities.Proposal) entities.Proposal {
	out := p.Clone()
	phaseTotals := make([]float64, 0, len(out.Phases))
	for i := range out.Phases {
		ph := &out.Phases[i]
		costs := make([]float64, 0, len(ph.LineItems))
		for j := range ph.LineItems {
			it := &ph.LineItems[j]
			if it.Hours < 0 {
				it.Hours = 0
			}
			if it.Rate < 0 {
				it.Rate = 0
			}
			it.Cost = LineCost(it.Hours, it.Rate)
			costs = append(costs, it.Cost)
		}
		ph.TotalCost = Sum(costs...)
		phaseTotals = append(phaseTotals, ph.TotalCost)
	}
	if out.Discount < 0 {
		out.Discount = 0
	}
	out.Subtotal = Sum(phaseTotals...)
	out.Total = Sub(out.Subtotal, out.Discount)
	return out
}

// ApplyFieldEdit sets hours or rate on one line item and recalculates.
//
// The input is never mutated. An edit addressed to a phase or line item that
// no longer exists changes no line item but still returns p recalculated.
func ApplyFieldEdit(p entities.Proposal, phaseID, lineItemID string, field Field, value float64) (entities.Proposal, error) {
	if field != FieldHours && field != FieldRate {
		return p.Clone(), ErrUnknownField
	}
	if value < 0 {
		return p.Clone(), ErrNegativeValue
	}

	out := p.Clone()
	phaseIdx, itemIdx, ok := locate(out, phaseID, lineItemID)
	if !ok {
		return Recalculate(out), nil
	}

	it := &out.Phases[phaseIdx].LineItems[itemIdx]
	switch field {
	case FieldHours:
		it.Hours = value
	case FieldRate:
		it.Rate = value
	}
	it.IsEdited = true
	return Recalculate(out), nil
}

// ApplyDiscount sets the proposal discount and recalculates totals.
func ApplyDiscount(p entities.Proposal, discount float64) (entities.Proposal, error) {
	if discount < 0 {
		return p.Clone(), ErrNegativeValue
	}
	out := Recalculate(p)
	if discount > out.Subtotal {
		return p.Clone(), ErrDiscountTooLarge
	}
	out.Discount = discount
	out.Total = Sub(out.Subtotal, out.Discount)
	return out, nil
}

func locate(p entities.Proposal, phaseID, lineItemID string) (int, int, bool) {
	for i, ph := range p.Phases {
		if ph.ID != phaseID {
			continue
		}
		for j, it := range ph.LineItems {
			if it.ID == lineItemID {
				return i, j, true
			}
		}
		return 0, 0, false
	}
	return 0, 0, false
}
