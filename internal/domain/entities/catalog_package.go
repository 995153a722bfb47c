package entities

// Package is a predefined offering composed of ordered phases.
//
// Storage model (DynamoDB):
//   - PK: id
//   - phases are stored nested in the item
//
// TotalCost is informational; proposals never trust it and always re-sum line items.
type Package struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	ServiceType    string         `json:"service_type" yaml:"service_type"`
	TierLevel      *int           `json:"tier_level,omitempty" yaml:"tier_level,omitempty"`
	TotalCost      float64        `json:"total_cost" yaml:"total_cost"`
	TotalHours     float64        `json:"total_hours,omitempty" yaml:"total_hours,omitempty"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	IsFixedPackage bool           `json:"is_fixed_package" yaml:"is_fixed_package"`
	Phases         []PackagePhase `json:"phases" yaml:"phases"`
}

type PackagePhase struct {
	Name      string            `json:"name" yaml:"name"`
	TotalCost float64           `json:"total_cost" yaml:"total_cost"`
	LineItems []PackageLineItem `json:"line_items" yaml:"line_items"`
}

type PackageLineItem struct {
	Name       string  `json:"name" yaml:"name"`
	Hours      float64 `json:"hours" yaml:"hours"`
	Rate       float64 `json:"rate" yaml:"rate"`
	Cost       float64 `json:"cost" yaml:"cost"`
	IsOptional bool    `json:"is_optional" yaml:"is_optional"`
}

// LineItemCount returns the number of line items across all phases.
func (p Package) LineItemCount() int {
	n := 0
	for _, ph := range p.Phases {
		n += len(ph.LineItems)
	}
	return n
}

// Clone returns a copy of p that shares no phases, line items or tier level with it.
func (p Package) Clone() Package {
	out := p
	if p.TierLevel != nil {
		tier := *p.TierLevel
		out.TierLevel = &tier
	}
	if p.Phases == nil {
		return out
	}
	out.Phases = make([]PackagePhase, len(p.Phases))
	for i, ph := range p.Phases {
		cp := ph
		if ph.LineItems != nil {
			cp.LineItems = make([]PackageLineItem, len(ph.LineItems))
			copy(cp.LineItems, ph.LineItems)
		}
		out.Phases[i] = cp
	}
	return out
}
