package response

import "proposal_builder/internal/domain/entities"

type ServiceResponse struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	DefaultRate float64 `json:"default_rate"`
	BillingUnit string  `json:"billing_unit"`
}

type PackageLineItemResponse struct {
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
	Rate       float64 `json:"rate"`
	Cost       float64 `json:"cost"`
	IsOptional bool    `json:"is_optional"`
}

type PackagePhaseResponse struct {
	Name      string                    `json:"name"`
	TotalCost float64                   `json:"total_cost"`
	LineItems []PackageLineItemResponse `json:"line_items"`
}

type PackageResponse struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	ServiceType    string                 `json:"service_type"`
	TierLevel      *int                   `json:"tier_level,omitempty"`
	TotalCost      float64                `json:"total_cost"`
	TotalHours     float64                `json:"total_hours,omitempty"`
	Description    string                 `json:"description,omitempty"`
	IsFixedPackage bool                   `json:"is_fixed_package"`
	Phases         []PackagePhaseResponse `json:"phases"`
}

func FromServices(list []entities.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ServiceResponse(s))
	}
	return out
}

func FromPackages(list []entities.Package) []PackageResponse {
	out := make([]PackageResponse, 0, len(list))
	for _, p := range list {
		pr := PackageResponse{
			ID:             p.ID,
			Name:           p.Name,
			ServiceType:    p.ServiceType,
			TierLevel:      p.TierLevel,
			TotalCost:      p.TotalCost,
			TotalHours:     p.TotalHours,
			Description:    p.Description,
			IsFixedPackage: p.IsFixedPackage,
			Phases:         make([]PackagePhaseResponse, 0, len(p.Phases)),
		}
		for _, ph := range p.Phases {
			phr := PackagePhaseResponse{Name: ph.Name, TotalCost: ph.TotalCost, LineItems: make([]PackageLineItemResponse, 0, len(ph.LineItems))}
			for _, li := range ph.LineItems {
				phr.LineItems = append(phr.LineItems, PackageLineItemResponse(li))
			}
			pr.Phases = append(pr.Phases, phr)
		}
		out = append(out, pr)
	}
	return out
}
