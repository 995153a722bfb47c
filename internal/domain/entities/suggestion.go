package entities

// Suggestion is the semi-structured output of the "analyze brief" LLM call.
//
// Every optional field is modeled so that absence is distinguishable from a
// zero value where the distinction matters (Rate and Cost on roles).
type Suggestion struct {
	UsePackages    bool               `json:"usePackages"`
	Packages       []SuggestedPackage `json:"packages"`
	CustomBuild    *CustomBuild       `json:"customBuild,omitempty"`
	Reasoning      string             `json:"reasoning"`
	Alternatives   string             `json:"alternatives"`
	SuggestedTotal float64            `json:"suggestedTotal"`
	BudgetAnalysis string             `json:"budgetAnalysis,omitempty"`

	// Degraded is set when the LLM response could not be parsed and the
	// suggestion carries only the raw text in Reasoning.
	Degraded bool `json:"degraded,omitempty"`
}

// SuggestedPackage references a catalog package by id or name.
type SuggestedPackage struct {
	PackageRef string  `json:"packageId"`
	Name       string  `json:"name"`
	Cost       float64 `json:"cost"`
	Reason     string  `json:"reason"`
}

// CustomBuild is the role-based alternative to packages.
type CustomBuild struct {
	Roles          []SuggestedRole `json:"roles"`
	EstimatedTotal float64         `json:"estimatedTotal"`
}

// SuggestedRole proposes hours for one service.
type SuggestedRole struct {
	ServiceName string   `json:"serviceName"`
	Category    string   `json:"category"`
	Hours       float64  `json:"hours"`
	Rate        *float64 `json:"rate,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Reasoning   string   `json:"reasoning"`
}

// WantsPackages reports whether package reconciliation should run.
func (s Suggestion) WantsPackages() bool {
	return s.UsePackages && len(s.Packages) > 0
}
