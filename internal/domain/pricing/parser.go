package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"proposal_builder/internal/domain/entities"
)

var ErrUnparseableProposal = errors.New("edited proposal is not valid JSON")

var fencedJSON = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\r?\n(.*?)\r?\n?```")

// ParseSuggestion extracts a Suggestion from free-form LLM output.
//
// Candidates are tried in order: a fenced code block, the first balanced
// {...} span, the first '{' to the last '}', and the raw text. When none
// decodes to a JSON object the degraded suggestion is returned, carrying the
// raw text as reasoning. It never fails.
func ParseSuggestion(raw string) entities.Suggestion {
	for _, candidate := range jsonCandidates(raw) {
		var w wireSuggestion
		if err := decodeObject(candidate, &w); err != nil {
			continue
		}
		return w.toEntity()
	}
	return DegradedSuggestion(raw)
}

// DegradedSuggestion is the fallback for unparseable analysis output.
func DegradedSuggestion(raw string) entities.Suggestion {
	return entities.Suggestion{
		UsePackages:    false,
		Packages:       []entities.SuggestedPackage{},
		Reasoning:      raw,
		SuggestedTotal: 0,
		Degraded:       true,
	}
}

// EditedProposal is a proposal decoded from a prompt edit. HasDiscount reports
// whether the response carried a discount at all.
type EditedProposal struct {
	entities.Proposal
	HasDiscount bool
}

// ParseProposal extracts a full Proposal from the output of a prompt edit.
// The decoded object must at least carry a phases list.
func ParseProposal(raw string) (EditedProposal, error) {
	for _, candidate := range jsonCandidates(raw) {
		var w wireProposal
		if err := decodeObject(candidate, &w); err != nil {
			continue
		}
		if w.Phases == nil {
			continue
		}
		return EditedProposal{Proposal: w.toEntity(), HasDiscount: w.Discount.set}, nil
	}
	return EditedProposal{}, ErrUnparseableProposal
}

func jsonCandidates(raw string) []string {
	text := strings.TrimSpace(raw)
	var out []string
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if span, ok := balancedObject(text); ok {
		out = append(out, span)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		out = append(out, text[start:end+1])
	}
	return append(out, text)
}

// balancedObject returns the first {...} span whose braces balance, ignoring
// braces inside JSON strings.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

func decodeObject(candidate string, v any) error {
	trimmed := strings.TrimSpace(candidate)
	if !strings.HasPrefix(trimmed, "{") {
		return errors.New("not a json object")
	}
	return json.Unmarshal([]byte(trimmed), v)
}

// flexNumber accepts JSON numbers, numeric strings ("$1,500.00") and null.
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = flexNumber{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
		if s == "" {
			*n = flexNumber{}
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = flexNumber{value: f, set: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = flexNumber{value: f, set: true}
	return nil
}

func (n flexNumber) ptr() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

func (n flexNumber) nonNegative() float64 {
	if n.value < 0 {
		return 0
	}
	return n.value
}

// flexBool accepts JSON booleans and "true"/"false" strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, _ = strconv.ParseBool(strings.TrimSpace(s))
	*b = flexBool(v)
	return nil
}

type wireSuggestion struct {
	UsePackages    flexBool               `json:"usePackages"`
	Packages       []wireSuggestedPackage `json:"packages"`
	CustomBuild    *wireCustomBuild       `json:"customBuild"`
	Reasoning      string                 `json:"reasoning"`
	Alternatives   string                 `json:"alternatives"`
	SuggestedTotal flexNumber             `json:"suggestedTotal"`
	BudgetAnalysis string                 `json:"budgetAnalysis"`
}

type wireSuggestedPackage struct {
	PackageID string     `json:"packageId"`
	Name      string     `json:"name"`
	Cost      flexNumber `json:"cost"`
	Reason    string     `json:"reason"`
}

type wireCustomBuild struct {
	Roles          []wireRole `json:"roles"`
	EstimatedTotal flexNumber `json:"estimatedTotal"`
}

type wireRole struct {
	ServiceName string     `json:"serviceName"`
	Category    string     `json:"category"`
	Hours       flexNumber `json:"hours"`
	Rate        flexNumber `json:"rate"`
	Cost        flexNumber `json:"cost"`
	Reasoning   string     `json:"reasoning"`
}

func (w wireSuggestion) toEntity() entities.Suggestion {
	s := entities.Suggestion{
		UsePackages:    bool(w.UsePackages),
		Packages:       make([]entities.SuggestedPackage, 0, len(w.Packages)),
		Reasoning:      strings.TrimSpace(w.Reasoning),
		Alternatives:   strings.TrimSpace(w.Alternatives),
		SuggestedTotal: w.SuggestedTotal.nonNegative(),
		BudgetAnalysis: strings.TrimSpace(w.BudgetAnalysis),
	}
	for _, p := range w.Packages {
		ref, name := strings.TrimSpace(p.PackageID), strings.TrimSpace(p.Name)
		if ref == "" && name == "" {
			continue
		}
		s.Packages = append(s.Packages, entities.SuggestedPackage{
			PackageRef: ref,
			Name:       name,
			Cost:       p.Cost.nonNegative(),
			Reason:     strings.TrimSpace(p.Reason),
		})
	}
	if w.CustomBuild != nil {
		cb := &entities.CustomBuild{
			Roles:          make([]entities.SuggestedRole, 0, len(w.CustomBuild.Roles)),
			EstimatedTotal: w.CustomBuild.EstimatedTotal.nonNegative(),
		}
		for _, r := range w.CustomBuild.Roles {
			name := strings.TrimSpace(r.ServiceName)
			if name == "" {
				continue
			}
			role := entities.SuggestedRole{
				ServiceName: name,
				Category:    strings.TrimSpace(r.Category),
				Hours:       r.Hours.nonNegative(),
				Reasoning:   strings.TrimSpace(r.Reasoning),
			}
			if r.Rate.set && r.Rate.value >= 0 {
				role.Rate = r.Rate.ptr()
			}
			if r.Cost.set && r.Cost.value >= 0 {
				role.Cost = r.Cost.ptr()
			}
			cb.Roles = append(cb.Roles, role)
		}
		s.CustomBuild = cb
	}
	return s
}

type wireProposal struct {
	ID          string      `json:"id"`
	ClientName  string      `json:"client_name"`
	ProjectType string      `json:"project_type"`
	Budget      flexNumber  `json:"budget"`
	Mode        string      `json:"mode"`
	Phases      []wirePhase `json:"phases"`
	Discount    flexNumber  `json:"discount"`
}

type wirePhase struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	LineItems []wireLineItem `json:"line_items"`
	// Some responses drift to camelCase keys.
	LineItemsAlt []wireLineItem `json:"lineItems"`
}

type wireLineItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Hours      flexNumber `json:"hours"`
	Rate       flexNumber `json:"rate"`
	IsEdited   flexBool   `json:"is_edited"`
	IsOptional flexBool   `json:"is_optional"`
	Reasoning  string     `json:"reasoning"`
}

// toEntity drops every amount the model computed; only hours and rate survive.
func (w wireProposal) toEntity() entities.Proposal {
	p := entities.Proposal{
		ID:          strings.TrimSpace(w.ID),
		ClientName:  strings.TrimSpace(w.ClientName),
		ProjectType: strings.TrimSpace(w.ProjectType),
		Budget:      w.Budget.nonNegative(),
		Mode:        entities.ProposalMode(strings.TrimSpace(w.Mode)),
		Phases:      make([]entities.Phase, 0, len(w.Phases)),
		Discount:    w.Discount.nonNegative(),
	}
	for _, wp := range w.Phases {
		items := wp.LineItems
		if len(items) == 0 {
			items = wp.LineItemsAlt
		}
		ph := entities.Phase{
			ID:        strings.TrimSpace(wp.ID),
			Name:      strings.TrimSpace(wp.Name),
			LineItems: make([]entities.LineItem, 0, len(items)),
		}
		for _, wi := range items {
			ph.LineItems = append(ph.LineItems, entities.LineItem{
				ID:         strings.TrimSpace(wi.ID),
				Name:       strings.TrimSpace(wi.Name),
				Hours:      wi.Hours.nonNegative(),
				Rate:       wi.Rate.nonNegative(),
				IsEdited:   bool(wi.IsEdited),
				IsOptional: bool(wi.IsOptional),
				Reasoning:  strings.TrimSpace(wi.Reasoning),
			})
		}
		p.Phases = append(p.Phases, ph)
	}
	return p
}
