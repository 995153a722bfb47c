package pricing

import (
	"strings"
	"time"

	"proposal_builder/internal/domain/entities"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultRoleReasoning marks catalog services the suggestion did not price.
const DefaultRoleReasoning = "Available for manual addition"

// ProposalInput carries the client facts copied onto a new proposal.
type ProposalInput struct {
	ClientName  string
	ProjectType string
	Budget      float64
}

// Reconciler turns a suggestion plus the catalogs into a complete proposal.
type Reconciler struct {
	newID IDGenerator
	now   func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithIDGenerator overrides id allocation.
func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Reconciler) { r.newID = gen }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		newID: NewUUID,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile picks the reconciliation mode from the suggestion.
//
// Packages mode runs only when the suggestion asks for packages and names at
// least one. If none of the named packages exist in the catalog the proposal
// has no phases; it does not fall back to a custom build.
func (r *Reconciler) Reconcile(s entities.Suggestion, services []entities.Service, packages []entities.Package, in ProposalInput) entities.Proposal {
	if s.WantsPackages() {
		matched, _ := MatchPackages(s.Packages, packages)
		return r.FromPackages(matched, in)
	}
	return r.CustomBuild(s, services, in)
}

// MatchPackages resolves suggested packages against the catalog, by id first
// and by name as a fallback. Each catalog package is selected at most once,
// in suggestion order. References that match nothing are returned separately.
func MatchPackages(suggested []entities.SuggestedPackage, catalog []entities.Package) ([]entities.Package, []entities.SuggestedPackage) {
	byID := make(map[string]int, len(catalog))
	byName := make(map[string]int, len(catalog))
	for i, pkg := range catalog {
		if id := strings.TrimSpace(pkg.ID); id != "" {
			byID[id] = i
		}
		if name := normalizeKey(pkg.Name); name != "" {
			if _, dup := byName[name]; !dup {
				byName[name] = i
			}
		}
	}

	seen := make(map[int]bool, len(suggested))
	var matched []entities.Package
	var unmatched []entities.SuggestedPackage
	for _, sp := range suggested {
		idx, ok := byID[strings.TrimSpace(sp.PackageRef)]
		if !ok {
			idx, ok = byName[normalizeKey(sp.Name)]
		}
		if !ok {
			unmatched = append(unmatched, sp)
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		matched = append(matched, catalog[idx])
	}
	return matched, unmatched
}

// FromPackages instantiates one proposal phase per package phase and one line
// item per package line item, each with a freshly allocated id.
func (r *Reconciler) FromPackages(selected []entities.Package, in ProposalInput) entities.Proposal {
	p := r.newProposal(in, entities.ProposalModePackages)
	for _, pkg := range selected {
		for _, src := range pkg.Phases {
			ph := entities.Phase{
				ID:        r.newID(kindPhase),
				Name:      src.Name,
				LineItems: make([]entities.LineItem, 0, len(src.LineItems)),
			}
			for _, item := range src.LineItems {
				cost, rate := item.Cost, item.Rate
				hours, rate := normalizeItem(item.Hours, &rate, &cost)
				ph.LineItems = append(ph.LineItems, entities.LineItem{
					ID:         r.newID(kindItem),
					Name:       item.Name,
					Hours:      hours,
					Rate:       rate,
					IsOptional: item.IsOptional,
				})
			}
			p.Phases = append(p.Phases, ph)
		}
	}
	return Recalculate(p)
}

type roleEntry struct {
	name      string
	hours     float64
	rate      float64
	reasoning string
}

type categoryGroup struct {
	label   string
	entries []*roleEntry
}

// CustomBuild merges the suggested roles onto the entire service catalog.
//
// Every catalog service appears exactly once, grouped by category in catalog
// order. Services the suggestion did not price get zero hours. Roles naming a
// service outside the catalog are appended to their category.
func (r *Reconciler) CustomBuild(s entities.Suggestion, services []entities.Service, in ProposalInput) entities.Proposal {
	var order []string
	groups := map[string]*categoryGroup{}
	// service name -> category key, for roles whose stated category is wrong or missing
	homes := map[string]string{}

	group := func(label string) *categoryGroup {
		key := normalizeKey(label)
		g, ok := groups[key]
		if !ok {
			g = &categoryGroup{label: strings.TrimSpace(label)}
			groups[key] = g
			order = append(order, key)
		}
		return g
	}

	for _, svc := range services {
		cat := strings.TrimSpace(svc.Category)
		if cat == "" {
			cat = entities.DefaultCategory
		}
		g := group(cat)
		if findEntry(g, svc.Name) != nil {
			continue
		}
		g.entries = append(g.entries, &roleEntry{
			name:      svc.Name,
			rate:      svc.DefaultRate,
			reasoning: DefaultRoleReasoning,
		})
		if _, ok := homes[normalizeKey(svc.Name)]; !ok {
			homes[normalizeKey(svc.Name)] = normalizeKey(cat)
		}
	}

	if s.CustomBuild != nil {
		for _, role := range s.CustomBuild.Roles {
			name := strings.TrimSpace(role.ServiceName)
			if name == "" {
				continue
			}

			var target *roleEntry
			cat := strings.TrimSpace(role.Category)
			if cat != "" {
				if g, ok := groups[normalizeKey(cat)]; ok {
					target = findEntry(g, name)
				}
			}
			if target == nil {
				if home, ok := homes[normalizeKey(name)]; ok {
					target = findEntry(groups[home], name)
				}
			}

			if target == nil {
				if cat == "" {
					cat = entities.DefaultCategory
				}
				hours, rate := normalizeItem(role.Hours, role.Rate, role.Cost)
				g := group(cat)
				g.entries = append(g.entries, &roleEntry{
					name:      name,
					hours:     hours,
					rate:      rate,
					reasoning: role.Reasoning,
				})
				homes[normalizeKey(name)] = normalizeKey(cat)
				continue
			}

			rate := role.Rate
			if rate == nil && (role.Cost == nil || *role.Cost <= 0) {
				catalogRate := target.rate
				rate = &catalogRate
			}
			hours, resolved := normalizeItem(role.Hours, rate, role.Cost)
			target.hours = hours
			target.rate = resolved
			if reason := strings.TrimSpace(role.Reasoning); reason != "" {
				target.reasoning = reason
			}
		}
	}

	p := r.newProposal(in, entities.ProposalModeCustom)
	for _, key := range order {
		g := groups[key]
		ph := entities.Phase{
			ID:        r.newID(kindPhase),
			Name:      CategoryPhaseName(g.label),
			LineItems: make([]entities.LineItem, 0, len(g.entries)),
		}
		for _, e := range g.entries {
			ph.LineItems = append(ph.LineItems, entities.LineItem{
				ID:        r.newID(kindItem),
				Name:      e.name,
				Hours:     e.hours,
				Rate:      e.rate,
				Reasoning: e.reasoning,
			})
		}
		p.Phases = append(p.Phases, ph)
	}
	return Recalculate(p)
}

// AdoptEdited accepts a proposal returned by a prompt edit as the successor of
// prev. Identity and client facts missing from the edit are carried over,
// missing or duplicated ids are reallocated, and every amount is re-derived.
// A discount absent from the edit keeps the previous one; a discount larger
// than the new subtotal is capped at it.
// IsEdited flags from the edit are advisory: an item is edited if it was
// before, if the edit says so, or if its hours or rate changed.
func (r *Reconciler) AdoptEdited(prev entities.Proposal, edited EditedProposal) entities.Proposal {
	out := edited.Clone()
	out.ID = prev.ID
	if strings.TrimSpace(out.ClientName) == "" {
		out.ClientName = prev.ClientName
	}
	if strings.TrimSpace(out.ProjectType) == "" {
		out.ProjectType = prev.ProjectType
	}
	if out.Budget <= 0 {
		out.Budget = prev.Budget
	}
	if out.Mode == "" {
		out.Mode = prev.Mode
	}
	if !edited.HasDiscount || out.Discount < 0 {
		out.Discount = prev.Discount
	}
	out.CreatedAt = prev.CreatedAt
	out.UpdatedAt = r.now()

	before := make(map[string]entities.LineItem, prev.LineItemCount())
	for _, ph := range prev.Phases {
		for _, it := range ph.LineItems {
			before[it.ID] = it
		}
	}

	usedPhase := map[string]bool{}
	usedItem := map[string]bool{}
	for i := range out.Phases {
		ph := &out.Phases[i]
		if ph.ID == "" || usedPhase[ph.ID] {
			ph.ID = r.newID(kindPhase)
		}
		usedPhase[ph.ID] = true
		for j := range ph.LineItems {
			it := &ph.LineItems[j]
			if it.ID == "" || usedItem[it.ID] {
				it.ID = r.newID(kindItem)
			}
			usedItem[it.ID] = true

			old, existed := before[it.ID]
			switch {
			case !existed:
				it.IsEdited = true
			case old.Hours != it.Hours || old.Rate != it.Rate:
				it.IsEdited = true
			default:
				it.IsEdited = it.IsEdited || old.IsEdited
			}
		}
	}
	out = Recalculate(out)
	if out.Discount > out.Subtotal {
		out.Discount = out.Subtotal
		out = Recalculate(out)
	}
	return out
}

// CategoryPhaseName derives a phase title from a category label ("creative" -> "Creative Services").
func CategoryPhaseName(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		category = entities.DefaultCategory
	}
	return cases.Title(language.English).String(category) + " Services"
}

func (r *Reconciler) newProposal(in ProposalInput, mode entities.ProposalMode) entities.Proposal {
	now := r.now()
	return entities.Proposal{
		ID:          r.newID(kindProposal),
		ClientName:  strings.TrimSpace(in.ClientName),
		ProjectType: strings.TrimSpace(in.ProjectType),
		Budget:      in.Budget,
		Mode:        mode,
		Phases:      []entities.Phase{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func findEntry(g *categoryGroup, name string) *roleEntry {
	if g == nil {
		return nil
	}
	key := normalizeKey(name)
	for _, e := range g.entries {
		if normalizeKey(e.name) == key {
			return e
		}
	}
	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
