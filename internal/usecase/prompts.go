package usecase

import (
	"encoding/json"
	"strings"
	"text/template"

	"proposal_builder/internal/domain/entities"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const documentSystemPrompt = "You are a proposal generation assistant for a full-service marketing agency. Generate professional, detailed documents in the agency's style."

var printer = message.NewPrinter(language.English)

// money renders an amount as "$12,500" or "$12,500.50".
func money(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("$%d", int64(v))
	}
	return printer.Sprintf("$%.2f", v)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

var promptFuncs = template.FuncMap{
	"money":     money,
	"upper":     strings.ToUpper,
	"orDefault": orDefault,
}

type analysisPromptData struct {
	ClientName        string
	Budget            float64
	ProjectType       string
	AdditionalContext string
	Documents         string
	Packages          string
	ServiceGroups     []serviceGroup
}

type serviceGroup struct {
	Category string
	Services []entities.Service
}

var analysisTemplate = template.Must(template.New("analysis").Funcs(promptFuncs).Parse(`You are a pricing strategist for a marketing agency. Analyze the client's brief and recommend the best approach: either predefined packages OR a custom build with role-based hours.

CLIENT INFORMATION:
- Client: {{.ClientName}}
- Budget: {{money .Budget}}
- Project Type: {{orDefault .ProjectType "Not specified"}}
- Additional Context: {{orDefault .AdditionalContext "None"}}

UPLOADED DOCUMENTS:
{{orDefault .Documents "None"}}

AVAILABLE PACKAGES:
{{.Packages}}

AVAILABLE SERVICES BY CATEGORY (for custom builds):
{{range .ServiceGroups}}
{{upper .Category}}:
{{range .Services}}  - {{.Name}}: {{money .DefaultRate}}/{{.BillingUnit}}
{{end}}{{end}}
TASK:
1. Analyze the client's needs from their documents
2. Determine if predefined packages fit OR if a custom build is better
3. If using packages: recommend 1-3 packages that fit their budget
4. If custom build: suggest hours for EVERY role/service listed (use 0 if not needed)
5. Explain your reasoning and suggest alternatives

Return your response as JSON with this structure:
{
  "usePackages": true or false,
  "packages": [{"packageId": "...", "name": "...", "cost": 10000, "reason": "Why this fits"}],
  "customBuild": {
    "roles": [{"serviceName": "Creative Design", "category": "creative", "hours": 40, "rate": 150, "cost": 6000, "reasoning": "..."}],
    "estimatedTotal": 25000
  },
  "reasoning": "Overall analysis and why you chose packages vs custom",
  "alternatives": "Other options they should consider",
  "suggestedTotal": 15000,
  "budgetAnalysis": "How the suggested total compares to their budget"
}`))

type packageSummary struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        string         `json:"type"`
	Tier        *int           `json:"tier,omitempty"`
	Cost        float64        `json:"cost"`
	Hours       float64        `json:"hours,omitempty"`
	Description string         `json:"description,omitempty"`
	IsFixed     bool           `json:"isFixed"`
	Phases      []phaseSummary `json:"phases"`
}

type phaseSummary struct {
	Name  string  `json:"name"`
	Cost  float64 `json:"cost"`
	Items int     `json:"items"`
}

func buildAnalysisPrompt(in AnalyzeInput, documents []string, services []entities.Service, packages []entities.Package) (string, error) {
	summaries := make([]packageSummary, 0, len(packages))
	for _, pkg := range packages {
		s := packageSummary{
			ID:          pkg.ID,
			Name:        pkg.Name,
			Type:        pkg.ServiceType,
			Tier:        pkg.TierLevel,
			Cost:        pkg.TotalCost,
			Hours:       pkg.TotalHours,
			Description: pkg.Description,
			IsFixed:     pkg.IsFixedPackage,
			Phases:      make([]phaseSummary, 0, len(pkg.Phases)),
		}
		for _, ph := range pkg.Phases {
			s.Phases = append(s.Phases, phaseSummary{Name: ph.Name, Cost: ph.TotalCost, Items: len(ph.LineItems)})
		}
		summaries = append(summaries, s)
	}
	packagesJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	err = analysisTemplate.Execute(&sb, analysisPromptData{
		ClientName:        in.ClientName,
		Budget:            in.Budget,
		ProjectType:       in.ProjectType,
		AdditionalContext: in.AdditionalContext,
		Documents:         strings.Join(documents, "\n\n"),
		Packages:          string(packagesJSON),
		ServiceGroups:     groupServices(services),
	})
	return sb.String(), err
}

// groupServices keeps categories in first-seen catalog order.
func groupServices(services []entities.Service) []serviceGroup {
	var groups []serviceGroup
	index := map[string]int{}
	for _, svc := range services {
		cat := orDefault(strings.TrimSpace(svc.Category), entities.DefaultCategory)
		if svc.BillingUnit == "" {
			svc.BillingUnit = entities.DefaultBillingUnit
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, serviceGroup{Category: cat})
		}
		groups[i].Services = append(groups[i].Services, svc)
	}
	return groups
}

var promptEditTemplate = template.Must(template.New("prompt-edit").Parse(`You are editing a proposal. The user wants to make changes via natural language.

CURRENT PROPOSAL:
{{.Proposal}}

USER'S EDIT REQUEST:
"{{.Instruction}}"

TASK:
Modify the proposal according to the user's request. You can:
- Add/remove line items
- Adjust hours or rates
- Add/remove phases

Return the COMPLETE updated proposal as JSON with the same structure. Keep the "id" of every phase and line item you do not remove. New phases and line items may omit "id". Mark edited items with "is_edited": true.
Return ONLY the JSON, no explanation.`))

func buildPromptEditPrompt(p entities.Proposal, instruction string) (string, error) {
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	err = promptEditTemplate.Execute(&sb, struct {
		Proposal    string
		Instruction string
	}{string(body), instruction})
	return sb.String(), err
}

var proposalSummaryTemplate = template.Must(template.New("summary").Funcs(promptFuncs).Parse(`CLIENT: {{.ClientName}}
BUDGET: {{if gt .Budget 0.0}}{{money .Budget}}{{else}}Not specified{{end}}
TOTAL COST: {{money .Proposal.Total}}

BREAKDOWN BY PHASE:
{{range .Proposal.Phases}}
{{.Name}} - {{money .TotalCost}}
{{range .LineItems}}  - {{.Name}}: {{.Hours}}h @ {{money .Rate}}/hr = {{money .Cost}}
{{end}}{{end}}`))

var proposalDocumentInstructions = map[entities.DocumentType]string{
	entities.DocumentTypeSOW: `You are a professional proposal writer for a marketing agency. Generate a comprehensive Statement of Work (SOW) document based on this pricing proposal.

{{.Summary}}
Create a professional SOW document that includes:
1. Project Overview - Brief introduction to the project
2. Scope of Work - Detailed breakdown of deliverables and services by phase
3. Timeline - Estimated project timeline based on hours (assume standard work weeks)
4. Pricing - Complete pricing breakdown matching the proposal
5. Payment Terms - Standard payment terms (e.g., 50% upfront, 50% on completion)
6. Terms & Conditions - Standard terms for this type of project

Make it professional, clear, and ready to send to the client. Use proper formatting with headers, sections, and bullet points.`,
	entities.DocumentTypeBrief: `You are a professional proposal writer for a marketing agency. Generate a comprehensive Client Brief document based on this pricing proposal.

{{.Summary}}
Create a professional Client Brief that includes:
1. Project Summary - Overview of what will be delivered
2. Objectives - Key goals and outcomes for this project
3. Target Audience - Who this project will serve (infer from services)
4. Deliverables - Detailed list of what will be delivered by phase
5. Success Metrics - How success will be measured
6. Timeline & Milestones - Key project milestones
7. Next Steps - What the client needs to do to get started

Make it client-friendly, exciting, and clear. Use proper formatting with headers, sections, and bullet points.`,
}

var proposalDocumentTemplates = func() map[entities.DocumentType]*template.Template {
	out := make(map[entities.DocumentType]*template.Template, len(proposalDocumentInstructions))
	for t, body := range proposalDocumentInstructions {
		out[t] = template.Must(template.New(string(t)).Parse(body))
	}
	return out
}()

func buildProposalDocumentPrompt(docType entities.DocumentType, p entities.Proposal, clientName string, budget float64) (string, error) {
	var summary strings.Builder
	err := proposalSummaryTemplate.Execute(&summary, struct {
		ClientName string
		Budget     float64
		Proposal   entities.Proposal
	}{clientName, budget, p})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	err = proposalDocumentTemplates[docType].Execute(&sb, struct{ Summary string }{summary.String()})
	return sb.String(), err
}

// briefDocumentTokens caps each brief-derived document type.
var briefDocumentTokens = map[entities.DocumentType]int64{
	entities.DocumentTypeStatementOfWork:     4000,
	entities.DocumentTypeInternalBrief:       2000,
	entities.DocumentTypeTimeline:            1500,
	entities.DocumentTypeKickoffPresentation: 1500,
}

var briefBaseTemplate = template.Must(template.New("brief-base").Funcs(promptFuncs).Parse(`CONTEXT DOCUMENTS:
{{.Documents}}

CLIENT: {{.ClientName}}
PROJECT TYPE: {{.ProjectType}}
DEADLINE: {{.Deadline}}
{{if .Services}}
AGENCY RATES:
{{range .Services}}- {{.Name}}: {{money .DefaultRate}}/{{.BillingUnit}}
{{end}}{{end}}`))

var briefDocumentInstructions = map[entities.DocumentType]string{
	entities.DocumentTypeStatementOfWork: `Generate a STATEMENT OF WORK:

{{.ProjectType}}
Client: {{.ClientName}}

**EXECUTIVE SUMMARY**
Write 2-3 paragraphs explaining the importance of this project and how it will help the client.

**RECOMMENDED SERVICES**
List the services needed.

**SCOPE OF WORK**
Detail each service with professional descriptions.

**ESTIMATE**
Create a detailed table: Phase | Activity | Description | Team | Hours | Rate | Total
Break down by phases using the agency rates above and show phase subtotals.

**TOTAL PROJECT COST**

**TERMS & CONDITIONS**
- Estimate valid 30 days, +/- 10%
- Payment: 50% deposit, 25% at key milestone, 25% at completion
- 2 rounds of revisions per phase

**SIGNATURES**
Client Signature: ___________________
{{.ClientName}}                    Date`,
	entities.DocumentTypeInternalBrief: `Generate an INTERNAL TEAM BRIEFING:

**INTERNAL TEAM BRIEFING**
{{.ClientName}} - {{.ProjectType}}

**CREATIVE BRIEF**
- Project overview and objectives
- Target audience (detailed personas from context)
- Key messages and brand positioning
- Creative direction and tone
- Success metrics

**PROJECT CONTEXT**
- Client background (from uploaded docs)
- Why now? What's driving this?
- Stakeholders and decision makers
- Constraints or sensitivities

**STRATEGIC APPROACH**
- Recommended creative strategy
- Key differentiators to emphasize
- Potential challenges and mitigation

**TEAM NOTES**
- Important details for account managers
- Red flags to watch for
- Upsell opportunities`,
	entities.DocumentTypeTimeline: `Generate a detailed PROJECT TIMELINE working backward from {{.Deadline}}:

**PROJECT TIMELINE**
{{.ClientName}} - {{.ProjectType}}

Break down into phases with specific dates:
**Phase 1: Discovery & Planning**
**Phase 2: Design**
**Phase 3: Development/Production**
**Phase 4: Launch** (launch date: {{.Deadline}})

For each phase list activities, milestones, review periods and client approval gates.
Include buffer time and realistic durations based on {{.ProjectType}} projects.`,
	entities.DocumentTypeKickoffPresentation: `Generate an INTERNAL KICKOFF PRESENTATION outline:

**KICKOFF MEETING OUTLINE**
{{.ClientName}} - {{.ProjectType}}

**MEETING LOGISTICS**
- Attendees needed (roles)
- Duration: 60 minutes

**AGENDA**
1. Client background (10 min)
2. Project objectives (10 min)
3. Scope review (15 min)
4. Timeline & milestones (10 min)
5. Team roles & responsibilities (10 min)
6. Q&A (5 min)

**KEY TALKING POINTS**
**RISKS & CONSIDERATIONS**
**ACTION ITEMS** for each team member`,
}

var briefTemplates = func() map[entities.DocumentType]*template.Template {
	out := make(map[entities.DocumentType]*template.Template, len(briefDocumentInstructions))
	for t, body := range briefDocumentInstructions {
		out[t] = template.Must(template.New(string(t)).Parse(body))
	}
	return out
}()

type briefPromptData struct {
	Documents   string
	ClientName  string
	ProjectType string
	Deadline    string
	Services    []entities.Service
}

func buildBriefDocumentPrompt(docType entities.DocumentType, data briefPromptData) (string, error) {
	var sb strings.Builder
	if err := briefBaseTemplate.Execute(&sb, data); err != nil {
		return "", err
	}
	sb.WriteString("\n")
	if err := briefTemplates[docType].Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

var editSOWTemplate = template.Must(template.New("edit-sow").Parse(`You are editing a Statement of Work document.

CURRENT SOW:
{{.Current}}

USER'S EDIT REQUEST:
"{{.Instruction}}"

Apply the requested changes to the SOW. Return the complete updated SOW document with all changes applied. Maintain professional formatting with markdown headers, bullet points, and proper structure.
Return ONLY the updated SOW content, no explanations or meta-text.`))

func buildEditSOWPrompt(current, instruction string) (string, error) {
	var sb strings.Builder
	err := editSOWTemplate.Execute(&sb, struct {
		Current     string
		Instruction string
	}{current, instruction})
	return sb.String(), err
}
