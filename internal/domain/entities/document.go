package entities

// DocumentType identifies a prose document produced by the LLM.
type DocumentType string

const (
	// Proposal-derived documents.
	DocumentTypeSOW   DocumentType = "sow"
	DocumentTypeBrief DocumentType = "brief"

	// Brief-derived documents, generated straight from uploaded files.
	DocumentTypeInternalBrief       DocumentType = "internalBrief"
	DocumentTypeStatementOfWork     DocumentType = "statementOfWork"
	DocumentTypeTimeline            DocumentType = "timeline"
	DocumentTypeKickoffPresentation DocumentType = "kickoffPresentation"
)

// IsProposalDocument reports whether t is generated from a proposal.
func (t DocumentType) IsProposalDocument() bool {
	return t == DocumentTypeSOW || t == DocumentTypeBrief
}

// IsBriefDocument reports whether t is generated from uploaded brief documents.
func (t DocumentType) IsBriefDocument() bool {
	switch t {
	case DocumentTypeInternalBrief, DocumentTypeStatementOfWork, DocumentTypeTimeline, DocumentTypeKickoffPresentation:
		return true
	}
	return false
}

// Document is LLM-generated prose.
type Document struct {
	Type    DocumentType `json:"type"`
	Content string       `json:"content"`
}

// BriefFile is an uploaded client document.
type BriefFile struct {
	Name        string
	ContentType string
	Data        []byte
}
