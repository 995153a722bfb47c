package response

import "proposal_builder/internal/domain/entities"

type DocumentResponse struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Step    string `json:"step,omitempty"`
}

func FromDocument(d entities.Document, step entities.WorkflowStep) DocumentResponse {
	return DocumentResponse{Type: string(d.Type), Content: d.Content, Step: string(step)}
}
