package interfaces

import (
	"context"

	"proposal_builder/internal/domain/entities"
)

// IProposalRepository abstracts DynamoDB persistence for saved proposals.
//
// Saving is an upsert keyed by proposal id. GetByID returns a zero Proposal
// (empty ID) when nothing is stored under id.
type IProposalRepository interface {
	Save(ctx context.Context, p entities.Proposal) (entities.Proposal, error)
	GetByID(ctx context.Context, id string) (entities.Proposal, error)
}
