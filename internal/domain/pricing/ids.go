package pricing

import "github.com/google/uuid"

// IDGenerator allocates identifiers for proposals, phases and line items.
// Ids are stored on the entities and never derived from positions.
type IDGenerator func(kind string) string

// NewUUID prefixes a random UUID with the entity kind ("proposal", "phase", "item").
func NewUUID(kind string) string {
	return kind + "-" + uuid.NewString()
}

const (
	kindProposal = "proposal"
	kindPhase    = "phase"
	kindItem     = "item"
)
