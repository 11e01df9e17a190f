package aggregates

import (
	"context"

	types "github.com/yungbote/collective-backend/internal/domain"
)

var ParticipantAggregateContract = Contract{
	Name:             "Governance.ParticipantAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns participant admission: owner identity must be among the declared sources.",
}

// ParticipantAggregate owns participant invariants. Participants are never deleted.
type ParticipantAggregate interface {
	Aggregate

	Create(ctx context.Context, in CreateParticipantInput) (types.ParticipantEntry, error)
	Get(ctx context.Context, address types.Address) (types.ParticipantEntry, error)
	Update(ctx context.Context, in UpdateParticipantInput) (types.ParticipantEntry, error)
	Delete(ctx context.Context, in DeleteParticipantInput) error
}

type CreateParticipantInput struct {
	Name          string
	OwnerIdentity types.Identity
	Status        string
	Sources       types.Sources
}

type UpdateParticipantInput struct {
	Address       types.Address
	Name          string
	OwnerIdentity types.Identity
	Status        string
	Sources       types.Sources
}

type DeleteParticipantInput struct {
	Address types.Address
	Sources types.Sources
}
