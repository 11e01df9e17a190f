package aggregates

import (
	"context"

	types "github.com/yungbote/collective-backend/internal/domain"
)

var CollectiveAggregateContract = Contract{
	Name:             "Governance.CollectiveAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns collective creation (admin, ledger, creator link, action journal) and name supersedes.",
}

// CollectiveAggregate owns collective lifecycle invariants.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeValidationRejected, CodeNotFound, CodeConflict,
// CodeInvariantViolation, CodeSubstrateFailure, CodeRetryable, CodeInternal.
type CollectiveAggregate interface {
	Aggregate

	// Create commits the collective and everything created alongside it in one unit.
	Create(ctx context.Context, in CreateCollectiveInput) (CreateCollectiveResult, error)

	// Get resolves the latest version of a collective.
	Get(ctx context.Context, address types.Address) (types.CollectiveEntry, error)

	// SetName supersedes the collective with a new name and journals the change.
	SetName(ctx context.Context, in SetCollectiveNameInput) (SetCollectiveNameResult, error)

	// Delete is always rejected.
	Delete(ctx context.Context, in DeleteCollectiveInput) error
}

type CreateCollectiveInput struct {
	Name               string
	ParticipantAddress *types.Address
	Sources            types.Sources
}

type CreateCollectiveResult struct {
	Collective types.CollectiveEntry
	Admin      types.ParticipantEntry
	Ledger     types.LedgerEntry
	Actions    []types.ActionEntry
}

type SetCollectiveNameInput struct {
	Address types.Address
	Name    string
	Sources types.Sources
}

type SetCollectiveNameResult struct {
	Collective types.CollectiveEntry
	Version    types.Address
	Actions    []types.ActionEntry
}

type DeleteCollectiveInput struct {
	Address types.Address
	Sources types.Sources
}
