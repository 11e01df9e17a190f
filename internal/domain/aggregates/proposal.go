package aggregates

import (
	"context"

	types "github.com/yungbote/collective-backend/internal/domain"
)

var ProposalAggregateContract = Contract{
	Name:             "Governance.ProposalAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Standalone inert proposals; creation only.",
}

type ProposalAggregate interface {
	Aggregate

	Create(ctx context.Context, in CreateProposalInput) (types.ProposalEntry, error)
	Get(ctx context.Context, address types.Address) (types.ProposalEntry, error)
}

type CreateProposalInput struct {
	Name    string
	Content string
	Sources types.Sources
}

var LedgerAggregateContract = Contract{
	Name:             "Governance.LedgerAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Created once per collective inside CollectiveAggregate.Create; read-only afterwards.",
}

type LedgerAggregate interface {
	Aggregate

	Get(ctx context.Context, address types.Address) (types.LedgerEntry, error)
}
