package aggregates

import (
	"context"

	"github.com/yungbote/collective-backend/internal/data/repos"
	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

type ProposalAggregateDeps struct {
	Base BaseDeps

	Records repos.RecordRepo
}

type proposalAggregate struct {
	deps   ProposalAggregateDeps
	reader *EntryReader
}

func NewProposalAggregate(deps ProposalAggregateDeps) domainagg.ProposalAggregate {
	deps.Base = deps.Base.withDefaults()
	return &proposalAggregate{deps: deps, reader: NewEntryReader(deps.Records)}
}

func (a *proposalAggregate) Contract() domainagg.Contract {
	return domainagg.ProposalAggregateContract
}

// Create stores an inert proposal. Identical proposals share one address.
func (a *proposalAggregate) Create(ctx context.Context, in domainagg.CreateProposalInput) (types.ProposalEntry, error) {
	const op = "create_proposal"
	var out types.ProposalEntry
	if in.Sources.Empty() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing declared sources", nil)
	}
	proposal := types.NewProposal(in.Name, in.Content)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		rec, _, err := commitEntry(dbc, a.deps.Records, types.RecordTypeProposal, proposal, in.Sources.Primary(), a.deps.Base.Now())
		if err != nil {
			return MapError("commit_proposal", err)
		}
		out = types.ProposalEntry{Address: types.Address(rec.Origin), Proposal: proposal}
		return nil
	})
	if err != nil {
		return types.ProposalEntry{}, err
	}
	return out, nil
}

func (a *proposalAggregate) Get(ctx context.Context, address types.Address) (types.ProposalEntry, error) {
	const op = "get_proposal"
	if address.IsZero() {
		return types.ProposalEntry{}, domainagg.NewError(domainagg.CodeValidation, op, "missing proposal address", nil)
	}
	entry, err := a.reader.Proposal(dbctx.Background(ctx), address)
	if err != nil {
		return types.ProposalEntry{}, MapError(op, err)
	}
	return entry, nil
}
