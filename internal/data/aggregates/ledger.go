package aggregates

import (
	"context"

	"github.com/yungbote/collective-backend/internal/data/repos"
	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

type LedgerAggregateDeps struct {
	Records repos.RecordRepo
}

type ledgerAggregate struct {
	reader *EntryReader
}

// NewLedgerAggregate is read-only; ledgers are written by collective creation.
func NewLedgerAggregate(deps LedgerAggregateDeps) domainagg.LedgerAggregate {
	return &ledgerAggregate{reader: NewEntryReader(deps.Records)}
}

func (a *ledgerAggregate) Contract() domainagg.Contract {
	return domainagg.LedgerAggregateContract
}

func (a *ledgerAggregate) Get(ctx context.Context, address types.Address) (types.LedgerEntry, error) {
	const op = "get_ledger"
	if address.IsZero() {
		return types.LedgerEntry{}, domainagg.NewError(domainagg.CodeValidation, op, "missing ledger address", nil)
	}
	entry, err := a.reader.Ledger(dbctx.Background(ctx), address)
	if err != nil {
		return types.LedgerEntry{}, MapError(op, err)
	}
	return entry, nil
}
