package services

import (
	"context"
	"testing"

	"github.com/yungbote/collective-backend/internal/data/aggregates"
	"github.com/yungbote/collective-backend/internal/data/repos/memstore"
	"github.com/yungbote/collective-backend/internal/platform/ctxutil"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/realtime/bus"
)

type testStack struct {
	store        *memstore.Store
	bus          bus.Bus
	collectives  CollectiveService
	participants ParticipantService
	proposals    ProposalService
	queries      QueryService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	log := logger.Nop()
	store := memstore.New()
	b := bus.NewMemoryBus()
	t.Cleanup(func() { _ = b.Close() })

	base := aggregates.BaseDeps{Log: log, Runner: store}
	actions := aggregates.NewActionLog(store.Records(), store.Links(), base)
	collectiveAgg := aggregates.NewCollectiveAggregate(aggregates.CollectiveAggregateDeps{
		Base:    base,
		Records: store.Records(),
		Links:   store.Links(),
		Actions: actions,
	})
	return &testStack{
		store:        store,
		bus:          b,
		collectives:  NewCollectiveService(log, collectiveAgg, NewActionPublisher(log, b)),
		participants: NewParticipantService(log, aggregates.NewParticipantAggregate(aggregates.ParticipantAggregateDeps{Base: base, Records: store.Records()})),
		proposals:    NewProposalService(log, aggregates.NewProposalAggregate(aggregates.ProposalAggregateDeps{Base: base, Records: store.Records()})),
		queries:      NewQueryService(log, store.Records(), store.Links(), actions),
	}
}

func as(identity string) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{Identity: identity})
}
