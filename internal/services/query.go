package services

import (
	"context"

	"github.com/yungbote/collective-backend/internal/data/aggregates"
	"github.com/yungbote/collective-backend/internal/data/repos"
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

// QueryService is the read side: it walks links from a collective and loads
// each target. Every read resolves the collective first, so a missing or
// wrong-typed address is NotFound rather than an empty list.
type QueryService interface {
	GetCollectiveParticipants(ctx context.Context, collective types.Address) (types.CollectiveEntry, []types.ParticipantEntry, error)
	GetCollectiveCreator(ctx context.Context, collective types.Address) (types.ParticipantEntry, error)
	GetActions(ctx context.Context, collective types.Address) (types.CollectiveEntry, []types.ActionEntry, error)
	GetChildActions(ctx context.Context, parent types.Address) ([]types.ActionEntry, error)
	GetCollectiveLedger(ctx context.Context, collective types.Address) (types.LedgerEntry, error)
}

type queryService struct {
	log     *logger.Logger
	links   repos.LinkRepo
	reader  *aggregates.EntryReader
	actions *aggregates.ActionLog
}

func NewQueryService(baseLog *logger.Logger, records repos.RecordRepo, links repos.LinkRepo, actions *aggregates.ActionLog) QueryService {
	if actions == nil {
		actions = aggregates.NewActionLog(records, links, aggregates.BaseDeps{Log: baseLog})
	}
	return &queryService{
		log:     baseLog.With("service", "QueryService"),
		links:   links,
		reader:  aggregates.NewEntryReader(records),
		actions: actions,
	}
}

func (s *queryService) collective(dbc dbctx.Context, op string, address types.Address) (types.CollectiveEntry, error) {
	entry, err := s.reader.Collective(dbc, address)
	if err != nil {
		return types.CollectiveEntry{}, aggregates.MapError(op, aggregates.MapError("load_collective", err))
	}
	return entry, nil
}

func (s *queryService) GetCollectiveParticipants(ctx context.Context, address types.Address) (types.CollectiveEntry, []types.ParticipantEntry, error) {
	const op = "get_collective_participants"
	dbc := dbctx.Background(ctx)
	collective, err := s.collective(dbc, op, address)
	if err != nil {
		return types.CollectiveEntry{}, nil, err
	}
	rows, err := s.links.ListBySourceTag(dbc, collective.Address.String(), types.LinkTagCollectivePerson)
	if err != nil {
		return types.CollectiveEntry{}, nil, aggregates.MapError(op, aggregates.MapError("list_collective_people", err))
	}
	out := make([]types.ParticipantEntry, 0, len(rows))
	for _, row := range rows {
		p, err := s.reader.Participant(dbc, types.Address(row.Target))
		if err != nil {
			s.log.Warn("collective member did not resolve", "collective_address", collective.Address, "participant_address", row.Target, "error", err)
			return types.CollectiveEntry{}, nil, aggregates.MapError(op, aggregates.MapError("load_participant", err))
		}
		p.Role = row.Role
		out = append(out, p)
	}
	return collective, out, nil
}

// GetCollectiveCreator returns the Creator link with the lowest seq.
func (s *queryService) GetCollectiveCreator(ctx context.Context, address types.Address) (types.ParticipantEntry, error) {
	const op = "get_collective_creator"
	dbc := dbctx.Background(ctx)
	collective, err := s.collective(dbc, op, address)
	if err != nil {
		return types.ParticipantEntry{}, err
	}
	rows, err := s.links.ListBySourceTag(dbc, collective.Address.String(), types.LinkTagCollectivePerson)
	if err != nil {
		return types.ParticipantEntry{}, aggregates.MapError(op, aggregates.MapError("list_collective_people", err))
	}
	var creator *types.Link
	for _, row := range rows {
		if row.Role != types.RoleCreator {
			continue
		}
		if creator == nil || row.Seq < creator.Seq {
			creator = row
		}
	}
	if creator == nil {
		return types.ParticipantEntry{}, aggregates.MapError(op, aggregates.NotFoundError("no Creator found"))
	}
	p, err := s.reader.Participant(dbc, types.Address(creator.Target))
	if err != nil {
		return types.ParticipantEntry{}, aggregates.MapError(op, aggregates.MapError("load_participant", err))
	}
	p.Role = creator.Role
	return p, nil
}

// GetActions lists a collective's actions oldest first, by seq.
func (s *queryService) GetActions(ctx context.Context, address types.Address) (types.CollectiveEntry, []types.ActionEntry, error) {
	const op = "get_actions"
	dbc := dbctx.Background(ctx)
	collective, err := s.collective(dbc, op, address)
	if err != nil {
		return types.CollectiveEntry{}, nil, err
	}
	actions, err := s.actions.List(dbc, collective.Address)
	if err != nil {
		return types.CollectiveEntry{}, nil, aggregates.MapError(op, err)
	}
	return collective, actions, nil
}

func (s *queryService) GetChildActions(ctx context.Context, parent types.Address) ([]types.ActionEntry, error) {
	const op = "get_child_actions"
	dbc := dbctx.Background(ctx)
	if _, err := s.reader.Action(dbc, parent); err != nil {
		return nil, aggregates.MapError(op, aggregates.MapError("load_action", err))
	}
	children, err := s.actions.Children(dbc, parent)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return children, nil
}

func (s *queryService) GetCollectiveLedger(ctx context.Context, address types.Address) (types.LedgerEntry, error) {
	const op = "get_collective_ledger"
	dbc := dbctx.Background(ctx)
	collective, err := s.collective(dbc, op, address)
	if err != nil {
		return types.LedgerEntry{}, err
	}
	rows, err := s.links.ListBySourceTag(dbc, collective.Address.String(), types.LinkTagCollectiveLedger)
	if err != nil {
		return types.LedgerEntry{}, aggregates.MapError(op, aggregates.MapError("list_collective_ledger", err))
	}
	if len(rows) == 0 {
		return types.LedgerEntry{}, aggregates.MapError(op, aggregates.NotFoundError("ledger hash not found"))
	}
	ledger, err := s.reader.Ledger(dbc, types.Address(rows[0].Target))
	if err != nil {
		return types.LedgerEntry{}, aggregates.MapError(op, aggregates.MapError("load_ledger", err))
	}
	return ledger, nil
}
