package aggregates

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/collective-backend/internal/data/repos"
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

type AppendActionInput struct {
	Op                types.ActionOp
	Data              any
	PrevData          any // nil is journaled as JSON null
	Tag               string
	CollectiveAddress types.Address
	ParentAddress     *types.Address
	Author            types.Identity
}

// ActionLog journals every mutating call as an immutable Action linked from
// its collective and, optionally, from a parent action.
type ActionLog struct {
	records repos.RecordRepo
	links   repos.LinkRepo
	base    BaseDeps
}

func NewActionLog(records repos.RecordRepo, links repos.LinkRepo, base BaseDeps) *ActionLog {
	base = base.withDefaults()
	return &ActionLog{
		records: records,
		links:   links,
		base:    base,
	}
}

// Append must run inside a write transaction. The collective_action link
// carries the same seq as the action.
func (l *ActionLog) Append(dbc dbctx.Context, comp Compensator, in AppendActionInput) (types.ActionEntry, error) {
	var out types.ActionEntry
	if in.CollectiveAddress.IsZero() {
		return out, ValidationError("action requires a collective address")
	}
	data, err := json.Marshal(in.Data)
	if err != nil {
		return out, ValidationError("action data: " + err.Error())
	}
	prev := json.RawMessage("null")
	if in.PrevData != nil {
		if prev, err = json.Marshal(in.PrevData); err != nil {
			return out, ValidationError("action prev_data: " + err.Error())
		}
	}

	max, err := l.links.GetMaxSeq(dbc, in.CollectiveAddress.String(), types.LinkTagCollectiveAction)
	if err != nil {
		return out, MapError("next_action_seq", err)
	}

	action := types.Action{
		Op:                in.Op,
		Status:            types.ActionStatusExecuted,
		Data:              data,
		PrevData:          prev,
		Tag:               strings.TrimSpace(in.Tag),
		Strategy:          types.ActionStrategySystemAutomatic,
		CollectiveAddress: in.CollectiveAddress,
		Seq:               max + 1,
		RecordedAt:        l.base.Now(),
	}
	rec, _, err := commitEntry(dbc, l.records, types.RecordTypeAction, action, in.Author, action.RecordedAt)
	if err != nil {
		return out, MapError("commit_action", err)
	}
	out = types.ActionEntry{Address: types.Address(rec.Address), Action: action}

	if err := l.link(dbc, comp, "link_collective_action", &types.Link{
		Source: in.CollectiveAddress.String(),
		Target: rec.Address,
		Tag:    types.LinkTagCollectiveAction,
		Seq:    action.Seq,
	}); err != nil {
		return types.ActionEntry{}, err
	}
	if in.ParentAddress != nil && !in.ParentAddress.IsZero() {
		if err := l.link(dbc, comp, "link_parent_action", &types.Link{
			Source: in.ParentAddress.String(),
			Target: rec.Address,
			Tag:    types.LinkTagParentChildAction,
		}); err != nil {
			return types.ActionEntry{}, err
		}
	}
	return out, nil
}

// Committed reports actions whose write transaction committed.
func (l *ActionLog) Committed(entries []types.ActionEntry) {
	for _, e := range entries {
		l.base.Hooks.ActionAppended(e.Action.Op)
	}
}

func (l *ActionLog) link(dbc dbctx.Context, comp Compensator, step string, row *types.Link) error {
	return linkWithCompensation(dbc, l.links, comp, step, row)
}

// linkWithCompensation inserts row and registers its removal with comp.
func linkWithCompensation(dbc dbctx.Context, links repos.LinkRepo, comp Compensator, step string, row *types.Link) error {
	if _, err := links.Create(dbc, []*types.Link{row}); err != nil {
		return MapError(step, err)
	}
	if comp != nil {
		id := row.ID
		comp.OnFailure("un"+step, func(ctx context.Context) error {
			return links.DeleteByIDs(dbctx.Background(ctx), []uuid.UUID{id})
		})
	}
	return nil
}

// List returns a collective's actions ordered by seq, oldest first.
func (l *ActionLog) List(dbc dbctx.Context, collective types.Address) ([]types.ActionEntry, error) {
	rows, err := l.links.ListBySourceTag(dbc, collective.String(), types.LinkTagCollectiveAction)
	if err != nil {
		return nil, MapError("list_collective_actions", err)
	}
	return l.load(dbc, rows)
}

// Children returns the actions linked below parent.
func (l *ActionLog) Children(dbc dbctx.Context, parent types.Address) ([]types.ActionEntry, error) {
	rows, err := l.links.ListBySourceTag(dbc, parent.String(), types.LinkTagParentChildAction)
	if err != nil {
		return nil, MapError("list_child_actions", err)
	}
	return l.load(dbc, rows)
}

func (l *ActionLog) load(dbc dbctx.Context, rows []*types.Link) ([]types.ActionEntry, error) {
	reader := NewEntryReader(l.records)
	out := make([]types.ActionEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := reader.Action(dbc, types.Address(row.Target))
		if err != nil {
			return nil, MapError("load_action", err)
		}
		out = append(out, entry)
	}
	sortActions(out)
	return out, nil
}

func sortActions(entries []types.ActionEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Action, entries[j].Action
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.RecordedAt.Before(b.RecordedAt)
	})
}
