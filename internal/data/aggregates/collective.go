package aggregates

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/collective-backend/internal/data/repos"
	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

type CollectiveAggregateDeps struct {
	Base BaseDeps

	Records repos.RecordRepo
	Links   repos.LinkRepo

	// Optional; built from Records and Links when nil.
	Actions   *ActionLog
	Validator *AuthorizationValidator
}

type collectiveAggregate struct {
	deps   CollectiveAggregateDeps
	reader *EntryReader
}

func NewCollectiveAggregate(deps CollectiveAggregateDeps) domainagg.CollectiveAggregate {
	deps.Base = deps.Base.withDefaults()
	reader := NewEntryReader(deps.Records)
	if deps.Actions == nil {
		deps.Actions = NewActionLog(deps.Records, deps.Links, deps.Base)
	}
	if deps.Validator == nil {
		deps.Validator = NewAuthorizationValidator(participantLookup(reader))
	}
	return &collectiveAggregate{deps: deps, reader: reader}
}

func participantLookup(reader *EntryReader) ParticipantLookup {
	return func(dbc dbctx.Context, address types.Address) (types.Participant, error) {
		entry, err := reader.Participant(dbc, address)
		if err != nil {
			return types.Participant{}, err
		}
		return entry.Participant, nil
	}
}

func (a *collectiveAggregate) Contract() domainagg.Contract {
	return domainagg.CollectiveAggregateContract
}

func (a *collectiveAggregate) Create(ctx context.Context, in domainagg.CreateCollectiveInput) (domainagg.CreateCollectiveResult, error) {
	const op = "create_collective"
	var out domainagg.CreateCollectiveResult

	if in.Sources.Empty() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing declared sources", nil)
	}
	if a.deps.Records == nil || a.deps.Links == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "collective aggregate repos not configured", nil)
	}
	caller := in.Sources.Primary()
	name := in.Name

	err := executeSaga(ctx, a.deps.Base, op, func(dbc dbctx.Context, comp Compensator) error {
		now := a.deps.Base.Now()
		result := domainagg.CreateCollectiveResult{}

		admin, err := a.resolveAdmin(dbc, in.ParticipantAddress, caller, name, in.Sources, now)
		if err != nil {
			return MapError("resolve_admin", err)
		}
		result.Admin = admin

		collective := types.Collective{Name: name, AdminAddress: types.AddressPtr(admin.Address)}
		if err := a.deps.Validator.ValidateCollectiveCreate(dbc, collective, in.Sources); err != nil {
			return MapError("validate_collective", err)
		}
		rec, collective, err := a.commitCollective(dbc, collective, caller, now)
		if err != nil {
			return MapError("commit_collective", err)
		}
		address := types.Address(rec.Address)
		result.Collective = types.CollectiveEntry{Address: address, Collective: collective}

		createAction, err := a.deps.Actions.Append(dbc, comp, AppendActionInput{
			Op:                types.ActionOpCreateCollective,
			Data:              collective,
			Tag:               types.ActionTagCreateCollective,
			CollectiveAddress: address,
			Author:            caller,
		})
		if err != nil {
			return MapError("create_collective_action", err)
		}

		ledger, err := a.createLedger(dbc, comp, address, name, caller, now)
		if err != nil {
			return MapError("create_collective_ledger", err)
		}
		result.Ledger = ledger

		nameAction, err := a.deps.Actions.Append(dbc, comp, AppendActionInput{
			Op:                types.ActionOpSetCollectiveName,
			Data:              types.SetCollectiveNameData{Name: name},
			Tag:               types.ActionTagSetCollectiveName,
			CollectiveAddress: address,
			Author:            caller,
		})
		if err != nil {
			return MapError("set_collective_name_action", err)
		}

		if err := linkWithCompensation(dbc, a.deps.Links, comp, "link_collective_person", &types.Link{
			Source: address.String(),
			Target: admin.Address.String(),
			Tag:    types.LinkTagCollectivePerson,
			Role:   types.RoleCreator,
		}); err != nil {
			return MapError("add_collective_person", err)
		}
		addAction, err := a.deps.Actions.Append(dbc, comp, AppendActionInput{
			Op:                types.ActionOpAddParticipant,
			Data:              types.AddParticipantData{ParticipantAddress: admin.Address},
			Tag:               types.ActionTagAddCollectivePerson,
			CollectiveAddress: address,
			Author:            caller,
		})
		if err != nil {
			return MapError("add_collective_person", err)
		}

		result.Actions = []types.ActionEntry{createAction, nameAction, addAction}
		out = result
		return nil
	})
	if err != nil {
		return domainagg.CreateCollectiveResult{}, err
	}
	a.deps.Actions.Committed(out.Actions)
	return out, nil
}

// commitCollective stores collective as a new first version. Identical
// content whose collective still carries it is a conflict. When that
// collective has since been renamed, the new one moves to the next
// generation and gets its own address.
func (a *collectiveAggregate) commitCollective(dbc dbctx.Context, collective types.Collective, author types.Identity, now time.Time) (*types.Record, types.Collective, error) {
	for gen := 0; ; gen++ {
		collective.Generation = gen
		rec, created, err := commitEntry(dbc, a.deps.Records, types.RecordTypeCollective, collective, author, now)
		if err != nil {
			return nil, types.Collective{}, err
		}
		if created {
			return rec, collective, nil
		}
		var live types.Collective
		if _, err := a.reader.latest(dbc, types.Address(rec.Address), types.RecordTypeCollective, &live); err != nil {
			return nil, types.Collective{}, err
		}
		if live.Name == collective.Name && live.SameAdmin(collective) {
			return nil, types.Collective{}, ConflictError("collective already exists")
		}
	}
}

// resolveAdmin uses the participant at address when it resolves and
// synthesizes one owned by the caller otherwise.
func (a *collectiveAggregate) resolveAdmin(dbc dbctx.Context, address *types.Address, caller types.Identity, name string, sources types.Sources, now time.Time) (types.ParticipantEntry, error) {
	if address != nil && !address.IsZero() {
		entry, err := a.reader.Participant(dbc, *address)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return types.ParticipantEntry{}, err
		}
	}

	participant := types.Participant{
		OwnerIdentity: caller,
		Name:          name,
		Status:        types.ParticipantActive,
	}
	if err := a.deps.Validator.ValidateParticipantCreate(participant, sources); err != nil {
		return types.ParticipantEntry{}, MapError("validate_admin", err)
	}
	rec, created, err := commitEntry(dbc, a.deps.Records, types.RecordTypeParticipant, participant, caller, now)
	if err != nil {
		return types.ParticipantEntry{}, MapError("commit_admin", err)
	}
	if !created {
		return a.reader.Participant(dbc, types.Address(rec.Address))
	}
	return types.ParticipantEntry{Address: types.Address(rec.Origin), Participant: participant}, nil
}

func (a *collectiveAggregate) createLedger(dbc dbctx.Context, comp Compensator, collective types.Address, name string, author types.Identity, now time.Time) (types.LedgerEntry, error) {
	ledger := types.Ledger{Name: types.PrimaryLedgerName(name)}
	rec, _, err := commitEntry(dbc, a.deps.Records, types.RecordTypeLedger, ledger, author, now)
	if err != nil {
		return types.LedgerEntry{}, MapError("commit_ledger", err)
	}
	if err := linkWithCompensation(dbc, a.deps.Links, comp, "link_collective_ledger", &types.Link{
		Source: collective.String(),
		Target: rec.Address,
		Tag:    types.LinkTagCollectiveLedger,
	}); err != nil {
		return types.LedgerEntry{}, err
	}
	return types.LedgerEntry{Address: types.Address(rec.Origin), Ledger: ledger}, nil
}

func (a *collectiveAggregate) Get(ctx context.Context, address types.Address) (types.CollectiveEntry, error) {
	const op = "get_collective"
	if strings.TrimSpace(address.String()) == "" {
		return types.CollectiveEntry{}, domainagg.NewError(domainagg.CodeValidation, op, "missing collective address", nil)
	}
	entry, err := a.reader.Collective(dbctx.Background(ctx), address)
	if err != nil {
		return types.CollectiveEntry{}, MapError(op, err)
	}
	return entry, nil
}

func (a *collectiveAggregate) SetName(ctx context.Context, in domainagg.SetCollectiveNameInput) (domainagg.SetCollectiveNameResult, error) {
	const op = "set_collective_name"
	var out domainagg.SetCollectiveNameResult

	if in.Address.IsZero() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing collective address", nil)
	}
	if in.Sources.Empty() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing declared sources", nil)
	}
	caller := in.Sources.Primary()

	err := executeSaga(ctx, a.deps.Base, op, func(dbc dbctx.Context, comp Compensator) error {
		now := a.deps.Base.Now()

		var current types.Collective
		prev, err := a.reader.latest(dbc, in.Address, types.RecordTypeCollective, &current)
		if err != nil {
			return MapError("load_collective", err)
		}
		next := current
		next.Name = in.Name
		if err := a.deps.Validator.ValidateCollectiveModify(dbc, current, next, in.Sources); err != nil {
			return MapError("validate_collective", err)
		}

		rec, err := supersedeEntry(dbc, a.deps.Records, prev, next, caller, now)
		if err != nil {
			return MapError("update_collective", err)
		}
		origin := types.Address(rec.Origin)

		action, err := a.deps.Actions.Append(dbc, comp, AppendActionInput{
			Op:                types.ActionOpSetCollectiveName,
			Data:              types.SetCollectiveNameData{Name: next.Name},
			PrevData:          types.SetCollectiveNameData{Name: current.Name},
			Tag:               types.ActionTagSetCollectiveName,
			CollectiveAddress: origin,
			Author:            caller,
		})
		if err != nil {
			return MapError("set_collective_name_action", err)
		}

		out = domainagg.SetCollectiveNameResult{
			Collective: types.CollectiveEntry{Address: origin, Collective: next},
			Version:    types.Address(rec.Address),
			Actions:    []types.ActionEntry{action},
		}
		return nil
	})
	if err != nil {
		return domainagg.SetCollectiveNameResult{}, err
	}
	a.deps.Actions.Committed(out.Actions)
	return out, nil
}

func (a *collectiveAggregate) Delete(ctx context.Context, in domainagg.DeleteCollectiveInput) error {
	return executeWrite(ctx, a.deps.Base, "delete_collective", func(dbc dbctx.Context) error {
		return a.deps.Validator.ValidateCollectiveDelete()
	})
}
