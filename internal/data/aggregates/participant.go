package aggregates

import (
	"context"
	"strings"

	"github.com/yungbote/collective-backend/internal/data/repos"
	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

type ParticipantAggregateDeps struct {
	Base BaseDeps

	Records repos.RecordRepo

	Validator *AuthorizationValidator
}

type participantAggregate struct {
	deps   ParticipantAggregateDeps
	reader *EntryReader
}

func NewParticipantAggregate(deps ParticipantAggregateDeps) domainagg.ParticipantAggregate {
	deps.Base = deps.Base.withDefaults()
	reader := NewEntryReader(deps.Records)
	if deps.Validator == nil {
		deps.Validator = NewAuthorizationValidator(participantLookup(reader))
	}
	return &participantAggregate{deps: deps, reader: reader}
}

func (a *participantAggregate) Contract() domainagg.Contract {
	return domainagg.ParticipantAggregateContract
}

func (a *participantAggregate) Create(ctx context.Context, in domainagg.CreateParticipantInput) (types.ParticipantEntry, error) {
	const op = "create_participant"
	var out types.ParticipantEntry

	if types.NameTooLong(in.Name) {
		return out, MapError(op, InvariantError(msgNameTooLong))
	}
	if in.Sources.Empty() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing declared sources", nil)
	}
	status, ok := types.ParseParticipantStatus(in.Status)
	if !ok {
		return out, MapError(op, ValidationError(msgParticipantStatusUnknown))
	}
	owner := types.Identity(strings.TrimSpace(string(in.OwnerIdentity)))
	if owner == "" {
		owner = in.Sources.Primary()
	}
	participant := types.Participant{
		OwnerIdentity: owner,
		Name:          in.Name,
		Status:        status,
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := a.deps.Validator.ValidateParticipantCreate(participant, in.Sources); err != nil {
			return MapError("validate_participant", err)
		}
		rec, created, err := commitEntry(dbc, a.deps.Records, types.RecordTypeParticipant, participant, in.Sources.Primary(), a.deps.Base.Now())
		if err != nil {
			return MapError("commit_participant", err)
		}
		if !created {
			// Same content as an earlier participant: answer with its current version.
			existing, err := a.reader.Participant(dbc, types.Address(rec.Address))
			if err != nil {
				return MapError("load_participant", err)
			}
			out = existing
			return nil
		}
		out = types.ParticipantEntry{Address: types.Address(rec.Origin), Participant: participant}
		return nil
	})
	if err != nil {
		return types.ParticipantEntry{}, err
	}
	return out, nil
}

func (a *participantAggregate) Get(ctx context.Context, address types.Address) (types.ParticipantEntry, error) {
	const op = "get_participant"
	if address.IsZero() {
		return types.ParticipantEntry{}, domainagg.NewError(domainagg.CodeValidation, op, "missing participant address", nil)
	}
	entry, err := a.reader.Participant(dbctx.Background(ctx), address)
	if err != nil {
		return types.ParticipantEntry{}, MapError(op, err)
	}
	return entry, nil
}

// Update supersedes a participant. Empty fields keep their current value.
func (a *participantAggregate) Update(ctx context.Context, in domainagg.UpdateParticipantInput) (types.ParticipantEntry, error) {
	const op = "update_participant"
	var out types.ParticipantEntry

	if in.Address.IsZero() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing participant address", nil)
	}
	if in.Sources.Empty() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing declared sources", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		var current types.Participant
		prev, err := a.reader.latest(dbc, in.Address, types.RecordTypeParticipant, &current)
		if err != nil {
			return MapError("load_participant", err)
		}

		next := current
		if owner := types.Identity(strings.TrimSpace(string(in.OwnerIdentity))); owner != "" {
			next.OwnerIdentity = owner
		}
		if in.Name != "" {
			next.Name = in.Name
		}
		if strings.TrimSpace(in.Status) != "" {
			status, ok := types.ParseParticipantStatus(in.Status)
			if !ok {
				return ValidationError(msgParticipantStatusUnknown)
			}
			next.Status = status
		}

		if err := a.deps.Validator.ValidateParticipantModify(current, next, in.Sources); err != nil {
			return MapError("validate_participant", err)
		}
		rec, err := supersedeEntry(dbc, a.deps.Records, prev, next, in.Sources.Primary(), a.deps.Base.Now())
		if err != nil {
			return MapError("update_participant_entry", err)
		}
		out = types.ParticipantEntry{Address: types.Address(rec.Origin), Participant: next}
		return nil
	})
	if err != nil {
		return types.ParticipantEntry{}, err
	}
	return out, nil
}

func (a *participantAggregate) Delete(ctx context.Context, in domainagg.DeleteParticipantInput) error {
	return executeWrite(ctx, a.deps.Base, "delete_participant", func(dbc dbctx.Context) error {
		return a.deps.Validator.ValidateParticipantDelete()
	})
}
