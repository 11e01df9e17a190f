package aggregates_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yungbote/collective-backend/internal/data/aggregates"
	"github.com/yungbote/collective-backend/internal/data/repos/memstore"
	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
)

func newParticipants(store *memstore.Store) domainagg.ParticipantAggregate {
	return aggregates.NewParticipantAggregate(aggregates.ParticipantAggregateDeps{
		Base:    aggregates.BaseDeps{Runner: store},
		Records: store.Records(),
	})
}

func TestCreateParticipantDefaults(t *testing.T) {
	store := memstore.New()
	participants := newParticipants(store)

	p, err := participants.Create(context.Background(), domainagg.CreateParticipantInput{
		Name:    strings.Repeat("a", 64),
		Sources: types.NewSources("alice"),
	})
	require.NoError(t, err)
	require.Equal(t, types.Identity("alice"), p.Participant.OwnerIdentity)
	require.Equal(t, types.ParticipantActive, p.Participant.Status)

	got, err := participants.Get(context.Background(), p.Address)
	require.NoError(t, err)
	require.Equal(t, p.Participant, got.Participant)
}

func TestCreateParticipantNameTooLong(t *testing.T) {
	participants := newParticipants(memstore.New())
	_, err := participants.Create(context.Background(), domainagg.CreateParticipantInput{
		Name:    strings.Repeat("a", 65),
		Sources: types.NewSources("alice"),
	})
	require.True(t, domainagg.IsCode(err, domainagg.CodeInvariantViolation), "got=%v", err)
	require.Equal(t, "Name is too long", domainagg.MessageOf(err))
}

func TestCreateParticipantForeignOwnerRejected(t *testing.T) {
	participants := newParticipants(memstore.New())
	_, err := participants.Create(context.Background(), domainagg.CreateParticipantInput{
		Name:          "Bob",
		OwnerIdentity: "bob",
		Sources:       types.NewSources("alice"),
	})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidationRejected), "got=%v", err)
	require.Equal(t, "Participant must be created by agent", domainagg.MessageOf(err))
}

func TestCreateParticipantUnknownStatus(t *testing.T) {
	participants := newParticipants(memstore.New())
	_, err := participants.Create(context.Background(), domainagg.CreateParticipantInput{
		Name:    "Alice",
		Status:  "Banned",
		Sources: types.NewSources("alice"),
	})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidation), "got=%v", err)
}

func TestCreateParticipantIsIdempotent(t *testing.T) {
	participants := newParticipants(memstore.New())
	in := domainagg.CreateParticipantInput{Name: "Alice", Sources: types.NewSources("alice")}
	a, err := participants.Create(context.Background(), in)
	require.NoError(t, err)
	b, err := participants.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, a.Address, b.Address)
}

func TestCreateParticipantAgainReturnsCurrentVersion(t *testing.T) {
	participants := newParticipants(memstore.New())
	ctx := context.Background()
	in := domainagg.CreateParticipantInput{Name: "Alice", Sources: types.NewSources("alice")}
	p, err := participants.Create(ctx, in)
	require.NoError(t, err)

	_, err = participants.Update(ctx, domainagg.UpdateParticipantInput{
		Address: p.Address,
		Name:    "Alicia",
		Sources: types.NewSources("alice"),
	})
	require.NoError(t, err)

	again, err := participants.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, p.Address, again.Address)
	require.Equal(t, "Alicia", again.Participant.Name)

	got, err := participants.Get(ctx, p.Address)
	require.NoError(t, err)
	require.Equal(t, got.Participant, again.Participant)
}

func TestUpdateParticipant(t *testing.T) {
	participants := newParticipants(memstore.New())
	p, err := participants.Create(context.Background(), domainagg.CreateParticipantInput{Name: "Alice", Sources: types.NewSources("alice")})
	require.NoError(t, err)

	updated, err := participants.Update(context.Background(), domainagg.UpdateParticipantInput{
		Address: p.Address,
		Status:  "inactive",
		Sources: types.NewSources("alice"),
	})
	require.NoError(t, err)
	require.Equal(t, p.Address, updated.Address)
	require.Equal(t, "Alice", updated.Participant.Name)
	require.Equal(t, types.ParticipantInactive, updated.Participant.Status)

	got, err := participants.Get(context.Background(), p.Address)
	require.NoError(t, err)
	require.Equal(t, types.ParticipantInactive, got.Participant.Status)

	_, err = participants.Update(context.Background(), domainagg.UpdateParticipantInput{
		Address: p.Address,
		Name:    "Mallory",
		Sources: types.NewSources("mallory"),
	})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidationRejected), "got=%v", err)
	require.Equal(t, "Participant can only update by oneself", domainagg.MessageOf(err))

	_, err = participants.Update(context.Background(), domainagg.UpdateParticipantInput{
		Address:       p.Address,
		OwnerIdentity: "mallory",
		Sources:       types.NewSources("alice"),
	})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidationRejected), "got=%v", err)
	require.Equal(t, "Participant cannot update agent_address", domainagg.MessageOf(err))
}

func TestDeleteParticipantRejected(t *testing.T) {
	participants := newParticipants(memstore.New())
	err := participants.Delete(context.Background(), domainagg.DeleteParticipantInput{Address: "p", Sources: types.NewSources("alice")})
	require.True(t, domainagg.IsCode(err, domainagg.CodeValidationRejected), "got=%v", err)
}

func TestGetParticipantNotFound(t *testing.T) {
	participants := newParticipants(memstore.New())
	_, err := participants.Get(context.Background(), "nope")
	require.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "got=%v", err)
	require.Equal(t, "participant hash not found", domainagg.MessageOf(err))
}
