package records

import (
	"context"
	"testing"

	"github.com/yungbote/collective-backend/internal/data/repos/testutil"
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/contenthash"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

func TestRecordRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewRecordRepo(db, testutil.Logger(t))

	first := testutil.SealRecord(t, types.RecordTypeCollective, "alice", map[string]any{"name": "Collective 0"})
	created, err := repo.Create(dbc, first)
	if err != nil || !created {
		t.Fatalf("Create: created=%v err=%v", created, err)
	}
	if first.Origin != first.Address || first.Version != 1 {
		t.Fatalf("Create defaults: origin=%s version=%d", first.Origin, first.Version)
	}

	again := first.Clone()
	created, err = repo.Create(dbc, again)
	if err != nil || created {
		t.Fatalf("Create duplicate: created=%v err=%v", created, err)
	}

	got, err := repo.GetByAddress(dbc, first.Address)
	if err != nil || got == nil {
		t.Fatalf("GetByAddress: rec=%v err=%v", got, err)
	}
	if got.Author != "alice" || got.Type != string(types.RecordTypeCollective) {
		t.Fatalf("GetByAddress: want author=alice type=Collective got author=%s type=%s", got.Author, got.Type)
	}

	missing, err := repo.GetByAddress(dbc, "does-not-exist")
	if err != nil || missing != nil {
		t.Fatalf("GetByAddress(missing): rec=%v err=%v", missing, err)
	}

	address, body, err := contenthash.Seal(string(types.RecordTypeCollective), map[string]any{"name": "Renamed"}, first.Address)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	next := &types.Record{
		Address: address,
		Type:    string(types.RecordTypeCollective),
		Author:  "alice",
		Content: datatypes.JSON(body),
	}
	if _, err := repo.Supersede(dbc, got, next); err != nil {
		t.Fatalf("Supersede: %v", err)
	}
	if next.Version != 2 || next.Origin != first.Address {
		t.Fatalf("Supersede chain: origin=%s version=%d", next.Origin, next.Version)
	}
	if next.Replaces == nil || *next.Replaces != first.Address {
		t.Fatalf("Supersede replaces: %v", next.Replaces)
	}

	latest, err := repo.GetLatest(dbc, first.Address)
	if err != nil || latest == nil {
		t.Fatalf("GetLatest: rec=%v err=%v", latest, err)
	}
	if latest.Address != next.Address {
		t.Fatalf("GetLatest: want=%s got=%s", next.Address, latest.Address)
	}

	prev, err := repo.GetByAddress(dbc, first.Address)
	if err != nil || prev == nil || !prev.IsSuperseded() || *prev.SupersededBy != next.Address {
		t.Fatalf("predecessor not marked superseded: rec=%v err=%v", prev, err)
	}

	if _, err := repo.Supersede(dbc, nil, next); err != ErrSupersedeArgs {
		t.Fatalf("Supersede(nil): want=%v got=%v", ErrSupersedeArgs, err)
	}
}
