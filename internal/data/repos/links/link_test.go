package links

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/collective-backend/internal/data/repos/testutil"
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

func TestLinkRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLinkRepo(db, testutil.Logger(t))

	source := "collective-" + uuid.NewString()
	rows, err := repo.Create(dbc, []*types.Link{
		{Source: source, Target: "a1", Tag: types.LinkTagCollectiveAction},
		{Source: source, Target: "a2", Tag: types.LinkTagCollectiveAction},
		{Source: source, Target: "p1", Tag: types.LinkTagCollectivePerson, Role: types.RoleCreator},
	})
	if err != nil || len(rows) != 3 {
		t.Fatalf("Create: err=%v len=%d", err, len(rows))
	}
	if rows[0].Seq != 1 || rows[1].Seq != 2 || rows[2].Seq != 1 {
		t.Fatalf("Create seq: got=%d,%d,%d", rows[0].Seq, rows[1].Seq, rows[2].Seq)
	}
	if rows[0].ID == uuid.Nil || rows[0].CreatedAt.IsZero() {
		t.Fatalf("Create defaults not filled: %+v", rows[0])
	}

	max, err := repo.GetMaxSeq(dbc, source, types.LinkTagCollectiveAction)
	if err != nil || max != 2 {
		t.Fatalf("GetMaxSeq: want=2 got=%d err=%v", max, err)
	}

	if _, err := repo.Create(dbc, []*types.Link{{Source: source, Target: "a3", Tag: types.LinkTagCollectiveAction}}); err != nil {
		t.Fatalf("Create(next): %v", err)
	}
	listed, err := repo.ListBySourceTag(dbc, source, types.LinkTagCollectiveAction)
	if err != nil || len(listed) != 3 {
		t.Fatalf("ListBySourceTag: err=%v len=%d", err, len(listed))
	}
	for i, want := range []string{"a1", "a2", "a3"} {
		if listed[i].Target != want || listed[i].Seq != int64(i+1) {
			t.Fatalf("ListBySourceTag[%d]: want=%s/%d got=%s/%d", i, want, i+1, listed[i].Target, listed[i].Seq)
		}
	}

	if err := repo.DeleteByIDs(dbc, []uuid.UUID{rows[2].ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	people, err := repo.ListBySourceTag(dbc, source, types.LinkTagCollectivePerson)
	if err != nil || len(people) != 0 {
		t.Fatalf("ListBySourceTag after delete: err=%v len=%d", err, len(people))
	}
}

func TestLinkRepoRejectsDuplicateSeq(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewLinkRepo(db, testutil.Logger(t))

	source := "collective-" + uuid.NewString()
	if _, err := repo.Create(dbc, []*types.Link{{Source: source, Target: "a1", Tag: types.LinkTagCollectiveAction, Seq: 1}}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(dbc, []*types.Link{{Source: source, Target: "a2", Tag: types.LinkTagCollectiveAction, Seq: 1}}); err == nil {
		t.Fatalf("Create: expected unique violation on duplicate seq")
	}
}
