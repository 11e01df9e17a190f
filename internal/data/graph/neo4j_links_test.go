package graph

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

func TestLinkFromRecord(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := &neo4j.Record{
		Keys:   []string{"id", "target", "seq", "role", "created_at"},
		Values: []any{id.String(), "p1", int64(3), "Creator", created.Format(time.RFC3339Nano)},
	}
	link, err := linkFromRecord(rec, "c1", "collective_person")
	if err != nil {
		t.Fatalf("linkFromRecord: %v", err)
	}
	if link.ID != id || link.Target != "p1" || link.Seq != 3 || link.Role != "Creator" {
		t.Fatalf("linkFromRecord: got=%+v", link)
	}
	if link.Source != "c1" || link.Tag != "collective_person" || !link.CreatedAt.Equal(created) {
		t.Fatalf("linkFromRecord: got=%+v", link)
	}
}

func TestLinkFromRecordRejectsBadID(t *testing.T) {
	rec := &neo4j.Record{
		Keys:   []string{"id", "target", "seq", "role", "created_at"},
		Values: []any{"not-a-uuid", "p1", int64(1), nil, nil},
	}
	if _, err := linkFromRecord(rec, "c1", "collective_person"); err == nil {
		t.Fatalf("linkFromRecord: expected error for bad id")
	}
}

func TestLinkIndexWithoutDriver(t *testing.T) {
	x := NewLinkIndex(nil, logger.Nop())
	dbc := dbctx.Background(context.Background())
	if _, err := x.GetMaxSeq(dbc, "c1", "collective_action"); err == nil {
		t.Fatalf("GetMaxSeq: expected error without driver")
	}
	rows, err := x.ListBySourceTag(dbc, "", "collective_action")
	if err != nil || len(rows) != 0 {
		t.Fatalf("ListBySourceTag(empty source): rows=%v err=%v", rows, err)
	}
}
