package graph

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

type fakeLinkTx struct {
	events    *[]string
	cypher    []string
	runErr    error
	commitErr error
}

func (f *fakeLinkTx) Run(_ context.Context, cypher string, _ map[string]any) (neo4j.ResultWithContext, error) {
	f.cypher = append(f.cypher, cypher)
	return nil, f.runErr
}

func (f *fakeLinkTx) Commit(context.Context) error {
	*f.events = append(*f.events, "links-commit")
	return f.commitErr
}

func (f *fakeLinkTx) Rollback(context.Context) error {
	*f.events = append(*f.events, "links-rollback")
	return nil
}

// recordingStore stands in for the record store's transaction runner.
type recordingStore struct {
	events     *[]string
	failCommit error
}

func (s recordingStore) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if err := fn(dbctx.Context{Ctx: ctx}); err != nil {
		*s.events = append(*s.events, "store-rollback")
		return err
	}
	if s.failCommit != nil {
		*s.events = append(*s.events, "store-rollback")
		return s.failCommit
	}
	*s.events = append(*s.events, "store-commit")
	return nil
}

type runnerFixture struct {
	events []string
	tx     *fakeLinkTx
	begins int
	closes int
	index  *LinkIndex
	runner *TxRunner
}

func newRunnerFixture(failCommit error) *runnerFixture {
	f := &runnerFixture{}
	f.tx = &fakeLinkTx{events: &f.events}
	f.index = NewLinkIndex(nil, logger.Nop())
	f.runner = &TxRunner{
		inner: recordingStore{events: &f.events, failCommit: failCommit},
		index: f.index,
		begin: func(context.Context) (linkTx, func(context.Context), error) {
			f.begins++
			return f.tx, func(context.Context) { f.closes++ }, nil
		},
	}
	return f
}

func TestTxRunnerCommitsLinksAfterStore(t *testing.T) {
	f := newRunnerFixture(nil)
	var joined bool
	err := f.runner.InTx(context.Background(), func(dbc dbctx.Context) error {
		open := openTxFrom(dbc.Ctx)
		joined = open != nil && open.tx == f.tx
		return nil
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if !joined {
		t.Fatalf("store transaction did not carry the open link transaction")
	}
	want := []string{"store-commit", "links-commit"}
	if !reflect.DeepEqual(f.events, want) {
		t.Fatalf("events: want=%v got=%v", want, f.events)
	}
	if f.begins != 1 || f.closes != 1 {
		t.Fatalf("session lifecycle: begins=%d closes=%d", f.begins, f.closes)
	}
}

func TestTxRunnerRollsBackLinksWithStore(t *testing.T) {
	boom := errors.New("boom")
	f := newRunnerFixture(nil)
	err := f.runner.InTx(context.Background(), func(dbctx.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("InTx: want=%v got=%v", boom, err)
	}
	want := []string{"store-rollback", "links-rollback"}
	if !reflect.DeepEqual(f.events, want) {
		t.Fatalf("events: want=%v got=%v", want, f.events)
	}
}

func TestTxRunnerStoreCommitFailureRollsBackLinks(t *testing.T) {
	lost := errors.New("commit lost")
	f := newRunnerFixture(lost)
	err := f.runner.InTx(context.Background(), func(dbctx.Context) error { return nil })
	if !errors.Is(err, lost) {
		t.Fatalf("InTx: want=%v got=%v", lost, err)
	}
	want := []string{"store-rollback", "links-rollback"}
	if !reflect.DeepEqual(f.events, want) {
		t.Fatalf("events: want=%v got=%v", want, f.events)
	}
}

func TestTxRunnerLinkCommitFailureIsReported(t *testing.T) {
	f := newRunnerFixture(nil)
	f.tx.commitErr = errors.New("leader switched")
	err := f.runner.InTx(context.Background(), func(dbctx.Context) error { return nil })
	if err == nil || !errors.Is(err, f.tx.commitErr) {
		t.Fatalf("InTx: want wrapped commit error, got=%v", err)
	}
}

func TestTxRunnerNestedJoinsOuter(t *testing.T) {
	f := newRunnerFixture(nil)
	err := f.runner.InTx(context.Background(), func(dbc dbctx.Context) error {
		return f.runner.InTx(dbc.Ctx, func(inner dbctx.Context) error {
			if openTxFrom(inner.Ctx) == nil {
				t.Errorf("nested call lost the open link transaction")
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}
	if f.begins != 1 {
		t.Fatalf("begins: want=1 got=%d", f.begins)
	}
}

func TestLinkWritesJoinOpenTxAndLockSourceFirst(t *testing.T) {
	stop := errors.New("stop")
	f := newRunnerFixture(nil)
	f.tx.runErr = stop

	err := f.runner.InTx(context.Background(), func(dbc dbctx.Context) error {
		_, err := f.index.Create(dbc, []*types.Link{
			{Source: "c2", Target: "a1", Tag: types.LinkTagCollectiveAction, Seq: 1},
			{Source: "c1", Target: "a2", Tag: types.LinkTagCollectiveAction, Seq: 1},
		})
		return err
	})
	// The index has no driver, so reaching the fake proves the write joined
	// the open transaction.
	if !errors.Is(err, stop) {
		t.Fatalf("Create: want=%v got=%v", stop, err)
	}
	if len(f.tx.cypher) != 1 || f.tx.cypher[0] != lockSourcesCypher {
		t.Fatalf("first statement must lock sources, got=%q", f.tx.cypher)
	}

	f.tx.cypher = nil
	_ = f.runner.InTx(context.Background(), func(dbc dbctx.Context) error {
		_, err := f.index.GetMaxSeq(dbc, "c1", types.LinkTagCollectiveAction)
		return err
	})
	if len(f.tx.cypher) != 1 || f.tx.cypher[0] != lockSourcesCypher {
		t.Fatalf("GetMaxSeq in a transaction must lock its source, got=%q", f.tx.cypher)
	}
}
