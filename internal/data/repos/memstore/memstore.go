// Package memstore is an in-process record store and link index. It backs
// STORE_BACKEND=memory and the aggregate tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/collective-backend/internal/data/repos/links"
	"github.com/yungbote/collective-backend/internal/data/repos/records"
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

type state struct {
	records map[string]*types.Record
	links   map[string][]*types.Link // keyed by source + "\x00" + tag
}

func newState() state {
	return state{
		records: map[string]*types.Record{},
		links:   map[string][]*types.Link{},
	}
}

func (s state) clone() state {
	out := newState()
	for k, rec := range s.records {
		out.records[k] = rec.Clone()
	}
	for k, rows := range s.links {
		cp := make([]*types.Link, 0, len(rows))
		for _, row := range rows {
			v := *row
			cp = append(cp, &v)
		}
		out.links[k] = cp
	}
	return out
}

type txKey struct{}

// txState is the working copy of one transaction. Nothing in it is visible
// outside the transaction until InTx commits it.
type txState struct {
	mu sync.Mutex
	st state
}

func txFrom(ctx context.Context) *txState {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txKey{}).(*txState)
	return tx
}

// Store holds records and links in memory. Transactions run one at a time
// against a private copy of the committed state; commit swaps the copy in.
// Readers outside a transaction only ever see committed state.
type Store struct {
	txMu   sync.Mutex
	dataMu sync.RWMutex
	state  state
	now    func() time.Time
}

func New() *Store {
	return &Store{
		state: newState(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// InTx satisfies the aggregate TxRunner.
func (s *Store) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if txFrom(ctx) != nil {
		return fn(dbctx.Context{Ctx: ctx})
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	work := &txState{st: s.snapshot()}
	if err := fn(dbctx.Context{Ctx: context.WithValue(ctx, txKey{}, work)}); err != nil {
		return err
	}
	s.commit(work.st)
	return nil
}

func (s *Store) snapshot() state {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.state.clone()
}

func (s *Store) commit(st state) {
	s.dataMu.Lock()
	s.state = st
	s.dataMu.Unlock()
}

// write runs fn against the transaction's working copy. Outside a
// transaction it runs as its own single-statement transaction.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if tx := txFrom(ctx); tx != nil {
		tx.mu.Lock()
		defer tx.mu.Unlock()
		return fn(&tx.st)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	work := s.snapshot()
	if err := fn(&work); err != nil {
		return err
	}
	s.commit(work)
	return nil
}

func (s *Store) read(ctx context.Context, fn func(st *state)) {
	if tx := txFrom(ctx); tx != nil {
		tx.mu.Lock()
		defer tx.mu.Unlock()
		fn(&tx.st)
		return
	}
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	fn(&s.state)
}

// Records returns the store as a records.RecordRepo.
func (s *Store) Records() records.RecordRepo { return recordView{s} }

// Links returns the store as a links.LinkRepo.
func (s *Store) Links() links.LinkRepo { return linkView{s} }

type recordView struct{ s *Store }

func (v recordView) Create(dbc dbctx.Context, rec *types.Record) (bool, error) {
	if rec == nil {
		return false, nil
	}
	created := false
	err := v.s.write(dbc.Ctx, func(st *state) error {
		records.PrepareRecord(rec, v.s.now())
		if _, ok := st.records[rec.Address]; ok {
			return nil
		}
		st.records[rec.Address] = rec.Clone()
		created = true
		return nil
	})
	return created, err
}

func (v recordView) GetByAddress(dbc dbctx.Context, address string) (*types.Record, error) {
	var out *types.Record
	v.s.read(dbc.Ctx, func(st *state) {
		out = st.records[strings.TrimSpace(address)].Clone()
	})
	return out, nil
}

func (v recordView) GetLatest(dbc dbctx.Context, address string) (*types.Record, error) {
	var out *types.Record
	v.s.read(dbc.Ctx, func(st *state) {
		head := st.records[strings.TrimSpace(address)]
		if head == nil {
			return
		}
		out = head
		for _, rec := range st.records {
			if rec.Origin != head.Origin {
				continue
			}
			if newer(rec, out) {
				out = rec
			}
		}
		out = out.Clone()
	})
	return out, nil
}

func newer(a, b *types.Record) bool {
	if a.Version != b.Version {
		return a.Version > b.Version
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Address > b.Address
}

func (v recordView) Supersede(dbc dbctx.Context, prev *types.Record, next *types.Record) (bool, error) {
	if prev == nil || next == nil || strings.TrimSpace(prev.Address) == "" {
		return false, records.ErrSupersedeArgs
	}
	records.ChainSuccessor(prev, next)
	created := false
	err := v.s.write(dbc.Ctx, func(st *state) error {
		records.PrepareRecord(next, v.s.now())
		if _, ok := st.records[next.Address]; !ok {
			st.records[next.Address] = next.Clone()
			created = true
		}
		if stored := st.records[prev.Address]; stored != nil {
			addr := next.Address
			stored.SupersededBy = &addr
		}
		return nil
	})
	return created, err
}

type linkView struct{ s *Store }

func linkKey(source, tag string) string { return source + "\x00" + tag }

func (v linkView) Create(dbc dbctx.Context, rows []*types.Link) ([]*types.Link, error) {
	if len(rows) == 0 {
		return []*types.Link{}, nil
	}
	err := v.s.write(dbc.Ctx, func(st *state) error {
		now := v.s.now()
		for _, row := range rows {
			if row == nil {
				continue
			}
			links.PrepareLink(row, now)
			key := linkKey(row.Source, row.Tag)
			existing := st.links[key]
			if row.Seq <= 0 {
				row.Seq = maxSeq(existing) + 1
			}
			for _, l := range existing {
				if l.Seq == row.Seq {
					return ErrDuplicateSeq
				}
			}
			cp := *row
			st.links[key] = append(existing, &cp)
			sort.SliceStable(st.links[key], func(i, j int) bool {
				return st.links[key][i].Seq < st.links[key][j].Seq
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (v linkView) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	drop := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return v.s.write(dbc.Ctx, func(st *state) error {
		for key, rows := range st.links {
			kept := rows[:0]
			for _, row := range rows {
				if _, ok := drop[row.ID]; !ok {
					kept = append(kept, row)
				}
			}
			st.links[key] = kept
		}
		return nil
	})
}

func (v linkView) ListBySourceTag(dbc dbctx.Context, source string, tag string) ([]*types.Link, error) {
	out := []*types.Link{}
	v.s.read(dbc.Ctx, func(st *state) {
		for _, row := range st.links[linkKey(strings.TrimSpace(source), tag)] {
			cp := *row
			out = append(out, &cp)
		}
	})
	return out, nil
}

func (v linkView) GetMaxSeq(dbc dbctx.Context, source string, tag string) (int64, error) {
	var max int64
	v.s.read(dbc.Ctx, func(st *state) {
		max = maxSeq(st.links[linkKey(source, tag)])
	})
	return max, nil
}

func maxSeq(rows []*types.Link) int64 {
	var max int64
	for _, row := range rows {
		if row.Seq > max {
			max = row.Seq
		}
	}
	return max
}
