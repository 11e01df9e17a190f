package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/collective-backend/internal/data/repos/links"
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/platform/neo4jdb"
)

// LinkIndex stores links as (:Record {address})-[:LINK]->(:Record {address})
// relationships. Inside a TxRunner transaction every call joins its open
// neo4j transaction; outside one each call runs in its own managed
// transaction.
type LinkIndex struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

var _ links.LinkRepo = (*LinkIndex)(nil)

// ErrDuplicateSeq is classified as a conflict, like the SQL unique index.
var ErrDuplicateSeq = errors.New("neo4j link index: duplicate key (source, tag, seq)")

func NewLinkIndex(client *neo4jdb.Client, baseLog *logger.Logger) *LinkIndex {
	return &LinkIndex{
		client: client,
		log:    baseLog.With("repo", "Neo4jLinkIndex"),
	}
}

// EnsureSchema creates the constraints the index relies on. Failures are
// logged and ignored.
func (x *LinkIndex) EnsureSchema(ctx context.Context) {
	if x == nil || x.client == nil || x.client.Driver == nil {
		return
	}
	session := x.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	stmts := []string{
		`CREATE CONSTRAINT record_address_unique IF NOT EXISTS FOR (r:Record) REQUIRE r.address IS UNIQUE`,
		`CREATE INDEX link_tag_seq IF NOT EXISTS FOR ()-[l:LINK]-() ON (l.tag, l.seq)`,
	}
	for _, q := range stmts {
		if res, err := session.Run(ctx, q, nil); err != nil {
			x.log.Warn("neo4j schema init failed (continuing)", "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

func (x *LinkIndex) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return x.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: x.client.Database,
	})
}

func (x *LinkIndex) ready() error {
	if x == nil || x.client == nil || x.client.Driver == nil {
		return fmt.Errorf("neo4j link index: driver not configured")
	}
	return nil
}

func (x *LinkIndex) write(ctx context.Context, work func(tx cypherRunner) (any, error)) (any, error) {
	if open := openTxFrom(ctx); open != nil {
		return work(open.tx)
	}
	if err := x.ready(); err != nil {
		return nil, err
	}
	session := x.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)
	return session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(tx)
	})
}

func (x *LinkIndex) read(ctx context.Context, work func(tx cypherRunner) (any, error)) (any, error) {
	if open := openTxFrom(ctx); open != nil {
		return work(open.tx)
	}
	if err := x.ready(); err != nil {
		return nil, err
	}
	session := x.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)
	return session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(tx)
	})
}

func contextOf(dbc dbctx.Context) context.Context {
	if dbc.Ctx == nil {
		return context.Background()
	}
	return dbc.Ctx
}

// Create locks every source node before it checks for a duplicate
// (source, tag, seq), so concurrent appends to one source serialize and the
// loser fails like the SQL unique index.
func (x *LinkIndex) Create(dbc dbctx.Context, rows []*types.Link) ([]*types.Link, error) {
	if len(rows) == 0 {
		return []*types.Link{}, nil
	}
	ctx := contextOf(dbc)
	now := time.Now().UTC()

	_, err := x.write(ctx, func(tx cypherRunner) (any, error) {
		sources := make([]string, 0, len(rows))
		for _, row := range rows {
			if row != nil {
				sources = append(sources, row.Source)
			}
		}
		if err := lockSources(ctx, tx, sources); err != nil {
			return nil, err
		}

		next := map[string]int64{}
		rels := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			if row == nil {
				continue
			}
			links.PrepareLink(row, now)
			if row.Seq <= 0 {
				key := row.Source + "\x00" + row.Tag
				if _, ok := next[key]; !ok {
					max, err := maxSeqTx(ctx, tx, row.Source, row.Tag)
					if err != nil {
						return nil, err
					}
					next[key] = max
				}
				next[key]++
				row.Seq = next[key]
			}
			rels = append(rels, map[string]any{
				"id":         row.ID.String(),
				"source":     row.Source,
				"target":     row.Target,
				"tag":        row.Tag,
				"seq":        row.Seq,
				"role":       row.Role,
				"created_at": row.CreatedAt.UTC().Format(time.RFC3339Nano),
			})
		}

		dup, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (:Record {address: r.source})-[l:LINK {tag: r.tag, seq: r.seq}]->()
RETURN count(l) AS n
`, map[string]any{"rels": rels})
		if err != nil {
			return nil, err
		}
		rec, err := dup.Single(ctx)
		if err != nil {
			return nil, err
		}
		if n, _, err := neo4j.GetRecordValue[int64](rec, "n"); err != nil {
			return nil, err
		} else if n > 0 {
			return nil, ErrDuplicateSeq
		}

		res, err := tx.Run(ctx, `
UNWIND $rels AS r
MERGE (s:Record {address: r.source})
MERGE (t:Record {address: r.target})
CREATE (s)-[l:LINK {id: r.id, tag: r.tag, seq: r.seq, role: r.role, created_at: r.created_at}]->(t)
`, map[string]any{"rels": rels})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// lockSources takes a write lock on each source node, in address order, for
// the rest of the transaction.
func lockSources(ctx context.Context, tx cypherRunner, sources []string) error {
	uniq := make([]string, 0, len(sources))
	seen := map[string]struct{}{}
	for _, s := range sources {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		uniq = append(uniq, s)
	}
	sort.Strings(uniq)
	res, err := tx.Run(ctx, lockSourcesCypher, map[string]any{"sources": uniq})
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

const lockSourcesCypher = `
UNWIND $sources AS source
MERGE (s:Record {address: source})
SET s.link_lock = coalesce(s.link_lock, 0) + 1
`

func (x *LinkIndex) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	ctx := contextOf(dbc)
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	_, err := x.write(ctx, func(tx cypherRunner) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $ids AS id
MATCH ()-[l:LINK {id: id}]->()
DELETE l
`, map[string]any{"ids": raw})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

func (x *LinkIndex) ListBySourceTag(dbc dbctx.Context, source string, tag string) ([]*types.Link, error) {
	out := []*types.Link{}
	source = strings.TrimSpace(source)
	if source == "" {
		return out, nil
	}
	ctx := contextOf(dbc)

	recs, err := x.read(ctx, func(tx cypherRunner) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (:Record {address: $source})-[l:LINK {tag: $tag}]->(t:Record)
RETURN l.id AS id, t.address AS target, l.seq AS seq, l.role AS role, l.created_at AS created_at
ORDER BY l.seq ASC
`, map[string]any{"source": source, "tag": tag})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	for _, rec := range recs.([]*neo4j.Record) {
		link, err := linkFromRecord(rec, source, tag)
		if err != nil {
			return nil, err
		}
		out = append(out, link)
	}
	return out, nil
}

// GetMaxSeq inside an open transaction locks source first, so the seq it
// returns stays free until that transaction ends.
func (x *LinkIndex) GetMaxSeq(dbc dbctx.Context, source string, tag string) (int64, error) {
	ctx := contextOf(dbc)
	if openTxFrom(ctx) != nil {
		max, err := x.write(ctx, func(tx cypherRunner) (any, error) {
			if err := lockSources(ctx, tx, []string{source}); err != nil {
				return nil, err
			}
			return maxSeqTx(ctx, tx, source, tag)
		})
		if err != nil {
			return 0, err
		}
		return max.(int64), nil
	}
	max, err := x.read(ctx, func(tx cypherRunner) (any, error) {
		return maxSeqTx(ctx, tx, source, tag)
	})
	if err != nil {
		return 0, err
	}
	return max.(int64), nil
}

func maxSeqTx(ctx context.Context, tx cypherRunner, source, tag string) (int64, error) {
	res, err := tx.Run(ctx, `
OPTIONAL MATCH (:Record {address: $source})-[l:LINK {tag: $tag}]->()
RETURN coalesce(max(l.seq), 0) AS max_seq
`, map[string]any{"source": source, "tag": tag})
	if err != nil {
		return 0, err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return 0, err
	}
	max, _, err := neo4j.GetRecordValue[int64](rec, "max_seq")
	return max, err
}

func linkFromRecord(rec *neo4j.Record, source, tag string) (*types.Link, error) {
	rawID, _, err := neo4j.GetRecordValue[string](rec, "id")
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("neo4j link index: bad link id %q: %w", rawID, err)
	}
	target, _, err := neo4j.GetRecordValue[string](rec, "target")
	if err != nil {
		return nil, err
	}
	seq, _, err := neo4j.GetRecordValue[int64](rec, "seq")
	if err != nil {
		return nil, err
	}
	role, _, _ := neo4j.GetRecordValue[string](rec, "role")
	createdRaw, _, _ := neo4j.GetRecordValue[string](rec, "created_at")
	createdAt, _ := time.Parse(time.RFC3339Nano, createdRaw)

	return &types.Link{
		ID:        id,
		Source:    source,
		Target:    target,
		Tag:       tag,
		Seq:       seq,
		Role:      role,
		CreatedAt: createdAt,
	}, nil
}
