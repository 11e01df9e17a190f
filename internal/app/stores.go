package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/collective-backend/internal/data/aggregates"
	"github.com/yungbote/collective-backend/internal/data/db"
	"github.com/yungbote/collective-backend/internal/data/graph"
	"github.com/yungbote/collective-backend/internal/data/repos"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/platform/neo4jdb"
)

// Stores is the storage substrate: the content store, the link index and
// the transaction runner both write through.
type Stores struct {
	DB      *gorm.DB
	Records repos.RecordRepo
	Links   repos.LinkRepo
	Runner  aggregates.TxRunner
	Neo4j   *neo4jdb.Client
}

func wireStores(ctx context.Context, log *logger.Logger, cfg Config) (Stores, error) {
	log.Info("Wiring stores...", "store_backend", cfg.StoreBackend, "link_index_backend", cfg.LinkIndexBackend)

	var out Stores
	switch cfg.StoreBackend {
	case StoreMemory:
		mem := repos.NewMemStore()
		out.Records = mem.Records()
		out.Links = mem.Links()
		out.Runner = mem
	case StorePostgres:
		pg, err := db.NewPostgresService(log, cfg.Postgres)
		if err != nil {
			return Stores{}, fmt.Errorf("init postgres: %w", err)
		}
		if err := pg.AutoMigrateAll(); err != nil {
			return Stores{}, fmt.Errorf("postgres automigrate: %w", err)
		}
		out.DB = pg.DB()
	case StoreSQLite:
		lite, err := db.NewSQLiteService(log, cfg.SQLitePath)
		if err != nil {
			return Stores{}, fmt.Errorf("init sqlite: %w", err)
		}
		if err := lite.AutoMigrateAll(); err != nil {
			return Stores{}, fmt.Errorf("sqlite automigrate: %w", err)
		}
		out.DB = lite.DB()
	default:
		return Stores{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if out.DB != nil {
		out.Records = repos.NewRecordRepo(out.DB, log)
		out.Links = repos.NewLinkRepo(out.DB, log)
		out.Runner = aggregates.NewGormTxRunner(out.DB)
	}

	if cfg.LinkIndexBackend == LinkIndexNeo4j {
		client, err := neo4jdb.NewFromEnv(log)
		if err != nil {
			return Stores{}, fmt.Errorf("init neo4j: %w", err)
		}
		if client == nil {
			return Stores{}, fmt.Errorf("LINK_INDEX_BACKEND=neo4j requires NEO4J_URI")
		}
		index := graph.NewLinkIndex(client, log)
		index.EnsureSchema(ctx)
		out.Neo4j = client
		out.Links = index
		out.Runner = graph.NewTxRunner(out.Runner, index)
	}
	return out, nil
}

func (s *Stores) Close(ctx context.Context) {
	if s == nil {
		return
	}
	if s.Neo4j != nil {
		_ = s.Neo4j.Close(ctx)
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
