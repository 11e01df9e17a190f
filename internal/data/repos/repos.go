package repos

import (
	"github.com/yungbote/collective-backend/internal/data/repos/links"
	"github.com/yungbote/collective-backend/internal/data/repos/memstore"
	"github.com/yungbote/collective-backend/internal/data/repos/records"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type RecordRepo = records.RecordRepo
type LinkRepo = links.LinkRepo

type MemStore = memstore.Store

func NewRecordRepo(db *gorm.DB, baseLog *logger.Logger) RecordRepo {
	return records.NewRecordRepo(db, baseLog)
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return links.NewLinkRepo(db, baseLog)
}

func NewMemStore() *MemStore { return memstore.New() }
