package db

import (
	"fmt"

	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Record{},
		&types.Link{},
	)
}

// EnsureRecordIndexes adds the indexes struct tags cannot express.
func EnsureRecordIndexes(db *gorm.DB) error {
	// Latest-version lookup walks a chain newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_record_origin_latest
		ON record (origin, version DESC, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_record_origin_latest: %w", err)
	}

	// Role lookups for the creator query.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_link_source_tag_role
		ON link (source, tag, role);
	`).Error; err != nil {
		return fmt.Errorf("create idx_link_source_tag_role: %w", err)
	}
	return nil
}

func migrate(db *gorm.DB, log *logger.Logger) error {
	log.Info("Auto migrating record tables...")
	if err := AutoMigrateAll(db); err != nil {
		log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureRecordIndexes(db); err != nil {
		log.Error("Record index migration failed", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error { return migrate(s.db, s.log) }

func (s *SQLiteService) AutoMigrateAll() error { return migrate(s.db, s.log) }
