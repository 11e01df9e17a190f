package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/contenthash"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var errNoDB = errors.New("no test database available")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens TEST_POSTGRES_DSN when set and an in-memory sqlite database
// otherwise. Tests are skipped when neither can be opened (sqlite needs cgo).
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		cfg := &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		}
		var err error
		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err != nil {
				dbErr = err
				return
			}
		} else {
			db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), cfg)
			if err != nil {
				dbErr = errors.Join(errNoDB, err)
				return
			}
		}
		if err := db.AutoMigrate(&types.Record{}, &types.Link{}); err != nil {
			dbErr = err
			return
		}
	})

	if errors.Is(dbErr, errNoDB) {
		tb.Skipf("set TEST_POSTGRES_DSN or enable cgo to run repo integration tests: %v", dbErr)
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

// SealRecord builds a first-version record for content. A random nonce
// keeps records from colliding across tests that share a database.
func SealRecord(tb testing.TB, recordType types.RecordType, author string, content any) *types.Record {
	tb.Helper()
	wrapped := map[string]any{"value": content, "nonce": uuid.NewString()}
	address, body, err := contenthash.Seal(string(recordType), wrapped, "")
	if err != nil {
		tb.Fatalf("seal record: %v", err)
	}
	return &types.Record{
		Address:   address,
		Type:      string(recordType),
		Author:    author,
		Content:   datatypes.JSON(body),
		CreatedAt: time.Now().UTC(),
	}
}
