package records

import (
	"errors"
	"strings"
	"time"

	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSupersedeArgs = errors.New("supersede requires a stored predecessor and a successor")

// RecordRepo is the content-addressed store. Records are never updated apart
// from the superseded_by pointer on a predecessor.
type RecordRepo interface {
	// Create inserts rec unless its address is already stored. The bool
	// reports whether a new row was written.
	Create(dbc dbctx.Context, rec *types.Record) (bool, error)
	GetByAddress(dbc dbctx.Context, address string) (*types.Record, error)
	// GetLatest resolves address to the newest version of its chain.
	GetLatest(dbc dbctx.Context, address string) (*types.Record, error)
	// Supersede writes next as the successor of prev.
	Supersede(dbc dbctx.Context, prev *types.Record, next *types.Record) (bool, error)
}

type recordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecordRepo(db *gorm.DB, baseLog *logger.Logger) RecordRepo {
	return &recordRepo{
		db:  db,
		log: baseLog.With("repo", "RecordRepo"),
	}
}

func (r *recordRepo) Create(dbc dbctx.Context, rec *types.Record) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if rec == nil {
		return false, nil
	}
	PrepareRecord(rec, time.Now().UTC())
	res := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "address"}}, DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *recordRepo) GetByAddress(dbc dbctx.Context, address string) (*types.Record, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}
	var out []*types.Record
	if err := transaction.WithContext(dbc.Ctx).
		Where("address = ?", address).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *recordRepo) GetLatest(dbc dbctx.Context, address string) (*types.Record, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	head, err := r.GetByAddress(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, address)
	if err != nil || head == nil {
		return head, err
	}
	if !head.IsSuperseded() {
		return head, nil
	}
	var out []*types.Record
	if err := transaction.WithContext(dbc.Ctx).
		Where("origin = ?", head.Origin).
		Order("version DESC").
		Order("created_at DESC").
		Order("address DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return head, nil
	}
	return out[0], nil
}

func (r *recordRepo) Supersede(dbc dbctx.Context, prev *types.Record, next *types.Record) (bool, error) {
	if prev == nil || next == nil || strings.TrimSpace(prev.Address) == "" {
		return false, ErrSupersedeArgs
	}
	ChainSuccessor(prev, next)

	run := func(tx *gorm.DB) (bool, error) {
		created, err := r.Create(dbctx.Context{Ctx: dbc.Ctx, Tx: tx}, next)
		if err != nil {
			return false, err
		}
		if err := tx.WithContext(dbc.Ctx).
			Model(&types.Record{}).
			Where("address = ?", prev.Address).
			Update("superseded_by", next.Address).Error; err != nil {
			return false, err
		}
		return created, nil
	}

	if dbc.Tx != nil {
		return run(dbc.Tx)
	}
	var created bool
	err := r.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = run(tx)
		return err
	})
	return created, err
}

// PrepareRecord fills the chain defaults of a first version.
func PrepareRecord(rec *types.Record, now time.Time) {
	if strings.TrimSpace(rec.Origin) == "" {
		rec.Origin = rec.Address
	}
	if rec.Version <= 0 {
		rec.Version = 1
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
}

// ChainSuccessor places next directly after prev in prev's chain.
func ChainSuccessor(prev *types.Record, next *types.Record) {
	origin := strings.TrimSpace(prev.Origin)
	if origin == "" {
		origin = prev.Address
	}
	version := prev.Version
	if version <= 0 {
		version = 1
	}
	replaces := prev.Address
	next.Origin = origin
	next.Version = version + 1
	next.Replaces = &replaces
}
