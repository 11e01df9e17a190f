package links

import (
	"strings"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/collective-backend/internal/domain"
	"github.com/yungbote/collective-backend/internal/platform/dbctx"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// LinkRepo is the (source, tag) adjacency index.
type LinkRepo interface {
	// Create inserts rows. Rows with Seq 0 are assigned the next seq of their
	// (source, tag) pair.
	Create(dbc dbctx.Context, rows []*types.Link) ([]*types.Link, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	// ListBySourceTag returns links ordered by seq ascending.
	ListBySourceTag(dbc dbctx.Context, source string, tag string) ([]*types.Link, error)
	GetMaxSeq(dbc dbctx.Context, source string, tag string) (int64, error)
}

type linkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return &linkRepo{
		db:  db,
		log: baseLog.With("repo", "LinkRepo"),
	}
}

func (r *linkRepo) Create(dbc dbctx.Context, rows []*types.Link) ([]*types.Link, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Link{}, nil
	}
	now := time.Now().UTC()
	next := map[string]int64{}
	for _, row := range rows {
		if row == nil {
			continue
		}
		PrepareLink(row, now)
		if row.Seq > 0 {
			continue
		}
		key := row.Source + "\x00" + row.Tag
		if _, ok := next[key]; !ok {
			max, err := r.GetMaxSeq(dbctx.Context{Ctx: dbc.Ctx, Tx: transaction}, row.Source, row.Tag)
			if err != nil {
				return nil, err
			}
			next[key] = max
		}
		next[key]++
		row.Seq = next[key]
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *linkRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.Link{}).Error
}

func (r *linkRepo) ListBySourceTag(dbc dbctx.Context, source string, tag string) ([]*types.Link, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Link
	source = strings.TrimSpace(source)
	if source == "" {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("source = ? AND tag = ?", source, tag).
		Order("seq ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *linkRepo) GetMaxSeq(dbc dbctx.Context, source string, tag string) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var max int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Link{}).
		Select("COALESCE(MAX(seq), 0)").
		Where("source = ? AND tag = ?", source, tag).
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

// PrepareLink fills the id and timestamp of a new link.
func PrepareLink(row *types.Link, now time.Time) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
}
