package services

import (
	"context"

	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

type LedgerService interface {
	GetLedger(ctx context.Context, address types.Address) (types.LedgerEntry, error)
}

type ledgerService struct {
	log *logger.Logger
	agg domainagg.LedgerAggregate
}

func NewLedgerService(baseLog *logger.Logger, agg domainagg.LedgerAggregate) LedgerService {
	return &ledgerService{log: baseLog.With("service", "LedgerService"), agg: agg}
}

func (s *ledgerService) GetLedger(ctx context.Context, address types.Address) (types.LedgerEntry, error) {
	return s.agg.Get(ctx, address)
}
