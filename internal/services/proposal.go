package services

import (
	"context"

	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

type ProposalService interface {
	CreateProposal(ctx context.Context, name string, content string) (types.ProposalEntry, error)
	GetProposal(ctx context.Context, address types.Address) (types.ProposalEntry, error)
}

type proposalService struct {
	log *logger.Logger
	agg domainagg.ProposalAggregate
}

func NewProposalService(baseLog *logger.Logger, agg domainagg.ProposalAggregate) ProposalService {
	return &proposalService{log: baseLog.With("service", "ProposalService"), agg: agg}
}

func (s *proposalService) CreateProposal(ctx context.Context, name string, content string) (types.ProposalEntry, error) {
	return s.agg.Create(ctx, domainagg.CreateProposalInput{
		Name:    name,
		Content: content,
		Sources: SourcesFromContext(ctx),
	})
}

func (s *proposalService) GetProposal(ctx context.Context, address types.Address) (types.ProposalEntry, error) {
	return s.agg.Get(ctx, address)
}
