package services

import (
	"context"
	"strings"

	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

type CollectiveService interface {
	CreateCollective(ctx context.Context, name string, participantAddress *types.Address) (types.CollectiveEntry, error)
	GetCollective(ctx context.Context, address types.Address) (types.CollectiveEntry, error)
	SetCollectiveName(ctx context.Context, address types.Address, name string) (types.CollectiveEntry, error)
	DeleteCollective(ctx context.Context, address types.Address) error
}

type collectiveService struct {
	log       *logger.Logger
	agg       domainagg.CollectiveAggregate
	publisher *ActionPublisher
}

func NewCollectiveService(baseLog *logger.Logger, agg domainagg.CollectiveAggregate, publisher *ActionPublisher) CollectiveService {
	return &collectiveService{
		log:       baseLog.With("service", "CollectiveService"),
		agg:       agg,
		publisher: publisher,
	}
}

func (s *collectiveService) CreateCollective(ctx context.Context, name string, participantAddress *types.Address) (types.CollectiveEntry, error) {
	if participantAddress != nil && strings.TrimSpace(participantAddress.String()) == "" {
		participantAddress = nil
	}
	res, err := s.agg.Create(ctx, domainagg.CreateCollectiveInput{
		Name:               name,
		ParticipantAddress: participantAddress,
		Sources:            SourcesFromContext(ctx),
	})
	if err != nil {
		s.log.Warn("create collective failed", "error", err)
		return types.CollectiveEntry{}, err
	}
	s.log.Info("collective created",
		"collective_address", res.Collective.Address,
		"admin_address", res.Admin.Address,
		"actions", len(res.Actions),
	)
	s.publisher.Publish(ctx, res.Actions)
	return res.Collective, nil
}

func (s *collectiveService) GetCollective(ctx context.Context, address types.Address) (types.CollectiveEntry, error) {
	return s.agg.Get(ctx, address)
}

func (s *collectiveService) SetCollectiveName(ctx context.Context, address types.Address, name string) (types.CollectiveEntry, error) {
	res, err := s.agg.SetName(ctx, domainagg.SetCollectiveNameInput{
		Address: address,
		Name:    name,
		Sources: SourcesFromContext(ctx),
	})
	if err != nil {
		s.log.Warn("set collective name failed", "collective_address", address, "error", err)
		return types.CollectiveEntry{}, err
	}
	s.publisher.Publish(ctx, res.Actions)
	return res.Collective, nil
}

func (s *collectiveService) DeleteCollective(ctx context.Context, address types.Address) error {
	return s.agg.Delete(ctx, domainagg.DeleteCollectiveInput{Address: address, Sources: SourcesFromContext(ctx)})
}
