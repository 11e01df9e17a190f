package services

import (
	"context"

	types "github.com/yungbote/collective-backend/internal/domain"
	domainagg "github.com/yungbote/collective-backend/internal/domain/aggregates"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

type ParticipantService interface {
	CreateParticipant(ctx context.Context, name string, ownerIdentity string, status string) (types.ParticipantEntry, error)
	GetParticipant(ctx context.Context, address types.Address) (types.ParticipantEntry, error)
	UpdateParticipant(ctx context.Context, address types.Address, name string, ownerIdentity string, status string) (types.ParticipantEntry, error)
	DeleteParticipant(ctx context.Context, address types.Address) error
}

type participantService struct {
	log *logger.Logger
	agg domainagg.ParticipantAggregate
}

func NewParticipantService(baseLog *logger.Logger, agg domainagg.ParticipantAggregate) ParticipantService {
	return &participantService{
		log: baseLog.With("service", "ParticipantService"),
		agg: agg,
	}
}

func (s *participantService) CreateParticipant(ctx context.Context, name string, ownerIdentity string, status string) (types.ParticipantEntry, error) {
	entry, err := s.agg.Create(ctx, domainagg.CreateParticipantInput{
		Name:          name,
		OwnerIdentity: types.Identity(ownerIdentity),
		Status:        status,
		Sources:       SourcesFromContext(ctx),
	})
	if err != nil {
		s.log.Debug("create participant failed", "owner_identity", ownerIdentity, "error", err)
		return types.ParticipantEntry{}, err
	}
	return entry, nil
}

func (s *participantService) GetParticipant(ctx context.Context, address types.Address) (types.ParticipantEntry, error) {
	return s.agg.Get(ctx, address)
}

func (s *participantService) UpdateParticipant(ctx context.Context, address types.Address, name string, ownerIdentity string, status string) (types.ParticipantEntry, error) {
	return s.agg.Update(ctx, domainagg.UpdateParticipantInput{
		Address:       address,
		Name:          name,
		OwnerIdentity: types.Identity(ownerIdentity),
		Status:        status,
		Sources:       SourcesFromContext(ctx),
	})
}

func (s *participantService) DeleteParticipant(ctx context.Context, address types.Address) error {
	return s.agg.Delete(ctx, domainagg.DeleteParticipantInput{Address: address, Sources: SourcesFromContext(ctx)})
}
