package app

import (
	"fmt"

	"github.com/yungbote/collective-backend/internal/data/aggregates"
	"github.com/yungbote/collective-backend/internal/observability"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/realtime/bus"
	"github.com/yungbote/collective-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Collectives  services.CollectiveService
	Participants services.ParticipantService
	Proposals    services.ProposalService
	Ledgers      services.LedgerService
	Queries      services.QueryService
}

func wireBus(log *logger.Logger, cfg Config) (bus.Bus, error) {
	if cfg.RedisAddr == "" {
		log.Info("Action bus: in-process")
		return bus.NewMemoryBus(), nil
	}
	b, err := bus.NewRedisBus(log, bus.RedisConfig{Addr: cfg.RedisAddr, Channel: cfg.RedisActionChannel})
	if err != nil {
		return nil, fmt.Errorf("init redis action bus: %w", err)
	}
	return b, nil
}

func wireServices(log *logger.Logger, cfg Config, stores Stores, actionBus bus.Bus, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	base := aggregates.BaseDeps{
		DB:     stores.DB,
		Log:    log,
		Runner: stores.Runner,
		Hooks:  aggregates.NewObservabilityHooks(metrics),
	}
	actions := aggregates.NewActionLog(stores.Records, stores.Links, base)

	collectiveAgg := aggregates.NewCollectiveAggregate(aggregates.CollectiveAggregateDeps{
		Base:    base,
		Records: stores.Records,
		Links:   stores.Links,
		Actions: actions,
	})
	participantAgg := aggregates.NewParticipantAggregate(aggregates.ParticipantAggregateDeps{Base: base, Records: stores.Records})
	proposalAgg := aggregates.NewProposalAggregate(aggregates.ProposalAggregateDeps{Base: base, Records: stores.Records})
	ledgerAgg := aggregates.NewLedgerAggregate(aggregates.LedgerAggregateDeps{Records: stores.Records})

	return Services{
		Auth:         services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL),
		Collectives:  services.NewCollectiveService(log, collectiveAgg, services.NewActionPublisher(log, actionBus)),
		Participants: services.NewParticipantService(log, participantAgg),
		Proposals:    services.NewProposalService(log, proposalAgg),
		Ledgers:      services.NewLedgerService(log, ledgerAgg),
		Queries:      services.NewQueryService(log, stores.Records, stores.Links, actions),
	}
}
