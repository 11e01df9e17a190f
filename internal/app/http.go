package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/collective-backend/internal/http"
	httpH "github.com/yungbote/collective-backend/internal/http/handlers"
	httpMW "github.com/yungbote/collective-backend/internal/http/middleware"
	"github.com/yungbote/collective-backend/internal/observability"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Collective  *httpH.CollectiveHandler
	Participant *httpH.ParticipantHandler
	Proposal    *httpH.ProposalHandler
	Ledger      *httpH.LedgerHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Collective:  httpH.NewCollectiveHandler(services.Collectives, services.Queries),
		Participant: httpH.NewParticipantHandler(services.Participants),
		Proposal:    httpH.NewProposalHandler(services.Proposals),
		Ledger:      httpH.NewLedgerHandler(services.Ledgers),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		ServiceName:        serviceName,
		CORSOrigins:        cfg.CORSOrigins,
		AuthMiddleware:     middleware.Auth,
		HealthHandler:      handlers.Health,
		CollectiveHandler:  handlers.Collective,
		ParticipantHandler: handlers.Participant,
		ProposalHandler:    handlers.Proposal,
		LedgerHandler:      handlers.Ledger,
	})
}
