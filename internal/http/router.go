package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/collective-backend/internal/http/handlers"
	httpMW "github.com/yungbote/collective-backend/internal/http/middleware"
	"github.com/yungbote/collective-backend/internal/observability"
	"github.com/yungbote/collective-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	CollectiveHandler  *httpH.CollectiveHandler
	ParticipantHandler *httpH.ParticipantHandler
	ProposalHandler    *httpH.ProposalHandler
	LedgerHandler      *httpH.LedgerHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Collectives
	if cfg.CollectiveHandler != nil {
		api.POST("/collectives", cfg.CollectiveHandler.CreateCollective)
		api.GET("/collectives/:address", cfg.CollectiveHandler.GetCollective)
		api.PUT("/collectives/:address/name", cfg.CollectiveHandler.SetCollectiveName)
		api.DELETE("/collectives/:address", cfg.CollectiveHandler.DeleteCollective)
		api.GET("/collectives/:address/participants", cfg.CollectiveHandler.GetCollectiveParticipants)
		api.GET("/collectives/:address/creator", cfg.CollectiveHandler.GetCollectiveCreator)
		api.GET("/collectives/:address/actions", cfg.CollectiveHandler.GetActions)
		api.GET("/collectives/:address/ledger", cfg.CollectiveHandler.GetCollectiveLedger)
		api.GET("/actions/:address/children", cfg.CollectiveHandler.GetChildActions)
	}

	// Participants
	if cfg.ParticipantHandler != nil {
		api.POST("/participants", cfg.ParticipantHandler.CreateParticipant)
		api.GET("/participants/:address", cfg.ParticipantHandler.GetParticipant)
		api.PUT("/participants/:address", cfg.ParticipantHandler.UpdateParticipant)
		api.DELETE("/participants/:address", cfg.ParticipantHandler.DeleteParticipant)
	}

	// Proposals
	if cfg.ProposalHandler != nil {
		api.POST("/proposals", cfg.ProposalHandler.CreateProposal)
		api.GET("/proposals/:address", cfg.ProposalHandler.GetProposal)
	}

	// Ledgers
	if cfg.LedgerHandler != nil {
		api.GET("/ledgers/:address", cfg.LedgerHandler.GetLedger)
	}

	return r
}
