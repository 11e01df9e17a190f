package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	apphttp "github.com/yungbote/collective-backend/internal/http"
	"github.com/yungbote/collective-backend/internal/observability"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/realtime"
	"github.com/yungbote/collective-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Stores   Stores
	Bus      bus.Bus
	Metrics  *observability.Metrics
	Services Services
	Router   *gin.Engine

	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return NewWithConfig(ctx, log, cfg)
}

// NewWithConfig wires the application from an already loaded config.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.Metrics)

	stores, err := wireStores(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	actionBus, err := wireBus(log, cfg)
	if err != nil {
		stores.Close(ctx)
		log.Sync()
		return nil, err
	}

	serviceset := wireServices(log, cfg, stores, actionBus, metrics)
	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Stores:       stores,
		Bus:          actionBus,
		Metrics:      metrics,
		Services:     serviceset,
		Router:       router,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP and the background loops until ctx ends or one of them
// fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if a.Metrics != nil {
		a.Metrics.StartServer(gctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartSQLCollector(gctx, a.Log, a.Stores.DB)
		a.Metrics.StartRedisCollector(gctx, a.Log, a.Cfg.RedisAddr)
	}

	g.Go(func() error {
		return a.Bus.StartForwarder(gctx, a.onActionEvent)
	})

	g.Go(func() error {
		addr := ":" + a.Cfg.Port
		a.Log.Info("Server listening", "addr", addr)
		server := &apphttp.Server{Engine: a.Router}
		return server.Run(gctx, addr)
	})

	return g.Wait()
}

func (a *App) onActionEvent(evt realtime.ActionEvent) {
	a.Log.Debug("Action event",
		"collective_address", evt.CollectiveAddress,
		"action_address", evt.ActionAddress,
		"op", evt.Op,
		"seq", evt.Seq,
	)
	a.Metrics.IncActionForwarded(string(evt.Op))
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.Bus != nil {
		_ = a.Bus.Close()
	}
	a.Stores.Close(ctx)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
