package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/collective-backend/internal/data/db"
	"github.com/yungbote/collective-backend/internal/http/middleware"
	"github.com/yungbote/collective-backend/internal/observability"
	"github.com/yungbote/collective-backend/internal/platform/envutil"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/realtime/bus"
)

const configFileEnv = "APP_CONFIG_FILE"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	LinkIndexStore = "store"
	LinkIndexNeo4j = "neo4j"
)

type Config struct {
	Port        string
	Environment string

	StoreBackend     string
	Postgres         db.PostgresConfig
	SQLitePath       string
	LinkIndexBackend string

	RedisAddr          string
	RedisActionChannel string

	JWTSecretKey   string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	CORSOrigins []string

	Otel        observability.OtelConfig
	Metrics     observability.MetricsConfig
	MetricsAddr string
}

// LoadConfig reads the environment. When APP_CONFIG_FILE names a YAML file,
// its KEY: value pairs fill in any variable the environment leaves unset.
func LoadConfig(log *logger.Logger) (Config, error) {
	if path := strings.TrimSpace(os.Getenv(configFileEnv)); path != "" {
		n, err := applyConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path, "keys", n)
	}

	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),

		StoreBackend: strings.ToLower(envutil.String("STORE_BACKEND", StoreMemory)),
		Postgres: db.PostgresConfig{
			Host:     envutil.String("POSTGRES_HOST", "localhost"),
			Port:     envutil.String("POSTGRES_PORT", "5432"),
			User:     envutil.String("POSTGRES_USER", "postgres"),
			Password: envutil.String("POSTGRES_PASSWORD", ""),
			Name:     envutil.String("POSTGRES_NAME", "collective"),
			SSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
		},
		SQLitePath:       envutil.String("SQLITE_PATH", "collective.db"),
		LinkIndexBackend: strings.ToLower(envutil.String("LINK_INDEX_BACKEND", LinkIndexStore)),

		RedisAddr:          envutil.String("REDIS_ADDR", ""),
		RedisActionChannel: envutil.String("REDIS_ACTION_CHANNEL", bus.DefaultActionChannel),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", ""),
		JWTIssuer:      envutil.String("JWT_ISSUER", "collective-backend"),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),

		CORSOrigins: envutil.List("CORS_ALLOW_ORIGINS", middleware.DefaultAllowOrigins),

		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "collective-backend"),
			Version:     envutil.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseOTLPHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1),
		},
		Metrics: observability.MetricsConfig{
			Enabled:        envutil.Bool("METRICS_ENABLED", false),
			ScrapeInterval: envutil.Seconds("METRICS_SCRAPE_INTERVAL", 10*time.Second),
		},
		MetricsAddr: envutil.String("METRICS_ADDR", ":9090"),
	}
	cfg.Otel.Environment = cfg.Environment

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case StoreMemory, StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	switch c.LinkIndexBackend {
	case LinkIndexStore, LinkIndexNeo4j:
	default:
		return fmt.Errorf("config: unknown LINK_INDEX_BACKEND %q", c.LinkIndexBackend)
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("config: JWT_SECRET_KEY is required")
	}
	return nil
}

func applyConfigFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("config: read %s: %w", path, err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return 0, fmt.Errorf("config: parse %s: %w", path, err)
	}
	n := 0
	for key, val := range values {
		key = strings.ToUpper(strings.TrimSpace(key))
		if key == "" || val == nil {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, configValue(val)); err != nil {
			return n, fmt.Errorf("config: set %s: %w", key, err)
		}
		n++
	}
	return n, nil
}

func configValue(val any) string {
	items, ok := val.([]any)
	if !ok {
		return fmt.Sprint(val)
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprint(item))
	}
	return strings.Join(parts, ",")
}
