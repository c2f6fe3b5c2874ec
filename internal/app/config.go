package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/coursehub-backend/internal/clients/midtrans"
	"github.com/yungbote/coursehub-backend/internal/clients/redis"
	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/observability"
	"github.com/yungbote/coursehub-backend/internal/platform/envutil"
)

type Config struct {
	Port            string
	LogMode         string
	Environment     string
	Version         string
	ShutdownTimeout time.Duration

	DB db.Config

	JWTSecretKey string
	JWTIssuer    string
	AdminEmails  []string

	AllowedOrigins []string

	Redis          redis.Config
	RedisChannel   string
	CourseCacheTTL time.Duration

	Midtrans midtrans.Config

	Otel            observability.OtelConfig
	MetricsEnabled  bool
	MetricsInterval time.Duration
}

// fileConfig is the optional YAML layer. Its values only seed defaults;
// environment variables always win.
type fileConfig struct {
	Port        string `yaml:"port"`
	LogMode     string `yaml:"log_mode"`
	Environment string `yaml:"environment"`

	Database struct {
		Driver     string `yaml:"driver"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		User       string `yaml:"user"`
		Name       string `yaml:"name"`
		SSLMode    string `yaml:"sslmode"`
		SQLitePath string `yaml:"sqlite_path"`
		MaxOpen    int    `yaml:"max_open_conns"`
		MaxIdle    int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	Auth struct {
		Issuer      string   `yaml:"issuer"`
		AdminEmails []string `yaml:"admin_emails"`
	} `yaml:"auth"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Redis struct {
		Addr     string `yaml:"addr"`
		DB       int    `yaml:"db"`
		Channel  string `yaml:"channel"`
		CacheTTL string `yaml:"course_cache_ttl"`
	} `yaml:"redis"`

	Midtrans struct {
		Env string `yaml:"env"`
	} `yaml:"midtrans"`

	Otel struct {
		Enabled     bool    `yaml:"enabled"`
		SampleRatio float64 `yaml:"sample_ratio"`
		Endpoint    string  `yaml:"endpoint"`
	} `yaml:"otel"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

func readFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	path = strings.TrimSpace(path)
	if path == "" {
		return fc, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}

// LoadConfig reads .env (if present), then CONFIG_FILE, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	fc, err := readFileConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}
	return buildConfig(fc)
}

func buildConfig(fc fileConfig) (Config, error) {
	cacheTTL := 5 * time.Minute
	if fc.Redis.CacheTTL != "" {
		d, err := time.ParseDuration(fc.Redis.CacheTTL)
		if err != nil {
			return Config{}, fmt.Errorf("redis.course_cache_ttl: %w", err)
		}
		cacheTTL = d
	}
	sampleRatio := fc.Otel.SampleRatio
	if sampleRatio == 0 {
		sampleRatio = 0.1
	}

	cfg := Config{
		Port:            envutil.String("PORT", or(fc.Port, "8080")),
		LogMode:         envutil.String("LOG_MODE", or(fc.LogMode, "development")),
		Environment:     envutil.String("APP_ENV", or(fc.Environment, "development")),
		Version:         envutil.String("APP_VERSION", "dev"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", or(fc.Database.Driver, "postgres")),
			PostgresHost:     envutil.String("POSTGRES_HOST", or(fc.Database.Host, "localhost")),
			PostgresPort:     envutil.String("POSTGRES_PORT", or(fc.Database.Port, "5432")),
			PostgresUser:     envutil.String("POSTGRES_USER", or(fc.Database.User, "postgres")),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", or(fc.Database.Name, "coursehub")),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", or(fc.Database.SSLMode, "disable")),
			SQLitePath:       envutil.String("SQLITE_PATH", fc.Database.SQLitePath),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", orInt(fc.Database.MaxOpen, 20)),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", orInt(fc.Database.MaxIdle, 5)),
			ConnMaxLifetime:  envutil.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		JWTIssuer:    envutil.String("JWT_ISSUER", fc.Auth.Issuer),
		AdminEmails:  envutil.CSV("ADMIN_EMAILS", fc.Auth.AdminEmails),

		AllowedOrigins: envutil.CSV("CORS_ALLOWED_ORIGINS", fc.CORS.AllowedOrigins),

		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", fc.Redis.Addr),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", fc.Redis.DB),
		},
		RedisChannel:   envutil.String("REDIS_CHANNEL", or(fc.Redis.Channel, "coursehub.events")),
		CourseCacheTTL: envutil.Duration("COURSE_CACHE_TTL", cacheTTL),

		Midtrans: midtrans.Config{
			ServerKey:  envutil.String("MIDTRANS_SERVER_KEY", ""),
			Production: strings.EqualFold(envutil.String("MIDTRANS_ENV", or(fc.Midtrans.Env, "sandbox")), "production"),
		},

		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", fc.Metrics.Enabled),
		MetricsInterval: envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second),
	}
	cfg.Otel = observability.OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", fc.Otel.Enabled),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", observability.DefaultServiceName),
		Environment: cfg.Environment,
		Version:     cfg.Version,
		SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", sampleRatio),
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", fc.Otel.Endpoint),
		Headers:     observability.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}

	if cfg.JWTSecretKey == "" {
		return cfg, errors.New("JWT_SECRET_KEY is required")
	}
	return cfg, nil
}

func or(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
