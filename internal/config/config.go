package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Scene    SceneConfig
	Audit    AuditConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines operator authentication parameters.
type AuthConfig struct {
	Required              bool
	JWTSecret             string
	AccessTokenTTLMinutes int
	OperatorName          string
	OperatorPassword      string
	BcryptCost            int
}

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// StorageConfig selects and tunes the persistence gateway.
type StorageConfig struct {
	Backend   string
	KeyPrefix string
	LatencyMs int
	Seed      bool
}

// SceneConfig holds interaction and camera defaults.
type SceneConfig struct {
	DoubleActivationMs int
	CameraX            float64
	CameraY            float64
	CameraZ            float64
	FovDegrees         float64
	ViewportWidth      float64
	ViewportHeight     float64
}

// AuditConfig holds the change feed sinks.
type AuditConfig struct {
	WebhookURL            string
	WebhookTimeoutSeconds int
}

// WebhookTimeout bounds one webhook delivery, defaulting to five seconds.
func (a AuditConfig) WebhookTimeout() time.Duration {
	if a.WebhookTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(a.WebhookTimeoutSeconds) * time.Second
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory))
	switch backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND: %q", backend)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "placement-studio"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Required:              getEnvAsBool("AUTH_REQUIRED", true),
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			OperatorName:          getEnv("AUTH_OPERATOR_NAME", "operator"),
			OperatorPassword:      getEnv("AUTH_OPERATOR_PASSWORD", "operator"),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Storage: StorageConfig{
			Backend:   backend,
			KeyPrefix: getEnv("STORE_KEY_PREFIX", "workspace:"),
			LatencyMs: getEnvAsInt("STORAGE_LATENCY_MS", 0),
			Seed:      getEnvAsBool("STORE_SEED", true),
		},
		Scene: SceneConfig{
			DoubleActivationMs: getEnvAsInt("SCENE_DOUBLE_ACTIVATION_MS", 300),
			CameraX:            getEnvAsFloat("SCENE_CAMERA_X", 4),
			CameraY:            getEnvAsFloat("SCENE_CAMERA_Y", 5),
			CameraZ:            getEnvAsFloat("SCENE_CAMERA_Z", 6),
			FovDegrees:         getEnvAsFloat("SCENE_CAMERA_FOV", 45),
			ViewportWidth:      getEnvAsFloat("SCENE_VIEWPORT_WIDTH", 1280),
			ViewportHeight:     getEnvAsFloat("SCENE_VIEWPORT_HEIGHT", 720),
		},
		Audit: AuditConfig{
			WebhookURL:            getEnv("AUDIT_WEBHOOK_URL", ""),
			WebhookTimeoutSeconds: getEnvAsInt("AUDIT_WEBHOOK_TIMEOUT_SECONDS", 5),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Latency returns the simulated gateway latency.
func (s StorageConfig) Latency() time.Duration {
	if s.LatencyMs <= 0 {
		return 0
	}
	return time.Duration(s.LatencyMs) * time.Millisecond
}

// DoubleActivationWindow returns the maximum gap between two background
// activations that still counts as one placement request.
func (s SceneConfig) DoubleActivationWindow() time.Duration {
	if s.DoubleActivationMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(s.DoubleActivationMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
