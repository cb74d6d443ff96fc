package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kickpredict/api/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                    string
	ServiceName               string
	ServiceVersion            string
	HTTPAddr                  string
	DBURL                     string
	DBDisablePreparedBinary   bool
	CacheEnabled              bool
	CacheTTL                  time.Duration
	CORSAllowedOrigins        []string
	ReadTimeout               time.Duration
	WriteTimeout              time.Duration
	LogLevel                  logging.Level
	JWTSecret                 string
	InternalJobToken          string
	SettleWorkers             int
	FeedEnabled               bool
	FeedBaseURL               string
	FeedToken                 string
	FeedCompetition           string
	FeedTimeout               time.Duration
	FeedMaxRetries            int
	FeedCircuitEnabled        bool
	FeedCircuitFailureCount   int
	FeedCircuitOpenTimeout    time.Duration
	FeedCircuitHalfOpenMaxReq int
	PprofEnabled              bool
	PprofAddr                 string
	UptraceEnabled            bool
	UptraceDSN                string
	PyroscopeEnabled          bool
	PyroscopeServerAddress    string
	PyroscopeAppName          string
	PyroscopeAuthToken        string
	PyroscopeUploadRate       time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	jwtSecret := strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if appEnv == EnvProd && jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when APP_ENV=prod")
	}
	if jwtSecret == "" {
		jwtSecret = "dev-secret"
	}

	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if appEnv == EnvProd && internalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=prod")
	}

	settleWorkers, err := getEnvAsInt("SETTLE_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SETTLE_WORKERS: %w", err)
	}
	if settleWorkers < 1 {
		return Config{}, fmt.Errorf("SETTLE_WORKERS must be >= 1")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	feedEnabled, err := strconv.ParseBool(getEnv("FEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_ENABLED: %w", err)
	}
	feedBaseURL := strings.TrimSpace(getEnv("FEED_BASE_URL", "https://api.football-data.org/v4"))
	feedToken := strings.TrimSpace(getEnv("FEED_TOKEN", ""))
	feedCompetition := strings.TrimSpace(getEnv("FEED_COMPETITION", "WC"))
	if feedEnabled && feedToken == "" {
		return Config{}, fmt.Errorf("FEED_TOKEN is required when FEED_ENABLED=true")
	}
	feedTimeout, err := time.ParseDuration(getEnv("FEED_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_TIMEOUT: %w", err)
	}
	if feedTimeout <= 0 {
		return Config{}, fmt.Errorf("FEED_TIMEOUT must be > 0")
	}
	feedMaxRetries, err := getEnvAsInt("FEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_RETRIES: %w", err)
	}
	if feedMaxRetries < 0 {
		return Config{}, fmt.Errorf("FEED_MAX_RETRIES must be >= 0")
	}
	feedCircuitEnabled, err := strconv.ParseBool(getEnv("FEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_ENABLED: %w", err)
	}
	feedCircuitFailureCount, err := getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if feedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	feedCircuitOpenTimeout, err := time.ParseDuration(getEnv("FEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if feedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	feedCircuitHalfOpenMaxReq, err := getEnvAsInt("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if feedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                    appEnv,
		ServiceName:               getEnv("APP_SERVICE_NAME", "kickpredict-api"),
		ServiceVersion:            getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                  getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                     strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:   dbDisablePreparedBinary,
		CacheEnabled:              cacheEnabled,
		CacheTTL:                  cacheTTL,
		CORSAllowedOrigins:        splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:               readTimeout,
		WriteTimeout:              writeTimeout,
		LogLevel:                  parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		JWTSecret:                 jwtSecret,
		InternalJobToken:          internalJobToken,
		SettleWorkers:             settleWorkers,
		FeedEnabled:               feedEnabled,
		FeedBaseURL:               feedBaseURL,
		FeedToken:                 feedToken,
		FeedCompetition:           feedCompetition,
		FeedTimeout:               feedTimeout,
		FeedMaxRetries:            feedMaxRetries,
		FeedCircuitEnabled:        feedCircuitEnabled,
		FeedCircuitFailureCount:   feedCircuitFailureCount,
		FeedCircuitOpenTimeout:    feedCircuitOpenTimeout,
		FeedCircuitHalfOpenMaxReq: feedCircuitHalfOpenMaxReq,
		PprofEnabled:              pprofEnabled,
		PprofAddr:                 pprofAddr,
		UptraceEnabled:            uptraceEnabled,
		UptraceDSN:                uptraceDSN,
		PyroscopeEnabled:          pyroscopeEnabled,
		PyroscopeServerAddress:    pyroscopeServerAddress,
		PyroscopeAuthToken:        strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:       pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// UseMemoryRepositories reports whether the service should run on in-memory
// storage. An empty DB_URL selects the seeded in-memory mode used for demos
// and tests.
func (c Config) UseMemoryRepositories() bool {
	return c.DBURL == ""
}

func parseAppEnv(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case EnvDev, EnvStage, EnvProd:
		return v, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
