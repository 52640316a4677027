package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hexis-gg/site-api/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	BracketCacheTTL time.Duration
	CountCacheTTL   time.Duration
	CountMaxWorkers int

	MatcherinoAPIBaseURL            string
	MatcherinoSiteBaseURL           string
	MatcherinoUserAgent             string
	MatcherinoTimeout               time.Duration
	MatcherinoMaxRetries            int
	MatcherinoCircuitEnabled        bool
	MatcherinoCircuitFailureCount   int
	MatcherinoCircuitOpenTimeout    time.Duration
	MatcherinoCircuitHalfOpenMaxReq int

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
	PprofEnabled           bool
	PprofAddr              string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	if readTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_READ_TIMEOUT must be > 0")
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	if writeTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_WRITE_TIMEOUT must be > 0")
	}

	bracketCacheTTL, err := time.ParseDuration(getEnv("BRACKET_CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BRACKET_CACHE_TTL: %w", err)
	}
	if bracketCacheTTL <= 0 {
		return Config{}, fmt.Errorf("BRACKET_CACHE_TTL must be > 0")
	}
	countCacheTTL, err := time.ParseDuration(getEnv("COUNT_CACHE_TTL", "12h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse COUNT_CACHE_TTL: %w", err)
	}
	if countCacheTTL <= 0 {
		return Config{}, fmt.Errorf("COUNT_CACHE_TTL must be > 0")
	}
	countMaxWorkers, err := getEnvAsInt("COUNT_MAX_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse COUNT_MAX_WORKERS: %w", err)
	}
	if countMaxWorkers < 1 {
		return Config{}, fmt.Errorf("COUNT_MAX_WORKERS must be >= 1")
	}

	matcherinoTimeout, err := time.ParseDuration(getEnv("MATCHERINO_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHERINO_TIMEOUT: %w", err)
	}
	if matcherinoTimeout <= 0 {
		return Config{}, fmt.Errorf("MATCHERINO_TIMEOUT must be > 0")
	}
	matcherinoMaxRetries, err := getEnvAsInt("MATCHERINO_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHERINO_MAX_RETRIES: %w", err)
	}
	if matcherinoMaxRetries < 0 {
		return Config{}, fmt.Errorf("MATCHERINO_MAX_RETRIES must be >= 0")
	}
	matcherinoCircuitEnabled, err := strconv.ParseBool(getEnv("MATCHERINO_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHERINO_CIRCUIT_ENABLED: %w", err)
	}
	matcherinoCircuitFailureCount, err := getEnvAsInt("MATCHERINO_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHERINO_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if matcherinoCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("MATCHERINO_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	matcherinoCircuitOpenTimeout, err := time.ParseDuration(getEnv("MATCHERINO_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHERINO_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if matcherinoCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("MATCHERINO_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	matcherinoCircuitHalfOpenMaxReq, err := getEnvAsInt("MATCHERINO_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse MATCHERINO_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if matcherinoCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("MATCHERINO_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
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

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "hexis-site-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,

		BracketCacheTTL: bracketCacheTTL,
		CountCacheTTL:   countCacheTTL,
		CountMaxWorkers: countMaxWorkers,

		MatcherinoAPIBaseURL:            strings.TrimSpace(getEnv("MATCHERINO_API_BASE_URL", "")),
		MatcherinoSiteBaseURL:           strings.TrimSpace(getEnv("MATCHERINO_SITE_BASE_URL", "")),
		MatcherinoUserAgent:             strings.TrimSpace(getEnv("MATCHERINO_USER_AGENT", "")),
		MatcherinoTimeout:               matcherinoTimeout,
		MatcherinoMaxRetries:            matcherinoMaxRetries,
		MatcherinoCircuitEnabled:        matcherinoCircuitEnabled,
		MatcherinoCircuitFailureCount:   matcherinoCircuitFailureCount,
		MatcherinoCircuitOpenTimeout:    matcherinoCircuitOpenTimeout,
		MatcherinoCircuitHalfOpenMaxReq: matcherinoCircuitHalfOpenMaxReq,

		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
		PprofEnabled:           pprofEnabled,
		PprofAddr:              pprofAddr,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	return cfg, nil
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
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			out = append(out, value)
		}
	}
	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case EnvDev, EnvStage, EnvProd:
		return strings.ToLower(strings.TrimSpace(v)), nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
