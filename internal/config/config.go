// Package config provides application configuration loaded from environment
// variables with defaults and validation. An optional .env file is read first
// so that development settings do not have to be exported by hand.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StoreConfig locates the local database.
type StoreConfig struct {
	DataDir  string // DATA_DIR
	DBFile   string // DB_FILE
	TimeZone string // STORE_TZ; calendar days for stats and streaks
}

// Location resolves TimeZone, falling back to time.Local for "" or "Local".
func (s StoreConfig) Location() (*time.Location, error) {
	if s.TimeZone == "" || s.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(s.TimeZone)
}

// SyncConfig drives the sync processor and the remote client.
type SyncConfig struct {
	Enabled       bool          // SYNC_ENABLED
	Interval      time.Duration // SYNC_INTERVAL
	RemoteBaseURL string        // REMOTE_BASE_URL; empty keeps the device offline
	RemoteTimeout time.Duration // REMOTE_TIMEOUT; bounds each pushed item
	RemoteRPS     float64       // REMOTE_RPS; <= 0 disables pacing
	RemoteBurst   int           // REMOTE_BURST
	RemoteToken   string        // REMOTE_TOKEN
	UserID        string        // USER_ID; the signed-in user of this device
}

// CacheConfig configures the query cache.
type CacheConfig struct {
	TTL           time.Duration // CACHE_TTL
	SweepInterval time.Duration // CACHE_SWEEP_INTERVAL; <= 0 disables sweeping
}

// ConnectivityConfig configures reachability probing.
type ConnectivityConfig struct {
	ProbeInterval time.Duration // CONNECTIVITY_PROBE_INTERVAL; <= 0 disables polling
	ProbeAddr     string        // CONNECTIVITY_PROBE_ADDR; host:port dialled when no remote URL
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	MaxBodyBytes      int64         // request body cap
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogFile        string // optional rotating log file
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	Store        StoreConfig
	Sync         SyncConfig
	Cache        CacheConfig
	Connectivity ConnectivityConfig

	// Rate limiting of the local API
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none)
// into the environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8787"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", 1<<20)),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		LogFile:        getenv("LOG_FILE", ""),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		Store: StoreConfig{
			DataDir:  getenv("DATA_DIR", "data"),
			DBFile:   getenv("DB_FILE", "fitness.db"),
			TimeZone: getenv("STORE_TZ", "Local"),
		},
		Sync: SyncConfig{
			Enabled:       getbool("SYNC_ENABLED", true),
			Interval:      getdur("SYNC_INTERVAL", 30*time.Second),
			RemoteBaseURL: strings.TrimSpace(getenv("REMOTE_BASE_URL", "")),
			RemoteTimeout: getdur("REMOTE_TIMEOUT", 15*time.Second),
			RemoteRPS:     getfloat("REMOTE_RPS", 10),
			RemoteBurst:   getint("REMOTE_BURST", 5),
			RemoteToken:   getenv("REMOTE_TOKEN", ""),
			UserID:        strings.TrimSpace(getenv("USER_ID", "")),
		},
		Cache: CacheConfig{
			TTL:           getdur("CACHE_TTL", 5*time.Minute),
			SweepInterval: getdur("CACHE_SWEEP_INTERVAL", time.Minute),
		},
		Connectivity: ConnectivityConfig{
			ProbeInterval: getdur("CONNECTIVITY_PROBE_INTERVAL", 15*time.Second),
			ProbeAddr:     getenv("CONNECTIVITY_PROBE_ADDR", ""),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 20),
		RateBurst: getint("RATE_BURST", 40),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "fitsync"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 || cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES and MAX_BODY_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.Store.DataDir) == "" || strings.TrimSpace(cfg.Store.DBFile) == "" {
		return cfg, errors.New("DATA_DIR and DB_FILE must not be empty")
	}
	if _, err := cfg.Store.Location(); err != nil {
		return cfg, fmt.Errorf("STORE_TZ: %w", err)
	}
	if cfg.Sync.Interval <= 0 {
		return cfg, errors.New("SYNC_INTERVAL must be > 0")
	}
	if cfg.Sync.RemoteTimeout <= 0 {
		return cfg, errors.New("REMOTE_TIMEOUT must be > 0")
	}
	if cfg.Sync.RemoteBaseURL != "" &&
		!strings.HasPrefix(cfg.Sync.RemoteBaseURL, "http://") && !strings.HasPrefix(cfg.Sync.RemoteBaseURL, "https://") {
		return cfg, errors.New("REMOTE_BASE_URL must be an http(s) URL")
	}
	if cfg.Cache.TTL <= 0 {
		return cfg, errors.New("CACHE_TTL must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures a leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
