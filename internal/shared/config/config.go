package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"resume-pipeline/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DatabaseURL     string
	DBPool          Pool
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	ArchiveUploads  bool

	LLMProvider      string
	LLMModel         string
	LLMTimeout       time.Duration
	LLMTemperature   float32
	LLMMaxInputChars int
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	GeminiAPIKey     string

	ExtractMinChars int
	MaxUploadBytes  int64

	QuotaStore         string
	QuotaExtract       Quota
	QuotaRender        Quota
	QuotaDefault       Quota
	QuotaSweepInterval time.Duration
}

// Quota is one admission profile as configured.
type Quota struct {
	Window time.Duration
	Max    int
}

// Pool sizes the Postgres connection pool.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	PingTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	quotaStore := normalizeChoice(getEnv("QUOTA_STORE", "memory"), "memory", "postgres")

	if quotaStore == "postgres" && dbURL == "" {
		telemetry.Warn("config.quota_store", map[string]any{"message": "QUOTA_STORE=postgres without DATABASE_URL; using memory"})
		quotaStore = "memory"
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		DatabaseURL:     dbURL,
		ObjectStoreType: normalizeChoice(getEnv("OBJECT_STORE", "local"), "local", "s3"),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		ArchiveUploads:  getBool("ARCHIVE_UPLOADS", false),

		DBPool: Pool{
			MaxOpen:     getInt("DB_MAX_OPEN_CONNS", 8),
			MaxIdle:     getInt("DB_MAX_IDLE_CONNS", 4),
			MaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			MaxIdleTime: getDuration("DB_CONN_MAX_IDLE_TIME", 2*time.Minute),
			PingTimeout: getDuration("DB_PING_TIMEOUT", 5*time.Second),
		},

		LLMProvider:      normalizeChoice(getEnv("LLM_PROVIDER", "openai"), "openai", "gemini"),
		LLMModel:         getEnv("LLM_MODEL", ""),
		LLMTimeout:       getDuration("LLM_TIMEOUT", 120*time.Second),
		LLMTemperature:   float32(getFloat("LLM_TEMPERATURE", 0.1)),
		LLMMaxInputChars: getInt("LLM_MAX_INPUT_CHARS", 12000),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),

		ExtractMinChars: getInt("EXTRACT_MIN_CHARS", 50),
		MaxUploadBytes:  int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),

		QuotaStore: quotaStore,
		QuotaExtract: Quota{
			Window: getDuration("QUOTA_EXTRACT_WINDOW", time.Minute),
			Max:    getInt("QUOTA_EXTRACT_MAX", 5),
		},
		QuotaRender: Quota{
			Window: getDuration("QUOTA_RENDER_WINDOW", time.Minute),
			Max:    getInt("QUOTA_RENDER_MAX", 30),
		},
		QuotaDefault: Quota{
			Window: getDuration("QUOTA_DEFAULT_WINDOW", time.Minute),
			Max:    getInt("QUOTA_DEFAULT_MAX", 100),
		},
		QuotaSweepInterval: getDuration("QUOTA_SWEEP_INTERVAL", time.Minute),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		warnInvalid(key, raw)
		return def
	}
	return v
}

func getFloat(key string, def float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		warnInvalid(key, raw)
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		warnInvalid(key, raw)
		return def
	}
	return v
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	warnInvalid(key, raw)
	return def
}

func warnInvalid(key, raw string) {
	telemetry.Warn("config.invalid", map[string]any{"key": key, "value": raw})
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

// normalizeChoice lower-cases raw and returns it when allowed, else the first option.
func normalizeChoice(raw string, options ...string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, o := range options {
		if v == o {
			return v
		}
	}
	return options[0]
}

// IsDevLike reports whether missing infrastructure may degrade to in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}
