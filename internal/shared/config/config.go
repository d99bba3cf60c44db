package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration, loaded once at startup and passed
// into component constructors.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	DatabaseURL string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	KanoonBaseURL string
	KanoonAPIKey  string

	DeepSeekBaseURL string
	DeepSeekAPIKey  string
	LLMProvider     string
	LLMModel        string

	UpstreamTimeout time.Duration

	OCREnabled       bool
	OCRMaxConcurrent int

	MaxUploadSizeMB int

	ExtractQueueURL string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		Env:              env,
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:      dbURL,
		ObjectStoreType:  normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:    getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:        getEnv("AWS_REGION", ""),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Prefix:         getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:      getEnv("SSE_KMS_KEY_ID", ""),
		KanoonBaseURL:    getEnv("KANOON_BASE_URL", "https://api.indiankanoon.org"),
		KanoonAPIKey:     getEnv("KANOON_API_KEY", ""),
		DeepSeekBaseURL:  getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		DeepSeekAPIKey:   getEnv("DEEPSEEK_API_KEY", ""),
		LLMProvider:      getEnv("LLM_PROVIDER", "deepseek"),
		LLMModel:         getEnv("LLM_MODEL", "deepseek-chat"),
		UpstreamTimeout:  getEnvSeconds("UPSTREAM_TIMEOUT_SECONDS", 30*time.Second),
		OCREnabled:       getEnvBool("OCR_ENABLED", true),
		OCRMaxConcurrent: getEnvInt("OCR_MAX_CONCURRENT", 2),
		MaxUploadSizeMB:  getEnvInt("MAX_UPLOAD_SIZE_MB", 50),
		ExtractQueueURL:  getEnv("EXTRACT_QUEUE_URL", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using default %d", key, raw, def)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config %s invalid bool %q, using default %v", key, raw, def)
		return def
	}
	return val
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid seconds %q, using default %s", key, raw, def)
		return def
	}
	return time.Duration(val) * time.Second
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

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
