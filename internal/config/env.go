package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const (
	ExtractorGemini  = "gemini"
	ExtractorDocconv = "docconv"
)

type Config struct {
	Port           string
	GenModel       string
	Extractor      string
	SessionSecret  string
	SessionTTL     time.Duration
	AllowedOrigins []string
	MultipartMemMB int64
	LogLevel       string
	LogFormat      string

	// Export archive. Disabled when BucketName is empty.
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
}

// LoadConfig loads the environment variables and return config.
// The model API key is deliberately absent: it is read on every extraction call.
func LoadConfig() (*Config, error) {

	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GenModel:       getEnv("GEN_MODEL", "gemini-2.5-flash"),
		Extractor:      strings.ToLower(getEnv("EXTRACTOR", ExtractorGemini)),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		SessionTTL:     getEnvDuration("SESSION_TTL", time.Hour),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8888")),
		MultipartMemMB: int64(getEnvInt("MULTIPART_MEMORY_MB", 32)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		AwsAccessKey:   getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:   getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:      getEnv("AWS_REGION", "us-east-2"),
		BucketName:     getEnv("BUCKET_NAME", ""),
	}

	if cfg.Extractor != ExtractorGemini && cfg.Extractor != ExtractorDocconv {
		return nil, fmt.Errorf("EXTRACTOR must be %q or %q, got %q", ExtractorGemini, ExtractorDocconv, cfg.Extractor)
	}

	// Sessions do not survive a restart anyway, so a per-process secret is fine.
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = uuid.NewString()
	}

	return cfg, nil
}

// ArchiveEnabled reports whether exported documents should be copied to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.BucketName != "" && c.AwsAccessKey != "" && c.AwsSecretKey != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
