package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	BackendPostgres = "postgres"
	BackendR2       = "r2"
)

type Config struct {
	Port           string
	DatabaseURL    string
	ScoreBackend   string
	ServiceToken   string
	AllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string
	ScoreObjectKey    string

	SessionTTL          time.Duration
	SessionReapInterval time.Duration
	ScoreBackupInterval time.Duration

	DefaultLocale string
	I18nDir       string

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️  No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "5200"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ScoreBackend:      strings.ToLower(getEnv("SCORE_BACKEND", BackendPostgres)),
		ServiceToken:      os.Getenv("GAME_SERVICE_TOKEN"),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		R2AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2Bucket:          os.Getenv("R2_BUCKET_NAME"),
		ScoreObjectKey:    getEnv("SCORE_OBJECT_KEY", "scores.json"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "en"),
		I18nDir:           os.Getenv("I18N_DIR"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.SessionReapInterval, err = getDuration("SESSION_REAP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ScoreBackupInterval, err = getDuration("SCORE_BACKUP_INTERVAL", 0); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected score backend has what it needs.
func (c *Config) Validate() error {
	switch c.ScoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable not set")
		}
	case BackendR2:
		if c.R2Bucket == "" {
			return fmt.Errorf("R2_BUCKET_NAME environment variable not set")
		}
	default:
		return fmt.Errorf("unknown SCORE_BACKEND %q", c.ScoreBackend)
	}
	if c.ScoreBackupInterval > 0 && c.R2Bucket == "" {
		return fmt.Errorf("SCORE_BACKUP_INTERVAL requires R2_BUCKET_NAME")
	}
	return nil
}

// NeedsR2 reports whether an R2 client must be initialized.
func (c *Config) NeedsR2() bool {
	return c.ScoreBackend == BackendR2 || c.ScoreBackupInterval > 0
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logger.
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("invalid LOG_LEVEL %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
