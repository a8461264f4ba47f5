package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/resume-ranker/internal/infrastructure/resilience"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	StopwordsPath                string `yaml:"stopwords_path"`
	StopwordsURL                 string `yaml:"stopwords_url"`
	StopwordsFetchTimeoutSeconds int    `yaml:"stopwords_fetch_timeout_seconds"`

	VocabularyLowercase      bool `yaml:"vocabulary_lowercase"`
	VocabularyMinTokenLength int  `yaml:"vocabulary_min_token_length"`

	MaxUploadBytes    int64   `yaml:"max_upload_bytes"`
	APIRateLimitRPS   float64 `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int     `yaml:"api_rate_limit_burst"`
	APIMaxInFlight    int     `yaml:"api_max_in_flight"`

	NATSURL            string `yaml:"nats_url"`
	NATSRankSubject    string `yaml:"nats_rank_subject"`
	NATSCompareSubject string `yaml:"nats_compare_subject"`
	NATSQueueGroup     string `yaml:"nats_queue_group"`

	RetryMaxAttempts         int     `yaml:"retry_max_attempts"`
	RetryInitialBackoffMS    int     `yaml:"retry_initial_backoff_ms"`
	RetryMaxBackoffMS        int     `yaml:"retry_max_backoff_ms"`
	BreakerEnabled           bool    `yaml:"breaker_enabled"`
	BreakerFailureRatio      float64 `yaml:"breaker_failure_ratio"`
	BreakerOpenTimeoutSecond int     `yaml:"breaker_open_timeout_seconds"`

	WorkerMetricsPort string `yaml:"worker_metrics_port"`
}

func defaults() Config {
	return Config{
		APIPort:  "8080",
		LogLevel: "info",

		StopwordsPath:                "./data/resources/corpora/stopwords/english",
		StopwordsURL:                 "https://raw.githubusercontent.com/nltk/nltk_data/gh-pages/packages/corpora/stopwords/english",
		StopwordsFetchTimeoutSeconds: 10,

		VocabularyLowercase:      false,
		VocabularyMinTokenLength: 1,

		MaxUploadBytes:    10 << 20,
		APIRateLimitRPS:   20,
		APIRateLimitBurst: 40,
		APIMaxInFlight:    32,

		NATSURL:            "nats://localhost:4222",
		NATSRankSubject:    "resumes.rank",
		NATSCompareSubject: "resumes.compare",
		NATSQueueGroup:     "resume-ranker",

		RetryMaxAttempts:         3,
		RetryInitialBackoffMS:    200,
		RetryMaxBackoffMS:        2000,
		BreakerEnabled:           true,
		BreakerFailureRatio:      0.6,
		BreakerOpenTimeoutSecond: 60,

		WorkerMetricsPort: "9090",
	}
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_PATH (if any) and environment variables, in that order.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	// An empty path in the file would make the storage root the working
	// directory and the key ".".
	if strings.TrimSpace(cfg.StopwordsPath) == "" {
		cfg.StopwordsPath = defaults().StopwordsPath
	}

	return Config{
		APIPort:  mustEnv("API_PORT", cfg.APIPort),
		LogLevel: mustEnv("LOG_LEVEL", cfg.LogLevel),

		StopwordsPath:                mustEnv("STOPWORDS_PATH", cfg.StopwordsPath),
		StopwordsURL:                 mustEnv("STOPWORDS_URL", cfg.StopwordsURL),
		StopwordsFetchTimeoutSeconds: mustEnvInt("STOPWORDS_FETCH_TIMEOUT_SECONDS", cfg.StopwordsFetchTimeoutSeconds),

		VocabularyLowercase:      mustEnvBool("VOCABULARY_LOWERCASE", cfg.VocabularyLowercase),
		VocabularyMinTokenLength: mustEnvInt("VOCABULARY_MIN_TOKEN_LENGTH", cfg.VocabularyMinTokenLength),

		MaxUploadBytes:    int64(mustEnvInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes))),
		APIRateLimitRPS:   mustEnvFloat("API_RATE_LIMIT_RPS", cfg.APIRateLimitRPS),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", cfg.APIRateLimitBurst),
		APIMaxInFlight:    mustEnvInt("API_MAX_IN_FLIGHT", cfg.APIMaxInFlight),

		NATSURL:            mustEnv("NATS_URL", cfg.NATSURL),
		NATSRankSubject:    mustEnv("NATS_RANK_SUBJECT", cfg.NATSRankSubject),
		NATSCompareSubject: mustEnv("NATS_COMPARE_SUBJECT", cfg.NATSCompareSubject),
		NATSQueueGroup:     mustEnv("NATS_QUEUE_GROUP", cfg.NATSQueueGroup),

		RetryMaxAttempts:         mustEnvInt("RETRY_MAX_ATTEMPTS", cfg.RetryMaxAttempts),
		RetryInitialBackoffMS:    mustEnvInt("RETRY_INITIAL_BACKOFF_MS", cfg.RetryInitialBackoffMS),
		RetryMaxBackoffMS:        mustEnvInt("RETRY_MAX_BACKOFF_MS", cfg.RetryMaxBackoffMS),
		BreakerEnabled:           mustEnvBool("BREAKER_ENABLED", cfg.BreakerEnabled),
		BreakerFailureRatio:      mustEnvFloat("BREAKER_FAILURE_RATIO", cfg.BreakerFailureRatio),
		BreakerOpenTimeoutSecond: mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", cfg.BreakerOpenTimeoutSecond),

		WorkerMetricsPort: mustEnv("WORKER_METRICS_PORT", cfg.WorkerMetricsPort),
	}, nil
}

// Resilience converts the retry and breaker settings for the executor.
func (c Config) Resilience() resilience.Config {
	out := resilience.DefaultConfig()
	out.RetryMaxAttempts = c.RetryMaxAttempts
	out.RetryInitialBackoff = time.Duration(c.RetryInitialBackoffMS) * time.Millisecond
	out.RetryMaxBackoff = time.Duration(c.RetryMaxBackoffMS) * time.Millisecond
	out.BreakerEnabled = c.BreakerEnabled
	out.BreakerFailureRatio = c.BreakerFailureRatio
	out.BreakerOpenTimeout = time.Duration(c.BreakerOpenTimeoutSecond) * time.Second
	return out
}

func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
