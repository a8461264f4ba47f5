package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("VOCABULARY_LOWERCASE", "")
	t.Setenv("VOCABULARY_MIN_TOKEN_LENGTH", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VocabularyLowercase {
		t.Fatalf("expected case-sensitive vocabulary by default")
	}
	if cfg.VocabularyMinTokenLength != 1 {
		t.Fatalf("expected default min token length 1, got %d", cfg.VocabularyMinTokenLength)
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected default rate limit 20, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.NATSRankSubject != "resumes.rank" {
		t.Fatalf("expected default rank subject, got %q", cfg.NATSRankSubject)
	}
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_port: \"9000\"\nvocabulary_lowercase: true\nnats_queue_group: rankers\nmax_upload_bytes: 2048\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_PORT", "9100")
	t.Setenv("VOCABULARY_LOWERCASE", "")
	t.Setenv("NATS_QUEUE_GROUP", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "9100" {
		t.Fatalf("expected env to win over file, got %q", cfg.APIPort)
	}
	if !cfg.VocabularyLowercase {
		t.Fatalf("expected file to enable lowercase")
	}
	if cfg.NATSQueueGroup != "rankers" {
		t.Fatalf("expected queue group from file, got %q", cfg.NATSQueueGroup)
	}
	if cfg.MaxUploadBytes != 2048 {
		t.Fatalf("expected upload cap from file, got %d", cfg.MaxUploadBytes)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected untouched default log level, got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_port: [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("API_RATE_LIMIT_RPS", "fast")
	t.Setenv("BREAKER_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIRateLimitRPS != 20 || !cfg.BreakerEnabled {
		t.Fatalf("expected fallbacks, got rps=%v breaker=%v", cfg.APIRateLimitRPS, cfg.BreakerEnabled)
	}
}

func TestResilienceConversion(t *testing.T) {
	cfg := defaults()
	cfg.RetryInitialBackoffMS = 50
	cfg.BreakerOpenTimeoutSecond = 5

	rc := cfg.Resilience()
	if rc.RetryInitialBackoff != 50*time.Millisecond {
		t.Fatalf("unexpected backoff %v", rc.RetryInitialBackoff)
	}
	if rc.BreakerOpenTimeout != 5*time.Second {
		t.Fatalf("unexpected open timeout %v", rc.BreakerOpenTimeout)
	}
}

func TestLoadBlankStopwordsPathFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("stopwords_path: \"\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("STOPWORDS_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StopwordsPath != defaults().StopwordsPath {
		t.Fatalf("expected default stopwords path, got %q", cfg.StopwordsPath)
	}
}
