package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MAX_TEXT_LENGTH", "")
	t.Setenv("TRANSLATION_MAX_TEXT_LENGTH", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("STORAGE_BACKEND", "")

	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.APIPort)
	}
	if cfg.MaxTextLength != 100_000 {
		t.Fatalf("expected default text limit 100000, got %d", cfg.MaxTextLength)
	}
	if cfg.TranslationMaxTextLength != 50_000 {
		t.Fatalf("expected default translation limit 50000, got %d", cfg.TranslationMaxTextLength)
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Fatalf("expected default model gpt-4o, got %q", cfg.OpenAIModel)
	}
	if cfg.StorageBackend != "s3" {
		t.Fatalf("expected default backend s3, got %q", cfg.StorageBackend)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MAX_TEXT_LENGTH", "2000")
	t.Setenv("TRANSLATION_MAX_TEXT_LENGTH", "900")
	t.Setenv("STORAGE_BACKEND", "localfs")
	t.Setenv("SUMMARIZE_API_KEY", "sum-key")

	cfg := Load()
	if cfg.MaxTextLength != 2000 {
		t.Fatalf("expected text limit 2000, got %d", cfg.MaxTextLength)
	}
	if cfg.TranslationMaxTextLength != 900 {
		t.Fatalf("expected translation limit 900, got %d", cfg.TranslationMaxTextLength)
	}
	if cfg.StorageBackend != "localfs" {
		t.Fatalf("expected backend localfs, got %q", cfg.StorageBackend)
	}
	if cfg.APIKeys["/summarize"] != "sum-key" {
		t.Fatalf("expected summarize key from env, got %q", cfg.APIKeys["/summarize"])
	}
}

func TestLoadMalformedIntFallsBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MAX_TEXT_LENGTH", "not-a-number")

	cfg := Load()
	if cfg.MaxTextLength != 100_000 {
		t.Fatalf("expected fallback limit 100000, got %d", cfg.MaxTextLength)
	}
}

func TestLoadSeedFilePrecedence(t *testing.T) {
	seedPath := filepath.Join(t.TempDir(), "config.yaml")
	seed := "API_PORT: \"9999\"\nSENTIMENT_API_KEY: seed-sentiment\nMAX_TEXT_LENGTH: \"1234\"\n"
	if err := os.WriteFile(seedPath, []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	t.Setenv("CONFIG_FILE", seedPath)
	t.Setenv("API_PORT", "7070") // env wins over seed
	t.Setenv("SENTIMENT_API_KEY", "")
	t.Setenv("MAX_TEXT_LENGTH", "")

	cfg := Load()
	if cfg.APIPort != "7070" {
		t.Fatalf("env should beat seed file, got port %q", cfg.APIPort)
	}
	if cfg.APIKeys["/sentiment"] != "seed-sentiment" {
		t.Fatalf("seed value not applied, got %q", cfg.APIKeys["/sentiment"])
	}
	if cfg.MaxTextLength != 1234 {
		t.Fatalf("seed int not applied, got %d", cfg.MaxTextLength)
	}
}

func TestLoadAPIKeysCoverEveryTaskEndpoint(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg := Load()
	for _, path := range []string{
		"/summarize", "/sentiment", "/extract-keywords",
		"/translate", "/structure-data", "/detect-topics",
	} {
		if _, ok := cfg.APIKeys[path]; !ok {
			t.Fatalf("APIKeys missing entry for %s", path)
		}
	}
}
