package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, "apiKey: FILEKEY\nbaseURL: http://tracker.test/api/v1/\ntimeoutMS: 5000\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "FILEKEY" || cfg.BaseURL != "http://tracker.test/api/v1/" || cfg.TimeoutMS != 5000 {
		t.Errorf("config wrong: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "apiKey: FILEKEY\n")
	t.Setenv(EnvAPIKey, "ENVKEY")
	t.Setenv(EnvBaseURL, "http://override.test/")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "ENVKEY" {
		t.Errorf("expected env key to win, got %q", cfg.APIKey)
	}
	if cfg.BaseURL != "http://override.test/" {
		t.Errorf("expected env base URL to win, got %q", cfg.BaseURL)
	}
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv(EnvAPIKey, "ENVKEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "ENVKEY" {
		t.Errorf("expected env-only config to work, got %+v", cfg)
	}
}

func TestLoadRejectsMissingKey(t *testing.T) {
	path := writeConfig(t, "timeoutMS: 1000\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for missing apiKey")
	}
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	path := writeConfig(t, "apiKey: K\nbaseURL: not-a-url\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for malformed baseURL")
	}
}
