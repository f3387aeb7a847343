package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hirevox/hirevox/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	_ = os.Unsetenv("HIREVOX_ADDR")
	_ = os.Unsetenv("HIREVOX_JWT_SECRET")
	_ = os.Unsetenv("HIREVOX_DATABASE_PATH")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig returned error for empty path: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("unexpected Addr: got %q want %q", cfg.Addr, ":8080")
	}
	if cfg.Session.MaxRecording != 180*time.Second {
		t.Fatalf("unexpected MaxRecording: %v", cfg.Session.MaxRecording)
	}
	if cfg.Session.LegacyMaxRecording != 120*time.Second {
		t.Fatalf("unexpected LegacyMaxRecording: %v", cfg.Session.LegacyMaxRecording)
	}
	if cfg.Session.SpeakDelay != 1*time.Second {
		t.Fatalf("unexpected SpeakDelay: %v", cfg.Session.SpeakDelay)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	os.Setenv("HIREVOX_ADDR", ":9999")
	defer os.Unsetenv("HIREVOX_ADDR")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("expected env override, got %q", cfg.Addr)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	content := "addr: \":7070\"\nsession:\n  max_recording: 90s\n  legacy_max_recording: 60s\n"
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("unexpected Addr: %q", cfg.Addr)
	}
	if cfg.Session.MaxRecording != 90*time.Second {
		t.Fatalf("unexpected MaxRecording: %v", cfg.Session.MaxRecording)
	}
	if cfg.Session.LegacyMaxRecording != 60*time.Second {
		t.Fatalf("unexpected LegacyMaxRecording: %v", cfg.Session.LegacyMaxRecording)
	}
}

func TestValidate_InsecureJWT_FailsWhenNotDevelopment(t *testing.T) {
	os.Setenv("HIREVOX_ENV", "production")
	defer os.Unsetenv("HIREVOX_ENV")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to fail for insecure JWT in non-development env")
	}
}

func TestValidate_InsecureJWT_AllowsDevelopment(t *testing.T) {
	os.Setenv("HIREVOX_ENV", "development")
	defer os.Unsetenv("HIREVOX_ENV")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected Validate to succeed in development env, got: %v", err)
	}
}

func TestValidate_EngineDefaultsPopulated(t *testing.T) {
	os.Setenv("HIREVOX_ENV", "development")
	defer os.Unsetenv("HIREVOX_ENV")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.Engine.Model = "llama3"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed unexpectedly: %v", err)
	}

	if cfg.Engine.BaseURL == "" {
		t.Fatalf("expected Engine.BaseURL to be populated, got empty")
	}
	if cfg.Engine.Timeout <= 0 {
		t.Fatalf("expected Engine.Timeout to be > 0")
	}
	if cfg.Engine.Retries == 0 {
		t.Fatalf("expected Engine.Retries default to be non-zero")
	}
}
