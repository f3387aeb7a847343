package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Session       SessionConfig `yaml:"session"`
	Engine        EngineConfig  `yaml:"engine"`
}

// SessionConfig controls the candidate-facing interview session engine.
type SessionConfig struct {
	// MaxRecording is the recording ceiling on the current interview surface.
	MaxRecording time.Duration `yaml:"max_recording"`
	// LegacyMaxRecording is the ceiling on the legacy portal surface.
	LegacyMaxRecording time.Duration `yaml:"legacy_max_recording"`
	// SpeakDelay is the pause before a question is spoken aloud.
	SpeakDelay time.Duration `yaml:"speak_delay"`
}

// EngineConfig configures the optional AI question-generation engine backing
// interview kits. An empty Model disables generation.
type EngineConfig struct {
	Model                   string        `yaml:"model"`
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("HIREVOX_ADDR", ":8080"),
		JWTSecret:     getEnv("HIREVOX_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("HIREVOX_DATABASE_PATH", "hirevox.db"),
		TokenDuration: 1 * time.Hour,
		Session: SessionConfig{
			MaxRecording:       180 * time.Second,
			LegacyMaxRecording: 120 * time.Second,
			SpeakDelay:         1 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the configuration and fills engine defaults. The default
// JWT secret is rejected outside development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.JWTSecret == "supersecretkey" && os.Getenv("HIREVOX_ENV") != "development" {
		return fmt.Errorf("insecure jwt_secret: set a real secret outside development")
	}
	if c.Session.MaxRecording <= 0 {
		c.Session.MaxRecording = 180 * time.Second
	}
	if c.Session.LegacyMaxRecording <= 0 {
		c.Session.LegacyMaxRecording = 120 * time.Second
	}
	if c.Session.SpeakDelay < 0 {
		return fmt.Errorf("session.speak_delay must not be negative")
	}
	if c.Engine.Model != "" {
		if c.Engine.BaseURL == "" {
			c.Engine.BaseURL = "http://localhost:11434"
		}
		if c.Engine.Timeout <= 0 {
			c.Engine.Timeout = 30 * time.Second
		}
		if c.Engine.Retries == 0 {
			c.Engine.Retries = 3
		}
		if c.Engine.Backoff <= 0 {
			c.Engine.Backoff = 500 * time.Millisecond
		}
		if c.Engine.CircuitFailureThreshold <= 0 {
			c.Engine.CircuitFailureThreshold = 5
		}
		if c.Engine.CircuitReset <= 0 {
			c.Engine.CircuitReset = 30 * time.Second
		}
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
