// Package config loads process configuration from AGT_* environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is read once at startup. Mid-run environment changes have no effect.
type Config struct {
	Model       string `envconfig:"MODEL" default:"claude-3-7-sonnet-latest"`
	MaxTokens   int64  `envconfig:"MAX_TOKENS" default:"1024"`
	StepBudget  int    `envconfig:"STEP_BUDGET" default:"50"`
	TokenBudget int    `envconfig:"TOKEN_BUDGET" default:"60000"`

	ReadRoot  string `envconfig:"READ_ROOT"`
	WriteRoot string `envconfig:"WRITE_ROOT"`

	HTTPAddr    string `envconfig:"HTTP_ADDR"`
	PersonaFile string `envconfig:"PERSONA_FILE"`

	Log LogConfig `envconfig:"LOG"`

	ObserveJSON  bool   `envconfig:"OBSERVE_JSON" default:"false"`
	ArtifactsDir string `envconfig:"ARTIFACTS_DIR" default:".agent"`
	TraceStdout  bool   `envconfig:"TRACE_STDOUT" default:"false"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

const envPrefix = "AGT"

// Load processes the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.StepBudget <= 0 {
		return fmt.Errorf("AGT_STEP_BUDGET must be positive, got %d", cfg.StepBudget)
	}
	if cfg.TokenBudget <= 0 {
		return fmt.Errorf("AGT_TOKEN_BUDGET must be positive, got %d", cfg.TokenBudget)
	}
	if cfg.MaxTokens <= 0 {
		return fmt.Errorf("AGT_MAX_TOKENS must be positive, got %d", cfg.MaxTokens)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", cfg.Log.Format)
	}
	return nil
}
