// Package config loads and validates the application configuration from a
// YAML file, environment variables and built-in defaults, in that order of
// precedence (highest first: env, file, defaults).
package config

import (
	"time"

	"github.com/Veins19/MarketBridge/internal/llm"
)

// Config is the full application configuration.
type Config struct {
	Core     CoreConfig     `mapstructure:"core"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      llm.Config     `mapstructure:"llm"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CoreConfig tunes the orchestration engine.
type CoreConfig struct {
	// MaxRounds bounds the collaboration rounds per run, counting the
	// independent analysis round.
	MaxRounds int `mapstructure:"max_rounds" validate:"min=1,max=10"`

	// Timeout bounds a whole run; past it, fallbacks fill in.
	Timeout time.Duration `mapstructure:"timeout" validate:"min=1s"`

	// ROIThreshold anchors the executive decision table.
	ROIThreshold float64 `mapstructure:"roi_threshold" validate:"gte=0"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}
