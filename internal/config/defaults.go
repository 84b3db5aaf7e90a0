package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Core: CoreConfig{
			MaxRounds:    2,
			Timeout:      30 * time.Second,
			ROIThreshold: 20,
		},
		Database: DatabaseConfig{
			Path: "marketbridge.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// setDefaults registers the built-in defaults on the viper instance so
// that file and environment values only need to override what differs.
func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("core.max_rounds", def.Core.MaxRounds)
	v.SetDefault("core.timeout", def.Core.Timeout)
	v.SetDefault("core.roi_threshold", def.Core.ROIThreshold)

	v.SetDefault("database.path", def.Database.Path)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.server_url", "")

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}
