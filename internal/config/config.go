package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	DBPath          string        `envconfig:"DB_PATH" default:"reminder.db"`
	DBLogSQL        bool          `envconfig:"DB_LOG_SQL" default:"false"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`       // debug|info|warn|error
	AlarmTimezone   string        `envconfig:"ALARM_TIMEZONE" default:"Local"` // IANA name, or Local
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	LineChannelSecret string `envconfig:"LINE_CHANNEL_SECRET"`
	LineChannelToken  string `envconfig:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineNotifyTo      string `envconfig:"LINE_NOTIFY_TO"` // LINE user ID that receives medication alarms
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Location resolves the timezone alarms are anchored to.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.AlarmTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ALARM_TIMEZONE %q: %w", c.AlarmTimezone, err)
	}
	return loc, nil
}

// LineEnabled reports whether alarms should be pushed through LINE.
func (c Config) LineEnabled() bool {
	return c.LineChannelSecret != "" && c.LineChannelToken != "" && c.LineNotifyTo != ""
}
