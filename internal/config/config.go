package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"bachd/internal/app/errors"
)

// Config is the daemon configuration tree: TCP bind address, log level, and
// the module manager's own configuration.
type Config struct {
	Port     int    `yaml:"port" mapstructure:"port"`
	IP       string `yaml:"ip" mapstructure:"ip"`
	LogLevel string `yaml:"log-level" mapstructure:"log-level"`
	Logging  struct {
		Format string `yaml:"format" mapstructure:"format"`
	} `yaml:"logging" mapstructure:"logging"`
	ModuleManager ModuleManagerConfig `yaml:"module-manager" mapstructure:"module-manager"`
	Vitals        VitalsConfig        `yaml:"vitals" mapstructure:"vitals"`
}

// ModuleManagerConfig configures the manager's respawn threshold and the
// static set of modules it loads at startup.
type ModuleManagerConfig struct {
	RespawnDurationSeconds int                `yaml:"respawn_duration_seconds" mapstructure:"respawn_duration_seconds"`
	Modules                []ModuleDefinition `yaml:"modules" mapstructure:"modules"`
}

// ModuleDefinition names one module to load, either from the static registry
// (Name) or, once dynamic loading exists, from a shared object (File).
type ModuleDefinition struct {
	Name       string          `yaml:"name" mapstructure:"name"`
	File       string          `yaml:"file" mapstructure:"file"`
	ConfigFile string          `yaml:"config-file" mapstructure:"config-file"`
	Schedule   *ScheduleConfig `yaml:"schedule" mapstructure:"schedule"`
}

// ScheduleConfig is the on-disk form of a module's fire schedule.
type ScheduleConfig struct {
	Hour string `yaml:"hour" mapstructure:"hour"`
	Min  string `yaml:"min" mapstructure:"min"`
}

// VitalsConfig controls the self-process vitals ticker.
type VitalsConfig struct {
	Enabled         bool `yaml:"enabled" mapstructure:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds" mapstructure:"interval_seconds"`
}

// DefaultConfig returns the configuration used when no config file is found.
func DefaultConfig() *Config {
	cfg := &Config{
		Port:     DefaultPort,
		IP:       DefaultIP,
		LogLevel: LogLevel,
	}

	cfg.Logging.Format = LogFormat
	cfg.ModuleManager.RespawnDurationSeconds = DefaultRespawnDurationSeconds
	cfg.Vitals.Enabled = true
	cfg.Vitals.IntervalSeconds = DefaultVitalsIntervalSeconds

	return cfg
}

// Load reads the daemon config from the path named by BACH_DEFAULT_CONFIG,
// falling back to /etc/bach/bachd.yaml, and merges it onto DefaultConfig.
// A missing file is not an error: the daemon runs on defaults alone.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path := os.Getenv(ConfigFileEnv)
	if path == "" {
		path = "/etc/bach/bachd.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return nil, errors.ErrFailedToReadConfig
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, errors.ErrFailedToReadConfig
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.ErrFailedToParseConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Validate checks the fields that would otherwise surface as confusing
// runtime failures (a bad port, a non-positive respawn window).
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.ErrInvalidPort
	}

	if c.ModuleManager.RespawnDurationSeconds <= 0 {
		return errors.ErrInvalidRespawn
	}

	for _, m := range c.ModuleManager.Modules {
		if m.Name == "" && m.File == "" {
			return errors.ErrModuleConfigRequired
		}

		if m.Schedule != nil {
			if m.Schedule.Hour == "" || m.Schedule.Min == "" {
				return errors.ErrScheduleFieldRequired
			}
		}
	}

	return nil
}
