package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"bachd/internal/app/errors"
)

func Test_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultIP, cfg.IP)
	assert.Equal(t, LogLevel, cfg.LogLevel)
	assert.Equal(t, LogFormat, cfg.Logging.Format)
	assert.Equal(t, DefaultRespawnDurationSeconds, cfg.ModuleManager.RespawnDurationSeconds)
	assert.True(t, cfg.Vitals.Enabled)
}

func Test_Load(t *testing.T) {
	tests := []struct {
		name        string
		setupFunc   func() func()
		expectError bool
		error       error
	}{
		{
			name: "no config file found - uses defaults",
			setupFunc: func() func() {
				return func() {}
			},
		},
		{
			name: "valid config file",
			setupFunc: func() func() {
				content := `port: 9090
ip: "0.0.0.0"
log-level: debug
module-manager:
  respawn_duration_seconds: 60
  modules:
    - name: dummy
`

				path := "bachd-test.yaml"
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					t.Fatal(err)
				}

				os.Setenv(ConfigFileEnv, path)

				return func() {
					os.Unsetenv(ConfigFileEnv)
					os.Remove(path)
				}
			},
		},
		{
			name: "invalid port",
			setupFunc: func() func() {
				content := `port: 0
module-manager:
  respawn_duration_seconds: 30
`
				path := "bachd-test.yaml"
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					t.Fatal(err)
				}

				os.Setenv(ConfigFileEnv, path)

				return func() {
					os.Unsetenv(ConfigFileEnv)
					os.Remove(path)
				}
			},
			error: errors.ErrInvalidConfig,
		},
		{
			name: "invalid respawn duration",
			setupFunc: func() func() {
				content := `port: 7777
module-manager:
  respawn_duration_seconds: 0
`
				path := "bachd-test.yaml"
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					t.Fatal(err)
				}

				os.Setenv(ConfigFileEnv, path)

				return func() {
					os.Unsetenv(ConfigFileEnv)
					os.Remove(path)
				}
			},
			error: errors.ErrInvalidConfig,
		},
		{
			name: "module missing a name or file",
			setupFunc: func() func() {
				content := `port: 7777
module-manager:
  respawn_duration_seconds: 30
  modules:
    - config-file: /etc/bach/dummy.yaml
`
				path := "bachd-test.yaml"
				if err := os.WriteFile(path, []byte(content), 0644); err != nil {
					t.Fatal(err)
				}

				os.Setenv(ConfigFileEnv, path)

				return func() {
					os.Unsetenv(ConfigFileEnv)
					os.Remove(path)
				}
			},
			error: errors.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := tt.setupFunc()
			defer cleanup()

			cfg, err := Load()

			if tt.error != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.error), "expected error %v, got %v", tt.error, err)
				assert.Nil(t, cfg)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, cfg)
			}
		})
	}
}

func Test_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		expectError bool
		expectedErr error
	}{
		{
			name:   "valid default configuration",
			config: DefaultConfig(),
		},
		{
			name: "port too low",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Port = 0

				return cfg
			}(),
			expectError: true,
			expectedErr: errors.ErrInvalidPort,
		},
		{
			name: "port too high",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.Port = 70000

				return cfg
			}(),
			expectError: true,
			expectedErr: errors.ErrInvalidPort,
		},
		{
			name: "non-positive respawn duration",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.ModuleManager.RespawnDurationSeconds = 0

				return cfg
			}(),
			expectError: true,
			expectedErr: errors.ErrInvalidRespawn,
		},
		{
			name: "module without name or file",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.ModuleManager.Modules = []ModuleDefinition{{}}

				return cfg
			}(),
			expectError: true,
			expectedErr: errors.ErrModuleConfigRequired,
		},
		{
			name: "schedule missing min",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.ModuleManager.Modules = []ModuleDefinition{
					{Name: "dummy", Schedule: &ScheduleConfig{Hour: "*"}},
				}

				return cfg
			}(),
			expectError: true,
			expectedErr: errors.ErrScheduleFieldRequired,
		},
		{
			name: "valid module with schedule",
			config: func() *Config {
				cfg := DefaultConfig()
				cfg.ModuleManager.Modules = []ModuleDefinition{
					{Name: "dummy", Schedule: &ScheduleConfig{Hour: "*", Min: "*"}},
				}

				return cfg
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
