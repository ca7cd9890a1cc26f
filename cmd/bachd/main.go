// Command bachd is the backup-orchestration daemon: it loads its module
// manager from config, spawns every configured module's worker, fires them
// on schedule, supervises their liveness, and accepts control-channel
// commands from bachctl until told to terminate.
package main

import (
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"bachd/internal/app"
	"bachd/internal/config"
	"bachd/internal/config/logger"
)

func main() {
	runDaemon()
}

// runDaemon contains the main application logic, split out so tests can
// drive createApp/createFxLogger without calling os.Exit.
func runDaemon() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fxApp := createApp(cfg)

	fxApp.Run()

	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig wraps config.Load for easier testing.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// createApp builds the fx application that wires the daemon's bus,
// manager, control channel and main loop together.
func createApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.WithLogger(createFxLogger(cfg)),
		fx.Supply(cfg),
		logger.Module,
		app.Module,
	)
}

// createFxLogger returns an FX logger based on the config: debug level gets
// fx's own startup/shutdown graph logged to stdout, everything else is
// silent.
func createFxLogger(cfg *config.Config) func() fxevent.Logger {
	return func() fxevent.Logger {
		if cfg.LogLevel == logger.DebugLevel {
			return &fxevent.ConsoleLogger{W: os.Stdout}
		}

		return fxevent.NopLogger
	}
}
