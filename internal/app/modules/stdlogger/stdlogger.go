// Package stdlogger is a reference module that appends notifications and
// LoggerCom writes to its configured log file, falling back to the
// daemon's own logger when no config path is set.
package stdlogger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"bachd/internal/app/errors"
	"bachd/internal/app/module"
	"bachd/internal/app/packet"
	"bachd/internal/app/runstatus"
	"bachd/internal/config/logger"
)

// StdLogger has no fire work of its own; every NotifyGood/Warn/Err and
// LoggerCom packet is appended to its log file directly in Inlet.
type StdLogger struct {
	module.Base
	log logger.Logger

	mu   sync.Mutex
	file *os.File
}

// New builds a StdLogger module instance named name. log may be nil, in
// which case fallback output (when no config path is set) is discarded.
func New(log logger.Logger) func(name, configPath string) (module.Module, error) {
	if log == nil {
		log = &logger.NoopLogger{}
	}

	return func(name, configPath string) (module.Module, error) {
		return &StdLogger{
			Base: module.NewBase(name, configPath),
			log:  log.WithComponent(name),
		}, nil
	}
}

// Init opens the configured log file for appending, creating it if needed.
// Without a config path, StdLogger writes through its fallback logger
// instead.
func (s *StdLogger) Init() error {
	if s.ConfigPath() == "" {
		return nil
	}

	f, err := os.OpenFile(s.ConfigPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrModuleInitFailed, err)
	}

	s.mu.Lock()
	s.file = f
	s.mu.Unlock()

	return nil
}

// Destroy closes the log file, if one was opened.
func (s *StdLogger) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	err := s.file.Close()
	s.file = nil

	return err
}

// Inlet writes notifications and LoggerCom write payloads as one line each,
// tagged with the level implied by the packet's tag. Stop/Terminate are
// already handled by the default routing before this is reached.
func (s *StdLogger) Inlet(p packet.Packet) {
	switch p.Tag {
	case packet.TagNotifyGood:
		n := packet.DecodeNotification(p)
		s.write("INFO", n.Message)
	case packet.TagNotifyWarn:
		n := packet.DecodeNotification(p)
		s.write("WARN", n.Message)
	case packet.TagNotifyErr:
		n := packet.DecodeNotification(p)
		s.write("ERROR", n.Message)
	case packet.TagLoggerCom:
		cmd := packet.DecodeLoggerCommand(p.Core)
		if cmd.Kind == packet.LoggerWrite {
			s.write("INFO", cmd.Text)
		}
	}
}

// write appends one "timestamp level message" line to the log file, or
// falls back to the module's own logger when no file was opened.
func (s *StdLogger) write(level, message string) {
	s.mu.Lock()
	f := s.file
	s.mu.Unlock()

	if f == nil {
		s.fallback(level, message)
		return
	}

	line := fmt.Sprintf("%s %s %s\n", time.Now().Format(time.RFC3339), level, message)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := f.WriteString(line); err != nil {
		s.log.Error().Err(err).Msg("stdlogger: failed to write log file")
	}
}

func (s *StdLogger) fallback(level, message string) {
	switch level {
	case "WARN":
		s.log.Warn().Msg(message)
	case "ERROR":
		s.log.Error().Msg(message)
	default:
		s.log.Info().Msg(message)
	}
}

// Fire is a no-op: StdLogger does no scheduled work of its own, it only
// reacts to packets.
func (s *StdLogger) Fire() module.FireFunc {
	return func(ctx context.Context, stack *module.MessageStack, status *runstatus.RunStatus, configPath, name string) error {
		return nil
	}
}
