// Package dummy is a reference module: its fire function appends one line
// to a file on disk and returns. It exists to exercise the worker contract
// end-to-end and to give the manager's static registry something real to
// load in tests and examples.
package dummy

import (
	"context"
	"os"
	"path/filepath"

	"bachd/internal/app/module"
	"bachd/internal/app/packet"
	"bachd/internal/app/runstatus"
)

const defaultOutputFile = "dummyout.txt"

// Dummy is a minimal Module: it has no module-specific inlet behavior
// beyond the shared default routing, and its fire function writes a fixed
// line to configPath (or defaultOutputFile if configPath is empty).
type Dummy struct {
	module.Base
}

// New builds a Dummy module instance named name, writing to configPath on
// fire.
func New(name, configPath string) (module.Module, error) {
	return &Dummy{Base: module.NewBase(name, configPath)}, nil
}

// Init has no resources to acquire.
func (d *Dummy) Init() error { return nil }

// Destroy has no resources to release.
func (d *Dummy) Destroy() error { return nil }

// Inlet has nothing to add beyond the default BackupCom(FIRE)/Stop/Terminate
// routing every module already gets.
func (d *Dummy) Inlet(packet.Packet) {}

// Fire returns the function that appends a line to the configured output
// file.
func (d *Dummy) Fire() module.FireFunc {
	return func(ctx context.Context, stack *module.MessageStack, status *runstatus.RunStatus, configPath, name string) error {
		path := configPath
		if path == "" {
			path = defaultOutputFile
		}

		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = f.WriteString("Dummy wrote\n")

		return err
	}
}
