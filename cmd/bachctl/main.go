// Command bachctl is the control-channel client: each subcommand dials the
// daemon's TCP listener and writes exactly one 1024-byte control frame,
// per the wire format in bachd's control package.
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bachd/internal/app/control"
	"bachd/internal/config"
)

const dialTimeout = 2 * time.Second

func main() {
	if err := buildRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildRootCommand assembles bachctl's subcommands: list, status, fire,
// stop, terminate. Each maps 1-to-1 onto a control-channel frame.
func buildRootCommand() *cobra.Command {
	var addr string

	root := &cobra.Command{
		Use:           "bachctl",
		Short:         "control client for the bachd backup-orchestration daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&addr, "addr", fmt.Sprintf("%s:%d", config.DefaultIP, config.DefaultPort), "daemon control-channel address")

	root.AddCommand(
		buildListCommand(&addr),
		buildStatusCommand(&addr),
		buildFireCommand(&addr),
		buildStopCommand(&addr),
		buildTerminateCommand(&addr),
	)

	return root
}

func buildListCommand(addr *string) *cobra.Command {
	var running bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list loaded or running modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := control.KindListLoaded
			if running {
				kind = control.KindListRunning
			}

			return send(*addr, control.Command{Kind: kind})
		},
	}

	cmd.Flags().BoolVar(&running, "running", false, "list only spawned (running) modules")

	return cmd
}

func buildStatusCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status NAME",
		Short: "report a module's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(*addr, control.Command{Kind: control.KindStatus, Name: args[0]})
		},
	}
}

func buildFireCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fire NAME",
		Short: "fire a module now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(*addr, control.Command{Kind: control.KindFire, Name: args[0]})
		},
	}
}

func buildStopCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop NAME",
		Short: "stop a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(*addr, control.Command{Kind: control.KindStop, Name: args[0]})
		},
	}
}

func buildTerminateCommand(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "terminate",
		Short: "shut the daemon down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(*addr, control.Command{Kind: control.KindTerminate})
		},
	}
}

// send dials addr and writes one control frame. No response is read: the
// core control channel has no reply path, per the daemon's own design.
func send(addr string, cmd control.Command) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	core := control.EncodeCommand(cmd)

	if _, err := conn.Write(core[:]); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}

	return nil
}
