package control

import (
	"fmt"
	"io"
	"net"
	"time"

	"bachd/internal/app/errors"
	"bachd/internal/app/packet"
	"bachd/internal/config/logger"
)

// Listener is the control channel's TCP front end: a non-blocking accept
// loop the daemon polls once per cycle, decoding each accepted connection's
// single frame into a Command.
type Listener interface {
	// DrainPending accepts and decodes every connection already queued,
	// up to limit. Each accept poll and each frame read waits at most one
	// deadline. It returns as soon as a poll finds nothing pending.
	DrainPending(limit int) []Command
	Addr() net.Addr
	Close() error
}

type listener struct {
	ln       *net.TCPListener
	deadline time.Duration
	log      logger.Logger
}

// Bind opens a TCP listener on ip:port. deadline bounds each accept poll:
// Go has no set_nonblocking equivalent on net.Listener, so "non-blocking
// mode" is implemented as accept-with-deadline, treating a timeout as "no
// connection pending" per the daemon's main-loop contract.
func Bind(ip string, port int, deadline time.Duration, log logger.Logger) (Listener, error) {
	if log == nil {
		log = &logger.NoopLogger{}
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", ip, port))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrFailedToBindControl, err)
	}

	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		_ = ln.Close()
		return nil, errors.ErrFailedToBindControl
	}

	return &listener{ln: tcpLn, deadline: deadline, log: log.WithComponent("CONTROL")}, nil
}

// Addr returns the bound local address.
func (l *listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops accepting further connections.
func (l *listener) Close() error {
	return l.ln.Close()
}

// DrainPending repeatedly accepts with a short deadline until a poll times
// out (no connection currently queued) or limit frames have been read.
func (l *listener) DrainPending(limit int) []Command {
	var cmds []Command

	for i := 0; i < limit; i++ {
		cmd, ok, err := l.accept()
		if err != nil {
			l.log.Error().Err(err).Msg("control accept error")
			continue
		}

		if !ok {
			break
		}

		cmds = append(cmds, cmd)
	}

	return cmds
}

// accept blocks for at most l.deadline waiting for a connection, reads
// exactly one 1024-byte frame from it (waiting at most l.deadline for the
// frame), and closes it. ok is false, with a nil error, when the deadline
// elapsed with nothing pending.
func (l *listener) accept() (Command, bool, error) {
	if err := l.ln.SetDeadline(time.Now().Add(l.deadline)); err != nil {
		return Command{}, false, err
	}

	conn, err := l.ln.Accept()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return Command{}, false, nil
		}

		return Command{}, false, err
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(l.deadline)); err != nil {
		return Command{}, false, err
	}

	var core packet.Core

	if _, err := io.ReadFull(conn, core[:]); err != nil {
		return Command{}, false, fmt.Errorf("%w: %w", errors.ErrFailedToReadFrame, err)
	}

	return DecodeCommand(core), true, nil
}
