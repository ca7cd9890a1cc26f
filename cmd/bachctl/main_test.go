package main

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bachd/internal/app/control"
)

func TestBuildRootCommandHasEverySubcommand(t *testing.T) {
	root := buildRootCommand()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"list", "status", "fire", "stop", "terminate"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestSendWritesExactlyOneFrame(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan control.Command, 1)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		var core [1024]byte
		if _, err := io.ReadFull(conn, core[:]); err != nil {
			return
		}

		received <- control.DecodeCommand(core)
	}()

	err = send(ln.Addr().String(), control.Command{Kind: control.KindFire, Name: "Dummy"})
	require.NoError(t, err)

	select {
	case cmd := <-received:
		assert.Equal(t, control.Command{Kind: control.KindFire, Name: "Dummy"}, cmd)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon side never received a frame")
	}
}

func TestSendReturnsErrorOnDialFailure(t *testing.T) {
	err := send("127.0.0.1:1", control.Command{Kind: control.KindTerminate})
	assert.Error(t, err)
}
