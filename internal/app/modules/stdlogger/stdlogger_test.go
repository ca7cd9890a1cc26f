package stdlogger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bachd/internal/app/packet"
	"bachd/internal/config/logger"
)

func TestNewSetsNameAndConfigPath(t *testing.T) {
	ctor := New(nil)

	m, err := ctor("StdLogger", "/tmp/stdlogger.log")
	require.NoError(t, err)
	assert.Equal(t, "StdLogger", m.Name())
	assert.Equal(t, "/tmp/stdlogger.log", m.ConfigPath())
}

func TestInletHandlesEveryAcceptedTagWithoutPanic(t *testing.T) {
	ctor := New(&logger.NoopLogger{})
	m, err := ctor("StdLogger", "")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.Inlet(packet.NewNotifyGood("m", "p", "s"))
		m.Inlet(packet.NewNotifyWarn("m", "p", "s"))
		m.Inlet(packet.NewNotifyErr("m", "p", "s"))
		m.Inlet(packet.NewLoggerCom(packet.EncodeLoggerCommand(packet.LoggerCommand{Kind: packet.LoggerWrite, Text: "hi"})))
		m.Inlet(packet.NewWatchHold())
	})
}

func TestInletWritesToConfiguredLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdlogger.log")

	ctor := New(nil)
	m, err := ctor("StdLogger", path)
	require.NoError(t, err)
	require.NoError(t, m.Init())
	defer m.Destroy()

	m.Inlet(packet.NewNotifyGood("hello", "p", "s"))
	m.Inlet(packet.NewLoggerCom(packet.EncodeLoggerCommand(packet.LoggerCommand{Kind: packet.LoggerWrite, Text: "world"})))

	require.NoError(t, m.Destroy())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO hello")
	assert.Contains(t, string(data), "INFO world")
}

func TestFireIsNoOp(t *testing.T) {
	ctor := New(nil)
	m, err := ctor("StdLogger", "")
	require.NoError(t, err)

	fn := m.Fire()
	assert.NoError(t, fn(nil, m.MessageStack(), m.RunStatus(), "", "StdLogger"))
}
