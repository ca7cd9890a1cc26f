package packet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestNotifyCommandRoundTrip(t *testing.T) {
	cases := []NotifyCommand{
		{Kind: NotifyShutUp, Name: strptr("Dummy")},
		{Kind: NotifyError, Name: nil},
		{Kind: NotifyWarning, Name: strptr("Dummy")},
		{Kind: NotifyDebug, Name: nil},
	}
	for _, c := range cases {
		core := EncodeNotifyCommand(c)
		got := DecodeNotifyCommand(core)
		assert.Equal(t, c, got)
	}
}

func TestNotifyCommandUnknownHeaderIsUndef(t *testing.T) {
	var core Core
	copy(core[0:4], "SHUU")
	got := DecodeNotifyCommand(core)
	assert.Equal(t, NotifyCommand{Kind: NotifyUndef}, got)
}

func TestWatchCommandRoundTrip(t *testing.T) {
	cases := []WatchCommand{
		{Kind: WatchChangeTarget, Name: strptr("svc"), Resource: "/backup/target"},
		{Kind: WatchTestTarget, Name: nil, Resource: "/tmp"},
		{Kind: WatchPrintTarget, Name: strptr("svc")},
		{Kind: WatchTryRepair, Name: strptr("svc"), Resource: "res"},
	}
	for _, c := range cases {
		core := EncodeWatchCommand(c)
		got := DecodeWatchCommand(core)
		assert.Equal(t, c, got)
	}
}

func TestBackupCommandRoundTrip(t *testing.T) {
	cases := []BackupCommand{
		{Kind: BackupFire, Name: strptr("svc")},
		{Kind: BackupChangeTarget, Name: strptr("svc"), Path: "/some/path"},
		{Kind: BackupChangeSource, Name: nil, Path: "/src"},
		{Kind: BackupHasHostCapability, Name: strptr("svc")},
		{Kind: BackupChangeHost, Name: strptr("Dummy"), IP: [4]byte{192, 168, 1, 1}},
		{Kind: BackupChangeHostCredentials, Name: strptr("svc"), Creds: HostCredentials{User: "alice", Pass: "s3cr3t"}},
		{Kind: BackupPingHost, Name: strptr("svc")},
		{Kind: BackupPrint, Name: strptr("svc")},
	}
	for _, c := range cases {
		core := EncodeBackupCommand(c)
		got := DecodeBackupCommand(core)
		assert.Equal(t, c, got)
	}
}

// TestBackupChangeHostLayout is scenario S2 from the testable-properties
// section: verify the exact byte layout, not just the round trip.
func TestBackupChangeHostLayout(t *testing.T) {
	core := EncodeBackupCommand(BackupCommand{
		Kind: BackupChangeHost,
		Name: strptr("Dummy"),
		IP:   [4]byte{192, 168, 1, 1},
	})

	assert.Equal(t, "CHHO", string(core[0:4]))
	assert.Equal(t, "Dummy", string(core[4:9]))
	assert.Equal(t, []byte{192, 168, 1, 1}, core[104:108])

	got := DecodeBackupCommand(core)
	assert.Equal(t, BackupCommand{Kind: BackupChangeHost, Name: strptr("Dummy"), IP: [4]byte{192, 168, 1, 1}}, got)
}

func TestLoggerCommandRoundTrip(t *testing.T) {
	cases := []LoggerCommand{
		{Kind: LoggerWrite, Text: "hello world"},
	}
	for _, c := range cases {
		core := EncodeLoggerCommand(c)
		got := DecodeLoggerCommand(core)
		assert.Equal(t, c, got)
	}
}

func TestLoggerCommandUnknownHeaderIsUndef(t *testing.T) {
	var core Core
	copy(core[0:4], "XXXX")
	assert.Equal(t, LoggerCommand{Kind: LoggerUndef}, DecodeLoggerCommand(core))
}

func TestTruncationNeverPanics(t *testing.T) {
	longName := strings.Repeat("a", NameSize*4)
	longPath := strings.Repeat("b", CoreSize*2)

	assert.NotPanics(t, func() {
		core := EncodeBackupCommand(BackupCommand{Kind: BackupChangeTarget, Name: strptr(longName), Path: longPath})
		got := DecodeBackupCommand(core)
		assert.LessOrEqual(t, len(got.Path), resourceWidth)
		if got.Name != nil {
			assert.LessOrEqual(t, len(*got.Name), NameSize)
		}
	})
}

func TestEmptyNameDecodesToNone(t *testing.T) {
	core := EncodeBackupCommand(BackupCommand{Kind: BackupFire, Name: nil})
	got := DecodeBackupCommand(core)
	assert.Nil(t, got.Name)
}

// TestNotificationSplit is scenario S3.
func TestNotificationSplit(t *testing.T) {
	p := NewNotifyGood("foo", "bar", "baz")
	n := DecodeNotification(p)
	assert.Equal(t, Notification{Message: "foo", Provider: "bar", Stage: "baz", Good: true}, n)

	alive := NewAlive("x")
	assert.Equal(t, Notification{}, DecodeNotification(alive))
}

func TestAliveRoundTrip(t *testing.T) {
	p := NewAlive("backup-worker")
	name, err := ParseAlive(p)
	require.NoError(t, err)
	assert.Equal(t, "backup-worker", name)
}

func TestParseAliveRejectsOtherTags(t *testing.T) {
	_, err := ParseAlive(NewTerminate())
	assert.Error(t, err)
}

func TestStopRoundTrip(t *testing.T) {
	p := NewStop("dummy")
	assert.Equal(t, "STOP", string(p.Core[0:4]))

	name, ok := ParseStop(p)
	require.True(t, ok)
	assert.Equal(t, "dummy", name)
}

func TestParseStopRejectsOtherTags(t *testing.T) {
	_, ok := ParseStop(NewTerminate())
	assert.False(t, ok)
}

func TestTerminateAndWatchHoldHaveNoPayload(t *testing.T) {
	assert.Equal(t, Core{}, NewTerminate().Core)
	assert.Equal(t, Core{}, NewWatchHold().Core)
}
