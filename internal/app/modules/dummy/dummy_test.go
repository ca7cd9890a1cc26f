package dummy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsNameAndConfigPath(t *testing.T) {
	m, err := New("Dummy", "/tmp/dummy.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Dummy", m.Name())
	assert.Equal(t, "/tmp/dummy.yaml", m.ConfigPath())
}

func TestFireAppendsLineToConfiguredFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	m, err := New("Dummy", path)
	require.NoError(t, err)

	fn := m.Fire()
	require.NoError(t, fn(context.Background(), m.MessageStack(), m.RunStatus(), path, "Dummy"))
	require.NoError(t, fn(context.Background(), m.MessageStack(), m.RunStatus(), path, "Dummy"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Dummy wrote\nDummy wrote\n", string(data))
}

func TestFireFallsBackToDefaultFileWhenConfigPathEmpty(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	m, err := New("Dummy", "")
	require.NoError(t, err)

	fn := m.Fire()
	require.NoError(t, fn(context.Background(), m.MessageStack(), m.RunStatus(), "", "Dummy"))

	data, err := os.ReadFile(defaultOutputFile)
	require.NoError(t, err)
	assert.Equal(t, "Dummy wrote\n", string(data))
}
