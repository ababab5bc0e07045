package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "budget.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090

[storage]
db_path = "/tmp/test.db"
mirror = false
mirror_dir = "/tmp/mirror"
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/test.db", cfg.Storage.DBPath)
	assert.False(t, cfg.Storage.Mirror)
	assert.Equal(t, "/tmp/mirror", cfg.Storage.MirrorDir)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "budget.db", cfg.Storage.DBPath)
	assert.True(t, cfg.Storage.Mirror)
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, `this is not toml = = =`))

	assert.Error(t, err)
}

func TestLoad_RejectsNonPositivePort(t *testing.T) {
	_, err := Load(writeConfig(t, `
[server]
port = -1
`))

	assert.ErrorContains(t, err, "server.port")
}

func TestLoad_RejectsEmptyDBPath(t *testing.T) {
	_, err := Load(writeConfig(t, `
[storage]
db_path = ""
`))

	assert.ErrorContains(t, err, "db_path")
}
