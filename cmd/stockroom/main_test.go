package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/stockroom/internal/config"
)

func TestRunUnknownCommand(t *testing.T) {
	assert.Equal(t, 1, run([]string{"frobnicate"}))
}

func TestTokenRequiresSubjectAndSecret(t *testing.T) {
	env := filepath.Join(t.TempDir(), "missing.env")

	assert.Equal(t, 1, run([]string{"token", "-env", env, "-role", "editor"}))

	t.Setenv("STOCKROOM_JWT_SECRET", "")
	assert.Equal(t, 1, run([]string{"token", "-env", env, "-subject", "alice"}))

	t.Setenv("STOCKROOM_JWT_SECRET", "s3cret")
	assert.Equal(t, 1, run([]string{"token", "-env", env, "-subject", "alice", "-role", "owner"}))
	assert.Equal(t, 0, run([]string{"token", "-env", env, "-subject", "alice", "-role", "editor"}))
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOCKROOM_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("STOCKROOM_LOG_FILE", filepath.Join(dir, "stockroom.log"))
	env := filepath.Join(dir, "missing.env")

	assert.Equal(t, 1, run([]string{"migrate", "-env", env, "sideways"}))
	require.Equal(t, 0, run([]string{"migrate", "-env", env, "up"}))
	assert.Equal(t, 0, run([]string{"migrate", "-env", env, "version"}))

	_, err := os.Stat(filepath.Join(dir, "data", "inventory.db"))
	assert.NoError(t, err)
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logg, cleanup, err := setupLogger(&config.Config{LogLevel: "info", LogFormat: "json", LogFile: path})
	require.NoError(t, err)

	logg.Info(t.Context(), "hello.file")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello.file"))
}
