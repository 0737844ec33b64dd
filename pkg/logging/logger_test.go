// Copyright (C) 2025 MetTakip Yazılım (yazilim@mettakip.com)
// Tests for the logging package

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
}

func TestNew_FileLoggingWritesJSON(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Level: LevelInfo, LogDir: dir, Service: "gateway"})

	logger.Info("answered ask", "source", "demo", "is_demo", true)
	require.NoError(t, logger.Close())

	name := "gateway_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "answered ask", record["msg"])
	assert.Equal(t, "demo", record["source"])
	assert.Equal(t, true, record["is_demo"])
}

func TestNew_LevelFiltersFileOutput(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Level: LevelWarn, LogDir: dir, Service: "cli"})

	logger.Info("suppressed")
	logger.Warn("kept")
	require.NoError(t, logger.Close())

	name := "cli_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "suppressed")
	assert.Contains(t, string(data), "kept")
}

func TestNew_CreatesMissingLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	logger := New(Config{Level: LevelInfo, LogDir: dir, Service: "gateway"})
	logger.Info("hello")
	require.NoError(t, logger.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWith_SharesFileWithParent(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Level: LevelInfo, LogDir: dir, Service: "gateway"})
	child := logger.With("request_id", "req-1")

	child.Info("scoped")
	require.NoError(t, logger.Close())

	name := "gateway_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), "req-1")

	// Child Close is a no-op; the parent owns the file.
	require.NoError(t, child.Close())
}

func TestClose_ConsoleOnlyIsNoOp(t *testing.T) {
	logger := Default()
	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}
