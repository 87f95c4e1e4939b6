package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/vectordb"
)

func TestParseVector(t *testing.T) {
	v, err := parseVector("1, 2.5,-3")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2.5, -3}, v)

	_, err = parseVector("")
	assert.Error(t, err)
	_, err = parseVector("1,x")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vectordb.yaml")
	data := `
max_connections: 2
wal_mode: false
cache_size: 512
synchronous: full
busy_timeout: 250ms
scan_workers: 3
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, level, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxConnections)
	assert.False(t, cfg.WALMode)
	assert.Equal(t, 512, cfg.CacheSize)
	assert.Equal(t, vectordb.SyncFull, cfg.Synchronous)
	assert.Equal(t, 250*time.Millisecond, cfg.BusyTimeout)
	assert.Equal(t, 3, cfg.ScanWorkers)
	assert.Equal(t, vectordb.LevelDebug, level)
}

func TestLoadConfigDefaultsAndErrors(t *testing.T) {
	cfg, _, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, vectordb.DefaultConfig().MaxConnections, cfg.MaxConnections)

	dir := t.TempDir()
	for name, body := range map[string]string{
		"unknown.yaml": "bogus_key: 1\n",
		"sync.yaml":    "synchronous: sometimes\n",
		"conns.yaml":   "max_connections: 0\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		_, _, err := loadConfig(path)
		assert.Error(t, err, name)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	jsonOutput = false
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	out, err := run(t, "--db", db, "insert", "doc1", "--vector", "1,2,3", "--metadata", `{"title":"Test"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "doc1")

	out, err = run(t, "--db", db, "get", "doc1")
	require.NoError(t, err)
	assert.Contains(t, out, "[1, 2, 3]")
	assert.Contains(t, out, `{"title":"Test"}`)

	out, err = run(t, "--db", db, "search", "--vector", "1.1,2.1,3.1", "--top-k", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1. ID: doc1")

	out, err = run(t, "--db", db, "count")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))

	_, err = run(t, "--db", db, "clear")
	assert.Error(t, err)

	_, err = run(t, "--db", db, "delete", "doc1")
	require.NoError(t, err)

	out, err = run(t, "--db", db, "count")
	require.NoError(t, err)
	assert.Equal(t, "0", strings.TrimSpace(out))

	_, err = run(t, "--db", db, "get", "doc1")
	assert.Error(t, err)
}
