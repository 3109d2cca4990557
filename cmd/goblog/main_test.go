package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "goblog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	config := writeConfig(t, `
debug: true
db:
  driver: sqlite3
  database: `+filepath.Join(dir, "blog.db")+`
log:
  format: json
  output:
    type: file
    path: `+filepath.Join(dir, "logs", "goblog.log")+`
orm:
  transactional: true
`)

	var out bytes.Buffer
	err := run(context.Background(), flags{config: config, init: true, stats: true}, &out, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":0,"blogs":0,"comments":0}`, out.String())

	data, err := os.ReadFile(filepath.Join(dir, "logs", "goblog.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tables created"`)

	out.Reset()
	err = run(context.Background(), flags{config: config, stats: true}, &out, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":0,"blogs":0,"comments":0}`, out.String())
}

func TestRunErrors(t *testing.T) {
	err := run(context.Background(), flags{config: filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{}, prometheus.NewRegistry())
	assert.Error(t, err)

	config := writeConfig(t, "db:\n  driver: oracle\n")
	err = run(context.Background(), flags{config: config}, &bytes.Buffer{}, prometheus.NewRegistry())
	assert.Error(t, err)
}
