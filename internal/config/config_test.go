package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemawalk/schemawalk/internal/catalog"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schemawalk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, "schemawalk", cfg.Database.ApplicationName)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Serve.Listen)
	assert.False(t, cfg.Include.Indexes)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
database:
  driver: mysql
  dsn: "user:pass@tcp(localhost:3306)/"
  max_conns: 8
  statement_timeout_ms: 1500
include:
  views: true
  indexes: true
  schema: "^tenant_"
  schema_regex: true
output:
  format: json
  pretty: true
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, int32(8), cfg.Database.MaxConns)
	assert.Equal(t, 1500, cfg.Database.StatementTimeoutMS)
	assert.True(t, cfg.Include.Views)
	assert.True(t, cfg.Include.Indexes)
	assert.False(t, cfg.Include.Triggers)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.Pretty)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, ":8080", cfg.Serve.Listen)
	assert.Equal(t, "schemawalk", cfg.Database.ApplicationName)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, "database: [not: a: mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestDatabaseConfigFor(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "mysql"
	cfg.Database.DSN = "dsn"
	cfg.Database.ConnectTimeoutSec = 3
	cfg.Database.StatementTimeoutMS = 250

	dc := cfg.DatabaseConfigFor()
	assert.Equal(t, catalog.DriverMySQL, dc.Driver)
	assert.Equal(t, "dsn", dc.DSN)
	assert.Equal(t, 3*time.Second, dc.ConnectTimeout)
	assert.Equal(t, 250*time.Millisecond, dc.StatementTimeout)
	assert.Equal(t, "schemawalk", dc.ApplicationName)
}

func TestPolicyFor(t *testing.T) {
	cfg := Default()
	cfg.Include.Views = true
	cfg.Include.Functions = true
	cfg.Include.ForeignKeys = true
	cfg.Include.Schema = "app"

	p := cfg.PolicyFor()
	assert.True(t, p.IncludeViews)
	assert.True(t, p.IncludeRoutines)
	assert.True(t, p.IncludeForeignKeys)
	assert.False(t, p.IncludeIndexes)
	assert.Equal(t, "app", p.Schema)
	assert.False(t, p.SchemaRegex)
	assert.Equal(t, 1, p.OptionalGroups())
}
