package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
connection:
  host: db.local
  database: main_bj
  user: game
`))
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.Connection.Driver)
	assert.Equal(t, 3306, cfg.Connection.Port)
	assert.Equal(t, "main_bj", cfg.Connection.Schema)
	assert.Equal(t, 8, cfg.Catalog.Concurrency)
	assert.Equal(t, "refer", cfg.Catalog.Marker)
}

func TestParsePostgresDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
connection:
  driver: postgres
  host: localhost
  database: app
  user: app
catalog:
  concurrency: 2
  marker: ref
`))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Connection.Port)
	assert.Equal(t, "disable", cfg.Connection.SSLMode)
	assert.Equal(t, "public", cfg.Connection.Schema)
	assert.Equal(t, 2, cfg.Catalog.Concurrency)
	assert.Equal(t, "ref", cfg.Catalog.Marker)
	assert.Equal(t, "host=localhost port=5432 dbname=app user=app password= sslmode=disable", cfg.Connection.DSN())
}

func TestParseSQLite(t *testing.T) {
	cfg, err := Parse([]byte(`
connection:
  driver: sqlite
  path: ./game.db
`))
	require.NoError(t, err)
	assert.Equal(t, "main", cfg.Connection.Database)
	assert.Equal(t, "main", cfg.Connection.Schema)
	assert.Equal(t, 0, cfg.Connection.Port)
}

func TestParseEnvFallback(t *testing.T) {
	t.Setenv("MYSQL_HOST", "env-host")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MYSQL_DATABASE", "env-db")
	t.Setenv("MYSQL_USER", "env-user")
	t.Setenv("MYSQL_PASSWORD", "secret")

	cfg, err := Parse([]byte(`
connection:
  host: yaml-host
`))
	require.NoError(t, err)

	assert.Equal(t, "yaml-host", cfg.Connection.Host, "yaml wins over env")
	assert.Equal(t, 3307, cfg.Connection.Port)
	assert.Equal(t, "env-db", cfg.Connection.Database)
	assert.Equal(t, "env-user", cfg.Connection.User)
	assert.Equal(t, "secret", cfg.Connection.Password)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing host", "connection: {database: d, user: u}"},
		{"missing database", "connection: {host: h, user: u}"},
		{"missing user", "connection: {host: h, database: d}"},
		{"sqlite without path", "connection: {driver: sqlite}"},
		{"unknown driver", "connection: {driver: oracle, host: h, database: d, user: u}"},
		{"negative concurrency", "connection: {host: h, database: d, user: u}\ncatalog: {concurrency: -1}"},
		{"bad yaml", "connection: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("connection: {driver: sqlite, path: x.db}\nexclude_tables: [log]\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"log": true}, cfg.ExcludeSet())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
