package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Supported connection drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config represents the top-level YAML configuration.
type Config struct {
	Connection    Connection `yaml:"connection"`
	Catalog       Catalog    `yaml:"catalog"`
	ExcludeTables []string   `yaml:"exclude_tables"`
	Output        string     `yaml:"output"`
}

// Connection holds database connection parameters.
type Connection struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	// Schema is the namespace whose tables are catalogued. It defaults to
	// the database name for mysql, "public" for postgres and "main" for
	// sqlite.
	Schema   string `yaml:"schema"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// Path is the database file for the sqlite driver.
	Path string `yaml:"path"`
	// Timeout bounds dialing and each read, in seconds. Zero leaves the
	// driver default in place.
	Timeout int `yaml:"timeout"`
}

// Catalog tunes catalog loading.
type Catalog struct {
	// Concurrency caps the number of describe queries in flight.
	Concurrency int `yaml:"concurrency"`
	// Marker is the column-name prefix that flags a primary-key column as a
	// reference to a parent table.
	Marker string `yaml:"marker"`
}

// DSN builds a PostgreSQL connection string.
func (c *Connection) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
	)
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes, applies env fallbacks and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv fills in empty Connection fields from environment variables.
// YAML values take precedence; env vars are used only as fallback.
func (c *Config) applyEnv() {
	conn := &c.Connection
	if conn.Driver == "" {
		conn.Driver = envOr("DB_DRIVER")
	}

	// Postgres keeps the libpq variable names, MySQL the docker image ones.
	var host, port, db, user, pass string
	switch conn.Driver {
	case DriverPostgres:
		host, port, db, user, pass = "PGHOST", "PGPORT", "PGDATABASE", "PGUSER", "PGPASSWORD"
	default:
		host, port, db, user, pass = "MYSQL_HOST", "MYSQL_PORT", "MYSQL_DATABASE", "MYSQL_USER", "MYSQL_PASSWORD"
	}

	if conn.Host == "" {
		conn.Host = envOr(host, "DB_HOST")
	}
	if conn.Port == 0 {
		if s := envOr(port, "DB_PORT"); s != "" {
			if p, err := strconv.Atoi(s); err == nil {
				conn.Port = p
			}
		}
	}
	if conn.Database == "" {
		conn.Database = envOr(db, "DB_NAME")
	}
	if conn.User == "" {
		conn.User = envOr(user, "DB_USER")
	}
	if conn.Password == "" {
		conn.Password = envOr(pass, "DB_PASSWORD")
	}
	if conn.Driver == DriverPostgres && conn.SSLMode == "" {
		conn.SSLMode = envOr("PGSSLMODE")
	}
}

// envOr returns the first non-empty value from the given env var names.
func envOr(names ...string) string {
	for _, n := range names {
		if n == "" {
			continue
		}
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// validate checks connection fields and fills defaults.
func (c *Config) validate() error {
	conn := &c.Connection
	if conn.Driver == "" {
		conn.Driver = DriverMySQL
	}

	switch conn.Driver {
	case DriverMySQL, DriverPostgres:
		if conn.Host == "" {
			return fmt.Errorf("connection.host is required")
		}
		if conn.Database == "" {
			return fmt.Errorf("connection.database is required")
		}
		if conn.User == "" {
			return fmt.Errorf("connection.user is required")
		}
	case DriverSQLite:
		if conn.Path == "" {
			return fmt.Errorf("connection.path is required for sqlite")
		}
		if conn.Database == "" {
			conn.Database = "main"
		}
	default:
		return fmt.Errorf("unknown connection.driver %q (supported: mysql, postgres, sqlite)", conn.Driver)
	}

	if conn.Port == 0 {
		switch conn.Driver {
		case DriverMySQL:
			conn.Port = 3306
		case DriverPostgres:
			conn.Port = 5432
		}
	}
	if conn.Schema == "" {
		switch conn.Driver {
		case DriverMySQL:
			conn.Schema = conn.Database
		case DriverPostgres:
			conn.Schema = "public"
		case DriverSQLite:
			conn.Schema = "main"
		}
	}
	if conn.Driver == DriverPostgres && conn.SSLMode == "" {
		conn.SSLMode = "disable"
	}
	if conn.Timeout < 0 {
		return fmt.Errorf("connection.timeout must not be negative")
	}

	if c.Catalog.Concurrency < 0 {
		return fmt.Errorf("catalog.concurrency must not be negative")
	}
	if c.Catalog.Concurrency == 0 {
		c.Catalog.Concurrency = 8
	}
	if c.Catalog.Marker == "" {
		c.Catalog.Marker = "refer"
	}
	return nil
}

// ExcludeSet returns a set of excluded table names for O(1) lookup.
func (c *Config) ExcludeSet() map[string]bool {
	set := make(map[string]bool, len(c.ExcludeTables))
	for _, t := range c.ExcludeTables {
		set[t] = true
	}
	return set
}
