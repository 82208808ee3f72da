// Package config loads schemawalk's YAML configuration file. Every value
// has a sensible default and every value can be overridden by a CLI flag;
// the file exists so recurring runs against the same database do not need
// a wall of flags.
package config

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/schemawalk/schemawalk/internal/catalog"
)

// Config is the root of the configuration file.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Include  IncludeConfig  `yaml:"include"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Serve    ServeConfig    `yaml:"serve"`
}

// DatabaseConfig holds connection settings. Timeouts are plain integers
// so the YAML stays driver-agnostic (yaml.v3 has no duration syntax).
type DatabaseConfig struct {
	Driver              string `yaml:"driver"` // postgres or mysql
	DSN                 string `yaml:"dsn"`
	MaxConns            int32  `yaml:"max_conns"`
	MinConns            int32  `yaml:"min_conns"`
	ConnectTimeoutSec   int    `yaml:"connect_timeout_seconds"`
	StatementTimeoutMS  int    `yaml:"statement_timeout_ms"`
	ApplicationName     string `yaml:"application_name"`
}

// IncludeConfig mirrors the inclusion policy.
type IncludeConfig struct {
	Views         bool   `yaml:"views"`
	MatViews      bool   `yaml:"matviews"`
	ForeignTables bool   `yaml:"foreign_tables"`
	AllSchemas    bool   `yaml:"all_schemas"`
	Functions     bool   `yaml:"functions"`
	Indexes       bool   `yaml:"indexes"`
	ForeignKeys   bool   `yaml:"foreign_keys"`
	Triggers      bool   `yaml:"triggers"`
	Schema        string `yaml:"schema"`
	SchemaRegex   bool   `yaml:"schema_regex"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format string `yaml:"format"` // text or json
	Pretty bool   `yaml:"pretty"`
	Indent int    `yaml:"indent"`
	Path   string `yaml:"path"` // file path; empty means stdout
}

// LogConfig holds diagnostics settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StorageConfig holds object-storage settings for snapshot upload.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
}

// ServeConfig holds HTTP serve-mode settings.
type ServeConfig struct {
	Listen string `yaml:"listen"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:            string(catalog.DriverPostgres),
			MaxConns:          4,
			MinConns:          1,
			ConnectTimeoutSec: 10,
			ApplicationName:   "schemawalk",
		},
		Output: OutputConfig{
			Format: "text",
			Indent: 2,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Serve: ServeConfig{
			Listen: ":8080",
		},
	}
}

// Load reads a Config from the YAML file at path. A missing file is not
// an error: defaults are returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// DatabaseConfigFor converts the database section into the driver config.
func (c *Config) DatabaseConfigFor() *catalog.Config {
	dc := catalog.DefaultConfig(c.Database.DSN)
	dc.Driver = catalog.Driver(c.Database.Driver)
	if c.Database.MaxConns > 0 {
		dc.MaxConns = c.Database.MaxConns
	}
	if c.Database.MinConns > 0 {
		dc.MinConns = c.Database.MinConns
	}
	if c.Database.ConnectTimeoutSec > 0 {
		dc.ConnectTimeout = time.Duration(c.Database.ConnectTimeoutSec) * time.Second
	}
	if c.Database.StatementTimeoutMS > 0 {
		dc.StatementTimeout = time.Duration(c.Database.StatementTimeoutMS) * time.Millisecond
	}
	if c.Database.ApplicationName != "" {
		dc.ApplicationName = c.Database.ApplicationName
	}
	return dc
}

// PolicyFor converts the include section into an inclusion policy.
func (c *Config) PolicyFor() *catalog.Policy {
	return &catalog.Policy{
		IncludeViews:         c.Include.Views,
		IncludeMatViews:      c.Include.MatViews,
		IncludeForeignTables: c.Include.ForeignTables,
		IncludeAllSchemas:    c.Include.AllSchemas,
		IncludeRoutines:      c.Include.Functions,
		IncludeIndexes:       c.Include.Indexes,
		IncludeForeignKeys:   c.Include.ForeignKeys,
		IncludeTriggers:      c.Include.Triggers,
		Schema:               c.Include.Schema,
		SchemaRegex:          c.Include.SchemaRegex,
	}
}
