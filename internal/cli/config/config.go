// Package config loads tracker configuration from file, environment, and
// flags, in that order of increasing precedence over built-in defaults.
package config

import (
	"github.com/campuslabs/eventtrack/internal/storage"
)

// Config file names searched in the working directory.
const (
	FileName    = "eventtrack.yaml"
	FileNameAlt = "eventtrack.yml"
)

// Default configuration values.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 3306
	DefaultUser       = "root"
	DefaultDatabase   = "college_events"
	DefaultReportsDir = "reports"
)

// DatabaseConfig holds the four connection settings collected at first-run
// setup, plus the port.
type DatabaseConfig struct {
	Host     string `koanf:"host" yaml:"host"`
	Port     int    `koanf:"port" yaml:"port"`
	User     string `koanf:"user" yaml:"user"`
	Password string `koanf:"password" yaml:"password"`
	Name     string `koanf:"name" yaml:"name"`
}

// Config is the full tracker configuration.
type Config struct {
	Database   DatabaseConfig `koanf:"database" yaml:"database"`
	ReportsDir string         `koanf:"reports_dir" yaml:"reports_dir"`
	Verbose    bool           `koanf:"verbose" yaml:"verbose"`
}

// StorageConfig converts the database section to the gateway's settings.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Database: c.Database.Name,
	}
}
