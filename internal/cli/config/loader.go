package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"
)

// Package-level tracking of the loaded config and the file it came from.
var (
	currentConfig  *Config
	configFileUsed string
)

// Current returns the most recently loaded configuration, or nil before
// the first Load.
func Current() *Config {
	return currentConfig
}

// FileUsed returns the config file path of the last Load, or "" when no
// file was found.
func FileUsed() string {
	return configFileUsed
}

// Reset clears the loaded config. Used for testing.
func Reset() {
	currentConfig = nil
	configFileUsed = ""
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"host":        "database.host",
	"port":        "database.port",
	"user":        "database.user",
	"password":    "database.password",
	"database":    "database.name",
	"reports-dir": "reports_dir",
	"verbose":     "verbose",
}

// findConfigFile finds the config file to use.
// Priority: explicit path > eventtrack.yaml > eventtrack.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{FileName, FileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration with precedence (highest to lowest):
// flags > environment variables > config file > defaults.
// Environment variables use the EVENTTRACK_ prefix with "__" as the
// section separator, e.g. EVENTTRACK_DATABASE__HOST.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"database.host": DefaultHost,
		"database.port": DefaultPort,
		"database.user": DefaultUser,
		"database.name": DefaultDatabase,
		"reports_dir":   DefaultReportsDir,
		"verbose":       false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider("EVENTTRACK_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "EVENTTRACK_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only when explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// Write saves the configuration as YAML at path with owner-only
// permissions, since the database section carries a password.
func Write(path string, cfg *Config) error {
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
