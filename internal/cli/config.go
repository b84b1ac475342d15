package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user preferences loaded from ~/.config/mindtower/config.toml.
// Flags always win over config values; config values win over built-in
// defaults. A missing or unreadable file yields the zero Config.
type Config struct {
	// Kind is the preferred layout kind ("radial" or "horizontal").
	Kind string `toml:"kind"`

	// Formats is the preferred list of output formats.
	Formats []string `toml:"formats"`

	// Scale is the preferred output resolution multiplier.
	Scale float64 `toml:"scale"`

	// Server holds defaults for the serve command.
	Server ServerConfig `toml:"server"`
}

// ServerConfig holds serve command defaults.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// RedisAddr enables the Redis cache backend when set.
	RedisAddr string `toml:"redis_addr"`

	// MongoURI enables the MongoDB archive backend when set.
	MongoURI string `toml:"mongo_uri"`
}

// LoadConfig reads the config file, returning defaults when it is absent.
func LoadConfig() *Config {
	cfg := &Config{}
	path, err := configPath()
	if err != nil {
		return cfg
	}
	// Absent or malformed config is not an error; flags and defaults cover
	// everything.
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return &Config{}
	}
	return cfg
}

// configPath returns the config file path using XDG standard
// (~/.config/mindtower/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// applyConfig layers config file values under pipeline defaults for values
// the user did not pass as flags.
func (c *CLI) applyConfig(kind *string, formats *[]string, scale *float64) {
	if *kind == "" && c.Config.Kind != "" {
		*kind = c.Config.Kind
	}
	if len(*formats) == 0 && len(c.Config.Formats) > 0 {
		*formats = c.Config.Formats
	}
	if *scale == 0 && c.Config.Scale > 0 {
		*scale = c.Config.Scale
	}
}
