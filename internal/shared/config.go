package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Profile  ProfileConfig  `toml:"profile"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Import   ImportConfig   `toml:"import"`
	View     ViewConfig     `toml:"view"`
}

// ProfileConfig controls how the shared read-only profile is labelled.
type ProfileConfig struct {
	Name     string `toml:"name"`
	Currency string `toml:"currency"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings for the profile view.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr joins host and port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ImportConfig contains library import settings.
type ImportConfig struct {
	RateLimit       float64 `toml:"rate_limit"`       // Saves per second
	DefaultPlatform string  `toml:"default_platform"` // Used when an imported row has no platform
	CoverWorkers    int     `toml:"cover_workers"`
}

// ViewConfig contains collection view defaults.
type ViewConfig struct {
	PageSize    int    `toml:"page_size"`
	DefaultSort string `toml:"default_sort"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays SHELF_* environment variables onto the config.
//
// Variables from envFile (usually ".env") are loaded first when the file exists; values already
// present in the process environment are not overwritten by the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("%w: failed to load %s: %v", ErrInvalidConfig, envFile, err)
			}
		}
	}

	if v := os.Getenv("SHELF_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("SHELF_PROFILE_NAME"); v != "" {
		c.Profile.Name = v
	}
	if v := os.Getenv("SHELF_SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("SHELF_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: SHELF_SERVER_PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("SHELF_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			return fmt.Errorf("%w: SHELF_PAGE_SIZE=%q", ErrInvalidConfig, v)
		}
		c.View.PageSize = size
	}

	return nil
}
