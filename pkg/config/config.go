// Package config handles configuration for the wdclient command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file.
const (
	EnvServerURL  = "WDCLIENT_SERVER_URL"
	EnvBrowser    = "WDCLIENT_BROWSER"
	EnvDriverPath = "WDCLIENT_DRIVER_PATH"
	EnvLog        = "WDCLIENT_LOG"
)

// Config represents the workspace configuration (wdclient.yaml).
type Config struct {
	ServerURL    string `yaml:"serverUrl"`    // Remote end; ignored when a driver is spawned
	Browser      string `yaml:"browser"`      // Selects the command family
	VendorPrefix string `yaml:"vendorPrefix"` // Chromium only, "goog" or "ms"

	Driver Driver `yaml:"driver"`

	Capabilities map[string]interface{} `yaml:"capabilities"`

	KeepAlive bool     `yaml:"keepAlive"`
	Timeouts  Timeouts `yaml:"timeouts"`

	LogPath string `yaml:"logPath"` // Client log file
}

// Driver describes a local driver executable to spawn.
type Driver struct {
	Path    string            `yaml:"path"`
	Port    int               `yaml:"port"` // 0 picks a free port
	Args    []string          `yaml:"args"`
	LogPath string            `yaml:"logPath"`
	Env     map[string]string `yaml:"env"`
}

// Timeouts for the HTTP transport.
type Timeouts struct {
	Command time.Duration `yaml:"command"`
	Connect time.Duration `yaml:"connect"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadFromDir looks for wdclient.yaml or wdclient.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range []string{"wdclient.yaml", "wdclient.yml"} {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// LoadEnvFile loads KEY=value pairs from dir/.env into the process
// environment. Variables that are already set win. A missing file is not an
// error.
func LoadEnvFile(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with the WDCLIENT_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(EnvBrowser); v != "" {
		c.Browser = v
	}
	if v := os.Getenv(EnvDriverPath); v != "" {
		c.Driver.Path = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		c.LogPath = v
	}
}

// DriverEnv returns the driver environment as KEY=value entries.
func (d Driver) DriverEnv() []string {
	env := make([]string, 0, len(d.Env))
	for k, v := range d.Env {
		env = append(env, k+"="+v)
	}
	return env
}

// DriverPath resolves a bare executable name against <home>/drivers before
// leaving it to PATH lookup.
func (d Driver) DriverPath() string {
	if d.Path == "" || filepath.Base(d.Path) != d.Path {
		return d.Path
	}
	candidate := filepath.Join(GetDriversDir(), d.Path)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate
	}
	return d.Path
}
