// Package config handles the configuration directory, the optional yaml
// config file and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFile is the optional yaml config filename inside Dir.
	ConfigFile = "config.yaml"

	// LogFile is where the interactive UI writes logs in debug mode.
	LogFile = "tasklist.log"

	// EnvURL overrides the backend base URL.
	EnvURL = "TASKLIST_URL"

	// DefaultBaseURL is used when nothing else is configured.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultMessageDelay is how long status banners stay visible.
	DefaultMessageDelay = 3000 * time.Millisecond

	// LoggerTypeDefault is the text logger.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the json logger.
	LoggerTypeJSON = "json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the REST backend root, e.g. http://localhost:8080.
	BaseURL string

	// Timeout bounds every backend request. Zero means no timeout.
	Timeout time.Duration

	// MessageDelay is how long a status banner stays visible.
	MessageDelay time.Duration

	// LoggerType is default or json.
	LoggerType string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig is the yaml shape of ConfigFile.
type fileConfig struct {
	BaseURL      string `yaml:"base_url"`
	Timeout      string `yaml:"timeout"`
	MessageDelay string `yaml:"message_delay"`
	Logger       string `yaml:"logger"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
// Values come from defaults, then ConfigFile, then TASKLIST_URL.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:          dir,
		BaseURL:      DefaultBaseURL,
		MessageDelay: DefaultMessageDelay,
		LoggerType:   LoggerTypeDefault,
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	if u := strings.TrimSpace(os.Getenv(EnvURL)); u != "" {
		cfg.BaseURL = u
	}

	return cfg, nil
}

// loadFile merges ConfigFile into c when it exists.
func (c *Config) loadFile() error {
	data, err := os.ReadFile(c.Path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s: timeout: %q", ConfigFile, fc.Timeout)
		}
		c.Timeout = d
	}
	if fc.MessageDelay != "" {
		d, err := time.ParseDuration(fc.MessageDelay)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid %s: message_delay: %q", ConfigFile, fc.MessageDelay)
		}
		c.MessageDelay = d
	}
	switch fc.Logger {
	case "":
	case LoggerTypeDefault, LoggerTypeJSON:
		c.LoggerType = fc.Logger
	default:
		return fmt.Errorf("invalid %s: logger: %q", ConfigFile, fc.Logger)
	}

	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to the yaml config file.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path of the UI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
