package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DirName is the per-workspace directory holding config, state and logs.
const DirName = ".nexus"

// Config holds all nexus configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Durable state
	Storage StorageConfig `yaml:"storage"`

	// Reply generation backend
	Generation GenerationConfig `yaml:"generation"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // file, sqlite, memory
	Path   string `yaml:"path"`   // directory for file, database file for sqlite
}

// GenerationConfig configures the generation backend.
type GenerationConfig struct {
	Backend string `yaml:"backend"` // echo, gemini
	Model   string `yaml:"model"`
	Delay   string `yaml:"delay"`   // echo reply delay
	Timeout string `yaml:"timeout"` // per-reply bound, empty disables
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	AltScreen       bool   `yaml:"alt_screen"`
	RenderMarkdown  bool   `yaml:"render_markdown"`
	DefaultCategory string `yaml:"default_category"`
	RecentProjects  int    `yaml:"recent_projects"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "nexus",
		Version: "1.0.0",

		Storage: StorageConfig{
			Driver: "file",
			Path:   filepath.Join(DirName, "state"),
		},

		Generation: GenerationConfig{
			Backend: "echo",
			Model:   "gemini-2.5-flash",
			Delay:   "2s",
			Timeout: "60s",
		},

		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			File:       filepath.Join(DirName, "logs", "nexus.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},

		UI: UIConfig{
			AltScreen:       true,
			RenderMarkdown:  true,
			DefaultCategory: "text",
			RecentProjects:  3,
		},
	}
}

// DefaultPath returns the config file location for a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, DirName, "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadWorkspace reads <workspace>/.env into the environment (existing
// variables win), then loads the workspace config file. Relative paths in the
// result are resolved against workspace.
func LoadWorkspace(workspace string) (*Config, error) {
	envPath := filepath.Join(workspace, ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	cfg, err := Load(DefaultPath(workspace))
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(workspace)
	return cfg, nil
}

func (c *Config) resolvePaths(workspace string) {
	if c.Storage.Path != "" && !filepath.IsAbs(c.Storage.Path) {
		c.Storage.Path = filepath.Join(workspace, c.Storage.Path)
	}
	if c.Logging.File != "" && !filepath.IsAbs(c.Logging.File) {
		c.Logging.File = filepath.Join(workspace, c.Logging.File)
	}
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NEXUS_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("NEXUS_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("NEXUS_BACKEND"); v != "" {
		c.Generation.Backend = v
	}
	if v := os.Getenv("NEXUS_MODEL"); v != "" {
		c.Generation.Model = v
	}
	if v := os.Getenv("NEXUS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetStoragePath returns the backend location. A sqlite driver pointed at a
// directory stores nexus.db inside it.
func (c *Config) GetStoragePath() string {
	if strings.EqualFold(c.Storage.Driver, "sqlite") && filepath.Ext(c.Storage.Path) == "" {
		return filepath.Join(c.Storage.Path, "nexus.db")
	}
	return c.Storage.Path
}

// DefaultReplyDelay is the echo backend delay when none is configured.
const DefaultReplyDelay = 2 * time.Second

// GetReplyDelay returns the echo backend delay as a duration. An unset or
// unreadable value yields DefaultReplyDelay; zero answers immediately.
func (c *Config) GetReplyDelay() time.Duration {
	s := strings.TrimSpace(c.Generation.Delay)
	if s == "" {
		return DefaultReplyDelay
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return DefaultReplyDelay
	}
	return d
}

// GetReplyTimeout returns the per-reply bound. Zero means unbounded.
func (c *Config) GetReplyTimeout() time.Duration {
	if strings.TrimSpace(c.Generation.Timeout) == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Generation.Timeout)
	if err != nil || d < 0 {
		return 60 * time.Second
	}
	return d
}

var (
	ValidDrivers  = []string{"file", "sqlite", "memory"}
	ValidBackends = []string{"echo", "gemini"}
	ValidLevels   = []string{"debug", "info", "warn", "error"}
)

func oneOf(v string, valid []string) bool {
	v = strings.ToLower(v)
	for _, ok := range valid {
		if v == ok {
			return true
		}
	}
	return false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !oneOf(c.Storage.Driver, ValidDrivers) {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, ValidDrivers)
	}
	if !strings.EqualFold(c.Storage.Driver, "memory") && c.Storage.Path == "" {
		return fmt.Errorf("storage path required for driver %s", c.Storage.Driver)
	}
	if !oneOf(c.Generation.Backend, ValidBackends) {
		return fmt.Errorf("invalid generation backend: %s (valid: %v)", c.Generation.Backend, ValidBackends)
	}
	if !oneOf(c.Logging.Level, ValidLevels) {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}
	return nil
}

// FindWorkspaceRoot walks up from the working directory to the nearest
// directory containing .nexus, falling back to the working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, DirName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}
