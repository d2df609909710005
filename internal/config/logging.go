package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`        // debug, info, warn, error
	Format     string          `yaml:"format"`       // json, console
	File       string          `yaml:"file"`         // rotated log file; empty logs to stderr
	MaxSizeMB  int             `yaml:"max_size_mb"`  // rotate after this size
	MaxBackups int             `yaml:"max_backups"`  // rotated files kept
	MaxAgeDays int             `yaml:"max_age_days"` // days rotated files are kept
	Categories map[string]bool `yaml:"categories"`   // per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
