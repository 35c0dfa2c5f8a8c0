package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full docproc service configuration.
type Config struct {
	Listen       string   `yaml:"listen"`
	DBPath       string   `yaml:"db_path"`
	MaxFileMB    int      `yaml:"max_file_mb"`
	LogLevel     string   `yaml:"log_level"`
	AuthPassword string   `yaml:"auth_password"` // empty = no auth gate
	Converters   []string `yaml:"converters"`    // legacy .doc converter commands
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:    ":5000",
		DBPath:    "db/journal.db",
		MaxFileMB: 100,
		LogLevel:  "info",
	}
}

// LoadConfig reads and parses a YAML config file, merged over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
