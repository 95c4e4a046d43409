/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/dbnread/pkg/logging"
	"github.com/ssargent/dbnread/pkg/reader"
	"github.com/ssargent/dbnread/pkg/source"
)

// Config represents the dbnread configuration
type Config struct {
	Source  Source  `yaml:"source"`
	Reader  Reader  `yaml:"reader"`
	Logging Logging `yaml:"logging"`
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
}

// Source controls how input files are brought into memory
type Source struct {
	Mode        string `yaml:"mode"`
	Parallelism int    `yaml:"parallelism"`
}

// Reader holds defaults for the parse calls
type Reader struct {
	BatchSize   int  `yaml:"batch_size"`
	BufferReuse bool `yaml:"buffer_reuse"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Server configures the inspection server
type Server struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// Store configures the record store used by export
type Store struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: Source{
			Mode:        source.ModeMmap.String(),
			Parallelism: 4,
		},
		Reader: Reader{
			BatchSize: reader.DefaultBatchSize,
		},
		Logging: Logging{
			Level: "info",
		},
		Server: Server{
			Bind: "127.0.0.1",
			Port: 9200,
		},
		Store: Store{
			Dir: "./data",
		},
	}
}

// LoadConfig loads configuration from the specified path. Keys missing from
// the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := source.ParseMode(c.Source.Mode); err != nil {
		result = multierror.Append(result, fmt.Errorf("source.mode: %w", err))
	}
	if c.Source.Parallelism < 1 {
		result = multierror.Append(result, fmt.Errorf("source.parallelism must be at least 1, got %d", c.Source.Parallelism))
	}
	if c.Reader.BatchSize < 1 {
		result = multierror.Append(result, fmt.Errorf("reader.batch_size must be at least 1, got %d", c.Reader.BatchSize))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("logging.level: %w", err))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Store.Dir == "" {
		result = multierror.Append(result, errors.New("store.dir is required"))
	}

	return result.ErrorOrNil()
}

// SourceOptions converts the source section into options for source.Open.
func (c *Config) SourceOptions() (source.Options, error) {
	mode, err := source.ParseMode(c.Source.Mode)
	if err != nil {
		return source.Options{}, err
	}
	return source.Options{Mode: mode, Parallelism: c.Source.Parallelism}, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./dbnread.yaml"
	}

	return filepath.Join(homeDir, ".config", "dbnread", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
