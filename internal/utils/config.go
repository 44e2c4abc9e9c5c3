package utils

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	PersistenceWriteThrough = "writethroughdisk"
	PersistenceNone         = "none"
)

// Config struct holds application configuration
type Config struct {
	InternalPort    int    `yaml:"internal_port"`
	DefaultExpiry   int    `yaml:"default_expiry"` // ms applied to SET without exp, 0 keeps keys forever
	Persistence     string `yaml:"persistence"`
	PersistencePath string `yaml:"persistence_path"`
	LogFile         string `yaml:"log_file"`
	Debug           bool   `yaml:"debug"`
	MaxKeys         int    `yaml:"max_keys"`
	CleanupInterval int    `yaml:"cleanup_interval_ms"`
}

var (
	configInstance *Config   // Singleton configInstance
	configOnce     sync.Once // Ensures thread-safe initialization
	configErr      error
)

// LoadConfig initializes the singleton configInstance
func LoadConfig(filename string) (*Config, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfigFromFile(filename)
	})
	return configInstance, configErr
}

// loadConfigFromFile reads and parses the config file
func loadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return getDefaultConfig(), nil
		}
		return nil, err
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filename, err)
	}

	applyDefaults(config)
	return config, nil
}

// GetConfig returns the singleton config configInstance
func GetConfig() (*Config, error) {
	if configInstance == nil {
		return nil, errors.New("config not initialized, call LoadConfig() first")
	}
	return configInstance, nil
}

// ResetConfig drops the loaded configuration so LoadConfig reads again.
func ResetConfig() {
	configOnce = sync.Once{}
	configInstance = nil
	configErr = nil
}

// getDefaultConfig returns default config values
func getDefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// applyDefaults ensures missing values get defaults
func applyDefaults(config *Config) {
	if config.InternalPort == 0 {
		config.InternalPort = 6379
	}
	if config.DefaultExpiry < 0 {
		config.DefaultExpiry = 0
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = 100
	}
	if config.MaxKeys < 0 {
		config.MaxKeys = 0
	}
	if config.Persistence != PersistenceNone {
		config.Persistence = PersistenceWriteThrough
	}
}
