package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"catcher/pkg/logging"
)

const (
	userConfigDir  = ".config/catcher"
	configFileName = "config.yaml"
)

var osUserHomeDir = os.UserHomeDir

// DefaultConfigDir returns ~/.config/catcher.
func DefaultConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadConfig loads configuration from configPath, applies environment
// overrides and validates the result. An empty configPath means
// DefaultConfigDir.
func LoadConfig(configPath string) (CatcherConfig, error) {
	if configPath == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return CatcherConfig{}, err
		}
		configPath = dir
	}

	config := GetDefaultConfig()

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return CatcherConfig{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return CatcherConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	if err := env.Parse(&config); err != nil {
		return CatcherConfig{}, fmt.Errorf("error parsing environment: %w", err)
	}

	if config.Storage.Path == "" {
		config.Storage.Path = configPath
	}

	if err := Validate(config); err != nil {
		return CatcherConfig{}, err
	}
	return config, nil
}
