// Package config handles loading zenith.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvAPIKey names the environment variable that overrides the stored
// service credential.
const EnvAPIKey = "ZENITH_API_KEY"

// Config represents the zenith.toml configuration file.
type Config struct {
	Storage Storage `toml:"storage"`
	LLM     LLM     `toml:"llm"`
}

// Storage contains persistence-related configuration.
type Storage struct {
	// Path overrides the default database location.
	Path string `toml:"path"`
}

// LLM contains completion-service configuration.
type LLM struct {
	BaseURL     string  `toml:"base-url"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max-tokens"`
	Temperature float64 `toml:"temperature"`
}

// Load loads configuration from the working directory and the global
// config file. Project values win over global ones. Returns an empty
// config if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, "zenith.toml"))
	if err != nil {
		return nil, err
	}

	return mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta), nil
}

// APIKey returns the environment credential, or "" when unset.
func APIKey() string {
	return strings.TrimSpace(os.Getenv(EnvAPIKey))
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "zenith", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	merged := Config{}
	merged.Storage.Path = mergeString(projectMeta.IsDefined("storage", "path"), projectCfg.Storage.Path, globalCfg.Storage.Path)
	merged.LLM.BaseURL = mergeString(projectMeta.IsDefined("llm", "base-url"), projectCfg.LLM.BaseURL, globalCfg.LLM.BaseURL)
	merged.LLM.Model = mergeString(projectMeta.IsDefined("llm", "model"), projectCfg.LLM.Model, globalCfg.LLM.Model)

	if projectMeta.IsDefined("llm", "max-tokens") {
		merged.LLM.MaxTokens = projectCfg.LLM.MaxTokens
	} else if globalMeta.IsDefined("llm", "max-tokens") {
		merged.LLM.MaxTokens = globalCfg.LLM.MaxTokens
	}
	if projectMeta.IsDefined("llm", "temperature") {
		merged.LLM.Temperature = projectCfg.LLM.Temperature
	} else if globalMeta.IsDefined("llm", "temperature") {
		merged.LLM.Temperature = globalCfg.LLM.Temperature
	}
	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
