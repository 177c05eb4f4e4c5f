package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPublisherURL  = "https://publisher.testnet.walrus.space"
	DefaultAggregatorURL = "https://aggregator.testnet.walrus.space"
	DefaultEpochs        = 3
	DefaultLogLevel      = "warn"

	DefaultLedgerFileName = ".walctl.db"
	DefaultCacheDirName   = ".walctl-cache"

	configFileName = ".walctl.toml"

	configDirEnvKey          = "WALCTL_CONFIG_DIR"
	trustProjectConfigEnvKey = "WALCTL_TRUST_PROJECT_CONFIG"

	publisherURLEnvKey  = "WALCTL_PUBLISHER_URL"
	aggregatorURLEnvKey = "WALCTL_AGGREGATOR_URL"
	ledgerPathEnvKey    = "WALCTL_LEDGER"
	cacheDirEnvKey      = "WALCTL_CACHE_DIR"
)

// Config defines runtime configuration for walctl.
type Config struct {
	PublisherURL             string `toml:"publisher_url"`
	AggregatorURL            string `toml:"aggregator_url"`
	DefaultEpochs            int    `toml:"default_epochs"`
	LedgerPath               string `toml:"ledger_path"`
	CacheDir                 string `toml:"cache_dir"`
	LogLevel                 string `toml:"log_level"`
	TrustedProjectConfigPath string `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		PublisherURL:  DefaultPublisherURL,
		AggregatorURL: DefaultAggregatorURL,
		DefaultEpochs: DefaultEpochs,
		LogLevel:      DefaultLogLevel,
	}
}

var allowedKeys = []string{
	"publisher_url",
	"aggregator_url",
	"default_epochs",
	"ledger_path",
	"cache_dir",
	"log_level",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "publisher_url":
		return c.PublisherURL, nil
	case "aggregator_url":
		return c.AggregatorURL, nil
	case "default_epochs":
		return strconv.Itoa(c.DefaultEpochs), nil
	case "ledger_path":
		return c.LedgerPath, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	data[key] = parsedValue

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv(publisherURLEnvKey)); v != "" {
		cfg.PublisherURL = v
	}
	if v := strings.TrimSpace(os.Getenv(aggregatorURLEnvKey)); v != "" {
		cfg.AggregatorURL = v
	}
	if v := strings.TrimSpace(os.Getenv(ledgerPathEnvKey)); v != "" {
		cfg.LedgerPath = v
	}
	if v := strings.TrimSpace(os.Getenv(cacheDirEnvKey)); v != "" {
		cfg.CacheDir = v
	}

	cfg.normalizeDefaults()

	return &cfg, nil
}

func (c *Config) normalizeDefaults() {
	c.PublisherURL = strings.TrimRight(strings.TrimSpace(c.PublisherURL), "/")
	c.AggregatorURL = strings.TrimRight(strings.TrimSpace(c.AggregatorURL), "/")
	if c.PublisherURL == "" {
		c.PublisherURL = DefaultPublisherURL
	}
	if c.AggregatorURL == "" {
		c.AggregatorURL = DefaultAggregatorURL
	}
	if c.DefaultEpochs < 1 {
		c.DefaultEpochs = DefaultEpochs
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	if c.LedgerPath == "" {
		c.LedgerPath = filepath.Join(home, DefaultLedgerFileName)
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(home, DefaultCacheDirName)
	}
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "default_epochs":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}
