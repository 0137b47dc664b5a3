// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/explorer"
	"github.com/H0llyW00dzZ/blockcerts-verifier/src/internal/blockcerts/issuer"
)

const (
	// ConfigEnv names the environment variable holding the config file path.
	ConfigEnv = "BLOCKCERTS_VERIFIER_CONFIG"
	// EtherscanTokenEnv overrides the Etherscan API token from the config file.
	EtherscanTokenEnv = "BLOCKCERTS_ETHERSCAN_TOKEN"

	defaultTimeoutSeconds = 10
)

// ErrUnknownParser indicates a configured explorer whose parser name is not built in.
var ErrUnknownParser = errors.New("cli: unknown explorer parser")

// configFormat represents supported configuration file formats.
type configFormat int

const (
	configFormatJSON configFormat = iota
	configFormatYAML
)

// ExplorerEntry is a caller supplied explorer in the config file.
type ExplorerEntry struct {
	Name       string `json:"name" yaml:"name"`
	ServiceURL string `json:"serviceURL" yaml:"serviceURL"`
	// Priority is 0 (before the built-in explorers) or 1 (after).
	Priority int `json:"priority" yaml:"priority"`
	// Parser is one of blockstream, esplora, blockcypher, etherscan or ethereum.
	Parser   string `json:"parser" yaml:"parser"`
	APIToken string `json:"apiToken,omitempty" yaml:"apiToken,omitempty"`
}

// Config is the verifier configuration.
//
// It is loaded from the JSON or YAML file named by --config or the
// BLOCKCERTS_VERIFIER_CONFIG environment variable, with defaults applied
// for missing values. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Timeout is the HTTP timeout in seconds for explorer and issuer requests.
	Timeout   int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`

	EtherscanToken string `json:"etherscanToken,omitempty" yaml:"etherscanToken,omitempty"`
	// EthereumRPC adds a JSON-RPC node after Etherscan for Ethereum chains.
	EthereumRPC string `json:"ethereumRPC,omitempty" yaml:"ethereumRPC,omitempty"`

	Explorers []ExplorerEntry `json:"explorers,omitempty" yaml:"explorers,omitempty"`

	IssuerCache struct {
		// MaxSize bounds cached issuer documents; 0 means unlimited.
		MaxSize int `json:"maxSize" yaml:"maxSize"`
		// TTLSeconds is how long a cached document stays fresh.
		TTLSeconds int `json:"ttlSeconds" yaml:"ttlSeconds"`
	} `json:"issuerCache" yaml:"issuerCache"`
}

// detectConfigFormat picks the parser from the file extension, case-insensitively.
func detectConfigFormat(configPath string) configFormat {
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// LoadConfig loads the configuration from configPath or applies defaults.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//
// Returns:
//   - *Config: Loaded configuration with defaults applied
//   - error: Any error reading or parsing the file
//
// Configuration Priority:
//  1. Default values are set
//  2. BLOCKCERTS_VERIFIER_CONFIG is checked if configPath is empty
//  3. Config file values override defaults
//  4. BLOCKCERTS_ETHERSCAN_TOKEN overrides the file's Etherscan token
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{Timeout: defaultTimeoutSeconds}
	config.IssuerCache.MaxSize = issuer.DefaultCacheConfig.MaxSize
	config.IssuerCache.TTLSeconds = int(issuer.DefaultCacheConfig.TTL / time.Second)

	if configPath == "" {
		configPath = os.Getenv(ConfigEnv)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := unmarshalConfig(data, config, detectConfigFormat(configPath)); err != nil {
			return nil, err
		}

		if config.Timeout <= 0 {
			config.Timeout = defaultTimeoutSeconds
		}
		if config.IssuerCache.TTLSeconds <= 0 {
			config.IssuerCache.TTLSeconds = int(issuer.DefaultCacheConfig.TTL / time.Second)
		}
	}

	if token := os.Getenv(EtherscanTokenEnv); token != "" {
		config.EtherscanToken = token
	}

	return config, nil
}

// HTTPConfig returns the transport settings shared by explorers and the issuer resolver.
func (c *Config) HTTPConfig(version string) *explorer.HTTPConfig {
	httpCfg := explorer.NewHTTPConfig(version)
	httpCfg.Timeout = time.Duration(c.Timeout) * time.Second
	httpCfg.UserAgent = c.UserAgent
	return httpCfg
}

// ExplorerConfig returns the built-in explorer configuration.
func (c *Config) ExplorerConfig(httpCfg *explorer.HTTPConfig) *explorer.Config {
	return &explorer.Config{
		HTTP:           httpCfg,
		EtherscanToken: c.EtherscanToken,
		EthereumRPC:    c.EthereumRPC,
	}
}

// ExplorerAPIs converts the configured explorers, resolving parser names.
func (c *Config) ExplorerAPIs() ([]explorer.ExplorerAPI, error) {
	apis := make([]explorer.ExplorerAPI, 0, len(c.Explorers))
	for _, e := range c.Explorers {
		parse, ok := explorer.ParserByName(e.Parser)
		if !ok {
			return nil, fmt.Errorf("%w: %q for explorer %q", ErrUnknownParser, e.Parser, e.Name)
		}
		apis = append(apis, explorer.ExplorerAPI{
			Name:       e.Name,
			ServiceURL: e.ServiceURL,
			Priority:   e.Priority,
			Parse:      parse,
			APIToken:   e.APIToken,
		})
	}
	return apis, nil
}

// CacheConfig returns the issuer cache settings.
func (c *Config) CacheConfig() *issuer.CacheConfig {
	return &issuer.CacheConfig{
		MaxSize: c.IssuerCache.MaxSize,
		TTL:     time.Duration(c.IssuerCache.TTLSeconds) * time.Second,
	}
}
