package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Config is the top-level scoutdeck configuration.
type Config struct {
	// StorageDir holds the local databases (corpus index, recency store).
	StorageDir string `toml:"storage_dir"`

	// CatalogPath points at the player catalog snapshot dropped by the
	// import tooling. Plain JSON or zstd-compressed (.zst) files work.
	CatalogPath string `toml:"catalog_path"`

	Gateway GatewayConfig `toml:"gateway"`
	Search  SearchConfig  `toml:"search"`
	Recency RecencyConfig `toml:"recency"`
}

// GatewayConfig configures the remote full-text search service.
type GatewayConfig struct {
	// URL is the base URL of the remote search service. Empty means the
	// local corpus index is used instead.
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
	Retries int      `toml:"retries"`
}

// SearchConfig tunes the result pipeline.
type SearchConfig struct {
	// RemoteLimit is the result-count limit passed to the gateway.
	RemoteLimit int `toml:"remote_limit"`
	// CompactCap and ExpandedCap bound the two result views.
	CompactCap  int `toml:"compact_cap"`
	ExpandedCap int `toml:"expanded_cap"`
}

// RecencyConfig tunes the recently-viewed list.
type RecencyConfig struct {
	Limit int `toml:"limit"`
}

// Duration wraps time.Duration for TOML round-tripping.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// GetDefaultConfig returns a configuration with all defaults applied.
func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	return &Config{
		StorageDir:  storageDir,
		CatalogPath: filepath.Join(storageDir, "catalog.json"),
		Gateway: GatewayConfig{
			Timeout: Duration{5 * time.Second},
			Retries: 2,
		},
		Search: SearchConfig{
			RemoteLimit: 25,
			CompactCap:  5,
			ExpandedCap: 8,
		},
		Recency: RecencyConfig{
			Limit: 3,
		},
	}, nil
}

// LoadConfig reads configPath, filling defaults for anything unset.
// A missing file is not an error; the defaults are returned.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	defaults, err := GetDefaultConfig()
	if err != nil {
		return nil, err
	}
	if config.StorageDir == "" {
		config.StorageDir = defaults.StorageDir
	}
	if config.CatalogPath == "" {
		config.CatalogPath = defaults.CatalogPath
	}
	if config.Gateway.Timeout.Duration == 0 {
		config.Gateway.Timeout = defaults.Gateway.Timeout
	}
	if config.Gateway.Retries == 0 {
		config.Gateway.Retries = defaults.Gateway.Retries
	}
	if config.Search.RemoteLimit == 0 {
		config.Search.RemoteLimit = defaults.Search.RemoteLimit
	}
	if config.Search.CompactCap == 0 {
		config.Search.CompactCap = defaults.Search.CompactCap
	}
	if config.Search.ExpandedCap == 0 {
		config.Search.ExpandedCap = defaults.Search.ExpandedCap
	}
	if config.Recency.Limit == 0 {
		config.Recency.Limit = defaults.Recency.Limit
	}

	return &config, nil
}

// SaveConfig writes the configuration to configPath as TOML.
func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the annotated sample configuration, with the
// storage directory placeholder replaced by the real default path.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	template := strings.Replace(configTemplate, "/home/user/.local/share/scoutdeck", storageDir, -1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetDefaultStorageDir returns the default directory for local databases.
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	deckDir := filepath.Join(dataDir, "scoutdeck")
	if err := os.MkdirAll(deckDir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", deckDir, err)
	}

	return deckDir, nil
}

// GetConfigDir returns the configuration directory for scoutdeck.
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	deckConfigDir := filepath.Join(configDir, "scoutdeck")
	if err := os.MkdirAll(deckConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", deckConfigDir, err)
	}

	return deckConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
