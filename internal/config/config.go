package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config models zrc.yml.
type Config struct {
	Organisatie struct {
		RSIN string `yaml:"rsin"`
	} `yaml:"organisatie"`
	Zaakidentificatie struct {
		Prefix string `yaml:"prefix"`
	} `yaml:"zaakidentificatie"`
	Registry struct {
		Token           string `yaml:"token"`
		CacheSize       int    `yaml:"cache_size"`
		CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	} `yaml:"registry"`
	Notificaties struct {
		Hooks []Hook `yaml:"hooks"`
	} `yaml:"notificaties"`
}

// Hook is a notification subscriber endpoint.
type Hook struct {
	URL     string   `yaml:"url"`
	Kanalen []string `yaml:"kanalen"`
	Enabled *bool    `yaml:"enabled"`
}

func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

var rsinPattern = regexp.MustCompile(`^[0-9]{9}$`)

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Organisatie.RSIN != "" && !rsinPattern.MatchString(c.Organisatie.RSIN) {
		return fmt.Errorf("config.organisatie.rsin must be 9 digits")
	}
	if c.Registry.CacheSize < 0 {
		return fmt.Errorf("config.registry.cache_size must not be negative")
	}
	if c.Registry.CacheTTLMinutes < 0 {
		return fmt.Errorf("config.registry.cache_ttl_minutes must not be negative")
	}
	for i, h := range c.Notificaties.Hooks {
		if h.URL == "" {
			return fmt.Errorf("config.notificaties.hooks[%d].url is required", i)
		}
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "zrc.yml")
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; run zrc config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.Zaakidentificatie.Prefix = "ZAAK"
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if cfg.Zaakidentificatie.Prefix == "" {
		cfg.Zaakidentificatie.Prefix = "ZAAK"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// GenerateDefault returns default config YAML for zrc config init.
func GenerateDefault(rsin string) string {
	return fmt.Sprintf(defaultTemplate, rsin)
}

const defaultTemplate = `organisatie:
  rsin: "%s"

zaakidentificatie:
  prefix: ZAAK

registry:
  token: ""
  cache_size: 512
  cache_ttl_minutes: 15

notificaties:
  hooks: []
`
