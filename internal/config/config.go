// Package config loads storefront settings from defaults, an optional YAML
// file and STOREFRONT_* environment variables, in that order of precedence.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const envPrefix = "storefront"

// DevSessionSecret is the out-of-the-box signing secret. It is refused when
// cookies are marked secure, which is how production runs.
const DevSessionSecret = "dev-secret"

type Config struct {
	Service  string `yaml:"service" envconfig:"SERVICE"`
	Port     string `yaml:"port" envconfig:"PORT"`
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"`

	Catalog  CatalogConfig  `yaml:"catalog" envconfig:"CATALOG"`
	Cart     CartConfig     `yaml:"cart" envconfig:"CART"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Session  SessionConfig  `yaml:"session" envconfig:"SESSION"`
	Metrics  MetricsConfig  `yaml:"metrics" envconfig:"METRICS"`
	Checkout CheckoutConfig `yaml:"checkout" envconfig:"CHECKOUT"`

	// Categories drive the navigation links on the home page.
	Categories []string `yaml:"categories" envconfig:"CATEGORIES"`
}

type CatalogConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"URL"`
	// Zero disables the client timeout; requests then follow the caller's context.
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

type CartConfig struct {
	Key string `yaml:"key" envconfig:"KEY"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" envconfig:"DRIVER"`
	DSN    string `yaml:"dsn" envconfig:"DSN"`
}

type SessionConfig struct {
	Secret string        `yaml:"secret" envconfig:"SECRET"`
	TTL    time.Duration `yaml:"ttl" envconfig:"TTL"`
	Secure bool          `yaml:"secure" envconfig:"SECURE"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" envconfig:"ENABLED"`
	TokenHash string `yaml:"token_hash" envconfig:"TOKEN_HASH"`
}

type CheckoutConfig struct {
	LimitPerMin int `yaml:"limit_per_min" envconfig:"LIMIT_PER_MIN"`

	// TrustedProxies are addresses or CIDRs whose X-Forwarded-For header
	// identifies the client for the checkout rate limit.
	TrustedProxies []string `yaml:"trusted_proxies" envconfig:"TRUSTED_PROXIES"`
}

func Default() Config {
	return Config{
		Service:  "storefront",
		Port:     "8080",
		LogLevel: "info",
		Catalog: CatalogConfig{
			BaseURL: "https://wdd330-backend.onrender.com",
		},
		Cart:     CartConfig{Key: "so-cart"},
		Storage:  StorageConfig{Driver: "memory"},
		Session:  SessionConfig{Secret: DevSessionSecret, TTL: 30 * 24 * time.Hour},
		Checkout: CheckoutConfig{LimitPerMin: 10},
		Categories: []string{
			"tents", "backpacks", "sleeping-bags", "hammocks",
		},
	}
}

// Load applies the YAML file at path (skipped when path is empty) and then
// the environment on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "read environment")
	}

	cfg.Catalog.BaseURL = strings.TrimRight(cfg.Catalog.BaseURL, "/")
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return errors.New("catalog base url is required")
	}
	if c.Cart.Key == "" {
		return errors.New("cart key is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session secret is required")
	}
	if c.Session.Secure && c.Session.Secret == DevSessionSecret {
		return errors.New("session secret must be changed from the default when cookies are secure")
	}
	if c.Catalog.Timeout < 0 {
		return errors.New("catalog timeout must not be negative")
	}
	return nil
}
