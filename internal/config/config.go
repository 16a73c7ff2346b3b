// Package config loads console settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"tweakdeck/internal/logging"
	"tweakdeck/internal/module"
)

// Config is the console configuration. Flags override these after Load.
type Config struct {
	URL            string        `env:"TWEAKDECK_URL" envDefault:"http://127.0.0.1:8080"`
	Modules        []string      `env:"TWEAKDECK_MODULES" envSeparator:","`
	InitialModule  string        `env:"TWEAKDECK_INITIAL_MODULE"`
	RequestTimeout time.Duration `env:"TWEAKDECK_REQUEST_TIMEOUT"`
	LogFile        string        `env:"TWEAKDECK_LOG_FILE" envDefault:"tweakdeck.log"`
	LogLevel       string        `env:"TWEAKDECK_LOG_LEVEL" envDefault:"info"`

	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"tweakdeck"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads Config from the environment and fills the default catalog when
// none is configured.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.Modules) == 0 {
		cfg.Modules = append([]string(nil), module.DefaultCatalog...)
	}
	return cfg, nil
}

// Catalog returns the configured module catalog.
func (c Config) Catalog() module.Catalog {
	return module.NewCatalog(c.Modules)
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.URL); err != nil {
		errs = append(errs, fmt.Errorf("engine url: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		errs = append(errs, fmt.Errorf("engine url %q: want http(s)://host[:port]", c.URL))
	}
	if c.Catalog().Len() == 0 {
		errs = append(errs, errors.New("module catalog is empty"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout %s is negative", c.RequestTimeout))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if m := strings.TrimSpace(c.InitialModule); m != "" && !c.Catalog().Contains(m) {
		errs = append(errs, fmt.Errorf("initial module %q is not in the catalog", m))
	}
	return errors.Join(errs...)
}
