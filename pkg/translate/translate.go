// Package translate provides the translation services the layout engine
// calls. A provider is selected by name and wrapped with optional decorators:
//
//   - WithTimeout bounds every request
//   - WithRetry retries failed requests with a constant backoff
//   - WithCache serves repeated requests from a file cache
//
// Providers:
//
//   - "libretranslate": a LibreTranslate server
//   - "openai": an OpenAI-compatible chat completion endpoint
//   - "identity": returns its input, for dry runs and tests
package translate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/layout"
)

// Config selects a provider and its decorators.
type Config struct {
	Provider string `yaml:"provider"`
	// Source and Target are language codes such as "ru" and "en".
	Source string `yaml:"source"`
	Target string `yaml:"target"`

	APIURL      string  `yaml:"api_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`

	Timeout       time.Duration `yaml:"timeout"`
	Retries       int           `yaml:"retries"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	CacheDir      string        `yaml:"cache_dir"`
}

// Factory creates a bare provider from its configuration.
type Factory func(cfg Config, log logrus.FieldLogger) (layout.Translator, error)

var providers = map[string]Factory{
	"identity":       newIdentity,
	"libretranslate": newLibreTranslate,
	"openai":         newOpenAI,
}

// Names lists the available providers.
func Names() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the provider named by cfg.Provider and applies the configured
// decorators. The cache is outermost so that hits skip retries and timeouts.
func New(cfg Config, log logrus.FieldLogger) (layout.Translator, error) {
	factory, ok := providers[strings.ToLower(cfg.Provider)]
	if !ok {
		return nil, fmt.Errorf("unknown translation provider %q (available: %v)", cfg.Provider, Names())
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("translator", cfg.Provider)

	t, err := factory(cfg, log)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		t = WithTimeout(t, cfg.Timeout)
	}
	if cfg.Retries > 0 {
		t = WithRetry(t, cfg.Retries, cfg.RetryInterval, log)
	}
	if cfg.CacheDir != "" {
		cache, err := NewCache(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open translation cache: %w", err)
		}
		t = WithCache(t, cache, cacheNamespace(cfg))
	}
	return t, nil
}

// cacheNamespace separates cache entries of different providers and language pairs.
func cacheNamespace(cfg Config) string {
	return strings.Join([]string{cfg.Provider, cfg.Model, cfg.Source, cfg.Target}, "|")
}
