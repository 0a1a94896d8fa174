// Package config loads the YAML configuration of the page translator.
//
// Configuration:
//
//	source_language: "ru"
//	target_language: "en"
//	font: "fonts/arial.ttf"
//	save_context: true
//	log_level: "info"
//	ocr:
//	  engine: "tesseract"
//	translator:
//	  provider: "libretranslate"
//	  api_url: "http://localhost:5000"
//	  retries: 3
//	output:
//	  text_layer: true
//
// Secrets can be left out of the file. TRANSLATOR_API_KEY sets the translator
// key and GOOGLE_APPLICATION_CREDENTIALS the Document AI credentials; both can
// also be given in a .env file next to the config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrtranslate/pkg/ocr"
	"github.com/gardar/ocrtranslate/pkg/translate"
)

const (
	envAPIKey      = "TRANSLATOR_API_KEY"
	envCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Config is the complete configuration of a translation run.
type Config struct {
	SourceLanguage string `yaml:"source_language"`
	TargetLanguage string `yaml:"target_language"`
	// Font is the TrueType or OpenType font the translation is drawn with.
	Font           string `yaml:"font"`
	SaveContext    bool   `yaml:"save_context"`
	InitialContext string `yaml:"initial_context"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	OCR        ocr.Config       `yaml:"ocr"`
	Translator translate.Config `yaml:"translator"`
	Output     OutputConfig     `yaml:"output"`
}

// OutputConfig controls the assembled PDF.
type OutputConfig struct {
	// TextLayer adds the translated lines as invisible, searchable text.
	TextLayer bool `yaml:"text_layer"`
	// Debug shows the text layer in red with its boxes.
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used for keys missing from the file.
func Default() Config {
	return Config{
		Font:        "fonts/arial.ttf",
		SaveContext: true,
		LogLevel:    "info",
		OCR: ocr.Config{
			Engine: "tesseract",
		},
		Translator: translate.Config{
			Provider:      "libretranslate",
			Timeout:       time.Minute,
			Retries:       3,
			RetryInterval: translate.DefaultRetryInterval,
		},
		Output: OutputConfig{
			TextLayer: true,
		},
	}
}

// Load reads the YAML file at path over the defaults, loads a .env file from
// the same directory when present and applies environment overrides. An empty
// path yields the defaults with overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

// loadDotEnv loads a .env file without overriding variables already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv(envAPIKey); key != "" && c.Translator.APIKey == "" {
		c.Translator.APIKey = key
	}
	if creds := os.Getenv(envCredentials); creds != "" && c.OCR.DocumentAI.CredentialsFile == "" {
		c.OCR.DocumentAI.CredentialsFile = creds
	}
}

// Validate checks the configuration and copies the languages into the
// translator settings.
func (c *Config) Validate() error {
	var problems []string
	if c.SourceLanguage == "" {
		problems = append(problems, "source_language is required")
	}
	if c.TargetLanguage == "" {
		problems = append(problems, "target_language is required")
	}
	if c.Font == "" {
		problems = append(problems, "font is required")
	}
	if strings.Contains(c.InitialContext, "\n") {
		problems = append(problems, "initial_context must be a single line")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Translator.Retries < 0 {
		problems = append(problems, "translator.retries must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}

	if c.Translator.Source == "" {
		c.Translator.Source = c.SourceLanguage
	}
	if c.Translator.Target == "" {
		c.Translator.Target = c.TargetLanguage
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
