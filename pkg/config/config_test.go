package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv(envAPIKey, "")
	t.Setenv(envCredentials, "")
	path := writeConfig(t, t.TempDir(), `
source_language: ru
target_language: en
save_context: false
ocr:
  engine: documentai
  documentai:
    project_id: p
    location: eu
    processor_id: x
translator:
  provider: openai
  timeout: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ru", cfg.SourceLanguage)
	assert.False(t, cfg.SaveContext)
	assert.Equal(t, "fonts/arial.ttf", cfg.Font)
	assert.Equal(t, "documentai", cfg.OCR.Engine)
	assert.Equal(t, "eu", cfg.OCR.DocumentAI.Location)
	assert.Equal(t, "openai", cfg.Translator.Provider)
	assert.Equal(t, 30*time.Second, cfg.Translator.Timeout)
	assert.Equal(t, 3, cfg.Translator.Retries)
	assert.Equal(t, "ru", cfg.Translator.Source)
	assert.Equal(t, "en", cfg.Translator.Target)
	assert.True(t, cfg.Output.TextLayer)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_DotEnv(t *testing.T) {
	unsetenv(t, envAPIKey, envCredentials)
	dir := t.TempDir()
	path := writeConfig(t, dir, "source_language: ru\ntarget_language: en\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("TRANSLATOR_API_KEY=from-dotenv\nGOOGLE_APPLICATION_CREDENTIALS=/tmp/creds.json\n"), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Translator.APIKey)
	assert.Equal(t, "/tmp/creds.json", cfg.OCR.DocumentAI.CredentialsFile)
}

func TestLoad_FileKeyWins(t *testing.T) {
	t.Setenv(envAPIKey, "from-env")
	path := writeConfig(t, t.TempDir(), "translator:\n  api_key: from-file\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Translator.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "failed to read config")

	path := writeConfig(t, t.TempDir(), "source_language: [unclosed")
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.InitialContext = "two\nlines"
	cfg.LogLevel = "chatty"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "source_language is required")
	assert.Contains(t, err.Error(), "target_language is required")
	assert.Contains(t, err.Error(), "initial_context must be a single line")
	assert.Contains(t, err.Error(), "not a valid logrus Level")
}

func TestPageRange_Resolve(t *testing.T) {
	r, err := PageRange{}.Resolve(5)
	require.NoError(t, err)
	assert.Equal(t, PageRange{First: 1, Last: 5}, r)
	assert.True(t, r.Entire(5))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, r.Indices())

	r, err = PageRange{First: 2, Last: 3}.Resolve(5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, r.Indices())
	assert.False(t, r.Entire(5))

	_, err = PageRange{First: 6}.Resolve(5)
	assert.ErrorContains(t, err, "incorrect value for first page")

	_, err = PageRange{Last: -1}.Resolve(5)
	assert.ErrorContains(t, err, "incorrect value for last page")

	_, err = PageRange{First: 4, Last: 2}.Resolve(5)
	assert.ErrorContains(t, err, "first page must not be more than last page")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("docs", "book.en.pdf"),
		OutputPath(filepath.Join("docs", "book.pdf"), "en", PageRange{First: 1, Last: 10}, 10))
	assert.Equal(t, filepath.Join("docs", "book.2-4.en.pdf"),
		OutputPath(filepath.Join("docs", "book.pdf"), "en", PageRange{First: 2, Last: 4}, 10))
	assert.Equal(t, filepath.Join("scans", "scans.de.pdf"),
		OutputPath("scans/scans", "de", PageRange{First: 1, Last: 1}, 1))
}
