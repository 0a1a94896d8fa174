package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/layout"
)

// LibreTranslate calls the /translate endpoint of a LibreTranslate server.
type LibreTranslate struct {
	URL    string
	APIKey string
	Source string
	Target string
	Client *http.Client
	log    logrus.FieldLogger
}

func newLibreTranslate(cfg Config, log logrus.FieldLogger) (layout.Translator, error) {
	if cfg.APIURL == "" {
		return nil, errors.New("libretranslate requires api_url")
	}
	if cfg.Target == "" {
		return nil, errors.New("libretranslate requires a target language")
	}
	source := cfg.Source
	if source == "" {
		source = "auto"
	}
	return &LibreTranslate{
		URL:    strings.TrimSuffix(cfg.APIURL, "/"),
		APIKey: cfg.APIKey,
		Source: source,
		Target: cfg.Target,
		Client: http.DefaultClient,
		log:    log,
	}, nil
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate sends text as plain text so that line breaks survive.
func (l *LibreTranslate) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: l.Source,
		Target: l.Target,
		Format: "text",
		APIKey: l.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.URL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out libreResponse
	decodeErr := json.Unmarshal(data, &out)
	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		return "", &StatusError{Code: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	l.log.WithField("chars", len(text)).Debug("Translated with LibreTranslate")
	return out.TranslatedText, nil
}

// StatusError is returned for non-200 responses from a translation service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("translation service returned status %d: %s", e.Code, e.Message)
}

// Temporary reports whether the request may succeed when retried.
func (e *StatusError) Temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}
