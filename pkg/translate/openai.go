package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/gardar/ocrtranslate/pkg/layout"
)

const systemPrompt = `You are a professional translator. Translate the user's text from %s to %s.
Keep the layout exactly: one output line for every input line, and an empty line wherever the input has one.
Do not merge, split or reorder lines. Reply with the translation only.`

// OpenAI translates with a chat completion model.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	prompt      string
	log         logrus.FieldLogger
}

func newOpenAI(cfg Config, log logrus.FieldLogger) (layout.Translator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai requires an API key")
	}
	if cfg.Target == "" {
		return nil, errors.New("openai requires a target language")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIURL != "" {
		clientCfg.BaseURL = cfg.APIURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		prompt:      fmt.Sprintf(systemPrompt, languageName(cfg.Source), languageName(cfg.Target)),
		log:         log,
	}, nil
}

// Translate sends text as a single user message.
func (o *OpenAI) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &StatusError{Code: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	o.log.WithFields(logrus.Fields{
		"model":  o.model,
		"tokens": resp.Usage.TotalTokens,
	}).Debug("Translated with chat completion")
	return strings.TrimRight(resp.Choices[0].Message.Content, "\n"), nil
}

// languageName turns a code such as "ru" into "Russian". Unknown codes are
// returned as they are; an empty code means the source is auto-detected.
func languageName(code string) string {
	if code == "" || code == "auto" {
		return "the detected language"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}
