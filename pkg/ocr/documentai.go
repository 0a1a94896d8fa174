package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"

	"github.com/gardar/ocrtranslate/pkg/gdocai"
	"github.com/gardar/ocrtranslate/pkg/layout"
)

// DocumentAI recognizes pages with a Google Document AI OCR processor.
// The processor detects the language itself, so the language argument is
// only logged.
type DocumentAI struct {
	client *gdocai.Client
	log    logrus.FieldLogger

	// DumpDir, when set, receives the raw response of every page as JSON.
	DumpDir string
}

func newDocumentAI(ctx context.Context, cfg Config, log logrus.FieldLogger) (layout.Recognizer, error) {
	client, err := gdocai.NewClient(ctx, &cfg.DocumentAI)
	if err != nil {
		return nil, err
	}
	return &DocumentAI{client: client, log: log, DumpDir: cfg.DumpDir}, nil
}

// Recognize sends img to Document AI as PNG and converts the response.
func (d *DocumentAI) Recognize(ctx context.Context, img image.Image, lang string) ([]layout.Word, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	page, raw, err := d.client.RecognizeImage(ctx, data, "image/png")
	if d.DumpDir != "" && raw != nil {
		d.dump(ctx, raw)
	}
	if err != nil {
		return nil, err
	}

	d.log.WithFields(logrus.Fields{
		"lang":     lang,
		"detected": page.Lang,
	}).Debug("Document AI page recognized")
	return WordsFromPage(page), nil
}

func (d *DocumentAI) dump(ctx context.Context, raw proto.Message) {
	page, _ := layout.PageNumber(ctx)
	out, err := gdocai.ToJSON(raw)
	if err != nil {
		d.log.WithError(err).Warn("Failed to encode Document AI response")
		return
	}
	path := filepath.Join(d.DumpDir, fmt.Sprintf("page-%04d.json", page))
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		d.log.WithError(err).Warn("Failed to write Document AI response")
	}
}

// Close releases the Document AI connection.
func (d *DocumentAI) Close() error {
	return d.client.Close()
}
