//go:build tesseract

package ocr

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/hocr"
	"github.com/gardar/ocrtranslate/pkg/layout"
)

func init() {
	Register("tesseract", newTesseract)
}

// Tesseract recognizes pages with a local Tesseract installation.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
	psm    gosseract.PageSegMode
	log    logrus.FieldLogger
}

func newTesseract(_ context.Context, cfg Config, log logrus.FieldLogger) (layout.Recognizer, error) {
	t := &Tesseract{
		client: gosseract.NewClient(),
		psm:    gosseract.PSM_AUTO,
		log:    log,
	}
	if cfg.PageSegMode > 0 {
		t.psm = gosseract.PageSegMode(cfg.PageSegMode)
	}
	log.WithField("version", gosseract.Version()).Debug("Tesseract initialized")
	return t, nil
}

// Recognize runs Tesseract on img and returns its words in reading order.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image, lang string) ([]layout.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code, err := TesseractLanguage(lang)
	if err != nil {
		return nil, err
	}
	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.client.SetLanguage(code); err != nil {
		return nil, fmt.Errorf("failed to set language %s: %w", code, err)
	}
	if err := t.client.SetPageSegMode(t.psm); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := t.client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	out, err := t.client.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("tesseract failed: %w", err)
	}

	doc, err := hocr.ParseHOCR([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tesseract output: %w", err)
	}
	return WordsFromPage(doc.Pages[0]), nil
}

// Close releases the Tesseract handle.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.client.Close()
}
