package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/hocr"
	"github.com/gardar/ocrtranslate/pkg/layout"
)

// HOCRFile serves words from a pre-computed hOCR document. The page is chosen
// by the page number stored in the request context with layout.WithPageNumber.
type HOCRFile struct {
	pages []hocr.Page
	log   logrus.FieldLogger
}

func newHOCRFile(_ context.Context, cfg Config, log logrus.FieldLogger) (layout.Recognizer, error) {
	if cfg.HOCRFile == "" {
		return nil, errors.New("hocr engine requires hocr_file")
	}
	data, err := os.ReadFile(cfg.HOCRFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read hOCR file: %w", err)
	}
	return NewHOCRFile(data, log)
}

// NewHOCRFile parses hOCR data holding one ocr_page per document page.
func NewHOCRFile(data []byte, log logrus.FieldLogger) (*HOCRFile, error) {
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HOCRFile{pages: doc.Pages, log: log}, nil
}

// Recognize returns the words of the hOCR page matching the context's page number.
func (h *HOCRFile) Recognize(ctx context.Context, img image.Image, _ string) ([]layout.Word, error) {
	n, ok := layout.PageNumber(ctx)
	if !ok {
		return nil, errors.New("hocr engine needs the page number in the context")
	}
	if n < 1 || n > len(h.pages) {
		return nil, fmt.Errorf("page %d not in hOCR document (%d pages)", n, len(h.pages))
	}

	page := h.pages[n-1]
	if b := img.Bounds(); page.BBox.X2 > 0 && (int(page.BBox.Width()) != b.Dx() || int(page.BBox.Height()) != b.Dy()) {
		h.log.WithFields(logrus.Fields{
			"page":  n,
			"hocr":  fmt.Sprintf("%.0fx%.0f", page.BBox.Width(), page.BBox.Height()),
			"image": fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
		}).Warn("hOCR page size differs from image size")
	}
	return WordsFromPage(page), nil
}
