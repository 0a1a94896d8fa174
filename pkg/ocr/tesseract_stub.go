//go:build !tesseract

package ocr

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/layout"
)

// ErrTesseractNotEnabled is returned when the "tesseract" engine is requested
// but Tesseract support was not compiled in. Rebuild with -tags tesseract.
var ErrTesseractNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags tesseract")

func init() {
	Register("tesseract", func(context.Context, Config, logrus.FieldLogger) (layout.Recognizer, error) {
		return nil, ErrTesseractNotEnabled
	})
}
