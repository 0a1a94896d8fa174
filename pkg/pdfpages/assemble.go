package pdfpages

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
)

// Assemble builds a new PDF with one page per image. Page sizes in points
// equal the image sizes in pixels.
func Assemble(pages []Page, cfg Config) ([]byte, error) {
	if len(pages) == 0 {
		return nil, errors.New("no pages to assemble")
	}
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	if cfg.Title != "" {
		pdf.SetTitle(cfg.Title, true)
	}
	if cfg.TextLayer && len(cfg.Font.File) > 0 {
		pdf.AddUTF8FontFromBytes(cfg.Font.Name, cfg.Font.Style, cfg.Font.File)
	}

	for i, page := range pages {
		if page.Image == nil {
			return nil, fmt.Errorf("page %d has no image", i+1)
		}
		b := page.Image.Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

		data, imageType, err := encodeImage(page.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to encode image for page %d: %w", i+1, err)
		}
		imageName := fmt.Sprintf("img%d", i)
		opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
		pdf.RegisterImageOptionsReader(imageName, opts, bytes.NewReader(data))
		pdf.ImageOptions(imageName, 0, 0, w, h, false, opts, 0, "")

		if cfg.TextLayer && len(page.Lines) > 0 {
			origin := b.Min
			err := drawTextLayer(pdf, page.Lines, origin, cfg, i+1, log)
			if err != nil {
				log.WithError(err).WithField("page", i+1).Warn("Text layer incomplete")
			}
		}

		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to build page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeImage encodes photographic pages as JPEG and everything else as PNG.
func encodeImage(img image.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	if _, ok := img.(*image.YCbCr); ok {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "JPG", nil
	}
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "PNG", nil
}
