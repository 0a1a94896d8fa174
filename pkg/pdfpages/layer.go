package pdfpages

import (
	"fmt"
	"image"

	"codeberg.org/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

// drawTextLayer draws the page text onto a layer in a pdf page.
// The pageNum parameter is used to create unique layer names for each page.
func drawTextLayer(
	pdf *fpdf.Fpdf,
	lines []TextLine,
	origin image.Point,
	cfg Config,
	pageNum int,
	log logrus.FieldLogger,
) error {
	layerName := fmt.Sprintf("%s (Page %d)", cfg.LayerName, pageNum)
	layer := pdf.AddLayer(layerName, true)
	pdf.BeginLayer(layer)
	defer pdf.EndLayer()

	font := cfg.Font
	pdf.SetFont(font.Name, font.Style, font.Size)

	if cfg.Debug {
		pdf.SetTextColor(255, 0, 0)
		pdf.SetDrawColor(255, 0, 0)
	} else {
		pdf.SetAlpha(0.0, "Normal")
	}

	utf8 := len(font.File) > 0
	encodingErrors := 0
	for _, line := range lines {
		if !drawLine(pdf, line, origin, font, cfg.Debug, utf8) {
			encodingErrors++
		}
	}

	if !cfg.Debug {
		pdf.SetAlpha(1.0, "Normal")
	}

	log.WithFields(logrus.Fields{
		"page":  pageNum,
		"lines": len(lines),
	}).Debug("Drew text layer")

	if encodingErrors > 0 && encodingErrors > len(lines)/10 {
		return fmt.Errorf("character encoding issues in %d of %d lines", encodingErrors, len(lines))
	}
	return nil
}

// drawLine renders a single line stretched to its box. It reports false when
// the text could not be encoded for a core font.
func drawLine(pdf *fpdf.Fpdf, line TextLine, origin image.Point, font FontConfig, debug, utf8 bool) bool {
	r := line.Box.Sub(origin)
	x, y := float64(r.Min.X), float64(r.Min.Y)
	width, height := float64(r.Dx()), float64(r.Dy())

	text := line.Text
	encoded := true
	if !utf8 {
		latin1, err := charmap.ISO8859_1.NewEncoder().String(text)
		if err != nil {
			encoded = false
		} else {
			text = latin1
		}
	}

	pdf.SetFontSize(font.Size)
	if strWidth := pdf.GetStringWidth(text); strWidth > 0 {
		pdf.SetFontSize(font.Size * width / strWidth)
	}

	fontSize, _ := pdf.GetFontSize()
	pdf.Text(x, y+fontSize*font.AscentRatio, text)

	if debug {
		pdf.Rect(x, y, width, height, "D")
	}
	return encoded
}
