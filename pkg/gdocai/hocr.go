package gdocai

import (
	"fmt"
	"math"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrtranslate/pkg/hocr"
)

// CreateHOCRPage converts a single Document AI page to an hOCR page.
// Blocks become areas. Paragraphs and lines are nested by text anchor
// containment, and elements without a parent stay on the page.
func CreateHOCRPage(page *documentaipb.Document_Page, fullText string, pageNumber int) (hocr.Page, error) {
	if page == nil {
		return hocr.Page{}, fmt.Errorf("document AI page is nil")
	}

	ocrPage := hocr.Page{
		ID:         fmt.Sprintf("page_%d", pageNumber),
		PageNumber: pageNumber,
		BBox:       boundingBox(page.Layout, page.Dimension),
	}
	if len(page.DetectedLanguages) > 0 {
		ocrPage.Lang = page.DetectedLanguages[0].LanguageCode
	}
	if ocrPage.BBox == (hocr.BoundingBox{}) && page.Dimension != nil {
		ocrPage.BBox = hocr.NewBoundingBox(0, 0, float64(page.Dimension.Width), float64(page.Dimension.Height))
	}

	c := converter{page: page, fullText: fullText, pageNumber: pageNumber, usedLines: make(map[int]bool)}

	assignedPars := make(map[int]bool)
	for aidx, block := range page.Blocks {
		area := hocr.Area{
			ID:   fmt.Sprintf("carea_%d_%d", pageNumber, aidx),
			BBox: boundingBox(block.Layout, page.Dimension),
		}
		for pidx, par := range page.Paragraphs {
			if assignedPars[pidx] || !isElementInParent(par.Layout, block.Layout) {
				continue
			}
			assignedPars[pidx] = true
			area.Paragraphs = append(area.Paragraphs, c.paragraph(par, aidx, pidx))
		}
		ocrPage.Areas = append(ocrPage.Areas, area)
	}

	for pidx, par := range page.Paragraphs {
		if !assignedPars[pidx] {
			ocrPage.Paragraphs = append(ocrPage.Paragraphs, c.paragraph(par, -1, pidx))
		}
	}

	for lidx, line := range page.Lines {
		if !c.usedLines[lidx] {
			ocrPage.Lines = append(ocrPage.Lines, c.line(line, -1, -1, lidx))
		}
	}

	return ocrPage, nil
}

type converter struct {
	page       *documentaipb.Document_Page
	fullText   string
	pageNumber int
	usedLines  map[int]bool
}

func (c *converter) paragraph(par *documentaipb.Document_Page_Paragraph, aidx, pidx int) hocr.Paragraph {
	ocrPar := hocr.Paragraph{
		ID:   fmt.Sprintf("par_%d_%d_%d", c.pageNumber, aidx, pidx),
		BBox: boundingBox(par.Layout, c.page.Dimension),
	}
	if len(par.DetectedLanguages) > 0 {
		ocrPar.Lang = par.DetectedLanguages[0].LanguageCode
	}
	for lidx, line := range c.page.Lines {
		if c.usedLines[lidx] || !isElementInParent(line.Layout, par.Layout) {
			continue
		}
		c.usedLines[lidx] = true
		ocrPar.Lines = append(ocrPar.Lines, c.line(line, aidx, pidx, lidx))
	}
	return ocrPar
}

func (c *converter) line(line *documentaipb.Document_Page_Line, aidx, pidx, lidx int) hocr.Line {
	ocrLine := hocr.Line{
		ID:   fmt.Sprintf("line_%d_%d_%d_%d", c.pageNumber, aidx, pidx, lidx),
		BBox: boundingBox(line.Layout, c.page.Dimension),
	}
	for tidx, token := range c.page.Tokens {
		if !isElementInParent(token.Layout, line.Layout) {
			continue
		}
		word := hocr.Word{
			ID:   fmt.Sprintf("word_%d_%d_%d_%d_%d", c.pageNumber, aidx, pidx, lidx, tidx),
			Text: tokenText(token, c.fullText),
			BBox: boundingBox(token.Layout, c.page.Dimension),
		}
		if token.Layout != nil {
			word.Confidence = float64(token.Layout.Confidence * 100)
		}
		if len(token.DetectedLanguages) > 0 {
			word.Lang = token.DetectedLanguages[0].LanguageCode
		}
		ocrLine.Words = append(ocrLine.Words, word)
	}
	return ocrLine
}

// boundingBox converts a Document AI bounding polygon to page pixels.
// Normalized vertices (0-1) are scaled by the page dimension; absolute
// vertices are used as they are.
func boundingBox(layout *documentaipb.Document_Page_Layout, dimension *documentaipb.Document_Page_Dimension) hocr.BoundingBox {
	poly := layout.GetBoundingPoly()
	if poly == nil {
		return hocr.BoundingBox{}
	}

	var xs, ys []float64
	if nv := poly.GetNormalizedVertices(); len(nv) > 0 && dimension != nil {
		for _, v := range nv {
			xs = append(xs, float64(v.X*dimension.Width))
			ys = append(ys, float64(v.Y*dimension.Height))
		}
	} else {
		for _, v := range poly.GetVertices() {
			xs = append(xs, float64(v.X))
			ys = append(ys, float64(v.Y))
		}
	}
	if len(xs) == 0 {
		return hocr.BoundingBox{}
	}

	minX, maxX := span(xs)
	minY, maxY := span(ys)
	return hocr.NewBoundingBox(math.Round(minX), math.Round(minY), math.Round(maxX), math.Round(maxY))
}

func span(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// isElementInParent reports whether the first text segment of an element
// lies within the first text segment of its parent.
func isElementInParent(elementLayout, parentLayout *documentaipb.Document_Page_Layout) bool {
	elem := elementLayout.GetTextAnchor().GetTextSegments()
	parent := parentLayout.GetTextAnchor().GetTextSegments()
	if len(elem) == 0 || len(parent) == 0 {
		return false
	}
	return elem[0].StartIndex >= parent[0].StartIndex && elem[0].EndIndex <= parent[0].EndIndex
}
