package layout

import (
	"image"
	"strings"
)

// Word is one recognized token with its pixel position. An empty Text is a
// boundary sentinel: one sentinel ends a line, two in a row end a paragraph.
type Word struct {
	Text   string
	Left   int
	Top    int
	Width  int
	Height int
}

// IsSentinel reports whether w marks a boundary rather than carrying text.
func (w Word) IsSentinel() bool {
	return w.Text == ""
}

func (w Word) isBlank() bool {
	return strings.TrimSpace(w.Text) == ""
}

// LineBox is the rectangle a reconstructed line occupies on the page.
type LineBox struct {
	X int
	Y int
	W int
	H int
}

// Rect converts the box to an image.Rectangle.
func (b LineBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Paragraphs holds page text split into paragraphs of lines.
type Paragraphs [][]string

// LineCount returns the number of lines across all paragraphs.
func (p Paragraphs) LineCount() int {
	n := 0
	for _, par := range p {
		n += len(par)
	}
	return n
}

// Lines flattens the paragraphs into a single list of lines.
func (p Paragraphs) Lines() []string {
	lines := make([]string, 0, p.LineCount())
	for _, par := range p {
		lines = append(lines, par...)
	}
	return lines
}

// Text joins lines with LineBreak and paragraphs with ParagraphBreak.
func (p Paragraphs) Text() string {
	pars := make([]string, len(p))
	for i, par := range p {
		pars[i] = strings.Join(par, LineBreak)
	}
	return strings.Join(pars, ParagraphBreak)
}
