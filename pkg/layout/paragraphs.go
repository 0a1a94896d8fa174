package layout

import (
	"fmt"
	"strings"
)

// SplitParagraphs splits text on ParagraphBreak and every paragraph on LineBreak.
// Empty text yields a single paragraph holding one empty line.
func SplitParagraphs(text string) Paragraphs {
	parts := strings.Split(text, ParagraphBreak)
	pars := make(Paragraphs, len(parts))
	for i, part := range parts {
		pars[i] = strings.Split(part, LineBreak)
	}
	return pars
}

// IndexParagraphs splits page text into paragraphs and checks that it has
// exactly one line per box. Empty text yields an empty structure.
func IndexParagraphs(text string, boxes int) (Paragraphs, error) {
	if text == "" {
		if boxes != 0 {
			return nil, fmt.Errorf("%w: empty text with %d boxes", ErrInternalAlignment, boxes)
		}
		return Paragraphs{}, nil
	}

	pars := SplitParagraphs(text)
	if n := pars.LineCount(); n != boxes {
		return nil, fmt.Errorf("%w: %d lines, %d boxes", ErrInternalAlignment, n, boxes)
	}
	return pars, nil
}
