package ocr

import (
	"math"
	"strings"

	"github.com/gardar/ocrtranslate/pkg/hocr"
	"github.com/gardar/ocrtranslate/pkg/layout"
)

// WordsFromPage flattens an hOCR page into a word stream: words of a line in
// order, one sentinel after every line and a second sentinel after the last
// line of every paragraph. Whitespace-only words are dropped.
func WordsFromPage(page hocr.Page) []layout.Word {
	var words []layout.Word
	for _, block := range page.Blocks() {
		for _, line := range block {
			for _, w := range line.Words {
				if strings.TrimSpace(w.Text) == "" {
					continue
				}
				words = append(words, toWord(w))
			}
			words = append(words, layout.Word{})
		}
		words = append(words, layout.Word{})
	}
	return words
}

func toWord(w hocr.Word) layout.Word {
	left := int(math.Round(w.BBox.X1))
	top := int(math.Round(w.BBox.Y1))
	return layout.Word{
		Text:   strings.TrimSpace(w.Text),
		Left:   left,
		Top:    top,
		Width:  int(math.Round(w.BBox.X2)) - left,
		Height: int(math.Round(w.BBox.Y2)) - top,
	}
}
