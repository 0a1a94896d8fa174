package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// RealignStats counts the corrective work done for one page.
type RealignStats struct {
	// FallbackParagraphs is the number of paragraphs translated line by line.
	FallbackParagraphs int
	// Retranslations is the number of times the remaining paragraphs were sent again.
	Retranslations int
}

// Realigner maps a translation onto the line structure of the source text.
// Translators tend to merge or split lines; the Realigner finds the first
// paragraph whose line count drifted, translates that paragraph one line at a
// time and sends the paragraphs after it again as a batch.
type Realigner struct {
	Translator Translator
	Logger     logrus.FieldLogger
}

// Realign returns exactly one translated line per line of expected.
// Translator errors are returned unchanged.
func (r *Realigner) Realign(ctx context.Context, translated string, expected Paragraphs) ([]string, RealignStats, error) {
	var stats RealignStats
	log := r.logger()

	out := make([]string, 0, expected.LineCount())
	start := 0
	for {
		remaining := expected[start:]
		got := SplitParagraphs(translated)
		if lines := got.Lines(); len(lines) == remaining.LineCount() {
			return append(out, lines...), stats, nil
		}

		broken := -1
		for i, want := range remaining {
			var have []string
			if i < len(got) {
				have = got[i]
			}
			if len(have) != len(want) {
				broken = start + i
				log.WithFields(logrus.Fields{
					"paragraph": broken,
					"expected":  len(want),
					"got":       len(have),
				}).Debug("Translated paragraph line count mismatch")
				break
			}
			out = append(out, have...)
		}
		if broken < 0 {
			return out, stats, nil
		}

		lines, err := r.translateLines(ctx, expected[broken])
		if err != nil {
			return nil, stats, err
		}
		out = append(out, lines...)
		stats.FallbackParagraphs++

		start = broken + 1
		if start == len(expected) {
			return out, stats, nil
		}

		translated, err = r.Translator.Translate(ctx, expected[start:].Text())
		if err != nil {
			return nil, stats, err
		}
		stats.Retranslations++
	}
}

// translateLines translates each line of a paragraph on its own. Line breaks
// the translator adds inside a line are replaced by spaces.
func (r *Realigner) translateLines(ctx context.Context, par []string) ([]string, error) {
	lines := make([]string, len(par))
	for i, line := range par {
		translated, err := r.Translator.Translate(ctx, line)
		if err != nil {
			return nil, err
		}
		lines[i] = strings.ReplaceAll(translated, LineBreak, " ")
	}
	return lines, nil
}

func (r *Realigner) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return discardLogger()
	}
	return r.Logger
}

func (s RealignStats) String() string {
	return fmt.Sprintf("%d paragraphs translated line by line, %d retranslations",
		s.FallbackParagraphs, s.Retranslations)
}
