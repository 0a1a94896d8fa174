package layout

import "strings"

// maxBreaks caps consecutive sentinels: the first ends a line, the second a paragraph.
const maxBreaks = 2

// CleanWords returns a cleaned copy of words. Whitespace-only entries are
// trimmed from both ends, and every run of whitespace-only entries that starts
// with a sentinel and is at least two entries long collapses to exactly two
// sentinels. The input slice is never modified.
func CleanWords(words []Word) []Word {
	start, end := 0, len(words)
	for start < end && words[start].isBlank() {
		start++
	}
	for end > start && words[end-1].isBlank() {
		end--
	}

	cleaned := make([]Word, 0, end-start)
	for i := start; i < end; {
		w := words[i]
		if !w.IsSentinel() {
			cleaned = append(cleaned, w)
			i++
			continue
		}

		j := i + 1
		for j < end && words[j].isBlank() {
			j++
		}
		cleaned = append(cleaned, w)
		if j-i >= maxBreaks {
			second := words[i+1]
			second.Text = ""
			cleaned = append(cleaned, second)
		}
		i = j
	}
	return cleaned
}

// Cluster groups a word stream into page text and one LineBox per line.
// Words on a line are joined by single spaces, lines by LineBreak and
// paragraphs by ParagraphBreak. The number of lines in the returned text always
// equals the number of boxes.
func Cluster(words []Word) (string, []LineBox) {
	words = CleanWords(words)

	var (
		text  strings.Builder
		boxes []LineBox
		line  lineAccumulator
	)
	breaks := 1
	for _, w := range words {
		switch {
		case w.IsSentinel():
			if breaks == 0 {
				boxes = append(boxes, line.box())
			}
			if breaks < maxBreaks {
				text.WriteString(LineBreak)
				breaks++
			}
		case breaks > 0:
			breaks = 0
			line.reset(w)
			text.WriteString(w.Text)
		default:
			line.add(w)
			text.WriteByte(' ')
			text.WriteString(w.Text)
		}
	}
	if breaks == 0 {
		boxes = append(boxes, line.box())
	}
	return text.String(), boxes
}

// lineAccumulator averages the vertical extent of the words on one line.
type lineAccumulator struct {
	first     Word
	last      Word
	count     int
	sumTop    int
	sumBottom int
}

func (a *lineAccumulator) reset(w Word) {
	*a = lineAccumulator{first: w}
	a.add(w)
}

func (a *lineAccumulator) add(w Word) {
	a.last = w
	a.count++
	a.sumTop += w.Top
	a.sumBottom += w.Top + w.Height
}

func (a *lineAccumulator) box() LineBox {
	x := a.first.Left
	y := a.sumTop / a.count
	return LineBox{
		X: x,
		Y: y,
		W: a.last.Left + a.last.Width - x,
		H: a.sumBottom/a.count - y,
	}
}
