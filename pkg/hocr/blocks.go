package hocr

import "strings"

// Block is a group of lines that belong to the same paragraph.
type Block []Line

// Blocks returns the page's non-empty lines grouped by paragraph, in reading
// order. Lines and words without a paragraph form blocks of their own: loose
// lines of an area share one block, loose words of a paragraph or area become
// a single line, and every loose page-level line is its own block.
func (p Page) Blocks() []Block {
	var blocks []Block
	add := func(b Block) {
		var kept Block
		for _, line := range b {
			if hasText(line.Words) {
				kept = append(kept, line)
			}
		}
		if len(kept) > 0 {
			blocks = append(blocks, kept)
		}
	}

	for _, area := range p.Areas {
		for _, par := range area.Paragraphs {
			add(paragraphBlock(par))
		}
		add(Block(area.Lines))
		if len(area.Words) > 0 {
			add(Block{{BBox: area.BBox, Words: area.Words}})
		}
	}
	for _, par := range p.Paragraphs {
		add(paragraphBlock(par))
	}
	for _, line := range p.Lines {
		add(Block{line})
	}
	return blocks
}

func paragraphBlock(par Paragraph) Block {
	block := Block(par.Lines)
	if len(par.Words) > 0 {
		block = append(block, Line{BBox: par.BBox, Words: par.Words})
	}
	return block
}

// Text joins the words of a line with single spaces.
func (l Line) Text() string {
	words := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		if t := strings.TrimSpace(w.Text); t != "" {
			words = append(words, t)
		}
	}
	return strings.Join(words, " ")
}

// PlainText renders the page as text: one line per hOCR line and a blank line
// between paragraphs.
func PlainText(page Page) string {
	blocks := page.Blocks()
	pars := make([]string, len(blocks))
	for i, block := range blocks {
		lines := make([]string, len(block))
		for j, line := range block {
			lines[j] = line.Text()
		}
		pars[i] = strings.Join(lines, "\n")
	}
	return strings.Join(pars, "\n\n")
}

func hasText(words []Word) bool {
	for _, w := range words {
		if strings.TrimSpace(w.Text) != "" {
			return true
		}
	}
	return false
}
