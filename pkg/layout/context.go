package layout

import (
	"fmt"
	"strings"
	"unicode"
)

// ContextTracker carries the last paragraph of one page into the translation
// request of the next, so the translator sees sentences that cross page breaks.
// The zero value is ready to use.
type ContextTracker struct {
	context  string
	injected bool
}

// Context returns the context that the next Wrap will prepend.
func (c *ContextTracker) Context() string {
	return c.context
}

// Injected reports whether the last Wrap prepended context.
func (c *ContextTracker) Injected() bool {
	return c.injected
}

// Set replaces the stored context. The value must be a single line.
func (c *ContextTracker) Set(context string) error {
	if strings.Contains(context, LineBreak) {
		return fmt.Errorf("%w: %q", ErrInvalidContext, context)
	}
	c.context = context
	return nil
}

// Clear drops the stored context.
func (c *ContextTracker) Clear() {
	c.context = ""
	c.injected = false
}

// Wrap returns text prefixed with the stored context and a LineBreak when
// enabled and both are non-empty. Otherwise text is returned unchanged.
func (c *ContextTracker) Wrap(text string, enabled bool) string {
	c.injected = enabled && c.context != "" && text != ""
	if !c.injected {
		return text
	}
	return c.context + LineBreak + text
}

// Unwrap removes the translated context from a translation produced for
// wrapped text: everything up to and including the first LineBreak is dropped,
// together with a second LineBreak directly after it.
// Without injected context the translation is returned unchanged.
func (c *ContextTracker) Unwrap(translated string) (string, error) {
	if !c.injected {
		return translated, nil
	}
	_, rest, found := strings.Cut(translated, LineBreak)
	if !found {
		return "", fmt.Errorf("%w: no line break in %q", ErrContextStrip, translated)
	}
	// a paragraph break after the context line leaves one extra break
	return strings.TrimPrefix(rest, LineBreak), nil
}

// Advance stores the context for the next page from this page's own text.
// The last paragraph is used with its lines joined by spaces; if it is purely
// numeric, like a page number, the paragraph before it is used instead.
// Empty page text clears the context.
func (c *ContextTracker) Advance(pageText string) error {
	c.injected = false
	if pageText == "" {
		c.context = ""
		return nil
	}

	pars := strings.Split(pageText, ParagraphBreak)
	context := joinLines(pars[len(pars)-1])
	if isNumeric(context) {
		context = ""
		if len(pars) > 1 {
			context = joinLines(pars[len(pars)-2])
		}
	}
	return c.Set(context)
}

func joinLines(par string) string {
	return strings.ReplaceAll(par, LineBreak, " ")
}

// isNumeric reports whether s is non-empty and made of numeric characters only.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
