// Package layout rebuilds the line and paragraph structure of a scanned page
// from a recognizer's word stream and paints a translation back onto the page.
//
// A page goes through the Engine in two steps. ExtractText runs the recognizer,
// groups words into lines and paragraphs and returns the page text, optionally
// prefixed with the last paragraph of the previous page as translation context.
// Render takes the translated text, strips the context, realigns the
// translation to the original line structure and draws every translated line
// into the rectangle its source line occupied.
//
// Key Features:
//
// - Line reconstruction from a word stream with boundary sentinels
// - Cross-page translation context with numeric page-footer skipping
// - Realignment of translations that merged or split lines
// - Per-line font fitting against the source line width
//
// Main Types:
//
// - Engine: page state machine (ExtractText, Render, Reset)
// - Realigner: maps a translation back onto the source line structure
// - Compositor: paints translated lines over their source boxes
package layout

import (
	"context"
	"image"
)

const (
	// LineBreak separates lines inside a paragraph.
	LineBreak = "\n"
	// ParagraphBreak separates paragraphs.
	ParagraphBreak = "\n\n"
)

// Recognizer turns a page image into a word stream. Words with empty text mark
// line and paragraph boundaries.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image, lang string) ([]Word, error)
}

// Translator translates text while keeping its line and paragraph breaks.
// It is called with the whole page and, during realignment, with single lines.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// TranslatorFunc adapts a plain function to the Translator interface.
type TranslatorFunc func(ctx context.Context, text string) (string, error)

// Translate calls f(ctx, text).
func (f TranslatorFunc) Translate(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// RecognizerFunc adapts a plain function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, img image.Image, lang string) ([]Word, error)

// Recognize calls f(ctx, img, lang).
func (f RecognizerFunc) Recognize(ctx context.Context, img image.Image, lang string) ([]Word, error) {
	return f(ctx, img, lang)
}

type pageNumberKey struct{}

// WithPageNumber returns a context carrying the 1-based page number being processed.
// Recognizers backed by pre-computed results use it to pick the right page.
func WithPageNumber(ctx context.Context, page int) context.Context {
	return context.WithValue(ctx, pageNumberKey{}, page)
}

// PageNumber returns the page number stored by WithPageNumber.
func PageNumber(ctx context.Context) (int, bool) {
	page, ok := ctx.Value(pageNumberKey{}).(int)
	return page, ok
}
