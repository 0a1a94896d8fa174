package layout

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config holds options for an Engine.
type Config struct {
	// Language is the source language code passed to the recognizer.
	Language string
	// InitialContext seeds the context for the first page.
	InitialContext string
	// Logger receives progress and diagnostics (nil = discard).
	Logger logrus.FieldLogger
}

// RenderedPage is the result of rendering one page.
type RenderedPage struct {
	// Image is the translated page, or the source image when nothing was painted.
	Image image.Image
	// Lines holds the translated text of every painted line.
	Lines []string
	// Boxes holds the source box of every line.
	Boxes []LineBox
	// Painted holds the rectangles that were overwritten.
	Painted []image.Rectangle
	Stats   RealignStats
}

// Engine processes one page at a time. ExtractText starts a page and Render
// finishes it; Reset abandons the page in progress. The context tracker
// survives across pages. An Engine is not safe for concurrent use.
type Engine struct {
	recognizer Recognizer
	realigner  *Realigner
	compositor *Compositor
	lang       string
	log        logrus.FieldLogger

	context ContextTracker

	image      image.Image
	text       string
	boxes      []LineBox
	paragraphs Paragraphs
}

// NewEngine creates an Engine from its collaborators.
func NewEngine(recognizer Recognizer, translator Translator, fonts FontSource, cfg Config) (*Engine, error) {
	if recognizer == nil {
		return nil, errors.New("recognizer is required")
	}
	if translator == nil {
		return nil, errors.New("translator is required")
	}
	if fonts == nil {
		return nil, errors.New("font source is required")
	}

	log := cfg.Logger
	if log == nil {
		log = discardLogger()
	}

	e := &Engine{
		recognizer: recognizer,
		realigner:  &Realigner{Translator: translator, Logger: log},
		compositor: &Compositor{Font: fonts, Logger: log},
		lang:       cfg.Language,
		log:        log,
	}
	if err := e.context.Set(cfg.InitialContext); err != nil {
		return nil, err
	}
	return e, nil
}

// Context returns the context that will be prepended to the next page.
func (e *Engine) Context() string {
	return e.context.Context()
}

// ClearContext drops the stored context.
func (e *Engine) ClearContext() {
	e.context.Clear()
}

// ExtractText recognizes the page, rebuilds its lines and paragraphs and
// returns the text to translate. With saveContext the stored context is
// prepended on its own line.
func (e *Engine) ExtractText(ctx context.Context, img image.Image, saveContext bool) (string, error) {
	e.Reset()

	words, err := e.recognizer.Recognize(ctx, img, e.lang)
	if err != nil {
		return "", fmt.Errorf("failed to recognize page: %w", err)
	}

	text, boxes := Cluster(words)
	pars, err := IndexParagraphs(text, len(boxes))
	if err != nil {
		return "", err
	}

	e.image = img
	e.text = text
	e.boxes = boxes
	e.paragraphs = pars

	e.log.WithFields(logrus.Fields{
		"words":      len(words),
		"lines":      len(boxes),
		"paragraphs": len(pars),
	}).Debug("Extracted page text")
	for i, line := range pars.Lines() {
		e.log.Debugf("%3d: %s", i+1, line)
	}

	return e.context.Wrap(text, saveContext), nil
}

// Render paints the translation of the text returned by ExtractText onto the
// page and advances the context. An empty translation returns the source image
// unchanged; for a page without text it also clears the context. The page is
// finished afterwards whether or not Render succeeds.
func (e *Engine) Render(ctx context.Context, translated string) (*RenderedPage, error) {
	if e.image == nil {
		return nil, ErrNoPage
	}
	defer e.Reset()

	if e.text == "" {
		e.context.Clear()
		return &RenderedPage{Image: e.image}, nil
	}
	if translated == "" {
		return &RenderedPage{Image: e.image}, nil
	}

	translated, err := e.context.Unwrap(translated)
	if err != nil {
		return nil, err
	}

	lines, stats, err := e.realigner.Realign(ctx, translated, e.paragraphs)
	if err != nil {
		return nil, fmt.Errorf("failed to realign translation: %w", err)
	}
	if stats != (RealignStats{}) {
		e.log.WithField("stats", stats.String()).Info("Realigned translation")
	}

	dst := cloneRGBA(e.image)
	painted, err := e.compositor.Composite(dst, lines, e.boxes)
	if err != nil {
		return nil, err
	}

	// a page that fails above keeps the previous context
	if err := e.context.Advance(e.text); err != nil {
		return nil, err
	}

	return &RenderedPage{
		Image:   dst,
		Lines:   lines,
		Boxes:   e.boxes,
		Painted: painted,
		Stats:   stats,
	}, nil
}

// TranslatePage runs ExtractText, the engine's translator and Render for one page.
func (e *Engine) TranslatePage(ctx context.Context, img image.Image, saveContext bool) (*RenderedPage, error) {
	text, err := e.ExtractText(ctx, img, saveContext)
	if err != nil {
		e.Reset()
		return nil, err
	}

	var translated string
	if strings.TrimSpace(text) != "" {
		translated, err = e.realigner.Translator.Translate(ctx, text)
		if err != nil {
			e.Reset()
			return nil, fmt.Errorf("failed to translate page: %w", err)
		}
	}
	return e.Render(ctx, translated)
}

// Translator returns the translator the engine realigns with.
func (e *Engine) Translator() Translator {
	return e.realigner.Translator
}

// Reset discards the page in progress. The context is kept.
func (e *Engine) Reset() {
	e.image = nil
	e.text = ""
	e.boxes = nil
	e.paragraphs = nil
}

func cloneRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
