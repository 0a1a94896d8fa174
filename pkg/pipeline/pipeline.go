// Package pipeline translates a range of pages in order with a layout.Engine.
//
// Context from one page is carried to the next only while the pages are
// consecutive. Page failures are handed to a FailureHandler that decides
// whether to retry the page, keep its source image, or stop.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/layout"
	"github.com/gardar/ocrtranslate/pkg/pdfpages"
)

// Decision is the answer of a FailureHandler.
type Decision int

const (
	// Retry processes the same page again from a clean engine state.
	Retry Decision = iota
	// Skip keeps the source image of the page and moves on.
	Skip
	// Finish stops processing and keeps the pages done so far.
	Finish
)

func (d Decision) String() string {
	switch d {
	case Retry:
		return "retry"
	case Skip:
		return "skip"
	case Finish:
		return "finish"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// FailureHandler decides how to continue after a page failed.
type FailureHandler func(err *PageError) Decision

// Stage names the step of a page that failed.
type Stage string

const (
	StageOCR       Stage = "ocr"
	StageTranslate Stage = "translate"
	StageRender    Stage = "render"
)

// PageError is a failure while processing one page.
type PageError struct {
	// Page is the zero-based index of the page in the document.
	Page  int
	Stage Stage
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %s: %v", e.Page+1, e.Stage, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// Fatal reports whether retrying the page cannot help.
func (e *PageError) Fatal() bool {
	return errors.Is(e.Err, layout.ErrInternalAlignment)
}

// Config holds options for a Pipeline.
type Config struct {
	// SaveContext carries context between consecutive pages.
	SaveContext bool
	// OnFailure decides what happens after a page failure. Without it the
	// first failure stops the run and is returned.
	OnFailure FailureHandler
	Logger    logrus.FieldLogger
}

// Page is one processed page.
type Page struct {
	// Index is the zero-based index of the page in the document.
	Index int
	// Skipped is set when the source image was kept after a failure.
	Skipped bool
	// Rendered is nil for skipped pages.
	Rendered *layout.RenderedPage
	Image    image.Image
}

// TextLines returns the painted lines with their page rectangles, for a PDF text layer.
func (p Page) TextLines() []pdfpages.TextLine {
	if p.Rendered == nil {
		return nil
	}
	var out []pdfpages.TextLine
	for i, line := range p.Rendered.Lines {
		if i >= len(p.Rendered.Boxes) || strings.TrimSpace(line) == "" {
			continue
		}
		r := layout.ExpandBox(p.Rendered.Boxes[i]).Rect()
		if r.Empty() {
			continue
		}
		out = append(out, pdfpages.TextLine{Text: line, Box: r})
	}
	return out
}

// Result is the outcome of a run.
type Result struct {
	Pages []Page
	// Finished is set when a FailureHandler stopped the run early.
	Finished bool
}

// Pipeline runs an engine over a document.
type Pipeline struct {
	engine *layout.Engine
	cfg    Config
	log    logrus.FieldLogger
}

// New creates a Pipeline around an engine.
func New(engine *layout.Engine, cfg Config) *Pipeline {
	log := cfg.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Pipeline{engine: engine, cfg: cfg, log: log}
}

// Run translates pages[i] for each i in indices, in order. On error the pages
// finished so far are returned with it, including when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, pages []image.Image, indices []int) (*Result, error) {
	res := &Result{}
	prev := -2

	for _, ind := range indices {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if ind < 0 || ind >= len(pages) {
			return res, fmt.Errorf("page %d out of range (1-%d)", ind+1, len(pages))
		}
		saveContext := p.cfg.SaveContext && ind == prev+1
		log := p.log.WithFields(logrus.Fields{"page": ind + 1, "context": saveContext})
		log.Info("Translating page")

		page, finished, err := p.runPage(ctx, pages[ind], ind, saveContext, log)
		if err != nil {
			return res, err
		}
		if page != nil {
			res.Pages = append(res.Pages, *page)
			if !page.Skipped {
				prev = ind
			}
		}
		if finished {
			res.Finished = true
			return res, nil
		}
	}
	return res, nil
}

// runPage translates one page until it succeeds or the failure handler gives
// up on it. Retries reuse saveContext and keep the stored context.
func (p *Pipeline) runPage(ctx context.Context, img image.Image, ind int, saveContext bool, log logrus.FieldLogger) (*Page, bool, error) {
	for {
		rendered, perr := p.translate(ctx, img, ind, saveContext)
		if perr == nil {
			return &Page{Index: ind, Rendered: rendered, Image: rendered.Image}, false, nil
		}

		p.engine.Reset()
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		if p.cfg.OnFailure == nil {
			return nil, false, perr
		}

		decision := p.cfg.OnFailure(perr)
		if decision == Retry && perr.Fatal() {
			log.WithError(perr).Error("Internal alignment error, page cannot be retried")
			decision = Skip
		}
		log.WithError(perr).WithField("decision", decision.String()).Warn("Page failed")

		switch decision {
		case Retry:
			continue
		case Skip:
			return &Page{Index: ind, Skipped: true, Image: img}, false, nil
		default:
			return nil, true, nil
		}
	}
}

func (p *Pipeline) translate(ctx context.Context, img image.Image, ind int, saveContext bool) (*layout.RenderedPage, *PageError) {
	ctx = layout.WithPageNumber(ctx, ind+1)

	text, err := p.engine.ExtractText(ctx, img, saveContext)
	if err != nil {
		return nil, &PageError{Page: ind, Stage: StageOCR, Err: err}
	}

	var translated string
	if strings.TrimSpace(text) != "" {
		translated, err = p.engine.Translator().Translate(ctx, text)
		if err != nil {
			return nil, &PageError{Page: ind, Stage: StageTranslate, Err: err}
		}
	}

	rendered, err := p.engine.Render(ctx, translated)
	if err != nil {
		return nil, &PageError{Page: ind, Stage: StageRender, Err: err}
	}
	return rendered, nil
}
