package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gardar/ocrtranslate/pkg/layout"
)

// pageRecognizer returns a single word "pN" for page N.
func pageRecognizer(fail map[int]error) layout.Recognizer {
	return layout.RecognizerFunc(func(ctx context.Context, _ image.Image, _ string) ([]layout.Word, error) {
		n, _ := layout.PageNumber(ctx)
		if err := fail[n]; err != nil {
			delete(fail, n)
			return nil, err
		}
		return []layout.Word{{Text: fmt.Sprintf("p%d", n), Left: 10, Top: 10, Width: 40, Height: 20}}, nil
	})
}

// twoLineRecognizer returns the lines "pN" and "qN" for page N.
func twoLineRecognizer() layout.Recognizer {
	return layout.RecognizerFunc(func(ctx context.Context, _ image.Image, _ string) ([]layout.Word, error) {
		n, _ := layout.PageNumber(ctx)
		return []layout.Word{
			{Text: fmt.Sprintf("p%d", n), Left: 10, Top: 10, Width: 40, Height: 20},
			{},
			{Text: fmt.Sprintf("q%d", n), Left: 10, Top: 30, Width: 40, Height: 20},
		}, nil
	})
}

// recorder translates to the input itself unless a one-shot reply or
// failure is registered for it.
type recorder struct {
	inputs  []string
	fail    map[string]error
	replies map[string]string
}

func (r *recorder) Translate(_ context.Context, text string) (string, error) {
	r.inputs = append(r.inputs, text)
	if err := r.fail[text]; err != nil {
		delete(r.fail, text)
		return "", err
	}
	if reply, ok := r.replies[text]; ok {
		delete(r.replies, text)
		return reply, nil
	}
	return text, nil
}

func testPages(n int) []image.Image {
	pages := make([]image.Image, n)
	for i := range pages {
		pages[i] = image.NewRGBA(image.Rect(0, 0, 100, 60))
	}
	return pages
}

func newPipeline(t *testing.T, rec layout.Recognizer, tr layout.Translator, cfg Config) *Pipeline {
	t.Helper()
	font, err := layout.ParseFont(goregular.TTF)
	require.NoError(t, err)
	engine, err := layout.NewEngine(rec, tr, font, layout.Config{Language: "en"})
	require.NoError(t, err)
	return New(engine, cfg)
}

func TestRun_ContextOnlyForConsecutivePages(t *testing.T) {
	tr := &recorder{}
	p := newPipeline(t, pageRecognizer(nil), tr, Config{SaveContext: true})

	res, err := p.Run(context.Background(), testPages(4), []int{0, 1, 3})

	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p1\np2", "p4"}, tr.inputs)
	require.Len(t, res.Pages, 3)
	assert.Equal(t, []int{0, 1, 3}, []int{res.Pages[0].Index, res.Pages[1].Index, res.Pages[2].Index})
	assert.False(t, res.Finished)
}

func TestRun_ContextDisabled(t *testing.T) {
	tr := &recorder{}
	p := newPipeline(t, pageRecognizer(nil), tr, Config{})

	_, err := p.Run(context.Background(), testPages(2), []int{0, 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, tr.inputs)
}

func TestRun_RetryKeepsContext(t *testing.T) {
	tr := &recorder{fail: map[string]error{"p1\np2": errors.New("timeout")}}
	var seen []*PageError
	p := newPipeline(t, pageRecognizer(nil), tr, Config{
		SaveContext: true,
		OnFailure: func(err *PageError) Decision {
			seen = append(seen, err)
			return Retry
		},
	})

	res, err := p.Run(context.Background(), testPages(2), []int{0, 1})

	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].Page)
	assert.Equal(t, StageTranslate, seen[0].Stage)
	assert.Equal(t, []string{"p1", "p1\np2", "p1\np2"}, tr.inputs)
	require.Len(t, res.Pages, 2)
	assert.False(t, res.Pages[1].Skipped)
}

func TestRun_RetryAfterRenderFailureKeepsContext(t *testing.T) {
	tr := &recorder{
		fail:    map[string]error{"p2": errors.New("timeout")},
		replies: map[string]string{"p1 q1\np2\nq2": "p1 q1\np2 q2"},
	}
	var seen []*PageError
	p := newPipeline(t, twoLineRecognizer(), tr, Config{
		SaveContext: true,
		OnFailure: func(err *PageError) Decision {
			seen = append(seen, err)
			return Retry
		},
	})

	res, err := p.Run(context.Background(), testPages(2), []int{0, 1})

	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].Page)
	assert.Equal(t, StageRender, seen[0].Stage)
	assert.Equal(t, []string{"p1\nq1", "p1 q1\np2\nq2", "p2", "p1 q1\np2\nq2"}, tr.inputs)
	require.Len(t, res.Pages, 2)
	assert.Equal(t, []string{"p2", "q2"}, res.Pages[1].Rendered.Lines)
}

func TestRun_SkipKeepsSourceImage(t *testing.T) {
	tr := &recorder{}
	pages := testPages(3)
	p := newPipeline(t, pageRecognizer(map[int]error{2: errors.New("ocr down")}), tr, Config{
		SaveContext: true,
		OnFailure:   func(*PageError) Decision { return Skip },
	})

	res, err := p.Run(context.Background(), pages, []int{0, 1, 2})

	require.NoError(t, err)
	require.Len(t, res.Pages, 3)
	assert.True(t, res.Pages[1].Skipped)
	assert.Nil(t, res.Pages[1].Rendered)
	assert.Same(t, pages[1], res.Pages[1].Image)
	// the page after a skipped one gets no context
	assert.Equal(t, []string{"p1", "p3"}, tr.inputs)
}

func TestRun_FinishKeepsTranslatedPages(t *testing.T) {
	tr := &recorder{}
	p := newPipeline(t, pageRecognizer(map[int]error{2: errors.New("ocr down")}), tr, Config{
		OnFailure: func(*PageError) Decision { return Finish },
	})

	res, err := p.Run(context.Background(), testPages(3), []int{0, 1, 2})

	require.NoError(t, err)
	assert.True(t, res.Finished)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, 0, res.Pages[0].Index)
}

func TestRun_AlignmentErrorIsNotRetried(t *testing.T) {
	calls := 0
	alignment := fmt.Errorf("bad page: %w", layout.ErrInternalAlignment)
	p := newPipeline(t, pageRecognizer(map[int]error{1: alignment}), &recorder{}, Config{
		OnFailure: func(err *PageError) Decision {
			calls++
			assert.True(t, err.Fatal())
			return Retry
		},
	})

	res, err := p.Run(context.Background(), testPages(1), []int{0})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, res.Pages, 1)
	assert.True(t, res.Pages[0].Skipped)
}

func TestRun_WithoutHandlerReturnsPageError(t *testing.T) {
	boom := errors.New("ocr down")
	p := newPipeline(t, pageRecognizer(map[int]error{2: boom}), &recorder{}, Config{})

	res, err := p.Run(context.Background(), testPages(2), []int{0, 1})

	var perr *PageError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Page)
	assert.Equal(t, StageOCR, perr.Stage)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, res.Pages, 1)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newPipeline(t, pageRecognizer(nil), &recorder{}, Config{})

	res, err := p.Run(ctx, testPages(2), []int{0, 1})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Pages)
}

func TestRun_IndexOutOfRange(t *testing.T) {
	p := newPipeline(t, pageRecognizer(nil), &recorder{}, Config{})

	_, err := p.Run(context.Background(), testPages(1), []int{0, 5})

	assert.ErrorContains(t, err, "page 6 out of range")
}

func TestPage_TextLines(t *testing.T) {
	p := newPipeline(t, pageRecognizer(nil), &recorder{}, Config{})

	res, err := p.Run(context.Background(), testPages(1), []int{0})
	require.NoError(t, err)

	lines := res.Pages[0].TextLines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].Text)
	assert.Equal(t, image.Rect(10, 7, 50, 33), lines[0].Box)

	assert.Nil(t, Page{Skipped: true}.TextLines())
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "retry", Retry.String())
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "finish", Finish.String())
	assert.Equal(t, "Decision(7)", Decision(7).String())
}
