package layout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTranslator upper-cases its input and records every request.
type recordingTranslator struct {
	calls []string
	fn    func(text string) (string, error)
}

func (r *recordingTranslator) Translate(_ context.Context, text string) (string, error) {
	r.calls = append(r.calls, text)
	if r.fn != nil {
		return r.fn(text)
	}
	return strings.ToUpper(text), nil
}

func TestRealign_MatchingLineCount(t *testing.T) {
	tr := &recordingTranslator{}
	r := &Realigner{Translator: tr}

	lines, stats, err := r.Realign(context.Background(), "A\nB\n\nC", Paragraphs{{"a", "b"}, {"c"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, lines)
	assert.Empty(t, tr.calls)
	assert.Equal(t, RealignStats{}, stats)
}

func TestRealign_TotalCountWinsOverParagraphShape(t *testing.T) {
	tr := &recordingTranslator{}
	r := &Realigner{Translator: tr}

	lines, _, err := r.Realign(context.Background(), "A\n\nB\nC", Paragraphs{{"a", "b"}, {"c"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, lines)
	assert.Empty(t, tr.calls)
}

func TestRealign_MergedLines(t *testing.T) {
	tr := &recordingTranslator{}
	r := &Realigner{Translator: tr}

	lines, stats, err := r.Realign(context.Background(), "A B\n\nC", Paragraphs{{"a", "b"}, {"c"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, lines)
	assert.Equal(t, []string{"a", "b", "c"}, tr.calls)
	assert.Equal(t, RealignStats{FallbackParagraphs: 1, Retranslations: 1}, stats)
}

func TestRealign_MismatchInLastParagraph(t *testing.T) {
	tr := &recordingTranslator{}
	r := &Realigner{Translator: tr}

	lines, stats, err := r.Realign(context.Background(), "A\n\nX\nY\nZ", Paragraphs{{"a"}, {"b", "c"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, lines)
	assert.Equal(t, []string{"b", "c"}, tr.calls)
	assert.Equal(t, RealignStats{FallbackParagraphs: 1}, stats)
}

func TestRealign_MissingParagraph(t *testing.T) {
	tr := &recordingTranslator{}
	r := &Realigner{Translator: tr}

	lines, _, err := r.Realign(context.Background(), "A", Paragraphs{{"a"}, {"b"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, lines)
	assert.Equal(t, []string{"b"}, tr.calls)
}

func TestRealign_ExtraParagraphsDropped(t *testing.T) {
	tr := &recordingTranslator{}
	r := &Realigner{Translator: tr}

	lines, _, err := r.Realign(context.Background(), "A\n\nZ", Paragraphs{{"a"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, lines)
	assert.Empty(t, tr.calls)
}

func TestRealign_LineTranslationNewlinesBecomeSpaces(t *testing.T) {
	tr := &recordingTranslator{fn: func(text string) (string, error) {
		return strings.ToUpper(text) + "\nextra", nil
	}}
	r := &Realigner{Translator: tr}

	lines, _, err := r.Realign(context.Background(), "A B C", Paragraphs{{"a", "b"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A extra", "B extra"}, lines)
}

func TestRealign_ResultMatchesLineCount(t *testing.T) {
	expected := Paragraphs{{"a", "b"}, {"c"}, {"d", "e", "f"}, {"g"}}
	inputs := []string{
		"",
		"A",
		"A B C D E F G",
		"A\nB\n\nC\n\nD\nE\n\nG",
		"A\n\n\n\nB\n\nC\n\nD",
		"A\nB\n\nC\n\nD\nE\nF\n\nG\n\nH\n\nI",
	}

	for _, in := range inputs {
		r := &Realigner{Translator: &recordingTranslator{}}
		lines, _, err := r.Realign(context.Background(), in, expected)
		require.NoError(t, err)
		assert.Len(t, lines, expected.LineCount(), "input %q", in)
	}
}

func TestRealign_PropagatesTranslatorError(t *testing.T) {
	boom := errors.New("service unavailable")
	tr := &recordingTranslator{fn: func(string) (string, error) { return "", boom }}
	r := &Realigner{Translator: tr}

	_, _, err := r.Realign(context.Background(), "A B", Paragraphs{{"a", "b"}})

	assert.ErrorIs(t, err, boom)
}
