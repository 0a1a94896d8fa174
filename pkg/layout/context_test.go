package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextTracker_WrapUnwrap(t *testing.T) {
	var c ContextTracker
	require.NoError(t, c.Set("previous sentence"))

	wrapped := c.Wrap("Foo\nBar", true)
	assert.Equal(t, "previous sentence\nFoo\nBar", wrapped)
	assert.True(t, c.Injected())

	text, err := c.Unwrap("phrase précédente\nFoo\nBar")
	require.NoError(t, err)
	assert.Equal(t, "Foo\nBar", text)

	text, err = c.Unwrap("phrase précédente\n\nFoo\nBar")
	require.NoError(t, err)
	assert.Equal(t, "Foo\nBar", text)

	_, err = c.Unwrap("no break at all")
	assert.ErrorIs(t, err, ErrContextStrip)
}

func TestContextTracker_WrapDisabled(t *testing.T) {
	var c ContextTracker
	require.NoError(t, c.Set("ctx"))

	assert.Equal(t, "text", c.Wrap("text", false))
	assert.False(t, c.Injected())
	assert.Equal(t, "", c.Wrap("", true))
	assert.False(t, c.Injected())

	text, err := c.Unwrap("single line")
	require.NoError(t, err)
	assert.Equal(t, "single line", text)

	c.Clear()
	assert.Equal(t, "text", c.Wrap("text", true))
}

func TestContextTracker_Advance(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "last paragraph", text: "first\n\nsecond line\nthird line", expected: "second line third line"},
		{name: "skips page number", text: "Hello world\n\n12", expected: "Hello world"},
		{name: "page number only", text: "42", expected: ""},
		{name: "single paragraph", text: "one\ntwo", expected: "one two"},
		{name: "not numeric with spaces", text: "a\n\n1 2", expected: "1 2"},
		{name: "empty page", text: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c ContextTracker
			require.NoError(t, c.Set("stale"))
			require.NoError(t, c.Advance(tt.text))
			assert.Equal(t, tt.expected, c.Context())
			assert.NotContains(t, c.Context(), "\n")
		})
	}
}

func TestContextTracker_SetRejectsMultiline(t *testing.T) {
	var c ContextTracker
	err := c.Set("two\nlines")
	assert.ErrorIs(t, err, ErrInvalidContext)
	assert.Empty(t, c.Context())
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, isNumeric("12"))
	assert.True(t, isNumeric("½"))
	assert.True(t, isNumeric("٣"))
	assert.False(t, isNumeric(""))
	assert.False(t, isNumeric("12a"))
	assert.False(t, isNumeric("-1"))
}
