package layout

import "errors"

var (
	// ErrInternalAlignment means the page text and the line boxes disagree on
	// the number of lines. It indicates a defect, and the page cannot be retried.
	ErrInternalAlignment = errors.New("line count does not match line boxes")

	// ErrContextStrip means context was injected but the translation has no
	// line break to strip it at.
	ErrContextStrip = errors.New("cannot strip context from translation")

	// ErrInvalidContext means a context candidate spans more than one line.
	ErrInvalidContext = errors.New("context must be a single line")

	// ErrInvalidFontSize is returned by a FontSource for sizes it cannot provide.
	ErrInvalidFontSize = errors.New("invalid font size")

	// ErrNoPage is returned by Render when no page was extracted first.
	ErrNoPage = errors.New("no page in progress")
)
