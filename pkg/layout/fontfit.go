package layout

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// MaxFontSize is the largest pixel size an OpenTypeFont provides.
const MaxFontSize = 4096

// FontSource yields faces of one typeface at integer pixel sizes. Face returns
// an error wrapping ErrInvalidFontSize for sizes it cannot provide.
type FontSource interface {
	Face(size int) (font.Face, error)
}

// OpenTypeFont is a FontSource backed by a parsed TrueType or OpenType font.
// Faces are cached per size. It is not safe for concurrent use.
type OpenTypeFont struct {
	font  *sfnt.Font
	faces map[int]font.Face
}

// LoadFont reads and parses a TrueType or OpenType font file.
func LoadFont(path string) (*OpenTypeFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	return ParseFont(data)
}

// ParseFont parses TrueType or OpenType font data.
func ParseFont(data []byte) (*OpenTypeFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &OpenTypeFont{font: f, faces: make(map[int]font.Face)}, nil
}

// Face returns the face at the given pixel size, valid in [1, MaxFontSize].
func (f *OpenTypeFont) Face(size int) (font.Face, error) {
	if size < 1 || size > MaxFontSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFontSize, size)
	}
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face of size %d: %w", size, err)
	}
	f.faces[size] = face
	return face, nil
}

// TextWidth returns the rendered width of s in pixels.
func TextWidth(face font.Face, s string) int {
	bounds, _ := font.BoundString(face, s)
	return bounds.Max.X.Ceil()
}

// FitFontSize returns the largest font size whose rendering of text is at most
// width pixels wide. Sizes grow by doubling until the text is too wide; once the
// font rejects a doubled size the search continues in steps of one, and a
// rejected step ends it at the largest accepted size. The final size is found
// by binary search between the last fitting and the first too-wide size.
// The result is never below 1.
func FitFontSize(text string, width int, src FontSource) int {
	fits := func(size int) (ok, valid bool) {
		face, err := src.Face(size)
		if err != nil {
			return false, false
		}
		return TextWidth(face, text) <= width, true
	}

	lo := 1
	if ok, _ := fits(lo); !ok {
		return lo
	}

	hi := 0
	stepping := false
	for hi == 0 {
		next := lo * 2
		if stepping {
			next = lo + 1
		}
		ok, valid := fits(next)
		switch {
		case !valid && stepping:
			return lo
		case !valid:
			stepping = true
		case ok:
			lo = next
		default:
			hi = next
		}
	}

	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if ok, _ := fits(mid); ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
