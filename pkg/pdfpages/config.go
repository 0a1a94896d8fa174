package pdfpages

import (
	"github.com/sirupsen/logrus"
)

// Config holds user options for assembling a PDF
type Config struct {
	TextLayer bool               // Add an invisible layer with the page text
	Debug     bool               // Show the text layer in red with its boxes
	LayerName string             // Base name of the text layer (page number is appended)
	Title     string             // Document title metadata
	Font      FontConfig         // Font of the text layer
	Logger    logrus.FieldLogger // Warnings and progress (nil = discard)
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		TextLayer: true,
		LayerName: "Translated Text",
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for the text layer
type FontConfig struct {
	Name        string  // Font family name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Reference font size before scaling to the line width
	AscentRatio float64 // Vertical positioning ratio
	// File is a TrueType font registered as a UTF-8 font under Name. Without
	// it the text is encoded as ISO-8859-1 for the core fonts.
	File []byte
}

// DefaultFont sets the default font to Helvetica which is tried and tested for the text layer
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}
