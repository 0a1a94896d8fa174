// Package ocr provides the recognizers that feed word streams to the layout
// engine. Recognizers are selected by name from a registry:
//
//   - "tesseract": local Tesseract via gosseract (requires the "tesseract" build tag)
//   - "documentai": Google Document AI
//   - "hocr": pre-computed hOCR output, one ocr_page per document page
//
// Every recognizer produces hOCR-shaped results that are flattened by
// WordsFromPage into the sentinel-delimited word stream layout.Cluster expects.
package ocr

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/gdocai"
	"github.com/gardar/ocrtranslate/pkg/layout"
)

// Config selects and configures a recognizer.
type Config struct {
	Engine string `yaml:"engine"`
	// PageSegMode is the Tesseract page segmentation mode (0 = library default).
	PageSegMode int `yaml:"page_seg_mode"`
	// HOCRFile is the hOCR document read by the "hocr" engine.
	HOCRFile   string        `yaml:"hocr_file"`
	DocumentAI gdocai.Config `yaml:"documentai"`
	// DumpDir receives raw recognizer responses for debugging, when supported.
	DumpDir string `yaml:"dump_dir"`
}

// Factory creates a recognizer from its configuration.
type Factory func(ctx context.Context, cfg Config, log logrus.FieldLogger) (layout.Recognizer, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"documentai": newDocumentAI,
		"hocr":       newHOCRFile,
	}
)

// Register makes a recognizer available under name, replacing any previous one.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Names lists the registered recognizers.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the recognizer named by cfg.Engine. Recognizers holding
// resources implement io.Closer.
func New(ctx context.Context, cfg Config, log logrus.FieldLogger) (layout.Recognizer, error) {
	mu.RLock()
	factory, ok := factories[cfg.Engine]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown OCR engine %q (available: %v)", cfg.Engine, Names())
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return factory(ctx, cfg, log.WithField("ocr", cfg.Engine))
}

// Close closes r if it holds resources.
func Close(r layout.Recognizer) error {
	if c, ok := r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
