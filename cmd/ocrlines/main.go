// ocrlines is a command-line tool for inspecting how a page is split into lines and paragraphs.
//
// It runs one OCR engine on one page and prints the reconstructed lines with their boxes,
// which is the text and geometry the translator and the compositor work with.
//
// Usage:
//
//	ocrlines -config config.yml -image page.png [options]
//	ocrlines -config config.yml -pdf document.pdf -page 3 [options]
//
// Options:
//
//	-engine string     OCR engine, overrides the config (tesseract, documentai, hocr)
//	-lang string       Source language, overrides the config
//	-debug-api string  Directory to save raw Document AI responses as JSON
//
// Example:
//
//	export GOOGLE_APPLICATION_CREDENTIALS=/path/to/credentials.json
//	ocrlines -config config.yml -engine documentai -image page.png -debug-api ./responses
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/tiff"

	"github.com/gardar/ocrtranslate/pkg/config"
	"github.com/gardar/ocrtranslate/pkg/layout"
	"github.com/gardar/ocrtranslate/pkg/ocr"
	"github.com/gardar/ocrtranslate/pkg/pdfpages"
)

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	imagePath := flag.String("image", "", "Path to a page image")
	pdfPath := flag.String("pdf", "", "Path to a scanned PDF")
	pageNum := flag.Int("page", 1, "Page of the PDF to inspect (1-based index)")
	engine := flag.String("engine", "", "OCR engine, overrides the config")
	lang := flag.String("lang", "", "Source language, overrides the config")
	debugAPIPath := flag.String("debug-api", "", "Directory to save raw Document AI responses as JSON")
	verbose := flag.Bool("v", false, "Log recognizer details")
	flag.Parse()

	if (*imagePath == "") == (*pdfPath == "") {
		fmt.Fprintln(os.Stderr, "Error: Either -image or -pdf must be provided (but not both)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *engine != "" {
		cfg.OCR.Engine = *engine
	}
	if *lang != "" {
		cfg.SourceLanguage = *lang
	}
	if *debugAPIPath != "" {
		if err := os.MkdirAll(*debugAPIPath, 0755); err != nil {
			log.Fatalf("Failed to create debug directory: %v", err)
		}
		cfg.OCR.DumpDir = *debugAPIPath
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx := context.Background()
	page, err := loadPage(ctx, *imagePath, *pdfPath, *pageNum)
	if err != nil {
		log.Fatalf("Failed to load page: %v", err)
	}

	recognizer, err := ocr.New(ctx, cfg.OCR, logger)
	if err != nil {
		log.Fatalf("Failed to create recognizer: %v", err)
	}
	defer ocr.Close(recognizer)

	words, err := recognizer.Recognize(layout.WithPageNumber(ctx, *pageNum), page, cfg.SourceLanguage)
	if err != nil {
		log.Fatalf("Failed to recognize page: %v", err)
	}

	text, boxes := layout.Cluster(words)
	pars, err := layout.IndexParagraphs(text, len(boxes))
	if err != nil {
		log.Fatalf("Failed to index paragraphs: %v", err)
	}

	fmt.Printf("%d words, %d lines, %d paragraphs\n", len(words), len(boxes), len(pars))
	n := 0
	for p, par := range pars {
		fmt.Printf("-- paragraph %d\n", p+1)
		for _, line := range par {
			b := boxes[n]
			n++
			fmt.Printf("%3d [%d,%d %dx%d] %s\n", n, b.X, b.Y, b.W, b.H, line)
		}
	}
	if *debugAPIPath != "" {
		fmt.Println("Raw responses saved to:", *debugAPIPath)
	}
}

func loadPage(ctx context.Context, imagePath, pdfPath string, pageNum int) (image.Image, error) {
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		return img, err
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, err
	}
	pages, err := pdfpages.Split(ctx, data)
	if err != nil {
		return nil, err
	}
	if pageNum < 1 || pageNum > len(pages) {
		return nil, fmt.Errorf("page %d out of range (1-%d)", pageNum, len(pages))
	}
	return pages[pageNum-1], nil
}
