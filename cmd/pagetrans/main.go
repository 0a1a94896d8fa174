// pagetrans is a command-line tool for translating scanned documents while keeping their layout.
//
// Every page is recognized with an OCR engine, its lines and paragraphs are rebuilt, the text is
// translated and each translated line is painted over the box of its source line. The translated
// pages are assembled into a new PDF with an optional invisible text layer.
//
// Configuration:
//
// The tool reads a YAML configuration file, see package config for all keys:
//
//	source_language: "ru"
//	target_language: "en"
//	font: "fonts/arial.ttf"
//	ocr:
//	  engine: "tesseract"
//	translator:
//	  provider: "libretranslate"
//	  api_url: "http://localhost:5000"
//
// Usage:
//
//	pagetrans -config config.yml -input document.pdf [options]
//
// Input options (one required):
//
//	-input string      Path to a scanned PDF
//	-image-dir string  Directory containing page images
//
// Processing options:
//
//	-output string     Output PDF path (default <name>.<lang>.pdf or <name>.<first>-<last>.<lang>.pdf)
//	-first int         First page to translate (1-based)
//	-last int          Last page to translate (1-based)
//	-font string       Font file, overrides the config
//	-save-context      Carry context between consecutive pages, overrides the config
//	-overwrite         Overwrite the output file if it exists
//
// When a page fails the tool asks whether to retry it, skip it or finish with the pages
// translated so far.
//
// Example:
//
//	export TRANSLATOR_API_KEY=...
//	pagetrans -config config.yml -input book.pdf -first 3 -last 10
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/ocrtranslate/pkg/config"
	"github.com/gardar/ocrtranslate/pkg/layout"
	"github.com/gardar/ocrtranslate/pkg/ocr"
	"github.com/gardar/ocrtranslate/pkg/pdfpages"
	"github.com/gardar/ocrtranslate/pkg/pipeline"
	"github.com/gardar/ocrtranslate/pkg/translate"
)

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	inputPath := flag.String("input", "", "Path to a scanned PDF to translate")
	imageDirPath := flag.String("image-dir", "", "Directory containing page images")
	outputPath := flag.String("output", "", "Output PDF path")
	first := flag.Int("first", 0, "First page to translate (1-based index)")
	last := flag.Int("last", 0, "Last page to translate (1-based index)")
	fontPath := flag.String("font", "", "Font file to draw the translation with")
	saveContext := flag.Bool("save-context", true, "Carry context between consecutive pages")
	overwriteOutput := flag.Bool("overwrite", false, "Overwrite the output PDF if it already exists")
	flag.Parse()

	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	if (*inputPath == "") == (*imageDirPath == "") {
		fmt.Fprintln(os.Stderr, "Error: Either -input or -image-dir must be provided (but not both)")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *fontPath != "" {
		cfg.Font = *fontPath
	}
	if providedFlags["save-context"] {
		cfg.SaveContext = *saveContext
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, options{
		input:     *inputPath,
		imageDir:  *imageDirPath,
		output:    *outputPath,
		pages:     config.PageRange{First: *first, Last: *last},
		overwrite: *overwriteOutput,
	}, log); err != nil {
		log.WithError(err).Error("Translation failed")
		closeLog()
		os.Exit(1)
	}
}

type options struct {
	input     string
	imageDir  string
	output    string
	pages     config.PageRange
	overwrite bool
}

func newLogger(cfg *config.Config) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(cfg.Level())
	if cfg.LogFile == "" {
		return log, func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return log, func() { f.Close() }, nil
}

func run(ctx context.Context, cfg *config.Config, opts options, log *logrus.Logger) error {
	source := opts.input
	var pages []image.Image
	var err error
	if opts.input != "" {
		log.WithField("input", opts.input).Info("Splitting PDF into pages")
		data, err := os.ReadFile(opts.input)
		if err != nil {
			return fmt.Errorf("failed to read input PDF: %w", err)
		}
		pages, err = pdfpages.Split(ctx, data)
		if err != nil {
			return err
		}
	} else {
		source = filepath.Clean(opts.imageDir)
		pages, err = pdfpages.LoadImageDir(opts.imageDir)
		if err != nil {
			return err
		}
	}
	log.WithField("pages", len(pages)).Info("Loaded pages")

	pageRange, err := opts.pages.Resolve(len(pages))
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = config.OutputPath(source, cfg.TargetLanguage, pageRange, len(pages))
	}
	if _, err := os.Stat(output); err == nil {
		if !opts.overwrite {
			return fmt.Errorf("output file %s already exists, use -overwrite to overwrite", output)
		}
	}

	font, err := layout.LoadFont(cfg.Font)
	if err != nil {
		return err
	}

	recognizer, err := ocr.New(ctx, cfg.OCR, log)
	if err != nil {
		return err
	}
	defer ocr.Close(recognizer)

	translator, err := translate.New(cfg.Translator, log)
	if err != nil {
		return err
	}

	engine, err := layout.NewEngine(recognizer, translator, font, layout.Config{
		Language:       cfg.SourceLanguage,
		InitialContext: cfg.InitialContext,
		Logger:         log,
	})
	if err != nil {
		return err
	}

	in := bufio.NewReader(os.Stdin)
	p := pipeline.New(engine, pipeline.Config{
		SaveContext: cfg.SaveContext,
		OnFailure: func(perr *pipeline.PageError) pipeline.Decision {
			log.WithError(perr).Warn("Exception raised while translating page")
			return promptDecision(in, os.Stderr)
		},
		Logger: log,
	})

	log.Info("Starting translation")
	res, runErr := p.Run(ctx, pages, pageRange.Indices())
	if runErr != nil {
		log.WithError(runErr).Error("Translation stopped")
		if len(res.Pages) == 0 || !promptYesNo(in, os.Stderr, "Save progress? (y/n)") {
			return runErr
		}
	}
	if len(res.Pages) == 0 {
		return errors.New("no pages were translated")
	}

	assembled := make([]pdfpages.Page, 0, len(res.Pages))
	for _, page := range res.Pages {
		assembled = append(assembled, pdfpages.Page{Image: page.Image, Lines: page.TextLines()})
	}

	pdfCfg := pdfpages.DefaultConfig()
	pdfCfg.TextLayer = cfg.Output.TextLayer
	pdfCfg.Debug = cfg.Output.Debug
	pdfCfg.Title = strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	pdfCfg.Logger = log
	if pdfCfg.TextLayer && strings.EqualFold(filepath.Ext(cfg.Font), ".ttf") {
		fontData, err := os.ReadFile(cfg.Font)
		if err != nil {
			return fmt.Errorf("failed to read font: %w", err)
		}
		pdfCfg.Font = pdfpages.FontConfig{Name: "translation", Size: 10, AscentRatio: 0.8, File: fontData}
	}

	log.WithField("pages", len(assembled)).Info("Assembling PDF")
	pdf, err := pdfpages.Assemble(assembled, pdfCfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, pdf, 0644); err != nil {
		return fmt.Errorf("failed to write output PDF: %w", err)
	}
	log.WithField("output", output).Info("Translated PDF created")
	return nil
}

// promptDecision asks until the answer is r, s or f. End of input finishes.
func promptDecision(in *bufio.Reader, out io.Writer) pipeline.Decision {
	fmt.Fprint(out, "Put according letter and press 'enter':\n"+
		"r: retry to translate this page and continue translating\n"+
		"s: skip page and continue translating\n"+
		"f: finish translation and save translated pages\n")
	for {
		line, err := in.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "r":
			return pipeline.Retry
		case "s":
			return pipeline.Skip
		case "f":
			return pipeline.Finish
		}
		if err != nil {
			return pipeline.Finish
		}
		fmt.Fprintln(out, "Incorrect symbol. Type 'r', 's' or 'f' and press 'enter'")
	}
}

// promptYesNo asks until the answer is y or n. End of input answers no.
func promptYesNo(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintln(out, question)
	for {
		line, err := in.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "y":
			return true
		case "n":
			return false
		}
		if err != nil {
			return false
		}
		fmt.Fprintln(out, "Incorrect symbol. Type 'y' or 'n' and press 'enter'")
	}
}
