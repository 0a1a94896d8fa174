package pdfpages

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	_ "golang.org/x/image/tiff"
)

func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in a PDF.
func PageCount(pdf []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(pdf), pdfConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return n, nil
}

// Split extracts the scanned image of every page. When a page carries several
// images the largest one is taken. Pages without a decodable image are
// reported as an error.
func Split(ctx context.Context, pdf []byte) ([]image.Image, error) {
	n, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}

	best := make(map[int]model.Image, n)
	data := make(map[int][]byte, n)
	digest := func(img model.Image, _ bool, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if img.IsImgMask || img.Thumb {
			return nil
		}
		if cur, ok := best[img.PageNr]; ok && cur.Width*cur.Height >= img.Width*img.Height {
			return nil
		}
		raw, err := io.ReadAll(img)
		if err != nil {
			return fmt.Errorf("failed to read image %s on page %d: %w", img.Name, img.PageNr, err)
		}
		best[img.PageNr] = img
		data[img.PageNr] = raw
		return nil
	}
	if err := api.ExtractImages(bytes.NewReader(pdf), nil, digest, pdfConfig()); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	pages := make([]image.Image, n)
	for i := range pages {
		raw, ok := data[i+1]
		if !ok {
			return nil, fmt.Errorf("page %d has no image", i+1)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s image on page %d: %w", best[i+1].FileType, i+1, err)
		}
		pages[i] = img
	}
	return pages, nil
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
}

// LoadImageDir loads every image in dir, sorted by file name.
func LoadImageDir(dir string) ([]image.Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no images found in %s", dir)
	}
	sort.Strings(names)

	pages := make([]image.Image, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}
