// Package gdocai recognizes page images with Google Document AI and converts
// the response into the hOCR object model of package hocr.
//
// Document AI reports every page element as a text anchor into the document
// text plus a normalized bounding polygon. This package resolves the anchors,
// scales the polygons to page pixels and nests tokens into lines, lines into
// paragraphs and paragraphs into blocks by anchor containment.
//
// Main Functions:
//
// - NewClient / Client.Process: sends a document to a Document AI processor
// - RecognizeImage: processes one page image and returns it as an hocr.Page
// - CreateHOCRPage: converts a Document AI page into an hocr.Page
// - ToJSON: dumps raw responses for debugging
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via a credentials file or GOOGLE_APPLICATION_CREDENTIALS
package gdocai

import (
	"context"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/ocrtranslate/pkg/hocr"
)

// RecognizeImage processes a single encoded page image and converts the first
// page of the response. The raw response is returned for debugging.
func (c *Client) RecognizeImage(ctx context.Context, content []byte, mimeType string) (hocr.Page, *documentaipb.Document, error) {
	doc, err := c.Process(ctx, content, mimeType)
	if err != nil {
		return hocr.Page{}, nil, err
	}
	if len(doc.GetPages()) == 0 {
		return hocr.Page{}, doc, fmt.Errorf("document AI returned no pages")
	}

	page, err := CreateHOCRPage(doc.Pages[0], doc.Text, 1)
	if err != nil {
		return hocr.Page{}, doc, fmt.Errorf("failed to convert page: %w", err)
	}
	return page, doc, nil
}
