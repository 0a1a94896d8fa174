// Package pdfpages moves page images in and out of PDF documents.
//
// Split pulls the scanned image of every page out of a PDF, LoadImageDir reads
// page images from a directory, and Assemble builds a new PDF with one image
// per page. Assemble can add an invisible text layer with the translated lines
// at the positions they were painted, which keeps the translated PDF
// searchable and its text selectable.
//
// Main Functions:
//
// - Split: extracts one image per page from a scanned PDF
// - PageCount: counts the pages of a PDF
// - LoadImageDir: loads page images from a directory in name order
// - Assemble: creates a PDF from page images with an optional text layer
package pdfpages

import (
	"image"
)

// TextLine is a line of text placed on a page, in page pixels.
type TextLine struct {
	Text string
	Box  image.Rectangle
}

// Page is one page of an assembled PDF.
type Page struct {
	Image image.Image
	Lines []TextLine
}
