package hocr

// HOCR represents the entire hOCR document structure
type HOCR struct {
	Title       string            // Document title
	Description string            // Document description
	Language    string            // Document language
	Metadata    map[string]string // ocr-system, ocr-langs and similar meta tags
	Pages       []Page            // Pages in the document
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string      // Unique identifier
	PageNumber int         // Physical page number (ppageno)
	ImageName  string      // Source image filename
	Lang       string      // Language code for this page
	BBox       BoundingBox // Page coordinates
	Areas      []Area      // Content areas (columns)
	Paragraphs []Paragraph // Paragraphs directly under page
	Lines      []Line      // Lines directly under page (no parent)
}

// Area represents a content area (column or region)
// Corresponds to hOCR element with class: 'ocr_carea'
type Area struct {
	ID         string
	BBox       BoundingBox
	Paragraphs []Paragraph // Paragraphs in this area
	Lines      []Line      // Text lines directly under area
	Words      []Word      // Words directly under area (no line parent)
}

// Paragraph represents a paragraph within an area
// Corresponds to hOCR element with class: 'ocr_par'
type Paragraph struct {
	ID    string
	Lang  string
	BBox  BoundingBox
	Lines []Line // Text lines in this paragraph
	Words []Word // Words directly under paragraph (no line parent)
}

// Line represents a line of text
// Corresponds to hOCR elements with class 'ocr_line', 'ocr_header',
// 'ocr_caption' or 'ocr_textfloat'
type Line struct {
	ID       string
	BBox     BoundingBox
	Baseline string // Baseline slope and offset, as written in the title
	Words    []Word
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // Recognition confidence (0-100)
	Lang       string
}

// BoundingBox represents a rectangle in page pixels
// Used to store hOCR 'bbox' property values
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from its top-left and bottom-right corners.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns X2 - X1.
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height returns Y2 - Y1.
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }
