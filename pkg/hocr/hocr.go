// Package hocr parses hOCR, the HTML-based format Tesseract and other OCR
// engines use to report recognized text with its position on the page.
//
// The package models the hOCR hierarchy:
// Document → Pages → Areas → Paragraphs → Lines → Words.
// Elements that skip a level, such as lines directly under an area, are kept
// on the closest parent that exists.
//
// Key Types:
//
// - HOCR: an entire hOCR document
// - Page: a page with class 'ocr_page'
// - Area: a content area with class 'ocr_carea'
// - Paragraph: a paragraph with class 'ocr_par'
// - Line: a line with class 'ocr_line' (or a Tesseract line variant)
// - Word: a word with class 'ocrx_word'
//
// Main Functions:
//
// - ParseHOCR: parses hOCR HTML into the object model
// - Page.Blocks: lists lines grouped by paragraph in reading order
// - PlainText: renders a page as text, one line per hOCR line
package hocr
