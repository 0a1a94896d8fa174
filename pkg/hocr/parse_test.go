package hocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const tesseractPage = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title></title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name='ocr-system' content='tesseract 5.3.0' />
  <meta name='ocr-capabilities' content='ocr_page ocr_carea ocr_par ocr_line ocrx_word'/>
 </head>
 <body>
  <div class='ocr_page' id='page_1' title='image "scan.png"; bbox 0 0 200 120; ppageno 0'>
   <div class='ocr_carea' id='block_1_1' title="bbox 10 10 110 70">
    <p class='ocr_par' id='par_1_1' lang='eng' title="bbox 10 10 110 70">
     <span class='ocr_line' id='line_1_1' title="bbox 10 10 110 32; baseline 0 -4; x_size 20">
      <span class='ocrx_word' id='word_1_1' title='bbox 10 10 50 30; x_wconf 96'>Hello</span>
      <span class='ocrx_word' id='word_1_2' title='bbox 60 12 110 32; x_wconf 91'>world</span>
     </span>
     <span class='ocr_header' id='line_1_2' title="bbox 10 50 40 70">
      <span class='ocrx_word' id='word_1_3' title='bbox 10 50 40 70; x_wconf 88'><strong>Foo</strong></span>
     </span>
    </p>
   </div>
   <div class='ocr_carea' id='block_1_2' title="bbox 100 100 120 115">
    <p class='ocr_par' id='par_1_2' title="bbox 100 100 120 115">
     <span class='ocr_line' id='line_1_3' title="bbox 100 100 120 115">
      <span class='ocrx_word' id='word_1_4' title='bbox 100 100 120 115; x_wconf 99'>12</span>
     </span>
    </p>
    <p class='ocr_par' id='par_1_3' title="bbox 0 0 1 1">
     <span class='ocr_line' id='line_1_4' title="bbox 0 0 1 1">
      <span class='ocrx_word' id='word_1_5' title='bbox 0 0 1 1; x_wconf 0'> </span>
     </span>
    </p>
   </div>
  </div>
 </body>
</html>`

func TestParseHOCR(t *testing.T) {
	doc, err := ParseHOCR([]byte(tesseractPage))
	require.NoError(t, err)

	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, "tesseract 5.3.0", doc.Metadata["ocr-system"])
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	assert.Equal(t, "page_1", page.ID)
	assert.Equal(t, "scan.png", page.ImageName)
	assert.Equal(t, NewBoundingBox(0, 0, 200, 120), page.BBox)
	require.Len(t, page.Areas, 2)

	par := page.Areas[0].Paragraphs[0]
	assert.Equal(t, "eng", par.Lang)
	require.Len(t, par.Lines, 2)
	assert.Equal(t, "0 -4", par.Lines[0].Baseline)
	require.Len(t, par.Lines[0].Words, 2)

	w := par.Lines[0].Words[1]
	assert.Equal(t, "world", w.Text)
	assert.Equal(t, 91.0, w.Confidence)
	assert.Equal(t, NewBoundingBox(60, 12, 110, 32), w.BBox)
	assert.Equal(t, 50.0, w.BBox.Width())
	assert.Equal(t, 20.0, w.BBox.Height())

	assert.Equal(t, "Foo", par.Lines[1].Words[0].Text)
}

func TestParseHOCR_NoPages(t *testing.T) {
	_, err := ParseHOCR([]byte("<html><body><p>nothing</p></body></html>"))
	assert.Error(t, err)
}

func TestParseHOCR_Latin1(t *testing.T) {
	src := `<html><head><meta http-equiv="Content-Type" content="text/html; charset=ISO-8859-1"/></head>` +
		`<body><div class='ocr_page' title='bbox 0 0 10 10'><span class='ocr_line' title='bbox 0 0 10 10'>` +
		`<span class='ocrx_word' title='bbox 0 0 10 10'>Café</span></span></div></body></html>`
	latin1, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	doc, err := ParseHOCR([]byte(latin1))
	require.NoError(t, err)

	require.Len(t, doc.Pages[0].Lines, 1)
	assert.Equal(t, "Café", doc.Pages[0].Lines[0].Words[0].Text)
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle(`bbox 100 200 300 400; x_wconf 95;  ; baseline 0.01 -3`)

	assert.Equal(t, []string{"100", "200", "300", "400"}, props["bbox"])
	assert.Equal(t, []string{"95"}, props["x_wconf"])
	assert.Equal(t, []string{"0.01", "-3"}, props["baseline"])

	assert.Nil(t, ParseBoundingBoxFromTitle("x_wconf 95"))
	assert.Nil(t, ParseBoundingBoxFromTitle("bbox 1 2 3"))
	assert.Nil(t, ParseBoundingBoxFromTitle("bbox 1 2 3 x"))
	assert.Equal(t, &BoundingBox{X1: 1, Y1: 2, X2: 3, Y2: 4}, ParseBoundingBoxFromTitle("bbox 1 2 3 4"))
}

func TestBlocksAndPlainText(t *testing.T) {
	doc, err := ParseHOCR([]byte(tesseractPage))
	require.NoError(t, err)
	page := doc.Pages[0]

	blocks := page.Blocks()
	require.Len(t, blocks, 2, "whitespace-only paragraph is dropped")
	assert.Len(t, blocks[0], 2)
	assert.Equal(t, "Hello world", blocks[0][0].Text())

	assert.Equal(t, "Hello world\nFoo\n\n12", PlainText(page))
}

func TestBlocks_LooseElements(t *testing.T) {
	word := func(text string) Word { return Word{Text: text} }
	page := Page{
		Areas: []Area{{
			Lines: []Line{{Words: []Word{word("a")}}, {Words: []Word{word("b")}}},
			Words: []Word{word("c"), word("d")},
		}},
		Paragraphs: []Paragraph{{Words: []Word{word("e")}}},
		Lines:      []Line{{Words: []Word{word("f")}}, {Words: []Word{word("g")}}},
	}

	assert.Equal(t, "a\nb\n\nc d\n\ne\n\nf\n\ng", PlainText(page))
}
