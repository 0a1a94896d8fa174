package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

const (
	classPage      = "ocr_page"
	classArea      = "ocr_carea"
	classParagraph = "ocr_par"
	classWord      = "ocrx_word"
)

// lineClasses are the element classes Tesseract uses for text lines.
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

// ParseHOCR converts raw hOCR data into a structured HOCR object.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	decoded, err := decodeCharset(data)
	if err != nil {
		return result, err
	}

	doc, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return result, fmt.Errorf("failed to parse hOCR HTML: %w", err)
	}

	extractDocumentMeta(&result, doc)

	for _, n := range collect(doc, classPage) {
		result.Pages = append(result.Pages, processPage(n))
	}

	if len(result.Pages) == 0 {
		return result, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return result, nil
}

// decodeCharset converts ISO-8859-1 documents to UTF-8. Other documents are
// returned unchanged.
func decodeCharset(data []byte) ([]byte, error) {
	i := bytes.Index(data, []byte("charset="))
	if i < 0 {
		return data, nil
	}
	snippet := string(data[i+len("charset=") : min(len(data), i+len("charset=")+20)])
	fields := strings.FieldsFunc(snippet, func(r rune) bool {
		return r == '"' || r == ';' || r == '\'' || r == '>' || r == ' ' || r == '/'
	})
	if len(fields) == 0 {
		return data, nil
	}

	switch enc := strings.ToLower(fields[0]); enc {
	case "iso-8859-1", "latin1", "latin-1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
		return decoded, nil
	default:
		return data, nil
	}
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var coords [4]float64
	for i := range coords {
		v, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		coords[i] = v
	}
	result := NewBoundingBox(coords[0], coords[1], coords[2], coords[3])
	return &result
}

// extractDocumentMeta reads the html lang attribute and the head section
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "html" {
			if lang := attrVal(c, "lang"); lang != "" {
				result.Language = lang
			} else if lang := attrVal(c, "xml:lang"); lang != "" {
				result.Language = lang
			}
		}
	}

	head := findElement(doc, "head")
	if head == nil {
		return
	}

	for c := head.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			if c.FirstChild != nil {
				result.Title = c.FirstChild.Data
			}
		case "meta":
			name, content := attrVal(c, "name"), attrVal(c, "content")
			if name == "" || content == "" {
				continue
			}
			switch name {
			case "ocr-system", "ocr-capabilities", "ocr-number-of-pages", "ocr-langs":
				result.Metadata[name] = content
			case "description":
				result.Description = content
			case "dc.language":
				result.Language = content
			}
		}
	}
}

func processPage(n *html.Node) Page {
	page := Page{ID: attrVal(n, "id"), Lang: attrVal(n, "lang")}
	title := attrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		page.BBox = *bbox
	}
	props := ParseTitle(title)
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(image[0], `"`)
	}
	if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}

	for _, child := range collect(n, append([]string{classArea, classParagraph}, lineClasses...)...) {
		switch {
		case hasClass(child, classArea):
			page.Areas = append(page.Areas, processArea(child))
		case hasClass(child, classParagraph):
			page.Paragraphs = append(page.Paragraphs, processParagraph(child))
		default:
			page.Lines = append(page.Lines, processLine(child))
		}
	}
	return page
}

func processArea(n *html.Node) Area {
	area := Area{ID: attrVal(n, "id"), BBox: bboxOf(n)}
	for _, child := range collect(n, append([]string{classParagraph, classWord}, lineClasses...)...) {
		switch {
		case hasClass(child, classParagraph):
			area.Paragraphs = append(area.Paragraphs, processParagraph(child))
		case hasClass(child, classWord):
			area.Words = append(area.Words, processWord(child))
		default:
			area.Lines = append(area.Lines, processLine(child))
		}
	}
	return area
}

func processParagraph(n *html.Node) Paragraph {
	par := Paragraph{ID: attrVal(n, "id"), Lang: attrVal(n, "lang"), BBox: bboxOf(n)}
	for _, child := range collect(n, append([]string{classWord}, lineClasses...)...) {
		if hasClass(child, classWord) {
			par.Words = append(par.Words, processWord(child))
		} else {
			par.Lines = append(par.Lines, processLine(child))
		}
	}
	return par
}

func processLine(n *html.Node) Line {
	line := Line{ID: attrVal(n, "id"), BBox: bboxOf(n)}
	if baseline, ok := ParseTitle(attrVal(n, "title"))["baseline"]; ok {
		line.Baseline = strings.Join(baseline, " ")
	}
	for _, child := range collect(n, classWord) {
		line.Words = append(line.Words, processWord(child))
	}
	return line
}

func processWord(n *html.Node) Word {
	word := Word{ID: attrVal(n, "id"), Lang: attrVal(n, "lang"), BBox: bboxOf(n)}
	props := ParseTitle(attrVal(n, "title"))
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	if lang, ok := props["lang"]; ok && len(lang) > 0 {
		word.Lang = lang[0]
	}
	word.Text = textContent(n)
	return word
}

// collect returns the outermost descendants of n carrying one of classes,
// in document order. It does not descend into a matched element.
func collect(n *html.Node, classes ...string) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasAnyClass(c, classes) {
				found = append(found, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func bboxOf(n *html.Node) BoundingBox {
	if bbox := ParseBoundingBoxFromTitle(attrVal(n, "title")); bbox != nil {
		return *bbox
	}
	return BoundingBox{}
}

// textContent gets all text from a node and its children
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func hasAnyClass(n *html.Node, classes []string) bool {
	for _, class := range classes {
		if hasClass(n, class) {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}
