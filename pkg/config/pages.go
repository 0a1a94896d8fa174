package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PageRange is a 1-based inclusive page range. Zero bounds are unset.
type PageRange struct {
	First int
	Last  int
}

// Resolve fills unset bounds for a document with count pages and checks them.
func (r PageRange) Resolve(count int) (PageRange, error) {
	out := r
	if out.First == 0 {
		out.First = 1
	}
	if out.Last == 0 {
		out.Last = count
	}

	info := fmt.Sprintf("total number of pages = %d, first page = %s, last page = %s",
		count, bound(r.First), bound(r.Last))
	if r.First != 0 && (r.First < 1 || r.First > count) {
		return PageRange{}, fmt.Errorf("incorrect value for first page: %s", info)
	}
	if r.Last != 0 && (r.Last < 1 || r.Last > count) {
		return PageRange{}, fmt.Errorf("incorrect value for last page: %s", info)
	}
	if out.First > out.Last {
		return PageRange{}, fmt.Errorf("first page must not be more than last page: %s", info)
	}
	return out, nil
}

func bound(n int) string {
	if n == 0 {
		return "<not specified>"
	}
	return fmt.Sprint(n)
}

// Indices returns the zero-based indices of a resolved range.
func (r PageRange) Indices() []int {
	out := make([]int, 0, r.Last-r.First+1)
	for i := r.First - 1; i < r.Last; i++ {
		out = append(out, i)
	}
	return out
}

// Entire reports whether a resolved range covers all count pages.
func (r PageRange) Entire(count int) bool {
	return r.First == 1 && r.Last == count
}

// OutputPath names the translated PDF next to the source: <name>.<lang>.pdf
// for a whole document, <name>.<first>-<last>.<lang>.pdf for part of one.
func OutputPath(source, lang string, r PageRange, count int) string {
	dir := filepath.Dir(source)
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if r.Entire(count) {
		return filepath.Join(dir, fmt.Sprintf("%s.%s.pdf", name, lang))
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%d-%d.%s.pdf", name, r.First, r.Last, lang))
}
