// Package pdftext pulls plain text out of statement PDFs page by page.
package pdftext

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/ledgerlift/statex/internal/textnorm"
)

// ErrEncrypted is returned when neither the supplied nor the empty password opens a PDF.
var ErrEncrypted = errors.New("encrypted PDF: password required")

// Line is one non-empty text line and the 1-based page it came from.
type Line struct {
	Page int
	Text string
}

// Document holds the raw text of every page.
type Document struct {
	Path  string
	Pages []string
}

// Open reads the PDF at path. The empty password is always tried; password
// is tried next when set.
func Open(path, password string) (doc *Document, err error) {
	// The reader panics on some malformed xref tables.
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("reading pdf %s: %v", path, rec)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	tried := false
	r, err := pdf.NewReaderEncrypted(f, info.Size(), func() string {
		if tried || password == "" {
			return ""
		}
		tried = true
		return password
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "password") {
			return nil, fmt.Errorf("%s: %w", path, ErrEncrypted)
		}
		return nil, fmt.Errorf("reading pdf: %w", err)
	}

	doc = &Document{Path: path}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			doc.Pages = append(doc.Pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		doc.Pages = append(doc.Pages, text)
	}
	return doc, nil
}

// FromPages builds a Document from already-extracted page text.
func FromPages(path string, pages ...string) *Document {
	return &Document{Path: path, Pages: pages}
}

// Text joins all pages and collapses whitespace into single spaces.
func (d *Document) Text() string {
	return textnorm.Collapse(strings.Join(d.Pages, "\n"))
}

// Lines splits every page into trimmed, space-collapsed, non-empty lines.
func (d *Document) Lines() []Line {
	var lines []Line
	for i, page := range d.Pages {
		for _, raw := range strings.Split(strings.ReplaceAll(page, "\r\n", "\n"), "\n") {
			text := textnorm.Collapse(raw)
			if text == "" {
				continue
			}
			lines = append(lines, Line{Page: i + 1, Text: text})
		}
	}
	return lines
}

// Len returns the total number of non-space characters across pages.
func (d *Document) Len() int {
	return len(strings.Join(strings.Fields(strings.Join(d.Pages, " ")), ""))
}

// LineText joins Lines with newlines, keeping line structure but not page breaks.
func (d *Document) LineText() string {
	lines := d.Lines()
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}
