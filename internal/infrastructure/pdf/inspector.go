// Package pdf inspects uploaded document attachments.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNotPDF is returned when the content does not start with a PDF header
	ErrNotPDF = errors.New("content is not a PDF document")

	cuitPattern = regexp.MustCompile(`\b(20|23|24|27|30|33|34)-?(\d{8})-?(\d)\b`)
	caePattern  = regexp.MustCompile(`(?i)\bC\.?A\.?[EI]\.?\s*(?:N[°ºo.]*\s*)?:?\s*(\d{14})\b`)
)

// Info is what an upload reveals about its content
type Info struct {
	Pages   int
	HasText bool
	CUITs   []string // normalized, in order of appearance, without duplicates
	CAE     string
}

// Inspector reads PDFs in memory
type Inspector struct {
	maxTextPages int
}

// NewInspector creates an inspector that extracts text from at most
// maxTextPages pages; page counting always covers the whole file
func NewInspector(maxTextPages int) *Inspector {
	if maxTextPages <= 0 {
		maxTextPages = 3
	}
	return &Inspector{maxTextPages: maxTextPages}
}

// Inspect counts pages and scans the text layer for CUITs and the CAE.
// A PDF without a readable text layer (scans) is not an error.
func (i *Inspector) Inspect(content []byte) (*Info, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(content, "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	info := &Info{Pages: r.NumPage()}
	if info.Pages == 0 {
		return nil, fmt.Errorf("failed to read PDF: no pages")
	}

	var text strings.Builder
	for n := 1; n <= info.Pages && n <= i.maxTextPages; n++ {
		page := r.Page(n)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
		text.WriteByte('\n')
	}

	info.HasText = strings.TrimSpace(text.String()) != ""
	info.CUITs, info.CAE = extractFields(text.String())
	return info, nil
}

func extractFields(text string) ([]string, string) {
	var cuits []string
	seen := make(map[string]struct{})
	for _, m := range cuitPattern.FindAllStringSubmatch(text, -1) {
		cuit := m[1] + m[2] + m[3]
		if _, ok := seen[cuit]; ok {
			continue
		}
		seen[cuit] = struct{}{}
		cuits = append(cuits, cuit)
	}

	var cae string
	if m := caePattern.FindStringSubmatch(text); m != nil {
		cae = m[1]
	}
	return cuits, cae
}
