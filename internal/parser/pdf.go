package parser

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/qaflag/qaflag-docs/internal/doctree"
)

const maxPDFTitle = 80

// PDFParser turns each page of a PDF into one section. Text comes from
// ledongthuc/pdf, or from the pdftotext binary when that fails and
// FallbackPdftotext is set.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	pages, err := pdfPages(data)
	if err != nil && p.FallbackPdftotext {
		pages, err = pdftotextPages(data)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	tree := &doctree.Tree{Title: baseTitle(filename)}
	for i, text := range pages {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(tree.Sections) == 0 {
			if title := firstLine(text); title != "" && len(title) <= maxPDFTitle {
				tree.Title = title
			}
		}
		tree.Sections = append(tree.Sections, &doctree.Section{
			Title: fmt.Sprintf("Page %d", i+1),
			Level: 2,
			Text:  text,
			Page:  i + 1,
		})
	}
	tree.AssignAnchors()
	return tree, nil
}

// pdfPages returns the plain text of every page; unreadable pages are empty.
func pdfPages(data []byte) ([]string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	pages := make([]string, reader.NumPage())
	for i := range pages {
		page := reader.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		if text, err := page.GetPlainText(nil); err == nil {
			pages[i] = text
		}
	}
	return pages, nil
}

// pdftotextPages pipes data through pdftotext, which separates pages with
// form feeds.
func pdftotextPages(data []byte) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(data)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return strings.Split(strings.TrimSuffix(string(out), "\f"), "\f"), nil
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
