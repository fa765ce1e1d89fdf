package parser

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/qaflag/qaflag-docs/internal/doctree"
)

// Parser converts raw document bytes into a doctree.Tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Tree, error)
}

// Options tunes format-specific behavior.
type Options struct {
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists content file extensions the site can serve.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdx":      true,
	".txt":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".md", ".markdown", ".mdx":
		return &MarkdownParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(path.Ext(filename))]
}

// baseTitle strips directories and the extension from a filename.
func baseTitle(filename string) string {
	base := path.Base(filename)
	return strings.TrimSuffix(base, path.Ext(base))
}

// outline builds nested sections from a flat heading stream. Text added
// before the first heading lands in an untitled leading section.
type outline struct {
	root  *doctree.Section
	stack []*doctree.Section
	text  strings.Builder
}

func newOutline() *outline {
	root := &doctree.Section{}
	return &outline{root: root, stack: []*doctree.Section{root}}
}

func (o *outline) heading(level int, title, anchor string, page int) {
	o.flush()
	s := &doctree.Section{Title: title, Anchor: anchor, Level: level, Page: page}
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].Level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	parent := o.stack[len(o.stack)-1]
	parent.Children = append(parent.Children, s)
	o.stack = append(o.stack, s)
}

func (o *outline) add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if o.text.Len() > 0 {
		o.text.WriteString("\n\n")
	}
	o.text.WriteString(text)
}

func (o *outline) flush() {
	t := strings.TrimSpace(o.text.String())
	o.text.Reset()
	if t == "" {
		return
	}
	top := o.stack[len(o.stack)-1]
	if top == o.root {
		// Leading text becomes its own untitled section.
		o.root.Children = append(o.root.Children, &doctree.Section{Text: t})
		return
	}
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

func (o *outline) sections() []*doctree.Section {
	o.flush()
	return o.root.Children
}
