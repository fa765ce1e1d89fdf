package parser

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/qaflag/qaflag-docs/internal/doctree"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, meta.Meta),
	goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
)

// MarkdownParser handles Markdown files using goldmark. It renders the body
// HTML alongside the outline so heading anchors match the rendered ids, and
// leaves a leading "---" YAML block in Tree.Meta.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Tree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	ctx := gmparser.NewContext()
	doc := markdown.Parser().Parse(text.NewReader(src), gmparser.WithContext(ctx))
	fm, err := meta.TryGet(ctx)
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	tree := &doctree.Tree{Title: baseTitle(filename), Meta: fm}
	o := newOutline()
	first := true

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if first && node.Level == 1 && title != "" {
				tree.Title = title
				tree.TitleInBody = true
			}
			o.heading(node.Level, title, headingID(node), 0)
		default:
			o.add(extractText(n, src))
		}
		first = false
	}
	tree.Sections = o.sections()

	var buf bytes.Buffer
	if err := markdown.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	tree.HTML = template.HTML(buf.String())

	return tree, nil
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return ""
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
