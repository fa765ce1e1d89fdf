package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/qaflag/qaflag-docs/internal/doctree"
)

// DOCXParser reads Word documents. Paragraphs styled "Title" or
// "Heading 1".."Heading 6" open sections; other paragraphs become their text.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	tree := &doctree.Tree{Title: baseTitle(filename)}
	o := newOutline()
	seenText := false

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		level := styleHeadingLevel(styleOf(para))
		if level == 0 {
			o.add(text)
			seenText = true
			continue
		}
		if level == 1 && !seenText && !tree.TitleInBody {
			tree.Title = text
			tree.TitleInBody = true
		}
		o.heading(level, text, "", 0)
		seenText = true
	}
	tree.Sections = o.sections()
	tree.AssignAnchors()
	return tree, nil
}

// styleOf returns the paragraph style id lowercased without spaces, so
// "Heading 2" and "heading2" compare equal.
func styleOf(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
}

func styleHeadingLevel(style string) int {
	if style == "title" {
		return 1
	}
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

func paragraphText(para *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range para.Children {
		if run, ok := child.(*docx.Run); ok {
			for _, rc := range run.Children {
				if t, ok := rc.(*docx.Text); ok {
					b.WriteString(t.Text)
				}
			}
		}
	}
	return strings.TrimSpace(b.String())
}
