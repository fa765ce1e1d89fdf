package parser

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/qaflag/qaflag-docs/internal/doctree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser handles HTML fragments and pages. The body is kept as the
// rendered content, minus scripts and styles, with ids added to headings.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tree := &doctree.Tree{Title: baseTitle(filename)}
	if title := findTitle(doc); title != "" {
		tree.Title = title
	}

	o := newOutline()
	first := true
	var headings []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.DataAtom); level > 0 {
				title := textContent(n)
				if first && level == 1 && findTitle(doc) == "" {
					tree.Title = title
				}
				first = false
				o.heading(level, title, attr(n, "id"), 0)
				headings = append(headings, n)
				return
			}

			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Nav, atom.Footer, atom.Header:
				return
			case atom.P, atom.Li, atom.Td, atom.Blockquote, atom.Pre:
				o.add(textContent(n))
				first = false
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(doc)
	if body == nil {
		body = doc
	}
	walk(body)
	tree.Sections = o.sections()
	tree.AssignAnchors()

	// Copy the assigned anchors back so the rendered body links up with the TOC.
	var titled []*doctree.Section
	var collect func([]*doctree.Section)
	collect = func(ss []*doctree.Section) {
		for _, s := range ss {
			if s.Level > 0 {
				titled = append(titled, s)
			}
			collect(s.Children)
		}
	}
	collect(tree.Sections)
	for i, h := range headings {
		if i < len(titled) && titled[i].Anchor != "" {
			setAttr(h, "id", titled[i].Anchor)
		}
	}

	var buf bytes.Buffer
	stripUnsafe(body)
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
	}
	tree.HTML = template.HTML(buf.String())
	tree.TitleInBody = len(headings) > 0 && headings[0].DataAtom == atom.H1

	return tree, nil
}

func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func stripUnsafe(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			n.RemoveChild(c)
		} else {
			stripUnsafe(c)
		}
		c = next
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
