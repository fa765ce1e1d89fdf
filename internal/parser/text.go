package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/qaflag/qaflag-docs/internal/doctree"
)

// TextParser handles plain text files. Blank lines separate paragraphs; a
// paragraph whose single line is underlined with '=' or '-' becomes a heading.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Tree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs [][]string
	var current []string

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tree := &doctree.Tree{Title: baseTitle(filename)}
	o := newOutline()
	for i, para := range paragraphs {
		if level := underline(para); level > 0 {
			title := strings.TrimSpace(para[0])
			if i == 0 && level == 1 {
				tree.Title = title
			}
			o.heading(level, title, "", 0)
			continue
		}
		o.add(strings.Join(para, "\n"))
	}
	tree.Sections = o.sections()
	tree.AssignAnchors()

	return tree, nil
}

func underline(para []string) int {
	if len(para) != 2 {
		return 0
	}
	u := strings.TrimSpace(para[1])
	switch {
	case len(u) >= 3 && strings.Trim(u, "=") == "":
		return 1
	case len(u) >= 3 && strings.Trim(u, "-") == "":
		return 2
	}
	return 0
}
