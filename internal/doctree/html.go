package doctree

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
)

var outlineTmpl = template.Must(template.New("outline").Funcs(template.FuncMap{
	"paragraphs": func(text string) []string {
		var out []string
		for _, p := range strings.Split(text, "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
	"open": func(level int, anchor string) template.HTML {
		return template.HTML(fmt.Sprintf(`<h%d id="%s">`, clampLevel(level), html.EscapeString(anchor)))
	},
	"close": func(level int) template.HTML {
		return template.HTML(fmt.Sprintf("</h%d>", clampLevel(level)))
	},
}).Parse(`{{define "section"}}{{if .Title}}{{open .Level .Anchor}}{{.Title}}{{close .Level}}
{{end}}{{range paragraphs .Text}}<p>{{.}}</p>
{{end}}{{range .Children}}{{template "section" .}}{{end}}{{end}}{{range .}}{{template "section" .}}{{end}}`))

// RenderHTML returns the tree's native HTML when a parser produced one, and
// otherwise renders the outline as headings and paragraphs.
func (t *Tree) RenderHTML() (template.HTML, error) {
	if t.HTML != "" {
		return t.HTML, nil
	}
	var buf bytes.Buffer
	if err := outlineTmpl.Execute(&buf, t.Sections); err != nil {
		return "", fmt.Errorf("render outline: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func clampLevel(level int) int {
	if level < 1 {
		return 2
	}
	if level > 6 {
		return 6
	}
	return level
}
