package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/qaflag/qaflag-docs/internal/navtree"
)

// DocURL is the site path of a document: <base>docs/<id>.
func DocURL(baseURL, id string) string {
	return normalizeBase(baseURL) + "docs/" + strings.Trim(id, "/")
}

// SiteURL joins a site-relative path onto baseURL.
func SiteURL(baseURL, p string) string {
	return normalizeBase(baseURL) + strings.TrimPrefix(p, "/")
}

func normalizeBase(baseURL string) string {
	if baseURL == "" {
		return "/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if !strings.HasPrefix(baseURL, "/") {
		baseURL = "/" + baseURL
	}
	return baseURL
}

// menuItem is the template view of one sidebar node.
type menuItem struct {
	Category bool
	Label    string
	URL      string
	Active   bool
	Open     bool // category on the path to the active doc
	Items    []menuItem
}

func menu(nodes []navtree.Node, activeID, baseURL string) ([]menuItem, bool) {
	items := make([]menuItem, 0, len(nodes))
	anyActive := false
	for _, n := range nodes {
		switch n := n.(type) {
		case *navtree.Category:
			children, active := menu(n.Items(), activeID, baseURL)
			items = append(items, menuItem{Category: true, Label: n.Label(), Open: active, Items: children})
			anyActive = anyActive || active
		case *navtree.DocRef:
			active := n.ID() == activeID
			items = append(items, menuItem{Label: n.Label(), URL: DocURL(baseURL, n.ID()), Active: active})
			anyActive = anyActive || active
		}
	}
	return items, anyActive
}

var sidebarTmpl = template.Must(template.New("sidebar").Parse(
	`{{define "list"}}<ul class="menu__list">{{range .}}{{if .Category}}` +
		`<li class="menu__list-item menu__list-item--collapsible{{if not .Open}} menu__list-item--collapsed{{end}}">` +
		`<span class="menu__link menu__link--sublist">{{.Label}}</span>{{template "list" .Items}}</li>` +
		`{{else}}<li class="menu__list-item"><a class="menu__link{{if .Active}} menu__link--active{{end}}" href="{{.URL}}"` +
		`{{if .Active}} aria-current="page"{{end}}>{{.Label}}</a></li>{{end}}{{end}}</ul>{{end}}` +
		`<nav class="menu" aria-label="{{.Name}}">{{template "list" .Items}}</nav>`))

// RenderSidebar renders sb as nested menu lists in display order. The link
// for activeID, if present, is marked active and its categories left open.
func RenderSidebar(sb *navtree.Sidebar, activeID, baseURL string) (template.HTML, error) {
	if sb == nil {
		return "", nil
	}
	items, _ := menu(sb.Items(), activeID, baseURL)
	var buf bytes.Buffer
	err := sidebarTmpl.Execute(&buf, struct {
		Name  string
		Items []menuItem
	}{sb.Name(), items})
	if err != nil {
		return "", fmt.Errorf("render sidebar %q: %w", sb.Name(), err)
	}
	return template.HTML(buf.String()), nil
}

// Link is a labeled site path.
type Link struct {
	Label string
	URL   string
}

// neighbours returns the docs before and after activeID in sidebar order.
func neighbours(sb *navtree.Sidebar, activeID, baseURL string) (prev, next *Link) {
	if sb == nil {
		return nil, nil
	}
	var refs []*navtree.DocRef
	_ = navtree.Walk(sb.Items(), func(_ navtree.Path, n navtree.Node) error {
		if d, ok := n.(*navtree.DocRef); ok {
			refs = append(refs, d)
		}
		return nil
	})
	for i, d := range refs {
		if d.ID() != activeID {
			continue
		}
		if i > 0 {
			prev = &Link{Label: refs[i-1].Label(), URL: DocURL(baseURL, refs[i-1].ID())}
		}
		if i < len(refs)-1 {
			next = &Link{Label: refs[i+1].Label(), URL: DocURL(baseURL, refs[i+1].ID())}
		}
		return prev, next
	}
	return nil, nil
}
