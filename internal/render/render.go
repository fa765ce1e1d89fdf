// Package render turns content documents and navigation into HTML pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/qaflag/qaflag-docs/internal/config"
	"github.com/qaflag/qaflag-docs/internal/content"
	"github.com/qaflag/qaflag-docs/internal/doctree"
	"github.com/qaflag/qaflag-docs/internal/homepage"
	"github.com/qaflag/qaflag-docs/internal/navtree"
)

//go:embed templates/*.html
var templateFS embed.FS

// tocDepth is how deep the per-page table of contents goes.
const tocDepth = 3

// Renderer executes the page templates for one site configuration. It is safe
// for concurrent use.
type Renderer struct {
	site  config.Site
	nav   []navLink
	pages map[string]*template.Template
	now   func() time.Time
}

type navLink struct {
	Label    string
	URL      string
	Position string
	External bool
}

// page is the data every template sees.
type page struct {
	Site        config.Site
	Nav         []navLink
	Copyright   string
	Title       string
	Description string

	// doc pages
	Doc     *content.Document
	Sidebar template.HTML
	TOC     []doctree.Heading
	Prev    *Link
	Next    *Link

	// home page
	Features template.HTML

	// 404
	Path string
}

// New parses the embedded templates for site.
func New(site config.Site) (*Renderer, error) {
	r := &Renderer{site: site, pages: make(map[string]*template.Template), now: time.Now}

	for _, item := range site.Navbar.Items {
		link := navLink{Label: item.Label, Position: item.Position}
		switch {
		case item.DocID != "":
			link.URL = DocURL(site.BaseURL, item.DocID)
		case item.To != "":
			link.URL = SiteURL(site.BaseURL, item.To)
		default:
			link.URL = item.Href
			link.External = true
		}
		r.nav = append(r.nav, link)
	}

	funcs := template.FuncMap{
		"siteURL": func(p string) string { return SiteURL(site.BaseURL, p) },
	}
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	for _, name := range []string{"doc", "home", "404"} {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// NavURLs returns the resolved navbar targets.
func (r *Renderer) NavURLs() []string {
	out := make([]string, len(r.nav))
	for i, l := range r.nav {
		out[i] = l.URL
	}
	return out
}

func (r *Renderer) newPage(title, description string) page {
	return page{
		Site:        r.site,
		Nav:         r.nav,
		Copyright:   strings.ReplaceAll(r.site.Footer.Copyright, "{year}", strconv.Itoa(r.now().Year())),
		Title:       title,
		Description: description,
	}
}

func (r *Renderer) execute(w io.Writer, name string, p page) error {
	// Render into a buffer so a template failure never leaves half a page on w.
	var buf bytes.Buffer
	if err := r.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s page: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Home renders the landing page with the feature section hp.
func (r *Renderer) Home(w io.Writer, hp homepage.Section) error {
	var features bytes.Buffer
	if err := homepage.Render(&features, hp, homepage.DefaultLayout); err != nil {
		return err
	}
	p := r.newPage("", r.site.Tagline)
	p.Features = template.HTML(features.String())
	return r.execute(w, "home", p)
}

// Doc renders doc with sb as its navigation. sb may be nil.
func (r *Renderer) Doc(w io.Writer, doc *content.Document, sb *navtree.Sidebar) error {
	sidebar, err := RenderSidebar(sb, doc.ID, r.site.BaseURL)
	if err != nil {
		return err
	}
	p := r.newPage(doc.Title, doc.Description)
	p.Doc = doc
	p.Sidebar = sidebar
	p.TOC = toc(doc)
	p.Prev, p.Next = neighbours(sb, doc.ID, r.site.BaseURL)
	return r.execute(w, "doc", p)
}

// NotFound renders the 404 page for the requested path.
func (r *Renderer) NotFound(w io.Writer, path string) error {
	p := r.newPage("Page Not Found", "")
	p.Path = path
	return r.execute(w, "404", p)
}

// toc lists the document's headings without the title heading.
func toc(doc *content.Document) []doctree.Heading {
	if doc.Tree == nil {
		return nil
	}
	hs := doc.Tree.Headings(tocDepth)
	if doc.TitleInBody && len(hs) > 0 && hs[0].Depth == 1 && hs[0].Title == doc.Tree.Title {
		hs = hs[1:]
	}
	return hs
}
