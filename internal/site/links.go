package site

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/qaflag/qaflag-docs/internal/config"
	"github.com/qaflag/qaflag-docs/internal/render"
)

// BrokenLink is an in-site docs link whose target does not exist.
type BrokenLink struct {
	Page string // URL of the page holding the link
	Href string
}

func (b BrokenLink) String() string { return fmt.Sprintf("%s -> %s", b.Page, b.Href) }

// LinkError lists every broken link found.
type LinkError struct {
	Links []BrokenLink
}

func (e *LinkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d broken link(s):", len(e.Links))
	for _, l := range e.Links {
		b.WriteString("\n  ")
		b.WriteString(l.String())
	}
	return b.String()
}

// FindBrokenLinks renders the home page and every document and reports links
// into the docs tree that name unknown documents.
func FindBrokenLinks(s *Site) ([]BrokenLink, error) {
	base := s.Config.BaseURL
	var broken []BrokenLink

	var buf bytes.Buffer
	if err := s.RenderHome(&buf); err != nil {
		return nil, err
	}
	found, err := s.brokenIn(render.SiteURL(base, ""), &buf)
	if err != nil {
		return nil, err
	}
	broken = append(broken, found...)

	for _, id := range s.Content.IDs() {
		buf.Reset()
		if err := s.RenderDoc(&buf, id); err != nil {
			return nil, fmt.Errorf("render %s: %w", id, err)
		}
		found, err := s.brokenIn(render.DocURL(base, id), &buf)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", id, err)
		}
		broken = append(broken, found...)
	}
	return broken, nil
}

// CheckLinks applies the on_broken_links policy: throw returns a *LinkError,
// warn logs each link, ignore skips the scan.
func CheckLinks(s *Site, log *slog.Logger) error {
	if s.Config.OnBrokenLinks == config.PolicyIgnore {
		return nil
	}
	broken, err := FindBrokenLinks(s)
	if err != nil {
		return err
	}
	if len(broken) == 0 {
		return nil
	}
	if s.Config.OnBrokenLinks == config.PolicyThrow {
		return &LinkError{Links: broken}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	for _, b := range broken {
		log.Warn("broken link", "page", b.Page, "href", b.Href)
	}
	return nil
}

func (s *Site) brokenIn(pageURL string, r *bytes.Buffer) ([]BrokenLink, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	docsPrefix := render.SiteURL(s.Config.BaseURL, "docs/")

	var broken []BrokenLink
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			for _, a := range n.Attr {
				if a.Key != "href" {
					continue
				}
				if id, ok := docTarget(page, a.Val, docsPrefix); ok && !s.Content.Has(id) {
					broken = append(broken, BrokenLink{Page: pageURL, Href: a.Val})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return broken, nil
}

// docTarget resolves href against page and returns the document id it names,
// if it points into the docs tree.
func docTarget(page *url.URL, href, docsPrefix string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	target := page.ResolveReference(u).Path
	if !strings.HasPrefix(target, docsPrefix) {
		return "", false
	}
	id := strings.Trim(strings.TrimPrefix(target, docsPrefix), "/")
	if id == "" {
		return "", false
	}
	return id, true
}
