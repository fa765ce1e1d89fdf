package homepage

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func render(t *testing.T, s Section, l Layout) *html.Node {
	t.Helper()
	var buf bytes.Buffer
	if err := Render(&buf, s, l); err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("parse rendered markup: %v", err)
	}
	return doc
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func tiles(doc *html.Node) []*html.Node {
	return findAll(doc, func(n *html.Node) bool { return n.Data == "div" && hasClass(n, "feature") })
}

func introLinks(doc *html.Node) []*html.Node {
	return findAll(doc, func(n *html.Node) bool { return n.Data == "a" && hasClass(n, "button") })
}

func TestRender_EmptyFeaturesRendersFallbackOnly(t *testing.T) {
	doc := render(t, Section{IntroURL: "/docs/getting-started/intro"}, DefaultLayout)

	if n := len(findAll(doc, func(n *html.Node) bool { return n.Data == "section" && hasClass(n, "features") })); n != 1 {
		t.Fatalf("expected one features section, got %d", n)
	}
	if n := len(findAll(doc, func(n *html.Node) bool { return hasClass(n, "container") })); n != 1 {
		t.Errorf("expected one container, got %d", n)
	}
	if got := tiles(doc); len(got) != 0 {
		t.Errorf("expected no tiles, got %d", len(got))
	}
	links := introLinks(doc)
	if len(links) != 1 {
		t.Fatalf("expected exactly one intro link, got %d", len(links))
	}
	if attr(links[0], "href") != "/docs/getting-started/intro" || text(links[0]) != "Introduction" {
		t.Errorf("unexpected intro link %q -> %q", text(links[0]), attr(links[0], "href"))
	}
}

func TestRender_TilesInInputOrder(t *testing.T) {
	features := []Feature{
		{Title: "Suites", Description: "Group <b>scenarios</b> by target.", Icon: "/img/suite.svg"},
		{Title: "Personas", Description: "Reusable users & sessions."},
		{Title: "Selectors", Description: template.HTML(`Query with <code>$</code>.`)},
		{Title: "Reports", Description: "Console and JSON output."},
	}
	var buf bytes.Buffer
	if err := Render(&buf, Section{Features: features, IntroURL: "/docs/intro"}, DefaultLayout); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, f := range features {
		if !strings.Contains(buf.String(), "<p>"+string(f.Description)+"</p>") {
			t.Errorf("expected description of %q verbatim in %s", f.Title, buf.String())
		}
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	got := tiles(doc)
	if len(got) != len(features) {
		t.Fatalf("expected %d tiles, got %d", len(features), len(got))
	}
	for i, tile := range got {
		if !hasClass(tile, "col--4") {
			t.Errorf("tile %d: expected column class", i)
		}
		h3 := findAll(tile, func(n *html.Node) bool { return n.Data == "h3" })
		if len(h3) != 1 || text(h3[0]) != features[i].Title {
			t.Errorf("tile %d: expected title %q", i, features[i].Title)
		}
	}
	if imgs := findAll(got[0], func(n *html.Node) bool { return n.Data == "img" }); len(imgs) != 1 {
		t.Errorf("expected icon on first tile")
	}
	if imgs := findAll(got[1], func(n *html.Node) bool { return n.Data == "img" }); len(imgs) != 0 {
		t.Errorf("expected no icon without Icon set")
	}
	if n := len(introLinks(doc)); n != 1 {
		t.Errorf("expected intro link exactly once, got %d", n)
	}
}

func TestRender_LayoutAndNotice(t *testing.T) {
	s := Section{
		Features:   []Feature{{Title: "One", Description: "First"}},
		Notice:     "This project is in early beta.",
		IntroURL:   "/docs/intro",
		IntroLabel: "Get started",
	}
	doc := render(t, s, Layout{Column: "col col--6"})

	tile := tiles(doc)[0]
	if !hasClass(tile, "col--6") {
		t.Errorf("expected custom column class")
	}
	if n := len(findAll(doc, func(n *html.Node) bool { return hasClass(n, "text--center") })); n != 0 {
		t.Errorf("expected no centering classes, got %d", n)
	}
	if !strings.Contains(text(doc), "early beta") {
		t.Errorf("expected notice text")
	}
	if got := text(introLinks(doc)[0]); got != "Get started" {
		t.Errorf("expected custom intro label, got %q", got)
	}
}

func TestRender_EscapesTitle(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Section{Features: []Feature{{Title: "<script>x</script>", Description: "d"}}}, DefaultLayout)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Errorf("expected title to be escaped: %s", buf.String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriterError(t *testing.T) {
	if err := Render(failWriter{}, Section{}, DefaultLayout); err == nil {
		t.Fatal("expected writer error")
	}
}
