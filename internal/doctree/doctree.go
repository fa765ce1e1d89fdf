package doctree

import (
	"html/template"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tree is the parsed outline of one content document.
type Tree struct {
	Title    string         // Document title (first heading or filename)
	Sections []*Section     // Top-level sections
	HTML     template.HTML  // Rendered body, set by parsers that render natively
	Meta     map[string]any // Front matter, set by parsers that read it

	// TitleInBody is set when HTML already starts with the title heading.
	TitleInBody bool
}

// Section is a recursive heading section.
type Section struct {
	Title    string // Heading text (empty for untitled text blocks)
	Anchor   string // Fragment id for the heading
	Level    int    // Heading level, 1-6; 0 for untitled blocks
	Text     string // Plain text directly under this heading
	Page     int    // Source page (0 if N/A)
	Children []*Section
}

// Heading is one table-of-contents entry.
type Heading struct {
	Title  string
	Anchor string
	Depth  int
}

// Headings flattens titled sections into a table of contents, skipping anything
// nested deeper than maxDepth (1 = top-level only).
func (t *Tree) Headings(maxDepth int) []Heading {
	var out []Heading
	var visit func(sections []*Section, depth int)
	visit = func(sections []*Section, depth int) {
		if depth > maxDepth {
			return
		}
		for _, s := range sections {
			if s.Title != "" {
				out = append(out, Heading{Title: s.Title, Anchor: s.Anchor, Depth: depth})
			}
			visit(s.Children, depth+1)
		}
	}
	visit(t.Sections, 1)
	return out
}

// Anchor converts a heading into a fragment id: accents folded, lower case,
// runs of other characters collapsed to a single hyphen.
func Anchor(title string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// AssignAnchors fills missing anchors, suffixing repeats with -1, -2, ...
func (t *Tree) AssignAnchors() {
	seen := make(map[string]int)
	var visit func([]*Section)
	visit = func(sections []*Section) {
		for _, s := range sections {
			if s.Title != "" {
				if s.Anchor == "" {
					s.Anchor = Anchor(s.Title)
				}
				if n := seen[s.Anchor]; n > 0 {
					seen[s.Anchor]++
					s.Anchor = s.Anchor + "-" + strconv.Itoa(n)
				} else {
					seen[s.Anchor] = 1
				}
			}
			visit(s.Children)
		}
	}
	visit(t.Sections)
}
