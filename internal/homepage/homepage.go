// Package homepage renders the feature section shown on the site landing page.
package homepage

import (
	"html/template"
	"io"
	"strings"
)

// Feature is one landing-page tile. Description is trusted markup and is
// written verbatim.
type Feature struct {
	Title       string        `json:"title"`
	Description template.HTML `json:"description"`
	Icon        string        `json:"icon,omitempty"`
}

// Layout carries the grid classes supplied by the theme.
type Layout struct {
	Column   string
	Centered bool
}

// DefaultLayout is a three-column grid with centered tile text.
var DefaultLayout = Layout{Column: "col col--4", Centered: true}

// Section is everything the feature section shows.
type Section struct {
	Features   []Feature
	Notice     string
	IntroURL   string
	IntroLabel string
}

const defaultIntroLabel = "Introduction"

var sectionTmpl = template.Must(template.New("features").Parse(
	`<section class="features"><div class="container"><div class="row">` +
		`{{range .Features}}<div class="feature {{$.Column}}">` +
		`{{if .Icon}}<div class="{{$.IconClass}}"><img class="feature__icon" src="{{.Icon}}" alt="" role="img"></div>{{end}}` +
		`<div class="{{$.TextClass}}"><h3>{{.Title}}</h3><p>{{.Description}}</p></div>` +
		`</div>{{end}}` +
		`</div>` +
		`<div class="features__intro{{if $.Centered}} text--center{{end}}">` +
		`{{if .Notice}}<p class="features__notice">{{.Notice}}</p>{{end}}` +
		`<a class="button button--primary button--lg" href="{{.IntroURL}}">{{.IntroLabel}}</a>` +
		`</div>` +
		`</div></section>`))

type view struct {
	Section
	Column    string
	Centered  bool
	IconClass string
	TextClass string
}

// Render writes the section markup. Each feature becomes one tile in input
// order; the intro link is always written exactly once after the tiles.
// The only possible error comes from w.
func Render(w io.Writer, s Section, l Layout) error {
	if strings.TrimSpace(l.Column) == "" {
		l.Column = DefaultLayout.Column
	}
	if s.IntroLabel == "" {
		s.IntroLabel = defaultIntroLabel
	}
	if s.IntroURL == "" {
		s.IntroURL = "/"
	}
	v := view{
		Section:   s,
		Column:    l.Column,
		Centered:  l.Centered,
		IconClass: "feature__media",
		TextClass: "feature__body padding-horiz--md",
	}
	if l.Centered {
		v.IconClass += " text--center"
		v.TextClass += " text--center"
	}
	return sectionTmpl.Execute(w, v)
}
