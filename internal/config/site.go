package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Policy says what to do when a check finds a problem.
type Policy string

const (
	PolicyThrow  Policy = "throw"
	PolicyWarn   Policy = "warn"
	PolicyIgnore Policy = "ignore"
)

func (p Policy) valid() bool {
	switch p {
	case PolicyThrow, PolicyWarn, PolicyIgnore:
		return true
	}
	return false
}

// Site is the site-wide presentation config read from docsite.yaml or .toml.
type Site struct {
	Title           string   `yaml:"title" toml:"title"`
	Tagline         string   `yaml:"tagline" toml:"tagline"`
	URL             string   `yaml:"url" toml:"url"`
	BaseURL         string   `yaml:"base_url" toml:"base_url"`
	Favicon         string   `yaml:"favicon" toml:"favicon"`
	OnBrokenLinks   Policy   `yaml:"on_broken_links" toml:"on_broken_links"`
	OnDuplicateDocs Policy   `yaml:"on_duplicate_docs" toml:"on_duplicate_docs"`
	Navbar          Navbar   `yaml:"navbar" toml:"navbar"`
	Footer          Footer   `yaml:"footer" toml:"footer"`
	Homepage        Homepage `yaml:"homepage" toml:"homepage"`
}

type Navbar struct {
	Title string    `yaml:"title" toml:"title"`
	Logo  Logo      `yaml:"logo" toml:"logo"`
	Items []NavItem `yaml:"items" toml:"items"`
}

type Logo struct {
	Alt string `yaml:"alt" toml:"alt"`
	Src string `yaml:"src" toml:"src"`
}

// NavItem links to a doc (DocID), a site path (To) or an external URL (Href).
type NavItem struct {
	Label    string `yaml:"label" toml:"label"`
	DocID    string `yaml:"doc_id" toml:"doc_id"`
	To       string `yaml:"to" toml:"to"`
	Href     string `yaml:"href" toml:"href"`
	Position string `yaml:"position" toml:"position"`
}

type Footer struct {
	Style     string        `yaml:"style" toml:"style"`
	Links     []FooterGroup `yaml:"links" toml:"links"`
	Copyright string        `yaml:"copyright" toml:"copyright"`
}

type FooterGroup struct {
	Title string       `yaml:"title" toml:"title"`
	Items []FooterLink `yaml:"items" toml:"items"`
}

type FooterLink struct {
	Label string `yaml:"label" toml:"label"`
	Href  string `yaml:"href" toml:"href"`
}

type Homepage struct {
	Notice     string    `yaml:"notice" toml:"notice"`
	IntroDoc   string    `yaml:"intro_doc" toml:"intro_doc"`
	IntroLabel string    `yaml:"intro_label" toml:"intro_label"`
	Features   []Feature `yaml:"features" toml:"features"`
}

// Feature is one homepage tile. Description may contain inline HTML.
type Feature struct {
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
	Icon        string `yaml:"icon" toml:"icon"`
}

// DefaultSite returns the QA Flag site settings.
func DefaultSite() Site {
	return Site{
		Title:           "QA Flag",
		Tagline:         "A modern QA toolset, built in native TypeScript",
		URL:             "https://www.qaflag.com",
		BaseURL:         "/",
		Favicon:         "img/favicon.ico",
		OnBrokenLinks:   PolicyThrow,
		OnDuplicateDocs: PolicyWarn,
		Navbar: Navbar{
			Title: "QA Flag",
			Logo:  Logo{Alt: "QA Flag Logo", Src: "img/qaflag.png"},
			Items: []NavItem{
				{Label: "Docs", DocID: "getting-started/intro", Position: "left"},
				{Label: "GitHub", Href: "https://github.com/QAFlag/qaflag", Position: "right"},
			},
		},
		Footer: Footer{
			Style: "dark",
			Links: []FooterGroup{{
				Title: "Community",
				Items: []FooterLink{{
					Label: "Slack",
					Href:  "https://join.slack.com/t/qaflag/shared_invite/zt-16rg4ailt-sHH8q4cL5GfEJJT_2laqqQs",
				}},
			}},
			Copyright: "Copyright © {year} Jason Byrne, Inc.",
		},
		Homepage: Homepage{
			IntroDoc:   "getting-started/intro",
			IntroLabel: "Introduction",
		},
	}
}

// LoadSite reads the site config at path. A missing file yields DefaultSite;
// keys absent from the file keep their default values.
func LoadSite(path string) (Site, error) {
	site := DefaultSite()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return site, nil
	}
	if err != nil {
		return Site{}, fmt.Errorf("site config load failed (%s): %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var file Site
		meta, err := toml.Decode(string(data), &file)
		if err != nil {
			return Site{}, fmt.Errorf("site config parse failed (%s): %w", path, err)
		}
		overlayTOML(&site, file, meta)
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(data, &site); err != nil {
			return Site{}, fmt.Errorf("site config parse failed (%s): %w", path, err)
		}
	default:
		return Site{}, fmt.Errorf("site config %s: unsupported format", path)
	}

	if err := site.Validate(); err != nil {
		return Site{}, fmt.Errorf("site config %s: %w", path, err)
	}
	return site, nil
}

func (s Site) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !strings.HasPrefix(s.BaseURL, "/") || !strings.HasSuffix(s.BaseURL, "/") {
		return fmt.Errorf("base_url must start and end with '/', got %q", s.BaseURL)
	}
	if !s.OnBrokenLinks.valid() {
		return fmt.Errorf("on_broken_links: unknown policy %q", s.OnBrokenLinks)
	}
	if !s.OnDuplicateDocs.valid() {
		return fmt.Errorf("on_duplicate_docs: unknown policy %q", s.OnDuplicateDocs)
	}
	for i, item := range s.Navbar.Items {
		if strings.TrimSpace(item.Label) == "" {
			return fmt.Errorf("navbar item[%d]: label is required", i)
		}
		targets := 0
		for _, t := range []string{item.DocID, item.To, item.Href} {
			if t != "" {
				targets++
			}
		}
		if targets != 1 {
			return fmt.Errorf("navbar item[%d] %q: exactly one of doc_id, to, href is required", i, item.Label)
		}
	}
	for i, f := range s.Homepage.Features {
		if strings.TrimSpace(f.Title) == "" {
			return fmt.Errorf("homepage feature[%d]: title is required", i)
		}
	}
	return nil
}

// overlayTOML copies the keys present in the TOML file onto site. Decoding
// straight into the defaults would merge array tables element by element.
func overlayTOML(site *Site, file Site, meta toml.MetaData) {
	if meta.IsDefined("title") {
		site.Title = file.Title
	}
	if meta.IsDefined("tagline") {
		site.Tagline = file.Tagline
	}
	if meta.IsDefined("url") {
		site.URL = file.URL
	}
	if meta.IsDefined("base_url") {
		site.BaseURL = file.BaseURL
	}
	if meta.IsDefined("favicon") {
		site.Favicon = file.Favicon
	}
	if meta.IsDefined("on_broken_links") {
		site.OnBrokenLinks = file.OnBrokenLinks
	}
	if meta.IsDefined("on_duplicate_docs") {
		site.OnDuplicateDocs = file.OnDuplicateDocs
	}
	if meta.IsDefined("navbar", "title") {
		site.Navbar.Title = file.Navbar.Title
	}
	if meta.IsDefined("navbar", "logo") {
		site.Navbar.Logo = file.Navbar.Logo
	}
	if meta.IsDefined("navbar", "items") {
		site.Navbar.Items = file.Navbar.Items
	}
	if meta.IsDefined("footer", "style") {
		site.Footer.Style = file.Footer.Style
	}
	if meta.IsDefined("footer", "links") {
		site.Footer.Links = file.Footer.Links
	}
	if meta.IsDefined("footer", "copyright") {
		site.Footer.Copyright = file.Footer.Copyright
	}
	if meta.IsDefined("homepage", "notice") {
		site.Homepage.Notice = file.Homepage.Notice
	}
	if meta.IsDefined("homepage", "intro_doc") {
		site.Homepage.IntroDoc = file.Homepage.IntroDoc
	}
	if meta.IsDefined("homepage", "intro_label") {
		site.Homepage.IntroLabel = file.Homepage.IntroLabel
	}
	if meta.IsDefined("homepage", "features") {
		site.Homepage.Features = file.Homepage.Features
	}
}
