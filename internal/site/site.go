// Package site assembles configuration, navigation and content into an
// immutable snapshot that the server and exporter render from.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/qaflag/qaflag-docs/internal/chunker"
	"github.com/qaflag/qaflag-docs/internal/config"
	"github.com/qaflag/qaflag-docs/internal/content"
	"github.com/qaflag/qaflag-docs/internal/homepage"
	"github.com/qaflag/qaflag-docs/internal/navtree"
	"github.com/qaflag/qaflag-docs/internal/parser"
	"github.com/qaflag/qaflag-docs/internal/render"
)

// Options locates the site sources. Paths are used as given.
type Options struct {
	SiteConfig   string // docsite.yaml / .toml; missing file uses defaults
	DocsDir      string
	SidebarsPath string // empty uses navtree.Default
	Parser       parser.Options
	Log          *slog.Logger
}

// OptionsFromConfig resolves the env config into build options.
func OptionsFromConfig(cfg config.Config, log *slog.Logger) Options {
	return Options{
		SiteConfig:   cfg.Path(cfg.SiteConfig),
		DocsDir:      cfg.Path(cfg.DocsDir),
		SidebarsPath: cfg.Path(cfg.SidebarsPath),
		Parser:       parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		Log:          log,
	}
}

// Site is one consistent build of the documentation. It is never mutated;
// reloads replace it wholesale.
type Site struct {
	Config   config.Site
	Sidebars *navtree.Sidebars
	Content  *content.Store
	Renderer *render.Renderer
	Search   *SearchIndex
	BuiltAt  time.Time
}

// Build loads every source and validates the navigation against the content.
// A sidebar entry naming a missing document fails the build.
func Build(ctx context.Context, opts Options) (*Site, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	siteCfg, err := config.LoadSite(opts.SiteConfig)
	if err != nil {
		return nil, err
	}

	sidebars := navtree.Default()
	if opts.SidebarsPath != "" {
		sidebars, err = navtree.Load(opts.SidebarsPath)
		if err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store, err := content.Open(os.DirFS(opts.DocsDir), content.Options{Parser: opts.Parser, Log: log})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := navtree.Validate(sidebars, store); err != nil {
		return nil, fmt.Errorf("sidebar references unknown documents:\n%w", err)
	}
	if err := checkDuplicates(sidebars, siteCfg.OnDuplicateDocs, log); err != nil {
		return nil, err
	}
	if id := siteCfg.Homepage.IntroDoc; id != "" && !store.Has(id) {
		return nil, fmt.Errorf("homepage intro_doc: unknown doc id %q", id)
	}

	renderer, err := render.New(siteCfg)
	if err != nil {
		return nil, err
	}

	search := newSearchIndex(store, siteCfg.BaseURL, chunker.DefaultConfig())

	log.Info("site built",
		"documents", store.Len(),
		"search_passages", search.Len(),
		"sidebars", sidebars.Len(),
		"sidebar_docs", len(sidebars.DocIDs()),
	)
	return &Site{
		Config:   siteCfg,
		Sidebars: sidebars,
		Content:  store,
		Renderer: renderer,
		Search:   search,
		BuiltAt:  time.Now(),
	}, nil
}

func checkDuplicates(s *navtree.Sidebars, policy config.Policy, log *slog.Logger) error {
	dups := s.Duplicates()
	if len(dups) == 0 || policy == config.PolicyIgnore {
		return nil
	}
	if policy == config.PolicyThrow {
		return fmt.Errorf("doc ids listed more than once in sidebars: %s", strings.Join(dups, ", "))
	}
	log.Warn("doc ids listed more than once in sidebars", "ids", dups)
	return nil
}

// Sidebar returns the primary sidebar.
func (s *Site) Sidebar() *navtree.Sidebar { return s.Sidebars.First() }

// SidebarFor returns the first sidebar that lists id, or the primary one.
func (s *Site) SidebarFor(id string) *navtree.Sidebar {
	for _, name := range s.Sidebars.Names() {
		sb, _ := s.Sidebars.Get(name)
		for _, docID := range sb.DocIDs() {
			if docID == id {
				return sb
			}
		}
	}
	return s.Sidebar()
}

// Page returns the document for id.
func (s *Site) Page(id string) (*content.Document, error) {
	return s.Content.Get(id)
}

// Homepage is the feature section configured for the landing page.
func (s *Site) Homepage() homepage.Section {
	hp := s.Config.Homepage
	sec := homepage.Section{
		Notice:     hp.Notice,
		IntroLabel: hp.IntroLabel,
		IntroURL:   render.SiteURL(s.Config.BaseURL, ""),
	}
	if hp.IntroDoc != "" {
		sec.IntroURL = render.DocURL(s.Config.BaseURL, hp.IntroDoc)
	}
	for _, f := range hp.Features {
		sec.Features = append(sec.Features, homepage.Feature{
			Title:       f.Title,
			Description: template.HTML(f.Description),
			Icon:        f.Icon,
		})
	}
	return sec
}

// RenderHome writes the landing page.
func (s *Site) RenderHome(w io.Writer) error {
	return s.Renderer.Home(w, s.Homepage())
}

// RenderDoc writes the page for id. Unknown ids return content.ErrNotFound
// without writing.
func (s *Site) RenderDoc(w io.Writer, id string) error {
	doc, err := s.Page(id)
	if err != nil {
		return err
	}
	return s.Renderer.Doc(w, doc, s.SidebarFor(id))
}

// RenderNotFound writes the 404 page.
func (s *Site) RenderNotFound(w io.Writer, path string) error {
	return s.Renderer.NotFound(w, path)
}

// IsNotFound reports whether err means a missing document.
func IsNotFound(err error) bool { return errors.Is(err, content.ErrNotFound) }
