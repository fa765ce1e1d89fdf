// Package content indexes the documentation source tree. Each supported file
// becomes a Document addressed by a slash-separated id such as
// "getting-started/intro".
package content

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/qaflag/qaflag-docs/internal/chunker"
	"github.com/qaflag/qaflag-docs/internal/doctree"
	"github.com/qaflag/qaflag-docs/internal/parser"
)

var ErrNotFound = errors.New("document not found")

// summaryTokens bounds descriptions derived from the body.
const summaryTokens = 40

// Document is one rendered content file.
type Document struct {
	ID           string
	Source       string // path within the content fs
	Title        string
	SidebarLabel string
	Description  string // front matter, else the opening sentences
	Body         template.HTML
	TitleInBody  bool
	Tree         *doctree.Tree
	Hash         string // sha256 of the source bytes
}

// Options controls how the store is built.
type Options struct {
	Parser parser.Options
	Log    *slog.Logger
}

// Store is an immutable id → Document index.
type Store struct {
	docs map[string]*Document
	ids  []string
}

// Open walks fsys and parses every supported file. Directories and files
// whose names start with "_" or "." are skipped.
func Open(fsys fs.FS, opts Options) (*Store, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	s := &Store{docs: make(map[string]*Document)}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !parser.IsSupportedExtension(name) {
			log.Debug("skipping unsupported content file", "path", p)
			return nil
		}

		doc, err := load(fsys, p, opts.Parser)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if prev, dup := s.docs[doc.ID]; dup {
			return fmt.Errorf("duplicate doc id %q: %s and %s", doc.ID, prev.Source, p)
		}
		s.docs[doc.ID] = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	for id := range s.docs {
		s.ids = append(s.ids, id)
	}
	sort.Strings(s.ids)
	log.Debug("content loaded", "documents", len(s.ids))
	return s, nil
}

func load(fsys fs.FS, p string, opts parser.Options) (*Document, error) {
	src, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}

	var fm FrontMatter
	body := src
	if splitsFrontMatter(p) {
		fm, body, err = SplitFrontMatter(src)
		if err != nil {
			return nil, err
		}
	}

	pr, err := parser.ForFile(p, opts)
	if err != nil {
		return nil, err
	}
	tree, err := pr.Parse(bytes.NewReader(body), p)
	if err != nil {
		return nil, err
	}
	if tree.Meta != nil {
		if fm, err = FrontMatterFromMeta(tree.Meta); err != nil {
			return nil, err
		}
	}
	html, err := tree.RenderHTML()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:           DocID(p, fm.ID),
		Source:       p,
		Title:        tree.Title,
		SidebarLabel: fm.SidebarLabel,
		Description:  fm.Description,
		Body:         html,
		TitleInBody:  tree.TitleInBody,
		Tree:         tree,
		Hash:         ContentHashHex(src),
	}
	if fm.Title != "" {
		doc.Title = fm.Title
	}
	if doc.Description == "" {
		doc.Description = chunker.Summary(tree, summaryTokens)
	}
	return doc, nil
}

// DocID derives a document id from its path; a front matter id replaces the
// file name but keeps the directory.
func DocID(p, override string) string {
	dir := path.Dir(p)
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if override != "" {
		name = override
	}
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// Has reports whether id names a document.
func (s *Store) Has(id string) bool {
	_, ok := s.docs[id]
	return ok
}

// Get returns the document for id.
func (s *Store) Get(id string) (*Document, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

// IDs returns all document ids, sorted.
func (s *Store) IDs() []string { return append([]string(nil), s.ids...) }

// Len reports the number of documents.
func (s *Store) Len() int { return len(s.ids) }

// Docs returns all documents sorted by id.
func (s *Store) Docs() []*Document {
	out := make([]*Document, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.docs[id]
	}
	return out
}
