// Package export writes the site as static files.
package export

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/qaflag/qaflag-docs/internal/metrics"
	"github.com/qaflag/qaflag-docs/internal/site"
)

const (
	ManifestName    = "build-manifest.json"
	SearchIndexName = "search-index.json"
)

type Options struct {
	OutDir  string
	Workers int
	Gzip    bool // also write <file>.gz next to every HTML and JSON file
	Log     *slog.Logger
	Metrics *metrics.Metrics // optional
}

// Manifest describes one export.
type Manifest struct {
	BuildID   string    `json:"build_id"`
	BuiltAt   time.Time `json:"built_at"`
	BaseURL   string    `json:"base_url"`
	Documents int       `json:"documents"`
	Files     []File    `json:"files"`
}

// File is one written output, path relative to OutDir.
type File struct {
	Path   string `json:"path"`
	DocID  string `json:"doc_id,omitempty"`
	Bytes  int    `json:"bytes"`
	SHA256 string `json:"sha256"`
}

type job struct {
	path  string
	docID string
	kind  string
	fn    func(io.Writer) error
}

// Run checks links under the site's policy, then renders the home page, every
// document, the 404 page, the sidebars JSON and the search index into opts.OutDir using up to
// opts.Workers goroutines. Nothing is written if the link check fails.
func Run(ctx context.Context, s *site.Site, opts Options) (*Manifest, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("export: output directory is required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	start := time.Now()

	if err := site.CheckLinks(s, log); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}

	jobs := []job{
		{path: "index.html", kind: "home", fn: s.RenderHome},
		{path: "404.html", kind: "not_found", fn: func(w io.Writer) error { return s.RenderNotFound(w, "") }},
		{path: "sidebars.json", fn: func(w io.Writer) error { return json.NewEncoder(w).Encode(s.Sidebars) }},
		{path: SearchIndexName, fn: func(w io.Writer) error { return json.NewEncoder(w).Encode(s.Search.Entries()) }},
	}
	for _, id := range s.Content.IDs() {
		jobs = append(jobs, job{
			path:  filepath.ToSlash(filepath.Join("docs", id, "index.html")),
			docID: id,
			kind:  "doc",
			fn:    func(w io.Writer) error { return s.RenderDoc(w, id) },
		})
	}

	var (
		mu    sync.Mutex
		files []File
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := write(opts.OutDir, j, opts.Gzip)
			if err != nil {
				return err
			}
			if opts.Metrics != nil && j.kind != "" {
				opts.Metrics.PageRendered(j.kind)
			}
			mu.Lock()
			files = append(files, f)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	sort.Slice(files, func(i, k int) bool { return files[i].Path < files[k].Path })
	m := &Manifest{
		BuildID:   uuid.NewString(),
		BuiltAt:   time.Now().UTC(),
		BaseURL:   s.Config.BaseURL,
		Documents: s.Content.Len(),
		Files:     files,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(opts.OutDir, ManifestName), append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("export: write manifest: %w", err)
	}

	if opts.Metrics != nil {
		opts.Metrics.ExportDurationSeconds.Observe(time.Since(start).Seconds())
	}
	log.Info("export complete",
		"build_id", m.BuildID,
		"files", len(files),
		"out_dir", opts.OutDir,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return m, nil
}

func write(outDir string, j job, gz bool) (File, error) {
	var buf bytes.Buffer
	if err := j.fn(&buf); err != nil {
		return File{}, fmt.Errorf("render %s: %w", j.path, err)
	}
	dst := filepath.Join(outDir, filepath.FromSlash(j.path))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return File{}, err
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return File{}, err
	}
	if gz {
		if err := writeGzip(dst+".gz", buf.Bytes()); err != nil {
			return File{}, fmt.Errorf("compress %s: %w", j.path, err)
		}
	}
	sum := sha256.Sum256(buf.Bytes())
	return File{Path: j.path, DocID: j.docID, Bytes: buf.Len(), SHA256: hex.EncodeToString(sum[:])}, nil
}

func writeGzip(dst string, data []byte) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	zw, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		f.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
