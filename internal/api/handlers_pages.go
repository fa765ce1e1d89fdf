package api

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/qaflag/qaflag-docs/internal/render"
	"github.com/qaflag/qaflag-docs/internal/site"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	cur := s.holder.Current()
	s.servePage(w, r, http.StatusOK, "home", cur.RenderHome)
}

// handleDocsIndex sends /docs to the first doc of the primary sidebar.
func (s *Server) handleDocsIndex(w http.ResponseWriter, r *http.Request) {
	cur := s.holder.Current()
	ids := cur.Sidebar().DocIDs()
	if len(ids) == 0 {
		s.handleNotFound(w, r)
		return
	}
	http.Redirect(w, r, render.DocURL(cur.Config.BaseURL, ids[0]), http.StatusFound)
}

func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(chi.URLParam(r, "*"), "/")
	cur := s.holder.Current()
	if _, err := cur.Page(id); err != nil {
		s.handleNotFound(w, r)
		return
	}
	s.servePage(w, r, http.StatusOK, "doc", func(w io.Writer) error {
		return cur.RenderDoc(w, id)
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	cur := s.holder.Current()
	s.servePage(w, r, http.StatusNotFound, "not_found", func(w io.Writer) error {
		return cur.RenderNotFound(w, r.URL.Path)
	})
}

// servePage renders into memory so failures become a clean 500 and successful
// pages carry an ETag.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, status int, kind string, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		if site.IsNotFound(err) {
			s.handleNotFound(w, r)
			return
		}
		s.log.Error("render page", "kind", kind, "path", r.URL.Path, "error", err)
		jsonError(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.PageRendered(kind)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == http.StatusOK {
		sum := sha256.Sum256(buf.Bytes())
		etag := `"` + hex.EncodeToString(sum[:16]) + `"`
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
