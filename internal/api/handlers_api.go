package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/qaflag/qaflag-docs/internal/render"
	"github.com/qaflag/qaflag-docs/internal/site"
)

type docSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	SidebarLabel string `json:"sidebar_label,omitempty"`
	Description  string `json:"description,omitempty"`
	URL          string `json:"url"`
	Hash         string `json:"hash"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cur := s.holder.Current()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": cur.Content.Len(),
		"built_at":  cur.BuiltAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSidebars(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.holder.Current().Sidebars)
}

func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sb, ok := s.holder.Current().Sidebars.Get(name)
	if !ok {
		jsonError(w, "unknown sidebar: "+name, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sb)
}

func (s *Server) handleListDocs(w http.ResponseWriter, r *http.Request) {
	cur := s.holder.Current()
	docs := make([]docSummary, 0, cur.Content.Len())
	for _, d := range cur.Content.Docs() {
		docs = append(docs, docSummary{
			ID:           d.ID,
			Title:        d.Title,
			SidebarLabel: d.SidebarLabel,
			Description:  d.Description,
			URL:          render.DocURL(cur.Config.BaseURL, d.ID),
			Hash:         d.Hash,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		jsonError(w, "q is required", http.StatusBadRequest)
		return
	}
	limit := defaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxSearchLimit)
	}

	results := s.holder.Current().Search.Search(q, limit)
	if results == nil {
		results = []site.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "results": results})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
