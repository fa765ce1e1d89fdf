package api

import (
	"net/http"
	"time"
)

// handleReload rebuilds the site from disk. A failed build leaves the
// current site in place and reports the build error.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cur, err := s.holder.Reload(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     err.Error(),
			"documents": cur.Content.Len(),
			"built_at":  cur.BuiltAt.UTC().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "reloaded",
		"documents":   cur.Content.Len(),
		"built_at":    cur.BuiltAt.UTC().Format(time.RFC3339),
		"duration_ms": time.Since(start).Milliseconds(),
	})
}
