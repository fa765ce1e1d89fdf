package site

import (
	"sort"
	"strings"

	"github.com/qaflag/qaflag-docs/internal/chunker"
	"github.com/qaflag/qaflag-docs/internal/content"
	"github.com/qaflag/qaflag-docs/internal/render"
)

// SearchEntry is one passage of one document, addressed by URL with the
// fragment of its section.
type SearchEntry struct {
	DocID      string   `json:"doc_id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
	Text       string   `json:"text"`
}

type SearchResult struct {
	SearchEntry
	Score int `json:"score"`
}

// SearchIndex is a term index over document passages. It is built once per
// snapshot and read concurrently.
type SearchIndex struct {
	entries []SearchEntry
	lower   []string // lowercased title + breadcrumb + text per entry
}

func newSearchIndex(store *content.Store, baseURL string, cfg chunker.Config) *SearchIndex {
	ix := &SearchIndex{}
	for _, doc := range store.Docs() {
		url := render.DocURL(baseURL, doc.ID)
		passages := chunker.Split(doc.Tree, cfg)
		if len(passages) == 0 {
			passages = []chunker.Passage{{}}
		}
		for _, p := range passages {
			e := SearchEntry{
				DocID:      doc.ID,
				Title:      doc.Title,
				URL:        url,
				Breadcrumb: p.Breadcrumb,
				Text:       p.Text,
			}
			if p.Anchor != "" {
				e.URL += "#" + p.Anchor
			}
			ix.entries = append(ix.entries, e)
			ix.lower = append(ix.lower, strings.ToLower(
				e.Title+"\n"+strings.Join(e.Breadcrumb, "\n")+"\n"+e.Text))
		}
	}
	return ix
}

// Entries returns every indexed passage in document order.
func (ix *SearchIndex) Entries() []SearchEntry {
	return append([]SearchEntry(nil), ix.entries...)
}

func (ix *SearchIndex) Len() int { return len(ix.entries) }

// Search returns passages containing every term of query, best first. Title
// matches weigh more than body matches; ties keep document order. At most
// one result is returned per document section URL.
func (ix *SearchIndex) Search(query string, limit int) []SearchResult {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var results []SearchResult
	seen := make(map[string]int) // URL -> index in results
	for i, text := range ix.lower {
		score := 0
		for _, term := range terms {
			n := strings.Count(text, term)
			if n == 0 {
				score = 0
				break
			}
			score += n
			if strings.Contains(strings.ToLower(ix.entries[i].Title), term) {
				score += 5
			}
		}
		if score == 0 {
			continue
		}
		if j, ok := seen[ix.entries[i].URL]; ok {
			if score > results[j].Score {
				results[j] = SearchResult{SearchEntry: ix.entries[i], Score: score}
			}
			continue
		}
		seen[ix.entries[i].URL] = len(results)
		results = append(results, SearchResult{SearchEntry: ix.entries[i], Score: score})
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
