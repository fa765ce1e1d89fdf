// Package chunker splits parsed documents into search passages and derives
// short summaries from their leading text.
package chunker

import (
	"strings"

	"github.com/qaflag/qaflag-docs/internal/doctree"
)

// Config controls passage sizes.
type Config struct {
	ChunkSize    int // Target passage size in tokens.
	ChunkOverlap int // Overlap between consecutive passages of one section.
	MinChunk     int // Passages smaller than this are dropped.
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:    300,
		ChunkOverlap: 40,
		MinChunk:     1,
	}
}

// Passage is one searchable piece of a document. Anchor is the fragment of
// the nearest titled section, empty for text before the first heading.
type Passage struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Breadcrumb []string `json:"breadcrumb,omitempty"`
	Anchor     string   `json:"anchor,omitempty"`
	Page       int      `json:"page,omitempty"`
}

// Split walks the tree depth first and returns its passages in reading order.
func Split(tree *doctree.Tree, cfg Config) []Passage {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 0
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = def.MinChunk
	}
	if tree == nil {
		return nil
	}

	w := walker{cfg: cfg}
	for _, s := range tree.Sections {
		w.visit(s, nil, "")
	}
	return w.out
}

type walker struct {
	cfg Config
	out []Passage
}

func (w *walker) visit(s *doctree.Section, breadcrumb []string, anchor string) {
	bc := breadcrumb
	if s.Title != "" {
		bc = append(append([]string(nil), breadcrumb...), s.Title)
		anchor = s.Anchor
	}

	if s.Text != "" {
		parts := []string{s.Text}
		if EstimateTokens(s.Text) > w.cfg.ChunkSize {
			parts = splitText(s.Text, w.cfg.ChunkSize, w.cfg.ChunkOverlap)
		}
		for _, part := range parts {
			if EstimateTokens(part) < w.cfg.MinChunk {
				continue
			}
			w.out = append(w.out, Passage{
				Text:       part,
				Index:      len(w.out),
				Breadcrumb: copyBreadcrumb(bc),
				Anchor:     anchor,
				Page:       s.Page,
			})
		}
	}

	for _, child := range s.Children {
		w.visit(child, bc, anchor)
	}
}

// splitText breaks text into pieces of about targetTokens, preferring
// paragraph and then sentence boundaries.
func splitText(text string, targetTokens, overlapTokens int) []string {
	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range splitByParagraphs(text) {
		paraTokens := EstimateTokens(para)

		if paraTokens > targetTokens {
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			result = append(result, splitBySentences(para, targetTokens, overlapTokens)...)
			continue
		}

		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := overlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

func splitByParagraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range splitSentences(text) {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := overlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

// splitSentences splits after '.', '!' or '?' followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && isSpace(text[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSpace(b byte) bool { return b == ' ' || b == '\n' || b == '\t' }

// overlapText returns the trailing words of text worth about targetTokens.
func overlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / tokensPerWord)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
