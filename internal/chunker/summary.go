package chunker

import (
	"strings"

	"github.com/qaflag/qaflag-docs/internal/doctree"
)

// Summary returns the first paragraph of the tree, cut to whole sentences
// that fit in maxTokens. A first sentence longer than that is cut on a word
// boundary and ends with an ellipsis. Empty when the tree has no text.
func Summary(tree *doctree.Tree, maxTokens int) string {
	if tree == nil {
		return ""
	}
	para := firstParagraph(tree.Sections)
	if para == "" {
		return ""
	}
	para = strings.Join(strings.Fields(para), " ")
	if maxTokens <= 0 || EstimateTokens(para) <= maxTokens {
		return para
	}

	var out []string
	used := 0
	for _, sent := range splitSentences(para) {
		n := EstimateTokens(sent)
		if used+n > maxTokens {
			break
		}
		out = append(out, sent)
		used += n
	}
	if len(out) > 0 {
		return strings.Join(out, " ")
	}

	words := strings.Fields(para)
	keep := int(float64(maxTokens) / tokensPerWord)
	if keep < 1 {
		keep = 1
	}
	return strings.Join(words[:keep], " ") + "…"
}

func firstParagraph(sections []*doctree.Section) string {
	for _, s := range sections {
		if paras := splitByParagraphs(s.Text); len(paras) > 0 {
			return paras[0]
		}
		if p := firstParagraph(s.Children); p != "" {
			return p
		}
	}
	return ""
}
