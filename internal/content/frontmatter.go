package content

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter is the YAML header of a text document.
type FrontMatter struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	SidebarLabel string `yaml:"sidebar_label"`
	Description  string `yaml:"description"`
}

func (fm FrontMatter) validate() error {
	if strings.ContainsRune(fm.ID, '/') {
		return fmt.Errorf("front matter: id %q must not contain '/'", fm.ID)
	}
	return nil
}

// FrontMatterFromMeta reads the known keys of a decoded front matter map.
// Scalars are formatted as text; lists and maps are rejected.
func FrontMatterFromMeta(m map[string]any) (FrontMatter, error) {
	var fm FrontMatter
	fields := []struct {
		key string
		dst *string
	}{
		{"id", &fm.ID},
		{"title", &fm.Title},
		{"sidebar_label", &fm.SidebarLabel},
		{"description", &fm.Description},
	}
	for _, f := range fields {
		v, ok := m[f.key]
		if !ok || v == nil {
			continue
		}
		switch v := v.(type) {
		case string:
			*f.dst = v
		case int, int64, uint64, float64, bool:
			*f.dst = fmt.Sprint(v)
		default:
			return fm, fmt.Errorf("front matter: %s must be a string, got %T", f.key, v)
		}
	}
	return fm, fm.validate()
}

var fence = []byte("---")

// splitsFrontMatter reports whether p is a plain text file whose front matter
// is cut off before parsing. Markdown front matter is read by the parser.
func splitsFrontMatter(p string) bool {
	return strings.ToLower(path.Ext(p)) == ".txt"
}

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// body of a plain text file. Input without front matter is returned unchanged.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	rest, ok := cutLine(src)
	if !ok {
		return fm, src, nil
	}

	var header []byte
	for len(rest) > 0 {
		line, next := nextLine(rest)
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
			if err := yaml.Unmarshal(header, &fm); err != nil {
				return fm, nil, fmt.Errorf("front matter: %w", err)
			}
			if err := fm.validate(); err != nil {
				return fm, nil, err
			}
			return fm, next, nil
		}
		header = append(header, line...)
		header = append(header, '\n')
		rest = next
	}
	return fm, nil, fmt.Errorf("front matter: missing closing %q", fence)
}

// cutLine reports whether src opens with a fence line and returns what follows.
func cutLine(src []byte) ([]byte, bool) {
	line, rest := nextLine(src)
	if !bytes.Equal(bytes.TrimRight(line, " \t\r"), fence) {
		return nil, false
	}
	return rest, true
}

func nextLine(b []byte) (line, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:]
	}
	return b, nil
}
