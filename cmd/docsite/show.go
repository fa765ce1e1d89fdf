package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/qaflag/qaflag-docs/internal/content"
	"github.com/qaflag/qaflag-docs/internal/doctree"
)

func newShowCmd(a *app) *cobra.Command {
	var width int
	var raw bool
	cmd := &cobra.Command{
		Use:   "show <doc-id>",
		Short: "Render one document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docsDir := a.cfg.Path(a.cfg.DocsDir)
			store, err := content.Open(os.DirFS(docsDir), content.Options{Log: a.log})
			if err != nil {
				return err
			}
			doc, err := store.Get(args[0])
			if err != nil {
				return err
			}
			md, err := markdownFor(filepath.Join(docsDir, filepath.FromSlash(doc.Source)), doc)
			if err != nil {
				return err
			}
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}

			if !cmd.Flags().Changed("width") {
				width = terminalWidth(cmd.OutOrStdout(), width)
			}
			r, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return err
			}
			out, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("render %s: %w", doc.ID, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "wrap width; defaults to the terminal width when writing to one")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	return cmd
}

// markdownFor returns markdown for doc: the source itself for markdown files,
// otherwise the parsed outline.
func markdownFor(path string, doc *content.Document) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		src, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		_, body, err := content.SplitFrontMatter(src)
		if err != nil {
			return "", err
		}
		md := string(body)
		if !doc.TitleInBody {
			md = "# " + doc.Title + "\n\n" + md
		}
		return md, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	if doc.Tree != nil {
		writeSections(&b, doc.Tree.Sections, doc.Tree.Title, 2)
	}
	return b.String(), nil
}

func writeSections(b *strings.Builder, sections []*doctree.Section, title string, level int) {
	for _, s := range sections {
		next := level
		if s.Title != "" && !(s.Level == 1 && s.Title == title) {
			fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", min(level, 6)), s.Title)
			next = level + 1
		}
		if text := strings.TrimSpace(s.Text); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
		writeSections(b, s.Children, title, next)
	}
}

// terminalWidth returns the column count of w when it is a terminal, capped
// at 120, else fallback.
func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return fallback
	}
	return min(cols, 120)
}
