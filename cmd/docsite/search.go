package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/qaflag/qaflag-docs/internal/site"
)

var (
	resultTitleStyle = lipgloss.NewStyle().Bold(true)
	resultURLStyle   = lipgloss.NewStyle().Faint(true)
)

func newSearchCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <terms>...",
		Short: "Search the documentation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := site.Build(cmd.Context(), a.options())
			if err != nil {
				return err
			}
			results := s.Search.Search(strings.Join(args, " "), limit)
			w := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(w, "no results")
				return nil
			}
			for _, r := range results {
				heading := r.Title
				if len(r.Breadcrumb) > 0 {
					heading = strings.Join(r.Breadcrumb, " > ")
				}
				fmt.Fprintf(w, "%s %s\n", resultTitleStyle.Render(heading), resultURLStyle.Render(r.URL))
				if r.Text != "" {
					fmt.Fprintf(w, "  %s\n", excerpt(r.Text, 160))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	return cmd
}

// excerpt flattens text to one line of at most n runes.
func excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "…"
}
