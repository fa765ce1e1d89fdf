package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qaflag/qaflag-docs/internal/config"
	"github.com/qaflag/qaflag-docs/internal/navtree"
	"github.com/qaflag/qaflag-docs/internal/site"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate sidebars against the docs and check links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s, err := site.Build(cmd.Context(), a.options())
			if err != nil {
				if refs := navtree.BrokenRefs(err); len(refs) > 0 {
					for _, r := range refs {
						fmt.Fprintln(out, "broken sidebar entry:", r)
					}
					return fmt.Errorf("%d sidebar entries reference unknown documents", len(refs))
				}
				return err
			}

			broken, err := site.FindBrokenLinks(s)
			if err != nil {
				return err
			}
			for _, b := range broken {
				fmt.Fprintln(out, "broken link:", b)
			}
			if dups := s.Sidebars.Duplicates(); len(dups) > 0 {
				fmt.Fprintln(out, "listed more than once:", dups)
			}
			if len(broken) > 0 && s.Config.OnBrokenLinks == config.PolicyThrow {
				return errors.New("broken links found")
			}
			fmt.Fprintf(out, "ok: %d documents, %d sidebar entries\n", s.Content.Len(), len(s.Sidebars.DocIDs()))
			return nil
		},
	}
}
