package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qaflag/qaflag-docs/internal/export"
	"github.com/qaflag/qaflag-docs/internal/site"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Export the site as static files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := site.Build(cmd.Context(), a.options())
			if err != nil {
				return err
			}
			m, err := export.Run(cmd.Context(), s, export.Options{
				OutDir:  a.cfg.Path(a.cfg.OutDir),
				Workers: a.cfg.BuildWorkers,
				Gzip:    a.cfg.BuildGzip,
				Log:     a.log,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %d files (%d documents) into %s, build %s\n",
				len(m.Files), m.Documents, a.cfg.Path(a.cfg.OutDir), m.BuildID)
			return nil
		},
	}
}
