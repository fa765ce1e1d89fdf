// Command docsite serves, builds and checks the QA Flag documentation site.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qaflag/qaflag-docs/internal/config"
	"github.com/qaflag/qaflag-docs/internal/logging"
	"github.com/qaflag/qaflag-docs/internal/site"
)

// app is the state shared by subcommands after flags are applied.
type app struct {
	cfg config.Config
	log *slog.Logger
}

type flagValues struct {
	root, siteConfig, docs, sidebars, out string
	port                                  string
	workers                               int
	gzip, watch                           bool
	logLevel, logFormat                   string
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{}
	var fv flagValues

	root := &cobra.Command{
		Use:           "docsite",
		Short:         "Serve, build and check the QA Flag documentation site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			applyFlags(cmd, &a.cfg, fv)
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.log = logging.New(stderr, a.cfg.LogFormat, a.cfg.LogLevel)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&fv.root, "root", "", "site root; relative paths resolve against it (env DOCSITE_ROOT)")
	pf.StringVar(&fv.siteConfig, "config", "", "site config file, .yaml or .toml (env DOCSITE_CONFIG)")
	pf.StringVar(&fv.docs, "docs", "", "docs directory (env DOCS_DIR)")
	pf.StringVar(&fv.sidebars, "sidebars", "", "sidebars definition file; empty uses the built-in sidebar (env SIDEBARS_PATH)")
	pf.StringVar(&fv.logLevel, "log-level", "", "trace, debug, info, warn, error or off (env LOG_LEVEL)")
	pf.StringVar(&fv.logFormat, "log-format", "", "json or text (env LOG_FORMAT)")

	serve := newServeCmd(a)
	serve.Flags().StringVar(&fv.port, "port", "", "HTTP port (env PORT)")
	serve.Flags().BoolVar(&fv.watch, "watch", false, "rebuild when sources change (env WATCH)")

	build := newBuildCmd(a)
	build.Flags().StringVar(&fv.out, "out", "", "output directory (env OUT_DIR)")
	build.Flags().IntVar(&fv.workers, "workers", 0, "concurrent page renders (env BUILD_WORKERS)")
	build.Flags().BoolVar(&fv.gzip, "gzip", false, "also write .gz files (env BUILD_GZIP)")

	root.AddCommand(serve, build, newCheckCmd(a), newTreeCmd(a), newShowCmd(a), newSearchCmd(a))
	return root
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, fv flagValues) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("root") {
		cfg.Root = fv.root
	}
	if changed("config") {
		cfg.SiteConfig = fv.siteConfig
	}
	if changed("docs") {
		cfg.DocsDir = fv.docs
	}
	if changed("sidebars") {
		cfg.SidebarsPath = fv.sidebars
	}
	if changed("out") {
		cfg.OutDir = fv.out
	}
	if changed("port") {
		cfg.Port = fv.port
	}
	if changed("workers") {
		cfg.BuildWorkers = fv.workers
	}
	if changed("gzip") {
		cfg.BuildGzip = fv.gzip
	}
	if changed("watch") {
		cfg.Watch = fv.watch
	}
	if changed("log-level") {
		cfg.LogLevel = fv.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = fv.logFormat
	}
}

func (a *app) options() site.Options {
	return site.OptionsFromConfig(a.cfg, a.log)
}

func main() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "docsite:", err)
		os.Exit(1)
	}
}
