package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/qaflag/qaflag-docs/internal/api"
	"github.com/qaflag/qaflag-docs/internal/metrics"
	"github.com/qaflag/qaflag-docs/internal/site"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	opts := a.options()
	holder, err := site.NewHolder(ctx, opts, func(s *site.Site, err error) {
		m.ObserveReload(err)
		if s != nil {
			m.Documents.Set(float64(s.Content.Len()))
		}
	})
	if err != nil {
		return err
	}
	m.Documents.Set(float64(holder.Current().Content.Len()))

	if a.cfg.Watch {
		w, err := site.NewWatcher(opts, holder, a.cfg.ReloadDebounce)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return err
		}
		defer w.Stop()
	}

	srv := api.NewServer(holder, m, a.log, a.cfg)
	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		a.log.Info("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	a.log.Info("starting docsite", "port", a.cfg.Port, "watch", a.cfg.Watch)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

