package site

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Holder serves the current snapshot and swaps in rebuilt ones.
type Holder struct {
	opts     Options
	cur      atomic.Pointer[Site]
	mu       sync.Mutex // serializes rebuilds
	log      *slog.Logger
	onReload func(s *Site, err error)
}

// NewHolder builds the initial snapshot and applies the broken link policy
// to it. onReload, if set, is called after every Reload with the new
// snapshot or the error.
func NewHolder(ctx context.Context, opts Options, onReload func(s *Site, err error)) (*Holder, error) {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &Holder{opts: opts, log: log, onReload: onReload}
	s, err := h.build(ctx)
	if err != nil {
		return nil, err
	}
	h.cur.Store(s)
	return h, nil
}

// build is Build followed by CheckLinks, so a snapshot that violates the
// on_broken_links policy is never published.
func (h *Holder) build(ctx context.Context) (*Site, error) {
	s, err := Build(ctx, h.opts)
	if err != nil {
		return nil, err
	}
	if err := CheckLinks(s, h.log); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the live snapshot.
func (h *Holder) Current() *Site { return h.cur.Load() }

// Reload rebuilds from sources. On failure the previous snapshot stays live.
func (h *Holder) Reload(ctx context.Context) (*Site, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.build(ctx)
	if err != nil {
		h.log.Error("reload failed, keeping previous site", "error", err)
		if h.onReload != nil {
			h.onReload(nil, err)
		}
		return h.cur.Load(), err
	}
	h.cur.Store(s)
	h.log.Info("site reloaded", "documents", s.Content.Len())
	if h.onReload != nil {
		h.onReload(s, nil)
	}
	return s, nil
}
