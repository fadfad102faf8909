package server

import (
	"context"
	"time"

	"github.com/existflow/quickadd/internal/logger"
)

// refresher keeps the favorites and server recents in the state store
// current so that every surface ranks projects the same way
type refresher struct {
	s            *Server
	debounceTime time.Duration
	pollInterval time.Duration
	trigger      chan struct{}
}

func newRefresher(s *Server, pollInterval time.Duration) *refresher {
	return &refresher{
		s:            s,
		debounceTime: 2 * time.Second, // Settings saves come in bursts
		pollInterval: pollInterval,
		trigger:      make(chan struct{}, 1),
	}
}

// Trigger schedules a refresh (debounced)
func (r *refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// run refreshes on every poll tick and after triggers until ctx is done
func (r *refresher) run(ctx context.Context) {
	var tick <-chan time.Time
	if r.pollInterval > 0 {
		ticker := time.NewTicker(r.pollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			r.refresh(ctx)
		case <-r.trigger:
			if debounce == nil {
				debounce = time.After(r.debounceTime)
			}
		case <-debounce:
			debounce = nil
			r.refresh(ctx)
		}
	}
}

// refresh lists the projects once. The remote writes the metadata to the
// state store.
func (r *refresher) refresh(ctx context.Context) {
	cfg := r.s.Config()
	if !cfg.HasCredentials() {
		return
	}

	remote, err := r.s.newRemote(cfg.ServerURL, cfg.Token, time.Duration(cfg.TimeoutSeconds)*time.Second)
	if err != nil {
		logger.Warn("Project refresh skipped", logger.Err(err))
		return
	}

	list, err := remote.ListProjects(ctx)
	if err != nil {
		logger.Warn("Project refresh failed", logger.Err(err))
		return
	}
	logger.Debug("Project metadata refreshed",
		logger.F("projects", len(list.Projects)),
		logger.F("favorites", len(list.Favorites)),
		logger.F("recents", len(list.Recents)))
}
