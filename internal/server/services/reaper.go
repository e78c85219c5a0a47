package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/repomanager"
)

// Counter is satisfied by prometheus.Counter.
type Counter interface {
	Add(float64)
}

// TokenReaper deletes expired tokens in the background. Verification never
// depends on it: an expired token is rejected whether or not it was reaped.
type TokenReaper struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	reaped      Counter
	now         func() time.Time
}

// NewTokenReaper builds a reaper. reaped may be nil.
func NewTokenReaper(m repomanager.RepositoryManager, log logging.Logger, reaped Counter) *TokenReaper {
	return &TokenReaper{
		repomanager: m,
		log:         log.With("module", "reaper"),
		reaped:      reaped,
		now:         time.Now,
	}
}

// Reap removes every token expired at now and returns how many were removed.
// Tokens that vanish or cannot be read mid-sweep are skipped.
func (r *TokenReaper) Reap(ctx context.Context, now time.Time) (int, error) {
	repo := r.repomanager.Tokens()

	ids, err := repo.IDs(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}

		token, err := repo.Find(ctx, id)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				r.log.Warn(ctx, "reaper: skipping unreadable token", "token_id", id, "error", err)
			}
			continue
		}
		if token.ActiveAt(now) {
			continue
		}

		if err := repo.Delete(ctx, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
			r.log.Warn(ctx, "reaper: failed to delete expired token", "token_id", id, "error", err)
			continue
		}
		r.log.Debug(ctx, "reaper: removed expired token", "token_id", id, "expired_at", token.ExpiresAt())
		removed++
	}

	if removed > 0 && r.reaped != nil {
		r.reaped.Add(float64(removed))
	}
	return removed, nil
}

// Run sweeps every interval until ctx is cancelled. A non-positive interval
// disables the reaper and Run returns immediately.
func (r *TokenReaper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := r.Reap(ctx, r.now())
			if err != nil && !errors.Is(err, context.Canceled) {
				r.log.Error(ctx, "reaper: sweep failed", "error", err)
				continue
			}
			if n > 0 {
				r.log.Debug(ctx, "reaper: removed expired tokens", "count", n)
			}
		}
	}
}
