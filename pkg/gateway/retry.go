package gateway

import (
	"context"
	"time"

	"github.com/scoutdeck/scoutdeck/pkg/core"
	"github.com/scoutdeck/scoutdeck/pkg/log"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

// retryingSearcher wraps a Searcher with linear-backoff retries. It sits
// inside the resilient wrapper, so the final failure still degrades to an
// empty result set at the boundary.
type retryingSearcher struct {
	inner       Searcher
	logger      *log.Logger
	maxAttempts int
	backoff     time.Duration
}

// NewRetrying wraps inner with retry behavior. Non-positive maxAttempts or
// backoff fall back to the defaults.
func NewRetrying(inner Searcher, maxAttempts int, backoff time.Duration) Searcher {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingSearcher{
		inner:       inner,
		logger:      log.ForComponent("gateway"),
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

func (r *retryingSearcher) Search(ctx context.Context, query string, limit int) ([]core.Player, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		players, err := r.inner.Search(ctx, query, limit)
		if err == nil {
			return players, nil
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}
		r.logger.Debugf("search retry %d/%d after error: %v", attempt, r.maxAttempts, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}

	return nil, lastErr
}
