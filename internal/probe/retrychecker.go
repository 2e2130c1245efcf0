// internal/probe/retrychecker.go
package probe

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/simpeyes/internal/domain"
)

// RetryChecker retries the inner checker on transport errors only. Any
// outcome the inner checker returns, Down or not, is final.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
	Logger   *zap.Logger
	// Sleep waits between attempts; nil means a ctx-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewRetryChecker(inner Checker, attempts int, backoff time.Duration, logger *zap.Logger) *RetryChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryChecker{Inner: inner, Attempts: attempts, Backoff: backoff, Logger: logger}
}

// Failed is the outcome reported once every attempt hit a transport error.
func Failed() domain.Outcome {
	return domain.Outcome{Status: domain.StatusDownError, ErrorPage: domain.ErrorPageNone}
}

// Probe returns Failed when every attempt hit a transport error. It also
// returns Failed when ctx ends first; callers must check ctx before treating
// that outcome as an observation.
func (r *RetryChecker) Probe(ctx context.Context, site domain.Site) domain.Outcome {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for i := 0; i < attempts; i++ {
		out, err := r.Inner.Check(ctx, site)
		if err == nil {
			return out
		}
		if ctx.Err() != nil {
			log.Debug("probe_cancelled", zap.String("url", string(site)), zap.Int("attempt", i+1))
			return Failed()
		}
		fields := []zap.Field{
			zap.String("url", string(site)),
			zap.Int("attempt", i+1),
			zap.Int("attempts", attempts),
			zap.Error(err),
		}
		last := i == attempts-1
		if !last {
			fields = append(fields, zap.Duration("retry_in", r.Backoff))
		}
		log.Warn("probe_attempt_failed", fields...)
		if last {
			break
		}
		if err := sleep(ctx, r.Backoff); err != nil {
			log.Debug("probe_cancelled", zap.String("url", string(site)), zap.Int("attempt", i+1))
			return Failed()
		}
	}
	log.Warn("probe_retries_exhausted", zap.String("url", string(site)))
	return Failed()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
