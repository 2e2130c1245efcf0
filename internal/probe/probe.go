package probe

import (
	"context"

	"github.com/hamed0406/simpeyes/internal/domain"
)

// Checker performs a single probe attempt. Transport-level failures (DNS,
// connect, timeout) come back as errors; everything that produced an HTTP
// response is a classified Outcome.
type Checker interface {
	Check(ctx context.Context, site domain.Site) (domain.Outcome, error)
}

// Prober always yields an outcome; failures are folded into it.
type Prober interface {
	Probe(ctx context.Context, site domain.Site) domain.Outcome
}

// ExpiryLookup resolves the registrar expiration date for a target URL.
type ExpiryLookup interface {
	Expiry(ctx context.Context, target string) (domain.Expiry, error)
}
