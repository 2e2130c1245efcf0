package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/hamed0406/simpeyes/internal/domain"
	"github.com/hamed0406/simpeyes/internal/sites"
)

const maxBodyBytes = 5 << 20

type HTTPChecker struct {
	Client *http.Client
	Expiry ExpiryLookup // optional
	Logger *zap.Logger
}

func NewHTTPChecker(timeout time.Duration, expiry ExpiryLookup, logger *zap.Logger) *HTTPChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
		Expiry: expiry,
		Logger: logger,
	}
}

// Check issues one GET, times it including the body download, and classifies
// the response. The registrar lookup runs afterwards and never changes the
// status.
func (h *HTTPChecker) Check(ctx context.Context, site domain.Site) (domain.Outcome, error) {
	target := string(sites.Normalize(string(site)))

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return domain.Outcome{}, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("read body: %w", err)
	}
	loadTime := time.Since(start)

	status, reason := Classify(resp.StatusCode, body)
	out := domain.Outcome{
		LoadTime:   &loadTime,
		Status:     status,
		HTTPStatus: resp.StatusCode,
		ErrorPage:  reason,
		Expiry:     h.lookupExpiry(ctx, target),
	}
	return out, nil
}

func (h *HTTPChecker) lookupExpiry(ctx context.Context, target string) *domain.Expiry {
	if h.Expiry == nil {
		return &domain.Expiry{}
	}
	exp, err := h.Expiry.Expiry(ctx, target)
	if err != nil {
		h.Logger.Debug("whois_lookup_failed", zap.String("url", target), zap.Error(err))
		return &domain.Expiry{}
	}
	return &exp
}

// readBody decodes the body to UTF-8 based on the Content-Type header,
// falling back to the raw bytes for unknown charsets.
func readBody(resp *http.Response) (string, error) {
	var r io.Reader = io.LimitReader(resp.Body, maxBodyBytes)
	if dec, err := charset.NewReader(r, resp.Header.Get("Content-Type")); err == nil {
		r = dec
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
