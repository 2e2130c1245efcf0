package probe

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/simpeyes/internal/domain"
	"github.com/hamed0406/simpeyes/internal/sites"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// MarkerChecker reports whether a site's page source mentions a keyword,
// e.g. the platform vendor that built it. Advisory: any failure reads false.
type MarkerChecker struct {
	Client  *http.Client
	Keyword string
	Logger  *zap.Logger
}

func NewMarkerChecker(timeout time.Duration, keyword string, logger *zap.Logger) *MarkerChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkerChecker{
		Client:  &http.Client{Timeout: timeout},
		Keyword: strings.ToLower(keyword),
		Logger:  logger,
	}
}

func (m *MarkerChecker) Check(ctx context.Context, site domain.Site) bool {
	if m.Keyword == "" {
		return false
	}
	target := string(sites.Normalize(string(site)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := m.Client.Do(req)
	if err != nil {
		m.Logger.Debug("marker_fetch_failed", zap.String("url", target), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return false
	}

	body, err := readBody(resp)
	if err != nil {
		m.Logger.Debug("marker_read_failed", zap.String("url", target), zap.Error(err))
		return false
	}
	return strings.Contains(strings.ToLower(body), m.Keyword)
}
