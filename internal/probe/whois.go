package probe

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/net/publicsuffix"

	"github.com/hamed0406/simpeyes/internal/domain"
)

var errNoExpiry = errors.New("no expiration date in whois record")

// Registrars disagree on date formats; these cover the common ones.
var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.0Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"02.01.2006",
}

// WhoisLookup queries the registrar for a domain's expiration date.
type WhoisLookup struct {
	client *whois.Client
}

func NewWhoisLookup(timeout time.Duration) *WhoisLookup {
	c := whois.NewClient()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &WhoisLookup{client: c}
}

func (w *WhoisLookup) Expiry(ctx context.Context, target string) (domain.Expiry, error) {
	name := registrableDomain(target)
	if name == "" {
		return domain.Expiry{}, fmt.Errorf("no domain in %q", target)
	}

	type result struct {
		raw string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := w.client.Whois(name)
		ch <- result{raw, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return domain.Expiry{}, ctx.Err()
	case res = <-ch:
	}
	if res.err != nil {
		return domain.Expiry{}, fmt.Errorf("whois %s: %w", name, res.err)
	}

	info, err := whoisparser.Parse(res.raw)
	if err != nil {
		return domain.Expiry{}, fmt.Errorf("parse whois %s: %w", name, err)
	}
	if info.Domain == nil || strings.TrimSpace(info.Domain.ExpirationDate) == "" {
		return domain.Expiry{}, errNoExpiry
	}
	return parseExpiry(info.Domain.ExpirationDate), nil
}

// registrableDomain reduces a URL to the name a registrar knows about,
// e.g. http://www.shop.example.co.uk/x -> example.co.uk.
func registrableDomain(target string) string {
	host := extractHost(target)
	if host == "" {
		return ""
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}

func parseExpiry(s string) domain.Expiry {
	s = strings.TrimSpace(s)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Expiry{At: t}
		}
	}
	return domain.Expiry{Raw: s}
}

// extractHost pulls the hostname from a URL string
func extractHost(raw string) string {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
