package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/simpeyes/internal/domain"
)

type fakeExpiry struct {
	exp domain.Expiry
	err error
	n   int
}

func (f *fakeExpiry) Expiry(ctx context.Context, target string) (domain.Expiry, error) {
	f.n++
	return f.exp, f.err
}

func serve(t *testing.T, code int, body string) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(code)
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func TestHTTPChecker_StatusOK(t *testing.T) {
	s := serve(t, 200, "<html><title>Welcome</title></html>")
	at := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	exp := &fakeExpiry{exp: domain.Expiry{At: at}}

	chk := NewHTTPChecker(2*time.Second, exp, nil)
	out, err := chk.Check(context.Background(), domain.Site(s.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Up() || out.HTTPStatus != 200 || out.ErrorPage != "No" {
		t.Fatalf("want up, got %+v", out)
	}
	if out.LoadTime == nil || *out.LoadTime < 0 {
		t.Fatalf("load time should be set, got %v", out.LoadTime)
	}
	if exp.n != 1 || out.Expiry == nil || !out.Expiry.At.Equal(at) {
		t.Fatalf("expiry not recorded: %+v (calls=%d)", out.Expiry, exp.n)
	}
}

func TestHTTPChecker_AddsSchemeWhenMissing(t *testing.T) {
	s := serve(t, 200, "ok")
	chk := NewHTTPChecker(2*time.Second, nil, nil)
	out, err := chk.Check(context.Background(), domain.Site(strings.TrimPrefix(s.URL, "http://")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Up() {
		t.Fatalf("want up, got %+v", out)
	}
	if out.Expiry == nil || out.Expiry.String() != "Unavailable" {
		t.Fatalf("no lookup configured should read Unavailable, got %v", out.Expiry)
	}
}

func TestHTTPChecker_Status503IgnoresBody(t *testing.T) {
	s := serve(t, 503, "Pardon us!")
	chk := NewHTTPChecker(2*time.Second, nil, nil)
	out, err := chk.Check(context.Background(), domain.Site(s.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != domain.StatusDownHTTP || out.HTTPStatus != 503 {
		t.Fatalf("want DownHTTP(503), got %+v", out)
	}
	if out.StatusText() != "Down (HTTP 503)" {
		t.Fatalf("unexpected status text %q", out.StatusText())
	}
}

func TestHTTPChecker_PageNotFoundOn200(t *testing.T) {
	s := serve(t, 200, "<h1>PAGE NOT FOUND!</h1>")
	chk := NewHTTPChecker(2*time.Second, nil, nil)
	out, err := chk.Check(context.Background(), domain.Site(s.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != domain.StatusDownErrorPage || out.ErrorPage != "Pardon Page Found" {
		t.Fatalf("want error page, got %+v", out)
	}
}

func TestHTTPChecker_ExpiryFailureKeepsStatus(t *testing.T) {
	s := serve(t, 200, "fine")
	chk := NewHTTPChecker(2*time.Second, &fakeExpiry{err: errors.New("whois down")}, nil)
	out, err := chk.Check(context.Background(), domain.Site(s.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Up() {
		t.Fatalf("expiry failure must not change status, got %+v", out)
	}
	if out.Expiry == nil || out.Expiry.String() != "Unavailable" {
		t.Fatalf("want Unavailable expiry, got %v", out.Expiry)
	}
}

func TestHTTPChecker_TimeoutIsTransportError(t *testing.T) {
	// Server sleeps longer than client timeout
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	chk := NewHTTPChecker(50*time.Millisecond, nil, nil)
	if _, err := chk.Check(context.Background(), domain.Site(s.URL)); err == nil {
		t.Fatalf("want transport error on timeout")
	}
}
