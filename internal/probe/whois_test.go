package probe

import (
	"testing"
	"time"
)

func TestRegistrableDomain(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"http://www.example.com/path", "example.com"},
		{"https://shop.example.co.uk", "example.co.uk"},
		{"example.org", "example.org"},
		{"http://EXAMPLE.net:8080/", "example.net"},
		{"http://", ""},
	}
	for _, c := range cases {
		if got := registrableDomain(c.in); got != c.want {
			t.Fatalf("registrableDomain(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestParseExpiry(t *testing.T) {
	e := parseExpiry("2031-08-13T04:00:00Z")
	want := time.Date(2031, 8, 13, 4, 0, 0, 0, time.UTC)
	if !e.At.Equal(want) {
		t.Fatalf("want %v, got %+v", want, e)
	}

	e = parseExpiry("13-Aug-2031")
	if e.At.Year() != 2031 || e.At.Month() != time.August {
		t.Fatalf("unexpected parse: %+v", e)
	}

	e = parseExpiry("sometime next year")
	if !e.At.IsZero() || e.Raw != "sometime next year" {
		t.Fatalf("unparseable dates should be kept raw, got %+v", e)
	}
}
