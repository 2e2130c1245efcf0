package domain

import (
	"testing"
	"time"
)

func TestOutcome_StatusText(t *testing.T) {
	cases := []struct {
		in   Outcome
		want string
	}{
		{Outcome{Status: StatusUp}, "Up"},
		{Outcome{Status: StatusDownHTTP, HTTPStatus: 503}, "Down (HTTP 503)"},
		{Outcome{Status: StatusDownErrorPage}, "Down (Error Page)"},
		{Outcome{Status: StatusDownError}, "Down (Error)"},
	}
	for _, c := range cases {
		if got := c.in.StatusText(); got != c.want {
			t.Fatalf("StatusText(%+v)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestOutcome_LoadTimeText(t *testing.T) {
	if got := (Outcome{}).LoadTimeText(); got != "Unavailable" {
		t.Fatalf("nil load time: got %q", got)
	}
	d := 1234 * time.Millisecond
	if got := (Outcome{LoadTime: &d}).LoadTimeText(); got != "1.23 sec" {
		t.Fatalf("want 1.23 sec, got %q", got)
	}
}

func TestExpiry_String(t *testing.T) {
	var none *Expiry
	if got := none.String(); got != "NA" {
		t.Fatalf("nil expiry: got %q", got)
	}
	if got := (&Expiry{}).String(); got != "Unavailable" {
		t.Fatalf("empty expiry: got %q", got)
	}
	if got := (&Expiry{Raw: "soon"}).String(); got != "soon" {
		t.Fatalf("raw expiry: got %q", got)
	}
	at := time.Date(2027, 3, 1, 4, 5, 6, 0, time.UTC)
	if got := (&Expiry{At: at}).String(); got != "2027-03-01 04:05:06" {
		t.Fatalf("dated expiry: got %q", got)
	}
}

func TestDowntimeText(t *testing.T) {
	if got := DowntimeText(0); got != "NA" {
		t.Fatalf("want NA, got %q", got)
	}
	if got := DowntimeText(45); got != "45 sec" {
		t.Fatalf("want 45 sec, got %q", got)
	}
}
