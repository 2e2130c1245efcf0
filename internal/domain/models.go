package domain

import (
	"fmt"
	"time"
)

// Site is a monitored URL. It is normalised once at load time and never
// changes for the rest of the session.
type Site string

type Status int

const (
	StatusUp Status = iota
	StatusDownHTTP
	StatusDownErrorPage
	StatusDownError
)

// Error page reasons as they appear in the "Error Page" column.
const (
	ErrorPageNone   = "No"
	ErrorPagePardon = "Pardon Page Found"
	ErrorPageTitle  = "Error in Title"
)

// Outcome is the classified result of a single probe.
//
// LoadTime is nil when the request never completed. Expiry is nil when no
// registrar lookup was attempted (terminal transport failure); a non-nil
// Expiry without a value means the lookup ran but produced nothing.
type Outcome struct {
	LoadTime   *time.Duration
	Status     Status
	HTTPStatus int
	ErrorPage  string
	Expiry     *Expiry
}

func (o Outcome) Up() bool { return o.Status == StatusUp }

// StatusText renders the status the way the CSV logs show it.
func (o Outcome) StatusText() string {
	switch o.Status {
	case StatusUp:
		return "Up"
	case StatusDownHTTP:
		return fmt.Sprintf("Down (HTTP %d)", o.HTTPStatus)
	case StatusDownErrorPage:
		return "Down (Error Page)"
	default:
		return "Down (Error)"
	}
}

// LoadTimeText renders load time with two decimals, e.g. "0.42 sec".
func (o Outcome) LoadTimeText() string {
	if o.LoadTime == nil {
		return "Unavailable"
	}
	return fmt.Sprintf("%.2f sec", o.LoadTime.Seconds())
}

// Expiry is the registrar expiration date of a site's domain.
type Expiry struct {
	At  time.Time
	Raw string // original text when it could not be parsed
}

func (e *Expiry) String() string {
	switch {
	case e == nil:
		return "NA"
	case !e.At.IsZero():
		return e.At.Format("2006-01-02 15:04:05")
	case e.Raw != "":
		return e.Raw
	default:
		return "Unavailable"
	}
}

// DowntimeText renders cumulative downtime seconds, "NA" for zero.
func DowntimeText(seconds uint64) string {
	if seconds == 0 {
		return "NA"
	}
	return fmt.Sprintf("%d sec", seconds)
}

// YesNo renders a flag for the CSV columns.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Record is one report row assembled after a probe and downtime update.
// Display fields are already rendered; Down selects the destination log.
type Record struct {
	Seq          int       `json:"seq"`
	CheckedAt    time.Time `json:"checked_at"`
	Tester       string    `json:"tester"`
	Site         Site      `json:"site"`
	LoadTime     string    `json:"load_time"`
	Status       string    `json:"status"`
	DomainExpiry string    `json:"domain_expiry"`
	Downtime     string    `json:"downtime"`
	IsSimplia    string    `json:"is_simplia"`
	ErrorPage    string    `json:"error_page"`
	Down         bool      `json:"down"`
}
