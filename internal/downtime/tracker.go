package downtime

import (
	"sort"
	"sync"

	"github.com/hamed0406/simpeyes/internal/domain"
)

// Penalty is the nominal downtime charged per down observation. It is not
// the measured outage length.
const Penalty uint64 = 15

// Transition describes what one observation did to a site's downtime.
type Transition struct {
	Previous   uint64
	Cumulative uint64
	Recovered  bool // down -> up
	FirstDown  bool // first down observation of a streak
}

// Tracker keeps cumulative downtime per site for the whole session.
// The map is guarded by mu; each site's entry is written only by the unit of
// work that owns the site in the current cycle.
type Tracker struct {
	mu      sync.Mutex
	seconds map[domain.Site]uint64
}

// New seeds one entry per site at zero.
func New(sites []domain.Site) *Tracker {
	m := make(map[domain.Site]uint64, len(sites))
	for _, s := range sites {
		m[s] = 0
	}
	return &Tracker{seconds: m}
}

// Update applies an outcome and returns the resulting transition.
func (t *Tracker) Update(site domain.Site, out domain.Outcome) Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.seconds[site]
	tr := Transition{Previous: prev}
	if out.Up() {
		tr.Recovered = prev > 0
		t.seconds[site] = 0
		return tr
	}

	tr.FirstDown = prev == 0
	tr.Cumulative = prev + Penalty
	t.seconds[site] = tr.Cumulative
	return tr
}

// Get returns the current cumulative downtime for a site.
func (t *Tracker) Get(site domain.Site) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seconds[site]
}

// Entry is one row of a snapshot.
type Entry struct {
	Site            domain.Site `json:"site"`
	DowntimeSeconds uint64      `json:"downtime_seconds"`
	Down            bool        `json:"down"`
}

// Snapshot copies the current state, sorted by site.
func (t *Tracker) Snapshot() []Entry {
	t.mu.Lock()
	out := make([]Entry, 0, len(t.seconds))
	for s, sec := range t.seconds {
		out = append(out, Entry{Site: s, DowntimeSeconds: sec, Down: sec > 0})
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Site < out[j].Site })
	return out
}
