package downtime

import (
	"sync"
	"testing"

	"github.com/hamed0406/simpeyes/internal/domain"
)

var (
	up   = domain.Outcome{Status: domain.StatusUp}
	down = domain.Outcome{Status: domain.StatusDownError}
)

func TestTracker_AccumulatesThenResets(t *testing.T) {
	site := domain.Site("http://a.example")
	tr := New([]domain.Site{site})

	const n = 4
	for k := 1; k <= n; k++ {
		got := tr.Update(site, down)
		if got.Cumulative != uint64(15*k) {
			t.Fatalf("cycle %d: want %d, got %d", k, 15*k, got.Cumulative)
		}
		if got.FirstDown != (k == 1) {
			t.Fatalf("cycle %d: FirstDown=%v", k, got.FirstDown)
		}
		if got.Recovered {
			t.Fatalf("cycle %d: unexpected recovery", k)
		}
	}

	got := tr.Update(site, up)
	if !got.Recovered || got.Previous != 15*n || got.Cumulative != 0 {
		t.Fatalf("want recovery from %d, got %+v", 15*n, got)
	}
	if tr.Get(site) != 0 {
		t.Fatalf("want reset to 0, got %d", tr.Get(site))
	}
}

func TestTracker_UpWithoutPriorDowntimeIsNotRecovery(t *testing.T) {
	site := domain.Site("http://b.example")
	tr := New([]domain.Site{site})
	got := tr.Update(site, up)
	if got.Recovered || got.Cumulative != 0 || got.Previous != 0 {
		t.Fatalf("unexpected transition: %+v", got)
	}
}

func TestTracker_AnyDownStatusCounts(t *testing.T) {
	site := domain.Site("http://c.example")
	tr := New([]domain.Site{site})
	tr.Update(site, domain.Outcome{Status: domain.StatusDownHTTP, HTTPStatus: 500})
	got := tr.Update(site, domain.Outcome{Status: domain.StatusDownErrorPage})
	if got.Cumulative != 30 || got.FirstDown {
		t.Fatalf("unexpected transition: %+v", got)
	}
}

func TestTracker_ConcurrentSitesAndSnapshot(t *testing.T) {
	sites := []domain.Site{"http://z.example", "http://a.example", "http://m.example"}
	tr := New(sites)

	var wg sync.WaitGroup
	for _, s := range sites {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Update(s, down)
		}()
	}
	wg.Wait()

	snap := tr.Snapshot()
	if len(snap) != 3 || snap[0].Site != "http://a.example" {
		t.Fatalf("snapshot not sorted or incomplete: %+v", snap)
	}
	for _, e := range snap {
		if e.DowntimeSeconds != 15 || !e.Down {
			t.Fatalf("unexpected entry: %+v", e)
		}
	}
}
