package report

import (
	"context"
	"sort"
	"sync"

	"github.com/hamed0406/simpeyes/internal/domain"
)

// MemorySink keeps the latest emitted record per site for the status API.
type MemorySink struct {
	mu     sync.RWMutex
	latest map[domain.Site]domain.Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{latest: make(map[domain.Site]domain.Record)}
}

func (m *MemorySink) Emit(ctx context.Context, rec domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.latest[rec.Site]
	if !ok || !rec.CheckedAt.Before(cur.CheckedAt) {
		m.latest[rec.Site] = rec
	}
	return nil
}

// Latest returns one record per site ordered by sequence number.
func (m *MemorySink) Latest(ctx context.Context) ([]domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Record, 0, len(m.latest))
	for _, r := range m.latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}
