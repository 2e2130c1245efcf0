package report

import (
	"context"

	"go.uber.org/multierr"

	"github.com/hamed0406/simpeyes/internal/domain"
)

// Sink receives one record per probed site per cycle, subject to the
// up/down logging policy applied by the scheduler.
type Sink interface {
	Emit(ctx context.Context, rec domain.Record) error
}

// Multi fans a record out to every sink and combines their errors.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, rec domain.Record) error {
	var err error
	for _, s := range m {
		if s == nil {
			continue
		}
		err = multierr.Append(err, s.Emit(ctx, rec))
	}
	return err
}
