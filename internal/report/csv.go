package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/simpeyes/internal/domain"
)

const (
	UpFile   = "up_sites.csv"
	DownFile = "down_sites.csv"
)

// Header is written once, when a log file is created.
var Header = []string{
	"SL", "Date", "Time", "Tester Name", "Website", "Load Time", "Status",
	"Domain Expiry Date", "Downtime", "Is Simplia Site", "Error Page",
}

// CSVSink appends records to two logs: up results and down results.
// Each file has its own lock so a file held open elsewhere only stalls
// writers of that file.
type CSVSink struct {
	Dir        string
	Logger     *zap.Logger
	Backoff    time.Duration // first wait after a contended write
	MaxBackoff time.Duration

	upMu   sync.Mutex
	downMu sync.Mutex
}

func NewCSVSink(dir string, logger *zap.Logger) *CSVSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVSink{
		Dir:        dir,
		Logger:     logger,
		Backoff:    2 * time.Second,
		MaxBackoff: 30 * time.Second,
	}
}

func (s *CSVSink) Emit(ctx context.Context, rec domain.Record) error {
	name, mu := UpFile, &s.upMu
	if rec.Down {
		name, mu = DownFile, &s.downMu
	}
	path := filepath.Join(s.Dir, name)

	mu.Lock()
	defer mu.Unlock()

	wait := s.Backoff
	for {
		err := appendRow(path, row(rec))
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("append %s: %w", path, err)
		}
		// Usually the file is open in a spreadsheet; wait for it to be closed.
		s.Logger.Warn("report_file_locked",
			zap.String("path", path),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
		if err := sleepCtx(ctx, wait); err != nil {
			return fmt.Errorf("append %s: %w", path, err)
		}
		wait *= 2
		if s.MaxBackoff > 0 && wait > s.MaxBackoff {
			wait = s.MaxBackoff
		}
	}
}

func row(rec domain.Record) []string {
	return []string{
		fmt.Sprint(rec.Seq),
		rec.CheckedAt.Format("2006-01-02"),
		rec.CheckedAt.Format("15:04:05"),
		rec.Tester,
		string(rec.Site),
		rec.LoadTime,
		rec.Status,
		rec.DomainExpiry,
		rec.Downtime,
		rec.IsSimplia,
		rec.ErrorPage,
	}
}

func appendRow(path string, fields []string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return err
		}
	}
	if err := w.Write(fields); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
