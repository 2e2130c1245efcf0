package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/simpeyes/internal/domain"
	"github.com/hamed0406/simpeyes/internal/downtime"
	"github.com/hamed0406/simpeyes/internal/metrics"
	"github.com/hamed0406/simpeyes/internal/probe"
	"github.com/hamed0406/simpeyes/internal/report"
)

type Config struct {
	Tester     string
	BatchSize  int
	BatchDelay time.Duration // between batches of one cycle
	CycleDelay time.Duration // after a full cycle
}

func DefaultConfig() Config {
	return Config{
		BatchSize:  20,
		BatchDelay: 2 * time.Second,
		CycleDelay: 30 * time.Minute,
	}
}

// MarkerCheck is the advisory page-content check ("Is Simplia Site").
type MarkerCheck interface {
	Check(ctx context.Context, site domain.Site) bool
}

// Monitor probes every site in fixed-size concurrent batches, forever.
type Monitor struct {
	Logger   *zap.Logger
	Sites    []domain.Site
	Prober   probe.Prober
	Marker   MarkerCheck // optional
	Tracker  *downtime.Tracker
	Sink     report.Sink
	Metrics  *metrics.Metrics // optional
	Resolver probe.Resolver   // DNS diagnostics for unreachable sites; nil uses the system resolver
	Config   Config

	// Wait blocks for d or until ctx is done; nil means a ctx-aware timer.
	Wait func(ctx context.Context, d time.Duration) error
	Now  func() time.Time
}

func NewMonitor(
	logger *zap.Logger,
	sites []domain.Site,
	prober probe.Prober,
	tracker *downtime.Tracker,
	sink report.Sink,
	cfg Config,
) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	if cfg.CycleDelay < 0 {
		cfg.CycleDelay = 0
	}
	if tracker == nil {
		tracker = downtime.New(sites)
	}
	return &Monitor{
		Logger:  logger,
		Sites:   sites,
		Prober:  prober,
		Tracker: tracker,
		Sink:    sink,
		Config:  cfg,
	}
}

// Run does an immediate cycle, then one cycle after each CycleDelay.
// Stops when ctx is cancelled; in-flight probes are abandoned with ctx.
func (m *Monitor) Run(ctx context.Context) error {
	m.Logger.Info("monitor_started",
		zap.Int("sites", len(m.Sites)),
		zap.Int("batch_size", m.Config.BatchSize),
		zap.Duration("cycle_delay", m.Config.CycleDelay),
	)
	for cycle := 1; ; cycle++ {
		if err := m.RunCycle(ctx); err != nil {
			m.Logger.Info("monitor_stopped", zap.Int("cycle", cycle))
			return err
		}
		m.Logger.Info("cycle_complete",
			zap.Int("cycle", cycle),
			zap.Duration("next_in", m.Config.CycleDelay),
		)
		if err := m.wait(ctx, m.Config.CycleDelay); err != nil {
			m.Logger.Info("monitor_stopped", zap.Int("cycle", cycle))
			return err
		}
	}
}

// RunCycle probes every site once. Batch N+1 starts only after all of
// batch N has finished and BatchDelay has elapsed.
func (m *Monitor) RunCycle(ctx context.Context) error {
	start := time.Now()
	batches := Batches(m.Sites, m.Config.BatchSize)
	for i, b := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.runBatch(ctx, b)
		if err := ctx.Err(); err != nil {
			return err
		}

		if i < len(batches)-1 {
			m.Logger.Debug("batch_wait",
				zap.Int("batch", i+1),
				zap.Int("batches", len(batches)),
				zap.Duration("delay", m.Config.BatchDelay),
			)
			if err := m.wait(ctx, m.Config.BatchDelay); err != nil {
				return err
			}
		}
	}
	m.Metrics.CycleDone(time.Since(start))
	return nil
}

// Batch is a consecutive run of sites; Offset is the index of its first site
// in the full list.
type Batch struct {
	Offset int
	Sites  []domain.Site
}

// Batches splits sites into consecutive groups of at most size.
func Batches(sites []domain.Site, size int) []Batch {
	if size < 1 {
		size = 1
	}
	out := make([]Batch, 0, (len(sites)+size-1)/size)
	for i := 0; i < len(sites); i += size {
		end := min(i+size, len(sites))
		out = append(out, Batch{Offset: i, Sites: sites[i:end]})
	}
	return out
}

func (m *Monitor) runBatch(ctx context.Context, b Batch) {
	var g errgroup.Group
	g.SetLimit(len(b.Sites))
	for j, site := range b.Sites {
		seq := b.Offset + j + 1
		g.Go(func() error {
			m.checkSite(ctx, seq, site)
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Monitor) checkSite(ctx context.Context, seq int, site domain.Site) {
	m.Metrics.ProbeStarted()
	defer m.Metrics.ProbeDone()

	out := m.Prober.Probe(ctx, site)
	if ctx.Err() != nil {
		// Shutting down: the probe was cut short, so it says nothing about the site.
		m.Logger.Debug("site_check_abandoned", zap.String("url", string(site)))
		return
	}
	tr := m.Tracker.Update(site, out)

	// An unreachable site will not serve a marker either.
	simplia := false
	if m.Marker != nil && out.Status != domain.StatusDownError {
		simplia = m.Marker.Check(ctx, site)
	}
	m.Metrics.ObserveCheck(site, out, tr.Cumulative)
	m.logCheck(ctx, seq, site, out, tr, simplia)

	rec, ok := BuildRecord(seq, m.Config.Tester, m.now(), site, out, tr, simplia)
	if !ok {
		return
	}
	if err := m.Sink.Emit(ctx, rec); err != nil {
		m.Logger.Warn("report_emit_error",
			zap.String("url", string(site)),
			zap.Bool("down", rec.Down),
			zap.Error(err),
		)
	}
}

// BuildRecord applies the logging policy: up observations are always
// reported with the downtime accumulated before this cycle ("NA" when there
// was none), down observations only on the first cycle of a streak with the
// downtime after the update.
func BuildRecord(
	seq int,
	tester string,
	at time.Time,
	site domain.Site,
	out domain.Outcome,
	tr downtime.Transition,
	simplia bool,
) (domain.Record, bool) {
	rec := domain.Record{
		Seq:          seq,
		CheckedAt:    at,
		Tester:       tester,
		Site:         site,
		LoadTime:     out.LoadTimeText(),
		Status:       out.StatusText(),
		DomainExpiry: out.Expiry.String(),
		IsSimplia:    domain.YesNo(simplia),
		ErrorPage:    out.ErrorPage,
		Down:         !out.Up(),
	}
	if rec.ErrorPage == "" {
		rec.ErrorPage = domain.ErrorPageNone
	}
	if out.Up() {
		rec.Downtime = domain.DowntimeText(tr.Previous)
		return rec, true
	}
	if !tr.FirstDown {
		return domain.Record{}, false
	}
	rec.Downtime = domain.DowntimeText(tr.Cumulative)
	return rec, true
}

func (m *Monitor) logCheck(ctx context.Context, seq int, site domain.Site, out domain.Outcome, tr downtime.Transition, simplia bool) {
	url := zap.String("url", string(site))
	switch {
	case !out.Up():
		fields := []zap.Field{url,
			zap.String("status", out.StatusText()),
			zap.Uint64("downtime_s", tr.Cumulative),
			zap.Bool("first_down", tr.FirstDown),
		}
		if out.Status == domain.StatusDownError {
			dns := probe.DiagnoseDNS(ctx, m.Resolver, string(site))
			fields = append(fields, zap.String("dns", string(dns.Class)))
		}
		m.Logger.Warn("site_down", fields...)
	case tr.Recovered:
		m.Logger.Info("site_recovered", url, zap.Uint64("total_downtime_s", tr.Previous))
	}

	m.Logger.Info("site_checked",
		zap.Int("seq", seq),
		url,
		zap.String("load_time", out.LoadTimeText()),
		zap.String("status", out.StatusText()),
		zap.String("domain_expiry", out.Expiry.String()),
		zap.String("downtime", domain.DowntimeText(tr.Cumulative)),
		zap.Bool("simplia", simplia),
		zap.String("error_page", out.ErrorPage),
	)
}

func (m *Monitor) wait(ctx context.Context, d time.Duration) error {
	if m.Wait != nil {
		return m.Wait(ctx, d)
	}
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

func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
