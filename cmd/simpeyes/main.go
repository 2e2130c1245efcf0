package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/simpeyes/internal/config"
	"github.com/hamed0406/simpeyes/internal/downtime"
	"github.com/hamed0406/simpeyes/internal/httpapi"
	"github.com/hamed0406/simpeyes/internal/logging"
	"github.com/hamed0406/simpeyes/internal/metrics"
	"github.com/hamed0406/simpeyes/internal/probe"
	"github.com/hamed0406/simpeyes/internal/report"
	"github.com/hamed0406/simpeyes/internal/scheduler"
)

func main() {
	configPath := flag.String("config", filepath.Join("config", "config.env"), "optional KEY=value config file")
	siteURL := flag.String("url", "", "monitor a single website")
	sitesFile := flag.String("file", "", "monitor every website listed in this file, one per line")
	testerName := flag.String("tester", "", "tester name written to the reports")
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	if err := config.LoadFile(*configPath); err != nil {
		log.Fatal(err)
	}
	cfg := config.FromEnv()

	logger, err := logging.NewLogger(cfg.LogDir, true)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	in := bufio.NewReader(os.Stdin)
	list, err := resolveSites(in, os.Stdout, *siteURL, *sitesFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "\n"+err.Error()+". Exiting.")
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stderr, "\nNo websites to monitor. Exiting.")
		os.Exit(1)
	}
	tester, err := resolveTester(in, os.Stdout, *testerName)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var expiry probe.ExpiryLookup
	if cfg.WhoisEnabled {
		expiry = probe.NewWhoisLookup(cfg.WhoisTimeout)
	}
	checker := probe.NewHTTPChecker(cfg.HTTPTimeout, expiry, logger)
	prober := probe.NewRetryChecker(checker, cfg.RetryAttempts, cfg.RetryBackoff, logger)

	tracker := downtime.New(list)
	mtr := metrics.New()
	latest := report.NewMemorySink()
	sink := report.Multi{report.NewCSVSink(cfg.ReportDir, logger), latest}

	mon := scheduler.NewMonitor(logger, list, prober, tracker, sink, scheduler.Config{
		Tester:     tester,
		BatchSize:  cfg.BatchSize,
		BatchDelay: cfg.BatchDelay,
		CycleDelay: cfg.CycleDelay,
	})
	mon.Marker = probe.NewMarkerChecker(cfg.MarkerTimeout, cfg.MarkerKeyword, logger)
	mon.Metrics = mtr

	if cfg.APIAddr != "" {
		api := httpapi.NewServer(logger, tracker, latest, mtr.Handler())
		srv := &http.Server{
			Addr: cfg.APIAddr,
			Handler: api.Router(httpapi.RouterOptions{
				Keys:     cfg.PublicAPIKeys,
				RPM:      cfg.APIRPM,
				Burst:    cfg.APIBurst,
				AllowAll: true,
			}),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("api_listen", zap.String("addr", cfg.APIAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("api_listen_error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if *once {
		err = mon.RunCycle(ctx)
	} else {
		err = mon.Run(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("monitor_error", zap.Error(err))
	}
	fmt.Println("\nMonitoring stopped by user...")
}
