// Command arbengine runs the simulated cross-venue arbitrage engine end to
// end: synthetic venue feeds, book aggregation, pairwise detection, risk
// sizing/approval, and the CSV/dashboard/journal output sinks. Grounded on
// the teacher's cmd/ingest/main.go bootstrap shape (flag-parsed entrypoint,
// signal.NotifyContext shutdown, run() error pattern).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"

	"main/internal/dashboard"
	"main/internal/detector"
	"main/internal/dispatch"
	"main/internal/feed"
	"main/internal/ops"
	"main/internal/perf"
	"main/internal/risk"
	"main/internal/sink"
)

func main() {
	if err := run(); err != nil {
		logs.Errorf("arbengine: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.json", "path to the engine's JSON config file")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Features.EnableProfiling {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "arbengine",
			ServerAddress:   "http://localhost:4040",
			Tags:            map[string]string{"env": "local"},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			logs.Errorf("arbengine: pyroscope start failed: %v", err)
		} else {
			defer func() { _ = profiler.Stop() }()
		}
	}

	riskEngine := risk.NewEngine(cfg.Risk)
	tracker := perf.New()
	det := detector.New(cfg.Registry, cfg.MinProfitBps, nil)

	sinks, closeSinks, err := buildSinks(cfg)
	if err != nil {
		return fmt.Errorf("build sinks: %w", err)
	}
	defer closeSinks()

	loop := dispatch.New(cfg.Registry, det, riskEngine, tracker, sinks)

	if sinks.Push != nil {
		go sinks.Push.Run(ctx)
	}
	go perf.RunReporter(ctx, tracker, perf.DefaultReportInterval)

	var httpServer *http.Server
	if cfg.Features.EnableDashboard && sinks.Push != nil && cfg.Sinks.DashboardAddr != "" {
		dash := dashboard.New(sinks.Push)
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", dash.Handler())
		httpServer = &http.Server{Addr: cfg.Sinks.DashboardAddr, Handler: mux}
		go func() {
			logs.Infof("arbengine: dashboard listening on %s", cfg.Sinks.DashboardAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logs.Errorf("arbengine: dashboard server failed: %v", err)
			}
		}()
	}

	feeds := startFeeds(ctx, cfg, loop)

	logs.Infof("arbengine: running with %d symbols across %d venues", len(cfg.Symbols), len(cfg.Venues))
	<-ctx.Done()
	logs.Info("arbengine: shutting down")

	for _, f := range feeds {
		f.Stop()
	}
	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if sinks.Push != nil {
		sinks.Push.Close()
	}
	return nil
}

func startFeeds(ctx context.Context, cfg ops.Loaded, loop *dispatch.Loop) []feed.Feed {
	feeds := make([]feed.Feed, 0, len(cfg.Venues)*len(cfg.Symbols))
	for _, v := range cfg.Venues {
		for _, symbol := range cfg.Symbols {
			f := feed.NewSynthetic(feed.SyntheticConfig{
				Venue:        v.Name,
				BasePrice:    v.BasePrice,
				Spread:       v.Spread,
				Volatility:   v.Volatility,
				TickInterval: v.TickInterval(),
				Seed:         v.Seed,
			})
			f.SetSymbol(symbol)
			f.SetCallback(loop.HandleUpdate)
			if err := f.Start(ctx); err != nil {
				logs.Errorf("arbengine: start feed %s/%s: %v", v.Name, symbol, err)
				continue
			}
			feeds = append(feeds, f)
		}
	}
	return feeds
}

func buildSinks(cfg ops.Loaded) (dispatch.Sinks, func(), error) {
	var out dispatch.Sinks
	closers := make([]func() error, 0, 3)

	if cfg.Sinks.CSVPath != "" {
		csvLog, err := sink.OpenCSVLog(cfg.Sinks.CSVPath)
		if err != nil {
			return dispatch.Sinks{}, nil, err
		}
		out.CSV = csvLog
		closers = append(closers, csvLog.Close)
	}

	depth := cfg.Sinks.PushQueueDepth
	if depth <= 0 {
		depth = 256
	}
	out.Push = sink.NewSink(depth)

	if cfg.Features.EnableJournal && cfg.Sinks.Postgres != nil {
		journal, err := sink.OpenJournal(postgresOption(*cfg.Sinks.Postgres))
		if err != nil {
			return dispatch.Sinks{}, nil, err
		}
		out.Journal = journal
		closers = append(closers, journal.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logs.Errorf("arbengine: close sink: %v", err)
			}
		}
	}
	return out, closeAll, nil
}
