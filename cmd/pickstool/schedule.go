package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reallyasi9/weeklypicks/internal/tools/weekly"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type scheduleCmd struct {
	runFlags `embed:""`

	Cron        string `help:"Cron expression for runs, in the operating timezone." env:"PICKS_CRON" default:"0 9 * * *"`
	MetricsAddr string `help:"Address to serve Prometheus metrics on. Empty disables the server." env:"PICKS_METRICS_ADDR" default:":9090"`
	Now         bool   `help:"Run once immediately on startup."`
}

func (s *scheduleCmd) Run(g *globalCmd) error {
	if g.DryRun {
		return errors.New("dry runs are not scheduled: use the run command")
	}

	ctx, cancel := interruptible()
	defer cancel()

	base, err := s.weeklyContext(ctx, g)
	if err != nil {
		return err
	}
	base.NoProgress = true
	base.Oracle, err = s.newOracle(ctx, g)
	if err != nil {
		return err
	}

	job := func() {
		store, closeStore, err := g.openStore(ctx)
		if err != nil {
			log.Error().Err(err).Str("store", g.Store).Msg("Failed to open store")
			return
		}
		defer closeStore()
		wctx := *base
		wctx.Store = store
		if _, err := weekly.Run(&wctx); err != nil {
			log.Error().Err(err).Msg("Scheduled run failed")
		}
	}

	c := cron.New(
		cron.WithLocation(g.location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(s.Cron, job); err != nil {
		return err
	}

	var srv *http.Server
	if s.MetricsAddr != "" {
		srv = startMetricsServer(s.MetricsAddr)
	}

	c.Start()
	log.Info().Str("schedule", s.Cron).Stringer("timezone", g.location).Msg("Weekly runs scheduled")
	if s.Now {
		go job()
	}

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	<-c.Stop().Done()
	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}
	log.Info().Msg("Scheduler shutdown complete")
	return nil
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("addr", addr).Msg("Starting metrics server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return srv
}
