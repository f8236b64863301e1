package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/reallyasi9/weeklypicks/internal/oracle"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/reallyasi9/weeklypicks/internal/sources"
	"github.com/reallyasi9/weeklypicks/internal/tools/sheetview"
	"github.com/reallyasi9/weeklypicks/internal/tools/weekly"
	"github.com/rs/zerolog/log"
)

// runFlags are shared by run and schedule.
type runFlags struct {
	Refresh        bool          `help:"Refresh source sheets before running. Failures keep the stale sheet."`
	Source         []string      `help:"Source to refresh, as SHEET=URL[#TABLE_ID]." env:"PICKS_SOURCES" sep:","`
	OracleInterval time.Duration `help:"Minimum time between oracle calls." env:"PICKS_ORACLE_INTERVAL" default:"6s"`
	Location       string        `help:"Vertex AI location." env:"PICKS_VERTEX_LOCATION" default:"us-central1"`
	Model          string        `help:"Vertex AI model that writes predictions." env:"PICKS_MODEL" default:"gemini-1.5-flash"`
	NoProgress     bool          `help:"Do not display progress bar."`
	SeasonYear     int           `help:"Year the season started, used for schedule dates without a year. Guessed from today's date if zero." env:"PICKS_SEASON_YEAR"`
	ResultsDay     string        `help:"Day of the week on which results of the previous week are recorded." env:"PICKS_RESULTS_DAY" default:"Tuesday"`
}

type runCmd struct {
	runFlags `embed:""`

	Week        int    `help:"Force predictions for this week, regardless of the date." env:"PICKS_WEEK"`
	Pushgateway string `help:"Prometheus Pushgateway URL to push run metrics to." env:"PICKS_PUSHGATEWAY"`
}

func (r *runCmd) AfterApply() error {
	if r.Week < 0 {
		return fmt.Errorf("week must be at least 1, got %d", r.Week)
	}
	if _, err := parseWeekday(r.ResultsDay); err != nil {
		return err
	}
	return nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(s, d.String()) || strings.EqualFold(s, d.String()[:3]) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid day of the week '%s'", s)
}

func parseSources(ss []string) ([]sources.Source, error) {
	out := make([]sources.Source, 0, len(ss))
	for _, s := range ss {
		src, err := sources.ParseSource(s)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// newOracle connects to Vertex AI. Dry runs get an oracle that returns the prompt instead.
func (f *runFlags) newOracle(ctx context.Context, g *globalCmd) (oracle.Oracle, error) {
	if g.DryRun {
		return oracle.Func(func(ctx context.Context, prompt string) (string, error) {
			return "DRY RUN\n" + prompt, nil
		}), nil
	}
	if g.ProjectID == "" {
		return nil, fmt.Errorf("a GCP project ID is required to call the oracle")
	}
	v, err := oracle.NewVertex(ctx, g.ProjectID, f.Location, f.Model, g.clientOptions()...)
	if err != nil {
		return nil, err
	}
	log.Info().Str("model", v.Model()).Dur("interval", f.OracleInterval).Msg("Oracle connected")
	return v, nil
}

// weeklyContext builds the run context shared by run and schedule.
// Store and Oracle are filled in by the caller.
func (f *runFlags) weeklyContext(ctx context.Context, g *globalCmd) (*weekly.Context, error) {
	srcs, err := parseSources(f.Source)
	if err != nil {
		return nil, err
	}
	day, err := parseWeekday(f.ResultsDay)
	if err != nil {
		return nil, err
	}
	if f.Refresh && len(srcs) == 0 {
		return nil, fmt.Errorf("refresh requested, but no sources configured")
	}

	wctx := weekly.NewContext(ctx)
	wctx.Force = g.Force
	wctx.NoProgress = f.NoProgress
	wctx.Refresh = f.Refresh
	wctx.Sources = srcs
	wctx.Gate = oracle.NewGate(f.OracleInterval)
	wctx.Location = g.location
	wctx.ResultsDay = day
	wctx.SeasonYear = f.SeasonYear
	return wctx, nil
}

func (r *runCmd) Run(g *globalCmd) error {
	ctx, cancel := interruptible()
	defer cancel()
	wctx, err := r.weeklyContext(ctx, g)
	if err != nil {
		return err
	}
	if r.Week > 0 {
		week := r.Week
		wctx.Week = &week
	}
	wctx.Oracle, err = r.newOracle(ctx, g)
	if err != nil {
		return err
	}

	store, closeStore, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	wctx.Store = store

	var snapshot *sheets.MemoryStore
	if g.DryRun {
		snapshot, err = sheets.Snapshot(ctx, store)
		if err != nil {
			return err
		}
		wctx.Store = snapshot
	}

	report, err := weekly.Run(wctx)
	if r.Pushgateway != "" {
		if perr := push.New(r.Pushgateway, "weeklypicks").Gatherer(prometheus.DefaultGatherer).Push(); perr != nil {
			log.Warn().Err(perr).Str("url", r.Pushgateway).Msg("Failed to push metrics")
		}
	}
	if err != nil {
		return err
	}

	if g.DryRun && report.Sheet != "" {
		log.Info().Msg("DRY RUN: would write the following sheet")
		vctx := sheetview.NewContext(context.WithoutCancel(ctx))
		vctx.Store = snapshot
		vctx.Sheet = report.Sheet
		vctx.Out = os.Stdout
		if err := sheetview.Show(vctx); err != nil {
			return err
		}
	}
	if report.Interrupted {
		return fmt.Errorf("run interrupted after writing %d rows: remaining games are left for the next run", report.RowsWritten)
	}
	return nil
}
