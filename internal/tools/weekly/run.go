package weekly

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/reallyasi9/weeklypicks/internal/metrics"
	"github.com/reallyasi9/weeklypicks/internal/oracle"
	"github.com/reallyasi9/weeklypicks/internal/schedule"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/reallyasi9/weeklypicks/internal/table"
	"github.com/reallyasi9/weeklypicks/internal/teams"
	"github.com/reallyasi9/weeklypicks/internal/workflow"
	"github.com/rs/zerolog/log"
	progressbar "github.com/schollz/progressbar/v3"
)

// Input sheets.
const (
	OFFENSE_SHEET = "Team Offense"
	DEFENSE_SHEET = "Team Defense"
	SCORES_SHEET  = "Scores"
)

// RequiredSheets must all exist before a run writes anything.
var RequiredSheets = []string{teams.ALIASES_SHEET, schedule.SCHEDULE_SHEET, OFFENSE_SHEET, DEFENSE_SHEET}

// Scores sheet columns. Team columns are shared with the schedule.
const (
	AwayScoreColumn = "Away Score"
	HomeScoreColumn = "Home Score"
)

// TIE is written as the actual winner of a tied game.
const TIE = "TIE"

// MissingSheetsError lists every required sheet absent from the store.
type MissingSheetsError struct {
	Missing []string
}

func (e *MissingSheetsError) Error() string {
	return fmt.Sprintf("missing required sheets: %s", strings.Join(e.Missing, ", "))
}

// Run loads the store, picks a mode, and fills in the week's sheet.
// Failures of single sources, oracle calls, or row writes are logged and counted in the report without stopping the run.
func Run(ctx *Context) (Report, error) {
	start := time.Now()
	report, err := run(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	mode := "none"
	if report.HasWeek {
		mode = report.Mode.String()
	}
	metrics.RecordRun(mode, status, time.Since(start).Seconds())
	if err == nil {
		report.Log()
	}
	return report, err
}

func run(ctx *Context) (Report, error) {
	var report Report
	if ctx.Store == nil {
		return report, fmt.Errorf("Run: no store configured")
	}
	if ctx.Location == nil {
		ctx.Location = time.UTC
	}

	if ctx.Refresh && len(ctx.Sources) != 0 {
		n, err := Ingest(ctx)
		report.SourcesRefreshed = n
		if err != nil {
			report.SourceFailures = len(ctx.Sources) - n
			log.Warn().Err(err).Msg("Some sources failed to refresh, continuing with stored sheets")
		}
	}

	tables, err := loadTables(ctx)
	if err != nil {
		return report, fmt.Errorf("Run: %w", err)
	}

	registry, err := teams.Build(tables[teams.ALIASES_SHEET])
	if err != nil {
		return report, fmt.Errorf("Run: failed to build alias registry: %w", err)
	}
	for _, c := range registry.Conflicts() {
		log.Warn().Str("alias", c.Alias).Str("previous", c.Previous).Str("current", c.Current).Msg("Alias claimed by more than one team")
	}
	report.Conflicts = len(registry.Conflicts())

	tables, nstats := teams.NormalizeAll(tables, registry)
	report.Unmapped = nstats.Unmapped
	report.UnmappedNames = nstats.UnmappedNames

	now := ctx.now()
	resolver := schedule.Resolver{Location: ctx.Location, SeasonYear: ctx.seasonYear(now)}
	games, sstats := resolver.Resolve(tables[schedule.SCHEDULE_SHEET])
	report.BadWeek = sstats.BadWeek
	report.BadDate = sstats.BadDate
	metrics.RecordDataQuality(report.Unmapped, report.Conflicts, report.BadWeek, report.BadDate)

	selector := workflow.Selector{Location: ctx.Location, ResultsDay: ctx.ResultsDay}
	decision := selector.Select(now, ctx.Week, games)
	report.Decision = decision
	log.Info().Stringer("mode", decision.Mode).Int("week", decision.Week).Bool("has_week", decision.HasWeek).Str("reason", decision.Reason).Msg("Mode selected")

	if !decision.HasWeek {
		if report.SourcesRefreshed > 0 {
			if err := save(ctx); err != nil {
				return report, fmt.Errorf("Run: %w", err)
			}
		}
		return report, nil
	}

	switch decision.Mode {
	case workflow.ResultsMode:
		err = recordResults(ctx, &report, tables, games, decision.Week)
	default:
		err = predict(ctx, &report, tables, games, decision.Week)
	}
	// Whatever was written before a failure or interruption is kept.
	if serr := save(ctx); serr != nil {
		err = errors.Join(err, serr)
	}
	if err != nil {
		return report, fmt.Errorf("Run: %w", err)
	}
	return report, nil
}

// save persists buffered writes even when ctx has been cancelled.
func save(ctx *Context) error {
	if err := sheets.Save(context.WithoutCancel(ctx), ctx.Store); err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// timed records the outcome and latency of every oracle call.
func timed(o oracle.Oracle) oracle.Oracle {
	return oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		start := time.Now()
		text, err := o.Generate(ctx, prompt)
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordOracleCall(status, time.Since(start).Seconds())
		return text, err
	})
}

// loadTables reads every sheet that is not a weekly output sheet and checks the required ones are present.
func loadTables(ctx *Context) (map[string]table.Table, error) {
	names, err := ctx.Store.ListSheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("loadTables: failed to list sheets: %w", err)
	}
	present := make(map[string]struct{}, len(names))
	for _, n := range names {
		present[n] = struct{}{}
	}
	missing := make([]string, 0)
	for _, r := range RequiredSheets {
		if _, ok := present[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) != 0 {
		return nil, &MissingSheetsError{Missing: missing}
	}

	tables := make(map[string]table.Table, len(names))
	for _, n := range names {
		if sheets.IsWeekSheet(n) {
			continue
		}
		t, err := sheets.LoadTable(ctx, ctx.Store, n)
		if err != nil {
			return nil, fmt.Errorf("loadTables: %w", err)
		}
		tables[n] = t
		log.Debug().Str("sheet", n).Int("rows", t.Len()).Msg("Sheet loaded")
	}
	return tables, nil
}

func kickoffString(g schedule.Game, loc *time.Location) string {
	k := g.Kickoff.In(loc)
	if g.KickoffTBD {
		return k.Format("Mon Jan 2") + " TBD"
	}
	return k.Format("Mon Jan 2 3:04 PM MST")
}

func defaultRow(away, home, kickoff string) []string {
	row := make([]string, len(sheets.WeekHeader))
	row[sheets.AwayCol-1] = away
	row[sheets.HomeCol-1] = home
	row[sheets.KickoffCol-1] = kickoff
	return row
}

func predict(ctx *Context, report *Report, tables map[string]table.Table, games []schedule.Game, week int) error {
	if ctx.Oracle == nil {
		return fmt.Errorf("predict: no oracle configured")
	}
	name, err := sheets.EnsureWeekSheet(ctx, ctx.Store, week)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	report.Sheet = name
	existing, err := ctx.Store.ReadAll(ctx, name)
	if err != nil {
		return fmt.Errorf("predict: failed to read sheet %q: %w", name, err)
	}

	offense := tables[OFFENSE_SHEET]
	defense := tables[DEFENSE_SHEET]
	weekGames := schedule.GamesInWeek(games, week)
	mode := workflow.PredictionMode.String()
	gated := oracle.Gated(timed(ctx.Oracle), ctx.gate())

	bar := progressbar.NewOptions(len(weekGames),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(fmt.Sprintf("week %d", week)),
		progressbar.OptionSetVisibility(!ctx.NoProgress),
	)
	defer bar.Finish()

	done := make(map[sheets.Key]struct{}, len(weekGames))
	for _, g := range weekGames {
		bar.Add(1)
		key := sheets.Key{Away: g.Away, Home: g.Home}
		logger := log.With().Str("away", g.Away).Str("home", g.Home).Int("week", week).Logger()
		if _, ok := done[key]; ok {
			logger.Warn().Msg("Game listed twice in schedule, skipping repeat")
			continue
		}
		done[key] = struct{}{}

		row, err := sheets.FindOrCreateRow(ctx, ctx.Store, name, key, defaultRow(g.Away, g.Home, kickoffString(g, ctx.Location)))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to find or create row")
			report.WriteFailures++
			continue
		}
		report.Games++

		if !ctx.Force && strings.TrimSpace(sheets.Cell(existing, row, sheets.DetailsCol)) != "" {
			logger.Debug().Int("row", row).Msg("Prediction already recorded, skipping")
			report.Skipped++
			continue
		}

		m := oracle.Matchup{
			Away:        g.Away,
			Home:        g.Home,
			Kickoff:     kickoffString(g, ctx.Location),
			AwayOffense: teamStats(offense, g.Away),
			AwayDefense: teamStats(defense, g.Away),
			HomeOffense: teamStats(offense, g.Home),
			HomeDefense: teamStats(defense, g.Home),
		}
		for _, missing := range [][]oracle.Stat{m.AwayOffense, m.AwayDefense, m.HomeOffense, m.HomeDefense} {
			if missing == nil {
				logger.Warn().Msg("Team stats row missing, prompting with no data")
				break
			}
		}
		prompt, err := oracle.Prompt(m)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to build prompt")
			report.OracleFailures++
			continue
		}

		text, err := gated.Generate(ctx, prompt)
		var werr *oracle.WaitError
		if errors.As(err, &werr) || (err != nil && ctx.Err() != nil) {
			logger.Warn().Err(err).Int("row", row).Msg("Run interrupted, leaving remaining games for the next run")
			report.Interrupted = true
			break
		}
		if err != nil {
			logger.Error().Err(err).Int("row", row).Msg("Oracle call failed, leaving placeholders")
			report.OracleFailures++
			continue
		}

		ref, err := sheets.CellRange(row, sheets.DetailsCol, sheets.DetailsCol)
		if err != nil {
			return fmt.Errorf("predict: %w", err)
		}
		if err := ctx.Store.WriteRange(context.WithoutCancel(ctx), name, ref, [][]string{{text}}); err != nil {
			logger.Error().Err(err).Str("range", ref).Msg("Failed to write prediction")
			report.WriteFailures++
			continue
		}
		metrics.RecordRowWritten(mode)
		report.RowsWritten++
		logger.Info().Int("row", row).Msg("Prediction recorded")
	}
	return nil
}

// teamStats returns the stats row of a team in column order, or nil when the team has no row.
// The team column and rank columns are left out.
func teamStats(t table.Table, team string) []oracle.Stat {
	teamCol := ""
	for _, c := range t.Columns {
		if teams.IsTeamColumn(c) {
			teamCol = c
			break
		}
	}
	if teamCol == "" {
		return nil
	}
	row, ok := t.FindRow(teamCol, team)
	if !ok {
		return nil
	}
	out := make([]oracle.Stat, 0, len(t.Columns)-1)
	for _, c := range t.Columns {
		if c == teamCol || c == "Rk" {
			continue
		}
		out = append(out, oracle.Stat{Name: c, Value: row[c]})
	}
	return out
}

func recordResults(ctx *Context, report *Report, tables map[string]table.Table, games []schedule.Game, week int) error {
	scores, ok := tables[SCORES_SHEET]
	if !ok {
		log.Warn().Str("sheet", SCORES_SHEET).Int("week", week).Msg("No scores sheet, skipping results")
		report.SourceFailures++
		return nil
	}
	for _, c := range []string{schedule.WeekColumn, schedule.AwayColumn, schedule.HomeColumn, AwayScoreColumn, HomeScoreColumn} {
		if !scores.HasColumn(c) {
			log.Warn().Str("sheet", SCORES_SHEET).Str("column", c).Msg("Scores sheet lacks a column, skipping results")
			report.SourceFailures++
			return nil
		}
	}

	name, err := sheets.EnsureWeekSheet(ctx, ctx.Store, week)
	if err != nil {
		return fmt.Errorf("recordResults: %w", err)
	}
	report.Sheet = name

	kickoffs := make(map[sheets.Key]string)
	for _, g := range schedule.GamesInWeek(games, week) {
		kickoffs[sheets.Key{Away: g.Away, Home: g.Home}] = kickoffString(g, ctx.Location)
	}
	mode := workflow.ResultsMode.String()

	for _, r := range scores.Rows {
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Int("week", week).Msg("Run interrupted, leaving remaining results for the next run")
			report.Interrupted = true
			break
		}
		w, err := strconv.Atoi(strings.TrimSpace(r[schedule.WeekColumn]))
		if err != nil || w != week {
			continue
		}
		away, home := r[schedule.AwayColumn], r[schedule.HomeColumn]
		logger := log.With().Str("away", away).Str("home", home).Int("week", week).Logger()
		as, aerr := strconv.Atoi(strings.TrimSpace(r[AwayScoreColumn]))
		hs, herr := strconv.Atoi(strings.TrimSpace(r[HomeScoreColumn]))
		if aerr != nil || herr != nil {
			logger.Debug().Msg("Game not scored yet")
			continue
		}
		report.Games++

		winner := TIE
		switch {
		case as > hs:
			winner = away
		case hs > as:
			winner = home
		}

		key := sheets.Key{Away: away, Home: home}
		row, err := sheets.FindOrCreateRow(ctx, ctx.Store, name, key, defaultRow(away, home, kickoffs[key]))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to find or create row")
			report.WriteFailures++
			continue
		}
		ref, err := sheets.CellRange(row, sheets.ActualWinnerCol, sheets.ActualScoreCol)
		if err != nil {
			return fmt.Errorf("recordResults: %w", err)
		}
		if err := ctx.Store.WriteRange(ctx, name, ref, [][]string{{winner, fmt.Sprintf("%d-%d", as, hs)}}); err != nil {
			logger.Error().Err(err).Str("range", ref).Msg("Failed to write result")
			report.WriteFailures++
			continue
		}
		metrics.RecordRowWritten(mode)
		report.RowsWritten++
		logger.Info().Int("row", row).Str("winner", winner).Msg("Result recorded")
	}
	return nil
}
