package weekly

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reallyasi9/weeklypicks/internal/oracle"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/reallyasi9/weeklypicks/internal/sources"
	"github.com/reallyasi9/weeklypicks/internal/table"
	"github.com/reallyasi9/weeklypicks/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func seedStore() *sheets.MemoryStore {
	m := sheets.NewMemoryStore()
	m.SetSheet("Team Aliases", [][]string{
		{"Canonical Name", "Abbreviation", "Alias 1"},
		{"Chicago Bears", "CHI", "Bears"},
		{"Green Bay Packers", "GB", "Packers"},
		{"Detroit Lions", "DET", "Lions"},
		{"Minnesota Vikings", "MIN", "Vikings"},
		{"Dallas Cowboys", "DAL", "Cowboys"},
		{"New York Giants", "NYG", "Giants"},
	})
	m.SetSheet("Schedule", [][]string{
		{"Week", "Date", "Time", "Away Team", "Home Team"},
		{"5", "2024-10-06", "1:00 PM", "Bears", "Packers"},
		{"5", "2024-10-06", "4:25 PM", "Lions", "Vikings"},
		{"6", "2024-10-13", "1:00 PM", "Packers", "Bears"},
		{"6", "2024-10-13", "4:25 PM", "Vikings", "Lions"},
		{"6", "2024-10-13", "8:20 PM", "Giants", "Cowboys"},
		{"Bye", "2024-10-13", "", "Nobody", "Nowhere"},
	})
	m.SetSheet("Team Offense", [][]string{
		{"Rk", "Tm", "Yds"},
		{"1", "Packers", "2100"},
		{"2", "Chicago Bears", "1800"},
		{"3", "Lions", "2300"},
	})
	m.SetSheet("Team Defense", [][]string{
		{"Team", "PA"},
		{"Bears", "90"},
		{"Green Bay Packers", "110"},
	})
	return m
}

// callCounter returns an oracle that fails on the listed calls (1-based) and records every prompt.
func callCounter(fail ...int) (oracle.Oracle, *[]string) {
	var prompts []string
	return oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		for _, f := range fail {
			if f == len(prompts) {
				return "", errors.New("quota exceeded")
			}
		}
		return "prediction " + string(rune('0'+len(prompts))), nil
	}), &prompts
}

func newTestContext(t *testing.T, m sheets.Store, o oracle.Oracle, now time.Time) *Context {
	ctx := NewContext(context.Background())
	ctx.Store = m
	ctx.Oracle = o
	ctx.Location = eastern(t)
	ctx.ResultsDay = time.Tuesday
	ctx.NoProgress = true
	ctx.Now = func() time.Time { return now }
	return ctx
}

// Wednesday 2024-10-09, noon Eastern.
var wednesday = time.Date(2024, 10, 9, 16, 0, 0, 0, time.UTC)

func TestRunPartialFailure(t *testing.T) {
	m := seedStore()
	o, prompts := callCounter(2)

	report, err := Run(newTestContext(t, m, o, wednesday))
	require.NoError(t, err)
	assert.Equal(t, workflow.PredictionMode, report.Mode)
	assert.Equal(t, 6, report.Week)
	assert.Equal(t, "Week_6_Predictions", report.Sheet)
	assert.Equal(t, 3, report.Games)
	assert.Equal(t, 2, report.RowsWritten)
	assert.Equal(t, 1, report.OracleFailures)
	assert.Equal(t, 1, report.BadWeek)
	assert.Contains(t, report.UnmappedNames, "Nobody")
	require.Len(t, *prompts, 3)

	rows, err := m.ReadAll(context.Background(), "Week_6_Predictions")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, sheets.WeekHeader, rows[0])
	assert.Equal(t, []string{"Green Bay Packers", "Chicago Bears", "Sun Oct 13 1:00 PM EDT", "", "", "", "", "prediction 1"}, rows[1])
	assert.Equal(t, []string{"Minnesota Vikings", "Detroit Lions", "Sun Oct 13 4:25 PM EDT", "", "", "", "", ""}, rows[2])
	assert.Equal(t, "prediction 3", rows[3][sheets.DetailsCol-1])

	first := (*prompts)[0]
	assert.Contains(t, first, "Green Bay Packers (away) at Chicago Bears (home)")
	assert.Contains(t, first, "Yds: 2100")
	assert.Contains(t, first, "PA: 90")
	assert.NotContains(t, first, "Rk:")
	assert.Contains(t, (*prompts)[2], "no data")
}

func TestRunRerunSkipsRecordedGames(t *testing.T) {
	m := seedStore()
	o, _ := callCounter(2)
	_, err := Run(newTestContext(t, m, o, wednesday))
	require.NoError(t, err)

	again, prompts := callCounter()
	report, err := Run(newTestContext(t, m, again, wednesday))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 1, report.RowsWritten)
	require.Len(t, *prompts, 1)
	assert.Contains(t, (*prompts)[0], "Minnesota Vikings (away) at Detroit Lions (home)")

	rows, err := m.ReadAll(context.Background(), "Week_6_Predictions")
	require.NoError(t, err)
	assert.Len(t, rows, 4, "no duplicate rows")
	assert.Equal(t, "prediction 1", rows[2][sheets.DetailsCol-1])

	forced := newTestContext(t, m, again, wednesday)
	forced.Force = true
	report, err = Run(forced)
	require.NoError(t, err)
	assert.Equal(t, 3, report.RowsWritten)
	assert.Equal(t, 0, report.Skipped)
}

func TestRunNoFutureGames(t *testing.T) {
	m := seedStore()
	o, prompts := callCounter()
	writes := m.Writes

	// Saturday 2025-03-01.
	report, err := Run(newTestContext(t, m, o, time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.False(t, report.HasWeek)
	assert.Equal(t, writes, m.Writes)
	assert.Empty(t, *prompts)
}

func TestRunMissingSheets(t *testing.T) {
	m := sheets.NewMemoryStore()
	m.SetSheet("Schedule", [][]string{{"Week"}})
	o, _ := callCounter()

	_, err := Run(newTestContext(t, m, o, wednesday))
	var mse *MissingSheetsError
	require.ErrorAs(t, err, &mse)
	assert.Equal(t, []string{"Team Aliases", "Team Offense", "Team Defense"}, mse.Missing)
	assert.Equal(t, 0, m.Writes)
}

func TestRunOverride(t *testing.T) {
	m := seedStore()
	o, prompts := callCounter()
	ctx := newTestContext(t, m, o, wednesday.Add(-24*time.Hour))
	week := 5
	ctx.Week = &week

	report, err := Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, workflow.PredictionMode, report.Mode, "override wins on results day")
	assert.Equal(t, "Week_5_Predictions", report.Sheet)
	assert.Len(t, *prompts, 2)
}

func TestRunResultsMode(t *testing.T) {
	m := seedStore()
	m.SetSheet("Scores", [][]string{
		{"Week", "Away Team", "Home Team", "Away Score", "Home Score"},
		{"5", "Bears", "Packers", "17", "24"},
		{"5", "Lions", "Vikings", "20", "20"},
		{"5", "Giants", "Cowboys", "", ""},
		{"6", "Packers", "Bears", "30", "3"},
	})
	o, prompts := callCounter()

	// Tuesday 2024-10-08, 10am Eastern.
	report, err := Run(newTestContext(t, m, o, time.Date(2024, 10, 8, 14, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, workflow.ResultsMode, report.Mode)
	assert.Equal(t, 5, report.Week)
	assert.Equal(t, 2, report.RowsWritten)
	assert.Empty(t, *prompts)

	rows, err := m.ReadAll(context.Background(), "Week_5_Predictions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Chicago Bears", "Green Bay Packers", "Sun Oct 6 1:00 PM EDT", "", "", "Green Bay Packers", "17-24", ""}, rows[1])
	assert.Equal(t, []string{TIE, "20-20"}, rows[2][sheets.ActualWinnerCol-1:sheets.ActualScoreCol])
}

func TestRunResultsWithoutScores(t *testing.T) {
	m := seedStore()
	o, _ := callCounter()
	writes := m.Writes

	report, err := Run(newTestContext(t, m, o, time.Date(2024, 10, 8, 14, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, workflow.ResultsMode, report.Mode)
	assert.Equal(t, 1, report.SourceFailures)
	assert.Equal(t, writes, m.Writes)
}

type connectorFunc func(ctx context.Context) (table.Table, error)

func (f connectorFunc) Fetch(ctx context.Context) (table.Table, error) { return f(ctx) }

func TestIngest(t *testing.T) {
	m := seedStore()
	o, _ := callCounter()
	ctx := newTestContext(t, m, o, wednesday)
	ctx.Sources = []sources.Source{
		{Sheet: "Team Offense", URL: "https://example.com/offense"},
		{Sheet: "Team Defense", URL: "https://example.com/defense"},
	}
	ctx.Connect = func(s sources.Source) sources.Connector {
		if s.Sheet == "Team Defense" {
			return connectorFunc(func(context.Context) (table.Table, error) { return table.Table{}, errors.New("503") })
		}
		return connectorFunc(func(context.Context) (table.Table, error) {
			return table.FromRecords(s.Sheet, [][]string{{"Tm", "Yds"}, {"Bears", "9999"}}), nil
		})
	}

	n, err := Ingest(ctx)
	assert.Equal(t, 1, n)
	assert.ErrorContains(t, err, "503")

	rows, _ := m.ReadAll(context.Background(), "Team Offense")
	assert.Equal(t, [][]string{{"Tm", "Yds"}, {"Bears", "9999"}}, rows)
	rows, _ = m.ReadAll(context.Background(), "Team Defense")
	assert.Len(t, rows, 3, "failed source keeps the stale sheet")

	ctx.Refresh = true
	report, err := Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.SourcesRefreshed)
	assert.Equal(t, 1, report.SourceFailures)
}

// savingStore buffers like a workbook and records each save.
type savingStore struct {
	*sheets.MemoryStore
	saves   int
	saveErr error
}

func (s *savingStore) Save(ctx context.Context) error {
	s.saves++
	s.saveErr = ctx.Err()
	return nil
}

func TestRunInterruptedKeepsPredictions(t *testing.T) {
	m := &savingStore{MemoryStore: seedStore()}
	parent, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	o := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		calls++
		cancel()
		return "first", nil
	})
	ctx := newTestContext(t, m, o, wednesday)
	ctx.Context = parent
	ctx.Gate = oracle.NewGate(time.Hour)

	report, err := Run(ctx)
	require.NoError(t, err)
	assert.True(t, report.Interrupted)
	assert.Equal(t, 1, calls, "no oracle call after cancellation")
	assert.Equal(t, 1, report.RowsWritten)
	assert.Equal(t, 1, m.saves)
	assert.NoError(t, m.saveErr, "save runs on a live context")

	rows, err := m.ReadAll(context.Background(), "Week_6_Predictions")
	require.NoError(t, err)
	assert.Equal(t, "first", rows[1][sheets.DetailsCol-1])
}

func TestRunGateSpacesOracleCalls(t *testing.T) {
	m := &savingStore{MemoryStore: seedStore()}
	o, prompts := callCounter()
	ctx := newTestContext(t, m, o, wednesday)
	// The gate cannot admit a second call before the deadline, so it refuses at once instead of sleeping.
	deadline, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx.Context = deadline
	ctx.Gate = oracle.NewGate(time.Hour)

	report, err := Run(ctx)
	require.NoError(t, err)
	assert.Len(t, *prompts, 1, "one call per interval")
	assert.Equal(t, 1, report.RowsWritten)
	assert.Equal(t, 0, report.OracleFailures)
	assert.True(t, report.Interrupted)
	assert.Equal(t, 1, m.saves)

	// An unlimited gate lets every game through.
	m2 := seedStore()
	o2, prompts2 := callCounter()
	ctx2 := newTestContext(t, m2, o2, wednesday)
	ctx2.Gate = oracle.NewGate(0)
	report, err = Run(ctx2)
	require.NoError(t, err)
	assert.Len(t, *prompts2, 3)
	assert.False(t, report.Interrupted)
}
