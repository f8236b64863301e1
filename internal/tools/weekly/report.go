package weekly

import (
	"github.com/reallyasi9/weeklypicks/internal/workflow"
	"github.com/rs/zerolog/log"
)

// Report summarizes one run.
type Report struct {
	workflow.Decision

	// Sheet is the weekly sheet written, if any.
	Sheet string
	// Games is the number of games handled in the selected week.
	Games       int
	RowsWritten int
	// Skipped counts games that already had a prediction.
	Skipped int
	// Interrupted is set when the run stopped before handling every game. Work done before then is saved.
	Interrupted bool

	SourcesRefreshed int
	SourceFailures   int
	OracleFailures   int
	WriteFailures    int

	Unmapped      int
	UnmappedNames []string
	Conflicts     int
	BadWeek       int
	BadDate       int
}

// Log writes the report as one structured log line.
func (r Report) Log() {
	ev := log.Info()
	if r.Interrupted || r.OracleFailures+r.WriteFailures+r.SourceFailures != 0 {
		ev = log.Warn()
	}
	ev.Stringer("mode", r.Mode).
		Int("week", r.Week).
		Bool("has_week", r.HasWeek).
		Str("sheet", r.Sheet).
		Int("games", r.Games).
		Int("rows_written", r.RowsWritten).
		Int("skipped", r.Skipped).
		Bool("interrupted", r.Interrupted).
		Int("sources_refreshed", r.SourcesRefreshed).
		Int("source_failures", r.SourceFailures).
		Int("oracle_failures", r.OracleFailures).
		Int("write_failures", r.WriteFailures).
		Int("unmapped_aliases", r.Unmapped).
		Strs("unmapped_names", r.UnmappedNames).
		Int("alias_conflicts", r.Conflicts).
		Int("bad_week_rows", r.BadWeek).
		Int("bad_date_rows", r.BadDate).
		Msg("Run complete")
}
