package weekly

import (
	"errors"
	"fmt"

	"github.com/reallyasi9/weeklypicks/internal/metrics"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/rs/zerolog/log"
)

// Ingest fetches every configured source and replaces its sheet.
// A failed source is logged and skipped, and its sheet is left as it was.
// It returns the number of sheets replaced and the failures joined into one error.
func Ingest(ctx *Context) (int, error) {
	if ctx.Store == nil {
		return 0, fmt.Errorf("Ingest: no store configured")
	}
	var errs []error
	n := 0
	for _, s := range ctx.Sources {
		logger := log.With().Str("sheet", s.Sheet).Str("url", s.URL).Logger()

		t, err := ctx.connector(s).Fetch(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to fetch source, keeping existing sheet")
			metrics.RecordSourceFetch(s.Sheet, "error")
			errs = append(errs, fmt.Errorf("Ingest: source %s: %w", s, err))
			continue
		}
		if err := sheets.ReplaceSheet(ctx, ctx.Store, s.Sheet, t); err != nil {
			logger.Error().Err(err).Msg("Failed to replace sheet")
			metrics.RecordSourceFetch(s.Sheet, "error")
			errs = append(errs, fmt.Errorf("Ingest: sheet %s: %w", s.Sheet, err))
			continue
		}
		metrics.RecordSourceFetch(s.Sheet, "success")
		logger.Info().Int("rows", t.Len()).Int("columns", len(t.Columns)).Msg("Sheet refreshed")
		n++
	}
	return n, errors.Join(errs...)
}
