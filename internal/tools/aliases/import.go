package aliases

import (
	"fmt"
	"os"

	"github.com/reallyasi9/weeklypicks/internal/firestore"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/reallyasi9/weeklypicks/internal/table"
	"github.com/reallyasi9/weeklypicks/internal/teams"
	"github.com/reallyasi9/weeklypicks/internal/tools/sheetview"
	"github.com/rs/zerolog/log"
)

// Import seeds the alias sheet from the teams of a Firestore season.
func Import(ctx *Context) error {
	ts, err := firestore.GetTeams(ctx, ctx.FirestoreClient, ctx.Season)
	if err != nil {
		return fmt.Errorf("Import: failed to get teams: %w", err)
	}
	return writeTeams(ctx, ts)
}

func writeTeams(ctx *Context, ts []firestore.Team) error {
	t := AliasTable(ts)

	if ctx.DryRun {
		log.Info().Int("teams", t.Len()).Msg("DRY RUN: would write the following alias sheet")
		out := ctx.Out
		if out == nil {
			out = os.Stdout
		}
		sheetview.Render(out, teams.ALIASES_SHEET, t.Records())
		return nil
	}

	exists, err := sheets.HasSheet(ctx, ctx.Store, teams.ALIASES_SHEET)
	if err != nil {
		return fmt.Errorf("Import: %w", err)
	}
	if exists && !ctx.Force {
		return fmt.Errorf("Import: sheet '%s' already exists: use force flag to overwrite", teams.ALIASES_SHEET)
	}

	if err := sheets.ReplaceSheet(ctx, ctx.Store, teams.ALIASES_SHEET, t); err != nil {
		return fmt.Errorf("Import: %w", err)
	}
	if err := sheets.Save(ctx, ctx.Store); err != nil {
		return fmt.Errorf("Import: failed to save: %w", err)
	}
	log.Info().Int("teams", t.Len()).Str("sheet", teams.ALIASES_SHEET).Msg("Aliases imported")
	return nil
}

// AliasTable lays teams out as an alias table: the school as the canonical name,
// the abbreviation, then one "Alias N" column per alternate spelling.
func AliasTable(ts []firestore.Team) table.Table {
	width := 0
	for _, t := range ts {
		if n := len(t.Aliases()); n > width {
			width = n
		}
	}
	cols := []string{teams.CanonicalColumn, teams.AbbreviationColumn}
	for i := 1; i <= width; i++ {
		cols = append(cols, aliasColumn(i))
	}

	out := table.Table{Name: teams.ALIASES_SHEET, Columns: cols, Rows: make([]table.Row, 0, len(ts))}
	for _, t := range ts {
		r := table.Row{teams.CanonicalColumn: t.School, teams.AbbreviationColumn: t.Abbreviation}
		as := t.Aliases()
		for i := 1; i <= width; i++ {
			if i <= len(as) {
				r[aliasColumn(i)] = as[i-1]
			} else {
				r[aliasColumn(i)] = ""
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func aliasColumn(i int) string {
	return fmt.Sprintf("Alias %d", i)
}
