package aliases

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/reallyasi9/weeklypicks/internal/teams"
)

// List prints every canonical team with its abbreviation and alternate spellings.
func List(ctx *Context) error {
	t, err := sheets.LoadTable(ctx, ctx.Store, teams.ALIASES_SHEET)
	if err != nil {
		return fmt.Errorf("List: %w", err)
	}
	for _, col := range []string{teams.CanonicalColumn, teams.AbbreviationColumn} {
		if !t.HasColumn(col) {
			return fmt.Errorf("List: %w", teams.MissingColumnError{Table: t.Name, Column: col})
		}
	}

	out := ctx.Out
	if out == nil {
		out = os.Stdout
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"#", teams.CanonicalColumn, teams.AbbreviationColumn, "Aliases"})
	for i, r := range t.Rows {
		alts := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			if col == teams.CanonicalColumn || col == teams.AbbreviationColumn || strings.TrimSpace(r[col]) == "" {
				continue
			}
			alts = append(alts, r[col])
		}
		tw.AppendRow(table.Row{i + 1, r[teams.CanonicalColumn], r[teams.AbbreviationColumn], strings.Join(alts, ", ")})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
	return nil
}
