package aliases

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
	tbl "github.com/reallyasi9/weeklypicks/internal/table"
	"github.com/reallyasi9/weeklypicks/internal/teams"
	"github.com/reallyasi9/weeklypicks/internal/tools/sheetview"
	"github.com/rs/zerolog/log"
)

// Check reports aliases claimed by more than one team.
// With Fix set, each contested alias is resolved by choosing the team that keeps it; the alias is
// removed from every other team and the sheet is rewritten.
func Check(ctx *Context) error {
	t, err := sheets.LoadTable(ctx, ctx.Store, teams.ALIASES_SHEET)
	if err != nil {
		return fmt.Errorf("Check: %w", err)
	}
	_, err = teams.BuildStrict(t)
	var dae *teams.DuplicateAliasError
	if !errors.As(err, &dae) {
		if err != nil {
			return fmt.Errorf("Check: %w", err)
		}
		log.Info().Int("teams", t.Len()).Msg("No duplicate aliases")
		return nil
	}

	out := ctx.Out
	if out == nil {
		out = os.Stdout
	}
	printConflicts(out, dae.Conflicts)

	if !ctx.Fix {
		return fmt.Errorf("Check: %w", err)
	}

	fixed := t.Clone()
	for _, alias := range contested(dae.Conflicts) {
		claimants, owner := claimantsOf(fixed, alias)
		keeper := owner
		if keeper == "" {
			if len(claimants) < 2 {
				continue
			}
			keeper, err = ctx.Choose(alias, claimants)
			if err != nil {
				return fmt.Errorf("Check: failed to choose a team for alias '%s': %w", alias, err)
			}
		} else {
			log.Info().Str("alias", alias).Str("team", keeper).Msg("Alias is a canonical name and stays with its team")
		}
		removed := release(fixed, alias, keeper)
		log.Info().Str("alias", alias).Str("kept_by", keeper).Int("removed", removed).Msg("Resolved duplicate alias")
	}

	if _, err := teams.BuildStrict(fixed); err != nil {
		return fmt.Errorf("Check: aliases still conflict after fixing: %w", err)
	}

	if ctx.DryRun {
		log.Info().Msg("DRY RUN: would write the following alias sheet")
		sheetview.Render(out, teams.ALIASES_SHEET, fixed.Records())
		return nil
	}

	if err := sheets.ReplaceSheet(ctx, ctx.Store, teams.ALIASES_SHEET, fixed); err != nil {
		return fmt.Errorf("Check: %w", err)
	}
	if err := sheets.Save(ctx, ctx.Store); err != nil {
		return fmt.Errorf("Check: failed to save: %w", err)
	}
	return nil
}

func printConflicts(w io.Writer, cs []teams.AliasConflict) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Alias", "Claimed By", "Overwritten By"})
	for _, c := range cs {
		tw.AppendRow(table.Row{c.Alias, c.Previous, c.Current})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// contested returns each conflicting alias once, in the order first seen.
func contested(cs []teams.AliasConflict) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if _, ok := seen[c.Alias]; ok {
			continue
		}
		seen[c.Alias] = struct{}{}
		out = append(out, c.Alias)
	}
	return out
}

// claimantsOf lists the teams that list alias, in row order.
// owner is set when alias is some team's canonical name.
func claimantsOf(t tbl.Table, alias string) (claimants []string, owner string) {
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		canonical := strings.TrimSpace(r[teams.CanonicalColumn])
		if canonical == "" {
			continue
		}
		if canonical == alias {
			owner = canonical
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		for _, col := range t.Columns {
			if col == teams.CanonicalColumn {
				continue
			}
			if matches(r[col], alias) || canonical == alias {
				seen[canonical] = struct{}{}
				claimants = append(claimants, canonical)
				break
			}
		}
	}
	return claimants, owner
}

// release blanks alias in every row not belonging to keeper and returns the number of cells cleared.
func release(t tbl.Table, alias, keeper string) int {
	n := 0
	for _, r := range t.Rows {
		if strings.TrimSpace(r[teams.CanonicalColumn]) == keeper {
			continue
		}
		for _, col := range t.Columns {
			if col == teams.CanonicalColumn {
				continue
			}
			if matches(r[col], alias) {
				r[col] = ""
				n++
			}
		}
	}
	return n
}

func matches(cell, alias string) bool {
	return cell == alias || strings.TrimSpace(cell) == alias
}

func askSurvey(alias string, claimants []string) (string, error) {
	q := &survey.Select{
		Message: fmt.Sprintf("Alias '%s' is claimed by more than one team. Which team keeps it?", alias),
		Options: claimants,
	}
	var a string
	err := survey.AskOne(q, &a)
	return a, err
}
