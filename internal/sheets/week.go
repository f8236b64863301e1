package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// WeekHeader is the header row of every weekly predictions sheet.
var WeekHeader = []string{
	"Away Team",
	"Home Team",
	"Kickoff",
	"Predicted Winner",
	"Predicted Score",
	"Actual Winner",
	"Actual Score",
	"Prediction Details",
}

// 1-based columns of the weekly sheet.
const (
	AwayCol = iota + 1
	HomeCol
	KickoffCol
	PredictedWinnerCol
	PredictedScoreCol
	ActualWinnerCol
	ActualScoreCol
	DetailsCol
)

var weekSheetRe = regexp.MustCompile(`^Week_\d+_Predictions$`)

// WeekSheetName returns the name of the predictions sheet for a week.
func WeekSheetName(week int) string {
	return fmt.Sprintf("Week_%d_Predictions", week)
}

// IsWeekSheet reports whether a sheet name is a weekly predictions sheet.
func IsWeekSheet(name string) bool {
	return weekSheetRe.MatchString(name)
}

// Key identifies a row of a weekly sheet.
type Key struct {
	Away string
	Home string
}

func (k Key) String() string {
	return fmt.Sprintf("%s at %s", k.Away, k.Home)
}

// FindRow returns the 1-based index of the data row matching key, comparing the first two cells after trimming.
// The header row is never matched.
func FindRow(rows [][]string, key Key) (int, bool) {
	away := strings.TrimSpace(key.Away)
	home := strings.TrimSpace(key.Home)
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) < 2 {
			continue
		}
		if strings.TrimSpace(rows[i][0]) == away && strings.TrimSpace(rows[i][1]) == home {
			return i + 1, true
		}
	}
	return 0, false
}

// FindOrCreateRow returns the 1-based index of the row for key, appending defaults as a new row when none exists.
// Repeated calls with the same key return the same index and append at most once.
// Callers must not write to the same sheet concurrently.
func FindOrCreateRow(ctx context.Context, s Store, sheet string, key Key, defaults []string) (int, error) {
	rows, err := s.ReadAll(ctx, sheet)
	if err != nil {
		return 0, fmt.Errorf("FindOrCreateRow: failed to read sheet %q: %w", sheet, err)
	}
	if i, ok := FindRow(rows, key); ok {
		return i, nil
	}
	if err := s.AppendRow(ctx, sheet, defaults); err != nil {
		return 0, fmt.Errorf("FindOrCreateRow: failed to append row for %s: %w", key, err)
	}
	return len(rows) + 1, nil
}

// EnsureWeekSheet makes sure the week's predictions sheet exists with its header and returns its name.
func EnsureWeekSheet(ctx context.Context, s Store, week int) (string, error) {
	name := WeekSheetName(week)
	ok, err := HasSheet(ctx, s, name)
	if err != nil {
		return "", fmt.Errorf("EnsureWeekSheet: %w", err)
	}
	if !ok {
		if err := s.CreateSheet(ctx, name, WeekHeader); err != nil {
			return "", fmt.Errorf("EnsureWeekSheet: failed to create sheet %q: %w", name, err)
		}
		return name, nil
	}
	rows, err := s.ReadAll(ctx, name)
	if err != nil {
		return "", fmt.Errorf("EnsureWeekSheet: failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		if err := s.WriteRange(ctx, name, "A1", [][]string{WeekHeader}); err != nil {
			return "", fmt.Errorf("EnsureWeekSheet: failed to write header to %q: %w", name, err)
		}
	}
	return name, nil
}

// Cell returns the value at a 1-based column of a 1-based row, or "" when out of range.
func Cell(rows [][]string, row, col int) string {
	if row < 1 || row > len(rows) {
		return ""
	}
	r := rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}
