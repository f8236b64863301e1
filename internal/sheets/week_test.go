package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/reallyasi9/weeklypicks/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekSheetName(t *testing.T) {
	assert.Equal(t, "Week_6_Predictions", WeekSheetName(6))
	assert.True(t, IsWeekSheet(WeekSheetName(17)))
	for _, s := range []string{"Week_x_Predictions", "Week_6_Predictions ", "Schedule", "Week__Predictions"} {
		assert.False(t, IsWeekSheet(s), s)
	}
	assert.Len(t, WeekHeader, 8)
	assert.Equal(t, "Prediction Details", WeekHeader[DetailsCol-1])
}

func TestFindRow(t *testing.T) {
	rows := [][]string{
		{"Away Team", "Home Team"},
		{"Bills", "Jets"},
		{" Bears ", "Packers "},
		{"short"},
	}
	tests := []struct {
		key  Key
		want int
		ok   bool
	}{
		{Key{"Bills", "Jets"}, 2, true},
		{Key{"Bears", "Packers"}, 3, true},
		{Key{"Jets", "Bills"}, 0, false},
		{Key{"Away Team", "Home Team"}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			got, ok := FindRow(rows, tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindOrCreateRowIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	name, err := EnsureWeekSheet(ctx, m, 3)
	require.NoError(t, err)
	require.NoError(t, m.AppendRow(ctx, name, []string{"Bills", "Jets"}))

	key := Key{Away: "Bears", Home: "Packers"}
	defaults := []string{"Bears", "Packers", "", "", "", "", "", ""}

	first, err := FindOrCreateRow(ctx, m, name, key, defaults)
	require.NoError(t, err)
	second, err := FindOrCreateRow(ctx, m, name, key, defaults)
	require.NoError(t, err)

	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)
	rows, err := m.ReadAll(ctx, name)
	require.NoError(t, err)
	assert.Len(t, rows, 3, "exactly one row appended")

	existing, err := FindOrCreateRow(ctx, m, name, Key{"Bills", "Jets"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, existing)
}

func TestEnsureWeekSheet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.SetSheet("Week_2_Predictions", nil)

	name, err := EnsureWeekSheet(ctx, m, 2)
	require.NoError(t, err)
	rows, err := m.ReadAll(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, [][]string{WeekHeader}, rows, "empty sheet gets a header")

	writes := m.Writes
	_, err = EnsureWeekSheet(ctx, m, 2)
	require.NoError(t, err)
	assert.Equal(t, writes, m.Writes, "existing sheet is left alone")
}

func TestMemoryStoreWriteRange(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.CreateSheet(ctx, "x", []string{"A", "B"}))
	require.NoError(t, m.WriteRange(ctx, "x", "C3:D3", [][]string{{"c", "d"}}))

	rows, err := m.ReadAll(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "B"}, nil, {"", "", "c", "d"}}, rows)
	assert.Equal(t, "d", Cell(rows, 3, 4))
	assert.Equal(t, "", Cell(rows, 2, 1))

	var nse NoSheetError
	assert.True(t, errors.As(m.WriteRange(ctx, "y", "A1", nil), &nse))
	assert.Error(t, m.CreateSheet(ctx, "x", nil))
}

func TestReplaceSheetAndSnapshot(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.SetSheet("Team Offense", [][]string{{"Team", "Yds"}, {"Old", "1"}, {"Older", "2"}})

	tbl := table.FromRecords("Team Offense", [][]string{{"Team", "Yds"}, {"New", "3"}})
	require.NoError(t, ReplaceSheet(ctx, m, "Team Offense", tbl))
	require.NoError(t, ReplaceSheet(ctx, m, "Team Defense", tbl))

	snap, err := Snapshot(ctx, m)
	require.NoError(t, err)
	names, _ := snap.ListSheets(ctx)
	assert.Equal(t, []string{"Team Offense", "Team Defense"}, names)

	got, err := LoadTable(ctx, snap, "Team Offense")
	require.NoError(t, err)
	assert.Equal(t, tbl.Records(), got.Records())

	require.NoError(t, snap.ClearSheet(ctx, "Team Defense"))
	orig, _ := m.ReadAll(ctx, "Team Defense")
	assert.Len(t, orig, 2, "snapshot writes do not reach the source")
}

func TestCellRange(t *testing.T) {
	r, err := CellRange(5, ActualWinnerCol, ActualScoreCol)
	require.NoError(t, err)
	assert.Equal(t, "F5:G5", r)
	r, err = CellRange(5, DetailsCol, DetailsCol)
	require.NoError(t, err)
	assert.Equal(t, "H5", r)

	col, row, err := TopLeft("F5:G5")
	require.NoError(t, err)
	assert.Equal(t, 6, col)
	assert.Equal(t, 5, row)
}
