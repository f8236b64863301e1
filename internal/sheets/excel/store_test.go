package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "picks.xlsx")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Location())
	names, err := s.ListSheets(ctx)
	require.NoError(t, err)
	assert.Empty(t, names, "new workbooks hide the default sheet")

	name, err := sheets.EnsureWeekSheet(ctx, s, 4)
	require.NoError(t, err)
	key := sheets.Key{Away: "Bears", Home: "Packers"}
	defaults := []string{"Bears", "Packers", "Sun 1:00 PM"}
	row, err := sheets.FindOrCreateRow(ctx, s, name, key, defaults)
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	again, err := sheets.FindOrCreateRow(ctx, s, name, key, defaults)
	require.NoError(t, err)
	assert.Equal(t, row, again)

	require.NoError(t, s.WriteRange(ctx, name, "H2", [][]string{{"Bears by 3"}}))
	require.NoError(t, s.CreateSheet(ctx, "Schedule", []string{"Week", "Date"}))
	require.NoError(t, s.Save(ctx))
	require.NoError(t, s.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	names, err = reopened.ListSheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{name, "Schedule"}, names)

	rows, err := reopened.ReadAll(ctx, name)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, sheets.WeekHeader, rows[0])
	assert.Equal(t, "Bears", rows[1][0])
	assert.Equal(t, "Sun 1:00 PM", rows[1][2])
	assert.Equal(t, "Bears by 3", rows[1][7])

	require.NoError(t, reopened.ClearSheet(ctx, "Schedule"))
	rows, err = reopened.ReadAll(ctx, "Schedule")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = reopened.ReadAll(ctx, "Missing")
	var nse sheets.NoSheetError
	assert.ErrorAs(t, err, &nse)
}

func TestOpenBadScheme(t *testing.T) {
	_, err := Open(context.Background(), "ftp://example.com/picks.xlsx")
	assert.Error(t, err)
}
