package teams

import (
	"errors"
	"testing"

	"github.com/reallyasi9/weeklypicks/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aliasTable(rows ...[]string) table.Table {
	records := [][]string{{"Canonical Name", "Abbreviation", "Alias 1", "Alias 2"}}
	records = append(records, rows...)
	return table.FromRecords(ALIASES_SHEET, records)
}

func TestBuild(t *testing.T) {
	r, err := Build(aliasTable(
		[]string{"Buffalo Bills", "BUF", "Bills", "Buffalo"},
		[]string{"New York Jets", "NYJ", "Jets", "NY Jets"},
		[]string{"", "XXX", "Nobody", ""},
	))
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Bills", "Buffalo Bills", true},
		{"Buffalo", "Buffalo Bills", true},
		{"Buffalo Bills", "Buffalo Bills", true},
		{"NY Jets", "New York Jets", true},
		{"Nobody", "", false},
		{"bills", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := r.Lookup(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	abbr, ok := r.Abbreviation("New York Jets")
	assert.True(t, ok)
	assert.Equal(t, "NYJ", abbr)
	assert.Equal(t, []string{"Buffalo Bills", "New York Jets"}, r.Canonicals())
	assert.Equal(t, 1, r.Skipped())
	assert.Empty(t, r.Conflicts())
}

func TestBuildAliasClosure(t *testing.T) {
	r, err := Build(aliasTable(
		[]string{"Los Angeles Rams", "LAR", "Rams", "LA Rams"},
		[]string{"Los Angeles Chargers", "LAC", "Chargers", "LA Chargers"},
	))
	require.NoError(t, err)

	for _, a := range r.Aliases() {
		c, ok := r.Lookup(a)
		require.True(t, ok)
		again, ok := r.Lookup(c)
		require.True(t, ok)
		assert.Equal(t, c, again, "canonical of %q must resolve to itself", a)
	}
}

func TestBuildConflicts(t *testing.T) {
	r, err := Build(aliasTable(
		[]string{"New York Giants", "NYG", "New York", "Giants"},
		[]string{"New York Jets", "NYJ", "New York", "Jets"},
		[]string{"Washington Commanders", "WAS", "New York Jets", ""},
	))
	require.NoError(t, err)

	c, _ := r.Lookup("New York")
	assert.Equal(t, "New York Jets", c, "later rows win")
	c, _ = r.Lookup("New York Jets")
	assert.Equal(t, "New York Jets", c, "canonical names always resolve to themselves")

	conflicts := r.Conflicts()
	require.Len(t, conflicts, 2)
	assert.Equal(t, AliasConflict{Alias: "New York", Previous: "New York Giants", Current: "New York Jets"}, conflicts[0])
	assert.Equal(t, AliasConflict{Alias: "New York Jets", Previous: "Washington Commanders", Current: "New York Jets"}, conflicts[1])
}

func TestBuildStrict(t *testing.T) {
	_, err := BuildStrict(aliasTable(
		[]string{"Carolina Panthers", "CAR", "Carolina", ""},
		[]string{"Carolina Hurricanes", "CAR", "Canes", ""},
	))
	var dup *DuplicateAliasError
	require.True(t, errors.As(err, &dup))
	require.Len(t, dup.Conflicts, 1)
	assert.Equal(t, "CAR", dup.Conflicts[0].Alias)

	r, err := BuildStrict(aliasTable([]string{"Carolina Panthers", "CAR", "Carolina", ""}))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
}

func TestBuildMissingColumn(t *testing.T) {
	_, err := Build(table.FromRecords(ALIASES_SHEET, [][]string{{"Canonical Name", "Alias 1"}}))
	var mc MissingColumnError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, "Abbreviation", mc.Column)
}
