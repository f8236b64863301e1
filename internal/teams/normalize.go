package teams

import (
	"strings"

	"github.com/reallyasi9/weeklypicks/internal/table"
)

// TeamColumns are the column names recognized as holding a team name.
var TeamColumns = []string{
	"Team",
	"Tm",
	"Away Team",
	"Home Team",
	"Away",
	"Home",
	"Opponent",
	"Opp",
	"Winner/tie",
	"Loser/tie",
}

// IsTeamColumn reports whether a column name is one of TeamColumns.
func IsTeamColumn(name string) bool {
	for _, c := range TeamColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Stats counts what the normalizer could not resolve.
type Stats struct {
	// Unmapped counts cells passed through unchanged.
	Unmapped int
	// UnmappedNames are the distinct values behind Unmapped, sorted.
	UnmappedNames []string
}

// Add merges another set of counts into s.
func (s *Stats) Add(o Stats) {
	s.Unmapped += o.Unmapped
	names := make(map[string]struct{}, len(s.UnmappedNames)+len(o.UnmappedNames))
	for _, n := range s.UnmappedNames {
		names[n] = struct{}{}
	}
	for _, n := range o.UnmappedNames {
		names[n] = struct{}{}
	}
	s.UnmappedNames = sortedKeys(names)
}

// Normalize returns a copy of t with every team column rewritten to canonical names.
// Values the registry does not know are left as they are and counted.
func Normalize(t table.Table, r *Registry) (table.Table, Stats) {
	out := t.Clone()
	var stats Stats
	unmapped := make(map[string]struct{})

	cols := make([]string, 0)
	for _, c := range out.Columns {
		if IsTeamColumn(c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return out, stats
	}

	for _, row := range out.Rows {
		for _, c := range cols {
			v := row[c]
			if v == "" {
				continue
			}
			if canonical, ok := lookup(r, v); ok {
				row[c] = canonical
				continue
			}
			stats.Unmapped++
			unmapped[v] = struct{}{}
		}
	}
	stats.UnmappedNames = sortedKeys(unmapped)
	return out, stats
}

// lookup tries the raw value first and falls back to the trimmed value.
func lookup(r *Registry, v string) (string, bool) {
	if c, ok := r.Lookup(v); ok {
		return c, true
	}
	if tv := strings.TrimSpace(v); tv != v {
		return r.Lookup(tv)
	}
	return "", false
}

// NormalizeAll normalizes every table in the map, returning new tables and the combined counts.
func NormalizeAll(tables map[string]table.Table, r *Registry) (map[string]table.Table, Stats) {
	out := make(map[string]table.Table, len(tables))
	var stats Stats
	for name, t := range tables {
		nt, s := Normalize(t, r)
		out[name] = nt
		stats.Add(s)
	}
	return out, stats
}
