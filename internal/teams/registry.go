package teams

import (
	"fmt"
	"sort"
	"strings"

	"github.com/reallyasi9/weeklypicks/internal/table"
	"golang.org/x/exp/constraints"
)

// ALIASES_SHEET is the name of the sheet holding one row per canonical team.
const ALIASES_SHEET = "Team Aliases"

// CanonicalColumn and AbbreviationColumn are the designated columns of the alias table.
// Every other column of the alias table holds alternate spellings.
const (
	CanonicalColumn    = "Canonical Name"
	AbbreviationColumn = "Abbreviation"
)

// AliasConflict records an alias claimed by more than one canonical team.
// Current is the team that holds the alias after the registry is built.
type AliasConflict struct {
	Alias    string
	Previous string
	Current  string
}

func (c AliasConflict) String() string {
	return fmt.Sprintf("%q claimed by %q and %q (kept %q)", c.Alias, c.Previous, c.Current, c.Current)
}

// Registry maps every known spelling of a team to the team's canonical name.
// It is built once per run and never modified afterward.
type Registry struct {
	byAlias       map[string]string
	abbreviations map[string]string
	conflicts     []AliasConflict
	skipped       int
}

// MissingColumnError is returned when a table lacks a column the caller requires.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("table %q has no %q column", e.Table, e.Column)
}

// DuplicateAliasError lists every alias that more than one team claims.
type DuplicateAliasError struct {
	Conflicts []AliasConflict
}

func (e *DuplicateAliasError) Error() string {
	ss := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		ss[i] = c.String()
	}
	return fmt.Sprintf("duplicate aliases detected (%d): %s", len(e.Conflicts), strings.Join(ss, "; "))
}

// Build constructs a registry from the alias table.
// Alternate spellings are registered in row order, so a spelling claimed by two teams goes to the later
// team and the overwrite is recorded in Conflicts. Canonical names are registered last as self-mappings,
// so a canonical name always resolves to itself.
func Build(aliases table.Table) (*Registry, error) {
	for _, col := range []string{CanonicalColumn, AbbreviationColumn} {
		if !aliases.HasColumn(col) {
			return nil, MissingColumnError{Table: aliases.Name, Column: col}
		}
	}

	r := &Registry{
		byAlias:       make(map[string]string),
		abbreviations: make(map[string]string),
	}
	abbrOwner := make(map[string]string)
	canonicals := make([]string, 0, len(aliases.Rows))

	for _, row := range aliases.Rows {
		canonical := strings.TrimSpace(row[CanonicalColumn])
		if canonical == "" {
			r.skipped++
			continue
		}
		canonicals = append(canonicals, canonical)

		if abbr := strings.TrimSpace(row[AbbreviationColumn]); abbr != "" {
			if owner, ok := abbrOwner[abbr]; ok && owner != canonical {
				r.conflicts = append(r.conflicts, AliasConflict{Alias: abbr, Previous: owner, Current: canonical})
			}
			abbrOwner[abbr] = canonical
			r.abbreviations[canonical] = abbr
		}

		for _, col := range aliases.Columns {
			if col == CanonicalColumn || col == AbbreviationColumn {
				continue
			}
			alias := row[col]
			if strings.TrimSpace(alias) == "" {
				continue
			}
			if prev, ok := r.byAlias[alias]; ok && prev != canonical {
				r.conflicts = append(r.conflicts, AliasConflict{Alias: alias, Previous: prev, Current: canonical})
			}
			r.byAlias[alias] = canonical
		}
	}

	for _, canonical := range canonicals {
		if prev, ok := r.byAlias[canonical]; ok && prev != canonical {
			r.conflicts = append(r.conflicts, AliasConflict{Alias: canonical, Previous: prev, Current: canonical})
		}
		r.byAlias[canonical] = canonical
	}

	return r, nil
}

// BuildStrict is Build, but any conflict is returned as a *DuplicateAliasError.
func BuildStrict(aliases table.Table) (*Registry, error) {
	r, err := Build(aliases)
	if err != nil {
		return nil, err
	}
	if len(r.conflicts) != 0 {
		return nil, &DuplicateAliasError{Conflicts: r.Conflicts()}
	}
	return r, nil
}

// Lookup returns the canonical name registered for s.
// Unknown spellings report false so callers can keep the original value.
func (r *Registry) Lookup(s string) (string, bool) {
	c, ok := r.byAlias[s]
	return c, ok
}

// Abbreviation returns the abbreviation of a canonical team.
func (r *Registry) Abbreviation(canonical string) (string, bool) {
	a, ok := r.abbreviations[canonical]
	return a, ok
}

// Canonicals returns the canonical team names in sorted order.
func (r *Registry) Canonicals() []string {
	seen := make(map[string]struct{})
	for _, c := range r.byAlias {
		seen[c] = struct{}{}
	}
	return sortedKeys(seen)
}

// Aliases returns every registered spelling in sorted order.
func (r *Registry) Aliases() []string {
	return sortedKeys(r.byAlias)
}

// Conflicts returns a copy of the alias conflicts seen while building.
func (r *Registry) Conflicts() []AliasConflict {
	out := make([]AliasConflict, len(r.conflicts))
	copy(out, r.conflicts)
	return out
}

// Skipped is the number of alias rows ignored for having no canonical name.
func (r *Registry) Skipped() int { return r.skipped }

// Len is the number of registered spellings, canonical names included.
func (r *Registry) Len() int { return len(r.byAlias) }

func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
