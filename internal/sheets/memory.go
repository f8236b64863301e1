package sheets

import (
	"context"
	"fmt"
)

// MemoryStore keeps sheets in memory.
type MemoryStore struct {
	order  []string
	sheets map[string][][]string

	// Writes counts every mutating call.
	Writes int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: make(map[string][][]string)}
}

// Snapshot copies every sheet of s into a new memory store.
func Snapshot(ctx context.Context, s Store) (*MemoryStore, error) {
	names, err := s.ListSheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("Snapshot: failed to list sheets: %w", err)
	}
	m := NewMemoryStore()
	for _, n := range names {
		rows, err := s.ReadAll(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("Snapshot: failed to read sheet %q: %w", n, err)
		}
		m.order = append(m.order, n)
		m.sheets[n] = copyRows(rows)
	}
	return m, nil
}

// SetSheet replaces a sheet with a copy of rows, creating it if needed.
func (m *MemoryStore) SetSheet(sheet string, rows [][]string) {
	if _, ok := m.sheets[sheet]; !ok {
		m.order = append(m.order, sheet)
	}
	m.sheets[sheet] = copyRows(rows)
}

func (m *MemoryStore) ListSheets(ctx context.Context) ([]string, error) {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out, nil
}

func (m *MemoryStore) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, NoSheetError(sheet)
	}
	return copyRows(rows), nil
}

func (m *MemoryStore) CreateSheet(ctx context.Context, sheet string, columns []string) error {
	if _, ok := m.sheets[sheet]; ok {
		return fmt.Errorf("CreateSheet: sheet %q already exists", sheet)
	}
	m.Writes++
	m.order = append(m.order, sheet)
	m.sheets[sheet] = nil
	if len(columns) != 0 {
		m.sheets[sheet] = [][]string{append([]string(nil), columns...)}
	}
	return nil
}

func (m *MemoryStore) ClearSheet(ctx context.Context, sheet string) error {
	if _, ok := m.sheets[sheet]; !ok {
		return NoSheetError(sheet)
	}
	m.Writes++
	m.sheets[sheet] = nil
	return nil
}

func (m *MemoryStore) WriteRange(ctx context.Context, sheet string, ref string, rows [][]string) error {
	grid, ok := m.sheets[sheet]
	if !ok {
		return NoSheetError(sheet)
	}
	col, row, err := TopLeft(ref)
	if err != nil {
		return fmt.Errorf("WriteRange: bad range %q: %w", ref, err)
	}
	m.Writes++
	for i, values := range rows {
		r := row - 1 + i
		for len(grid) <= r {
			grid = append(grid, nil)
		}
		for j, v := range values {
			c := col - 1 + j
			for len(grid[r]) <= c {
				grid[r] = append(grid[r], "")
			}
			grid[r][c] = v
		}
	}
	m.sheets[sheet] = grid
	return nil
}

func (m *MemoryStore) AppendRow(ctx context.Context, sheet string, row []string) error {
	grid, ok := m.sheets[sheet]
	if !ok {
		return NoSheetError(sheet)
	}
	m.Writes++
	m.sheets[sheet] = append(grid, append([]string(nil), row...))
	return nil
}

func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
