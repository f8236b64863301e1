// Package sheets is the tabular store the weekly workflow reads and writes: a set of named sheets,
// each a grid of strings whose first row is a header.
package sheets

import (
	"context"
	"fmt"

	"github.com/reallyasi9/weeklypicks/internal/table"
	"github.com/xuri/excelize/v2"
)

// Store is a set of named sheets.
// Rows are addressed 1-based with the header as row 1; ranges use A1 notation ("H5", "F5:G5").
type Store interface {
	// ListSheets returns the sheet names in store order.
	ListSheets(ctx context.Context) ([]string, error)
	// ReadAll returns every row of the sheet, header included.
	ReadAll(ctx context.Context, sheet string) ([][]string, error)
	// CreateSheet adds a sheet and writes columns as its header when columns is not empty.
	CreateSheet(ctx context.Context, sheet string, columns []string) error
	// ClearSheet removes every value from the sheet but keeps the sheet.
	ClearSheet(ctx context.Context, sheet string) error
	// WriteRange writes rows starting at the top-left cell of ref.
	WriteRange(ctx context.Context, sheet string, ref string, rows [][]string) error
	// AppendRow writes row after the last non-empty row of the sheet.
	AppendRow(ctx context.Context, sheet string, row []string) error
}

// Saver is implemented by stores that buffer writes until saved.
type Saver interface {
	Save(ctx context.Context) error
}

// Save persists the store if it buffers writes and does nothing otherwise.
func Save(ctx context.Context, s Store) error {
	if sv, ok := s.(Saver); ok {
		return sv.Save(ctx)
	}
	return nil
}

// NoSheetError is returned when a named sheet does not exist.
type NoSheetError string

func (e NoSheetError) Error() string {
	return fmt.Sprintf("no sheet named %q", string(e))
}

// HasSheet reports whether the store has a sheet with this exact name.
func HasSheet(ctx context.Context, s Store, sheet string) (bool, error) {
	names, err := s.ListSheets(ctx)
	if err != nil {
		return false, fmt.Errorf("HasSheet: failed to list sheets: %w", err)
	}
	for _, n := range names {
		if n == sheet {
			return true, nil
		}
	}
	return false, nil
}

// LoadTable reads a sheet into a table.
func LoadTable(ctx context.Context, s Store, sheet string) (table.Table, error) {
	rows, err := s.ReadAll(ctx, sheet)
	if err != nil {
		return table.Table{}, fmt.Errorf("LoadTable: failed to read sheet %q: %w", sheet, err)
	}
	return table.FromRecords(sheet, rows), nil
}

// ReplaceSheet overwrites a sheet with the contents of a table, creating the sheet if needed.
func ReplaceSheet(ctx context.Context, s Store, sheet string, t table.Table) error {
	ok, err := HasSheet(ctx, s, sheet)
	if err != nil {
		return fmt.Errorf("ReplaceSheet: %w", err)
	}
	if !ok {
		if err := s.CreateSheet(ctx, sheet, nil); err != nil {
			return fmt.Errorf("ReplaceSheet: failed to create sheet %q: %w", sheet, err)
		}
	}
	if err := s.ClearSheet(ctx, sheet); err != nil {
		return fmt.Errorf("ReplaceSheet: failed to clear sheet %q: %w", sheet, err)
	}
	if err := s.WriteRange(ctx, sheet, "A1", t.Records()); err != nil {
		return fmt.Errorf("ReplaceSheet: failed to write sheet %q: %w", sheet, err)
	}
	return nil
}

// CellRange returns the A1 reference spanning columns first through last (1-based) of one row.
func CellRange(row, first, last int) (string, error) {
	from, err := excelize.CoordinatesToCellName(first, row)
	if err != nil {
		return "", err
	}
	if first == last {
		return from, nil
	}
	to, err := excelize.CoordinatesToCellName(last, row)
	if err != nil {
		return "", err
	}
	return from + ":" + to, nil
}

// TopLeft returns the 1-based column and row of the first cell of an A1 reference.
func TopLeft(ref string) (col, row int, err error) {
	for i := 0; i < len(ref); i++ {
		if ref[i] == ':' {
			ref = ref[:i]
			break
		}
	}
	return excelize.CellNameToCoordinates(ref)
}
