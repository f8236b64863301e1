// Package excel stores sheets in an Excel workbook kept on local disk or in Google Cloud Storage.
package excel

import (
	"context"
	"errors"
	"fmt"

	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Store is a workbook held in memory. Writes reach the workbook's location only on Save.
type Store struct {
	location string
	file     *excelize.File

	// placeholder is the default sheet of a new workbook, removed once a real sheet exists.
	placeholder string
}

var _ sheets.Store = (*Store)(nil)
var _ sheets.Saver = (*Store)(nil)

// Open reads the workbook at location, a local path or a gs://bucket/object URL.
// A missing workbook is started empty and created on Save.
func Open(ctx context.Context, location string) (*Store, error) {
	r, err := openLocationReader(ctx, location)
	if errors.Is(err, errNotExist) {
		log.Info().Str("location", location).Msg("workbook not found, starting a new one")
		f := excelize.NewFile()
		return &Store{location: location, file: f, placeholder: f.GetSheetName(0)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Open: failed to open '%s': %w", location, err)
	}
	defer r.Close()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("Open: failed to read workbook '%s': %w", location, err)
	}
	return &Store{location: location, file: f}, nil
}

// Location is where the workbook is saved.
func (s *Store) Location() string { return s.location }

func (s *Store) ListSheets(ctx context.Context) ([]string, error) {
	names := s.file.GetSheetList()
	if s.placeholder == "" {
		return names, nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != s.placeholder {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) exists(sheet string) error {
	if sheet == s.placeholder {
		return sheets.NoSheetError(sheet)
	}
	idx, err := s.file.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		return sheets.NoSheetError(sheet)
	}
	return nil
}

func (s *Store) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	if err := s.exists(sheet); err != nil {
		return nil, err
	}
	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ReadAll: failed to get rows of '%s': %w", sheet, err)
	}
	return rows, nil
}

func (s *Store) CreateSheet(ctx context.Context, sheet string, columns []string) error {
	if idx, err := s.file.GetSheetIndex(sheet); err == nil && idx >= 0 {
		return fmt.Errorf("CreateSheet: sheet '%s' already exists", sheet)
	}
	if _, err := s.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("CreateSheet: failed to create '%s': %w", sheet, err)
	}
	if s.placeholder != "" {
		if err := s.file.DeleteSheet(s.placeholder); err != nil {
			return fmt.Errorf("CreateSheet: failed to remove default sheet: %w", err)
		}
		s.placeholder = ""
	}
	if len(columns) == 0 {
		return nil
	}
	if err := s.file.SetSheetRow(sheet, "A1", &columns); err != nil {
		return fmt.Errorf("CreateSheet: failed to write header of '%s': %w", sheet, err)
	}
	return nil
}

func (s *Store) ClearSheet(ctx context.Context, sheet string) error {
	rows, err := s.ReadAll(ctx, sheet)
	if err != nil {
		return err
	}
	for i := len(rows); i >= 1; i-- {
		if err := s.file.RemoveRow(sheet, i); err != nil {
			return fmt.Errorf("ClearSheet: failed to remove row %d of '%s': %w", i, sheet, err)
		}
	}
	return nil
}

func (s *Store) WriteRange(ctx context.Context, sheet string, ref string, rows [][]string) error {
	if err := s.exists(sheet); err != nil {
		return err
	}
	col, row, err := sheets.TopLeft(ref)
	if err != nil {
		return fmt.Errorf("WriteRange: bad range '%s': %w", ref, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			return fmt.Errorf("WriteRange: %w", err)
		}
		if err := s.file.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("WriteRange: failed to write '%s'!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func (s *Store) AppendRow(ctx context.Context, sheet string, row []string) error {
	rows, err := s.ReadAll(ctx, sheet)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("AppendRow: %w", err)
	}
	if err := s.file.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("AppendRow: failed to write '%s'!%s: %w", sheet, cell, err)
	}
	return nil
}

// Save writes the workbook back to its location.
func (s *Store) Save(ctx context.Context) error {
	w, err := openLocationWriter(ctx, s.location)
	if err != nil {
		return fmt.Errorf("Save: failed to open '%s' for writing: %w", s.location, err)
	}
	if _, err := s.file.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("Save: failed to write workbook: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("Save: failed to close '%s': %w", s.location, err)
	}
	log.Debug().Str("location", s.location).Msg("workbook saved")
	return nil
}

// Close releases the workbook without saving.
func (s *Store) Close() error {
	return s.file.Close()
}
