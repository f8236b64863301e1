// Package google stores sheets in a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Store is a spreadsheet. Every call goes straight to the API; nothing is buffered.
type Store struct {
	svc *sheetsapi.Service
	id  string
}

var _ sheets.Store = (*Store)(nil)

// New connects to the spreadsheet with the given ID.
func New(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Store, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("New: empty spreadsheet ID")
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("New: failed to create sheets service: %w", err)
	}
	return &Store{svc: svc, id: spreadsheetID}, nil
}

// quote makes a sheet name safe to use in an A1 range.
func quote(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func a1(sheet, ref string) string {
	if ref == "" {
		return quote(sheet)
	}
	return quote(sheet) + "!" + ref
}

// notFound maps the API's bad-range response for a missing sheet to NoSheetError.
func notFound(sheet string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range") {
		return sheets.NoSheetError(sheet)
	}
	return err
}

func (s *Store) ListSheets(ctx context.Context) ([]string, error) {
	ss, err := s.svc.Spreadsheets.Get(s.id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ListSheets: failed to get spreadsheet %s: %w", s.id, err)
	}
	names := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			names = append(names, sh.Properties.Title)
		}
	}
	return names, nil
}

func (s *Store) ReadAll(ctx context.Context, sheet string) ([][]string, error) {
	vr, err := s.svc.Spreadsheets.Values.Get(s.id, a1(sheet, "")).Context(ctx).Do()
	if err != nil {
		return nil, notFound(sheet, err)
	}
	rows := make([][]string, len(vr.Values))
	for i, r := range vr.Values {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = fmt.Sprint(v)
		}
	}
	return rows, nil
}

func (s *Store) CreateSheet(ctx context.Context, sheet string, columns []string) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{
			{AddSheet: &sheetsapi.AddSheetRequest{Properties: &sheetsapi.SheetProperties{Title: sheet}}},
		},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.id, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("CreateSheet: failed to add sheet '%s': %w", sheet, err)
	}
	if len(columns) == 0 {
		return nil
	}
	return s.WriteRange(ctx, sheet, "A1", [][]string{columns})
}

func (s *Store) ClearSheet(ctx context.Context, sheet string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(s.id, a1(sheet, ""), &sheetsapi.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return notFound(sheet, err)
	}
	return nil
}

func (s *Store) WriteRange(ctx context.Context, sheet string, ref string, rows [][]string) error {
	vr := &sheetsapi.ValueRange{Values: toValues(rows)}
	_, err := s.svc.Spreadsheets.Values.Update(s.id, a1(sheet, ref), vr).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return notFound(sheet, err)
	}
	return nil
}

// AppendRow writes row directly below the last row ReadAll returns.
// Values.Append is not used because it appends after the first block of data, which stops at a blank row.
func (s *Store) AppendRow(ctx context.Context, sheet string, row []string) error {
	rows, err := s.ReadAll(ctx, sheet)
	if err != nil {
		return err
	}
	ref, err := sheets.CellRange(len(rows)+1, 1, 1)
	if err != nil {
		return fmt.Errorf("AppendRow: %w", err)
	}
	return s.WriteRange(ctx, sheet, ref, [][]string{row})
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = make([]interface{}, len(r))
		for j, v := range r {
			out[i][j] = v
		}
	}
	return out
}
