package sheetview

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
)

type Context struct {
	context.Context

	Store sheets.Store
	// Sheet is the sheet to show. When empty, the predictions sheet of Week is shown.
	Sheet string
	Week  int
	// Out defaults to standard output.
	Out io.Writer
}

func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx}
}

// Show prints one sheet as a table.
func Show(ctx *Context) error {
	name := ctx.Sheet
	if name == "" {
		if ctx.Week < 1 {
			return fmt.Errorf("Show: a sheet name or a week of at least 1 is required")
		}
		name = sheets.WeekSheetName(ctx.Week)
	}
	rows, err := ctx.Store.ReadAll(ctx, name)
	if err != nil {
		return fmt.Errorf("Show: failed to read sheet '%s': %w", name, err)
	}
	out := ctx.Out
	if out == nil {
		out = os.Stdout
	}
	Render(out, name, rows)
	return nil
}

// ShowAll prints every sheet of a store, one table each.
func ShowAll(ctx *Context) error {
	names, err := ctx.Store.ListSheets(ctx)
	if err != nil {
		return fmt.Errorf("ShowAll: failed to list sheets: %w", err)
	}
	for _, n := range names {
		c := *ctx
		c.Sheet = n
		if err := Show(&c); err != nil {
			return fmt.Errorf("ShowAll: %w", err)
		}
	}
	return nil
}

// Render writes rows to w as a titled table whose first row is the header.
func Render(w io.Writer, title string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	for i, r := range rows {
		row := make(table.Row, len(r))
		for j, v := range r {
			row[j] = v
		}
		if i == 0 {
			t.AppendHeader(row)
			continue
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
