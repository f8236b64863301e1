package main

import (
	"context"
	"errors"

	"github.com/reallyasi9/weeklypicks/internal/tools/sheetview"
)

type showCmd struct {
	Week  int    `help:"Week whose predictions sheet to show." xor:"what"`
	Sheet string `help:"Name of the sheet to show." xor:"what"`
	All   bool   `help:"Show every sheet." xor:"what"`
}

func (a *showCmd) Run(g *globalCmd) error {
	ctx := sheetview.NewContext(context.Background())
	store, closeStore, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	ctx.Store = store
	ctx.Week = a.Week
	ctx.Sheet = a.Sheet
	switch {
	case a.All:
		return sheetview.ShowAll(ctx)
	case a.Week == 0 && a.Sheet == "":
		return errors.New("one of --week, --sheet, or --all is required")
	}
	return sheetview.Show(ctx)
}
