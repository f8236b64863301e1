package main

import (
	"context"
	"fmt"

	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/reallyasi9/weeklypicks/internal/tools/sheetview"
	"github.com/reallyasi9/weeklypicks/internal/tools/weekly"
	"github.com/rs/zerolog/log"
)

type ingestCmd struct {
	Source []string `arg:"" help:"Source to refresh, as SHEET=URL[#TABLE_ID]."`
}

func (a *ingestCmd) Run(g *globalCmd) error {
	ctx, cancel := interruptible()
	defer cancel()
	srcs, err := parseSources(a.Source)
	if err != nil {
		return err
	}

	store, closeStore, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	wctx := weekly.NewContext(ctx)
	wctx.Sources = srcs
	wctx.Store = store
	if g.DryRun {
		snap, err := sheets.Snapshot(ctx, store)
		if err != nil {
			return err
		}
		wctx.Store = snap
	}

	n, ierr := weekly.Ingest(wctx)
	log.Info().Int("refreshed", n).Int("sources", len(srcs)).Msg("Ingest complete")

	if g.DryRun {
		vctx := sheetview.NewContext(ctx)
		vctx.Store = wctx.Store
		for _, s := range srcs {
			vctx.Sheet = s.Sheet
			if err := sheetview.Show(vctx); err != nil {
				log.Warn().Err(err).Str("sheet", s.Sheet).Msg("Nothing to show")
			}
		}
		return ierr
	}

	if n > 0 {
		if err := sheets.Save(context.WithoutCancel(ctx), store); err != nil {
			return fmt.Errorf("failed to save store: %w", err)
		}
	}
	return ierr
}
