package main

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	"github.com/reallyasi9/weeklypicks/internal/tools/aliases"
)

type importAliasesCmd struct {
	Season int `arg:"" help:"Season to import teams from. If negative, the current season will be guessed based on today's date."`
}

func (a *importAliasesCmd) Run(g *globalCmd) error {
	ctx := aliases.NewContext(context.Background())
	ctx.DryRun = g.DryRun
	ctx.Force = g.Force
	ctx.Season = a.Season
	if ctx.Season < 0 {
		ctx.Season = guessSeason(time.Now().In(g.location))
	}
	var err error
	ctx.FirestoreClient, err = fs.NewClient(ctx.Context, g.ProjectID, g.clientOptions()...)
	if err != nil {
		return err
	}
	defer ctx.FirestoreClient.Close()

	store, closeStore, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	ctx.Store = store
	return aliases.Import(ctx)
}

// guessSeason assumes seasons start in August.
func guessSeason(now time.Time) int {
	if now.Month() < time.August {
		return now.Year() - 1
	}
	return now.Year()
}

type lsAliasesCmd struct{}

func (a *lsAliasesCmd) Run(g *globalCmd) error {
	ctx := aliases.NewContext(context.Background())
	store, closeStore, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	ctx.Store = store
	return aliases.List(ctx)
}

type checkAliasesCmd struct {
	Fix bool `help:"Choose which team keeps each duplicate alias and rewrite the alias sheet."`
}

func (a *checkAliasesCmd) Run(g *globalCmd) error {
	ctx := aliases.NewContext(context.Background())
	ctx.DryRun = g.DryRun
	ctx.Fix = a.Fix
	store, closeStore, err := g.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	ctx.Store = store
	return aliases.Check(ctx)
}
