package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type globalCmd struct {
	Store       string `help:"Workbook path, gs://bucket/object workbook, or sheets://SPREADSHEET_ID." env:"PICKS_STORE" required:""`
	Credentials string `help:"Google credentials file. Application default credentials are used if empty." env:"PICKS_CREDENTIALS" type:"existingfile"`
	ProjectID   string `help:"GCP project ID." env:"GCP_PROJECT"`
	Timezone    string `help:"Operating timezone for schedule times and day-of-week decisions." env:"PICKS_TIMEZONE" default:"America/New_York"`
	LogLevel    string `help:"Log level." env:"PICKS_LOG_LEVEL" enum:"trace,debug,info,warn,error" default:"info"`
	LogFormat   string `help:"Log output format." env:"PICKS_LOG_FORMAT" enum:"console,json" default:"console"`
	DryRun      bool   `help:"Print store writes to console and exit without writing." xor:"Force,DryRun"`
	Force       bool   `help:"Force overwriting existing data." xor:"Force,DryRun"`

	location *time.Location
}

func (g *globalCmd) AfterApply() error {
	setupLogger(g.LogLevel, g.LogFormat)
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", g.Timezone, err)
	}
	g.location = loc
	return nil
}

type cli struct {
	globalCmd

	Run      runCmd      `cmd:"" help:"Write predictions or results for the current week."`
	Ingest   ingestCmd   `cmd:"" help:"Refresh source sheets from their URLs."`
	Schedule scheduleCmd `cmd:"" help:"Run the weekly workflow on a cron schedule and serve metrics."`

	Aliases struct {
		Import importAliasesCmd `cmd:"" help:"Seed the alias sheet from a Firestore season."`
		Ls     lsAliasesCmd     `cmd:"" help:"List all teams and their aliases."`
		Check  checkAliasesCmd  `cmd:"" help:"Report aliases claimed by more than one team."`
	} `cmd:""`

	Show showCmd `cmd:"" help:"Print a week sheet or any other sheet."`
}

var CLI cli

// setupLogger configures the global zerolog logger.
func setupLogger(level, format string) {
	if strings.EqualFold(format, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	lvl := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)
	log.Debug().Str("level", lvl.String()).Msg("Logger initialized")
}

// interruptible returns a context that is cancelled on SIGINT or SIGTERM.
func interruptible() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			log.Info().Msg("Received shutdown signal, gracefully shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("pickstool"),
		kong.Description("Weekly picks: predictions, results, and team aliases kept in a spreadsheet."),
	)
	err := ctx.Run(&CLI.globalCmd)
	ctx.FatalIfErrorf(err)
}
