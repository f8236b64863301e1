package weekly

import (
	"context"
	"net/http"
	"time"

	"github.com/reallyasi9/weeklypicks/internal/oracle"
	"github.com/reallyasi9/weeklypicks/internal/sheets"
	"github.com/reallyasi9/weeklypicks/internal/sources"
)

type Context struct {
	context.Context

	Force      bool
	NoProgress bool
	Refresh    bool

	Store  sheets.Store
	Oracle oracle.Oracle
	Gate   *oracle.Gate

	Sources    []sources.Source
	HTTPClient *http.Client
	// Connect overrides how a source is fetched. Nil means sources.NewConnector.
	Connect func(sources.Source) sources.Connector

	// Now is the clock. Nil means time.Now.
	Now func() time.Time
	// Week, when set, forces predictions for that week.
	Week       *int
	Location   *time.Location
	ResultsDay time.Weekday
	// SeasonYear completes schedule dates written without a year. Zero means the season under way at Now.
	SeasonYear int
}

func NewContext(ctx context.Context) *Context {
	return &Context{Context: ctx, ResultsDay: time.Tuesday, Location: time.UTC}
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) connector(s sources.Source) sources.Connector {
	if c.Connect != nil {
		return c.Connect(s)
	}
	return sources.NewConnector(s, c.HTTPClient)
}

func (c *Context) gate() *oracle.Gate {
	if c.Gate == nil {
		c.Gate = oracle.NewGate(0)
	}
	return c.Gate
}

// seasonYear is the year the season under way at now started, assuming seasons start in August.
func (c *Context) seasonYear(now time.Time) int {
	if c.SeasonYear != 0 {
		return c.SeasonYear
	}
	local := now.In(c.Location)
	if local.Month() < time.August {
		return local.Year() - 1
	}
	return local.Year()
}
