// Package schedule turns a schedule table into games with absolute kickoff times and answers
// which week is current.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reallyasi9/weeklypicks/internal/table"
)

// SCHEDULE_SHEET is the name of the sheet holding the season schedule.
const SCHEDULE_SHEET = "Schedule"

// Schedule table columns.
const (
	WeekColumn = "Week"
	DateColumn = "Date"
	TimeColumn = "Time"
	AwayColumn = "Away Team"
	HomeColumn = "Home Team"
)

// Game is one scheduled matchup.
type Game struct {
	// Week is the week number, always at least 1.
	Week int
	Away string
	Home string
	// Kickoff is the start of the game in UTC.
	Kickoff time.Time
	// KickoffTBD is set when the schedule did not give a time of day. Kickoff is then local midnight.
	KickoffTBD bool
}

func (g Game) String() string {
	return fmt.Sprintf("week %d: %s at %s (%s)", g.Week, g.Away, g.Home, g.Kickoff.Format(time.RFC3339))
}

// Stats counts schedule rows dropped while resolving.
type Stats struct {
	BadWeek int
	BadDate int
}

// Dropped is the total number of dropped rows.
func (s Stats) Dropped() int { return s.BadWeek + s.BadDate }

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Mon Jan 2 2006",
	"Mon, Jan 2, 2006",
}

// yearless layouts parse to year 0 and get a year from the season.
var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
	"Mon Jan 2",
	"Mon, Jan 2",
}

var timeLayouts = []string{
	"3:04PM",
	"3:04 PM",
	"3:04pm",
	"3:04 pm",
	"15:04",
	"15:04:05",
}

// Resolver converts schedule rows into games.
type Resolver struct {
	// Location is the timezone the schedule's dates and times are written in.
	Location *time.Location
	// SeasonYear is the year the season starts. It completes dates written without a year:
	// August through December fall in SeasonYear, January through July in SeasonYear+1.
	SeasonYear int
}

// Resolve parses every row of the schedule table.
// Rows with an unparseable or non-positive week, or with an unparseable date, are dropped and counted.
func (r Resolver) Resolve(t table.Table) ([]Game, Stats) {
	var stats Stats
	games := make([]Game, 0, len(t.Rows))
	for _, row := range t.Rows {
		week, err := strconv.Atoi(strings.TrimSpace(row[WeekColumn]))
		if err != nil || week < 1 {
			stats.BadWeek++
			continue
		}
		kickoff, tbd, err := r.ParseKickoff(row[DateColumn], row[TimeColumn])
		if err != nil {
			stats.BadDate++
			continue
		}
		games = append(games, Game{
			Week:       week,
			Away:       row[AwayColumn],
			Home:       row[HomeColumn],
			Kickoff:    kickoff,
			KickoffTBD: tbd,
		})
	}
	return games, stats
}

// ParseKickoff parses a date and a time of day written in the resolver's location and returns the instant in UTC.
// An empty or "TBD" time gives local midnight and reports tbd.
func (r Resolver) ParseKickoff(date, clock string) (kickoff time.Time, tbd bool, err error) {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	d, err := r.parseDate(strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, false, err
	}

	clock = strings.TrimSpace(clock)
	if clock == "" || strings.EqualFold(clock, "TBD") || strings.EqualFold(clock, "TBA") {
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).UTC(), true, nil
	}

	c, err := parseClock(clock)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc).UTC(), false, nil
}

func (r Resolver) parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	for _, layout := range yearlessLayouts {
		d, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		year := r.SeasonYear
		if d.Month() < time.August {
			year++
		}
		return time.Date(year, d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("parseDate: unrecognized date %q", s)
}

func parseClock(s string) (time.Time, error) {
	// Trailing zone labels such as "ET" are dropped: the resolver's location already says where the clock is.
	if i := strings.LastIndexByte(s, ' '); i > 0 {
		suffix := strings.ToUpper(s[i+1:])
		if suffix != "AM" && suffix != "PM" {
			s = strings.TrimSpace(s[:i])
		}
	}
	for _, layout := range timeLayouts {
		if c, err := time.Parse(layout, s); err == nil {
			return c, nil
		}
	}
	return time.Time{}, fmt.Errorf("parseClock: unrecognized time %q", s)
}

// CurrentWeek returns the week to work on at now.
// A non-nil override is returned as is. Otherwise the result is the lowest week with a game kicking off
// strictly after now, and false when no such game exists.
func CurrentWeek(games []Game, now time.Time, override *int) (int, bool) {
	if override != nil {
		return *override, true
	}
	week := 0
	found := false
	for _, g := range games {
		if !g.Kickoff.After(now) {
			continue
		}
		if !found || g.Week < week {
			week = g.Week
			found = true
		}
	}
	return week, found
}

// LatestStartedWeek returns the highest week with a game that kicked off at or before now.
func LatestStartedWeek(games []Game, now time.Time) (int, bool) {
	week := 0
	found := false
	for _, g := range games {
		if g.Kickoff.After(now) {
			continue
		}
		if !found || g.Week > week {
			week = g.Week
			found = true
		}
	}
	return week, found
}

// GamesInWeek returns the games of one week in schedule order.
func GamesInWeek(games []Game, week int) []Game {
	out := make([]Game, 0)
	for _, g := range games {
		if g.Week == week {
			out = append(out, g)
		}
	}
	return out
}
