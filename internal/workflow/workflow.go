// Package workflow decides what a weekly run does: predict the coming week or record results.
package workflow

import (
	"fmt"
	"time"

	"github.com/reallyasi9/weeklypicks/internal/schedule"
)

// Mode is the operating mode of one run.
type Mode int

const (
	PredictionMode Mode = iota
	ResultsMode
)

func (m Mode) String() string {
	switch m {
	case PredictionMode:
		return "prediction"
	case ResultsMode:
		return "results"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Decision is the outcome of mode selection.
type Decision struct {
	Mode Mode
	Week int
	// HasWeek is false when there is nothing to do this run.
	HasWeek bool
	Reason  string
}

func (d Decision) String() string {
	if !d.HasWeek {
		return fmt.Sprintf("%s mode, no week: %s", d.Mode, d.Reason)
	}
	return fmt.Sprintf("%s mode, week %d: %s", d.Mode, d.Week, d.Reason)
}

// Selector chooses the mode for a run.
type Selector struct {
	// Location is the operating timezone used to find the day of the week.
	Location *time.Location
	// ResultsDay is the day of the week on which results are recorded.
	ResultsDay time.Weekday
}

// DefaultSelector records results on Tuesdays, US Eastern time.
func DefaultSelector() (Selector, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return Selector{}, fmt.Errorf("DefaultSelector: failed to load location: %w", err)
	}
	return Selector{Location: loc, ResultsDay: time.Tuesday}, nil
}

// Select picks the mode and week for a run starting at now.
// An override always means predictions for that week. Otherwise the results day records the latest week
// already under way, and every other day predicts the next week with a game still to play.
func (s Selector) Select(now time.Time, override *int, games []schedule.Game) Decision {
	if override != nil {
		return Decision{Mode: PredictionMode, Week: *override, HasWeek: true, Reason: "week override"}
	}

	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	if day := now.In(loc).Weekday(); day == s.ResultsDay {
		week, ok := schedule.LatestStartedWeek(games, now)
		d := Decision{Mode: ResultsMode, Week: week, HasWeek: ok, Reason: fmt.Sprintf("%s is results day", day)}
		if !ok {
			d.Reason = "no game has kicked off yet"
		}
		return d
	}

	week, ok := schedule.CurrentWeek(games, now, nil)
	d := Decision{Mode: PredictionMode, Week: week, HasWeek: ok, Reason: "first week with games still to play"}
	if !ok {
		d.Reason = "no games remain on the schedule"
	}
	return d
}
