package firestore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SEASONS_COLLECTION is the path to the seasons collection in Firestore.
const SEASONS_COLLECTION = "seasons"

// TEAMS_COLLECTION is the path to the teams collection in Firestore. It is a child of a season.
const TEAMS_COLLECTION = "teams"

// Team is the part of a season's team document that names the team.
type Team struct {
	// Abbreviation is a short, capitalized abbreviation of the team's name, such as MICH or OSU.
	Abbreviation string `firestore:"abbreviation"`

	// ShortNames are capitalized abbreviations that pickers use for the team.
	// They are not necessarily consistent over time.
	ShortNames []string `firestore:"short_names"`

	// OtherNames are the names that various other documents give to the team,
	// for example [Ohio St., Ohio State].
	OtherNames []string `firestore:"other_names,omitempty"`

	// School is the unabbreviated name of the school used for display purposes.
	School string `firestore:"school"`

	// Mascot is the official nickname of the team.
	Mascot string `firestore:"mascot"`
}

func (t Team) String() string {
	return fmt.Sprintf("%s (%s)", t.School, t.Abbreviation)
}

// Aliases returns every distinct spelling of the team other than its school name, in document order:
// other names, short names, then "School Mascot".
func (t Team) Aliases() []string {
	seen := map[string]struct{}{t.School: {}}
	out := make([]string, 0, len(t.OtherNames)+len(t.ShortNames)+1)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, n := range t.OtherNames {
		add(n)
	}
	for _, n := range t.ShortNames {
		add(n)
	}
	if t.Mascot != "" {
		add(t.School + " " + t.Mascot)
	}
	return out
}

// NoSeasonError is returned when a season document does not exist.
type NoSeasonError int

func (e NoSeasonError) Error() string {
	return fmt.Sprintf("no season %d exists", int(e))
}

// GetTeams returns the teams of a season sorted by school.
func GetTeams(ctx context.Context, client *firestore.Client, year int) ([]Team, error) {
	seasonRef := client.Collection(SEASONS_COLLECTION).Doc(strconv.Itoa(year))
	_, err := seasonRef.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, NoSeasonError(year)
	}
	if err != nil {
		return nil, fmt.Errorf("GetTeams: error getting season snapshot: %w", err)
	}

	iter := seasonRef.Collection(TEAMS_COLLECTION).Documents(ctx)
	defer iter.Stop()
	teams := make([]Team, 0)
	for {
		ss, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("GetTeams: error getting team snapshot: %w", err)
		}
		var t Team
		if err := ss.DataTo(&t); err != nil {
			return nil, fmt.Errorf("GetTeams: error getting team snapshot data: %w", err)
		}
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].School < teams[j].School })
	return teams, nil
}
