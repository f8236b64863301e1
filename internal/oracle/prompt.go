package oracle

import (
	"fmt"
	"strings"
	"text/template"
)

// Stat is one named statistic from a team's stats row.
type Stat struct {
	Name  string
	Value string
}

// Matchup is everything the prompt says about one game.
// A nil stats slice is rendered as "no data".
type Matchup struct {
	Away    string
	Home    string
	Kickoff string

	AwayOffense []Stat
	AwayDefense []Stat
	HomeOffense []Stat
	HomeDefense []Stat
}

const promptText = `You are a football analyst. Predict the outcome of this game.

Game: {{.Away}} (away) at {{.Home}} (home)
{{- if .Kickoff}}
Kickoff: {{.Kickoff}}
{{- end}}

{{.Away}} offense:
{{stats .AwayOffense}}
{{.Away}} defense:
{{stats .AwayDefense}}
{{.Home}} offense:
{{stats .HomeOffense}}
{{.Home}} defense:
{{stats .HomeDefense}}
Answer with the predicted winner, the predicted final score as away-home, and a short explanation.`

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{"stats": renderStats}).Parse(promptText))

func renderStats(stats []Stat) string {
	if len(stats) == 0 {
		return "  no data\n"
	}
	var sb strings.Builder
	for _, s := range stats {
		if strings.TrimSpace(s.Value) == "" {
			continue
		}
		fmt.Fprintf(&sb, "  %s: %s\n", s.Name, s.Value)
	}
	return sb.String()
}

// Prompt renders the prediction prompt for a matchup.
func Prompt(m Matchup) (string, error) {
	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, m); err != nil {
		return "", fmt.Errorf("Prompt: failed to render prompt for %s at %s: %w", m.Away, m.Home, err)
	}
	return sb.String(), nil
}
