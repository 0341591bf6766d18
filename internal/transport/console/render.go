package console

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"party-quiz/internal/app"
	"party-quiz/internal/domain"
	"party-quiz/internal/round"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	answerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	jokerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Renderer turns controller events into terminal text.
type Renderer struct {
	cfg domain.GameConfig
}

func NewRenderer(cfg domain.GameConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render returns the text for ev, or "" for events the console does not show.
func (r *Renderer) Render(ev app.Event) string {
	switch p := ev.Payload.(type) {
	case app.Progress:
		return labelStyle.Render(fmt.Sprintf("Manche %d/%d", p.Index+1, p.Total))
	case app.JokerOffer:
		names := make([]string, 0, len(p.Players))
		for _, pl := range p.Players {
			names = append(names, fmt.Sprintf("%s (%s)", r.cfg.PlayerName(pl), pl))
		}
		return jokerStyle.Render("Joker ? ") + strings.Join(names, ", ") + labelStyle.Render(" | joker <player>|none")
	case app.JokerUsed:
		return jokerStyle.Render(fmt.Sprintf("%s joue son joker: points doublés", p.Name))
	case app.RoundStarted:
		header := fmt.Sprintf("%s  [%s] %d pts", p.Title, p.Label, p.Points)
		if p.Multiplier > 1 {
			header += fmt.Sprintf(" x%d", p.Multiplier)
		}
		return titleStyle.Render(header)
	case round.View:
		return r.renderView(p)
	case app.RoundEnded:
		if p.Winner == nil {
			return labelStyle.Render("Manche terminée, personne ne marque")
		}
		return answerStyle.Render(fmt.Sprintf("%s marque %d points", p.WinnerName, p.Awarded))
	case map[domain.Player]int:
		return r.renderScores(p)
	case app.FinalResult:
		if p.Draw {
			return boxStyle.Render(titleStyle.Render("Égalité !") + "\n" + r.renderScores(p.Scores))
		}
		return boxStyle.Render(titleStyle.Render(p.WinnerName+" gagne !") + "\n" + r.renderScores(p.Scores))
	case app.ErrorPayload:
		return errorStyle.Render("! " + p.Message)
	}
	return ""
}

func (r *Renderer) renderScores(scores map[domain.Player]int) string {
	parts := make([]string, 0, len(domain.Players))
	for _, p := range domain.Players {
		parts = append(parts, fmt.Sprintf("%s %d", r.cfg.PlayerName(p), scores[p]))
	}
	return labelStyle.Render("Scores: ") + strings.Join(parts, " - ")
}

func (r *Renderer) renderView(v round.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("phase"), v.Phase)
	if v.TurnName != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("au tour de"), v.TurnName)
	}
	if v.Prompt != "" {
		fmt.Fprintf(&b, "%s\n", titleStyle.Render(v.Prompt))
	}
	for i, item := range v.Items {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, item)
	}
	keys := make([]string, 0, len(v.Choices))
	for k := range v.Choices {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		mark := " "
		if slices.Contains(v.Selected, k) {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s\n", mark, k, v.Choices[k])
	}
	if v.Remaining > 0 {
		fmt.Fprintf(&b, "%s %ds\n", labelStyle.Render("temps"), v.Remaining)
	}
	if v.Media != nil {
		b.WriteString(renderMedia(v.Media))
	}
	if v.Scores != nil {
		b.WriteString(r.renderScores(v.Scores) + "\n")
	}
	if v.Feedback != "" {
		fmt.Fprintf(&b, "%s\n", v.Feedback)
	}
	if v.Answer != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("réponse"), answerStyle.Render(v.Answer))
	}
	if len(v.Actions) > 0 {
		actions := make([]string, 0, len(v.Actions))
		for _, a := range v.Actions {
			actions = append(actions, string(a))
		}
		fmt.Fprintf(&b, "%s %s", labelStyle.Render(">"), strings.Join(actions, " "))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderMedia(m *round.MediaView) string {
	state := "pause"
	if m.Playing {
		state = "lecture"
	}
	line := fmt.Sprintf("%s %s, volume %d\n", labelStyle.Render("audio"), state, m.Volume)
	if m.Error != "" {
		line += errorStyle.Render(m.Error) + "\n"
	}
	if m.FallbackLink != "" {
		line += m.FallbackLink + "\n"
	}
	return line
}
