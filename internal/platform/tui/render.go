package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/geocoin/internal/grid"
	"github.com/vovakirdan/geocoin/internal/world"
)

// maxTokensShown bounds the token list of the cache detail panel.
const maxTokensShown = 4

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2)
)

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-9s", label)) + valueStyle.Render(value)
}

// renderStatus renders the player panel.
func renderStatus(s world.Session, cell grid.Cell, feedOn bool) string {
	feedState := "off"
	if feedOn {
		feedState = "on"
	}
	lines := []string{
		field("Location", s.Location.String()),
		field("Cell", cell.String()),
		field("Points", fmt.Sprintf("%d", s.Points)),
		field("Coins", fmt.Sprintf("%d", s.Coins)),
		field("Moves", fmt.Sprintf("%d", len(s.History))),
		field("Feed", feedState),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// renderCacheDetail renders the selected cache. Coins still held from the
// cache's own mint are listed by identity; deposited coins only as a count.
func renderCacheDetail(v world.CacheView, minted []grid.Token, ok bool) string {
	if !ok {
		return panelStyle.Render(labelStyle.Render("No cache selected"))
	}

	rec := v.Record
	state := "unopened"
	if v.Opened {
		state = "opened"
	}
	lines := []string{
		field("Cache", rec.Cell.String()),
		field("Distance", fmt.Sprintf("%d", v.Distance)),
		field("Value", fmt.Sprintf("%d pts/coin", rec.PointValue)),
		field("Coins", fmt.Sprintf("%d", rec.CoinCount)),
		field("State", state),
	}

	own := min(rec.CoinCount, len(minted))
	shown := minted[:min(own, maxTokensShown)]
	ids := make([]string, 0, len(shown)+2)
	for _, t := range shown {
		ids = append(ids, t.ID())
	}
	if extra := own - len(shown); extra > 0 {
		ids = append(ids, fmt.Sprintf("+%d more", extra))
	}
	if deposited := rec.CoinCount - own; deposited > 0 {
		ids = append(ids, fmt.Sprintf("+%d deposited", deposited))
	}
	if len(ids) > 0 {
		lines = append(lines, field("Tokens", strings.Join(ids, " ")))
	}

	return panelStyle.Render(strings.Join(lines, "\n"))
}
