// Package tui holds the terminal screens for the two workflows: the admin
// verification queue and the volunteer dispatch dashboard.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wsafety/desk/pkg/core/model"
	"github.com/wsafety/desk/pkg/core/notify"
)

const feedSize = 5

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E84A8A")).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("#E84A8A"))

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	emptyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6BCB77"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD93D"))

	badgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

func statusBadge(s model.DispatchStatus) string {
	style := badgeStyle
	switch s {
	case model.DispatchPending:
		style = style.Background(lipgloss.Color("#FFD93D")).Foreground(lipgloss.Color("#000000"))
	case model.DispatchInProgress:
		style = style.Background(lipgloss.Color("#4D96FF")).Foreground(lipgloss.Color("#FFFFFF"))
	case model.DispatchResolved:
		style = style.Background(lipgloss.Color("#6BCB77")).Foreground(lipgloss.Color("#000000"))
	}
	return style.Render(s.Label())
}

// feed keeps the most recent notification messages for display
type feed struct {
	msgs []notify.Message
}

func (f *feed) push(msgs ...notify.Message) {
	f.msgs = append(f.msgs, msgs...)
	if over := len(f.msgs) - feedSize; over > 0 {
		f.msgs = append([]notify.Message(nil), f.msgs[over:]...)
	}
}

func (f *feed) view() string {
	if len(f.msgs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range f.msgs {
		line := fmt.Sprintf("%s %s", notify.Icon(m.Phase), m.Text)
		switch m.Phase {
		case notify.PhaseSuccess:
			line = successStyle.Render(line)
		case notify.PhaseFailure:
			line = failureStyle.Render(line)
		default:
			line = pendingStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
