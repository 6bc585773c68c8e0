package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wsafety/desk/pkg/core/dispatch"
	"github.com/wsafety/desk/pkg/core/model"
	"github.com/wsafety/desk/pkg/core/notify"
)

const reportedLayout = "02 Jan 2006, 15:04"

type loadDoneMsg struct {
	err error
}

type transitionDoneMsg struct {
	err error
}

// RoleSource yields the display role of the signed-in user
type RoleSource interface {
	Role() string
}

// Dashboard is the volunteer screen for assigned dispatches
type Dashboard struct {
	ctx       context.Context
	lifecycle *dispatch.Lifecycle
	roles     RoleSource
	messages  *notify.Queue

	spinner spinner.Model
	cursor  int
	feed    feed
}

// NewDashboard creates the dashboard screen
func NewDashboard(ctx context.Context, lifecycle *dispatch.Lifecycle, roles RoleSource, messages *notify.Queue) *Dashboard {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = pendingStyle

	return &Dashboard{
		ctx:       ctx,
		lifecycle: lifecycle,
		roles:     roles,
		messages:  messages,
		spinner:   s,
	}
}

func (m *Dashboard) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		dispatches := m.lifecycle.Dispatches()
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.cursor = clampCursor(m.cursor-1, len(dispatches))
		case "down", "j":
			m.cursor = clampCursor(m.cursor+1, len(dispatches))
		case "l":
			return m, m.load()
		case "s":
			return m, m.transition(dispatches, model.DispatchInProgress)
		case "x":
			return m, m.transition(dispatches, model.DispatchResolved)
		}
		return m, nil

	case loadDoneMsg:
		m.drain()
		m.cursor = clampCursor(m.cursor, len(m.lifecycle.Dispatches()))
		return m, nil

	case transitionDoneMsg:
		m.drain()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Dashboard) load() tea.Cmd {
	ctx, lifecycle := m.ctx, m.lifecycle
	return func() tea.Msg {
		return loadDoneMsg{err: lifecycle.Load(ctx)}
	}
}

// transition is a no-op while another transition is in flight or when the
// selected dispatch cannot move to target
func (m *Dashboard) transition(dispatches []model.Dispatch, target model.DispatchStatus) tea.Cmd {
	if len(dispatches) == 0 || m.lifecycle.Busy() {
		return nil
	}
	d := dispatches[clampCursor(m.cursor, len(dispatches))]
	if !dispatch.CanTransition(d, target) {
		return nil
	}
	ctx, lifecycle := m.ctx, m.lifecycle
	return func() tea.Msg {
		return transitionDoneMsg{err: lifecycle.Transition(ctx, d.ID, target)}
	}
}

func (m *Dashboard) drain() {
	if m.messages != nil {
		m.feed.push(m.messages.Drain()...)
	}
}

func (m *Dashboard) View() string {
	var b strings.Builder
	header := titleStyle.Render("⬡ MY DISPATCHES")
	if role := m.roles.Role(); role != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", badgeStyle.
			Background(lipgloss.Color("#E84A8A")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Render(role))
	}
	b.WriteString(header)
	b.WriteString("\n")

	if m.lifecycle.Loading() || m.lifecycle.Busy() {
		b.WriteString(m.spinner.View() + "\n")
	}

	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.feed.view())
	b.WriteString(dimStyle.Render(m.help()))
	return b.String()
}

func (m *Dashboard) renderList() string {
	dispatches := m.lifecycle.Dispatches()
	switch {
	case !m.lifecycle.Loaded():
		return dimStyle.Render("Loading assigned complaints...") + "\n"
	case len(dispatches) == 0:
		return emptyStyle.Render("No active complaints assigned.") + "\n"
	}

	cards := make([]string, 0, len(dispatches))
	for i, d := range dispatches {
		cards = append(cards, m.renderCard(d, i == m.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...) + "\n"
}

func (m *Dashboard) renderCard(d model.Dispatch, selected bool) string {
	c := d.Complaint
	description := c.Description
	if description == "" {
		description = "No description provided."
	}
	reported := "unknown"
	if !c.ReportedAt.IsZero() {
		reported = c.ReportedAt.Local().Format(reportedLayout)
	}

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Bold(true).Render(c.Type), " ", statusBadge(d.Status)),
		fmt.Sprintf("%s · %s", c.ComplainantName, c.ComplainantPhone),
		fmt.Sprintf("%s · reported %s", c.Location, reported),
		dimStyle.Render(description),
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Dashboard) help() string {
	if m.lifecycle.Busy() {
		return "updating status... · q: quit"
	}
	return "↑/↓: select · s: start · x: resolve · l: reload · q: quit"
}
