package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wsafety/desk/pkg/core/model"
	"github.com/wsafety/desk/pkg/core/notify"
	"github.com/wsafety/desk/pkg/core/verification"
)

type fetchDoneMsg struct {
	err error
}

type reviewDoneMsg struct {
	id  model.ID
	err error
}

// Approvals is the admin screen for reviewing pending volunteers
type Approvals struct {
	ctx      context.Context
	queue    *verification.Queue
	messages *notify.Queue
	baseURL  string

	password  textinput.Model
	spinner   spinner.Model
	editing   bool
	cursor    int
	reviewing map[model.ID]bool
	feed      feed
}

// NewApprovals creates the approvals screen. messages is the queue the
// notifier writes to; baseURL resolves proof-of-identity links.
func NewApprovals(ctx context.Context, queue *verification.Queue, messages *notify.Queue, baseURL string) *Approvals {
	password := textinput.New()
	password.Placeholder = "Admin password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = pendingStyle

	return &Approvals{
		ctx:       ctx,
		queue:     queue,
		messages:  messages,
		baseURL:   baseURL,
		password:  password,
		spinner:   s,
		editing:   true,
		reviewing: make(map[model.ID]bool),
	}
}

func (m *Approvals) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *Approvals) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editing {
			return m.updatePassword(msg)
		}
		return m.updateList(msg)

	case fetchDoneMsg:
		m.drain()
		m.cursor = clampCursor(m.cursor, len(m.queue.Volunteers()))
		return m, nil

	case reviewDoneMsg:
		delete(m.reviewing, msg.id)
		m.drain()
		m.cursor = clampCursor(m.cursor, len(m.queue.Volunteers()))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.editing {
		var cmd tea.Cmd
		m.password, cmd = m.password.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Approvals) updatePassword(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.password.Blur()
		return m, m.fetch()
	case "esc":
		if m.queue.Loaded() {
			m.editing = false
			m.password.Blur()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m *Approvals) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	volunteers := m.queue.Volunteers()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(volunteers))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(volunteers))
	case "f":
		return m, m.fetch()
	case "p":
		m.editing = true
		return m, m.password.Focus()
	case "a":
		return m, m.review(volunteers, model.DecisionVerify)
	case "r":
		return m, m.review(volunteers, model.DecisionReject)
	}
	return m, nil
}

func (m *Approvals) fetch() tea.Cmd {
	if m.queue.Fetching() {
		return nil
	}
	ctx, queue, password := m.ctx, m.queue, m.password.Value()
	return func() tea.Msg {
		return fetchDoneMsg{err: queue.Fetch(ctx, password)}
	}
}

func (m *Approvals) review(volunteers []model.Volunteer, decision model.Decision) tea.Cmd {
	if len(volunteers) == 0 {
		return nil
	}
	id := volunteers[clampCursor(m.cursor, len(volunteers))].ID
	m.reviewing[id] = true
	ctx, queue := m.ctx, m.queue
	return func() tea.Msg {
		return reviewDoneMsg{id: id, err: queue.Review(ctx, decision, id)}
	}
}

func (m *Approvals) drain() {
	if m.messages != nil {
		m.feed.push(m.messages.Drain()...)
	}
}

func (m *Approvals) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⬡ VOLUNTEER VERIFICATION"))
	b.WriteString("\n")

	b.WriteString(m.password.View())
	if m.queue.Fetching() {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.feed.view())
	b.WriteString(dimStyle.Render(m.help()))
	return b.String()
}

func (m *Approvals) renderList() string {
	volunteers := m.queue.Volunteers()
	switch {
	case !m.queue.Loaded():
		return dimStyle.Render("Ready for Review\nEnter the admin password to load pending volunteers.") + "\n"
	case len(volunteers) == 0:
		return emptyStyle.Render("All Caught Up!") + "\n" + dimStyle.Render("No volunteers are waiting for verification.") + "\n"
	}

	cards := make([]string, 0, len(volunteers))
	for i, v := range volunteers {
		cards = append(cards, m.renderCard(v, i == m.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...) + "\n"
}

func (m *Approvals) renderCard(v model.Volunteer, selected bool) string {
	name := v.Name
	if m.reviewing[v.ID] {
		name = fmt.Sprintf("%s %s", name, m.spinner.View())
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(name),
		fmt.Sprintf("%s · %s · %s", v.Email, v.Type, v.Location),
	}
	if v.HasProof() {
		lines = append(lines, dimStyle.Render("Proof: "+v.ProofURL(m.baseURL)))
	} else {
		lines = append(lines, dimStyle.Render("No proof uploaded"))
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *Approvals) help() string {
	if m.editing {
		return "enter: load pending · esc: back · ctrl+c: quit"
	}
	return "↑/↓: select · a: approve · r: reject · f: refresh · p: password · q: quit"
}
