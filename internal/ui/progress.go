package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"peonytest/internal/verify"
)

type progressModel struct {
	title   string
	events  <-chan verify.Event
	spinner spinner.Model
	prog    progress.Model
	items   []commandItem
	width   int
	done    bool
}

type commandItem struct {
	command string
	phase   verify.Phase
	status  verify.Status
}

type eventMsg verify.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the progress of
// the RUN commands of one test.
func NewProgressModel(title string, commands []string, events <-chan verify.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]commandItem, len(commands))
	for i, cmd := range commands {
		items[i] = commandItem{command: cmd}
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(verify.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		label := itemLabel(item)
		statusStyled := styleLabel(label).Render(fmt.Sprintf("%12s", label))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(item.command, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev verify.Event) tea.Cmd {
	if ev.Index < 0 || ev.Index >= len(m.items) {
		return nil
	}
	item := &m.items[ev.Index]
	item.phase = ev.Phase
	if ev.Phase == verify.PhaseDone {
		item.status = ev.Status
	}

	total := 0.0
	for _, it := range m.items {
		total += progressFromPhase(it.phase)
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromPhase(phase verify.Phase) float64 {
	switch phase {
	case verify.PhaseRunning:
		return 0.3
	case verify.PhaseChecking:
		return 0.8
	case verify.PhaseDone:
		return 1.0
	default:
		return 0.0
	}
}

func itemLabel(item commandItem) string {
	if item.phase == verify.PhaseDone {
		return string(item.status)
	}
	return item.phase.String()
}

func styleLabel(label string) lipgloss.Style {
	switch label {
	case string(verify.StatusPass):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case string(verify.StatusFail), string(verify.StatusTimeout), string(verify.StatusUnresolved):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case string(verify.StatusXPass), string(verify.StatusXFail):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "running", "checking":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
