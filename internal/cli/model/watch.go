// Package model holds the Bubble Tea models of the interactive commands.
package model

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/panectl/internal/application/usecase"
	"github.com/bnema/panectl/internal/cli/styles"
	"github.com/bnema/panectl/internal/domain/entity"
)

// Navigator is the router surface the watch view drives.
type Navigator interface {
	Push(ctx context.Context, segment string) entity.RoutePath
	Back() bool
	Current() string
}

// WatchModel shows the live pane chain for segments typed by the user.
type WatchModel struct {
	ctx        context.Context
	theme      *styles.Theme
	nav        Navigator
	states     <-chan usecase.PaneState
	isFallback func(id string) bool

	input   textinput.Model
	loading styles.LoadingModel

	state    usecase.PaneState
	received bool
	width    int
}

// PaneStateMsg carries one navigator emission.
type PaneStateMsg struct {
	State usecase.PaneState
}

// StatesClosedMsg is sent once the navigator stops.
type StatesClosedMsg struct{}

// NewWatchModel creates the watch view. isFallback marks fallback editor
// panes and may be nil.
func NewWatchModel(
	ctx context.Context,
	theme *styles.Theme,
	nav Navigator,
	states <-chan usecase.PaneState,
	isFallback func(id string) bool,
) WatchModel {
	input := styles.NewSegmentInput(theme)
	input.Focus()

	return WatchModel{
		ctx:        ctx,
		theme:      theme,
		nav:        nav,
		states:     states,
		isFallback: isFallback,
		input:      input,
		loading:    styles.NewLoading(theme, "resolving"),
	}
}

// Init starts listening for pane states.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loading.Spinner.Tick, waitForState(m.states))
}

func waitForState(states <-chan usecase.PaneState) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return StatesClosedMsg{}
		}
		return PaneStateMsg{State: s}
	}
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if segment := strings.TrimSpace(m.input.Value()); segment != "" {
				m.nav.Push(m.ctx, segment)
			}
			return m, nil
		case "ctrl+b":
			if m.nav.Back() {
				m.input.SetValue(m.nav.Current())
				m.input.CursorEnd()
			}
			return m, nil
		}

	case PaneStateMsg:
		m.state = msg.State
		m.received = true
		return m, waitForState(m.states)

	case StatesClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading.Spinner, cmd = m.loading.Spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the model.
func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("panectl watch"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.InputBox(m.input.View(), m.input.Focused()))
	b.WriteString("\n\n")

	switch {
	case !m.received:
		b.WriteString(m.theme.Subtle.Render("type a pane segment and press enter"))
	case m.state.Err != nil:
		b.WriteString(m.theme.RenderBreadcrumb(m.state.Panes, m.isFallback))
		b.WriteString("\n")
		b.WriteString(m.theme.ErrorStyle.Render("error: " + m.state.Err.Error()))
	default:
		b.WriteString(m.theme.RenderBreadcrumb(m.state.Panes, m.isFallback))
		b.WriteString("\n")
		if m.state.Settled {
			b.WriteString(m.theme.SuccessStyle.Render("settled"))
		} else {
			b.WriteString(m.loading.View())
		}
	}

	if cur := m.nav.Current(); cur != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
			m.theme.HelpDesc.Render("route "),
			m.theme.Normal.Render(cur),
		))
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.HelpKey.Render("enter"))
	b.WriteString(m.theme.HelpDesc.Render(" navigate  "))
	b.WriteString(m.theme.HelpKey.Render("ctrl+b"))
	b.WriteString(m.theme.HelpDesc.Render(" back  "))
	b.WriteString(m.theme.HelpKey.Render("esc"))
	b.WriteString(m.theme.HelpDesc.Render(" quit"))
	return b.String()
}

// State returns the last pane state received.
func (m WatchModel) State() usecase.PaneState {
	return m.state
}
