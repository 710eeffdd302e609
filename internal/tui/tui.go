// Package tui is the interactive terminal client: it watches the countdown,
// presses the button, and claims the pot.
package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/buttonpot/buttond/internal/client"
	"github.com/buttonpot/buttond/internal/server"
)

type keyMap struct {
	Press   key.Binding
	Claim   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Claim, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Press, k.Claim}, {k.Refresh, k.Quit}}
}

var defaultKeys = keyMap{
	Press:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "press (stake min)")),
	Claim:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "claim pot")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// Messages

type stateMsg server.GameStateData

type gameOverMsg server.GameOverData

type actionMsg struct {
	status string
	err    error
}

type tickMsg time.Time

// Model is the Bubble Tea model for the watch client.
type Model struct {
	client *client.Client
	logger *log.Logger

	state     server.GameStateData
	haveState bool
	syncedAt  time.Time // local wall time the state was received at
	gameOver  *server.GameOverData

	progress progress.Model
	keys     keyMap
	help     help.Model

	status   string
	err      error
	width    int
	quitting bool

	events chan tea.Msg
}

// NewModel creates the watch model on an already-connected client.
func NewModel(c *client.Client, logger *log.Logger) *Model {
	m := &Model{
		client:   c,
		logger:   logger.WithPrefix("tui"),
		progress: progress.New(progress.WithDefaultGradient()),
		keys:     defaultKeys,
		help:     help.New(),
		events:   make(chan tea.Msg, 16),
	}

	if c != nil {
		c.Subscribe(server.MessageTypeGameUpdate, func(msg *server.Message) {
			var state server.GameStateData
			if err := json.Unmarshal(msg.Data, &state); err == nil {
				m.events <- stateMsg(state)
			}
		})
		c.Subscribe(server.MessageTypeGameOver, func(msg *server.Message) {
			var over server.GameOverData
			if err := json.Unmarshal(msg.Data, &over); err == nil {
				m.events <- gameOverMsg(over)
			}
		})
	}
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchState, m.waitForEvent, tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) waitForEvent() tea.Msg {
	return <-m.events
}

func (m *Model) fetchState() tea.Msg {
	state, err := m.client.State()
	if err != nil {
		return actionMsg{err: err}
	}
	return stateMsg(state)
}

func (m *Model) doPress() tea.Msg {
	result, err := m.client.Press(m.state.MinStake)
	if err != nil {
		return actionMsg{err: err}
	}
	if !result.Success {
		return actionMsg{err: fmt.Errorf("%s", result.Error)}
	}
	return actionMsg{status: fmt.Sprintf("pressed with stake %d", m.state.MinStake)}
}

func (m *Model) doClaim() tea.Msg {
	result, err := m.client.Payout()
	if err != nil {
		return actionMsg{err: err}
	}
	if !result.Success {
		return actionMsg{err: fmt.Errorf("%s", result.Error)}
	}
	return actionMsg{status: fmt.Sprintf("pot of %d paid to %s", result.Amount, result.Winner)}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-10, 60)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Press):
			return m, m.doPress
		case key.Matches(msg, m.keys.Claim):
			return m, m.doClaim
		case key.Matches(msg, m.keys.Refresh):
			return m, m.fetchState
		}

	case stateMsg:
		m.state = server.GameStateData(msg)
		m.haveState = true
		m.syncedAt = time.Now()
		m.err = nil
		return m, m.waitForEvent

	case gameOverMsg:
		over := server.GameOverData(msg)
		m.gameOver = &over
		return m, m.waitForEvent

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = msg.status
			m.err = nil
		}
		return m, m.fetchState

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

// remaining extrapolates the countdown between server updates.
func (m *Model) remaining() time.Duration {
	rem := time.Duration(m.state.RemainingMs)*time.Millisecond - time.Since(m.syncedAt)
	if rem < 0 {
		return 0
	}
	return rem
}

// View renders the model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("the button") + "\n\n")

	if m.gameOver != nil {
		b.WriteString(ExpiredStyle.Render("GAME OVER") + "\n")
		b.WriteString(fmt.Sprintf("pot of %s paid to %s\n",
			PotStyle.Render(fmt.Sprintf("%d", m.gameOver.Amount)),
			HolderStyle.Render(m.gameOver.Winner)))
		b.WriteString("\n" + StatusStyle.Render("press q to quit") + "\n")
		return PanelStyle.Render(b.String())
	}

	if !m.haveState {
		b.WriteString(StatusStyle.Render("connecting...") + "\n")
		return PanelStyle.Render(b.String())
	}

	rem := m.remaining()
	frac := 0.0
	if m.state.CountdownMs > 0 {
		frac = float64(rem.Milliseconds()) / float64(m.state.CountdownMs)
	}

	b.WriteString(fmt.Sprintf("holder  %s\n", HolderStyle.Render(m.state.Holder)))
	b.WriteString(fmt.Sprintf("pot     %s\n", PotStyle.Render(fmt.Sprintf("%d", m.state.Pot))))
	b.WriteString(fmt.Sprintf("stake   %s\n\n", CountdownStyle.Render(fmt.Sprintf("min %d", m.state.MinStake))))

	if rem == 0 {
		b.WriteString(ExpiredStyle.Render("countdown expired - pot is claimable") + "\n")
	} else {
		b.WriteString(CountdownStyle.Render(fmt.Sprintf("payout in %s", rem.Round(time.Second))) + "\n")
	}
	b.WriteString(m.progress.ViewAs(frac) + "\n\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(StatusStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return lipgloss.NewStyle().Padding(1, 2).Render(PanelStyle.Render(b.String()))
}
