// Package tui implements the terminal chat interface: a message viewport,
// a document sidebar and a single-line question input.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"docchat/internal/api"
	"docchat/internal/chat"
	"docchat/internal/docs"
	"docchat/internal/domain"
)

const healthProbeTimeout = 5 * time.Second

// connState tracks the backend connectivity lifecycle. The model starts in
// stateLoading and settles into connected or disconnected after the probe.
type connState int

const (
	stateLoading connState = iota
	stateConnected
	stateDisconnected
)

type healthMsg struct {
	err error
}

type inventoryMsg struct {
	docs []domain.DocumentDescriptor
	err  error
}

type answerMsg struct {
	answer *domain.Answer
	err    error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	backend   domain.Backend
	session   *chat.Session
	inventory docs.Source
	log       *log.Logger

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	state    connState
	docsList []domain.DocumentDescriptor
	width    int
	height   int
	ready    bool
}

// New creates the chat model. The inventory source fills the sidebar once
// the backend probe succeeds.
func New(backend domain.Backend, inventory docs.Source, logger *log.Logger) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the documents"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		backend:   backend,
		session:   chat.NewSession(),
		inventory: inventory,
		log:       logger,
		input:     ti,
		viewport:  viewport.New(0, 0),
		spin:      sp,
		state:     stateLoading,
	}
}

// Init starts the cursor blink, the spinner and the connectivity probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.checkHealth())
}

// Update handles key, window and backend events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resize()
		m.refreshViewport()
		return m, nil

	case healthMsg:
		if msg.err != nil {
			m.log.Warn("backend unreachable", "err", msg.err)
			m.state = stateDisconnected
			m.docsList = nil
			return m, nil
		}
		m.state = stateConnected
		return m, m.loadInventory()

	case inventoryMsg:
		if msg.err != nil {
			m.log.Warn("inventory listing failed", "err", msg.err)
			m.docsList = nil
			return m, nil
		}
		m.docsList = msg.docs
		return m, nil

	case answerMsg:
		if msg.err != nil {
			m.session.AppendErrorMessage(api.UserMessage(msg.err))
		} else {
			m.session.AppendAssistantMessage(msg.answer)
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+l":
			m.session.Clear()
			m.refreshViewport()
			return m, nil
		case "ctrl+r":
			m.state = stateLoading
			return m, m.checkHealth()
		case "enter":
			question := m.input.Value()
			if !m.session.AppendUserMessage(question) {
				return m, nil
			}
			m.input.Reset()
			m.refreshViewport()
			m.viewport.GotoBottom()
			return m, m.ask(question)
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) checkHealth() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthProbeTimeout)
		defer cancel()
		_, err := m.backend.CheckHealth(ctx)
		return healthMsg{err: err}
	}
}

func (m Model) loadInventory() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), healthProbeTimeout)
		defer cancel()
		list, err := m.inventory.List(ctx)
		return inventoryMsg{docs: list, err: err}
	}
}

// ask issues the question. The backend client enforces its own request
// timeout, so the command uses a background context.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		ans, err := m.backend.Ask(context.Background(), question)
		return answerMsg{answer: ans, err: err}
	}
}
