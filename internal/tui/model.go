// Package tui provides the terminal chat client.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Chatter runs one conversation turn, keyed by thread id.
type Chatter interface {
	Chat(ctx context.Context, threadID, message string) (string, error)
}

type role int

const (
	roleUser role = iota
	roleBot
)

type entry struct {
	role role
	text string
}

// replyMsg carries an agent reply back into the update loop.
type replyMsg struct {
	text string
	err  error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	chat     Chatter
	input    textinput.Model
	viewport viewport.Model

	threadID   string
	transcript []entry
	status     string

	requests    int
	predictions int

	waiting bool
	ready   bool
}

// New creates a chat model with a fresh thread.
func New(chat Chatter) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about a product and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		chat:     chat,
		input:    ti,
		viewport: vp,
		threadID: uuid.NewString(),
		status:   "New chat started. Ctrl+N resets, Ctrl+C quits.",
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// sendCmd calls the agent off the update loop.
func (m Model) sendCmd(message string) tea.Cmd {
	chat, threadID := m.chat, m.threadID
	return func() tea.Msg {
		reply, err := chat.Chat(context.Background(), threadID, message)
		return replyMsg{text: reply, err: err}
	}
}

// reset starts a fresh conversation: new thread id, empty transcript,
// zeroed counters.
func (m Model) reset() Model {
	m.threadID = uuid.NewString()
	m.transcript = nil
	m.requests = 0
	m.predictions = 0
	m.waiting = false
	m.status = "New chat started."
	m.viewport.SetContent(m.renderTranscript())
	return m
}

// Update handles key, window, and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameH := transcriptStyle.GetFrameSize()
		_, inputH := inputStyle.GetFrameSize()
		reserved := 2 + inputH + 2 // header, spacer, input frame, status+footer
		vh := msg.Height - reserved - frameH
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.predictions++
			m.transcript = append(m.transcript, entry{role: roleBot, text: msg.text})
			m.status = "Ready."
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyCtrlN:
			return m.reset(), nil
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.requests++
			m.waiting = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, entry{role: roleUser, text: text})
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, m.sendCmd(text)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("ShopChat")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	footer := footerStyle.Render(fmt.Sprintf("Requests: %d  Predictions: %d  Thread: %s",
		m.requests, m.predictions, shortID(m.threadID)))
	return header + "\n" + transcript + "\n" + input + "\n" + status + "\n" + footer
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "Ask me about products, prices, and what reviewers think."
	}
	lines := make([]string, 0, len(m.transcript))
	for _, e := range m.transcript {
		switch e.role {
		case roleUser:
			lines = append(lines, userStyle.Render("You: ")+e.text)
		case roleBot:
			lines = append(lines, botStyle.Render("Bot: ")+e.text)
		}
	}
	return strings.Join(lines, "\n\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
