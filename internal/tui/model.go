package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragchat/internal/domain"
)

// ChatPort is the TUI-facing subset of the conversation service.
type ChatPort interface {
	Ask(ctx context.Context, userText string) (reply string, hits []domain.Hit, err error)
	Summary(ctx context.Context) (string, error)
	Reset(ctx context.Context) error
}

// entry is one rendered block of the transcript: a completed turn with its
// sources, or a command result.
type entry struct {
	question string
	answer   string
	hits     []domain.Hit
	note     string
}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	service    ChatPort
	input      textinput.Model
	viewport   viewport.Model
	transcript []entry
	status     string
	ready      bool
}

// New creates a new TUI model instance.
func New(service ChatPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question (/summary, /reset; Ctrl+C to quit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, status: "Ready."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around transcript and query boxes
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + query frame + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			line := strings.TrimSpace(m.input.Value())
			if line != "" {
				m = m.handleLine(line)
				m.input.SetValue("")
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleLine(line string) Model {
	ctx := context.Background()
	switch line {
	case "/summary":
		summary, err := m.service.Summary(ctx)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		if summary == "" {
			summary = "(nothing to summarize yet)"
		}
		m.transcript = append(m.transcript, entry{note: "Summary: " + summary})
		m.status = "Summarized."
	case "/reset":
		if err := m.service.Reset(ctx); err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		m.transcript = nil
		m.status = "Conversation reset."
	default:
		reply, hits, err := m.service.Ask(ctx, line)
		if err != nil {
			m.status = "Error: " + err.Error()
			return m
		}
		m.transcript = append(m.transcript, entry{question: line, answer: reply, hits: hits})
		m.status = fmt.Sprintf("Answered with %d sources.", len(hits))
	}
	return m
}

// View renders the TUI layout and transcript.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("RAG Chat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if e.note != "" {
			b.WriteString(noteStyle.Render(e.note))
			continue
		}
		b.WriteString(userStyle.Render("You: "+e.question) + "\n")
		b.WriteString(e.answer)
		if len(e.hits) > 0 {
			b.WriteString("\n" + sourceStyle.Render(renderSources(e.hits)))
		}
	}
	return b.String()
}

func renderSources(hits []domain.Hit) string {
	lines := make([]string, 0, len(hits))
	for i, h := range hits {
		lines = append(lines, fmt.Sprintf("[%d] score=%.3f — %s", i+1, h.Score, h.SourceLabel()))
	}
	return strings.Join(lines, "\n")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noteStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
