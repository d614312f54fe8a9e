package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"barkeep/internal/service"
)

// ChatPort is the TUI-facing subset of the advisor.
type ChatPort interface {
	Chat(ctx context.Context, userID, message string) (service.ChatResult, error)
}

// Model is the Bubble Tea model for the chat surface. It only forwards a
// message plus user id into the advisor.
type Model struct {
	advisor  ChatPort
	userID   string
	input    textinput.Model
	viewport viewport.Model
	lines    []string
	status   string
	ready    bool
}

// New creates a new chat model for the given user.
func New(advisor ChatPort, userID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about cocktails and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		advisor:  advisor,
		userID:   userID,
		input:    ti,
		viewport: vp,
		status:   "Ready. Ask me about cocktails.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.transcript())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.lines = append(m.lines, userStyle.Render("You: ")+text)
				res, err := m.advisor.Chat(context.Background(), m.userID, text)
				if err != nil {
					m.status = "Error: " + err.Error()
				} else {
					m.lines = append(m.lines, assistantStyle.Render("Barkeep: ")+res.Reply)
					m.status = detectedStatus(res)
				}
				m.input.SetValue("")
				m.viewport.SetContent(m.transcript())
				m.viewport.GotoBottom()
				return m, nil
			}
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
	header := lipgloss.NewStyle().Bold(true).Render("Cocktail Advisor")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) transcript() string {
	if len(m.lines) == 0 {
		return "No messages yet."
	}
	return strings.Join(m.lines, "\n\n")
}

func detectedStatus(res service.ChatResult) string {
	var parts []string
	if len(res.NewIngredients) > 0 {
		parts = append(parts, fmt.Sprintf("new favorite ingredients: %s", strings.Join(res.NewIngredients, ", ")))
	}
	if len(res.NewCocktails) > 0 {
		parts = append(parts, fmt.Sprintf("new favorite cocktails: %s", strings.Join(res.NewCocktails, ", ")))
	}
	if len(parts) == 0 {
		return "Ready."
	}
	return "Noted " + strings.Join(parts, "; ")
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
