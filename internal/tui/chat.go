// Package tui provides the interactive Bubble Tea chat for the agent.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/kirill-demidov/gcp-cost-agent/internal/agent"
)

const answerTimeout = 60 * time.Second

// AnswerMsg is sent when the agent finishes a turn.
type AnswerMsg struct {
	Answer agent.Answer
	Err    error
}

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Chat is the root Bubble Tea model for the chat REPL. One chat run is
// one session; /reset starts a fresh context under the same id.
type Chat struct {
	agent     *agent.Agent
	sessionID string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	lines   []string
	waiting bool
	ready   bool
	width   int
	height  int
}

// NewChat creates the chat model with a generated session id.
func NewChat(a *agent.Agent) Chat {
	ti := textinput.New()
	ti.Placeholder = "Ask about your cloud costs (EN/RU)…"
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Chat{
		agent:     a,
		sessionID: uuid.NewString(),
		input:     ti,
		spinner:   sp,
		lines: []string{
			hintStyle.Render("Ask a question about your cloud spending. /reset clears context, Esc quits."),
		},
	}
}

// Init implements tea.Model.
func (c Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (c Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		vpHeight := msg.Height - 4
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !c.ready {
			c.viewport = viewport.New(msg.Width, vpHeight)
			c.ready = true
		} else {
			c.viewport.Width = msg.Width
			c.viewport.Height = vpHeight
		}
		c.input.Width = msg.Width - 4
		c.refreshViewport()
		return c, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return c, tea.Quit
		case tea.KeyEnter:
			if c.waiting {
				return c, nil
			}
			question := strings.TrimSpace(c.input.Value())
			if question == "" {
				return c, nil
			}
			c.input.Reset()

			if question == "/reset" {
				c.agent.Reset(c.sessionID)
				c.lines = append(c.lines, hintStyle.Render("Context cleared."))
				c.refreshViewport()
				return c, nil
			}

			c.lines = append(c.lines, "", questionStyle.Render("> "+question))
			c.waiting = true
			c.refreshViewport()
			return c, tea.Batch(c.spinner.Tick, c.ask(question))
		}

	case AnswerMsg:
		c.waiting = false
		if msg.Err != nil {
			c.lines = append(c.lines, errorStyle.Render("The agent hit an internal problem; see the logs."))
		} else {
			c.lines = append(c.lines, answerStyle.Render(msg.Answer.Text))
		}
		c.refreshViewport()
		return c, nil

	case spinner.TickMsg:
		if !c.waiting {
			return c, nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return c, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	if c.ready {
		c.viewport, cmd = c.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return c, tea.Batch(cmds...)
}

// View implements tea.Model.
func (c Chat) View() string {
	if !c.ready {
		return "starting…"
	}
	status := " "
	if c.waiting {
		status = c.spinner.View() + " thinking…"
	}
	return c.viewport.View() + "\n" + hintStyle.Render(status) + "\n" + c.input.View()
}

func (c *Chat) refreshViewport() {
	if !c.ready {
		return
	}
	c.viewport.SetContent(strings.Join(c.lines, "\n"))
	c.viewport.GotoBottom()
}

// ask runs one turn in the background and reports back as a message.
func (c Chat) ask(question string) tea.Cmd {
	agentRef := c.agent
	sessionID := c.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerTimeout)
		defer cancel()
		ans, err := agentRef.HandleQuestion(ctx, sessionID, question)
		return AnswerMsg{Answer: ans, Err: err}
	}
}
