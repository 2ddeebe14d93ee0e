// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kirill-demidov/gcp-cost-agent/internal/agent"
)

var (
	answerStyle = lipgloss.NewStyle().PaddingLeft(2)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(2)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderAnswer formats a one-shot answer for the terminal.
func RenderAnswer(a agent.Answer) string {
	out := answerStyle.Render(a.Text)
	if a.Intent.Kind != "" {
		out += "\n" + metaStyle.Render(fmt.Sprintf("[%s]", a.Intent.Kind))
	}
	return out
}

// RenderError formats an infrastructure error for the terminal.
func RenderError(err error) string {
	return errStyle.Render("error: " + err.Error())
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
