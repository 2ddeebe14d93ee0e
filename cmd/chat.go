package cmd

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kirill-demidov/gcp-cost-agent/internal/session"
	"github.com/kirill-demidov/gcp-cost-agent/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with conversational context",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	// Evict idle session contexts in the background while the chat runs.
	evictCtx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go session.RunEvictor(evictCtx, rt.sessions, time.Minute)

	p := tea.NewProgram(tui.NewChat(rt.agent), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
