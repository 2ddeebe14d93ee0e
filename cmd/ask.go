package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kirill-demidov/gcp-cost-agent/internal/cli"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	question := strings.Join(args, " ")
	ans, err := rt.agent.HandleQuestion(cmd.Context(), uuid.NewString(), question)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.RenderError(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderAnswer(ans))

	rt.sessions.EvictExpired()
	return nil
}
