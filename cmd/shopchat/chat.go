package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/shopchat/internal/app"
	"github.com/fyrsmithlabs/shopchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the review corpus in the terminal",
	Long: `Chat starts an interactive terminal session against the review
corpus. The collection is reused when populated and ingested from the
configured CSV otherwise.

Keys:
  Enter   send the message
  Ctrl+N  start a new conversation
  Ctrl+C  quit`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	application, err := app.New(configPath)
	if err != nil {
		return err
	}
	defer application.Close()

	stats, err := application.Bootstrap(cmd.Context(), application.Config.Ingest.DataPath)
	if err != nil {
		return err
	}
	fmt.Printf("Knowledge base ready (%d documents).\n", stats.Documents)

	program := tea.NewProgram(tui.New(application.Agent), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running chat ui: %w", err)
	}
	return nil
}
