package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buttonpot/buttond/cmd/buttond/shared"
	"github.com/buttonpot/buttond/internal/tui"
)

// WatchCmd runs the interactive TUI client.
type WatchCmd struct {
	ClientFlags
}

func (c *WatchCmd) Run() error {
	// Logs would corrupt the TUI; keep them quiet unless debugging.
	logger := shared.SetupLogger(c.Debug)

	conn, err := c.connect(logger)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Disconnect() }()

	model := tui.NewModel(conn, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
