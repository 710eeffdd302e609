package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/buttonpot/buttond/internal/client"
)

// ClientFlags are shared by all commands that talk to a running server.
type ClientFlags struct {
	Server string `kong:"default='http://localhost:8080',help='Server URL'"`
	Name   string `kong:"default='',help='Player name (defaults to $USER)'"`
	Token  string `kong:"help='Auth token, if the server requires one'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (f *ClientFlags) playerName() string {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "player"
	}
	return name
}

// connect dials the server and authenticates. The caller owns the returned
// client and must Disconnect it.
func (f *ClientFlags) connect(logger *log.Logger) (*client.Client, error) {
	c := client.New(strings.TrimSpace(f.Server), logger)
	if err := c.Connect(); err != nil {
		return nil, err
	}

	accountID, err := c.Authenticate(f.playerName(), f.Token)
	if err != nil {
		_ = c.Disconnect()
		return nil, err
	}
	logger.Debug("Authenticated", "account", accountID)

	return c, nil
}

func formatMs(ms int64) string {
	if ms <= 0 {
		return "expired"
	}
	return fmt.Sprintf("%dm%02ds", ms/60000, (ms%60000)/1000)
}
