package main

import (
	"fmt"

	"github.com/buttonpot/buttond/cmd/buttond/shared"
)

// StatusCmd prints a snapshot of the game.
type StatusCmd struct {
	ClientFlags
}

func (c *StatusCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	conn, err := c.connect(logger)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Disconnect() }()

	state, err := conn.State()
	if err != nil {
		return err
	}

	fmt.Printf("holder     %s\n", state.Holder)
	fmt.Printf("pot        %d\n", state.Pot)
	fmt.Printf("min stake  %d\n", state.MinStake)
	if state.Terminated {
		fmt.Println("status     game over")
		return nil
	}
	fmt.Printf("countdown  %s\n", formatMs(state.RemainingMs))
	return nil
}
