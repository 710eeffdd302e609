package main

import (
	"fmt"

	"github.com/buttonpot/buttond/cmd/buttond/shared"
)

// PayoutCmd triggers payout to the current holder. Anyone may run it once
// the countdown has elapsed.
type PayoutCmd struct {
	ClientFlags
}

func (c *PayoutCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	conn, err := c.connect(logger)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Disconnect() }()

	result, err := conn.Payout()
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("payout rejected (%s): %s", result.ErrorCode, result.Error)
	}

	fmt.Printf("pot of %d paid to %s\n", result.Amount, result.Winner)
	if result.Terminated {
		fmt.Println("game over")
	}
	return nil
}
