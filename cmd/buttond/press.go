package main

import (
	"fmt"

	"github.com/buttonpot/buttond/cmd/buttond/shared"
)

// PressCmd stakes into the pot and takes over as holder.
type PressCmd struct {
	ClientFlags
	Amount int64 `kong:"arg,help='Amount to stake'"`
}

func (c *PressCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	conn, err := c.connect(logger)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Disconnect() }()

	result, err := conn.Press(c.Amount)
	if err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("press rejected (%s): %s", result.ErrorCode, result.Error)
	}

	fmt.Printf("pressed: you hold the button\n")
	if result.State != nil {
		fmt.Printf("pot %d, payout in %s\n", result.State.Pot, formatMs(result.State.RemainingMs))
	}
	return nil
}
