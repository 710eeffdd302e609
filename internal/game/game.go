// Package game implements the single-pot button game: callers stake funds to
// become the current holder, and if nobody outbids them before the countdown
// expires the holder may claim the accumulated pot.
//
// The package holds no goroutines and takes no locks. The host that invokes
// it (internal/server.GameService here) must serialize operations against a
// single Button; every method either fully applies its mutation or fails
// before writing any field.
package game

import (
	"fmt"
	"time"

	"github.com/coder/quartz"
)

// Identity names an account known to the host ledger.
type Identity string

// Config carries the construction-time game parameters. CountdownDuration
// and MinStake are required and immutable afterwards; Holder and LastPress
// optionally seed the initial state and default to the constructing caller
// and the current clock reading.
type Config struct {
	CountdownDuration time.Duration
	MinStake          int64
	TerminateOnPayout bool

	Holder    Identity
	LastPress time.Time
}

// Button is the pot state machine. The pot balance itself lives in the
// Ledger; the machine only tracks who is eligible to claim it and since when.
type Button struct {
	clock  quartz.Clock
	ledger Ledger

	holder    Identity
	lastPress time.Time

	countdownDuration time.Duration
	minStake          int64
	terminateOnPayout bool

	terminated bool
}

// New validates cfg and returns a Button seeded with either the configured
// holder/timestamp or the constructing caller and the current clock reading.
func New(cfg Config, constructor Identity, clock quartz.Clock, ledger Ledger) (*Button, error) {
	if cfg.CountdownDuration <= 0 {
		return nil, fmt.Errorf("game: countdown duration must be positive, got %s", cfg.CountdownDuration)
	}
	if cfg.MinStake <= 0 {
		return nil, fmt.Errorf("game: minimum stake must be positive, got %d", cfg.MinStake)
	}

	holder := cfg.Holder
	if holder == "" {
		holder = constructor
	}
	lastPress := cfg.LastPress
	if lastPress.IsZero() {
		lastPress = clock.Now()
	}

	return &Button{
		clock:             clock,
		ledger:            ledger,
		holder:            holder,
		lastPress:         lastPress,
		countdownDuration: cfg.CountdownDuration,
		minStake:          cfg.MinStake,
		terminateOnPayout: cfg.TerminateOnPayout,
	}, nil
}

// Press makes caller the new holder and restarts the countdown. The staked
// value must meet the minimum stake; validation happens before any state is
// written, so the host can refuse the attached value on error instead of
// keeping it. Crediting the accepted stake to the ledger is the host's job.
func (b *Button) Press(caller Identity, staked int64) error {
	if b.terminated {
		return ErrTerminated
	}
	if staked < b.minStake {
		return ErrInsufficientStake
	}

	b.holder = caller
	b.lastPress = b.clock.Now()
	return nil
}

// Payout transfers the entire pot to the current holder once the countdown
// has elapsed. Anyone may trigger it; only the holder benefits. With
// terminate-on-payout configured the game is destroyed afterwards and the
// ledger sweeps any residual balance to the triggering caller.
func (b *Button) Payout(caller Identity) error {
	if b.terminated {
		return ErrTerminated
	}

	now := b.clock.Now()
	if now.Before(b.lastPress) {
		return ErrClockSkew
	}
	if now.Sub(b.lastPress) < b.countdownDuration {
		return ErrCountdownNotPassed
	}

	if err := b.ledger.Transfer(b.holder, b.ledger.Balance()); err != nil {
		return fmt.Errorf("game: transfer pot: %w", err)
	}

	if b.terminateOnPayout {
		if err := b.ledger.Terminate(caller); err != nil {
			return fmt.Errorf("game: terminate: %w", err)
		}
		b.terminated = true
	}
	return nil
}

// Countdown returns how long until a payout is authorized, zero once the
// window has elapsed. A regressed clock proves nothing has elapsed, so the
// full window is reported rather than an error.
func (b *Button) Countdown() time.Duration {
	now := b.clock.Now()
	if now.Before(b.lastPress) {
		return b.countdownDuration
	}

	elapsed := now.Sub(b.lastPress)
	if elapsed >= b.countdownDuration {
		return 0
	}
	return b.countdownDuration - elapsed
}

// Holder returns the account currently eligible to claim the pot.
func (b *Button) Holder() Identity {
	return b.holder
}

// LastPress returns the instant the holder was last set.
func (b *Button) LastPress() time.Time {
	return b.lastPress
}

// Balance reports the pot balance by delegating to the ledger.
func (b *Button) Balance() int64 {
	return b.ledger.Balance()
}

// CountdownDuration returns the fixed countdown window.
func (b *Button) CountdownDuration() time.Duration {
	return b.countdownDuration
}

// MinStake returns the minimum value a press must attach.
func (b *Button) MinStake() int64 {
	return b.minStake
}

// TerminateOnPayout reports whether a successful payout destroys the game.
func (b *Button) TerminateOnPayout() bool {
	return b.terminateOnPayout
}

// Terminated reports whether the game has been destroyed. Once true, every
// state-changing operation fails with ErrTerminated.
func (b *Button) Terminated() bool {
	return b.terminated
}
