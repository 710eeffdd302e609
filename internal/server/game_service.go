package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/buttonpot/buttond/internal/game"
)

// houseAccount seeds the holder when the config does not name one. Until the
// first press, an expired countdown pays the (empty) pot back to the house.
const houseAccount = "house"

// Snapshot is a point-in-time view of the game, taken under the service lock.
type Snapshot struct {
	Holder     string
	LastPress  time.Time
	Pot        int64
	Remaining  time.Duration
	Countdown  time.Duration
	MinStake   int64
	Terminated bool
}

// PayoutResult describes a successful payout.
type PayoutResult struct {
	Winner     string
	Amount     int64
	Terminated bool
}

// GameService hosts exactly one Button and enforces the serialization the
// state machine requires: every operation runs to completion under one lock
// before the next begins. It is the "host environment" from the game's point
// of view - it owns the ledger, credits accepted stakes, and supplies the
// clock.
type GameService struct {
	mu     sync.Mutex
	logger *log.Logger
	ledger *game.MemoryLedger
	button *game.Button
	final  *Snapshot // set once the game terminates; button is gone
}

// NewGameService constructs the game from config with a live or mock clock.
func NewGameService(cfg GameConfig, clock quartz.Clock, logger *log.Logger) (*GameService, error) {
	countdown, err := cfg.CountdownDuration()
	if err != nil {
		return nil, fmt.Errorf("game config: %w", err)
	}

	ledger := game.NewMemoryLedger()
	button, err := game.New(game.Config{
		CountdownDuration: countdown,
		MinStake:          cfg.MinStake,
		TerminateOnPayout: cfg.TerminateOnPayout,
		Holder:            game.Identity(cfg.Holder),
	}, houseAccount, clock, ledger)
	if err != nil {
		return nil, err
	}

	return &GameService{
		logger: logger.WithPrefix("game"),
		ledger: ledger,
		button: button,
	}, nil
}

// Press stakes amount for caller. The stake is credited to the pot only
// after the press validates (reject-on-error); a failed press retains
// nothing.
func (s *GameService) Press(caller string, amount int64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.button == nil {
		return Snapshot{}, game.ErrTerminated
	}

	if err := s.button.Press(game.Identity(caller), amount); err != nil {
		return Snapshot{}, err
	}
	if err := s.ledger.Credit(amount); err != nil {
		return Snapshot{}, fmt.Errorf("credit stake: %w", err)
	}

	s.logger.Info("Button pressed", "caller", caller, "stake", amount, "pot", s.ledger.Balance())
	return s.snapshotLocked(), nil
}

// Payout pays the pot to the current holder if the countdown has elapsed.
// Any caller may trigger it.
func (s *GameService) Payout(caller string) (PayoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.button == nil {
		return PayoutResult{}, game.ErrTerminated
	}

	winner := string(s.button.Holder())
	amount := s.ledger.Balance()

	if err := s.button.Payout(game.Identity(caller)); err != nil {
		return PayoutResult{}, err
	}

	result := PayoutResult{
		Winner:     winner,
		Amount:     amount,
		Terminated: s.button.Terminated(),
	}

	s.logger.Info("Pot paid out", "winner", winner, "amount", amount,
		"caller", caller, "terminated", result.Terminated)

	if result.Terminated {
		// The handle is consumed: record the final view and drop the machine.
		final := s.snapshotLocked()
		s.final = &final
		s.button = nil
	}
	return result, nil
}

// State returns a snapshot of the game.
func (s *GameService) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *GameService) snapshotLocked() Snapshot {
	if s.button == nil {
		if s.final != nil {
			return *s.final
		}
		return Snapshot{Terminated: true}
	}
	return Snapshot{
		Holder:     string(s.button.Holder()),
		LastPress:  s.button.LastPress(),
		Pot:        s.button.Balance(),
		Remaining:  s.button.Countdown(),
		Countdown:  s.button.CountdownDuration(),
		MinStake:   s.button.MinStake(),
		Terminated: s.button.Terminated(),
	}
}

// Ledger exposes the host ledger for tests and the status endpoint.
func (s *GameService) Ledger() *game.MemoryLedger {
	return s.ledger
}

// ErrorCode maps game errors to wire error codes.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrInsufficientStake):
		return "insufficient_stake"
	case errors.Is(err, game.ErrCountdownNotPassed):
		return "countdown_not_passed"
	case errors.Is(err, game.ErrClockSkew):
		return "clock_skew"
	case errors.Is(err, game.ErrTerminated):
		return "terminated"
	default:
		return "internal_error"
	}
}
