package game

import (
	"errors"
	"fmt"
	"sync"
)

// Ledger abstracts the host's value primitives: the pot balance held for the
// game, outgoing transfers to named accounts, and irreversible termination.
// The game never credits the ledger itself; the host credits accepted stakes
// after a successful press (reject-on-error, never accept-then-fail).
type Ledger interface {
	// Balance reports the funds currently held for the game.
	Balance() int64

	// Transfer moves amount from the held balance to the named account.
	Transfer(to Identity, amount int64) error

	// Terminate irreversibly closes the ledger, sweeping any residual
	// balance to beneficiary. No operation may succeed afterwards.
	Terminate(beneficiary Identity) error
}

// ErrLedgerClosed indicates an operation against a terminated ledger.
var ErrLedgerClosed = errors.New("game: ledger closed")

// MemoryLedger is the in-process Ledger the server hosts the game on. It
// tracks the pot balance plus per-account payouts so tests and queries can
// observe where funds went.
type MemoryLedger struct {
	mu       sync.Mutex
	balance  int64
	closed   bool
	accounts map[Identity]int64
}

// NewMemoryLedger returns an empty open ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[Identity]int64),
	}
}

// Credit adds an accepted stake to the held balance.
func (l *MemoryLedger) Credit(amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLedgerClosed
	}
	if amount < 0 {
		return fmt.Errorf("game: credit amount must not be negative, got %d", amount)
	}
	l.balance += amount
	return nil
}

// Balance reports the funds currently held.
func (l *MemoryLedger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Transfer moves amount from the held balance to the named account.
func (l *MemoryLedger) Transfer(to Identity, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLedgerClosed
	}
	if amount < 0 {
		return fmt.Errorf("game: transfer amount must not be negative, got %d", amount)
	}
	if amount > l.balance {
		return fmt.Errorf("game: transfer of %d exceeds held balance %d", amount, l.balance)
	}

	l.balance -= amount
	l.accounts[to] += amount
	return nil
}

// Terminate closes the ledger, sweeping any residual balance to beneficiary.
func (l *MemoryLedger) Terminate(beneficiary Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrLedgerClosed
	}
	if l.balance > 0 {
		l.accounts[beneficiary] += l.balance
		l.balance = 0
	}
	l.closed = true
	return nil
}

// Closed reports whether the ledger has been terminated.
func (l *MemoryLedger) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// AccountBalance reports the total paid out to an account so far.
func (l *MemoryLedger) AccountBalance(id Identity) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts[id]
}
