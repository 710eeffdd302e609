package game

import (
	"errors"
	"testing"
)

func TestMemoryLedgerCreditAndTransfer(t *testing.T) {
	t.Parallel()

	l := NewMemoryLedger()
	if err := l.Credit(500); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if err := l.Credit(250); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if l.Balance() != 750 {
		t.Fatalf("Balance should be 750, got %d", l.Balance())
	}

	if err := l.Transfer("bob", 600); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if l.Balance() != 150 {
		t.Errorf("Balance should be 150 after transfer, got %d", l.Balance())
	}
	if l.AccountBalance("bob") != 600 {
		t.Errorf("Account should hold 600, got %d", l.AccountBalance("bob"))
	}
}

func TestMemoryLedgerRejectsBadAmounts(t *testing.T) {
	t.Parallel()

	l := NewMemoryLedger()
	if err := l.Credit(-1); err == nil {
		t.Error("Credit should reject negative amounts")
	}
	if err := l.Transfer("bob", -1); err == nil {
		t.Error("Transfer should reject negative amounts")
	}
	if err := l.Transfer("bob", 1); err == nil {
		t.Error("Transfer should reject overdraw")
	}
}

func TestMemoryLedgerTransferZeroIsNoop(t *testing.T) {
	t.Parallel()

	l := NewMemoryLedger()
	if err := l.Transfer("bob", 0); err != nil {
		t.Fatalf("Zero transfer should succeed, got %v", err)
	}
	if l.AccountBalance("bob") != 0 {
		t.Errorf("Zero transfer should move nothing, got %d", l.AccountBalance("bob"))
	}
}

func TestMemoryLedgerTerminate(t *testing.T) {
	t.Parallel()

	l := NewMemoryLedger()
	if err := l.Credit(100); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}

	if err := l.Terminate("carol"); err != nil {
		t.Fatalf("Terminate failed: %v", err)
	}
	if !l.Closed() {
		t.Fatal("Ledger should report closed after terminate")
	}
	if l.AccountBalance("carol") != 100 {
		t.Errorf("Residual balance should sweep to beneficiary, got %d", l.AccountBalance("carol"))
	}
	if l.Balance() != 0 {
		t.Errorf("Balance should be 0 after terminate, got %d", l.Balance())
	}

	if err := l.Credit(1); !errors.Is(err, ErrLedgerClosed) {
		t.Errorf("Credit after terminate should fail with ErrLedgerClosed, got %v", err)
	}
	if err := l.Transfer("bob", 0); !errors.Is(err, ErrLedgerClosed) {
		t.Errorf("Transfer after terminate should fail with ErrLedgerClosed, got %v", err)
	}
	if err := l.Terminate("carol"); !errors.Is(err, ErrLedgerClosed) {
		t.Errorf("Double terminate should fail with ErrLedgerClosed, got %v", err)
	}
}
