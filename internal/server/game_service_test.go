package server

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buttonpot/buttond/internal/game"
)

func newTestService(t *testing.T, cfg GameConfig) (*GameService, *quartz.Mock) {
	t.Helper()

	mock := quartz.NewMock(t)
	svc, err := NewGameService(cfg, mock, log.New(io.Discard))
	require.NoError(t, err)
	return svc, mock
}

func TestGameServicePress(t *testing.T) {
	svc, _ := newTestService(t, GameConfig{Countdown: "24h", MinStake: 1000})

	snapshot, err := svc.Press("bob", 1000)
	require.NoError(t, err)
	assert.Equal(t, "bob", snapshot.Holder)
	assert.Equal(t, int64(1000), snapshot.Pot)
	assert.Equal(t, 24*time.Hour, snapshot.Remaining)
}

func TestGameServicePressRejectedRetainsNothing(t *testing.T) {
	svc, _ := newTestService(t, GameConfig{Countdown: "24h", MinStake: 1000})

	_, err := svc.Press("bob", 500)
	require.ErrorIs(t, err, game.ErrInsufficientStake)

	state := svc.State()
	assert.Equal(t, houseAccount, state.Holder)
	assert.Zero(t, state.Pot, "rejected stake must not be credited")
}

func TestGameServicePayout(t *testing.T) {
	svc, mock := newTestService(t, GameConfig{Countdown: "1h", MinStake: 100})

	_, err := svc.Press("bob", 250)
	require.NoError(t, err)

	_, err = svc.Payout("carol")
	require.ErrorIs(t, err, game.ErrCountdownNotPassed)

	mock.Advance(time.Hour)
	result, err := svc.Payout("carol")
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Winner)
	assert.Equal(t, int64(250), result.Amount)
	assert.False(t, result.Terminated)

	assert.Equal(t, int64(250), svc.Ledger().AccountBalance("bob"))
	assert.Zero(t, svc.State().Pot)

	// Repeatable variant: a second payout is a zero-value no-op.
	result, err = svc.Payout("carol")
	require.NoError(t, err)
	assert.Zero(t, result.Amount)
}

func TestGameServiceSingleShot(t *testing.T) {
	svc, mock := newTestService(t, GameConfig{
		Countdown:         "1h",
		MinStake:          100,
		TerminateOnPayout: true,
	})

	_, err := svc.Press("bob", 100)
	require.NoError(t, err)

	mock.Advance(time.Hour)
	result, err := svc.Payout("carol")
	require.NoError(t, err)
	assert.True(t, result.Terminated)

	_, err = svc.Press("dave", 100)
	assert.ErrorIs(t, err, game.ErrTerminated)
	_, err = svc.Payout("dave")
	assert.ErrorIs(t, err, game.ErrTerminated)

	state := svc.State()
	assert.True(t, state.Terminated)
	assert.Equal(t, "bob", state.Holder, "final snapshot keeps the winner visible")
}

func TestGameServiceSeededHolder(t *testing.T) {
	svc, _ := newTestService(t, GameConfig{Countdown: "1h", MinStake: 100, Holder: "alice"})

	assert.Equal(t, "alice", svc.State().Holder)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{game.ErrInsufficientStake, "insufficient_stake"},
		{game.ErrCountdownNotPassed, "countdown_not_passed"},
		{game.ErrClockSkew, "clock_skew"},
		{game.ErrTerminated, "terminated"},
		{io.EOF, "internal_error"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.code, ErrorCode(tc.err))
	}
}
