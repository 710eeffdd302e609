package tui

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buttonpot/buttond/internal/server"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return NewModel(nil, log.New(io.Discard))
}

func TestViewBeforeFirstState(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "connecting")
}

func TestViewShowsHolderAndPot(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(stateMsg(server.GameStateData{
		Holder:      "bob",
		Pot:         1500,
		RemainingMs: (30 * time.Minute).Milliseconds(),
		CountdownMs: time.Hour.Milliseconds(),
		MinStake:    100,
	}))
	m, ok := updated.(*Model)
	require.True(t, ok)

	view := m.View()
	assert.Contains(t, view, "bob")
	assert.Contains(t, view, "1500")
	assert.Contains(t, view, "payout in")
}

func TestViewExpiredCountdown(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(stateMsg(server.GameStateData{
		Holder:      "bob",
		Pot:         100,
		RemainingMs: 0,
		CountdownMs: time.Hour.Milliseconds(),
		MinStake:    100,
	}))
	m = updated.(*Model)

	assert.Contains(t, m.View(), "claimable")
}

func TestViewGameOver(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(gameOverMsg(server.GameOverData{
		Winner: "alice",
		Amount: 9000,
	}))
	m = updated.(*Model)

	view := m.View()
	assert.Contains(t, view, "GAME OVER")
	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "9000")
}
