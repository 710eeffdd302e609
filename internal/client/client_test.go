package client

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buttonpot/buttond/internal/auth"
	"github.com/buttonpot/buttond/internal/server"
)

func newTestSetup(t *testing.T, cfg server.GameConfig) (*Client, *quartz.Mock) {
	t.Helper()

	mock := quartz.NewMock(t)
	logger := log.New(io.Discard)

	svc, err := server.NewGameService(cfg, mock, logger)
	require.NoError(t, err)

	s := server.NewServer(":0", svc, auth.NewNoopValidator(), logger)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		_ = s.Stop()
		ts.Close()
	})

	c := New(ts.URL, logger)
	require.NoError(t, c.Connect())
	t.Cleanup(func() { _ = c.Disconnect() })

	return c, mock
}

func TestClientRoundTrip(t *testing.T) {
	c, mock := newTestSetup(t, server.GameConfig{Countdown: "1h", MinStake: 100})

	accountID, err := c.Authenticate("bob", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", accountID)

	result, err := c.Press(120)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.State)
	assert.Equal(t, "bob", result.State.Holder)
	assert.Equal(t, int64(120), result.State.Pot)

	state, err := c.State()
	require.NoError(t, err)
	assert.Equal(t, "bob", state.Holder)
	assert.Equal(t, time.Hour.Milliseconds(), state.CountdownMs)

	mock.Advance(time.Hour)

	payout, err := c.Payout()
	require.NoError(t, err)
	require.True(t, payout.Success)
	assert.Equal(t, "bob", payout.Winner)
	assert.Equal(t, int64(120), payout.Amount)
}

func TestClientSubscribeReceivesUpdates(t *testing.T) {
	c, _ := newTestSetup(t, server.GameConfig{Countdown: "1h", MinStake: 100})

	updates := make(chan server.GameStateData, 8)
	c.Subscribe(server.MessageTypeGameUpdate, func(msg *server.Message) {
		var state server.GameStateData
		if err := json.Unmarshal(msg.Data, &state); err == nil {
			updates <- state
		}
	})

	_, err := c.Authenticate("bob", "")
	require.NoError(t, err)

	result, err := c.Press(100)
	require.NoError(t, err)
	require.True(t, result.Success)

	select {
	case state := <-updates:
		assert.Equal(t, "bob", state.Holder)
		assert.Equal(t, int64(100), state.Pot)
	case <-time.After(5 * time.Second):
		t.Fatal("no game update broadcast received")
	}
}

func TestClientAuthRequired(t *testing.T) {
	c, _ := newTestSetup(t, server.GameConfig{Countdown: "1h", MinStake: 100})

	_, err := c.Press(100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_authenticated")
}
