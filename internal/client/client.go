// Package client is the WebSocket client used by the CLI and TUI. It reuses
// the server's message types.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/buttonpot/buttond/internal/server"
)

// DefaultRequestTimeout bounds how long request helpers wait for a reply.
const DefaultRequestTimeout = 10 * time.Second

// EventHandler is a function that handles a broadcast message.
type EventHandler func(*server.Message)

// Client represents a WebSocket client for the button game.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	closeOnce sync.Once

	requestSeq int64
	pending    map[string]chan *server.Message
	handlers   map[server.MessageType][]EventHandler
}

// New creates a new WebSocket client.
func New(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *server.Message, 256),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[string]chan *server.Message),
		handlers:  make(map[server.MessageType][]EventHandler),
	}
}

// Connect establishes a WebSocket connection to the server.
func (c *Client) Connect() error {
	c.logger.Debug("Connecting to server", "url", c.serverURL)

	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	return nil
}

// Disconnect closes the WebSocket connection.
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
			c.connected = false
		}
		close(c.send)
	})
	return nil
}

// IsConnected returns whether the client is connected.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Subscribe registers a handler for broadcast messages of the given type.
func (c *Client) Subscribe(messageType server.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[messageType] = append(c.handlers[messageType], handler)
}

// request sends a message and waits for the correlated reply or the first
// error reply, whichever comes back.
func (c *Client) request(msgType server.MessageType, data interface{}, wantType server.MessageType) (*server.Message, error) {
	msg, err := server.NewMessage(msgType, data)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.mu.Lock()
	c.requestSeq++
	requestID := strconv.FormatInt(c.requestSeq, 10)
	reply := make(chan *server.Message, 1)
	c.pending[requestID] = reply
	c.mu.Unlock()
	msg.RequestID = requestID

	defer func() {
		c.mu.Lock()
		delete(c.pending, requestID)
		c.mu.Unlock()
	}()

	select {
	case c.send <- msg:
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}

	select {
	case got := <-reply:
		if got.Type == server.MessageTypeError {
			var errData server.ErrorData
			if err := json.Unmarshal(got.Data, &errData); err != nil {
				return nil, fmt.Errorf("server error (unparseable): %w", err)
			}
			return nil, fmt.Errorf("server error %s: %s", errData.Code, errData.Message)
		}
		if got.Type != wantType {
			return nil, fmt.Errorf("unexpected reply type %s, want %s", got.Type, wantType)
		}
		return got, nil
	case <-time.After(DefaultRequestTimeout):
		return nil, fmt.Errorf("timed out waiting for %s", wantType)
	case <-c.ctx.Done():
		return nil, c.ctx.Err()
	}
}

// Authenticate resolves the caller identity with the server.
func (c *Client) Authenticate(playerName, token string) (string, error) {
	msg, err := c.request(server.MessageTypeAuth, server.AuthData{
		PlayerName: playerName,
		Token:      token,
	}, server.MessageTypeAuthResponse)
	if err != nil {
		return "", err
	}

	var resp server.AuthResponseData
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return "", fmt.Errorf("parse auth response: %w", err)
	}
	if !resp.Success {
		return "", fmt.Errorf("authentication failed: %s", resp.Error)
	}
	return resp.AccountID, nil
}

// Press stakes amount to become the current holder.
func (c *Client) Press(amount int64) (server.PressResultData, error) {
	var result server.PressResultData

	msg, err := c.request(server.MessageTypePress, server.PressData{Amount: amount}, server.MessageTypePressResult)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(msg.Data, &result); err != nil {
		return result, fmt.Errorf("parse press result: %w", err)
	}
	return result, nil
}

// Payout asks the server to pay the pot to the current holder.
func (c *Client) Payout() (server.PayoutResultData, error) {
	var result server.PayoutResultData

	msg, err := c.request(server.MessageTypePayout, struct{}{}, server.MessageTypePayoutResult)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(msg.Data, &result); err != nil {
		return result, fmt.Errorf("parse payout result: %w", err)
	}
	return result, nil
}

// State fetches a snapshot of the game.
func (c *Client) State() (server.GameStateData, error) {
	var state server.GameStateData

	msg, err := c.request(server.MessageTypeGetState, struct{}{}, server.MessageTypeGameState)
	if err != nil {
		return state, err
	}
	if err := json.Unmarshal(msg.Data, &state); err != nil {
		return state, fmt.Errorf("parse game state: %w", err)
	}
	return state, nil
}

// readPump routes incoming messages to pending requests and subscribers.
func (c *Client) readPump() {
	defer func() { _ = c.Disconnect() }()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		if msg.RequestID != "" {
			c.mu.RLock()
			reply, ok := c.pending[msg.RequestID]
			c.mu.RUnlock()
			if ok {
				reply <- &msg
				continue
			}
		}

		c.mu.RLock()
		handlers := c.handlers[msg.Type]
		c.mu.RUnlock()
		for _, handler := range handlers {
			handler(&msg)
		}
	}
}

// writePump sends outgoing messages to the server.
func (c *Client) writePump() {
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}
