package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/buttonpot/buttond/internal/auth"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	account   string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		server: server,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetAccount associates this connection with a resolved caller account
func (c *Connection) SetAccount(account string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = account
}

// GetAccount returns the associated caller account
func (c *Connection) GetAccount() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "account", c.GetAccount())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data", msg.RequestID)
			return
		}
		c.handleAuth(data, msg.RequestID)

	case MessageTypePress:
		var data PressData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse press data", msg.RequestID)
			return
		}
		c.handlePress(data, msg.RequestID)

	case MessageTypePayout:
		c.handlePayout(msg.RequestID)

	case MessageTypeGetState:
		c.handleGetState(msg.RequestID)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String(), msg.RequestID)
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message, requestID string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	errorMsg.RequestID = requestID

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

// reply sends a response correlated with the request that triggered it.
func (c *Connection) reply(messageType MessageType, data interface{}, requestID string) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("Failed to create message", "error", err, "type", messageType)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg)
}

func (c *Connection) handleAuth(data AuthData, requestID string) {
	c.logger.Info("Auth request", "playerName", data.PlayerName)

	account, err := c.server.validator.Validate(c.ctx, data.Token)
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		c.reply(MessageTypeAuthResponse, AuthResponseData{Success: false, Error: "invalid token"}, requestID)
		return
	case errors.Is(err, auth.ErrUnavailable):
		c.reply(MessageTypeAuthResponse, AuthResponseData{Success: false, Error: "auth service unavailable"}, requestID)
		return
	case err != nil:
		c.reply(MessageTypeAuthResponse, AuthResponseData{Success: false, Error: err.Error()}, requestID)
		return
	}

	// With auth disabled the claimed name is the identity.
	accountID := data.PlayerName
	if account != nil {
		accountID = account.AccountID
	}
	if accountID == "" {
		c.reply(MessageTypeAuthResponse, AuthResponseData{Success: false, Error: "player name required"}, requestID)
		return
	}

	c.SetAccount(accountID)
	c.reply(MessageTypeAuthResponse, AuthResponseData{Success: true, AccountID: accountID}, requestID)
}

func (c *Connection) handlePress(data PressData, requestID string) {
	caller := c.GetAccount()
	if caller == "" {
		c.sendError("not_authenticated", "Must authenticate first", requestID)
		return
	}

	snapshot, err := c.server.gameService.Press(caller, data.Amount)
	if err != nil {
		c.reply(MessageTypePressResult, PressResultData{
			Success:   false,
			ErrorCode: ErrorCode(err),
			Error:     err.Error(),
		}, requestID)
		return
	}

	state := GameStateFromSnapshot(snapshot)
	c.reply(MessageTypePressResult, PressResultData{Success: true, State: &state}, requestID)
	c.server.broadcastState()
}

func (c *Connection) handlePayout(requestID string) {
	caller := c.GetAccount()
	if caller == "" {
		c.sendError("not_authenticated", "Must authenticate first", requestID)
		return
	}

	result, err := c.server.gameService.Payout(caller)
	if err != nil {
		c.reply(MessageTypePayoutResult, PayoutResultData{
			Success:   false,
			ErrorCode: ErrorCode(err),
			Error:     err.Error(),
		}, requestID)
		return
	}

	c.reply(MessageTypePayoutResult, PayoutResultData{
		Success:    true,
		Winner:     result.Winner,
		Amount:     result.Amount,
		Terminated: result.Terminated,
	}, requestID)

	if result.Terminated {
		if msg, err := NewMessage(MessageTypeGameOver, GameOverData{
			Winner: result.Winner,
			Amount: result.Amount,
		}); err == nil {
			c.server.Broadcast(msg)
		}
		return
	}
	c.server.broadcastState()
}

func (c *Connection) handleGetState(requestID string) {
	state := GameStateFromSnapshot(c.server.gameService.State())
	c.reply(MessageTypeGameState, state, requestID)
}
