package server

import (
	"encoding/json"
	"time"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
	Token      string `json:"token,omitempty"`
}

type PressData struct {
	Amount int64 `json:"amount"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success   bool   `json:"success"`
	AccountID string `json:"accountId,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameStateData is the wire form of a game snapshot. Durations travel as
// milliseconds so clients never parse Go duration strings.
type GameStateData struct {
	Holder      string    `json:"holder"`
	LastPress   time.Time `json:"lastPress"`
	Pot         int64     `json:"pot"`
	RemainingMs int64     `json:"remainingMs"`
	CountdownMs int64     `json:"countdownMs"`
	MinStake    int64     `json:"minStake"`
	Terminated  bool      `json:"terminated"`
}

type PressResultData struct {
	Success   bool           `json:"success"`
	ErrorCode string         `json:"errorCode,omitempty"`
	Error     string         `json:"error,omitempty"`
	State     *GameStateData `json:"state,omitempty"`
}

type PayoutResultData struct {
	Success    bool   `json:"success"`
	ErrorCode  string `json:"errorCode,omitempty"`
	Error      string `json:"error,omitempty"`
	Winner     string `json:"winner,omitempty"`
	Amount     int64  `json:"amount"`
	Terminated bool   `json:"terminated"`
}

type GameOverData struct {
	Winner string `json:"winner"`
	Amount int64  `json:"amount"`
}

// GameStateFromSnapshot converts a service snapshot to its wire form.
func GameStateFromSnapshot(s Snapshot) GameStateData {
	return GameStateData{
		Holder:      s.Holder,
		LastPress:   s.LastPress,
		Pot:         s.Pot,
		RemainingMs: s.Remaining.Milliseconds(),
		CountdownMs: s.Countdown.Milliseconds(),
		MinStake:    s.MinStake,
		Terminated:  s.Terminated,
	}
}
