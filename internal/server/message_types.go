package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeAuth     MessageType = "auth"
	MessageTypePress    MessageType = "press"
	MessageTypePayout   MessageType = "payout"
	MessageTypeGetState MessageType = "get_state"

	// Server to client messages
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypePressResult  MessageType = "press_result"
	MessageTypePayoutResult MessageType = "payout_result"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypeError        MessageType = "error"

	// Broadcasts to every connection
	MessageTypeGameUpdate MessageType = "game_update"
	MessageTypeGameOver   MessageType = "game_over"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
