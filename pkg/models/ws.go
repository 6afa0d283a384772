package models

import "time"

// MessageType identifies WebSocket message types
type MessageType string

const (
	MessageTypeAlert       MessageType = "alert"
	MessageTypeSubscribe   MessageType = "subscribe"
	MessageTypeUnsubscribe MessageType = "unsubscribe"
	MessageTypeHeartbeat   MessageType = "heartbeat"
	MessageTypeError       MessageType = "error"
)

// ClientMessage is a message received from a WebSocket client
type ClientMessage struct {
	Type    MessageType            `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage is a message sent to a WebSocket client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// SubscriptionFilter restricts which alerts a client receives.
// Empty fields match everything
type SubscriptionFilter struct {
	Sports         []string `json:"sports,omitempty"`
	Markets        []string `json:"markets,omitempty"`
	MinEVPercent   float64  `json:"min_ev_percent,omitempty"`
	ExcludeSuspect bool     `json:"exclude_suspect,omitempty"`
}

// ErrorMessage carries an error to a client
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConnectionStats describes a client connection
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"`
}
