package models

import "github.com/google/uuid"

// API error envelope

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Events published to player channels and pushed over the websocket hub.

type SessionResultEvent struct {
	Type      string        `json:"type"` // "session_result"
	SessionID uuid.UUID     `json:"session_id"`
	Status    SessionStatus `json:"status"`
	XPEarned  int           `json:"xp_earned"`
	Level     int           `json:"level"`
	LeveledUp bool          `json:"leveled_up"`
}
