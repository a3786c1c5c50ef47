package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeInternal       = "internal"
)

var (
	ErrDuplicateConnection = errors.New("connection already registered")
	ErrSessionNotFound     = errors.New("session not found")
	ErrRoomExists          = errors.New("room already exists")
	ErrHubStopped          = errors.New("hub stopped")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// NewError builds a CoreError for layers outside the hub (e.g. payload validation).
func NewError(code, msg string) *CoreError {
	return coreError(code, msg)
}
