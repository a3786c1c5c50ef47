package utils

import "github.com/google/uuid"

// NewID returns a random (version 4) UUID string used for connection, room and message ids.
func NewID() string {
	return uuid.NewString()
}
