package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxContentLength caps message content, counted in runes.
const MaxContentLength = 1000

// Message is the domain model for a chat message. It is never mutated after creation.
type Message struct {
	ID          string
	RoomID      string
	UserID      string
	DisplayName string
	Content     string
	Timestamp   time.Time
}

// NormalizeContent trims surrounding whitespace and caps the result at MaxContentLength runes.
// An empty result means the message must be dropped.
func NormalizeContent(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= MaxContentLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:MaxContentLength])
}
