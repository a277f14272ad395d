package entity

import "time"

// ChatMessage is one turn of a conversation. Immutable once appended.
type ChatMessage struct {
	Text      string
	IsUser    bool
	Timestamp time.Time
}
