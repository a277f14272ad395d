package entity

import "time"

// ChatSession is the full conversation document for one user. Messages are
// kept in insertion order and never reordered. Version counts successful
// saves; the store uses it to detect concurrent writers.
type ChatSession struct {
	UserId    string
	Messages  []ChatMessage
	Version   int64
	CreatedAt time.Time
}
