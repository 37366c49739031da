package entity

import "time"

// ConversationTurn is one (query, answer) exchange inside a chat session.
type ConversationTurn struct {
	Query     string
	Answer    string
	CreatedAt time.Time
}
