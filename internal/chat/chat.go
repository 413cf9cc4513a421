// Package chat holds the conversation model and the answer provider boundary.
package chat

import (
	"context"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat message.
type Message struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	CreatedAt      time.Time
}

// Conversation groups messages under a title.
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Provider answers a user message given the prior history.
type Provider interface {
	Answer(ctx context.Context, history []Message, text string) (string, error)
}
