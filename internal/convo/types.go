package convo

import (
	"context"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one user or assistant utterance within a conversation. Turns are
// immutable once created; the timestamp each turn carries is authoritative
// for ordering, independent of when its durable write completes.
type Turn struct {
	ID             string         `json:"id"`
	ConversationID string         `json:"conversation_id"`
	Role           Role           `json:"role"`
	Content        string         `json:"content"`
	Timestamp      time.Time      `json:"timestamp"`
	Metadata       map[string]any `json:"metadata"`
}

// Store persists and queries conversation turns.
type Store interface {
	SaveTurn(ctx context.Context, turn Turn) error
	ListTurns(ctx context.Context, conversationID string, page, limit int) ([]Turn, error)
	Close() error
}
