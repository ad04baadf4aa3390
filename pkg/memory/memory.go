// Package memory provides the conversational fact store boundary. Agents
// treat it as opaque: search before a turn, record after. Fact extraction
// happens on the remote service, not here.
package memory

import "context"

// Fact is one stored memory returned by a search.
type Fact struct {
	ID     string  `json:"id,omitempty"`
	Text   string  `json:"memory"`
	Score  float64 `json:"score,omitempty"`
	UserID string  `json:"user_id,omitempty"`
}

// TurnMessage is one side of a conversation turn being recorded.
type TurnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store is a user-scoped fact store.
type Store interface {
	// Search returns up to limit facts relevant to query for the given scope.
	Search(ctx context.Context, query, scopeID string, limit int) ([]Fact, error)
	// Add records a conversation turn for later fact extraction.
	Add(ctx context.Context, messages []TurnMessage, scopeID string) error
}
