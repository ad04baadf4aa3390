package memory

import (
	"context"
	"strings"
	"sync"
)

// LocalStore is an in-process Store used when no memory service is
// configured, and by tests. Search is naive substring matching over
// recorded turns.
type LocalStore struct {
	mu    sync.RWMutex
	facts map[string][]Fact // scopeID -> facts
}

func NewLocalStore() *LocalStore {
	return &LocalStore{facts: make(map[string][]Fact)}
}

func (s *LocalStore) Search(ctx context.Context, query, scopeID string, limit int) ([]Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))
	var out []Fact
	for _, f := range s.facts[scopeID] {
		lower := strings.ToLower(f.Text)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				out = append(out, f)
				break
			}
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *LocalStore) Add(ctx context.Context, messages []TurnMessage, scopeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		s.facts[scopeID] = append(s.facts[scopeID], Fact{Text: m.Content, UserID: scopeID})
	}
	return nil
}
