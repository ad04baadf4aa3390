// Package dispatch routes canonical inbound messages to the configured
// downstream entity and converts its results into outbound responses.
package dispatch

import (
	"context"
	"errors"
)

// RunResponse is the fixed result shape every entity produces. Downstream
// response variations are normalized into it immediately after the call,
// before any routing logic inspects the result.
type RunResponse struct {
	Content string `json:"content"`
}

// Entity is the single capability the router depends on: run a message
// within a session and produce at most one textual response. A nil
// response or empty content is a legitimate "no response" outcome.
type Entity interface {
	Name() string
	Run(ctx context.Context, message, sessionID string) (*RunResponse, error)
}

// ErrExactlyOneEntity is returned when a Target is constructed with zero
// or more than one entity.
var ErrExactlyOneEntity = errors.New("exactly one of agent, team, or workflow must be provided")

// Target is the configured downstream responder. Constructed once at
// startup, immutable, shared read-only across concurrent handlers.
type Target struct {
	entity Entity
}

// NewTarget validates the exactly-one-of constraint. Violations are fatal
// at construction time and must not be defaulted.
func NewTarget(agent, team, workflow Entity) (*Target, error) {
	var chosen Entity
	count := 0
	for _, e := range []Entity{agent, team, workflow} {
		if e != nil {
			chosen = e
			count++
		}
	}
	if count != 1 {
		return nil, ErrExactlyOneEntity
	}
	return &Target{entity: chosen}, nil
}

// Entity returns the configured entity.
func (t *Target) Entity() Entity {
	return t.entity
}

// EntityName returns the configured entity's display name.
func (t *Target) EntityName() string {
	return t.entity.Name()
}
