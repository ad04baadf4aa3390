// Package tools surfaces remote business-system actions (CRM, project
// tracking, repository management) to agents as callable tool sets. The
// actual actions run on remote MCP tool servers; this package only proxies.
package tools

import (
	"context"

	"github.com/tinyland-inc/boardroom/pkg/providers"
)

// Tool pairs a provider-facing definition with its executor.
type Tool struct {
	Definition providers.ToolDefinition
	Execute    func(ctx context.Context, args map[string]any) (string, error)
}

// Set is a named group of tools handed to one agent.
type Set struct {
	Name  string
	Tools []Tool
}

// Definitions returns the provider-shaped definitions for every tool.
func (s *Set) Definitions() []providers.ToolDefinition {
	defs := make([]providers.ToolDefinition, 0, len(s.Tools))
	for _, t := range s.Tools {
		defs = append(defs, t.Definition)
	}
	return defs
}

// Find returns the tool with the given name, or nil.
func (s *Set) Find(name string) *Tool {
	for i := range s.Tools {
		if s.Tools[i].Definition.Function.Name == name {
			return &s.Tools[i]
		}
	}
	return nil
}

// Merge flattens several sets into one lookup-friendly set.
func Merge(name string, sets ...*Set) *Set {
	merged := &Set{Name: name}
	for _, s := range sets {
		if s == nil {
			continue
		}
		merged.Tools = append(merged.Tools, s.Tools...)
	}
	return merged
}
