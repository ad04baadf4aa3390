// Package agent implements a single LLM agent entity: one provider, one
// system prompt, an optional tool set, and an optional memory store.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/dispatch"
	"github.com/tinyland-inc/boardroom/pkg/memory"
	"github.com/tinyland-inc/boardroom/pkg/providers"
	"github.com/tinyland-inc/boardroom/pkg/tools"
)

const (
	defaultMaxToolIterations = 8
	defaultMemoryLimit       = 5
	maxHistoryTurns          = 20
)

type Config struct {
	Name         string
	Model        string
	SystemPrompt string
	// MaxToolIterations bounds the tool-use loop. Zero means the default.
	MaxToolIterations int
}

type Agent struct {
	cfg      Config
	provider providers.Provider
	toolset  *tools.Set
	store    memory.Store // may be nil
	log      zerolog.Logger

	mu       sync.Mutex
	sessions map[string][]providers.Message
}

func New(cfg Config, provider providers.Provider, toolset *tools.Set, store memory.Store, log zerolog.Logger) *Agent {
	if cfg.Model == "" {
		cfg.Model = provider.GetDefaultModel()
	}
	if cfg.MaxToolIterations <= 0 {
		cfg.MaxToolIterations = defaultMaxToolIterations
	}
	return &Agent{
		cfg:      cfg,
		provider: provider,
		toolset:  toolset,
		store:    store,
		log:      log.With().Str("component", "agent").Str("agent", cfg.Name).Logger(),
		sessions: make(map[string][]providers.Message),
	}
}

func (a *Agent) Name() string {
	return a.cfg.Name
}

// Run implements the dispatch.Entity contract. Session history lives in
// memory keyed by sessionID, so repeated turns in the same thread share
// context for the lifetime of the process.
func (a *Agent) Run(ctx context.Context, message, sessionID string) (*dispatch.RunResponse, error) {
	messages := a.buildMessages(ctx, message, sessionID)

	var defs []providers.ToolDefinition
	if a.toolset != nil {
		defs = a.toolset.Definitions()
	}

	var resp *providers.LLMResponse
	for i := 0; i < a.cfg.MaxToolIterations; i++ {
		var err error
		resp, err = a.provider.Chat(ctx, messages, defs, a.cfg.Model, nil)
		if err != nil {
			return nil, fmt.Errorf("agent %s: %w", a.cfg.Name, err)
		}
		if len(resp.ToolCalls) == 0 {
			break
		}
		messages = append(messages, providers.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, tc := range resp.ToolCalls {
			messages = append(messages, providers.Message{
				Role:       "tool",
				ToolCallID: tc.ID,
				Content:    a.executeTool(ctx, tc),
			})
		}
	}

	a.recordTurn(ctx, sessionID, message, resp.Content)

	return &dispatch.RunResponse{Content: resp.Content}, nil
}

func (a *Agent) buildMessages(ctx context.Context, message, sessionID string) []providers.Message {
	var messages []providers.Message

	system := a.cfg.SystemPrompt
	if a.store != nil {
		if facts, err := a.store.Search(ctx, message, sessionID, defaultMemoryLimit); err != nil {
			a.log.Warn().Err(err).Msg("Memory search failed")
		} else if len(facts) > 0 {
			var sb strings.Builder
			sb.WriteString("\n\nRelevant facts from earlier conversations:\n")
			for _, f := range facts {
				sb.WriteString("- ")
				sb.WriteString(f.Text)
				sb.WriteString("\n")
			}
			system += sb.String()
		}
	}
	if system != "" {
		messages = append(messages, providers.Message{Role: "system", Content: system})
	}

	a.mu.Lock()
	messages = append(messages, a.sessions[sessionID]...)
	a.mu.Unlock()

	return append(messages, providers.Message{Role: "user", Content: message})
}

func (a *Agent) executeTool(ctx context.Context, tc providers.ToolCall) string {
	if a.toolset == nil {
		return fmt.Sprintf("error: unknown tool %s", tc.Name)
	}
	tool := a.toolset.Find(tc.Name)
	if tool == nil {
		return fmt.Sprintf("error: unknown tool %s", tc.Name)
	}
	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		a.log.Warn().Err(err).Str("tool", tc.Name).Msg("Tool execution failed")
		return fmt.Sprintf("error: %s", err.Error())
	}
	return result
}

func (a *Agent) recordTurn(ctx context.Context, sessionID, userMsg, reply string) {
	a.mu.Lock()
	history := append(a.sessions[sessionID],
		providers.Message{Role: "user", Content: userMsg},
		providers.Message{Role: "assistant", Content: reply},
	)
	if len(history) > maxHistoryTurns*2 {
		history = history[len(history)-maxHistoryTurns*2:]
	}
	a.sessions[sessionID] = history
	a.mu.Unlock()

	if a.store != nil {
		err := a.store.Add(ctx, []memory.TurnMessage{
			{Role: "user", Content: userMsg},
			{Role: "assistant", Content: reply},
		}, sessionID)
		if err != nil {
			a.log.Warn().Err(err).Msg("Memory add failed")
		}
	}
}
