package internal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/agent"
	"github.com/tinyland-inc/boardroom/pkg/config"
	"github.com/tinyland-inc/boardroom/pkg/dispatch"
	"github.com/tinyland-inc/boardroom/pkg/memory"
	"github.com/tinyland-inc/boardroom/pkg/providers"
	anthropicprovider "github.com/tinyland-inc/boardroom/pkg/providers/anthropic"
	openaiprovider "github.com/tinyland-inc/boardroom/pkg/providers/openai"
	"github.com/tinyland-inc/boardroom/pkg/team"
	"github.com/tinyland-inc/boardroom/pkg/tools"
	"github.com/tinyland-inc/boardroom/pkg/workflow"
)

const assistantPrompt = `You are an executive assistant for a corporate
organization. Answer questions about finance, operations, and technology
directly and concisely, using your tools when they help.`

// CreateProvider picks the configured LLM backend. Anthropic wins when
// both keys are present.
func CreateProvider(cfg *config.Config) (providers.Provider, error) {
	if key := cfg.Providers.Anthropic.APIKey; key != "" {
		return anthropicprovider.NewProviderWithBaseURL(key, cfg.Providers.Anthropic.APIBase), nil
	}
	if key := cfg.Providers.OpenAI.APIKey; key != "" {
		return openaiprovider.NewProviderWithBaseURL(key, cfg.Providers.OpenAI.APIBase), nil
	}
	return nil, fmt.Errorf("no provider configured: set ANTHROPIC_API_KEY or OPENAI_API_KEY")
}

// CreateMemoryStore returns the configured fact store, or nil when memory
// is disabled.
func CreateMemoryStore(cfg *config.Config) memory.Store {
	if !cfg.Memory.Enabled {
		return nil
	}
	if cfg.Memory.BaseURL == "" {
		return memory.NewLocalStore()
	}
	return memory.NewHTTPStore(cfg.Memory.BaseURL, cfg.Memory.Collection)
}

// LoadToolSets connects to the configured MCP servers. An unreachable
// server is logged and skipped so the gateway still starts; the affected
// agent simply runs without those tools.
func LoadToolSets(ctx context.Context, cfg *config.Config, log zerolog.Logger) (crm, projects, gitea *tools.Set) {
	var err error
	if url := cfg.Tools.ERPNextCRMURL; url != "" {
		if crm, err = tools.NewERPNextCRMTools(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("ERPNext CRM tools unavailable")
			crm = nil
		}
	}
	if url := cfg.Tools.ERPNextProjectsURL; url != "" {
		if projects, err = tools.NewERPNextProjectsTools(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("ERPNext Projects tools unavailable")
			projects = nil
		}
	}
	if url := cfg.Tools.GiteaURL; url != "" {
		if gitea, err = tools.NewGiteaTools(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Gitea tools unavailable")
			gitea = nil
		}
	}
	return crm, projects, gitea
}

// BuildTarget assembles the downstream entity selected by entity.mode and
// wraps it in a dispatch target.
func BuildTarget(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dispatch.Target, error) {
	provider, err := CreateProvider(cfg)
	if err != nil {
		return nil, err
	}
	store := CreateMemoryStore(cfg)
	crm, projects, gitea := LoadToolSets(ctx, cfg, log)

	switch cfg.Entity.Mode {
	case "agent":
		a := agent.New(agent.Config{
			Name:         "Executive Assistant",
			Model:        cfg.Entity.DefaultModel,
			SystemPrompt: assistantPrompt,
		}, provider, tools.Merge("all", crm, projects, gitea), store, log)
		return dispatch.NewTarget(a, nil, nil)

	case "team":
		t := team.NewExecutiveTeam(team.ExecutiveConfig{
			LeaderModel:     cfg.Entity.DefaultModel,
			SpecialistModel: cfg.Entity.SpecialistModel,
			CFOTools:        crm,
			COOTools:        tools.Merge("coo", projects, gitea),
			CTOTools:        gitea,
		}, provider, provider, store, log)
		return dispatch.NewTarget(nil, t, nil)

	case "workflow":
		analyst := agent.New(agent.Config{
			Name:         "Analyst",
			Model:        cfg.Entity.SpecialistModel,
			SystemPrompt: "You analyze the request and gather the relevant facts, using tools when they help.",
		}, provider, tools.Merge("all", crm, projects, gitea), store, log)
		writer := agent.New(agent.Config{
			Name:         "Writer",
			Model:        cfg.Entity.DefaultModel,
			SystemPrompt: "You turn the analysis into a clear, direct answer for the requester.",
		}, provider, nil, store, log)
		w, err := workflow.New("analyze-write", []workflow.Step{
			{Name: "analyze", Entity: analyst},
			{Name: "write", Entity: writer},
		}, log)
		if err != nil {
			return nil, err
		}
		return dispatch.NewTarget(nil, nil, w)

	default:
		return nil, fmt.Errorf("unknown entity mode %q", cfg.Entity.Mode)
	}
}
