package team

import (
	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/agent"
	"github.com/tinyland-inc/boardroom/pkg/memory"
	"github.com/tinyland-inc/boardroom/pkg/providers"
	"github.com/tinyland-inc/boardroom/pkg/tools"
)

const (
	cfoPrompt = `You are the CFO of a corporate organization. You handle financial
analysis, budgeting, ROI calculations, quotations, and invoicing. Ground your
answers in CRM data when tools are available, state assumptions explicitly,
and quantify impact wherever possible.`

	cooPrompt = `You are the COO of a corporate organization. You handle operations,
project management, resource allocation, and delivery timelines. Use project
and repository tools when available, surface blockers early, and always name
an owner for each action item.`

	ctoPrompt = `You are the CTO of a corporate organization. You handle technology
strategy, architecture decisions, code review, and development oversight. Use
repository tools when available, weigh maintainability against speed, and be
explicit about technical risk.`
)

// ExecutiveConfig collects what the executive team factory needs. Tool
// sets may be nil when their remote server was unavailable at startup;
// the affected member then runs without tools.
type ExecutiveConfig struct {
	LeaderModel     string
	SpecialistModel string
	CFOTools        *tools.Set
	COOTools        *tools.Set
	CTOTools        *tools.Set
}

// NewExecutiveTeam builds the CEO-led team with CFO, COO, and CTO members.
func NewExecutiveTeam(cfg ExecutiveConfig, leader, specialist providers.Provider, store memory.Store, log zerolog.Logger) *Team {
	members := []Member{
		{
			Role:      "cfo",
			Expertise: "budgets, revenue, investments, financial reporting, quotations, invoicing",
			Agent: agent.New(agent.Config{
				Name:         "CFO",
				Model:        cfg.SpecialistModel,
				SystemPrompt: cfoPrompt,
			}, specialist, cfg.CFOTools, store, log),
		},
		{
			Role:      "coo",
			Expertise: "project status, timelines, resource allocation, process, team capacity",
			Agent: agent.New(agent.Config{
				Name:         "COO",
				Model:        cfg.SpecialistModel,
				SystemPrompt: cooPrompt,
			}, specialist, cfg.COOTools, store, log),
		},
		{
			Role:      "cto",
			Expertise: "architecture, code review, technology evaluation, estimates, security",
			Agent: agent.New(agent.Config{
				Name:         "CTO",
				Model:        cfg.SpecialistModel,
				SystemPrompt: ctoPrompt,
			}, specialist, cfg.CTOTools, store, log),
		},
	}

	return New("Executive Team", leader, cfg.LeaderModel, members, log)
}
