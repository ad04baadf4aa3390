// Package team implements the executive team entity: a leader model that
// delegates to specialist member agents and synthesizes their input into
// one reply.
package team

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/agent"
	"github.com/tinyland-inc/boardroom/pkg/dispatch"
	"github.com/tinyland-inc/boardroom/pkg/providers"
)

// Member is one specialist on the team, addressed by role.
type Member struct {
	Role      string // "cfo" | "coo" | "cto"
	Expertise string // one-line domain description shown to the leader
	Agent     *agent.Agent
}

type Team struct {
	name        string
	leader      providers.Provider
	leaderModel string
	members     []Member
	log         zerolog.Logger
}

func New(name string, leader providers.Provider, leaderModel string, members []Member, log zerolog.Logger) *Team {
	if leaderModel == "" {
		leaderModel = leader.GetDefaultModel()
	}
	return &Team{
		name:        name,
		leader:      leader,
		leaderModel: leaderModel,
		members:     members,
		log:         log.With().Str("component", "team").Str("team", name).Logger(),
	}
}

func (t *Team) Name() string {
	return t.name
}

// Run implements dispatch.Entity. The leader picks which members to
// consult, the members run against the same session, and the leader
// synthesizes their answers.
func (t *Team) Run(ctx context.Context, message, sessionID string) (*dispatch.RunResponse, error) {
	roles, err := t.selectMembers(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("team %s: selecting members: %w", t.name, err)
	}

	contributions := t.consultMembers(ctx, roles, message, sessionID)

	reply, err := t.synthesize(ctx, message, contributions)
	if err != nil {
		return nil, fmt.Errorf("team %s: %w", t.name, err)
	}
	return &dispatch.RunResponse{Content: reply}, nil
}

type memberSelection struct {
	Members []string `json:"members"`
}

func (t *Team) selectMembers(ctx context.Context, message string) ([]string, error) {
	resp, err := t.leader.Chat(ctx, []providers.Message{
		{Role: "system", Content: t.selectionPrompt()},
		{Role: "user", Content: message},
	}, nil, t.leaderModel, nil)
	if err != nil {
		return nil, err
	}

	var selection memberSelection
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), &selection); err != nil {
		// An unparseable selection is not fatal: the leader answers alone.
		t.log.Warn().Str("raw", resp.Content).Msg("Could not parse member selection, leader answers directly")
		return nil, nil
	}

	var roles []string
	for _, r := range selection.Members {
		r = strings.ToLower(strings.TrimSpace(r))
		if t.member(r) != nil {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

type contribution struct {
	Role    string
	Content string
}

func (t *Team) consultMembers(ctx context.Context, roles []string, message, sessionID string) []contribution {
	var out []contribution
	for _, role := range roles {
		m := t.member(role)
		resp, err := m.Agent.Run(ctx, message, sessionID)
		if err != nil {
			t.log.Error().Err(err).Str("member", role).Msg("Member run failed")
			out = append(out, contribution{Role: role, Content: fmt.Sprintf("(%s unavailable: %s)", strings.ToUpper(role), err)})
			continue
		}
		if resp != nil && strings.TrimSpace(resp.Content) != "" {
			out = append(out, contribution{Role: role, Content: resp.Content})
		}
	}
	return out
}

func (t *Team) synthesize(ctx context.Context, message string, contributions []contribution) (string, error) {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(message)
	if len(contributions) > 0 {
		sb.WriteString("\n\nExecutive input:\n")
		for _, c := range contributions {
			sb.WriteString("\n## ")
			sb.WriteString(strings.ToUpper(c.Role))
			sb.WriteString("\n")
			sb.WriteString(c.Content)
			sb.WriteString("\n")
		}
	}

	resp, err := t.leader.Chat(ctx, []providers.Message{
		{Role: "system", Content: synthesisPrompt},
		{Role: "user", Content: sb.String()},
	}, nil, t.leaderModel, nil)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (t *Team) member(role string) *Member {
	for i := range t.members {
		if t.members[i].Role == role {
			return &t.members[i]
		}
	}
	return nil
}

// extractJSON pulls the first {...} object out of a model reply that may
// wrap it in prose or a code fence.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
