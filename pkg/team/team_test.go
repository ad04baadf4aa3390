package team

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/agent"
	"github.com/tinyland-inc/boardroom/pkg/providers"
)

// scriptedProvider replays responses in order across all calls.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []*providers.LLMResponse
	errs      []error
	calls     [][]providers.Message
}

func (p *scriptedProvider) Chat(_ context.Context, messages []providers.Message, _ []providers.ToolDefinition, _ string, _ map[string]any) (*providers.LLMResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, messages)
	i := len(p.calls) - 1
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return &providers.LLMResponse{Content: "default", FinishReason: "stop"}, nil
}

func (p *scriptedProvider) GetDefaultModel() string { return "leader-model" }

func text(content string) *providers.LLMResponse {
	return &providers.LLMResponse{Content: content, FinishReason: "stop"}
}

func newMember(role, expertise, reply string) (Member, *scriptedProvider) {
	p := &scriptedProvider{responses: []*providers.LLMResponse{text(reply)}}
	a := agent.New(agent.Config{Name: strings.ToUpper(role)}, p, nil, nil, zerolog.Nop())
	return Member{Role: role, Expertise: expertise, Agent: a}, p
}

func TestRun_SelectsConsultsAndSynthesizes(t *testing.T) {
	cfo, cfoProvider := newMember("cfo", "finance", "Burn rate is $200k/month.")
	cto, ctoProvider := newMember("cto", "technology", "Infra costs can drop 20%.")

	leader := &scriptedProvider{responses: []*providers.LLMResponse{
		text(`{"members": ["cfo", "cto"]}`),
		text("Combined answer: cut infra, extend runway."),
	}}

	tm := New("Executive Team", leader, "", []Member{cfo, cto}, zerolog.Nop())
	resp, err := tm.Run(t.Context(), "how do we extend runway?", "s1")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if resp.Content != "Combined answer: cut infra, extend runway." {
		t.Errorf("Content = %q", resp.Content)
	}
	if len(cfoProvider.calls) != 1 {
		t.Errorf("cfo consulted %d times, want 1", len(cfoProvider.calls))
	}
	if len(ctoProvider.calls) != 1 {
		t.Errorf("cto consulted %d times, want 1", len(ctoProvider.calls))
	}

	// Synthesis input carries each member's contribution under its role.
	synth := leader.calls[1]
	user := synth[len(synth)-1].Content
	if !strings.Contains(user, "## CFO") || !strings.Contains(user, "Burn rate is $200k/month.") {
		t.Errorf("synthesis input missing CFO contribution: %q", user)
	}
	if !strings.Contains(user, "## CTO") {
		t.Errorf("synthesis input missing CTO contribution: %q", user)
	}
}

func TestRun_UnparseableSelectionLeaderAnswersAlone(t *testing.T) {
	cfo, cfoProvider := newMember("cfo", "finance", "unused")

	leader := &scriptedProvider{responses: []*providers.LLMResponse{
		text("I think the CFO should weigh in on this one."), // no JSON
		text("Leader's own answer."),
	}}

	tm := New("Executive Team", leader, "", []Member{cfo}, zerolog.Nop())
	resp, err := tm.Run(t.Context(), "question", "s1")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if resp.Content != "Leader's own answer." {
		t.Errorf("Content = %q", resp.Content)
	}
	if len(cfoProvider.calls) != 0 {
		t.Error("no members should be consulted when selection is unparseable")
	}
}

func TestRun_UnknownRolesFiltered(t *testing.T) {
	cfo, cfoProvider := newMember("cfo", "finance", "fine")

	leader := &scriptedProvider{responses: []*providers.LLMResponse{
		text(`{"members": ["cfo", "cmo", "intern"]}`),
		text("done"),
	}}

	tm := New("Executive Team", leader, "", []Member{cfo}, zerolog.Nop())
	if _, err := tm.Run(t.Context(), "q", "s1"); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(cfoProvider.calls) != 1 {
		t.Errorf("cfo consulted %d times, want 1", len(cfoProvider.calls))
	}
}

func TestRun_MemberFailureNotedNotFatal(t *testing.T) {
	cfoProvider := &scriptedProvider{errs: []error{errors.New("cfo model down")}}
	cfoAgent := agent.New(agent.Config{Name: "CFO"}, cfoProvider, nil, nil, zerolog.Nop())
	cfo := Member{Role: "cfo", Expertise: "finance", Agent: cfoAgent}

	leader := &scriptedProvider{responses: []*providers.LLMResponse{
		text(`{"members": ["cfo"]}`),
		text("answering without the CFO"),
	}}

	tm := New("Executive Team", leader, "", []Member{cfo}, zerolog.Nop())
	resp, err := tm.Run(t.Context(), "q", "s1")
	if err != nil {
		t.Fatalf("Run() error: %v, member failures must not be fatal", err)
	}
	if resp.Content != "answering without the CFO" {
		t.Errorf("Content = %q", resp.Content)
	}

	// The synthesis input records the unavailable member.
	user := leader.calls[1][len(leader.calls[1])-1].Content
	if !strings.Contains(user, "CFO unavailable") {
		t.Errorf("synthesis input missing unavailability note: %q", user)
	}
}

func TestRun_LeaderSelectionErrorPropagates(t *testing.T) {
	cfo, _ := newMember("cfo", "finance", "x")
	leader := &scriptedProvider{errs: []error{errors.New("leader down")}}

	tm := New("Executive Team", leader, "", []Member{cfo}, zerolog.Nop())
	if _, err := tm.Run(t.Context(), "q", "s1"); err == nil {
		t.Fatal("expected leader failure to propagate")
	}
}

func TestSelectionPrompt_ListsMembers(t *testing.T) {
	cfo, _ := newMember("cfo", "budgets and finance", "x")
	coo, _ := newMember("coo", "operations", "x")
	tm := New("Executive Team", &scriptedProvider{}, "", []Member{cfo, coo}, zerolog.Nop())

	prompt := tm.selectionPrompt()
	if !strings.Contains(prompt, "cfo") || !strings.Contains(prompt, "budgets and finance") {
		t.Errorf("selection prompt missing cfo: %q", prompt)
	}
	if !strings.Contains(prompt, "coo") {
		t.Errorf("selection prompt missing coo: %q", prompt)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"members": ["cfo"]}`, `{"members": ["cfo"]}`},
		{"Here you go:\n```json\n{\"members\": []}\n```", `{"members": []}`},
		{"no json here", "no json here"},
	}
	for _, tt := range tests {
		if got := extractJSON(tt.in); got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewExecutiveTeam(t *testing.T) {
	leader := &scriptedProvider{}
	specialist := &scriptedProvider{}
	tm := NewExecutiveTeam(ExecutiveConfig{}, leader, specialist, nil, zerolog.Nop())
	if tm.Name() != "Executive Team" {
		t.Errorf("Name() = %q", tm.Name())
	}
	for _, role := range []string{"cfo", "coo", "cto"} {
		if tm.member(role) == nil {
			t.Errorf("missing member %q", role)
		}
	}
}
