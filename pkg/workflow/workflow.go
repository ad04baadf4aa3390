// Package workflow implements an ordered-step entity: each step's agent
// receives the original message plus the previous step's output.
package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/pkg/dispatch"
)

// Step is one stage of a workflow.
type Step struct {
	Name   string
	Entity dispatch.Entity
}

type Workflow struct {
	name  string
	steps []Step
	log   zerolog.Logger
}

func New(name string, steps []Step, log zerolog.Logger) (*Workflow, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("workflow %s: at least one step is required", name)
	}
	return &Workflow{
		name:  name,
		steps: steps,
		log:   log.With().Str("component", "workflow").Str("workflow", name).Logger(),
	}, nil
}

func (w *Workflow) Name() string {
	return w.name
}

// Run implements dispatch.Entity. The final step's output is the
// workflow's response; a step producing no output ends the chain early.
func (w *Workflow) Run(ctx context.Context, message, sessionID string) (*dispatch.RunResponse, error) {
	input := message
	var last *dispatch.RunResponse

	for _, step := range w.steps {
		resp, err := step.Entity.Run(ctx, input, sessionID)
		if err != nil {
			return nil, fmt.Errorf("workflow %s: step %s: %w", w.name, step.Name, err)
		}
		if resp == nil || strings.TrimSpace(resp.Content) == "" {
			w.log.Debug().Str("step", step.Name).Msg("Step produced no output, ending workflow")
			return last, nil
		}
		last = resp
		input = fmt.Sprintf("%s\n\n---\nOutput of previous step (%s):\n%s", message, step.Name, resp.Content)
	}

	return last, nil
}
