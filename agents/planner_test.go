package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

func TestPlannerGenerateParsesWrappedResponse(t *testing.T) {
	model := &scriptedModel{responses: []string{
		"Sure, here is your plan:\n" + mustMarshal(validPlan()) + "\nLet me know!",
	}}
	planner := &Planner{Model: model}

	plan, err := planner.Generate(context.Background(), "Plan a conference")
	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	assert.Len(t, plan.Timeline, 4)
}

func TestPlannerRetriesOnShapeViolation(t *testing.T) {
	model := &scriptedModel{responses: []string{
		"I cannot answer in JSON, sorry.",
		`{"objective":"x","timeline":[]}`, // missing required keys
		mustMarshal(validPlan()),
	}}
	planner := &Planner{Model: model}

	plan, err := planner.Generate(context.Background(), "Plan a conference")
	require.NoError(t, err)
	assert.Equal(t, 3, model.calls)
	assert.Len(t, plan.Workstreams, 4)
}

// TestPlannerFallsBackToSkeleton pins the fallback contract: after the
// initial attempt plus two retries all fail to parse, the minimal skeleton is
// returned and no error surfaces.
func TestPlannerFallsBackToSkeleton(t *testing.T) {
	model := &scriptedModel{responses: []string{"garbage"}}
	planner := &Planner{Model: model}

	plan, err := planner.Generate(context.Background(), "Plan a retreat")
	require.NoError(t, err)
	assert.Equal(t, 3, model.calls)
	assert.Equal(t, "Plan a retreat", plan.Objective)
	assert.Equal(t, []string{"TBD", "TBD", "TBD"}, plan.Assumptions)
	assert.Empty(t, plan.Timeline)
	assert.Empty(t, plan.Workstreams)
	assert.Empty(t, plan.Risks)
	assert.Empty(t, plan.Metrics)
}

func TestPlannerBackfillsObjective(t *testing.T) {
	plan := validPlan()
	plan.Objective = ""
	model := &scriptedModel{responses: []string{mustMarshal(plan)}}
	planner := &Planner{Model: model}

	got, err := planner.Generate(context.Background(), "Plan a conference")
	require.NoError(t, err)
	assert.Equal(t, "Plan a conference", got.Objective)
}

// TestPlannerPropagatesTransportErrors: provider failures are fatal, not
// retried, and never converted into a skeleton.
func TestPlannerPropagatesTransportErrors(t *testing.T) {
	boom := errors.New("connection refused")
	model := &scriptedModel{err: boom}
	planner := &Planner{Model: model}

	_, err := planner.Generate(context.Background(), "Plan a conference")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, model.calls)
}

func TestPlannerTransportErrorDuringRetry(t *testing.T) {
	boom := errors.New("gateway timeout")
	model := &flakyModel{first: "not json", err: boom}
	planner := &Planner{Model: model}

	_, err := planner.Generate(context.Background(), "Plan a conference")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, model.calls)
}

// flakyModel answers once, then fails with a transport error.
type flakyModel struct {
	first string
	err   error
	calls int
}

func (f *flakyModel) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return f.respond()
}

func (f *flakyModel) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return f.respond()
}

func (f *flakyModel) respond() (*framework.LLMResponse, error) {
	f.calls++
	if f.calls == 1 {
		return &framework.LLMResponse{Text: f.first}, nil
	}
	return nil, f.err
}
