package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

// scriptedModel returns canned responses in order, recording call counts.
// Once the script is exhausted it keeps replaying the last response so loop
// tests can model a generator that never improves.
type scriptedModel struct {
	responses []string
	err       error
	calls     int
}

func (s *scriptedModel) next() (*framework.LLMResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, errors.New("no scripted response")
	}
	idx := s.calls - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return &framework.LLMResponse{Text: s.responses[idx]}, nil
}

func (s *scriptedModel) Generate(ctx context.Context, prompt string, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return s.next()
}

func (s *scriptedModel) Chat(ctx context.Context, messages []framework.Message, options *framework.LLMOptions) (*framework.LLMResponse, error) {
	return s.next()
}

// validPlan builds a plan that satisfies every structural check for tasks
// without a granular-schedule requirement.
func validPlan() *framework.Plan {
	return planWithPhases(4)
}

// planWithPhases builds a structurally complete plan with the given number of
// timeline entries.
func planWithPhases(phases int) *framework.Plan {
	plan := &framework.Plan{
		Objective:   "ship the project",
		Assumptions: []string{"budget approved", "team staffed", "venue available"},
		Metrics:     []string{"on-time delivery", "stakeholder satisfaction", "budget adherence"},
	}
	for i := 0; i < phases; i++ {
		plan.Timeline = append(plan.Timeline, framework.Phase{
			Phase:        fmt.Sprintf("Phase %d", i+1),
			Milestones:   []string{"kickoff", "checkpoint"},
			Deliverables: []string{"status report"},
		})
	}
	names := []string{"Discovery", "Build", "QA", "Logistics"}
	for _, name := range names {
		plan.Workstreams = append(plan.Workstreams, framework.Workstream{
			Name:         name,
			Tasks:        []string{"plan", "execute"},
			Owner:        "Lead",
			Dependencies: []string{"none"},
		})
	}
	risks := []string{"scope creep", "vendor delay", "budget overrun", "staff turnover"}
	for _, r := range risks {
		plan.Risks = append(plan.Risks, framework.Risk{
			Risk:       r,
			Impact:     framework.ImpactMedium,
			Mitigation: "monitor and escalate",
		})
	}
	return plan
}

func mustMarshal(plan *framework.Plan) string {
	data, err := json.Marshal(plan)
	if err != nil {
		panic(err)
	}
	return string(data)
}
