package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

// plannerRetries is the number of extra generation attempts with a tightened
// prompt before the planner gives up and returns the skeleton plan.
const plannerRetries = 2

const plannerSystemPrompt = `You are the Planner Agent. Produce comprehensive, realistic project plans.
Constraints:
- 4-6 timeline phases or weekly buckets, each with 2-4 milestones and deliverables.
- 4-6 workstreams: e.g., Discovery/Research, Execution/Build, QA/Validation, Logistics/Operations, Comms/Marketing, Governance/Risk.
- Each workstream: multiple tasks, an owner role, and explicit dependencies.
- >=3 assumptions; >=4 risks (with impact + mitigation); >=3 success metrics.
Output VALID JSON ONLY.`

const plannerReminder = `

REMINDER: You MUST include >=4 timeline entries, >=4 risks, >=3 metrics, and >=4 workstreams with tasks/owner/dependencies. Output VALID JSON ONLY.`

// Planner wraps the generative planning step with a shape contract: whatever
// the model returns, the caller always receives a well-typed plan. All "is
// this good enough" judgment lives in Validate, not here.
type Planner struct {
	Model   framework.LanguageModel
	Options *framework.LLMOptions
	Logger  *zap.Logger
}

// Generate asks the model for a plan document and enforces the shape
// contract. Unparsable or incomplete responses are retried a fixed number of
// times with a strengthened instruction; when every attempt fails the minimal
// skeleton plan is returned instead of an error. Transport failures from the
// provider are fatal and propagate unchanged.
func (p *Planner) Generate(ctx context.Context, task string) (*framework.Plan, error) {
	user := plannerUserPrompt(task)
	out, err := framework.Invoke(ctx, p.Model, plannerSystemPrompt, user, p.Options)
	if err != nil {
		return nil, fmt.Errorf("planner generation: %w", err)
	}
	if plan, ok := ParsePlanStrict(out); ok {
		return withObjective(plan, task), nil
	}

	tightened := user + plannerReminder
	for attempt := 1; attempt <= plannerRetries; attempt++ {
		p.logger().Debug("planner response failed shape contract, retrying",
			zap.Int("attempt", attempt))
		out, err = framework.Invoke(ctx, p.Model, plannerSystemPrompt, tightened, p.Options)
		if err != nil {
			return nil, fmt.Errorf("planner generation: %w", err)
		}
		if plan, ok := ParsePlanStrict(out); ok {
			return withObjective(plan, task), nil
		}
	}

	p.logger().Warn("planner exhausted shape retries, falling back to skeleton plan")
	return framework.SkeletonPlan(task), nil
}

func (p *Planner) logger() *zap.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return zap.NewNop()
}

// withObjective backfills the objective from the task when the model omitted
// it; everything else in the document is left untouched.
func withObjective(plan *framework.Plan, task string) *framework.Plan {
	if plan.Objective == "" {
		plan.Objective = task
	}
	return plan
}

func plannerUserPrompt(task string) string {
	return fmt.Sprintf(`TASK: %s

Return JSON exactly in this shape:

{
  "objective": "string",
  "assumptions": ["string", "string", "..."],
  "timeline": [
    {
      "phase": "string",
      "milestones": ["string", "string"],
      "deliverables": ["string", "string"]
    }
  ],
  "workstreams": [
    {
      "name": "string",
      "tasks": ["string", "string"],
      "owner": "Role",
      "dependencies": ["string", "string"]
    }
  ],
  "risks": [
    {
      "risk": "string",
      "impact": "low|medium|high",
      "mitigation": "string"
    }
  ],
  "metrics": ["string", "string", "string"]
}`, task)
}
