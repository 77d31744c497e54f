package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

const reviewerSystemPrompt = `You are the Reviewer Agent. You receive a project plan in JSON format and a list of missing/weak elements. Your job is to refine and correct it so that it is complete, detailed, realistic, and implementable. Do not delete good content. Instead, expand, enrich, and ground it in real-world best practices. If the task involves a timeline (days/weeks/itinerary), ensure a day-by-day breakdown. Risks should be varied and realistic, with clear mitigations. Workstreams must be distinct and balanced. Always return valid JSON only.`

// Reviewer wraps the corrective generation step. It receives the current plan
// together with the exact violation codes and asks the model to repair those
// deficiencies without discarding valid content.
type Reviewer struct {
	Model   framework.LanguageModel
	Options *framework.LLMOptions
	Logger  *zap.Logger
}

// Refine asks the model for a corrected plan. When the response cannot be
// parsed the unmodified input plan is returned: a prior plan may already
// satisfy most invariants, and a failed refinement still counts against the
// attempt ceiling in the loop controller, so termination is unaffected.
// Transport failures from the provider are fatal and propagate unchanged.
func (r *Reviewer) Refine(ctx context.Context, plan *framework.Plan, task string, violations []string) (*framework.Plan, error) {
	out, err := framework.Invoke(ctx, r.Model, reviewerSystemPrompt, reviewerUserPrompt(plan, task, violations), r.Options)
	if err != nil {
		return nil, fmt.Errorf("reviewer refinement: %w", err)
	}
	fixed, ok := ParsePlan(out)
	if !ok {
		r.logger().Warn("reviewer response unparsable, keeping prior plan",
			zap.Strings("violations", violations))
		return plan, nil
	}
	return fixed, nil
}

func (r *Reviewer) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

func reviewerUserPrompt(plan *framework.Plan, task string, violations []string) string {
	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		planJSON = []byte("{}")
	}
	return fmt.Sprintf(`TASK: %s

PROBLEMS:
%s

CURRENT PLAN:
%s

CONSTRAINTS (must all be satisfied):
- >=3 assumptions
- >=4 timeline phases; if the task mentions days/weeks/itinerary, expand into daily breakdowns
- >=4 workstreams; each must have tasks[], owner, dependencies[], and be unique
- >=4 diverse risks (each with impact + mitigation)
- >=3 metrics
Return only the corrected JSON (no commentary).`, task, strings.Join(violations, ", "), planJSON)
}
