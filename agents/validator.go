package agents

import (
	"fmt"
	"strings"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

// Violation codes reported by Validate. They are stable identifiers, not free
// text: the reviewer prompt and the test suite match on them exactly.
const (
	ViolationPlanMissing         = "plan_missing"
	ViolationAssumptionsMin      = "assumptions_min"
	ViolationTimelineMin         = "timeline_min"
	ViolationTimelineGranularity = "timeline_granularity_required"
	ViolationWorkstreamsMin      = "workstreams_min"
	ViolationWorkstreamsUnique   = "workstreams_unique"
	ViolationRisksMin            = "risks_min"
	ViolationRisksUnique         = "risks_unique"
	ViolationMetricsMin          = "metrics_min"
)

// Minimum cardinalities enforced on generated plans.
const (
	minAssumptions    = 3
	minTimelinePhases = 4
	minGranularPhases = 7
	minWorkstreams    = 4
	minRisks          = 4
	minMetrics        = 3
)

// granularTokens marks task texts that describe day- or week-level schedules.
// Coarse 4-phase plans are inappropriate for those, so the validator demands a
// finer timeline instead of trusting the generator to self-enforce it.
var granularTokens = []string{"day", "week", "itinerary"}

// Validate runs every structural check against a plan and returns the ordered
// list of violation codes, empty when the plan is structurally valid. It is
// pure and deterministic: no I/O, no generative calls. That determinism is
// what bounds the refinement loop regardless of how the generative stages
// behave.
func Validate(plan *framework.Plan, task string) []string {
	if plan == nil {
		return []string{ViolationPlanMissing}
	}
	violations := make([]string, 0)

	if len(plan.Assumptions) < minAssumptions {
		violations = append(violations, ViolationAssumptionsMin)
	}

	if len(plan.Timeline) < minTimelinePhases {
		violations = append(violations, ViolationTimelineMin)
	} else {
		for i, phase := range plan.Timeline {
			if len(phase.Milestones) == 0 {
				violations = append(violations, fmt.Sprintf("timeline_phase_%d_milestones_missing", i+1))
			}
			if len(phase.Deliverables) == 0 {
				violations = append(violations, fmt.Sprintf("timeline_phase_%d_deliverables_missing", i+1))
			}
		}
	}

	if requiresGranularTimeline(task) && len(plan.Timeline) < minGranularPhases {
		violations = append(violations, ViolationTimelineGranularity)
	}

	if len(plan.Workstreams) < minWorkstreams {
		violations = append(violations, ViolationWorkstreamsMin)
	} else {
		seen := make(map[string]bool, len(plan.Workstreams))
		duplicate := false
		for i, ws := range plan.Workstreams {
			if len(ws.Tasks) == 0 {
				violations = append(violations, fmt.Sprintf("workstream_%d_tasks_missing", i+1))
			}
			if strings.TrimSpace(ws.Owner) == "" {
				violations = append(violations, fmt.Sprintf("workstream_%d_owner_missing", i+1))
			}
			if len(ws.Dependencies) == 0 {
				violations = append(violations, fmt.Sprintf("workstream_%d_dependencies_missing", i+1))
			}
			name := strings.ToLower(strings.TrimSpace(ws.Name))
			if name != "" {
				if seen[name] {
					duplicate = true
				}
				seen[name] = true
			}
		}
		if duplicate {
			violations = append(violations, ViolationWorkstreamsUnique)
		}
	}

	if len(plan.Risks) < minRisks {
		violations = append(violations, ViolationRisksMin)
	} else {
		seen := make(map[string]bool, len(plan.Risks))
		duplicate := false
		for i, r := range plan.Risks {
			name := strings.ToLower(strings.TrimSpace(r.Risk))
			if name == "" {
				violations = append(violations, fmt.Sprintf("risk_%d_name_missing", i+1))
			} else {
				if seen[name] {
					duplicate = true
				}
				seen[name] = true
			}
			if !validImpact(r.Impact) {
				violations = append(violations, fmt.Sprintf("risk_%d_impact_missing", i+1))
			}
			if strings.TrimSpace(r.Mitigation) == "" {
				violations = append(violations, fmt.Sprintf("risk_%d_mitigation_missing", i+1))
			}
		}
		if duplicate {
			violations = append(violations, ViolationRisksUnique)
		}
	}

	if len(plan.Metrics) < minMetrics {
		violations = append(violations, ViolationMetricsMin)
	}

	return violations
}

func requiresGranularTimeline(task string) bool {
	lowered := strings.ToLower(task)
	for _, token := range granularTokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}

func validImpact(impact string) bool {
	switch strings.ToLower(strings.TrimSpace(impact)) {
	case framework.ImpactLow, framework.ImpactMedium, framework.ImpactHigh:
		return true
	default:
		return false
	}
}
