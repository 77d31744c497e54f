package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

func TestValidateAcceptsCompletePlan(t *testing.T) {
	assert.Empty(t, Validate(validPlan(), "Plan a conference"))
}

// TestValidateIsIdempotent checks that validating the same valid plan twice
// yields the empty list both times.
func TestValidateIsIdempotent(t *testing.T) {
	plan := validPlan()
	assert.Empty(t, Validate(plan, "Plan a conference"))
	assert.Empty(t, Validate(plan, "Plan a conference"))
}

func TestValidateMissingPlan(t *testing.T) {
	assert.Equal(t, []string{ViolationPlanMissing}, Validate(nil, "anything"))
}

func TestValidateMinimumCardinalities(t *testing.T) {
	plan := framework.SkeletonPlan("task")
	violations := Validate(plan, "task")
	assert.Contains(t, violations, ViolationTimelineMin)
	assert.Contains(t, violations, ViolationWorkstreamsMin)
	assert.Contains(t, violations, ViolationRisksMin)
	assert.Contains(t, violations, ViolationMetricsMin)
	// the skeleton carries three placeholder assumptions, so that rule passes
	assert.NotContains(t, violations, ViolationAssumptionsMin)
}

func TestValidateAssumptionsMin(t *testing.T) {
	plan := validPlan()
	plan.Assumptions = plan.Assumptions[:2]
	assert.Equal(t, []string{ViolationAssumptionsMin}, Validate(plan, "Plan a conference"))
}

func TestValidatePhaseFields(t *testing.T) {
	plan := validPlan()
	plan.Timeline[1].Milestones = nil
	plan.Timeline[3].Deliverables = []string{}
	violations := Validate(plan, "Plan a conference")
	assert.Equal(t, []string{
		"timeline_phase_2_milestones_missing",
		"timeline_phase_4_deliverables_missing",
	}, violations)
}

// TestValidateGranularSchedule covers the day/week/itinerary rule: 5 phases
// are rejected, 7 are accepted.
func TestValidateGranularSchedule(t *testing.T) {
	task := "Plan a 7-day onboarding itinerary"

	short := planWithPhases(5)
	violations := Validate(short, task)
	assert.Equal(t, []string{ViolationTimelineGranularity}, violations)

	long := planWithPhases(7)
	assert.Empty(t, Validate(long, task))
}

func TestValidateGranularTokensCaseInsensitive(t *testing.T) {
	plan := planWithPhases(4)
	assert.Contains(t, Validate(plan, "Draft a WEEK-long syllabus"), ViolationTimelineGranularity)
	assert.NotContains(t, Validate(plan, "Plan a conference"), ViolationTimelineGranularity)
}

func TestValidateWorkstreamFields(t *testing.T) {
	plan := validPlan()
	plan.Workstreams[0].Tasks = nil
	plan.Workstreams[1].Owner = "  "
	plan.Workstreams[2].Dependencies = nil
	violations := Validate(plan, "Plan a conference")
	assert.Equal(t, []string{
		"workstream_1_tasks_missing",
		"workstream_2_owner_missing",
		"workstream_3_dependencies_missing",
	}, violations)
}

// TestValidateWorkstreamUniqueness ensures duplicate names under
// case-insensitive comparison produce exactly one violation.
func TestValidateWorkstreamUniqueness(t *testing.T) {
	plan := validPlan()
	plan.Workstreams[0].Name = "Research"
	plan.Workstreams[1].Name = "research"
	plan.Workstreams[2].Name = "RESEARCH"
	violations := Validate(plan, "Plan a conference")
	assert.Equal(t, []string{ViolationWorkstreamsUnique}, violations)
}

func TestValidateRiskFields(t *testing.T) {
	plan := validPlan()
	plan.Risks[0].Risk = ""
	plan.Risks[1].Impact = "catastrophic"
	plan.Risks[2].Mitigation = ""
	violations := Validate(plan, "Plan a conference")
	assert.Equal(t, []string{
		"risk_1_name_missing",
		"risk_2_impact_missing",
		"risk_3_mitigation_missing",
	}, violations)
}

func TestValidateRiskUniqueness(t *testing.T) {
	plan := validPlan()
	plan.Risks[2].Risk = "Scope Creep"
	plan.Risks[3].Risk = "scope creep"
	violations := Validate(plan, "Plan a conference")
	assert.Equal(t, []string{ViolationRisksUnique}, violations)
}

// TestValidateReportsAllRules confirms checks are not short-circuited: a plan
// violating several rules reports each of them in one pass.
func TestValidateReportsAllRules(t *testing.T) {
	plan := validPlan()
	plan.Assumptions = nil
	plan.Metrics = nil
	plan.Risks = plan.Risks[:2]
	violations := Validate(plan, "Plan a conference")
	assert.Equal(t, []string{
		ViolationAssumptionsMin,
		ViolationRisksMin,
		ViolationMetricsMin,
	}, violations)
}
