package agents

import (
	"encoding/json"
	"strings"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

// ExtractJSONSnippet returns the substring between the first "{" and the last
// "}" of a model response, tolerating conversational text wrapped around the
// document. When delimiters are missing it returns an empty string so callers
// uniformly branch on presence rather than on errors.
func ExtractJSONSnippet(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}

// Top-level keys every generated plan document must carry. The objective key
// is deliberately absent: the planner backfills it from the task when the
// model leaves it out.
var requiredPlanKeys = []string{"timeline", "workstreams", "risks", "metrics", "assumptions"}

// ParsePlanStrict decodes a model response into a Plan, requiring every
// mandatory top-level key to be present. Returns false when the response is
// unparsable or incomplete; the planner then retries with a tightened prompt.
func ParsePlanStrict(raw string) (*framework.Plan, bool) {
	snippet := ExtractJSONSnippet(raw)
	if snippet == "" {
		return nil, false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(snippet), &keys); err != nil {
		return nil, false
	}
	for _, key := range requiredPlanKeys {
		if _, ok := keys[key]; !ok {
			return nil, false
		}
	}
	var plan framework.Plan
	if err := json.Unmarshal([]byte(snippet), &plan); err != nil {
		return nil, false
	}
	return &plan, true
}

// ParsePlan decodes a model response into a Plan without enforcing the key
// contract. The reviewer uses this loose variant: a partially filled document
// is still preferable to discarding a correction outright, and the validator
// decides what is missing.
func ParsePlan(raw string) (*framework.Plan, bool) {
	snippet := ExtractJSONSnippet(raw)
	if snippet == "" {
		return nil, false
	}
	var plan framework.Plan
	if err := json.Unmarshal([]byte(snippet), &plan); err != nil {
		return nil, false
	}
	return &plan, true
}
