package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONSnippet(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"conversational wrapping", "Sure! Here is the plan:\n{\"a\":1}\nHope that helps.", `{"a":1}`},
		{"nested braces", `prefix {"a":{"b":2}} suffix`, `{"a":{"b":2}}`},
		{"no braces", "no json here", ""},
		{"only opening brace", "{ truncated", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSONSnippet(tc.raw))
		})
	}
}

func TestParsePlanStrictRequiresAllKeys(t *testing.T) {
	full := mustMarshal(validPlan())
	plan, ok := ParsePlanStrict("Here you go:\n" + full + "\nDone.")
	require.True(t, ok)
	assert.Equal(t, "ship the project", plan.Objective)
	assert.Len(t, plan.Workstreams, 4)

	// drop one required key
	partial := `{"objective":"x","assumptions":[],"timeline":[],"workstreams":[],"risks":[]}`
	_, ok = ParsePlanStrict(partial)
	assert.False(t, ok)

	_, ok = ParsePlanStrict("not json at all")
	assert.False(t, ok)

	_, ok = ParsePlanStrict(`{"timeline": "not a list", "workstreams":[], "risks":[], "metrics":[], "assumptions":[]}`)
	assert.False(t, ok)
}

func TestParsePlanLooseAcceptsPartialDocuments(t *testing.T) {
	plan, ok := ParsePlan(`{"objective":"fix things","metrics":["m1"]}`)
	require.True(t, ok)
	assert.Equal(t, "fix things", plan.Objective)
	assert.Equal(t, []string{"m1"}, plan.Metrics)

	_, ok = ParsePlan("still not json")
	assert.False(t, ok)
}
