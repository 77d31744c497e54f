package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

const reporterSystemPrompt = `You are the Reporter Agent. Merge the plan and research into a polished, executive-ready Markdown report. Include sections: Overview, Assumptions, Timeline (table), Workstreams, Risks & Mitigations, Resources & Tools, Estimates, Validation Checklists, Open Questions, Next Steps, and a Sources section with citations. Do not invent facts; when unsure, keep it generic.`

// Reporter turns the finalized plan plus research findings into a Markdown
// report with numbered citations.
type Reporter struct {
	Model   framework.LanguageModel
	Options *framework.LLMOptions
}

// Build generates the report. The response is lightly normalized: when the
// model forgets the leading heading one is prepended so downstream renderers
// always see a titled document.
func (r *Reporter) Build(ctx context.Context, state *framework.State) (string, error) {
	md, err := framework.Invoke(ctx, r.Model, reporterSystemPrompt, reporterUserPrompt(state), r.Options)
	if err != nil {
		return "", fmt.Errorf("reporter generation: %w", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(md), "#") {
		md = "# Project Plan\n\n" + md
	}
	return md, nil
}

// CitationsBlock renders the numbered source list appended to reports and CLI
// output.
func CitationsBlock(sources []framework.Source) string {
	if len(sources) == 0 {
		return ""
	}
	lines := make([]string, 0, len(sources)+1)
	lines = append(lines, "**Sources**")
	for i, s := range sources {
		lines = append(lines, fmt.Sprintf("[%d] %s - %s", i+1, s.Title, s.URL))
	}
	return strings.Join(lines, "\n")
}

func reporterUserPrompt(state *framework.State) string {
	planJSON, err := json.MarshalIndent(state.Plan, "", "  ")
	if err != nil {
		planJSON = []byte("{}")
	}
	research := state.Research
	if research == nil {
		research = &framework.Research{}
	}
	researchJSON, err := json.MarshalIndent(research, "", "  ")
	if err != nil {
		researchJSON = []byte("{}")
	}
	return fmt.Sprintf(`PLAN:
%s

RESEARCH:
%s

SOURCES (append at end as a list with [n] labels):
%s`, planJSON, researchJSON, CitationsBlock(state.Sources))
}
