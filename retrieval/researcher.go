package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

const (
	maxQueries    = 5
	maxSources    = 8
	summaryChars  = 4000
	fallbackChars = 500
)

const summarizerSystemPrompt = `Summarize the source text in 4-6 factual sentences. Do NOT add info not present in the text.`

const synthesizerSystemPrompt = `You are the Web Research Agent. Using the provided sources, synthesize findings into structured JSON: resources/tools, estimates, validation checklists, and 5-7 open questions. Only include facts grounded in the sources. Return VALID JSON ONLY and include citations by listing numeric source IDs.`

// Searcher is the outbound search capability the researcher depends on.
// *Client satisfies it; tests script their own hits.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchHit, error)
	FetchText(ctx context.Context, url string) string
}

// Researcher grounds the finalized plan in web sources: it derives queries
// from the task and workstreams, collects and reranks usable sources, and
// asks the model to synthesize structured findings with citations.
type Researcher struct {
	Search  Searcher
	Model   framework.LanguageModel
	Options *framework.LLMOptions
	Logger  *zap.Logger

	// TopK is the number of reranked sources kept per query.
	TopK int
}

// Research runs the full stage. Search transport failures are fatal and
// propagate; per-source extraction and summarization failures degrade to
// snippets instead.
func (r *Researcher) Research(ctx context.Context, task string, plan *framework.Plan) (*framework.Research, []framework.Source, error) {
	topK := r.TopK
	if topK <= 0 {
		topK = 3
	}
	queries := BuildQueries(task, plan)
	var sources []framework.Source
	for _, query := range queries {
		hits, err := r.Search.Search(ctx, query, topK*2)
		if err != nil {
			return nil, nil, fmt.Errorf("search %q: %w", query, err)
		}
		enriched := make([]framework.Source, 0, len(hits))
		for _, hit := range hits {
			enriched = append(enriched, framework.Source{
				Title:   hit.Title,
				URL:     hit.URL,
				Snippet: hit.Content,
				Text:    r.Search.FetchText(ctx, hit.URL),
				Score:   hit.Score,
			})
		}
		sources = append(sources, rerank(enriched, topK)...)
	}

	usable := make([]framework.Source, 0, len(sources))
	for _, s := range sources {
		if s.Text == "" {
			continue
		}
		usable = append(usable, s)
		if len(usable) == maxSources {
			break
		}
	}
	r.logger().Debug("research sources collected",
		zap.Int("queries", len(queries)), zap.Int("usable", len(usable)))

	summaries := make([]string, 0, len(usable))
	for i, s := range usable {
		summaries = append(summaries, fmt.Sprintf("[%d] TITLE: %s\nURL: %s\nSUMMARY:\n%s\n",
			i+1, s.Title, s.URL, r.summarize(ctx, s)))
	}

	research, err := r.synthesize(ctx, task, plan, strings.Join(summaries, "\n\n"))
	if err != nil {
		return nil, nil, err
	}
	return research, usable, nil
}

// BuildQueries derives up to five deduplicated search queries from the task
// and the first two workstream names.
func BuildQueries(task string, plan *framework.Plan) []string {
	queries := []string{
		task + " best practices",
		task + " logistics checklist",
		task + " risk management",
	}
	if plan != nil {
		for i, ws := range plan.Workstreams {
			if i == 2 {
				break
			}
			if name := strings.TrimSpace(ws.Name); name != "" {
				queries = append(queries, fmt.Sprintf("%s %s tools and templates", task, strings.ToLower(name)))
			}
		}
	}
	seen := make(map[string]bool, len(queries))
	uniq := make([]string, 0, len(queries))
	for _, q := range queries {
		if seen[q] {
			continue
		}
		seen[q] = true
		uniq = append(uniq, q)
		if len(uniq) == maxQueries {
			break
		}
	}
	return uniq
}

// rerank orders sources by search score then extracted text length and keeps
// the top k.
func rerank(sources []framework.Source, k int) []framework.Source {
	sorted := make([]framework.Source, len(sources))
	copy(sorted, sources)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return len(sorted[i].Text) > len(sorted[j].Text)
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// summarize condenses one source via the model, degrading to the snippet (or
// a text prefix) when the call fails.
func (r *Researcher) summarize(ctx context.Context, source framework.Source) string {
	text := source.Text
	if len(text) > summaryChars {
		text = text[:summaryChars]
	}
	user := fmt.Sprintf("TITLE: %s\nURL: %s\nTEXT:\n%s", source.Title, source.URL, text)
	summary, err := framework.Invoke(ctx, r.Model, summarizerSystemPrompt, user, r.Options)
	if err != nil || summary == "" {
		r.logger().Debug("source summary failed, using snippet", zap.String("url", source.URL))
		fallback := source.Snippet
		if fallback == "" {
			fallback = source.Text
		}
		if len(fallback) > fallbackChars {
			fallback = fallback[:fallbackChars]
		}
		return fallback
	}
	return summary
}

func (r *Researcher) synthesize(ctx context.Context, task string, plan *framework.Plan, contextBlock string) (*framework.Research, error) {
	planJSON, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		planJSON = []byte("{}")
	}
	user := fmt.Sprintf(`TASK: %s

PLAN (JSON):
%s

SOURCES:
%s

Return JSON exactly with this shape:
{
  "resources": [{"workstream": "string", "tools": ["..."], "templates": ["..."], "citations": [1,2]}],
  "estimates": [{"workstream": "string", "effort": "S|M|L", "notes": "string", "citations": [3]}],
  "validation_checklists": [{"workstream": "string", "checklist": ["..."], "citations": [1,4]}],
  "open_questions": ["...", "..."],
  "used_sources": [1,2,3]
}
Only JSON. No extra commentary.`, task, planJSON, contextBlock)

	out, err := framework.Invoke(ctx, r.Model, synthesizerSystemPrompt, user, r.Options)
	if err != nil {
		return nil, fmt.Errorf("research synthesis: %w", err)
	}
	research := decodeResearch(out)
	return research, nil
}

// decodeResearch tolerantly parses the synthesis response, returning an empty
// document when the model reply is not usable JSON.
func decodeResearch(raw string) *framework.Research {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return &framework.Research{}
	}
	var research framework.Research
	if err := json.Unmarshal([]byte(raw[start:end+1]), &research); err != nil {
		return &framework.Research{}
	}
	return &research
}

func (r *Researcher) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}
