package framework

// Plan is the structured project-plan document produced by the planner and
// repaired by the reviewer. Field names are the wire shape: they appear
// verbatim in generation prompts, in model responses, and in CLI output, so
// they must stay stable.
type Plan struct {
	Objective   string       `json:"objective"`
	Assumptions []string     `json:"assumptions"`
	Timeline    []Phase      `json:"timeline"`
	Workstreams []Workstream `json:"workstreams"`
	Risks       []Risk       `json:"risks"`
	Metrics     []string     `json:"metrics"`
}

// Phase is one timeline entry: a phase or day/week bucket with its milestones
// and deliverables.
type Phase struct {
	Phase        string   `json:"phase"`
	Milestones   []string `json:"milestones"`
	Deliverables []string `json:"deliverables"`
}

// Workstream groups related tasks under an owning role.
type Workstream struct {
	Name         string   `json:"name"`
	Tasks        []string `json:"tasks"`
	Owner        string   `json:"owner"`
	Dependencies []string `json:"dependencies"`
}

// Risk names a threat together with its impact level and mitigation.
type Risk struct {
	Risk       string `json:"risk"`
	Impact     string `json:"impact"`
	Mitigation string `json:"mitigation"`
}

// Risk impact levels accepted by the validator.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// SkeletonPlan builds the minimal well-typed fallback plan used when the
// planner cannot obtain a parsable document. It intentionally fails most
// structural checks so the refinement loop still gets a chance to repair it.
func SkeletonPlan(task string) *Plan {
	return &Plan{
		Objective:   task,
		Assumptions: []string{"TBD", "TBD", "TBD"},
		Timeline:    []Phase{},
		Workstreams: []Workstream{},
		Risks:       []Risk{},
		Metrics:     []string{},
	}
}

// Research is the structured output of the web research stage.
type Research struct {
	Resources            []ResourceEntry  `json:"resources"`
	Estimates            []EstimateEntry  `json:"estimates"`
	ValidationChecklists []ChecklistEntry `json:"validation_checklists"`
	OpenQuestions        []string         `json:"open_questions"`
	UsedSources          []int            `json:"used_sources"`
}

// ResourceEntry lists tools and templates recommended for one workstream.
type ResourceEntry struct {
	Workstream string   `json:"workstream"`
	Tools      []string `json:"tools"`
	Templates  []string `json:"templates"`
	Citations  []int    `json:"citations"`
}

// EstimateEntry sizes the effort for one workstream.
type EstimateEntry struct {
	Workstream string `json:"workstream"`
	Effort     string `json:"effort"`
	Notes      string `json:"notes"`
	Citations  []int  `json:"citations"`
}

// ChecklistEntry holds a validation checklist for one workstream.
type ChecklistEntry struct {
	Workstream string   `json:"workstream"`
	Checklist  []string `json:"checklist"`
	Citations  []int    `json:"citations"`
}

// Source is one usable web source: a search hit whose page text was
// successfully extracted.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Text    string `json:"text"`
	Score   float64 `json:"score,omitempty"`
}
