package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/herald019/multi-agent-orchestrator-agentic-AI/framework"
)

// ResearchProvider is the capability contract for the optional web research
// stage. The retrieval package provides the real implementation; tests swap
// in scripted doubles.
type ResearchProvider interface {
	Research(ctx context.Context, task string, plan *framework.Plan) (*framework.Research, []framework.Source, error)
}

// Orchestrator drives the full pipeline: plan generation, the validator-gated
// refinement loop, optional web research, and report assembly. It exclusively
// owns the State record for the duration of a run; the wrapped stages receive
// read access and hand back new values. A single Orchestrator may serve
// concurrent Run calls for independent tasks since every run builds its own
// graph and state.
type Orchestrator struct {
	Planner  *Planner
	Reviewer *Reviewer
	Reporter *Reporter
	Research ResearchProvider

	// MaxAttempts caps refinement passes; zero means the default of 3.
	// Fixed for the lifetime of a run, this bounds the loop at
	// 1 + 2*MaxAttempts generative calls.
	MaxAttempts int

	Logger    *zap.Logger
	Telemetry framework.Telemetry
}

// Run executes the pipeline for one task and returns the final state. The
// loop always exits forward: ceiling exhaustion is a logged, successful
// outcome with Validated=false, never an error. Only collaborator transport
// failures (or context cancellation) abort a run.
func (o *Orchestrator) Run(ctx context.Context, task string) (*framework.State, error) {
	state := framework.NewState(task, o.MaxAttempts)
	graph, err := o.BuildGraph()
	if err != nil {
		return nil, err
	}
	if o.Telemetry != nil {
		graph.SetTelemetry(o.Telemetry)
	}
	if _, err := graph.Execute(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// BuildGraph wires the pipeline state machine:
//
//	plan -> validate -> (refine -> validate)* -> research -> report -> done
//
// The refine edge is taken while violations remain and the attempt ceiling is
// not reached; the refiner's output always loops back through the validator,
// never through the raw planner. Exposing the graph keeps the workflow
// inspectable ahead of execution.
func (o *Orchestrator) BuildGraph() (*framework.Graph, error) {
	if o.Planner == nil || o.Reviewer == nil {
		return nil, fmt.Errorf("orchestrator missing planner or reviewer")
	}
	graph := framework.NewGraph()
	plan := &plannerNode{id: "planner", orch: o}
	validate := &validatorNode{id: "validator", orch: o}
	refine := &reviewerNode{id: "reviewer", orch: o}
	research := &researchNode{id: "researcher", orch: o}
	report := &reporterNode{id: "reporter", orch: o}
	done := framework.NewTerminalNode("done")

	for _, node := range []framework.Node{plan, validate, refine, research, report, done} {
		if err := graph.AddNode(node); err != nil {
			return nil, err
		}
	}
	if err := graph.SetStart(plan.ID()); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(plan.ID(), validate.ID(), nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(validate.ID(), refine.ID(), func(res *framework.Result, _ *framework.State) bool {
		return res.Data["revise"] == true
	}); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(validate.ID(), research.ID(), func(res *framework.Result, _ *framework.State) bool {
		return res.Data["revise"] != true
	}); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(refine.ID(), validate.ID(), nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(research.ID(), report.ID(), nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge(report.ID(), done.ID(), nil); err != nil {
		return nil, err
	}
	return graph, nil
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o *Orchestrator) emit(event framework.Event) {
	if o.Telemetry == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	o.Telemetry.Emit(event)
}

type plannerNode struct {
	id   string
	orch *Orchestrator
}

func (n *plannerNode) ID() string               { return n.id }
func (n *plannerNode) Type() framework.NodeType { return framework.NodeTypeLLM }

// Execute runs the plan generator once, on the very first loop iteration.
func (n *plannerNode) Execute(ctx context.Context, state *framework.State) (*framework.Result, error) {
	state.AppendLog("Planner: creating detailed timeline, workstreams, and risks.")
	plan, err := n.orch.Planner.Generate(ctx, state.Task)
	if err != nil {
		return nil, err
	}
	state.Plan = plan
	state.AppendLog("Planner: detailed plan drafted.")
	return &framework.Result{NodeID: n.id, Success: true}, nil
}

type validatorNode struct {
	id   string
	orch *Orchestrator
}

func (n *validatorNode) ID() string               { return n.id }
func (n *validatorNode) Type() framework.NodeType { return framework.NodeTypeConditional }

// Execute runs the deterministic structural checks and decides the next
// transition: accept, refine, or ceiling exit. The attempt counter increments
// exactly once per failed validation that leads to a refinement pass and
// never changes on the way out of the loop.
func (n *validatorNode) Execute(ctx context.Context, state *framework.State) (*framework.Result, error) {
	violations := Validate(state.Plan, state.Task)
	state.Violations = violations
	state.RecordViolations(violations)
	n.orch.emit(framework.Event{
		Type:   framework.EventValidation,
		NodeID: n.id,
		RunID:  state.RunID,
		Metadata: map[string]any{
			"violations": violations,
			"attempts":   state.Attempts,
		},
	})

	revise := false
	switch {
	case len(violations) == 0:
		state.Validated = true
		state.AppendLog("Validator: plan passed structural checks.")
	case state.Attempts < state.MaxAttempts:
		state.Attempts++
		revise = true
		state.Logf("Validator: plan still has issues -> %s (attempt %d/%d).",
			strings.Join(violations, ", "), state.Attempts, state.MaxAttempts)
	default:
		state.Validated = false
		state.Logf("Validator: attempt ceiling reached (%d); forwarding best-effort plan with issues -> %s.",
			state.MaxAttempts, strings.Join(violations, ", "))
	}
	return &framework.Result{
		NodeID:  n.id,
		Success: true,
		Data:    map[string]any{"revise": revise, "violations": violations},
	}, nil
}

type reviewerNode struct {
	id   string
	orch *Orchestrator
}

func (n *reviewerNode) ID() string               { return n.id }
func (n *reviewerNode) Type() framework.NodeType { return framework.NodeTypeLLM }

// Execute invokes the corrective refiner and replaces the plan wholesale;
// control then returns to the validator, not to the raw planner.
func (n *reviewerNode) Execute(ctx context.Context, state *framework.State) (*framework.Result, error) {
	state.Logf("Reviewer: repairing %d structural issue(s).", len(state.Violations))
	fixed, err := n.orch.Reviewer.Refine(ctx, state.Plan, state.Task, state.Violations)
	if err != nil {
		return nil, err
	}
	state.Plan = fixed
	state.AppendLog("Reviewer: plan corrected.")
	return &framework.Result{NodeID: n.id, Success: true}, nil
}

type researchNode struct {
	id   string
	orch *Orchestrator
}

func (n *researchNode) ID() string               { return n.id }
func (n *researchNode) Type() framework.NodeType { return framework.NodeTypeObservation }

// Execute runs the optional web research stage. Without a provider the stage
// is skipped and downstream consumers see an empty research document.
func (n *researchNode) Execute(ctx context.Context, state *framework.State) (*framework.Result, error) {
	if n.orch.Research == nil {
		state.Research = &framework.Research{}
		state.AppendLog("Researcher: web research disabled, skipping.")
		return &framework.Result{NodeID: n.id, Success: true}, nil
	}
	state.AppendLog("Researcher: gathering web sources for the plan.")
	research, sources, err := n.orch.Research.Research(ctx, state.Task, state.Plan)
	if err != nil {
		return nil, err
	}
	state.Research = research
	state.Sources = sources
	state.Logf("Researcher: synthesized findings from %d source(s).", len(sources))
	return &framework.Result{NodeID: n.id, Success: true}, nil
}

type reporterNode struct {
	id   string
	orch *Orchestrator
}

func (n *reporterNode) ID() string               { return n.id }
func (n *reporterNode) Type() framework.NodeType { return framework.NodeTypeLLM }

// Execute assembles the final Markdown report. A missing reporter leaves the
// report empty, which keeps the core loop usable as a library without an LLM
// formatting pass.
func (n *reporterNode) Execute(ctx context.Context, state *framework.State) (*framework.Result, error) {
	if n.orch.Reporter == nil {
		return &framework.Result{NodeID: n.id, Success: true}, nil
	}
	state.AppendLog("Reporter: compiling final report with citations (Markdown).")
	md, err := n.orch.Reporter.Build(ctx, state)
	if err != nil {
		return nil, err
	}
	state.ReportMarkdown = md
	state.AppendLog("Reporter: report assembled.")
	return &framework.Result{NodeID: n.id, Success: true}, nil
}
