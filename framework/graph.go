// Package framework hosts the orchestration primitives shared by every
// pipeline stage: the graph state machine, the per-run State record, and the
// language-model capability contract.
package framework

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// NodeType enumerates supported node categories.
type NodeType string

const (
	NodeTypeLLM         NodeType = "llm"
	NodeTypeSystem      NodeType = "system"
	NodeTypeConditional NodeType = "conditional"
	NodeTypeObservation NodeType = "observation"
	NodeTypeTerminal    NodeType = "terminal"
)

// Node describes the unit of work executed inside a graph.
type Node interface {
	ID() string
	Type() NodeType
	Execute(ctx context.Context, state *State) (*Result, error)
}

// Result captures the outcome of a single node execution.
type Result struct {
	NodeID  string
	Success bool
	Data    map[string]any
}

// ConditionFunc determines whether an edge should be followed.
type ConditionFunc func(result *Result, state *State) bool

// Edge describes a transition between nodes.
type Edge struct {
	From      string
	To        string
	Condition ConditionFunc
}

// Graph is a small deterministic state machine: nodes are registered ahead of
// time, edges describe transitions, and Execute walks the graph while
// enforcing a per-node visit ceiling. The visit ceiling is a safety net
// against mis-wired cycles; loops that are supposed to terminate must bound
// themselves (see the refinement attempt ceiling in the agents package).
type Graph struct {
	mu          sync.RWMutex
	nodes       map[string]Node
	edges       map[string][]Edge
	startNodeID string

	maxNodeVisits int
	telemetry     Telemetry

	execMu        sync.Mutex
	visitCounts   map[string]int
	executionPath []string
}

// NewGraph creates a graph with sane defaults.
func NewGraph() *Graph {
	return &Graph{
		nodes:         make(map[string]Node),
		edges:         make(map[string][]Edge),
		maxNodeVisits: 64,
		visitCounts:   make(map[string]int),
		executionPath: make([]string, 0),
	}
}

// SetTelemetry wires a telemetry sink for execution traces.
func (g *Graph) SetTelemetry(t Telemetry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.telemetry = t
}

// SetMaxNodeVisits overrides the defensive per-node visit ceiling.
func (g *Graph) SetMaxNodeVisits(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > 0 {
		g.maxNodeVisits = n
	}
}

func (g *Graph) emit(event Event) {
	g.mu.RLock()
	telemetry := g.telemetry
	g.mu.RUnlock()
	if telemetry == nil {
		return
	}
	telemetry.Emit(event)
}

// SetStart marks the starting node.
func (g *Graph) SetStart(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("start node %s not found", id)
	}
	g.startNodeID = id
	return nil
}

// AddNode registers a node.
func (g *Graph) AddNode(node Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[node.ID()]; exists {
		return fmt.Errorf("node %s already exists", node.ID())
	}
	g.nodes[node.ID()] = node
	return nil
}

// AddEdge wires two nodes together. A nil condition means the edge is always
// eligible.
func (g *Graph) AddEdge(from, to string, condition ConditionFunc) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("node %s not defined", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("node %s not defined", to)
	}
	g.edges[from] = append(g.edges[from], Edge{From: from, To: to, Condition: condition})
	return nil
}

// ExecutionPath returns the node IDs visited during the last Execute call.
func (g *Graph) ExecutionPath() []string {
	g.execMu.Lock()
	defer g.execMu.Unlock()
	path := make([]string, len(g.executionPath))
	copy(path, g.executionPath)
	return path
}

// Execute runs the graph from its start node until a node with no eligible
// outgoing edges (or a terminal node) is reached.
func (g *Graph) Execute(ctx context.Context, state *State) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	runID := ""
	if state != nil {
		runID = state.RunID
	}
	g.emit(Event{Type: EventGraphStart, RunID: runID, Timestamp: time.Now().UTC()})
	var execErr error
	defer func() {
		status := "success"
		if execErr != nil {
			status = "error"
		}
		g.emit(Event{
			Type:      EventGraphFinish,
			RunID:     runID,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]any{"status": status},
		})
	}()

	lastResult, err := g.run(ctx, state, runID)
	execErr = err
	return lastResult, err
}

func (g *Graph) run(ctx context.Context, state *State, runID string) (*Result, error) {
	g.execMu.Lock()
	defer g.execMu.Unlock()
	g.visitCounts = make(map[string]int)
	g.executionPath = make([]string, 0)

	g.mu.RLock()
	defer g.mu.RUnlock()

	current := g.startNodeID
	var lastResult *Result
	for current != "" {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		node, ok := g.nodes[current]
		if !ok {
			return nil, fmt.Errorf("node %s missing", current)
		}
		g.visitCounts[current]++
		if g.visitCounts[current] > g.maxNodeVisits {
			return nil, fmt.Errorf("potential cycle detected at node %s", current)
		}
		g.executionPath = append(g.executionPath, current)
		g.emit(Event{Type: EventNodeStart, NodeID: current, RunID: runID, Timestamp: time.Now().UTC()})
		result, err := node.Execute(ctx, state)
		if err != nil {
			err = fmt.Errorf("node %s execution failed: %w", current, err)
			g.emit(Event{
				Type:      EventNodeError,
				NodeID:    current,
				RunID:     runID,
				Timestamp: time.Now().UTC(),
				Message:   err.Error(),
			})
			return nil, err
		}
		if result == nil {
			result = &Result{NodeID: current, Success: true, Data: map[string]any{}}
		}
		result.NodeID = current
		lastResult = result
		g.emit(Event{
			Type:      EventNodeFinish,
			NodeID:    current,
			RunID:     runID,
			Timestamp: time.Now().UTC(),
			Metadata:  map[string]any{"success": result.Success},
		})
		next, err := g.nextNode(node, result, state)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return lastResult, nil
}

// nextNode evaluates the outgoing edges for a node. At most one edge may be
// eligible; returning a single node ID keeps the Execute loop simple and
// debuggable.
func (g *Graph) nextNode(node Node, result *Result, state *State) (string, error) {
	if node.Type() == NodeTypeTerminal {
		return "", nil
	}
	var eligible []Edge
	for _, edge := range g.edges[node.ID()] {
		if edge.Condition != nil && !edge.Condition(result, state) {
			continue
		}
		eligible = append(eligible, edge)
	}
	if len(eligible) == 0 {
		return "", nil
	}
	if len(eligible) > 1 {
		return "", fmt.Errorf("ambiguous transitions from %s", node.ID())
	}
	return eligible[0].To, nil
}

// Validate ensures all edge references exist and a start node is set.
func (g *Graph) Validate() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.nodes) == 0 {
		return errors.New("graph has no nodes")
	}
	if g.startNodeID == "" {
		return errors.New("graph has no start node")
	}
	for from, edges := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("edge references missing node %s", from)
		}
		for _, edge := range edges {
			if _, ok := g.nodes[edge.To]; !ok {
				return fmt.Errorf("edge references missing node %s", edge.To)
			}
		}
	}
	return nil
}

// TerminalNode marks the end of the workflow.
type TerminalNode struct {
	id string
}

// NewTerminalNode creates a terminal node.
func NewTerminalNode(id string) *TerminalNode {
	return &TerminalNode{id: id}
}

// ID implements Node.
func (n *TerminalNode) ID() string { return n.id }

// Type implements Node.
func (n *TerminalNode) Type() NodeType { return NodeTypeTerminal }

// Execute completes immediately.
func (n *TerminalNode) Execute(ctx context.Context, state *State) (*Result, error) {
	return &Result{NodeID: n.id, Success: true}, nil
}
