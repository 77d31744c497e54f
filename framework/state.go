package framework

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DefaultMaxAttempts bounds the number of corrective refinement passes before
// the pipeline forwards the best available plan.
const DefaultMaxAttempts = 3

// State is the per-invocation blackboard threaded through the pipeline graph.
// Each invocation owns exactly one State; stages execute strictly
// sequentially, so fields are read and replaced directly by the node that
// currently holds control. The mutex only guards the append-only log slices,
// which telemetry sinks may read while a run is in flight.
type State struct {
	RunID string
	Task  string

	// Plan is replaced wholesale by the planner and reviewer stages; nodes
	// never mutate it in place.
	Plan *Plan

	Research       *Research
	Sources        []Source
	ReportMarkdown string

	// Refinement loop bookkeeping. Attempts increments exactly once per
	// failed validation that leads to a refinement pass; MaxAttempts is
	// fixed at pipeline start. Violations holds the codes from the most
	// recent validation pass; the cumulative record lives in violationLog.
	Validated   bool
	Attempts    int
	MaxAttempts int
	Violations  []string

	mu           sync.Mutex
	logs         []string
	violationLog []string
}

// NewState builds the state record for a single pipeline invocation.
func NewState(task string, maxAttempts int) *State {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &State{
		RunID:       uuid.NewString(),
		Task:        task,
		MaxAttempts: maxAttempts,
		logs:        make([]string, 0),
	}
}

// AppendLog records a human-readable line in the run log.
func (s *State) AppendLog(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, line)
}

// Logf formats and records a run-log line.
func (s *State) Logf(format string, args ...any) {
	s.AppendLog(fmt.Sprintf(format, args...))
}

// Logs returns a copy of the accumulated run log.
func (s *State) Logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.logs))
	copy(out, s.logs)
	return out
}

// RecordViolations appends the codes found during one validation attempt.
func (s *State) RecordViolations(codes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.violationLog = append(s.violationLog, codes...)
}

// ViolationLog returns a copy of every violation code reported across all
// validation attempts, in order.
func (s *State) ViolationLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.violationLog))
	copy(out, s.violationLog)
	return out
}
