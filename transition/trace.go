package transition

import (
	"fmt"
	"strings"
)

// Trace records lifecycle callbacks as "state.Callback" lines.
type Trace struct {
	lines []string
	limit int
	// Updates includes OnUpdate, OnUpdateSolo and the other per-tick
	// callbacks. They are skipped by default.
	Updates bool
}

// NewTrace keeps at most limit lines; zero means unbounded.
func NewTrace(limit int) *Trace {
	return &Trace{limit: limit}
}

// For returns a Lifecycle that records into t under the given state name.
func (t *Trace) For(state string) Lifecycle {
	return &traceNode{t: t, state: state}
}

func (t *Trace) Lines() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.lines...)
}

func (t *Trace) Reset() {
	if t != nil {
		t.lines = t.lines[:0]
	}
}

func (t *Trace) String() string {
	if t == nil || len(t.lines) == 0 {
		return ""
	}
	return strings.Join(t.lines, "\n") + "\n"
}

func (t *Trace) add(state, callback string, perTick bool) {
	if t == nil || (perTick && !t.Updates) {
		return
	}
	t.lines = append(t.lines, fmt.Sprintf("%s.%s", state, callback))
	if t.limit > 0 && len(t.lines) > t.limit {
		n := copy(t.lines, t.lines[len(t.lines)-t.limit:])
		t.lines = t.lines[:n]
	}
}

type traceNode struct {
	t     *Trace
	state string
}

func (n *traceNode) OnEnter()          { n.t.add(n.state, "OnEnter", false) }
func (n *traceNode) OnUpdateEntering() { n.t.add(n.state, "OnUpdateEntering", true) }
func (n *traceNode) OnEnterSolo()      { n.t.add(n.state, "OnEnterSolo", false) }
func (n *traceNode) OnUpdate()         { n.t.add(n.state, "OnUpdate", true) }
func (n *traceNode) OnUpdateSolo()     { n.t.add(n.state, "OnUpdateSolo", true) }
func (n *traceNode) OnExitSolo()       { n.t.add(n.state, "OnExitSolo", false) }
func (n *traceNode) OnUpdateExiting()  { n.t.add(n.state, "OnUpdateExiting", true) }
func (n *traceNode) OnExit()           { n.t.add(n.state, "OnExit", false) }
