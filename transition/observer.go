// Package transition turns the per-frame enter/update/exit stream of an
// animation layer into solo lifecycle callbacks: when an observed node becomes
// fully active, stays fully active, and stops being fully active.
package transition

import (
	"log/slog"

	"github.com/milk9111/signpost/logging"
	"github.com/milk9111/signpost/metrics"
)

// A node transitioning into itself is occupied twice until the older
// occupancy exits. More than that is never tracked.
const maxSlots = 2

const (
	violationEnterOverflow   = "enter_overflow"
	violationUpdateUnmatched = "update_unmatched"
	violationExitEmpty       = "exit_empty"
)

type slot struct {
	last        float64
	soloEntered bool
	soloExited  bool
}

// Observer tracks the occupancies of one animation node and forwards derived
// callbacks to a Lifecycle. Attach one Observer per node per animator.
//
// Updates are matched to occupancies by progress: the first slot whose last
// progress is not ahead of the new value owns the update. This relies on
// progress never decreasing within one occupancy; a runtime that rewinds a
// playing state can make an update land on the wrong slot.
type Observer struct {
	target Lifecycle
	slots  [maxSlots]slot
	count  int
	last   Frame

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Observer)

func WithLogger(l *slog.Logger) Option {
	return func(o *Observer) { o.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Observer) { o.metrics = m }
}

func NewObserver(target Lifecycle, opts ...Option) *Observer {
	if target == nil {
		target = Nop{}
	}
	o := &Observer{target: target}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.logger = logging.OrNop(o.logger)
	return o
}

// Enter starts a new occupancy.
func (o *Observer) Enter(f Frame) {
	if o.count >= maxSlots {
		o.violation(violationEnterOverflow, f)
		return
	}
	o.last = f

	s := &o.slots[o.count]
	s.last = f.Progress
	s.soloEntered = false
	s.soloExited = false
	o.count++

	o.target.OnEnter()
}

// Update advances the occupancy the frame belongs to.
func (o *Observer) Update(f Frame) {
	var s *slot
	for i := 0; i < o.count; i++ {
		if f.Progress >= o.slots[i].last {
			s = &o.slots[i]
			break
		}
	}
	if s == nil {
		o.violation(violationUpdateUnmatched, f)
		return
	}
	o.last = f

	o.target.OnUpdate()

	s.last = f.Progress

	if !f.Blending {
		if !s.soloEntered {
			o.target.OnEnterSolo()
			s.soloEntered = true
		}
		o.target.OnUpdateSolo()
		return
	}

	if !s.soloEntered {
		o.target.OnUpdateEntering()
	}
	if s.soloEntered && !s.soloExited {
		o.target.OnExitSolo()
		s.soloExited = true
	}
	if s.soloEntered && s.soloExited {
		o.target.OnUpdateExiting()
	}
}

// Exit retires the oldest occupancy. A state that never became fully active
// still gets its OnEnterSolo/OnExitSolo pair first.
func (o *Observer) Exit(f Frame) {
	if o.count < 1 {
		// Happens when the runtime jumps straight into a state before the first
		// update, so no Enter was ever seen.
		o.violation(violationExitEmpty, f)
		return
	}
	o.last = f

	s := &o.slots[0]
	if !s.soloEntered {
		o.target.OnEnterSolo()
	}
	if !s.soloExited {
		o.target.OnExitSolo()
	}

	o.slots[0], o.slots[1] = o.slots[1], o.slots[0]
	o.count--

	o.target.OnExit()
}

// Last returns the most recent frame the observer accepted.
func (o *Observer) Last() Frame {
	return o.last
}

// Active returns the number of live occupancies.
func (o *Observer) Active() int {
	return o.count
}

func (o *Observer) violation(kind string, f Frame) {
	o.metrics.ObserveViolation(kind)
	o.logger.Debug("transition: ignored notification",
		"kind", kind,
		"layer", f.Layer,
		"state", f.State,
		"progress", f.Progress,
		"active", o.count,
	)
}
