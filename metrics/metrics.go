// Package metrics holds the prometheus collectors shared by the runtime
// packages. Every method is safe to call on a nil *Metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Dispatches  *prometheus.CounterVec
	Panics      *prometheus.CounterVec
	Violations  *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves them
// unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signpost_exchange_dispatches_total",
			Help: "Capability invocations delivered to a subscriber.",
		}, []string{"exchange", "capability"}),
		Panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signpost_exchange_panics_total",
			Help: "Subscriber callbacks that panicked and were recovered.",
		}, []string{"exchange", "capability"}),
		Violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signpost_transition_violations_total",
			Help: "Animation notifications ignored by a transition observer.",
		}, []string{"kind"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signpost_fsm_transitions_total",
			Help: "State changes performed by finite state machines.",
		}, []string{"machine"}),
	}
	if reg != nil {
		reg.MustRegister(m.Dispatches, m.Panics, m.Violations, m.Transitions)
	}
	return m
}

func (m *Metrics) ObserveDispatch(exchange, capability string) {
	if m == nil {
		return
	}
	m.Dispatches.WithLabelValues(exchange, capability).Inc()
}

func (m *Metrics) ObservePanic(exchange, capability string) {
	if m == nil {
		return
	}
	m.Panics.WithLabelValues(exchange, capability).Inc()
}

func (m *Metrics) ObserveViolation(kind string) {
	if m == nil {
		return
	}
	m.Violations.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveTransition(machine string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(machine).Inc()
}
