// Package anim is a small layered animation runtime. Each layer plays one state
// at a time and crossfades between states; behaviours attached to a state see
// every occupancy of it as Enter, Update per tick and Exit, with normalized
// progress and a blending flag. That is the stream transition.Observer expects.
package anim

import (
	"fmt"
	"log/slog"

	"github.com/milk9111/signpost/common"
	"github.com/milk9111/signpost/logging"
	"github.com/milk9111/signpost/transition"
)

// Behaviour receives the raw notifications of one state node.
// *transition.Observer implements it.
type Behaviour interface {
	Enter(f transition.Frame)
	Update(f transition.Frame)
	Exit(f transition.Frame)
}

type node struct {
	spec       StateSpec
	behaviours []Behaviour
}

func (n *node) speed() float64 {
	if n.spec.Speed == 0 {
		return 1
	}
	return n.spec.Speed
}

type occupancy struct {
	node     *node
	progress float64
}

type layer struct {
	index int
	spec  LayerSpec
	nodes map[string]*node

	current       *occupancy
	next          *occupancy
	blendElapsed  float64
	blendDuration float64
}

// Animator drives the layers of one controller for one entity.
type Animator struct {
	name     string
	layers   []*layer
	byName   map[string]*layer
	triggers map[string]bool
	pause    common.Cooldown
	logger   *slog.Logger
}

type Option func(*Animator)

func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) { a.logger = l }
}

// NewAnimator validates the controller and builds a stopped animator. Layers start their
// default state on the first Update.
func NewAnimator(spec ControllerSpec, opts ...Option) (*Animator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	a := &Animator{
		name:     spec.Name,
		byName:   make(map[string]*layer, len(spec.Layers)),
		triggers: make(map[string]bool),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.logger = logging.OrNop(a.logger)

	for i, ls := range spec.Layers {
		l := &layer{index: i, spec: ls, nodes: make(map[string]*node, len(ls.States))}
		for _, st := range ls.States {
			l.nodes[st.Name] = &node{spec: st}
		}
		a.layers = append(a.layers, l)
		a.byName[ls.Name] = l
	}
	return a, nil
}

// Attach adds a behaviour to a state. Behaviours run in attach order.
func (a *Animator) Attach(layerName, state string, b Behaviour) error {
	_, n, err := a.lookup(layerName, state)
	if err != nil {
		return err
	}
	n.behaviours = append(n.behaviours, b)
	return nil
}

// SetTrigger raises a trigger. It stays raised until a transition consumes it
// or ResetTrigger clears it.
func (a *Animator) SetTrigger(name string) {
	if a == nil || name == "" {
		return
	}
	a.triggers[name] = true
}

func (a *Animator) ResetTrigger(name string) {
	if a == nil {
		return
	}
	delete(a.triggers, name)
}

// SetPause freezes playback for the given seconds. Behaviours keep receiving
// updates with unchanged progress.
func (a *Animator) SetPause(seconds float64) {
	if a == nil {
		return
	}
	a.pause.Set(seconds, seconds <= 0)
}

func (a *Animator) Paused() bool {
	return a != nil && !a.pause.IsReady()
}

// Play jumps to state without blending. Called before the first Update it only
// selects the starting state and no Enter is sent for it, like a runtime that
// is told to play a state while it is still initialising.
func (a *Animator) Play(layerName, state string) error {
	l, n, err := a.lookup(layerName, state)
	if err != nil {
		return err
	}
	if l.current == nil {
		l.current = &occupancy{node: n}
		return nil
	}
	a.emit(l, l.current, opExit, false)
	if l.next != nil {
		a.emit(l, l.next, opExit, false)
		l.next = nil
	}
	l.current = &occupancy{node: n}
	a.emit(l, l.current, opEnter, false)
	return nil
}

// CrossFade starts blending into state over seconds. A blend already in
// progress is completed first.
func (a *Animator) CrossFade(layerName, state string, seconds float64) error {
	l, n, err := a.lookup(layerName, state)
	if err != nil {
		return err
	}
	a.start(l)
	if l.next != nil {
		a.finishBlend(l)
	}
	a.begin(l, n, seconds)
	return nil
}

// Update advances every layer by dt seconds.
func (a *Animator) Update(dt float64) {
	if a == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	if !a.pause.IsReady() {
		a.pause.Tick(dt)
		dt = 0
	}
	for _, l := range a.layers {
		a.updateLayer(l, dt)
	}
}

// Current reports the state a layer is in, the state it is blending into, and
// whether a blend is in progress.
func (a *Animator) Current(layerName string) (state, next string, blending bool) {
	if a == nil {
		return "", "", false
	}
	l, ok := a.byName[layerName]
	if !ok || l.current == nil {
		return "", "", false
	}
	if l.next != nil {
		return l.current.node.spec.Name, l.next.node.spec.Name, true
	}
	return l.current.node.spec.Name, "", false
}

// Progress returns the normalized progress of the layer's current state.
func (a *Animator) Progress(layerName string) float64 {
	if a == nil {
		return 0
	}
	l, ok := a.byName[layerName]
	if !ok || l.current == nil {
		return 0
	}
	return l.current.progress
}

// Finished reports whether a non-looping current state has played through.
func (a *Animator) Finished(layerName string) bool {
	if a == nil {
		return false
	}
	l, ok := a.byName[layerName]
	if !ok || l.current == nil {
		return false
	}
	return !l.current.node.spec.Loop && l.current.progress >= 1
}

func (a *Animator) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

func (a *Animator) updateLayer(l *layer, dt float64) {
	a.start(l)

	// A transition picked this tick enters its destination after the source
	// has seen its blending update.
	begun := false
	if l.next == nil {
		if tr, ok := a.pickTransition(l); ok {
			a.prepare(l, l.nodes[tr.To], tr.Duration)
			begun = true
		}
	}

	advance(l.current, dt)
	a.emit(l, l.current, opUpdate, l.next != nil)
	if l.next == nil {
		return
	}

	if begun {
		a.emit(l, l.next, opEnter, true)
	}
	advance(l.next, dt)
	l.blendElapsed += dt
	a.emit(l, l.next, opUpdate, true)
	if l.blendElapsed >= l.blendDuration {
		a.finishBlend(l)
	}
}

// start enters the default state the first time a layer is touched.
func (a *Animator) start(l *layer) {
	if l.current != nil {
		return
	}
	l.current = &occupancy{node: l.nodes[l.spec.Default]}
	a.emit(l, l.current, opEnter, false)
}

func (a *Animator) begin(l *layer, n *node, seconds float64) {
	a.prepare(l, n, seconds)
	a.emit(l, l.next, opEnter, true)
}

func (a *Animator) prepare(l *layer, n *node, seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	l.next = &occupancy{node: n}
	l.blendElapsed = 0
	l.blendDuration = seconds
	a.logger.Debug("anim: crossfade",
		"animator", a.name,
		"layer", l.spec.Name,
		"from", l.current.node.spec.Name,
		"to", n.spec.Name,
		"seconds", seconds,
	)
}

func (a *Animator) finishBlend(l *layer) {
	a.emit(l, l.current, opExit, false)
	l.current = l.next
	l.next = nil
	l.blendElapsed = 0
	l.blendDuration = 0
}

// pickTransition returns the first transition, in declaration order, whose conditions
// hold. A trigger it depends on is consumed.
func (a *Animator) pickTransition(l *layer) (TransitionSpec, bool) {
	cur := l.current.node.spec.Name
	for _, tr := range l.spec.Transitions {
		switch {
		case tr.From == AnyState:
			if tr.To == cur && !tr.CanTransitionToSelf {
				continue
			}
		case tr.From != cur:
			continue
		}
		if tr.ExitTime > 0 && l.current.progress < tr.ExitTime {
			continue
		}
		if tr.Trigger != "" {
			if !a.triggers[tr.Trigger] {
				continue
			}
			delete(a.triggers, tr.Trigger)
		}
		return tr, true
	}
	return TransitionSpec{}, false
}

func advance(o *occupancy, dt float64) {
	o.progress += dt * o.node.speed() / o.node.spec.Duration
}

type op int

const (
	opEnter op = iota
	opUpdate
	opExit
)

func (a *Animator) emit(l *layer, o *occupancy, kind op, blending bool) {
	f := transition.Frame{
		Layer:    l.index,
		State:    o.node.spec.Name,
		Progress: o.progress,
		Blending: blending,
	}
	for _, b := range o.node.behaviours {
		switch kind {
		case opEnter:
			b.Enter(f)
		case opUpdate:
			b.Update(f)
		case opExit:
			b.Exit(f)
		}
	}
}

func (a *Animator) lookup(layerName, state string) (*layer, *node, error) {
	if a == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownLayer, layerName)
	}
	l, ok := a.byName[layerName]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownLayer, layerName)
	}
	n, ok := l.nodes[state]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q in layer %q", ErrUnknownState, state, layerName)
	}
	return l, n, nil
}
