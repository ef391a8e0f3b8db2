package anim

import (
	"errors"
	"fmt"
)

// AnyState as a transition source matches whatever state the layer is in.
const AnyState = "any"

var (
	ErrInvalidController = errors.New("anim: invalid controller")
	ErrUnknownLayer      = errors.New("anim: unknown layer")
	ErrUnknownState      = errors.New("anim: unknown state")
)

type StateSpec struct {
	Name string `yaml:"name"`
	// Duration is the length of one cycle in seconds at speed 1.
	Duration float64 `yaml:"duration"`
	Loop     bool    `yaml:"loop"`
	// Speed multiplies playback; zero means 1.
	Speed float64 `yaml:"speed"`
}

type TransitionSpec struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Trigger string `yaml:"trigger"`
	// ExitTime is the normalized progress the source must reach. Zero means the
	// transition only waits for its trigger.
	ExitTime float64 `yaml:"exit_time"`
	// Duration is the crossfade length in seconds.
	Duration            float64 `yaml:"duration"`
	CanTransitionToSelf bool    `yaml:"can_transition_to_self"`
}

type LayerSpec struct {
	Name        string           `yaml:"name"`
	Default     string           `yaml:"default"`
	States      []StateSpec      `yaml:"states"`
	Transitions []TransitionSpec `yaml:"transitions"`
}

type ControllerSpec struct {
	Name   string      `yaml:"name"`
	Layers []LayerSpec `yaml:"layers"`
}

// Validate reports every problem in the spec at once.
func (s ControllerSpec) Validate() error {
	var errs []error
	if len(s.Layers) == 0 {
		errs = append(errs, fmt.Errorf("%w: %q has no layers", ErrInvalidController, s.Name))
	}
	layerNames := make(map[string]bool, len(s.Layers))
	for i, l := range s.Layers {
		if l.Name == "" {
			errs = append(errs, fmt.Errorf("%w: layer %d has no name", ErrInvalidController, i))
		} else if layerNames[l.Name] {
			errs = append(errs, fmt.Errorf("%w: duplicate layer %q", ErrInvalidController, l.Name))
		}
		layerNames[l.Name] = true
		errs = append(errs, l.validate()...)
	}
	return errors.Join(errs...)
}

func (l LayerSpec) validate() []error {
	var errs []error
	states := make(map[string]bool, len(l.States))
	for _, st := range l.States {
		switch {
		case st.Name == "" || st.Name == AnyState:
			errs = append(errs, fmt.Errorf("%w: layer %q: invalid state name %q", ErrInvalidController, l.Name, st.Name))
		case states[st.Name]:
			errs = append(errs, fmt.Errorf("%w: layer %q: duplicate state %q", ErrInvalidController, l.Name, st.Name))
		}
		if st.Duration <= 0 {
			errs = append(errs, fmt.Errorf("%w: layer %q: state %q needs a positive duration", ErrInvalidController, l.Name, st.Name))
		}
		if st.Speed < 0 {
			errs = append(errs, fmt.Errorf("%w: layer %q: state %q has negative speed", ErrInvalidController, l.Name, st.Name))
		}
		states[st.Name] = true
	}
	if !states[l.Default] {
		errs = append(errs, fmt.Errorf("%w: layer %q: default state %q not defined", ErrInvalidController, l.Name, l.Default))
	}
	for _, tr := range l.Transitions {
		if tr.From != AnyState && !states[tr.From] {
			errs = append(errs, fmt.Errorf("%w: layer %q: transition source %q not defined", ErrInvalidController, l.Name, tr.From))
		}
		if !states[tr.To] {
			errs = append(errs, fmt.Errorf("%w: layer %q: transition target %q not defined", ErrInvalidController, l.Name, tr.To))
		}
		if tr.Trigger == "" && tr.ExitTime <= 0 {
			errs = append(errs, fmt.Errorf("%w: layer %q: transition %s->%s needs a trigger or exit_time", ErrInvalidController, l.Name, tr.From, tr.To))
		}
		if tr.Duration < 0 {
			errs = append(errs, fmt.Errorf("%w: layer %q: transition %s->%s has negative duration", ErrInvalidController, l.Name, tr.From, tr.To))
		}
	}
	return errs
}
