// Package script implements transition.Lifecycle with tengo scripts.
//
// A script defines a global map named hooks whose keys are phase names and
// whose values take (engine, state):
//
//	hooks := {
//		enter_solo: func(engine, state) {
//			engine.trigger("glow")
//		},
//	}
//
// state is a map that survives between phases and reloads. engine exposes
// trigger(name), emit(name), log(msg) and phase().
package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/signpost/logging"
)

const (
	PhaseEnter          = "enter"
	PhaseUpdateEntering = "update_entering"
	PhaseEnterSolo      = "enter_solo"
	PhaseUpdate         = "update"
	PhaseUpdateSolo     = "update_solo"
	PhaseExitSolo       = "exit_solo"
	PhaseUpdateExiting  = "update_exiting"
	PhaseExit           = "exit"
)

const dispatchTrailer = `
if __phase != "" {
	__hook := hooks[__phase]
	if !is_undefined(__hook) {
		__hook(__engine, __state)
	}
}
`

var modules = []string{"fmt", "math", "rand", "text", "times", "enum"}

// Host is what a script can reach outside itself.
type Host interface {
	SetTrigger(name string)
	Emit(event string)
}

type Lifecycle struct {
	name     string
	host     Host
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
	phase    string
	logger   *slog.Logger
}

type Option func(*Lifecycle)

func WithLogger(l *slog.Logger) Option {
	return func(lc *Lifecycle) { lc.logger = l }
}

// NewLifecycle compiles src and runs its top level once so that compile and
// startup errors surface here instead of inside an animation callback.
func NewLifecycle(name string, src []byte, host Host, opts ...Option) (*Lifecycle, error) {
	lc := &Lifecycle{
		name:  name,
		host:  host,
		state: &tengo.Map{Value: map[string]tengo.Object{}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(lc)
		}
	}
	lc.logger = logging.OrNop(lc.logger).With("script", name)
	lc.engine = lc.buildEngine()

	if err := lc.Reload(src); err != nil {
		return nil, err
	}
	return lc, nil
}

// Reload swaps in new source. State is kept. On error the previous script
// stays active.
func (lc *Lifecycle) Reload(src []byte) error {
	compiled, err := compile(src)
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", lc.name, err)
	}
	prev := lc.compiled
	lc.compiled = compiled
	if err := lc.run(""); err != nil {
		lc.compiled = prev
		return fmt.Errorf("script: run %s: %w", lc.name, err)
	}
	return nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	full := string(src) + "\n" + dispatchTrailer
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(modules...))
	return s.Compile()
}

func (lc *Lifecycle) OnEnter()          { lc.dispatch(PhaseEnter) }
func (lc *Lifecycle) OnUpdateEntering() { lc.dispatch(PhaseUpdateEntering) }
func (lc *Lifecycle) OnEnterSolo()      { lc.dispatch(PhaseEnterSolo) }
func (lc *Lifecycle) OnUpdate()         { lc.dispatch(PhaseUpdate) }
func (lc *Lifecycle) OnUpdateSolo()     { lc.dispatch(PhaseUpdateSolo) }
func (lc *Lifecycle) OnExitSolo()       { lc.dispatch(PhaseExitSolo) }
func (lc *Lifecycle) OnUpdateExiting()  { lc.dispatch(PhaseUpdateExiting) }
func (lc *Lifecycle) OnExit()           { lc.dispatch(PhaseExit) }

// State returns a Go copy of the persisted script state. Script integers come
// back as int64.
func (lc *Lifecycle) State() map[string]any {
	if lc == nil || lc.state == nil {
		return nil
	}
	out, _ := tengo.ToInterface(lc.state).(map[string]any)
	return out
}

func (lc *Lifecycle) Name() string {
	if lc == nil {
		return ""
	}
	return lc.name
}

func (lc *Lifecycle) dispatch(phase string) {
	if lc == nil || lc.compiled == nil {
		return
	}
	if err := lc.run(phase); err != nil {
		lc.logger.Warn("script: hook failed", "phase", phase, "err", err)
	}
}

func (lc *Lifecycle) run(phase string) error {
	lc.phase = phase
	if err := lc.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := lc.compiled.Set("__engine", lc.engine); err != nil {
		return err
	}
	if err := lc.compiled.Set("__state", lc.state); err != nil {
		return err
	}
	return lc.compiled.Run()
}

func (lc *Lifecycle) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["trigger"] = &tengo.UserFunction{Name: "trigger", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if lc.host == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(argString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		lc.host.SetTrigger(name)
		return tengo.TrueValue, nil
	}}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if lc.host == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(argString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		lc.host.Emit(name)
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, argString(a))
		}
		lc.logger.Info(strings.Join(parts, " "), "phase", lc.phase)
		return tengo.UndefinedValue, nil
	}}

	values["phase"] = &tengo.UserFunction{Name: "phase", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: lc.phase}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func argString(o tengo.Object) string {
	s, _ := tengo.ToString(o)
	return s
}
