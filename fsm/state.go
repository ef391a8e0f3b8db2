package fsm

// State is one phase of a Machine. Concrete states are structs that embed
// Base[C] and override the hooks they need; the machine owns a single instance
// per state type, so fields survive leaving and re-entering the state.
type State[C any] interface {
	// OnCreate runs once, the first time the machine needs this state type.
	OnCreate()
	OnEnter()
	OnFixedUpdate()
	OnUpdate()
	OnLateUpdate()
	OnExit()

	bind(ctx C)
}

// Base gives a state its context and no-op hooks.
type Base[C any] struct {
	ctx C
}

func (b *Base[C]) bind(ctx C) { b.ctx = ctx }

// Context returns the value the machine was initialised with, usually the
// component that owns the machine.
func (b *Base[C]) Context() C { return b.ctx }

func (*Base[C]) OnCreate()      {}
func (*Base[C]) OnEnter()       {}
func (*Base[C]) OnFixedUpdate() {}
func (*Base[C]) OnUpdate()      {}
func (*Base[C]) OnLateUpdate()  {}
func (*Base[C]) OnExit()        {}

// Ptr constrains PT to *T implementing State[C]. It lets the package-level
// helpers allocate a T and use it as a state: fsm.TransitionTo[stateIdle](m).
type Ptr[T, C any] interface {
	*T
	State[C]
}
