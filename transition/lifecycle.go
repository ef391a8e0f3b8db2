package transition

// Frame is one raw notification from the animation runtime about an observed
// state node.
type Frame struct {
	Layer int
	State string
	// Progress is the normalized time of the occupancy. It keeps growing past 1
	// on looping states.
	Progress float64
	// Blending is true while the layer is crossfading into or out of the node.
	Blending bool
}

// Lifecycle receives the solo-phase callbacks derived by an Observer.
//
// For one occupancy the order is OnEnter, OnUpdate/OnUpdateEntering while
// blending in, OnEnterSolo, OnUpdate/OnUpdateSolo while fully active,
// OnExitSolo, OnUpdate/OnUpdateExiting while blending out, OnExit. Every
// OnEnterSolo is paired with exactly one OnExitSolo.
type Lifecycle interface {
	OnEnter()
	OnUpdateEntering()
	OnEnterSolo()
	OnUpdate()
	OnUpdateSolo()
	OnExitSolo()
	OnUpdateExiting()
	OnExit()
}

// Nop implements Lifecycle with empty callbacks. Embed it to override a few.
type Nop struct{}

func (Nop) OnEnter()          {}
func (Nop) OnUpdateEntering() {}
func (Nop) OnEnterSolo()      {}
func (Nop) OnUpdate()         {}
func (Nop) OnUpdateSolo()     {}
func (Nop) OnExitSolo()       {}
func (Nop) OnUpdateExiting()  {}
func (Nop) OnExit()           {}

// Lifecycles fans every callback out to each element in order.
type Lifecycles []Lifecycle

func (ls Lifecycles) OnEnter() {
	for _, l := range ls {
		l.OnEnter()
	}
}

func (ls Lifecycles) OnUpdateEntering() {
	for _, l := range ls {
		l.OnUpdateEntering()
	}
}

func (ls Lifecycles) OnEnterSolo() {
	for _, l := range ls {
		l.OnEnterSolo()
	}
}

func (ls Lifecycles) OnUpdate() {
	for _, l := range ls {
		l.OnUpdate()
	}
}

func (ls Lifecycles) OnUpdateSolo() {
	for _, l := range ls {
		l.OnUpdateSolo()
	}
}

func (ls Lifecycles) OnExitSolo() {
	for _, l := range ls {
		l.OnExitSolo()
	}
}

func (ls Lifecycles) OnUpdateExiting() {
	for _, l := range ls {
		l.OnUpdateExiting()
	}
}

func (ls Lifecycles) OnExit() {
	for _, l := range ls {
		l.OnExit()
	}
}
