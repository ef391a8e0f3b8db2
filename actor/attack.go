package actor

import (
	"log/slog"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/signpost/fsm"
	"github.com/milk9111/signpost/logging"
	"github.com/milk9111/signpost/metrics"
)

const (
	EventStrike = "strike"
	EventImpact = "impact"
)

type AttackParams struct {
	PushSpeed float64
	Brake     float64
	Hitstop   float64
}

// Attack turns attack input into the attack trigger and moves the body while
// the attack node plays. Its phases follow the node's solo lifecycle:
//
//	Wait         nothing to do
//	Ready        idle or roll is fully active; attack input fires the trigger
//	PreAttacking attack is blending in; aim may still change
//	Attacking    attack is fully active; direction is committed and pushed
type Attack struct {
	control   *Control
	locomotor *Locomotor
	driver    Driver
	params    AttackParams
	fsm       *fsm.Machine[*Attack]
	logger    *slog.Logger

	strength  float64
	direction cp.Vector
	clockwise bool
	strikes   int
}

func NewAttack(control *Control, locomotor *Locomotor, driver Driver, params AttackParams, logger *slog.Logger, m *metrics.Metrics) *Attack {
	a := &Attack{
		control:   control,
		locomotor: locomotor,
		driver:    driver,
		params:    params,
		logger:    logging.OrNop(logger),
	}
	a.fsm = fsm.New[*Attack](fsm.WithName("attack"), fsm.WithLogger(a.logger), fsm.WithMetrics(m))
	fsm.Init[attackWait](a.fsm, a)
	return a
}

func (a *Attack) FixedUpdate() { a.fsm.FixedUpdate() }
func (a *Attack) Update()      { a.fsm.Update() }

// Phase names the current phase.
func (a *Attack) Phase() string {
	if p, ok := a.fsm.Current().(interface{ phase() string }); ok {
		return p.phase()
	}
	return ""
}

// Strikes counts the strike events received.
func (a *Attack) Strikes() int { return a.strikes }

// Clockwise reports the swing direction chosen for the current attack.
func (a *Attack) Clockwise() bool { return a.clockwise }

func (a *Attack) OnIdleEnterSolo() { fsm.TransitionTo[attackReady](a.fsm) }
func (a *Attack) OnIdleExitSolo()  { fsm.TransitionTo[attackWait](a.fsm) }

func (a *Attack) OnRollEnter()       {}
func (a *Attack) OnRollEnterSolo()   { fsm.TransitionTo[attackReady](a.fsm) }
func (a *Attack) OnRollExitSolo()    { fsm.TransitionTo[attackWait](a.fsm) }
func (a *Attack) OnRollExit()        {}
func (a *Attack) OnAttackEnter()     { fsm.TransitionTo[attackPreAttacking](a.fsm) }
func (a *Attack) OnAttackEnterSolo() { fsm.TransitionTo[attackAttacking](a.fsm) }

// OnAttackExitSolo makes the next swing available while this one blends out.
func (a *Attack) OnAttackExitSolo() { fsm.TransitionTo[attackReady](a.fsm) }
func (a *Attack) OnAttackExit()     {}

func (a *Attack) OnScriptEvent(name string) {
	switch name {
	case EventStrike:
		// Stop steering once the blow lands.
		fsm.TransitionTo[attackWait](a.fsm)
		a.strikes++
	case EventImpact:
		if a.params.Hitstop > 0 {
			a.driver.SetPause(a.params.Hitstop)
		}
	}
}

// refreshDirection adopts the current input only while its magnitude is not
// dropping, so releasing a stick does not swing the aim back.
func (a *Attack) refreshDirection() bool {
	s := a.control.AttackStrength()
	if s < a.strength {
		return false
	}
	a.strength = s
	a.direction = a.control.AttackDir
	return true
}

type attackWait struct{ fsm.Base[*Attack] }

func (*attackWait) phase() string { return "wait" }

type attackReady struct{ fsm.Base[*Attack] }

func (*attackReady) phase() string { return "ready" }

func (s *attackReady) OnUpdate() {
	a := s.Context()
	if a.control.AttackDir.LengthSq() == 0 {
		return
	}
	a.strength = 0
	a.direction = cp.Vector{}
	a.refreshDirection()
	a.driver.SetTrigger("attack")
	fsm.TransitionTo[attackWait](a.fsm)
}

type attackPreAttacking struct{ fsm.Base[*Attack] }

func (*attackPreAttacking) phase() string { return "pre_attacking" }

func (s *attackPreAttacking) OnEnter() {
	a := s.Context()
	a.refreshDirection()
	// Alternate the swing when already facing the target, otherwise swing
	// toward it.
	facing := a.locomotor.Facing()
	if a.direction.X == 0 || (a.direction.X > 0) == (facing.X > 0) {
		a.clockwise = !a.clockwise
	} else {
		a.clockwise = a.direction.X < 0
	}
	a.logger.Debug("attack: wind up", "dir_x", a.direction.X, "dir_y", a.direction.Y, "clockwise", a.clockwise)
}

func (s *attackPreAttacking) OnUpdate() {
	s.Context().refreshDirection()
}

func (s *attackPreAttacking) OnFixedUpdate() {
	a := s.Context()
	a.locomotor.Face(a.direction)
}

type attackAttacking struct{ fsm.Base[*Attack] }

func (*attackAttacking) phase() string { return "attacking" }

func (s *attackAttacking) OnEnter() {
	a := s.Context()
	a.refreshDirection()
	dir := a.direction
	if dir.LengthSq() == 0 {
		dir = a.locomotor.Facing()
	}
	last := a.locomotor.Speed()
	a.locomotor.Brake(a.params.Brake)
	// Keep part of the momentum the swing started with.
	speed := a.params.PushSpeed + last*(1-a.params.Brake)
	a.locomotor.Push(dir, speed)
	a.locomotor.Face(dir)
}

func (s *attackAttacking) OnFixedUpdate() {
	a := s.Context()
	a.locomotor.Face(a.direction)
}
