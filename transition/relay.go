package transition

import "github.com/milk9111/signpost/exchange"

// Hooks maps lifecycle callbacks onto methods of capability C. Nil entries are
// skipped.
type Hooks[C any] struct {
	Enter          func(C)
	UpdateEntering func(C)
	EnterSolo      func(C)
	Update         func(C)
	UpdateSolo     func(C)
	ExitSolo       func(C)
	UpdateExiting  func(C)
	Exit           func(C)
}

// Relay is a Lifecycle that forwards each callback to every subscriber of C on
// an exchange. It is how an animation node talks to the components of its
// entity without knowing them:
//
//	type AttackAnim interface {
//		OnAttackEnterSolo()
//		OnAttackExitSolo()
//	}
//
//	relay := transition.NewRelay(x, transition.Hooks[AttackAnim]{
//		EnterSolo: AttackAnim.OnAttackEnterSolo,
//		ExitSolo:  AttackAnim.OnAttackExitSolo,
//	})
type Relay[C any] struct {
	x     *exchange.Exchange
	hooks Hooks[C]
}

func NewRelay[C any](x *exchange.Exchange, hooks Hooks[C]) *Relay[C] {
	return &Relay[C]{x: x, hooks: hooks}
}

func (r *Relay[C]) OnEnter()          { r.invoke(r.hooks.Enter) }
func (r *Relay[C]) OnUpdateEntering() { r.invoke(r.hooks.UpdateEntering) }
func (r *Relay[C]) OnEnterSolo()      { r.invoke(r.hooks.EnterSolo) }
func (r *Relay[C]) OnUpdate()         { r.invoke(r.hooks.Update) }
func (r *Relay[C]) OnUpdateSolo()     { r.invoke(r.hooks.UpdateSolo) }
func (r *Relay[C]) OnExitSolo()       { r.invoke(r.hooks.ExitSolo) }
func (r *Relay[C]) OnUpdateExiting()  { r.invoke(r.hooks.UpdateExiting) }
func (r *Relay[C]) OnExit()           { r.invoke(r.hooks.Exit) }

func (r *Relay[C]) invoke(f func(C)) {
	if r == nil || f == nil {
		return
	}
	exchange.Invoke(r.x, f)
}
