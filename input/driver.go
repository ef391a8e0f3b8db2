// Package input turns device state into InputListener calls on the world
// exchange. Only changes are published, so listeners see edges rather than a
// per-frame stream.
package input

import (
	"github.com/milk9111/signpost/actor"
	"github.com/milk9111/signpost/exchange"
)

// PauseListener is told when the pause button goes down.
type PauseListener interface {
	OnPauseInput()
}

// State is one frame of device input.
type State struct {
	MoveX, MoveY     float64
	AttackX, AttackY float64
	Roll             bool
	Pause            bool
}

type Driver struct {
	x       *exchange.Exchange
	last    State
	started bool
}

func NewDriver(x *exchange.Exchange) *Driver {
	return &Driver{x: x}
}

// Update polls the devices and publishes what changed.
func (d *Driver) Update() {
	d.Publish(Poll())
}

// Publish sends the differences between s and the previous state.
func (d *Driver) Publish(s State) {
	first := !d.started
	d.started = true
	prev := d.last
	d.last = s

	if first || s.MoveX != prev.MoveX || s.MoveY != prev.MoveY {
		exchange.Invoke2(d.x, actor.InputListener.OnMove, s.MoveX, s.MoveY)
	}
	if first || s.AttackX != prev.AttackX || s.AttackY != prev.AttackY {
		exchange.Invoke2(d.x, actor.InputListener.OnAttackInput, s.AttackX, s.AttackY)
	}
	if first || s.Roll != prev.Roll {
		exchange.Invoke1(d.x, actor.InputListener.OnRollInput, s.Roll)
	}
	if s.Pause && !prev.Pause {
		exchange.Invoke(d.x, PauseListener.OnPauseInput)
	}
}

func (d *Driver) Last() State { return d.last }

// Resync republishes the last polled state in full, for listeners that
// subscribed after the edges they would have needed. Pause is not repeated.
func (d *Driver) Resync() {
	d.started = false
	d.Publish(d.last)
}
