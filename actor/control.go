package actor

import "github.com/jakecoffman/cp"

// Control mirrors the latest input for the other components to read.
type Control struct {
	Move      cp.Vector
	AttackDir cp.Vector
	Roll      bool

	attackThresholdSq float64
}

// NewControl ignores attack input whose magnitude is below threshold, so a
// resting stick does not count as an attack.
func NewControl(threshold float64) *Control {
	return &Control{attackThresholdSq: threshold * threshold}
}

func (c *Control) OnMove(x, y float64) {
	c.Move = cp.Vector{X: x, Y: y}
}

func (c *Control) OnAttackInput(x, y float64) {
	v := cp.Vector{X: x, Y: y}
	if v.LengthSq() < c.attackThresholdSq {
		v = cp.Vector{}
	}
	c.AttackDir = v
}

func (c *Control) OnRollInput(pressed bool) {
	c.Roll = pressed
}

// AttackStrength is the squared magnitude of the attack input.
func (c *Control) AttackStrength() float64 {
	return c.AttackDir.LengthSq()
}
