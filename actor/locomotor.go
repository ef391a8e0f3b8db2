package actor

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/signpost/prefabs"
)

// Locomotor owns the player's rigid body in a private chipmunk space with a
// flat floor at y=0. Y grows downward.
type Locomotor struct {
	space  *cp.Space
	body   *cp.Body
	shape  *cp.Shape
	facing float64
}

func NewLocomotor(spec prefabs.BodySpec, gravity float64) *Locomotor {
	mass := spec.Mass
	if mass <= 0 {
		mass = 1
	}
	width, height := spec.Width, spec.Height
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	floor := cp.NewSegment(space.StaticBody, cp.Vector{X: -1e5, Y: 0}, cp.Vector{X: 1e5, Y: 0}, 0)
	floor.SetFriction(1)
	space.AddShape(floor)

	// Infinite moment keeps the box upright.
	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: 0, Y: -height / 2})
	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(spec.Friction)
	space.AddBody(body)
	space.AddShape(shape)

	return &Locomotor{space: space, body: body, shape: shape, facing: 1}
}

func (l *Locomotor) Step(dt float64) {
	if dt > 0 {
		l.space.Step(dt)
	}
}

func (l *Locomotor) Position() cp.Vector { return l.body.Position() }
func (l *Locomotor) Velocity() cp.Vector { return l.body.Velocity() }

// Speed is the horizontal speed.
func (l *Locomotor) Speed() float64 {
	return math.Abs(l.body.Velocity().X)
}

// Facing is a unit vector along x.
func (l *Locomotor) Facing() cp.Vector {
	return cp.Vector{X: l.facing}
}

// Face turns toward dir. Only the sign of dir.X matters.
func (l *Locomotor) Face(dir cp.Vector) {
	switch {
	case dir.X > 0:
		l.facing = 1
	case dir.X < 0:
		l.facing = -1
	}
}

// Push changes velocity by speed along dir.
func (l *Locomotor) Push(dir cp.Vector, speed float64) {
	if dir.LengthSq() == 0 {
		return
	}
	v := l.body.Velocity()
	l.body.SetVelocityVector(v.Add(dir.Normalize().Mult(speed)))
}

// Brake removes the given fraction of horizontal velocity.
func (l *Locomotor) Brake(multiplier float64) {
	v := l.body.Velocity()
	v.X -= v.X * multiplier
	l.body.SetVelocityVector(v)
}

// Drive sets horizontal velocity to dirX*speed and keeps vertical velocity.
func (l *Locomotor) Drive(dirX, speed float64) {
	v := l.body.Velocity()
	v.X = dirX * speed
	l.body.SetVelocityVector(v)
	l.Face(cp.Vector{X: dirX})
}
