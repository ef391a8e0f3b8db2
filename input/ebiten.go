package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const stickDeadzone = 0.2

// Poll reads keyboard and the first gamepad. Keyboard attack input is left
// unnormalized so a diagonal outweighs a single direction.
func Poll() State {
	var s State

	if ebiten.IsKeyPressed(ebiten.KeyA) {
		s.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		s.MoveX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		s.MoveY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		s.MoveY++
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		s.AttackX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		s.AttackX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		s.AttackY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		s.AttackY++
	}

	s.Roll = ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft)
	s.Pause = ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyP)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			s.MoveX, s.MoveY = lx, ly
		}
		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			s.AttackX, s.AttackY = rx, ry
		}
		s.Roll = s.Roll || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		s.Pause = s.Pause || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	return s
}
