package actor

// Mover walks the player while the idle node is fully active.
type Mover struct {
	control   *Control
	locomotor *Locomotor
	speed     float64
	active    bool
}

func NewMover(control *Control, locomotor *Locomotor, speed float64) *Mover {
	return &Mover{control: control, locomotor: locomotor, speed: speed}
}

func (m *Mover) OnIdleEnterSolo() { m.active = true }
func (m *Mover) OnIdleExitSolo()  { m.active = false }

func (m *Mover) Active() bool { return m.active }

func (m *Mover) FixedUpdate() {
	if !m.active {
		return
	}
	m.locomotor.Drive(m.control.Move.X, m.speed)
}
