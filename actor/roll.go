package actor

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/signpost/common"
	"github.com/milk9111/signpost/fsm"
	"github.com/milk9111/signpost/metrics"
)

type RollParams struct {
	// Cooldown includes the roll itself.
	Cooldown float64
	Speed    float64
	Brake    float64
}

// Roll fires the roll trigger when the button is held and the cooldown allows
// it, then launches the body when the roll node starts.
type Roll struct {
	control   *Control
	locomotor *Locomotor
	driver    Driver
	params    RollParams
	cooldown  common.Cooldown
	fsm       *fsm.Machine[*Roll]
}

func NewRoll(control *Control, locomotor *Locomotor, driver Driver, params RollParams, m *metrics.Metrics) *Roll {
	r := &Roll{
		control:   control,
		locomotor: locomotor,
		driver:    driver,
		params:    params,
	}
	r.cooldown.Set(params.Cooldown, true)
	r.fsm = fsm.New[*Roll](fsm.WithName("roll"), fsm.WithMetrics(m))
	fsm.Init[rollWait](r.fsm, r)
	return r
}

func (r *Roll) Update(dt float64) {
	r.cooldown.Tick(dt)
	r.fsm.Update()
}

func (r *Roll) IsRolling() bool { return fsm.Is[rollRolling](r.fsm) }
func (r *Roll) IsReady() bool   { return fsm.Is[rollReady](r.fsm) }

func (r *Roll) OnIdleEnterSolo() { fsm.TransitionTo[rollReady](r.fsm) }
func (r *Roll) OnIdleExitSolo()  { fsm.TransitionTo[rollWait](r.fsm) }

func (r *Roll) OnRollEnter()     { fsm.TransitionTo[rollRolling](r.fsm) }
func (r *Roll) OnRollEnterSolo() {}
func (r *Roll) OnRollExitSolo()  { fsm.TransitionTo[rollWait](r.fsm) }
func (r *Roll) OnRollExit()      {}

type rollWait struct{ fsm.Base[*Roll] }

type rollReady struct{ fsm.Base[*Roll] }

func (s *rollReady) OnUpdate() {
	r := s.Context()
	if r.control.Roll && r.cooldown.Claim() {
		r.driver.SetTrigger("roll")
		fsm.TransitionTo[rollWait](r.fsm)
	}
}

type rollRolling struct {
	fsm.Base[*Roll]
	dir cp.Vector
}

func (s *rollRolling) OnEnter() {
	r := s.Context()
	s.dir = cp.Vector{X: r.control.Move.X}
	if s.dir.X == 0 {
		s.dir = r.locomotor.Facing()
	}
	r.locomotor.Brake(r.params.Brake)
	r.locomotor.Push(s.dir, r.params.Speed)
	r.locomotor.Face(s.dir)
}
