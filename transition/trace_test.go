package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceRecordsPhases(t *testing.T) {
	tr := NewTrace(0)
	o := NewObserver(tr.For("roll"))
	o.Enter(Frame{State: "roll"})
	o.Update(Frame{State: "roll", Progress: 0.5})
	o.Exit(Frame{State: "roll", Progress: 1})

	assert.Equal(t, []string{"roll.OnEnter", "roll.OnEnterSolo", "roll.OnExitSolo", "roll.OnExit"}, tr.Lines())
	assert.Equal(t, "roll.OnEnter\nroll.OnEnterSolo\nroll.OnExitSolo\nroll.OnExit\n", tr.String())
}

func TestTraceUpdatesAndLimit(t *testing.T) {
	tr := NewTrace(3)
	tr.Updates = true
	l := tr.For("idle")
	l.OnEnter()
	l.OnUpdate()
	l.OnUpdateSolo()
	l.OnExit()

	assert.Equal(t, []string{"idle.OnUpdate", "idle.OnUpdateSolo", "idle.OnExit"}, tr.Lines())
	tr.Reset()
	assert.Empty(t, tr.Lines())
	assert.Empty(t, tr.String())
}
