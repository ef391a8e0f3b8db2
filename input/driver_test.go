package input

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/signpost/exchange"
)

type listener struct {
	calls []string
}

func (l *listener) OnMove(x, y float64)        { l.calls = append(l.calls, fmt.Sprintf("move %g,%g", x, y)) }
func (l *listener) OnAttackInput(x, y float64) { l.calls = append(l.calls, fmt.Sprintf("attack %g,%g", x, y)) }
func (l *listener) OnRollInput(pressed bool)   { l.calls = append(l.calls, fmt.Sprintf("roll %t", pressed)) }
func (l *listener) OnPauseInput()              { l.calls = append(l.calls, "pause") }

func TestDriverPublishesEdges(t *testing.T) {
	x := exchange.New()
	l := &listener{}
	require.NoError(t, x.Register(l))
	d := NewDriver(x)

	d.Publish(State{})
	assert.Equal(t, []string{"move 0,0", "attack 0,0", "roll false"}, l.calls)

	l.calls = nil
	d.Publish(State{})
	assert.Empty(t, l.calls)

	d.Publish(State{MoveX: 1, Roll: true, Pause: true})
	assert.Equal(t, []string{"move 1,0", "roll true", "pause"}, l.calls)

	l.calls = nil
	d.Publish(State{MoveX: 1, Roll: true, Pause: true})
	d.Publish(State{AttackX: -1, AttackY: 1})
	assert.Equal(t, []string{"move 0,0", "attack -1,1", "roll false"}, l.calls)
	assert.Equal(t, State{AttackX: -1, AttackY: 1}, d.Last())
}

func TestDriverResyncReachesLateListeners(t *testing.T) {
	x := exchange.New()
	d := NewDriver(x)
	held := State{MoveX: -1, AttackY: 1, Roll: true, Pause: true}
	d.Publish(held)

	l := &listener{}
	require.NoError(t, x.Register(l))
	d.Publish(held)
	assert.Empty(t, l.calls)

	d.Resync()
	assert.Equal(t, []string{"move -1,0", "attack 0,1", "roll true"}, l.calls)

	l.calls = nil
	d.Publish(held)
	assert.Empty(t, l.calls)
}
