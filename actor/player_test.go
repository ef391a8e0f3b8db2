package actor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/signpost/exchange"
	"github.com/milk9111/signpost/metrics"
	"github.com/milk9111/signpost/prefabs"
)

func newTestPlayer(t *testing.T) *Player {
	t.Helper()
	spec, err := prefabs.LoadPlayerSpec("player")
	require.NoError(t, err)
	ctrl, err := prefabs.LoadController(spec.Controller)
	require.NoError(t, err)
	src, err := prefabs.LoadScript(spec.Script)
	require.NoError(t, err)

	p, err := NewPlayer(NewWorld(nil, metrics.New(nil)), spec, ctrl, src)
	require.NoError(t, err)
	require.NoError(t, p.Enable())
	return p
}

func tickUntil(t *testing.T, p *Player, max int, cond func() bool) {
	t.Helper()
	for i := 0; i < max; i++ {
		if cond() {
			return
		}
		p.Tick(frame)
	}
	require.True(t, cond(), "condition not reached in %d frames", max)
}

func count(lines []string, want string) int {
	n := 0
	for _, l := range lines {
		if l == want {
			n++
		}
	}
	return n
}

func TestPlayerAttackRoundTrip(t *testing.T) {
	p := newTestPlayer(t)
	world := p.World.Exchange

	p.Tick(frame)
	assert.Equal(t, "ready", p.Attack.Phase())
	assert.True(t, p.Mover.Active())

	exchange.Invoke2(world, InputListener.OnAttackInput, 1.0, 0.0)
	p.Tick(frame)
	assert.Equal(t, "pre_attacking", p.Attack.Phase())
	assert.False(t, p.Mover.Active())
	state, next := p.State()
	assert.Equal(t, NodeIdle, state)
	assert.Equal(t, NodeAttack, next)

	exchange.Invoke2(world, InputListener.OnAttackInput, 0.0, 0.0)
	tickUntil(t, p, 30, func() bool { return p.Attack.Strikes() == 1 })
	assert.Equal(t, "wait", p.Attack.Phase())
	assert.True(t, p.Animator.Paused())
	assert.Greater(t, p.Locomotor.Velocity().X, 0.0)

	tickUntil(t, p, 120, func() bool { return p.Attack.Phase() == "ready" })
	tickUntil(t, p, 60, func() bool { s, n := p.State(); return s == NodeIdle && n == "" })

	assert.Subset(t, p.Trace.Lines(), []string{
		"idle.OnExitSolo",
		"attack.OnEnter",
		"attack.OnEnterSolo",
		"attack.OnExitSolo",
		"attack.OnExit",
	})
	assert.Equal(t, int64(1), p.Script.State()["solo"])
	for _, o := range p.Observers {
		assert.LessOrEqual(t, o.Active(), 1)
	}
}

func TestPlayerRollIsCooldownGated(t *testing.T) {
	p := newTestPlayer(t)
	p.Tick(frame)

	exchange.Invoke1(p.World.Exchange, InputListener.OnRollInput, true)
	p.Tick(frame)
	assert.True(t, p.Roll.IsRolling())
	assert.Greater(t, p.Locomotor.Speed(), 0.0)

	for i := 0; i < 40; i++ {
		p.Tick(frame)
	}
	assert.Equal(t, 1, count(p.Trace.Lines(), "roll.OnEnter"))

	for i := 0; i < 60; i++ {
		p.Tick(frame)
	}
	assert.GreaterOrEqual(t, count(p.Trace.Lines(), "roll.OnEnter"), 2)
}

func TestPlayerGetHitReachesWorld(t *testing.T) {
	p := newTestPlayer(t)
	hits := &hitLog{}
	require.NoError(t, p.World.Exchange.Register(hits))

	p.Tick(frame)
	p.Hit()
	tickUntil(t, p, 30, func() bool { return len(hits.names) > 0 })
	assert.Equal(t, []string{"player"}, hits.names)
}

func TestPlayerDisable(t *testing.T) {
	p := newTestPlayer(t)
	assert.Equal(t, 1, exchange.Len[InputListener](p.World.Exchange))
	assert.Equal(t, 3, exchange.Len[IdleAnim](p.Local))
	assert.Equal(t, 1, exchange.Len[AttackAnim](p.Local))
	assert.Equal(t, 2, exchange.Len[RollAnim](p.Local))
	assert.Equal(t, 1, exchange.Len[GetHitAnim](p.Local))
	assert.Equal(t, 1, exchange.Len[ScriptEventListener](p.Local))
	assert.Equal(t, 1, exchange.Len[AttackLifecycle](p.Local))

	p.Disable()
	assert.False(t, p.Enabled())
	assert.Zero(t, exchange.Len[InputListener](p.World.Exchange))
	assert.Zero(t, p.Local.Len())

	exchange.Invoke2(p.World.Exchange, InputListener.OnAttackInput, 1.0, 0.0)
	assert.Zero(t, p.Control.AttackStrength())

	p.Tick(frame)
	assert.Equal(t, "wait", p.Attack.Phase())
	require.NoError(t, p.Enable())
	require.NoError(t, p.Enable())
	assert.Equal(t, 5, p.Local.Len())
}

func TestPlayerDisableSilencesScript(t *testing.T) {
	p := newTestPlayer(t)
	p.Tick(frame)
	p.Disable()

	p.Animator.SetTrigger(NodeAttack)
	for i := 0; i < 60; i++ {
		p.Tick(frame)
	}
	assert.Equal(t, 1, count(p.Trace.Lines(), "attack.OnEnterSolo"))
	assert.Empty(t, p.Script.State())
	assert.Zero(t, p.Attack.Strikes())
}

func TestPlayerReloadScript(t *testing.T) {
	p := newTestPlayer(t)
	require.NoError(t, p.ReloadScript([]byte(`hooks := {}`)))
	assert.Error(t, p.ReloadScript([]byte(`hooks :=`)))
}
