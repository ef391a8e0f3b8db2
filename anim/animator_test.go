package anim

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/signpost/metrics"
	"github.com/milk9111/signpost/transition"
)

const dt = 0.05

func testController() ControllerSpec {
	return ControllerSpec{
		Name: "test",
		Layers: []LayerSpec{{
			Name:    "base",
			Default: "idle",
			States: []StateSpec{
				{Name: "idle", Duration: 1, Loop: true},
				{Name: "attack", Duration: 0.5},
			},
			Transitions: []TransitionSpec{
				{From: AnyState, To: "attack", Trigger: "attack", Duration: 0.08, CanTransitionToSelf: true},
				{From: "attack", To: "idle", ExitTime: 0.8, Duration: 0.08},
			},
		}},
	}
}

type lifecycleLog struct {
	calls []string
}

func (l *lifecycleLog) OnEnter()          { l.calls = append(l.calls, "Enter") }
func (l *lifecycleLog) OnUpdateEntering() { l.calls = append(l.calls, "UpdateEntering") }
func (l *lifecycleLog) OnEnterSolo()      { l.calls = append(l.calls, "EnterSolo") }
func (l *lifecycleLog) OnUpdate()         { l.calls = append(l.calls, "Update") }
func (l *lifecycleLog) OnUpdateSolo()     { l.calls = append(l.calls, "UpdateSolo") }
func (l *lifecycleLog) OnExitSolo()       { l.calls = append(l.calls, "ExitSolo") }
func (l *lifecycleLog) OnUpdateExiting()  { l.calls = append(l.calls, "UpdateExiting") }
func (l *lifecycleLog) OnExit()           { l.calls = append(l.calls, "Exit") }

// shape drops the plain Update calls and collapses repeats so traces do not
// depend on how many ticks a phase lasted.
func (l *lifecycleLog) shape() []string {
	var out []string
	for _, c := range l.calls {
		if c == "Update" {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == c {
			continue
		}
		out = append(out, c)
	}
	return out
}

type rawLog struct {
	frames []string
}

func (r *rawLog) Enter(f transition.Frame)  { r.add("enter", f) }
func (r *rawLog) Update(f transition.Frame) { r.add("update", f) }
func (r *rawLog) Exit(f transition.Frame)   { r.add("exit", f) }

func (r *rawLog) add(op string, f transition.Frame) {
	if f.Blending {
		op += "~"
	}
	r.frames = append(r.frames, op+":"+f.State)
}

func newAnimator(t *testing.T) *Animator {
	t.Helper()
	a, err := NewAnimator(testController())
	require.NoError(t, err)
	return a
}

func tick(a *Animator, n int) {
	for i := 0; i < n; i++ {
		a.Update(dt)
	}
}

func TestAnimatorRawStream(t *testing.T) {
	a := newAnimator(t)
	raw := &rawLog{}
	require.NoError(t, a.Attach("base", "idle", raw))
	require.NoError(t, a.Attach("base", "attack", raw))

	tick(a, 1)
	a.SetTrigger("attack")
	tick(a, 2)

	assert.Equal(t, []string{
		"enter:idle", "update:idle",
		"update~:idle", "enter~:attack", "update~:attack",
		"update~:idle", "update~:attack", "exit:idle",
	}, raw.frames)

	state, next, blending := a.Current("base")
	assert.Equal(t, "attack", state)
	assert.Empty(t, next)
	assert.False(t, blending)
}

func TestAnimatorDrivesObserver(t *testing.T) {
	a := newAnimator(t)
	log := &lifecycleLog{}
	o := transition.NewObserver(log)
	require.NoError(t, a.Attach("base", "attack", o))

	tick(a, 2)
	a.SetTrigger("attack")
	tick(a, 30)

	assert.Equal(t, []string{
		"Enter", "UpdateEntering",
		"EnterSolo", "UpdateSolo",
		"ExitSolo", "UpdateExiting",
		"Exit",
	}, log.shape())
	assert.Equal(t, 0, o.Active())

	state, _, _ := a.Current("base")
	assert.Equal(t, "idle", state)
}

func TestAnimatorSelfTransition(t *testing.T) {
	a := newAnimator(t)
	log := &lifecycleLog{}
	o := transition.NewObserver(log)
	require.NoError(t, a.Attach("base", "attack", o))

	a.SetTrigger("attack")
	tick(a, 4)
	assert.Equal(t, []string{"Enter", "UpdateEntering", "EnterSolo", "UpdateSolo"}, log.shape())

	log.calls = nil
	a.SetTrigger("attack")
	tick(a, 1)
	assert.Equal(t, 2, o.Active())
	tick(a, 2)

	assert.Equal(t, []string{
		"ExitSolo", "UpdateExiting",
		"Enter", "UpdateEntering",
		"UpdateExiting",
		"UpdateEntering",
		"Exit",
		"EnterSolo", "UpdateSolo",
	}, log.shape())
	assert.Equal(t, 1, o.Active())
}

func TestAnimatorSelfTransitionNeedsOptIn(t *testing.T) {
	spec := testController()
	spec.Layers[0].Transitions[0].CanTransitionToSelf = false
	a, err := NewAnimator(spec)
	require.NoError(t, err)
	raw := &rawLog{}
	require.NoError(t, a.Attach("base", "attack", raw))

	a.SetTrigger("attack")
	tick(a, 4)
	before := len(raw.frames)

	a.SetTrigger("attack")
	tick(a, 1)
	assert.Equal(t, []string{"update:attack"}, raw.frames[before:])
}

func TestAnimatorPlayBeforeStartSkipsEnter(t *testing.T) {
	m := metrics.New(nil)
	a := newAnimator(t)
	log := &lifecycleLog{}
	o := transition.NewObserver(log, transition.WithMetrics(m))
	require.NoError(t, a.Attach("base", "attack", o))

	require.NoError(t, a.Play("base", "attack"))
	tick(a, 30)

	assert.Empty(t, log.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Violations.WithLabelValues("exit_empty")))
	assert.Positive(t, testutil.ToFloat64(m.Violations.WithLabelValues("update_unmatched")))
}

func TestAnimatorPlayAfterStart(t *testing.T) {
	a := newAnimator(t)
	raw := &rawLog{}
	require.NoError(t, a.Attach("base", "idle", raw))
	require.NoError(t, a.Attach("base", "attack", raw))

	tick(a, 1)
	require.NoError(t, a.Play("base", "attack"))
	assert.Equal(t, []string{"enter:idle", "update:idle", "exit:idle", "enter:attack"}, raw.frames)
	assert.Zero(t, a.Progress("base"))
}

func TestAnimatorCrossFadeFinishesPendingBlend(t *testing.T) {
	a := newAnimator(t)
	raw := &rawLog{}
	require.NoError(t, a.Attach("base", "idle", raw))
	require.NoError(t, a.Attach("base", "attack", raw))

	require.NoError(t, a.CrossFade("base", "attack", 0.5))
	require.NoError(t, a.CrossFade("base", "idle", 0.5))

	assert.Equal(t, []string{"enter:idle", "enter~:attack", "exit:idle", "enter~:idle"}, raw.frames)
	state, next, blending := a.Current("base")
	assert.Equal(t, "attack", state)
	assert.Equal(t, "idle", next)
	assert.True(t, blending)
}

func TestAnimatorPause(t *testing.T) {
	a := newAnimator(t)
	tick(a, 1)
	p := a.Progress("base")

	a.SetPause(0.1)
	assert.True(t, a.Paused())
	tick(a, 2)
	assert.Equal(t, p, a.Progress("base"))
	assert.False(t, a.Paused())

	tick(a, 1)
	assert.Greater(t, a.Progress("base"), p)
}

func TestAnimatorFinished(t *testing.T) {
	spec := testController()
	spec.Layers[0].Transitions = spec.Layers[0].Transitions[:1]
	a, err := NewAnimator(spec)
	require.NoError(t, err)

	a.SetTrigger("attack")
	tick(a, 3)
	assert.False(t, a.Finished("base"))
	tick(a, 10)
	assert.True(t, a.Finished("base"))
}

func TestAnimatorLookupErrors(t *testing.T) {
	a := newAnimator(t)
	assert.ErrorIs(t, a.Play("upper", "idle"), ErrUnknownLayer)
	assert.ErrorIs(t, a.CrossFade("base", "jump", 0.1), ErrUnknownState)
	assert.ErrorIs(t, a.Attach("base", AnyState, &rawLog{}), ErrUnknownState)
}

func TestControllerValidate(t *testing.T) {
	spec := ControllerSpec{
		Name: "broken",
		Layers: []LayerSpec{{
			Name:    "base",
			Default: "missing",
			States: []StateSpec{
				{Name: "idle", Duration: 0},
				{Name: "idle", Duration: 1},
			},
			Transitions: []TransitionSpec{
				{From: "idle", To: "nowhere"},
			},
		}},
	}
	err := spec.Validate()
	require.ErrorIs(t, err, ErrInvalidController)
	for _, want := range []string{
		"positive duration",
		"duplicate state",
		"default state",
		"transition target",
		"needs a trigger or exit_time",
	} {
		assert.Contains(t, err.Error(), want)
	}

	_, err = NewAnimator(ControllerSpec{Name: "empty"})
	assert.ErrorIs(t, err, ErrInvalidController)
	assert.NoError(t, testController().Validate())
}
