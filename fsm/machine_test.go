package fsm

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/signpost/metrics"
)

type owner struct {
	m   *Machine[*owner]
	log []string
}

func (o *owner) record(s string) { o.log = append(o.log, s) }

type stateA struct {
	Base[*owner]
	created int
	entered int
}

func (s *stateA) OnCreate()      { s.created++; s.Context().record("a.create") }
func (s *stateA) OnEnter()       { s.entered++; s.Context().record("a.enter") }
func (s *stateA) OnExit()        { s.Context().record("a.exit") }
func (s *stateA) OnUpdate()      { s.Context().record("a.update") }
func (s *stateA) OnFixedUpdate() { s.Context().record("a.fixed") }
func (s *stateA) OnLateUpdate()  { s.Context().record("a.late") }

type stateB struct {
	Base[*owner]
}

func (s *stateB) OnEnter()  { s.Context().record("b.enter") }
func (s *stateB) OnExit()   { s.Context().record("b.exit") }
func (s *stateB) OnUpdate() { s.Context().record("b.update") }

// stateHop leaves for stateB from its own update, the way gameplay states poll
// their owner and move on.
type stateHop struct {
	Base[*owner]
}

func (s *stateHop) OnUpdate() { TransitionTo[stateB](s.Context().m) }

func newOwner() *owner {
	o := &owner{}
	o.m = New[*owner](WithName("test"))
	return o
}

func TestInitEntersInitialState(t *testing.T) {
	o := newOwner()
	a := Init[stateA](o.m, o)

	require.NotNil(t, a)
	assert.Equal(t, []string{"a.create", "a.enter"}, o.log)
	assert.Same(t, o, a.Context())
	assert.Same(t, o, o.m.Context())
	assert.True(t, Is[stateA](o.m))
	assert.Equal(t, "stateA", o.m.CurrentName())
}

func TestTransitionToCurrentIsNoop(t *testing.T) {
	o := newOwner()
	Init[stateA](o.m, o)
	o.log = nil

	TransitionTo[stateA](o.m)
	TransitionTo[stateA](o.m)

	assert.Empty(t, o.log)
}

func TestStatesAreMemoized(t *testing.T) {
	o := newOwner()
	a := Init[stateA](o.m, o)

	TransitionTo[stateB](o.m)
	TransitionTo[stateA](o.m)
	TransitionTo[stateB](o.m)
	TransitionTo[stateA](o.m)

	assert.Same(t, a, InstanceOf[stateA](o.m))
	assert.Equal(t, 1, a.created)
	assert.Equal(t, 3, a.entered)
	assert.Equal(t, []string{
		"a.create", "a.enter",
		"a.exit", "b.enter",
		"b.exit", "a.enter",
		"a.exit", "b.enter",
		"b.exit", "a.enter",
	}, o.log)
}

func TestInstanceOfDoesNotTransition(t *testing.T) {
	o := newOwner()
	Init[stateB](o.m, o)
	o.log = nil

	a := InstanceOf[stateA](o.m)

	assert.Equal(t, 1, a.created)
	assert.Equal(t, 0, a.entered)
	assert.True(t, Is[stateB](o.m))
	assert.Equal(t, []string{"a.create"}, o.log)
}

func TestInstanceOfBeforeInitPanics(t *testing.T) {
	o := newOwner()
	assert.PanicsWithValue(t, ErrNotInitialized, func() { InstanceOf[stateB](o.m) })

	Init[stateA](o.m, o)
	o.log = nil
	TransitionTo[stateB](o.m)
	assert.Equal(t, []string{"a.exit", "b.enter"}, o.log)
	assert.Same(t, o, InstanceOf[stateB](o.m).Context())
}

func TestUpdatesReachCurrentStateOnly(t *testing.T) {
	cases := []struct {
		name string
		run  func(m *Machine[*owner])
		want string
	}{
		{"fixed", (*Machine[*owner]).FixedUpdate, "a.fixed"},
		{"update", (*Machine[*owner]).Update, "a.update"},
		{"late", (*Machine[*owner]).LateUpdate, "a.late"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := newOwner()
			Init[stateA](o.m, o)
			InstanceOf[stateB](o.m)
			o.log = nil

			c.run(o.m)

			assert.Equal(t, []string{c.want}, o.log)
		})
	}
}

func TestTransitionFromUpdate(t *testing.T) {
	o := newOwner()
	Init[stateHop](o.m, o)

	o.m.Update()
	o.m.Update()

	assert.True(t, Is[stateB](o.m))
	assert.Equal(t, []string{"b.enter", "b.update"}, o.log)
}

func TestMachineCountsTransitions(t *testing.T) {
	m := metrics.New(nil)
	o := &owner{}
	o.m = New[*owner](WithName("attack"), WithMetrics(m))
	Init[stateA](o.m, o)

	TransitionTo[stateB](o.m)
	TransitionTo[stateB](o.m)
	TransitionTo[stateA](o.m)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("attack")))
}

func TestUseBeforeInitPanics(t *testing.T) {
	o := newOwner()
	assert.PanicsWithValue(t, ErrNotInitialized, func() { TransitionTo[stateA](o.m) })
	assert.PanicsWithValue(t, ErrNotInitialized, o.m.Update)
	assert.Equal(t, "", o.m.CurrentName())
}
