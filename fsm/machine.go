package fsm

import (
	"errors"
	"log/slog"
	"reflect"

	"github.com/milk9111/signpost/logging"
	"github.com/milk9111/signpost/metrics"
)

var ErrNotInitialized = errors.New("fsm: machine used before Init")

// Machine holds the current state of one owner plus a lazily built instance of
// every state type it has visited.
type Machine[C any] struct {
	ctx         C
	current     State[C]
	currentType reflect.Type
	instances   map[reflect.Type]State[C]

	name    string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type config struct {
	name    string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*config)

func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

func New[C any](opts ...Option) *Machine[C] {
	cfg := config{name: "fsm"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Machine[C]{
		instances: make(map[reflect.Type]State[C]),
		name:      cfg.name,
		logger:    logging.OrNop(cfg.logger),
		metrics:   cfg.metrics,
	}
}

// Init binds ctx and enters T. Call it exactly once, before anything else.
func Init[T any, PT Ptr[T, C], C any](m *Machine[C], ctx C) PT {
	m.ctx = ctx
	s := resolve[T, PT](m)
	m.current = s
	m.currentType = reflect.TypeFor[T]()
	m.logger.Debug("fsm: init", "machine", m.name, "state", m.currentType.Name())
	s.OnEnter()
	return s
}

// TransitionTo makes T the current state. Transitioning to the current state
// is a no-op: neither OnExit nor OnEnter runs.
func TransitionTo[T any, PT Ptr[T, C], C any](m *Machine[C]) {
	m.mustBeInitialized()
	next := resolve[T, PT](m)
	if State[C](next) == m.current {
		return
	}
	from := m.currentType
	m.current.OnExit()
	m.current = next
	m.currentType = reflect.TypeFor[T]()
	m.metrics.ObserveTransition(m.name)
	m.logger.Debug("fsm: transition", "machine", m.name, "from", from.Name(), "to", m.currentType.Name())
	m.current.OnEnter()
}

// InstanceOf returns the machine's instance of T, creating it and running
// OnCreate the first time. Like every other call it needs Init first, since
// new states are bound to the machine's context.
func InstanceOf[T any, PT Ptr[T, C], C any](m *Machine[C]) PT {
	m.mustBeInitialized()
	return resolve[T, PT](m)
}

func resolve[T any, PT Ptr[T, C], C any](m *Machine[C]) PT {
	t := reflect.TypeFor[T]()
	if s, ok := m.instances[t]; ok {
		return s.(PT)
	}
	if m.instances == nil {
		m.instances = make(map[reflect.Type]State[C])
	}
	s := PT(new(T))
	s.bind(m.ctx)
	m.instances[t] = s
	s.OnCreate()
	return s
}

// Is reports whether T is the current state.
func Is[T any, PT Ptr[T, C], C any](m *Machine[C]) bool {
	return m != nil && m.currentType == reflect.TypeFor[T]()
}

func (m *Machine[C]) FixedUpdate() {
	m.mustBeInitialized()
	m.current.OnFixedUpdate()
}

func (m *Machine[C]) Update() {
	m.mustBeInitialized()
	m.current.OnUpdate()
}

func (m *Machine[C]) LateUpdate() {
	m.mustBeInitialized()
	m.current.OnLateUpdate()
}

func (m *Machine[C]) Current() State[C] {
	if m == nil {
		return nil
	}
	return m.current
}

// CurrentName returns the type name of the current state, or "" before Init.
func (m *Machine[C]) CurrentName() string {
	if m == nil || m.currentType == nil {
		return ""
	}
	return m.currentType.Name()
}

func (m *Machine[C]) Context() C {
	return m.ctx
}

func (m *Machine[C]) Name() string {
	return m.name
}

func (m *Machine[C]) mustBeInitialized() {
	if m == nil || m.current == nil {
		panic(ErrNotInitialized)
	}
}
