// Package exchange routes calls to every registered subscriber that implements
// a given capability interface.
//
// A capability is any Go interface with at least one method. Subscribers are
// registered once and indexed against every capability they implement, so a
// dispatch is a map lookup followed by a loop:
//
//	type DamageListener interface{ OnDamaged(amount int) }
//
//	x := exchange.New(exchange.WithName("player"))
//	_ = x.Register(health)
//	exchange.Invoke1(x, DamageListener.OnDamaged, 10)
//
// Go interfaces are satisfied structurally, so two capability types with the
// same method set select the same subscribers. Give each capability its own
// method names.
package exchange

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/milk9111/signpost/logging"
	"github.com/milk9111/signpost/metrics"
)

var (
	ErrNilSubscriber = errors.New("exchange: subscriber is nil")
	ErrNotComparable = errors.New("exchange: subscriber is not comparable")
	ErrNotCapability = errors.New("exchange: capability must be an interface with methods")
)

// Exchange maps capability types to the subscribers that implement them. It is
// not safe for concurrent use; all calls belong to the frame thread.
type Exchange struct {
	name         string
	subscribers  *subscriberSet
	capabilities map[reflect.Type]*subscriberSet
	buffers      [][]any
	// generation increases with every registration so a dispatch can tell
	// subscribers that joined after it started.
	generation uint64

	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Exchange)

func WithName(name string) Option {
	return func(x *Exchange) { x.name = name }
}

func WithLogger(l *slog.Logger) Option {
	return func(x *Exchange) { x.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(x *Exchange) { x.metrics = m }
}

// New creates an empty exchange.
func New(opts ...Option) *Exchange {
	x := &Exchange{
		name:         "exchange",
		subscribers:  newSubscriberSet(),
		capabilities: make(map[reflect.Type]*subscriberSet),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(x)
		}
	}
	x.logger = logging.OrNop(x.logger)
	return x
}

func (x *Exchange) Name() string {
	if x == nil {
		return ""
	}
	return x.name
}

// Len returns the number of registered subscribers.
func (x *Exchange) Len() int {
	if x == nil {
		return 0
	}
	return x.subscribers.len()
}

// Register adds sub to every declared capability it implements. Capabilities
// declared later pick it up at declaration time. Registering twice is a no-op.
func (x *Exchange) Register(sub any) error {
	if x == nil {
		return nil
	}
	if sub == nil {
		return ErrNilSubscriber
	}
	t := reflect.TypeOf(sub)
	if !hashable(sub) {
		return fmt.Errorf("%w: %s", ErrNotComparable, t)
	}
	if x.subscribers.has(sub) {
		return nil
	}
	x.generation++
	x.subscribers.add(sub, x.generation)
	for capType, set := range x.capabilities {
		if t.Implements(capType) {
			set.add(sub, x.generation)
		}
	}
	return nil
}

// Deregister removes sub from every capability. Unknown subscribers are ignored.
func (x *Exchange) Deregister(sub any) {
	if x == nil || sub == nil || !hashable(sub) {
		return
	}
	if !x.subscribers.remove(sub) {
		return
	}
	for _, set := range x.capabilities {
		set.remove(sub)
	}
}

// Declare indexes capability C against the current subscribers. Invoke does this
// lazily, so Declare is only needed to surface ErrNotCapability early or to
// move the one-off scan off a hot frame.
func Declare[C any](x *Exchange) error {
	t := reflect.TypeFor[C]()
	if !isCapability(t) {
		return fmt.Errorf("%w: %s", ErrNotCapability, t)
	}
	x.capability(t)
	return nil
}

// Len returns the number of subscribers implementing C.
func Len[C any](x *Exchange) int {
	return x.capability(reflect.TypeFor[C]()).len()
}

// Subscribed reports whether sub currently receives invocations of C.
func Subscribed[C any](x *Exchange, sub any) bool {
	if sub == nil || !hashable(sub) {
		return false
	}
	return x.capability(reflect.TypeFor[C]()).has(sub)
}

// hashable reports whether sub can be used as a map key. It looks at dynamic
// values, so a struct holding a slice in an interface field is rejected.
func hashable(sub any) bool {
	return reflect.ValueOf(sub).Comparable()
}

func isCapability(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface && t.NumMethod() > 0
}

// capability returns the subscriber set for t, building it on first use. It
// returns nil when t is not a capability.
func (x *Exchange) capability(t reflect.Type) *subscriberSet {
	if x == nil {
		return nil
	}
	if set, ok := x.capabilities[t]; ok {
		return set
	}
	if !isCapability(t) {
		return nil
	}
	set := newSubscriberSet()
	for _, sub := range x.subscribers.values() {
		if reflect.TypeOf(sub).Implements(t) {
			gen, _ := x.subscribers.generation(sub)
			set.add(sub, gen)
		}
	}
	x.capabilities[t] = set
	return set
}
