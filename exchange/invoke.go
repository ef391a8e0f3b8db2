package exchange

import (
	"fmt"
	"reflect"
)

// Invoke calls f on every subscriber of C.
func Invoke[C any](x *Exchange, f func(C)) {
	if f == nil {
		return
	}
	dispatch[C](x, func(sub any) { f(sub.(C)) })
}

// Invoke1 calls f with one extra argument on every subscriber of C.
func Invoke1[C, A any](x *Exchange, f func(C, A), a A) {
	if f == nil {
		return
	}
	dispatch[C](x, func(sub any) { f(sub.(C), a) })
}

// Invoke2 calls f with two extra arguments on every subscriber of C.
func Invoke2[C, A, B any](x *Exchange, f func(C, A, B), a A, b B) {
	if f == nil {
		return
	}
	dispatch[C](x, func(sub any) { f(sub.(C), a, b) })
}

// Invoke3 calls f with three extra arguments on every subscriber of C.
func Invoke3[C, A, B, D any](x *Exchange, f func(C, A, B, D), a A, b B, d D) {
	if f == nil {
		return
	}
	dispatch[C](x, func(sub any) { f(sub.(C), a, b, d) })
}

// dispatch iterates over a snapshot of the subscriber set so callbacks may
// register or deregister freely. Subscribers added mid-dispatch are not called;
// subscribers removed mid-dispatch are skipped from then on, even when they
// register again before their turn.
func dispatch[C any](x *Exchange, call func(sub any)) {
	t := reflect.TypeFor[C]()
	set := x.capability(t)
	if set.len() == 0 {
		return
	}

	started := x.generation
	snapshot := x.acquire(set.values())
	defer x.release(snapshot)

	for _, sub := range snapshot {
		if gen, ok := set.generation(sub); !ok || gen > started {
			continue
		}
		x.call(t, sub, call)
	}
}

// call runs one callback, recovering a panic so the remaining subscribers
// still get theirs.
func (x *Exchange) call(t reflect.Type, sub any, call func(sub any)) {
	defer func() {
		if r := recover(); r != nil {
			x.metrics.ObservePanic(x.name, t.String())
			x.logger.Error("exchange: subscriber panicked",
				"exchange", x.name,
				"capability", t.String(),
				"subscriber", fmt.Sprintf("%T", sub),
				"error", r,
			)
		}
	}()
	x.metrics.ObserveDispatch(x.name, t.String())
	call(sub)
}

func (x *Exchange) acquire(values []any) []any {
	var buf []any
	if n := len(x.buffers); n > 0 {
		buf = x.buffers[n-1]
		x.buffers = x.buffers[:n-1]
	}
	return append(buf[:0], values...)
}

func (x *Exchange) release(buf []any) {
	clear(buf)
	x.buffers = append(x.buffers, buf[:0])
}
