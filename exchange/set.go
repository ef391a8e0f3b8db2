package exchange

type entry struct {
	pos int
	// gen is the exchange generation the subscriber was registered in.
	gen uint64
}

// subscriberSet is a dense list of subscribers with an index for O(1)
// membership tests and swap-remove.
type subscriberSet struct {
	dense []any
	index map[any]entry
}

func newSubscriberSet() *subscriberSet {
	return &subscriberSet{index: make(map[any]entry)}
}

func (s *subscriberSet) has(sub any) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[sub]
	return ok
}

// generation returns the generation sub was added in.
func (s *subscriberSet) generation(sub any) (uint64, bool) {
	if s == nil {
		return 0, false
	}
	e, ok := s.index[sub]
	return e.gen, ok
}

// add inserts sub and reports whether it was absent.
func (s *subscriberSet) add(sub any, gen uint64) bool {
	if s == nil || s.has(sub) {
		return false
	}
	s.index[sub] = entry{pos: len(s.dense), gen: gen}
	s.dense = append(s.dense, sub)
	return true
}

// remove deletes sub and reports whether it was present. The last element
// takes the removed slot, so order is not preserved.
func (s *subscriberSet) remove(sub any) bool {
	if s == nil {
		return false
	}
	e, ok := s.index[sub]
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	moved := s.dense[last]
	s.dense[e.pos] = moved
	if moved != sub {
		me := s.index[moved]
		me.pos = e.pos
		s.index[moved] = me
	}
	s.dense[last] = nil
	s.dense = s.dense[:last]
	delete(s.index, sub)
	return true
}

func (s *subscriberSet) len() int {
	if s == nil {
		return 0
	}
	return len(s.dense)
}

// values returns the dense slice. Callers must not hold it across a mutation.
func (s *subscriberSet) values() []any {
	if s == nil {
		return nil
	}
	return s.dense
}
