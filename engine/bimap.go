package engine

import "fmt"

// biMap is a bijection kept as two plain maps. Insertion goes through
// getOrPut only, so the maps can not drift apart.
type biMap[K, V comparable] struct {
	forward  map[K]V
	backward map[V]K
}

func newBiMap[K, V comparable]() *biMap[K, V] {
	return &biMap[K, V]{
		forward:  make(map[K]V),
		backward: make(map[V]K),
	}
}

func (m *biMap[K, V]) get(k K) (V, bool) {
	v, ok := m.forward[k]
	return v, ok
}

func (m *biMap[K, V]) key(v V) (K, bool) {
	k, ok := m.backward[v]
	return k, ok
}

func (m *biMap[K, V]) len() int { return len(m.forward) }

// getOrPut returns the value for k, allocating one with next if absent. It
// panics when next returns a value already bound to another key.
func (m *biMap[K, V]) getOrPut(k K, next func() V) (V, bool) {
	if v, ok := m.forward[k]; ok {
		return v, false
	}
	v := next()
	if other, taken := m.backward[v]; taken {
		panic(fmt.Sprintf("bimap: value %v of %v already bound to %v", v, k, other))
	}
	m.forward[k] = v
	m.backward[v] = k
	return v, true
}
