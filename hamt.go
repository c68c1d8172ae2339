package gohamt

import "reflect"


//============================================= gohamt Root Wrapper


// Pair
//	A single key-value record, used for bulk construction and flattening.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Map
//	The persistent associative container. A Map value is immutable once
//	constructed: every mutating operation (Add, Remove) returns a new Map
//	that shares unmodified structure with its receiver rather than changing
//	it in place. The zero value of Map is not usable; construct one with
//	New or OfSlice.
type Map[K, V any, H Hasher[K]] struct {
	hasher     H
	valueEqual func(V, V) bool
	root       *node[K, V]
	count      int
}

// New
//	Builds the empty Map for the given equality provider.
func New[K, V any, H Hasher[K]](hasher H) *Map[K, V, H] {
	return &Map[K, V, H]{hasher: hasher, root: emptyNode[K, V](), count: 0}
}

// IsEmpty
//	Reports whether the map holds zero entries.
func (m *Map[K, V, H]) IsEmpty() bool {
	return m.count == 0
}

// Count
//	Returns the number of distinct keys currently stored. Maintained
//	incrementally on every Add/Remove rather than computed by traversal.
func (m *Map[K, V, H]) Count() int {
	return m.count
}

// Contains
//	Reports whether key is present.
func (m *Map[K, V, H]) Contains(key K) bool {
	_, ok := m.TryFind(key)
	return ok
}

// TryFind
//	Looks up key, returning its value and true if present, or the zero
//	value of V and false otherwise.
func (m *Map[K, V, H]) TryFind(key K) (V, bool) {
	hash := m.hasher.Hash(key)
	return lookupNode(m.root, m.hasher, key, hash, 0)
}

// Add
//	Returns a new Map with key bound to value, leaving the receiver
//	untouched. If key was already present its value is replaced and Count
//	does not change; otherwise Count grows by one.
func (m *Map[K, V, H]) Add(key K, value V) *Map[K, V, H] {
	hash := m.hasher.Hash(key)
	newRoot, inserted := insertNode(m.root, m.hasher, key, value, hash, 0)

	newCount := m.count
	if inserted { newCount++ }

	return &Map[K, V, H]{hasher: m.hasher, valueEqual: m.valueEqual, root: newRoot, count: newCount}
}

// Remove
//	Returns a new Map with key absent, leaving the receiver untouched. If
//	key was not present the returned Map is structurally identical to the
//	receiver (though not the same pointer) and Count is unchanged.
func (m *Map[K, V, H]) Remove(key K) *Map[K, V, H] {
	hash := m.hasher.Hash(key)
	result := removeNode(m.root, m.hasher, key, hash, 0, true)

	if !result.removed {
		return &Map[K, V, H]{hasher: m.hasher, valueEqual: m.valueEqual, root: m.root, count: m.count}
	}

	return &Map[K, V, H]{hasher: m.hasher, valueEqual: m.valueEqual, root: result.node, count: m.count - 1}
}

// Range
//	Calls yield once per entry in an unspecified order (no insertion,
//	sorted, or hash order is guaranteed) until either every entry has been
//	visited or yield returns false.
func (m *Map[K, V, H]) Range(yield func(K, V) bool) {
	iterateNode(m.root, yield)
}

// ToSlice
//	Flattens the map into a slice of Pairs, in the same unspecified order
//	Range visits them.
func (m *Map[K, V, H]) ToSlice() []Pair[K, V] {
	out := make([]Pair[K, V], 0, m.count)
	m.Range(func(k K, v V) bool {
		out = append(out, Pair[K, V]{Key: k, Value: v})
		return true
	})

	return out
}

// Equal
//	Reports whether m and other contain the same key-value pairs. valueEqual
//	compares two values for equality; if nil, reflect.DeepEqual is used.
//	Keys are always compared with m's own equality provider.
func (m *Map[K, V, H]) Equal(other *Map[K, V, H], valueEqual func(V, V) bool) bool {
	if m.count != other.count { return false }

	if valueEqual == nil {
		valueEqual = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}

	return nodesEqual(m.root, other.root, m.hasher.Equal, valueEqual)
}


//============================================= Bulk Build


// OfSlice
//	Builds a Map from items in a single pass, using a transient mutation
//	window so that intermediate nodes are mutated in place rather than
//	copied on every insert. The returned Map is fully immutable; nothing
//	outside this call ever observes the transient state.
func OfSlice[K, V any, H Hasher[K]](hasher H, items []Pair[K, V]) *Map[K, V, H] {
	tok := &builder_{}
	root := &node[K, V]{owner: tok}
	count := 0

	for _, item := range items {
		hash := hasher.Hash(item.Key)
		newRoot, inserted := transientInsert(root, hasher, item.Key, item.Value, hash, 0, tok)
		root = newRoot
		if inserted { count++ }
	}

	root = seal(root, tok)
	pkgLog.Debug("bulk build complete, entries:", count)

	return &Map[K, V, H]{hasher: hasher, root: root, count: count}
}
