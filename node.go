package gohamt

import "github.com/sirgallo/utils"

//============================================= gohamt Trie Node


// leaf
//	A single key-value record stored at a trie position.
type leaf[K, V any] struct {
	key   K
	value V
}

// node
//	An inner trie node carries two disjoint compressed arrays: children,
//	indexed by slots that resolve to a deeper node, and entries, indexed by
//	slots that resolve directly to a leaf. No slot is ever set in both at
//	once — an entries slot either holds its single leaf or has already been
//	pushed down into a children slot as part of conflict resolution.
//
//	collision is non-nil only for a hash-collision leaf: a node whose full
//	32-bit hash has been exhausted (shift has reached MAX_SHIFT) with no
//	further bits left to discriminate its occupants, so it falls back to a
//	flat scan. A collision node's children and entries are always
//	zero-valued.
type node[K, V any] struct {
	children  sparseArray[*node[K, V]]
	entries   sparseArray[leaf[K, V]]
	collision []leaf[K, V]

	owner *builder_
}

func emptyNode[K, V any]() *node[K, V] {
	return &node[K, V]{}
}

func (n *node[K, V]) isCollision() bool {
	return n.collision != nil
}

// slotAt
//	Extracts the PARTITION_SIZE-bit shard a hash occupies at a given shift.
//	Hashes are consumed from the least-significant end: shift 0 reads the
//	bottom 5 bits, shift 5 the next 5, and so on. Shifting a uint32 by 32 or
//	more is well-defined in Go and yields 0, so the deepest shard (shift 30,
//	only 2 real bits remaining) never needs special-casing.
func slotAt(hash uint32, shift uint) int {
	return int(hash>>shift) & levelMask
}


//============================================= Lookup


// lookupNode
//	Recursive descent, following children before entries at each slot.
func lookupNode[K, V any, H Hasher[K]](n *node[K, V], hasher H, key K, hash uint32, shift uint) (V, bool) {
	if n.isCollision() {
		for _, rec := range n.collision {
			if hasher.Equal(rec.key, key) { return rec.value, true }
		}

		return utils.GetZero[V](), false
	}

	slot := slotAt(hash, shift)

	if child, ok := n.children.get(slot); ok {
		return lookupNode(child, hasher, key, hash, shift+chunkSize)
	}

	if rec, ok := n.entries.get(slot); ok {
		if hasher.Equal(rec.key, key) { return rec.value, true }

		return utils.GetZero[V](), false
	}

	return utils.GetZero[V](), false
}


//============================================= Insert


// insertNode
//	Recursive persistent insert. Returns the new node for this position and
//	whether the key was previously absent (for count maintenance by the
//	caller).
func insertNode[K, V any, H Hasher[K]](n *node[K, V], hasher H, key K, value V, hash uint32, shift uint) (*node[K, V], bool) {
	if n.isCollision() {
		return collisionInsert(n, hasher, key, value)
	}

	slot := slotAt(hash, shift)

	if child, ok := n.children.get(slot); ok {
		newChild, inserted := insertNode(child, hasher, key, value, hash, shift+chunkSize)
		newChildren := n.children.replaced(slot, newChild)
		return &node[K, V]{children: newChildren, entries: n.entries}, inserted
	}

	if existing, ok := n.entries.get(slot); ok {
		if hasher.Equal(existing.key, key) {
			newEntries := n.entries.replaced(slot, leaf[K, V]{key: key, value: value})
			return &node[K, V]{children: n.children, entries: newEntries}, false
		}

		existingHash := hasher.Hash(existing.key)
		merged := resolveConflict(hasher, existing, existingHash, leaf[K, V]{key: key, value: value}, hash, shift)

		newEntries := n.entries.removed(slot)
		newChildren := n.children.inserted(slot, merged)
		return &node[K, V]{children: newChildren, entries: newEntries}, true
	}

	newEntries := n.entries.inserted(slot, leaf[K, V]{key: key, value: value})
	return &node[K, V]{children: n.children, entries: newEntries}, true
}

// resolveConflict
//	Builds the subtree that replaces a single entries slot when a second key
//	lands on it. existing is the record already at shift; incoming is the
//	new key/value being inserted, both landing on the same slot at shift.
//	If the two keys still share a slot at shift+PARTITION_SIZE, recurse one
//	level deeper; once MAX_SHIFT is reached with no discriminating bit left,
//	fall back to a hash-collision leaf.
func resolveConflict[K, V any, H Hasher[K]](hasher H, existing leaf[K, V], existingHash uint32, incoming leaf[K, V], incomingHash uint32, shift uint) *node[K, V] {
	if shift+chunkSize >= maxShift && existingHash == incomingHash {
		return &node[K, V]{collision: []leaf[K, V]{existing, incoming}}
	}

	nextShift := shift + chunkSize
	existingSlot := slotAt(existingHash, nextShift)
	incomingSlot := slotAt(incomingHash, nextShift)

	if existingSlot != incomingSlot {
		entries := sparseArray[leaf[K, V]]{}
		entries = entries.inserted(existingSlot, existing)
		entries = entries.inserted(incomingSlot, incoming)
		return &node[K, V]{entries: entries}
	}

	child := resolveConflict(hasher, existing, existingHash, incoming, incomingHash, nextShift)
	children := sparseArray[*node[K, V]]{}
	children = children.inserted(existingSlot, child)
	return &node[K, V]{children: children}
}

// collisionInsert
//	Adds or replaces a record within an existing hash-collision leaf.
func collisionInsert[K, V any, H Hasher[K]](n *node[K, V], hasher H, key K, value V) (*node[K, V], bool) {
	for i, rec := range n.collision {
		if hasher.Equal(rec.key, key) {
			newCollision := make([]leaf[K, V], len(n.collision))
			copy(newCollision, n.collision)
			newCollision[i] = leaf[K, V]{key: key, value: value}
			return &node[K, V]{collision: newCollision}, false
		}
	}

	newCollision := make([]leaf[K, V], len(n.collision)+1)
	copy(newCollision, n.collision)
	newCollision[len(n.collision)] = leaf[K, V]{key: key, value: value}
	return &node[K, V]{collision: newCollision}, true
}


//============================================= Remove


// removeResult carries the outcome of a remove descent back to the parent
// frame, which inspects node directly (its children/entries counts) to
// decide whether to keep, promote, or drop the slot that produced it,
// rather than threading a separate tag value through the recursion.
type removeResult[K, V any] struct {
	node    *node[K, V]
	removed bool
}

// removeNode
//	Recursive persistent remove, including path contraction: a non-root
//	inner node left with zero children and exactly one entry is contracted
//	away entirely, its single entry promoted into the parent.
func removeNode[K, V any, H Hasher[K]](n *node[K, V], hasher H, key K, hash uint32, shift uint, isRoot bool) removeResult[K, V] {
	if n.isCollision() {
		return removeFromCollision(n, hasher, key)
	}

	slot := slotAt(hash, shift)

	if child, ok := n.children.get(slot); ok {
		sub := removeNode(child, hasher, key, hash, shift+chunkSize, false)
		if !sub.removed { return removeResult[K, V]{node: n, removed: false} }

		// A returned child that still has children of its own, more than one
		// entry, or is a collision leaf stays exactly where it is: the
		// minimality invariant only forces contraction of a child that has
		// been reduced to "no children, at most one entry".
		if sub.node.isCollision() || sub.node.children.count() > 0 || sub.node.entries.count() > 1 {
			newChildren := n.children.replaced(slot, sub.node)
			return removeResult[K, V]{node: &node[K, V]{children: newChildren, entries: n.entries}, removed: true}
		}

		if sub.node.entries.count() == 1 {
			promoted := sub.node.entries.content[0]
			newChildren := n.children.removed(slot)
			newEntries := n.entries.inserted(slot, promoted)
			candidate := &node[K, V]{children: newChildren, entries: newEntries}
			return removeResult[K, V]{node: candidate, removed: true}
		}

		newChildren := n.children.removed(slot)
		candidate := &node[K, V]{children: newChildren, entries: n.entries}
		return removeResult[K, V]{node: candidate, removed: true}
	}

	if existing, ok := n.entries.get(slot); ok {
		if !hasher.Equal(existing.key, key) {
			return removeResult[K, V]{node: n, removed: false}
		}

		newEntries := n.entries.removed(slot)
		candidate := &node[K, V]{children: n.children, entries: newEntries}

		if !isRoot && candidate.children.count() == 0 && candidate.entries.count() == 0 {
			invariantViolation("non-root node left with no entries and no children after direct removal")
		}

		return removeResult[K, V]{node: candidate, removed: true}
	}

	return removeResult[K, V]{node: n, removed: false}
}

// removeFromCollision
//	Drops a record from a hash-collision leaf. A filtered list of length one
//	is demoted here into a plain single-entry node directly, since a
//	collision leaf must never be published with fewer than two records; the
//	caller one level up (removeNode's children-branch) then promotes that
//	single-entry node into its own entries slot, the same as it would for
//	any other child that contracted to one entry.
func removeFromCollision[K, V any, H Hasher[K]](n *node[K, V], hasher H, key K) removeResult[K, V] {
	idx := -1
	for i, rec := range n.collision {
		if hasher.Equal(rec.key, key) {
			idx = i
			break
		}
	}

	if idx == -1 { return removeResult[K, V]{node: n, removed: false} }

	remaining := make([]leaf[K, V], 0, len(n.collision)-1)
	remaining = append(remaining, n.collision[:idx]...)
	remaining = append(remaining, n.collision[idx+1:]...)

	if len(remaining) == 0 {
		invariantViolation("collision leaf emptied without a promotion path")
	}

	if len(remaining) == 1 {
		single := &node[K, V]{entries: sparseArray[leaf[K, V]]{}}
		single.entries = single.entries.inserted(0, remaining[0])
		return removeResult[K, V]{node: single, removed: true}
	}

	return removeResult[K, V]{node: &node[K, V]{collision: remaining}, removed: true}
}


//============================================= Iteration


// iterateNode
//	Depth-first walk in slot order, yielding entries before descending into
//	children. Slot order is an implementation artifact, not a contract —
//	callers must not depend on any particular traversal order.
func iterateNode[K, V any](n *node[K, V], yield func(K, V) bool) bool {
	if n.isCollision() {
		for _, rec := range n.collision {
			if !yield(rec.key, rec.value) { return false }
		}

		return true
	}

	for _, rec := range n.entries.content {
		if !yield(rec.key, rec.value) { return false }
	}

	for _, child := range n.children.content {
		if !iterateNode(child, yield) { return false }
	}

	return true
}


//============================================= Equality


// nodesEqual
//	Direct recursive structural comparison: bitmaps and entries are compared
//	directly (valid because the minimality invariant forces identical shapes
//	for equal key sets), and collision leaves are compared as multisets.
func nodesEqual[K, V any](a, b *node[K, V], keyEqual func(K, K) bool, valueEqual func(V, V) bool) bool {
	if a.isCollision() != b.isCollision() { return false }

	if a.isCollision() {
		return collisionListsEqual(a.collision, b.collision, keyEqual, valueEqual)
	}

	if a.entries.bitmap != b.entries.bitmap { return false }
	for i := range a.entries.content {
		ea, eb := a.entries.content[i], b.entries.content[i]
		if !keyEqual(ea.key, eb.key) || !valueEqual(ea.value, eb.value) { return false }
	}

	if a.children.bitmap != b.children.bitmap { return false }
	for i := range a.children.content {
		if !nodesEqual(a.children.content[i], b.children.content[i], keyEqual, valueEqual) { return false }
	}

	return true
}

// collisionListsEqual
//	Multiset equality: every record in a must find a distinct, equal match
//	in b. Collision leaves are rare and small (only ever reached after the
//	full hash is exhausted with genuine agreement), so the quadratic scan
//	here never runs against more than a handful of records.
func collisionListsEqual[K, V any](a, b []leaf[K, V], keyEqual func(K, K) bool, valueEqual func(V, V) bool) bool {
	if len(a) != len(b) { return false }

	used := make([]bool, len(b))
	for _, ra := range a {
		found := false
		for j, rb := range b {
			if used[j] { continue }
			if keyEqual(ra.key, rb.key) && valueEqual(ra.value, rb.value) {
				used[j] = true
				found = true
				break
			}
		}

		if !found { return false }
	}

	return true
}


//============================================= Transient Bulk Build


// transientInsert
//	In-place insert used only during OfSlice's transient window. tok
//	identifies the single bulk-build call this node graph belongs to; nodes
//	not already owned by tok are adopted by copying once, then mutated
//	freely for the remainder of the build.
func transientInsert[K, V any, H Hasher[K]](n *node[K, V], hasher H, key K, value V, hash uint32, shift uint, tok *builder_) (*node[K, V], bool) {
	if n.owner != tok {
		n = &node[K, V]{children: n.children, entries: n.entries, collision: n.collision, owner: tok}
	}

	if n.isCollision() {
		for i, rec := range n.collision {
			if hasher.Equal(rec.key, key) {
				n.collision[i] = leaf[K, V]{key: key, value: value}
				return n, false
			}
		}

		n.collision = append(n.collision, leaf[K, V]{key: key, value: value})
		return n, true
	}

	slot := slotAt(hash, shift)

	if child, ok := n.children.get(slot); ok {
		newChild, inserted := transientInsert(child, hasher, key, value, hash, shift+chunkSize, tok)
		n.children = n.children.replaced(slot, newChild)
		return n, inserted
	}

	if existing, ok := n.entries.get(slot); ok {
		if hasher.Equal(existing.key, key) {
			n.entries = n.entries.replaced(slot, leaf[K, V]{key: key, value: value})
			return n, false
		}

		existingHash := hasher.Hash(existing.key)
		merged := resolveConflictTransient(hasher, existing, existingHash, leaf[K, V]{key: key, value: value}, hash, shift, tok)

		n.entries = n.entries.removed(slot)
		n.children = n.children.insertedTransient(slot, merged, tok)
		return n, true
	}

	n.entries = n.entries.insertedTransient(slot, leaf[K, V]{key: key, value: value}, tok)
	return n, true
}

// resolveConflictTransient
//	Transient-window counterpart to resolveConflict: builds freshly owned
//	nodes directly (there is nothing to adopt yet), so it is otherwise
//	identical to the persistent version.
func resolveConflictTransient[K, V any, H Hasher[K]](hasher H, existing leaf[K, V], existingHash uint32, incoming leaf[K, V], incomingHash uint32, shift uint, tok *builder_) *node[K, V] {
	if shift+chunkSize >= maxShift && existingHash == incomingHash {
		return &node[K, V]{collision: []leaf[K, V]{existing, incoming}, owner: tok}
	}

	nextShift := shift + chunkSize
	existingSlot := slotAt(existingHash, nextShift)
	incomingSlot := slotAt(incomingHash, nextShift)

	if existingSlot != incomingSlot {
		entries := sparseArray[leaf[K, V]]{}
		entries = entries.inserted(existingSlot, existing)
		entries = entries.inserted(incomingSlot, incoming)
		return &node[K, V]{entries: entries, owner: tok}
	}

	child := resolveConflictTransient(hasher, existing, existingHash, incoming, incomingHash, nextShift, tok)
	children := sparseArray[*node[K, V]]{}
	children = children.inserted(existingSlot, child)
	return &node[K, V]{children: children, owner: tok}
}

// seal
//	Clears owner across a freshly bulk-built tree so it can be published as
//	an ordinary immutable node graph. Only visits nodes actually owned by
//	tok — anything else was adopted unchanged from a prior immutable build
//	and needs no work.
func seal[K, V any](n *node[K, V], tok *builder_) *node[K, V] {
	if n.owner != tok { return n }

	n.owner = nil
	n.entries = n.entries.sealed()
	n.children = n.children.sealed()

	for _, child := range n.children.content {
		seal(child, tok)
	}

	return n
}
