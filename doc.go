// Package gohamt implements a persistent, immutable associative container
// backed by a bitmap-compressed Hash Array Mapped Trie (HAMT).
//
// A Map value is never mutated after construction. Add and Remove return a
// new Map that structurally shares whatever part of the trie did not
// change, so older Maps stay valid and concurrent readers of a single
// published Map never need to synchronize. The package does not expose a
// way to mutate a published Map in place, persist one to disk, or iterate
// its entries in any particular order.
package gohamt
