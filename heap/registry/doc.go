// Package registry holds the tracker's bookkeeping: the address-ordered set
// of live blocks and the ledger of released addresses.
//
// # Registry
//
// Registry maps a block's start address to its Block record. It is a B-tree
// (github.com/google/btree) so leak reports and invariant walks come out in
// address order without sorting.
//
// # Ledger
//
// Ledger is the set of addresses that were released and not handed out
// again. It is a 64-bit roaring bitmap (github.com/RoaringBitmap/roaring),
// which stays compact for the dense, 8-byte-strided addresses an arena
// produces.
//
// The two sets are disjoint whenever the tracker is between operations.
package registry
