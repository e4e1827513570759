package site

// Positioned is a node that lives in an ordered sibling sequence.
type Positioned interface {
	NodeID() string
	SetPosition(int)
}

// Reindex rewrites every sibling's position to its array index. The full
// rewrite, rather than a local shift, restores the dense 0..n-1 invariant
// even if prior state had gaps.
func Reindex[T Positioned](siblings []T) {
	for i, node := range siblings {
		node.SetPosition(i)
	}
}

// Reorder removes the sibling at src, reinserts it at dst and reindexes.
// Out-of-range indices leave the slice untouched.
func Reorder[T Positioned](siblings []T, src, dst int) []T {
	if src < 0 || src >= len(siblings) || dst < 0 || dst >= len(siblings) {
		return siblings
	}
	moved := siblings[src]
	siblings = append(siblings[:src], siblings[src+1:]...)
	siblings = append(siblings[:dst], append([]T{moved}, siblings[dst:]...)...)
	Reindex(siblings)
	return siblings
}

// InsertAtEnd appends node as the last sibling, position = prior length.
func InsertAtEnd[T Positioned](siblings []T, node T) []T {
	node.SetPosition(len(siblings))
	return append(siblings, node)
}

// RemoveByID filters out the node with the given id and reindexes the
// remainder. Removal of a node removes its entire owned subtree, since
// children are embedded in the node itself.
func RemoveByID[T Positioned](siblings []T, id string) []T {
	kept := siblings[:0]
	for _, node := range siblings {
		if node.NodeID() != id {
			kept = append(kept, node)
		}
	}
	Reindex(kept)
	return kept
}
