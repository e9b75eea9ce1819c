// Package commenttree maintains bounded-depth reply trees.
//
// The helpers are generic over any node type that exposes its identity, its
// parent and its children, so the API server and the Go client share one
// implementation. Operations mutate nodes in place; slices of roots are
// returned where the set of roots may change.
package commenttree

// Node is implemented by pointer types that can sit in a reply tree.
type Node[K comparable, T any] interface {
	*T
	NodeID() K
	ParentNodeID() (K, bool)
	ChildNodes() []*T
	SetChildNodes([]*T)
}

// Build assembles a forest from flat rows. Rows without a parent become
// roots; rows whose parent is not present are dropped together with their
// subtrees. Input order is preserved within every level, so callers control
// sibling ordering through the order of flat.
func Build[K comparable, T any, P Node[K, T]](flat []*T) []*T {
	byID := make(map[K]*T, len(flat))
	for _, n := range flat {
		byID[P(n).NodeID()] = n
		P(n).SetChildNodes([]*T{})
	}

	roots := make([]*T, 0)
	for _, n := range flat {
		parentID, ok := P(n).ParentNodeID()
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent, found := byID[parentID]
		if !found {
			continue
		}
		P(parent).SetChildNodes(append(P(parent).ChildNodes(), n))
	}
	return roots
}

// AddReply appends reply to the children of the node identified by parentID.
// It reports false when no such node exists in the forest.
func AddReply[K comparable, T any, P Node[K, T]](roots []*T, parentID K, reply *T) bool {
	parent := Find[K, T, P](roots, parentID)
	if parent == nil {
		return false
	}
	if P(reply).ChildNodes() == nil {
		P(reply).SetChildNodes([]*T{})
	}
	P(parent).SetChildNodes(append(P(parent).ChildNodes(), reply))
	return true
}

// Remove detaches the node identified by id and returns the new roots along
// with the number of nodes removed (the node plus all its descendants).
func Remove[K comparable, T any, P Node[K, T]](roots []*T, id K) ([]*T, int) {
	out := make([]*T, 0, len(roots))
	removed := 0
	for _, n := range roots {
		if P(n).NodeID() == id {
			removed += 1 + CountTotal[K, T, P](P(n).ChildNodes())
			continue
		}
		if removed == 0 {
			children, r := Remove[K, T, P](P(n).ChildNodes(), id)
			if r > 0 {
				P(n).SetChildNodes(children)
				removed += r
			}
		}
		out = append(out, n)
	}
	return out, removed
}

// CountTotal counts every node in the forest.
func CountTotal[K comparable, T any, P Node[K, T]](roots []*T) int {
	total := 0
	for _, n := range roots {
		total += 1 + CountTotal[K, T, P](P(n).ChildNodes())
	}
	return total
}

// Find returns the node identified by id, or nil.
func Find[K comparable, T any, P Node[K, T]](roots []*T, id K) *T {
	var found *T
	Walk[K, T, P](roots, func(n *T, _ int) bool {
		if P(n).NodeID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// DepthOf returns the depth of the node identified by id, roots being 0.
func DepthOf[K comparable, T any, P Node[K, T]](roots []*T, id K) (int, bool) {
	depth, ok := -1, false
	Walk[K, T, P](roots, func(n *T, d int) bool {
		if P(n).NodeID() == id {
			depth, ok = d, true
			return false
		}
		return true
	})
	return depth, ok
}

// Walk visits nodes depth-first in order. Returning false from fn stops the
// walk.
func Walk[K comparable, T any, P Node[K, T]](roots []*T, fn func(n *T, depth int) bool) {
	walk[K, T, P](roots, 0, fn)
}

func walk[K comparable, T any, P Node[K, T]](nodes []*T, depth int, fn func(*T, int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}
		if !walk[K, T, P](P(n).ChildNodes(), depth+1, fn) {
			return false
		}
	}
	return true
}
