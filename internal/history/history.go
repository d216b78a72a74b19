// Package history tracks the directories visited in a browsing session.
//
// A History is an immutable value: Push, Pop and Forward return a new
// History and never modify the receiver, so a caller can hold on to the
// previous value and restore it when a navigation fails.
package history

// Node is one visited location.
type Node struct {
	Path string `json:"path"`
	// IsRepository is recorded when the node is pushed and never recomputed.
	IsRepository bool `json:"isRepository"`
}

// History is a stack of visited nodes with a depth pointer. Nodes above
// depth are kept for Forward until the next Push discards them.
type History struct {
	nodes []Node
	depth int
}

// New returns a history holding only the root node.
func New(root string, isRepository bool) History {
	return History{nodes: []Node{{Path: root, IsRepository: isRepository}}}
}

// Current returns the head node.
func (h History) Current() Node {
	if len(h.nodes) == 0 {
		return Node{}
	}
	return h.nodes[h.depth]
}

// Depth returns the number of successful Pops available before the root.
func (h History) Depth() int {
	return h.depth
}

// AtRoot reports whether the head is the root node.
func (h History) AtRoot() bool {
	return h.depth == 0
}

// Push returns a history with a new head above the current one.
func (h History) Push(path string, isRepository bool) History {
	// The full slice expression forces a copy so the receiver is not aliased.
	nodes := append(h.nodes[:h.depth+1:h.depth+1], Node{Path: path, IsRepository: isRepository})
	return History{nodes: nodes, depth: h.depth + 1}
}

// Pop returns a history whose head is the previous node. At the root it
// returns the receiver and false.
func (h History) Pop() (History, bool) {
	if h.depth == 0 {
		return h, false
	}
	return History{nodes: h.nodes, depth: h.depth - 1}, true
}

// Forward re-enters the node most recently popped, if any.
func (h History) Forward() (History, bool) {
	if h.depth+1 >= len(h.nodes) {
		return h, false
	}
	return History{nodes: h.nodes, depth: h.depth + 1}, true
}

// Trail returns the nodes from the root to the head.
func (h History) Trail() []Node {
	if len(h.nodes) == 0 {
		return nil
	}
	trail := make([]Node, h.depth+1)
	copy(trail, h.nodes[:h.depth+1])
	return trail
}
