// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package kdtree

import (
	"github.com/gviegas/pointscene/linear"
)

// LevelBox is the bounding box of a node together with
// the node's depth.
type LevelBox struct {
	Depth int
	Box   linear.AABB
}

// NodeBoxes returns the bounding box of every node of t,
// indexed by node identifier.
// Leaf boxes bound their points and inner boxes are the
// union of their children's boxes. They are computed once,
// bottom-up, on first use.
// The returned slice must not be modified.
func (t *Tree) NodeBoxes() []linear.AABB {
	t.boxOnce.Do(func() {
		boxes := make([]linear.AABB, len(t.nodes))
		// Children always follow their parent in t.nodes.
		for id := len(t.nodes) - 1; id >= 0; id-- {
			n := &t.nodes[id]
			if n.leaf {
				boxes[id] = t.rangeBox(n.Start, n.Start+n.Size)
				continue
			}
			boxes[id] = boxes[n.FirstChild]
			boxes[id].Merge(&boxes[n.FirstChild+1])
		}
		t.boxes = boxes
	})
	return t.boxes
}

// NodeBox returns the bounding box of node id.
func (t *Tree) NodeBox(id int) linear.AABB { return t.NodeBoxes()[id] }

// Bounds returns the bounding box of all points in t.
// It is empty if t has no points.
func (t *Tree) Bounds() linear.AABB {
	if len(t.nodes) == 0 {
		return linear.EmptyAABB()
	}
	return t.NodeBox(0)
}

// LevelBoxes returns the bounding boxes of all nodes whose
// depth is less than depth, in pre-order (a node precedes
// its descendants, first child before second).
// It returns nil if depth <= 0 or t is empty.
func (t *Tree) LevelBoxes(depth int) []LevelBox {
	if depth <= 0 || len(t.nodes) == 0 {
		return nil
	}
	boxes := t.NodeBoxes()
	var lbs []LevelBox
	t.Walk(func(id, d int, _ *Node) bool {
		if d >= depth {
			return false
		}
		lbs = append(lbs, LevelBox{Depth: d, Box: boxes[id]})
		return true
	})
	return lbs
}
