// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package kdtree

import (
	"container/heap"
	"fmt"
	"iter"
	"slices"

	"github.com/chewxy/math32"

	"github.com/gviegas/pointscene/linear"
)

// Neighbor is a query result.
type Neighbor struct {
	// Index of the point in the tree's point set.
	Index int
	// Squared distance to the query.
	SqDist float32
}

// stackElem is a node pending visit together with a
// lower bound of the squared distance between the query
// and any point in its subtree.
type stackElem struct {
	id     int
	sqDist float32
}

// traverse visits the leaves that may contain points closer
// to q than the current bound.
// bound is re-evaluated before each node is expanded, so
// callers may shrink it as results are found.
// leaf is called for each point of each visited leaf; if
// it returns false the traversal stops.
func (t *Tree) traverse(q *linear.V3, bound func() float32, leaf func(i int, d float32) bool) {
	if len(t.nodes) == 0 {
		return
	}
	stack := make([]stackElem, 1, 2*MaxDepth)
	stack[0] = stackElem{id: 0}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if e.sqDist > bound() {
			continue
		}
		n := &t.nodes[e.id]
		if n.leaf {
			for _, i := range t.indices[n.Start : n.Start+n.Size] {
				if !leaf(i, q.SqDist(&t.points[i])) {
					return
				}
			}
			continue
		}
		off := q[n.Dim] - n.Split
		near, far := n.FirstChild, n.FirstChild+1
		if off >= 0 {
			near, far = far, near
		}
		// The near child is pushed last so it is
		// visited first.
		stack = append(stack,
			stackElem{id: far, sqDist: max(e.sqDist, off*off)},
			stackElem{id: near, sqDist: e.sqDist})
	}
}

func (t *Tree) checkIndex(i int) error {
	if i < 0 || i >= len(t.points) {
		return fmt.Errorf("%w: %d", ErrIndex, i)
	}
	return nil
}

// Nearest returns the point of t closest to q.
// ok is false if t is empty.
func (t *Tree) Nearest(q *linear.V3) (n Neighbor, ok bool) {
	return t.nearest(q, -1)
}

// NearestIndex returns the point of t closest to the point
// at index i, other than i itself.
// ok is false if no such point exists.
func (t *Tree) NearestIndex(i int) (n Neighbor, ok bool, err error) {
	if err = t.checkIndex(i); err != nil {
		return
	}
	n, ok = t.nearest(&t.points[i], i)
	return
}

func (t *Tree) nearest(q *linear.V3, skip int) (Neighbor, bool) {
	best := Neighbor{Index: -1, SqDist: math32.Inf(1)}
	t.traverse(q,
		func() float32 { return best.SqDist },
		func(i int, d float32) bool {
			if n := (Neighbor{i, d}); i != skip && compareNeighbor(n, best) < 0 {
				best = n
			}
			return true
		})
	return best, best.Index >= 0
}

// KNearest returns the k points of t closest to q,
// sorted by increasing distance.
// It returns fewer than k points if t is too small.
func (t *Tree) KNearest(q *linear.V3, k int) []Neighbor {
	return t.kNearest(q, k, -1)
}

// KNearestIndex is like KNearest but queries the point at
// index i, excluding i itself from the results.
func (t *Tree) KNearestIndex(i, k int) ([]Neighbor, error) {
	if err := t.checkIndex(i); err != nil {
		return nil, err
	}
	return t.kNearest(&t.points[i], k, i), nil
}

func (t *Tree) kNearest(q *linear.V3, k, skip int) []Neighbor {
	if k <= 0 {
		return nil
	}
	h := make(maxHeap, 0, k)
	inf := math32.Inf(1)
	t.traverse(q,
		func() float32 {
			if len(h) < k {
				return inf
			}
			return h[0].SqDist
		},
		func(i int, d float32) bool {
			switch {
			case i == skip:
			case len(h) < k:
				heap.Push(&h, Neighbor{i, d})
			case compareNeighbor(Neighbor{i, d}, h[0]) < 0:
				h[0] = Neighbor{i, d}
				heap.Fix(&h, 0)
			}
			return true
		})
	res := []Neighbor(h)
	slices.SortFunc(res, compareNeighbor)
	return res
}

// Range returns all points of t whose distance to q is
// at most radius, sorted by increasing distance.
func (t *Tree) Range(q *linear.V3, radius float32) []Neighbor {
	res := slices.Collect(t.rangeSeq(q, radius, -1))
	slices.SortFunc(res, compareNeighbor)
	return res
}

// RangeIndex is like Range but queries the point at index
// i, excluding i itself from the results.
func (t *Tree) RangeIndex(i int, radius float32) ([]Neighbor, error) {
	if err := t.checkIndex(i); err != nil {
		return nil, err
	}
	res := slices.Collect(t.rangeSeq(&t.points[i], radius, i))
	slices.SortFunc(res, compareNeighbor)
	return res, nil
}

// RangeSeq returns an iterator over the points of t whose
// distance to q is at most radius.
// Points are yielded in traversal order.
func (t *Tree) RangeSeq(q *linear.V3, radius float32) iter.Seq[Neighbor] {
	return t.rangeSeq(q, radius, -1)
}

func (t *Tree) rangeSeq(q *linear.V3, radius float32, skip int) iter.Seq[Neighbor] {
	sq := radius * radius
	return func(yield func(Neighbor) bool) {
		if radius < 0 {
			return
		}
		t.traverse(q,
			func() float32 { return sq },
			func(i int, d float32) bool {
				if i == skip || d > sq {
					return true
				}
				return yield(Neighbor{i, d})
			})
	}
}

// compareNeighbor orders neighbors by distance, then by
// index.
func compareNeighbor(a, b Neighbor) int {
	switch {
	case a.SqDist < b.SqDist:
		return -1
	case a.SqDist > b.SqDist:
		return 1
	}
	return a.Index - b.Index
}

// maxHeap implements heap.Interface with the last
// neighbor in compareNeighbor order on top.
type maxHeap []Neighbor

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return compareNeighbor(h[i], h[j]) > 0 }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(Neighbor)) }

func (h *maxHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}
