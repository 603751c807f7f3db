// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package kdtree implements a k-d tree over 3D points for
// nearest-neighbor and range queries, as well as the
// hierarchical bounding boxes of its cells.
package kdtree

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gviegas/pointscene/linear"
)

const (
	// DefaultMinCellSize is the default number of points
	// below which a cell is not split further.
	DefaultMinCellSize = 64

	// MaxDepth is the maximum depth of a tree.
	// The root has depth 0.
	MaxDepth = 32
)

const prefix = "kdtree: "

func newKdErr(reason string) error { return errors.New(prefix + reason) }

// ErrIndex means that a point index is out of range.
var ErrIndex = newKdErr("point index out of range")

// Config is used to configure the construction of a Tree.
type Config struct {
	// Cells containing at most this many points
	// become leaves.
	//
	// Default is DefaultMinCellSize.
	MinCellSize int

	// Cells at this depth become leaves regardless
	// of their size. It is clamped to MaxDepth.
	//
	// Default is MaxDepth.
	MaxDepth int

	// Logger receives construction statistics.
	//
	// Default is slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinCellSize: DefaultMinCellSize,
		MaxDepth:    MaxDepth,
	}
}

func (c *Config) normalize() {
	if c.MinCellSize < 1 {
		c.MinCellSize = DefaultMinCellSize
	}
	if c.MaxDepth < 1 || c.MaxDepth > MaxDepth {
		c.MaxDepth = MaxDepth
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Node is a cell of a Tree.
// Leaves reference a contiguous range of the tree's
// index permutation; inner nodes reference two
// contiguous children.
type Node struct {
	leaf bool

	// Start and Size are only valid for leaves.
	Start int
	Size  int

	// Split, Dim and FirstChild are only valid for
	// inner nodes. Points whose coordinate along Dim is
	// less than Split are in the subtree rooted at
	// FirstChild; the others are in FirstChild+1.
	Split      float32
	Dim        int
	FirstChild int
}

// IsLeaf returns whether n is a leaf.
func (n *Node) IsLeaf() bool { return n.leaf }

// Tree is a k-d tree.
// It is immutable once built, so concurrent queries
// are safe.
type Tree struct {
	points  []linear.V3
	indices []int
	nodes   []Node
	leaves  int
	depth   int

	boxOnce sync.Once
	boxes   []linear.AABB
}

// Build creates a tree over all points.
// The tree references points; the caller must not
// modify the slice while the tree is in use.
// cfg may be nil, in which case DefaultConfig is used.
func Build(points []linear.V3, cfg *Config) *Tree {
	indices := make([]int, len(points))
	for i := range indices {
		indices[i] = i
	}
	return build(points, indices, cfg)
}

// BuildSampled creates a tree over the subset of points
// identified by sample.
// Query results refer to indices into points.
func BuildSampled(points []linear.V3, sample []int, cfg *Config) (*Tree, error) {
	indices := make([]int, len(sample))
	for i, x := range sample {
		if x < 0 || x >= len(points) {
			return nil, fmt.Errorf("%w: sample[%d] = %d", ErrIndex, i, x)
		}
		indices[i] = x
	}
	return build(points, indices, cfg), nil
}

func build(points []linear.V3, indices []int, cfg *Config) *Tree {
	var c Config
	if cfg != nil {
		c = *cfg
	} else {
		c = DefaultConfig()
	}
	c.normalize()

	t := &Tree{points: points, indices: indices}
	if len(indices) == 0 {
		return t
	}
	t.nodes = make([]Node, 1, 2*(len(indices)/c.MinCellSize)+1)
	t.buildRec(0, 0, len(indices), 0, &c)
	c.Logger.Debug("kdtree: built",
		"points", len(indices),
		"nodes", len(t.nodes),
		"leaves", t.leaves,
		"depth", t.depth)
	return t
}

// buildRec configures node id to cover indices[start:end].
// Nodes are appended in pre-order, so the children of a
// node always have greater identifiers than the node itself.
func (t *Tree) buildRec(id, start, end, depth int, c *Config) {
	t.depth = max(t.depth, depth)
	box := t.rangeBox(start, end)
	if end-start <= c.MinCellSize || depth >= c.MaxDepth {
		t.makeLeaf(id, start, end)
		return
	}
	dim := box.LargestDim()
	split := box.Center()[dim]
	mid := t.partition(start, end, dim, split)
	// A split that leaves a side empty (coincident points)
	// would recurse until MaxDepth without progress.
	if mid == start || mid == end {
		t.makeLeaf(id, start, end)
		return
	}
	first := len(t.nodes)
	t.nodes = append(t.nodes, Node{}, Node{})
	t.nodes[id] = Node{Split: split, Dim: dim, FirstChild: first}
	t.buildRec(first, start, mid, depth+1, c)
	t.buildRec(first+1, mid, end, depth+1, c)
}

func (t *Tree) makeLeaf(id, start, end int) {
	t.nodes[id] = Node{leaf: true, Start: start, Size: end - start}
	t.leaves++
}

// partition reorders indices[start:end] such that points
// whose coordinate along dim is less than split come first.
// It returns the index of the first point of the second part.
func (t *Tree) partition(start, end, dim int, split float32) int {
	mid := start
	for i := start; i < end; i++ {
		if t.points[t.indices[i]][dim] < split {
			t.indices[i], t.indices[mid] = t.indices[mid], t.indices[i]
			mid++
		}
	}
	return mid
}

func (t *Tree) rangeBox(start, end int) linear.AABB {
	box := linear.EmptyAABB()
	for _, i := range t.indices[start:end] {
		box.Extend(&t.points[i])
	}
	return box
}

// Len returns the number of points in t.
func (t *Tree) Len() int { return len(t.indices) }

// Points returns the point set that t was built from.
// It must not be modified.
func (t *Tree) Points() []linear.V3 { return t.points }

// Nodes returns the nodes of t.
// The root, if any, is Nodes()[0].
// It must not be modified.
func (t *Tree) Nodes() []Node { return t.nodes }

// Indices returns the index permutation referenced by
// leaf nodes.
// It must not be modified.
func (t *Tree) Indices() []int { return t.indices }

// LeafCount returns the number of leaves in t.
func (t *Tree) LeafCount() int { return t.leaves }

// Depth returns the depth of the deepest node in t.
func (t *Tree) Depth() int { return t.depth }

// Leaf returns the point indices contained in the
// leaf identified by id.
// It panics if id is not a leaf.
func (t *Tree) Leaf(id int) []int {
	n := &t.nodes[id]
	if !n.leaf {
		panic(prefix + "Leaf called on inner node")
	}
	return t.indices[n.Start : n.Start+n.Size]
}

// Walk calls fn for each node of t in pre-order, with the
// node's identifier and depth.
// If fn returns false, the descendants of that node are
// not visited.
func (t *Tree) Walk(fn func(id, depth int, n *Node) bool) {
	if len(t.nodes) == 0 {
		return
	}
	t.walkRec(0, 0, fn)
}

func (t *Tree) walkRec(id, depth int, fn func(int, int, *Node) bool) {
	n := &t.nodes[id]
	if !fn(id, depth, n) || n.leaf {
		return
	}
	t.walkRec(n.FirstChild, depth+1, fn)
	t.walkRec(n.FirstChild+1, depth+1, fn)
}
