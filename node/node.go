// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package node implements the scene's graph.
package node

import (
	"iter"

	"github.com/gviegas/pointscene/internal/idmap"
	"github.com/gviegas/pointscene/linear"
)

// Interface of a node.
type Interface interface {
	// Local returns the local transform of the node.
	// It must not return nil.
	Local() *linear.M4

	// Changed returns whether the local transform
	// has changed since the previous call.
	// Graph.Update calls it exactly once per node.
	Changed() bool
}

// Node identifies a node in a Graph.
type Node int

// Nil represents an invalid Node.
// As a parent, it denotes the graph's root.
const Nil Node = 0

type node struct {
	parent Node
	next   Node
	prev   Node
	sub    Node
	local  Interface
	world  linear.M4
}

// Graph is a node graph.
// The zero value is an empty graph whose global world
// transform is the zero matrix; call SetWorld to
// change it.
type Graph struct {
	world   linear.M4
	changed bool
	root    Node
	nodes   idmap.Map[Node, node]
}

// Node values are offset by one so that Nil is never a
// valid key of g.nodes.
func (g *Graph) get(n Node) *node { return g.nodes.Get(n - 1) }

// Len returns the number of nodes in g.
func (g *Graph) Len() int { return g.nodes.Len() }

// Has returns whether n belongs to g.
func (g *Graph) Has(n Node) bool { return n != Nil && g.nodes.Has(n-1) }

// Insert inserts a new node as the first descendant of
// parent, or as a root if parent is Nil.
// It returns the new node, whose world transform is
// computed by the next call to Update.
func (g *Graph) Insert(local Interface, parent Node) Node {
	n := g.nodes.Insert(node{parent: parent, local: local}) + 1
	var head *Node
	if parent == Nil {
		head = &g.root
	} else {
		head = &g.get(parent).sub
	}
	if *head != Nil {
		g.get(*head).prev = n
		g.get(n).next = *head
	}
	*head = n
	g.changed = true
	return n
}

// Remove removes n and all of its descendants.
// It returns the Interface of n.
func (g *Graph) Remove(n Node) Interface {
	nd := g.get(n)
	local := nd.local
	// Unlink from siblings/parent.
	if nd.prev != Nil {
		g.get(nd.prev).next = nd.next
	} else if nd.parent != Nil {
		g.get(nd.parent).sub = nd.next
	} else {
		g.root = nd.next
	}
	if nd.next != Nil {
		g.get(nd.next).prev = nd.prev
	}
	g.removeRec(n)
	return local
}

func (g *Graph) removeRec(n Node) {
	for sub := g.get(n).sub; sub != Nil; {
		next := g.get(sub).next
		g.removeRec(sub)
		sub = next
	}
	g.nodes.Remove(n - 1)
}

// Get returns the Interface of n.
func (g *Graph) Get(n Node) Interface { return g.get(n).local }

// Parent returns the parent of n, or Nil if n is a root.
func (g *Graph) Parent(n Node) Node { return g.get(n).parent }

// Children returns an iterator over the immediate
// descendants of n, most recently inserted first.
// If n is Nil, it iterates over the roots.
func (g *Graph) Children(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		sub := g.root
		if n != Nil {
			sub = g.get(n).sub
		}
		for sub != Nil {
			next := g.get(sub).next
			if !yield(sub) {
				return
			}
			sub = next
		}
	}
}

// SetWorld sets the global world transform, which
// applies to every root.
func (g *Graph) SetWorld(world *linear.M4) {
	g.world = *world
	g.changed = true
}

// World returns the world transform of n as of the last
// call to Update.
// If n is Nil, it returns the global world transform.
func (g *Graph) World(n Node) *linear.M4 {
	if n == Nil {
		return &g.world
	}
	return &g.get(n).world
}

// Update recomputes the world transform of every node
// whose local transform changed, and of all of their
// descendants.
func (g *Graph) Update() {
	changed := g.changed
	g.changed = false
	for n := g.root; n != Nil; n = g.get(n).next {
		g.updateRec(n, &g.world, changed)
	}
}

func (g *Graph) updateRec(n Node, parent *linear.M4, changed bool) {
	nd := g.get(n)
	// Changed must be called regardless of the
	// ancestor state.
	if nd.local.Changed() || changed {
		nd.world.Mul(parent, nd.local.Local())
		changed = true
	}
	world := &nd.world
	for sub := nd.sub; sub != Nil; sub = g.get(sub).next {
		g.updateRec(sub, world, changed)
	}
}
