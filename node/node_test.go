// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package node

import (
	"slices"
	"testing"

	"github.com/gviegas/pointscene/linear"
)

// xform implements Interface for testing.
type xform struct {
	m       linear.M4
	changed bool
	calls   int
}

func newXform(x, y, z float32) *xform {
	t := &xform{changed: true}
	t.m.Translate(x, y, z)
	return t
}

func (t *xform) Local() *linear.M4 { return &t.m }

func (t *xform) Changed() bool {
	t.calls++
	c := t.changed
	t.changed = false
	return c
}

func (t *xform) move(x, y, z float32) {
	t.m.Translate(x, y, z)
	t.changed = true
}

func children(g *Graph, n Node) []Node { return slices.Collect(g.Children(n)) }

func TestInsertRemove(t *testing.T) {
	var g Graph
	n1 := g.Insert(newXform(0, 0, 0), Nil)
	n2 := g.Insert(newXform(0, 0, 0), n1)
	n3 := g.Insert(newXform(0, 0, 0), n1)
	n4 := g.Insert(newXform(0, 0, 0), n3)
	n5 := g.Insert(newXform(0, 0, 0), Nil)

	if n := g.Len(); n != 5 {
		t.Fatalf("Graph.Len\nhave %d\nwant 5", n)
	}
	if c := children(&g, Nil); !slices.Equal(c, []Node{n5, n1}) {
		t.Fatalf("Graph.Children(Nil)\nhave %v\nwant %v", c, []Node{n5, n1})
	}
	if c := children(&g, n1); !slices.Equal(c, []Node{n3, n2}) {
		t.Fatalf("Graph.Children(n1)\nhave %v\nwant %v", c, []Node{n3, n2})
	}
	if p := g.Parent(n4); p != n3 {
		t.Fatalf("Graph.Parent\nhave %d\nwant %d", p, n3)
	}

	g.Remove(n3)
	if n := g.Len(); n != 3 {
		t.Fatalf("Graph.Remove: Len\nhave %d\nwant 3", n)
	}
	if g.Has(n3) || g.Has(n4) {
		t.Fatal("Graph.Remove: descendants must be removed")
	}
	if c := children(&g, n1); !slices.Equal(c, []Node{n2}) {
		t.Fatalf("Graph.Remove: Children(n1)\nhave %v\nwant %v", c, []Node{n2})
	}

	g.Remove(n5)
	if c := children(&g, Nil); !slices.Equal(c, []Node{n1}) {
		t.Fatalf("Graph.Remove: Children(Nil)\nhave %v\nwant %v", c, []Node{n1})
	}
	g.Remove(n1)
	if g.Len() != 0 || len(children(&g, Nil)) != 0 {
		t.Fatal("Graph.Remove: graph must be empty")
	}
}

func TestUpdate(t *testing.T) {
	var g Graph
	var w linear.M4
	w.I()
	g.SetWorld(&w)

	x1 := newXform(1, 0, 0)
	x2 := newXform(0, 2, 0)
	x3 := newXform(0, 0, 3)
	n1 := g.Insert(x1, Nil)
	n2 := g.Insert(x2, n1)
	n3 := g.Insert(x3, n2)
	g.Update()

	check := func(n Node, want linear.V3) {
		t.Helper()
		if have := g.World(n).Translation(); have != want {
			t.Fatalf("Graph.World(%d)\nhave %v\nwant %v", n, have, want)
		}
	}
	check(n1, linear.V3{1, 0, 0})
	check(n2, linear.V3{1, 2, 0})
	check(n3, linear.V3{1, 2, 3})

	x1.move(-1, 0, 0)
	g.Update()
	check(n1, linear.V3{-1, 0, 0})
	check(n2, linear.V3{-1, 2, 0})
	check(n3, linear.V3{-1, 2, 3})
	if x3.calls != 2 {
		t.Fatalf("Interface.Changed: calls\nhave %d\nwant 2", x3.calls)
	}

	w.Translate(0, 0, 10)
	g.SetWorld(&w)
	g.Update()
	check(n3, linear.V3{-1, 2, 13})
	if *g.World(Nil) != w {
		t.Fatalf("Graph.World(Nil)\nhave %v\nwant %v", *g.World(Nil), w)
	}
}
