// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package idmap

import (
	"testing"
)

type objID int

func TestBitv(t *testing.T) {
	var v bitv
	if _, ok := v.search(); ok {
		t.Fatal("bitv.search: empty\nhave _, true\nwant _, false")
	}
	v.grow(2)
	if n := v.len(); n != 64 {
		t.Fatalf("bitv.len\nhave %d\nwant 64", n)
	}
	for i := range 33 {
		v.set(i)
	}
	if i, ok := v.search(); !ok || i != 33 {
		t.Fatalf("bitv.search\nhave %d, %t\nwant 33, true", i, ok)
	}
	v.unset(5)
	if i, _ := v.search(); i != 5 {
		t.Fatalf("bitv.search\nhave %d\nwant 5", i)
	}
	if v.rem != 64-32 {
		t.Fatalf("bitv.rem\nhave %d\nwant 32", v.rem)
	}
	if v.isSet(5) || !v.isSet(6) || v.isSet(-1) || v.isSet(64) {
		t.Fatal("bitv.isSet: unexpected result")
	}
}

func TestMap(t *testing.T) {
	var m Map[objID, string]
	ids := make([]objID, 0, 100)
	for i := range 100 {
		id := m.Insert(string(rune('a' + i%26)))
		if int(id) != i {
			t.Fatalf("Map.Insert\nhave %d\nwant %d", id, i)
		}
		ids = append(ids, id)
	}
	if n := m.Len(); n != 100 {
		t.Fatalf("Map.Len\nhave %d\nwant 100", n)
	}

	if s := m.Remove(ids[3]); s != "d" {
		t.Fatalf("Map.Remove\nhave %q\nwant \"d\"", s)
	}
	if m.Has(ids[3]) {
		t.Fatal("Map.Has: removed id\nhave true\nwant false")
	}
	if s := *m.Get(ids[99]); s != "v" {
		t.Fatalf("Map.Get: after swap\nhave %q\nwant \"v\"", s)
	}
	if id := m.Insert("x"); id != ids[3] {
		t.Fatalf("Map.Insert: reuse\nhave %d\nwant %d", id, ids[3])
	}
	*m.Get(ids[3]) = "y"
	if s := *m.Get(ids[3]); s != "y" {
		t.Fatalf("Map.Get\nhave %q\nwant \"y\"", s)
	}

	seen := make(map[objID]bool)
	for id, s := range m.All() {
		if *m.Get(id) != *s {
			t.Fatalf("Map.All: %d\nhave %q\nwant %q", id, *s, *m.Get(id))
		}
		seen[id] = true
	}
	if len(seen) != 100 {
		t.Fatalf("Map.All: count\nhave %d\nwant 100", len(seen))
	}

	m.Clear()
	if m.Len() != 0 || m.Has(ids[0]) {
		t.Fatal("Map.Clear: map not empty")
	}
	if id := m.Insert("z"); id != 0 {
		t.Fatalf("Map.Insert: after Clear\nhave %d\nwant 0", id)
	}
}

func TestMapPanic(t *testing.T) {
	var m Map[objID, int]
	defer func() {
		if recover() == nil {
			t.Fatal("Map.Get: unknown id\nhave no panic\nwant panic")
		}
	}()
	m.Get(7)
}
