// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package idmap implements a dense storage of values
// addressed by stable integer identifiers.
package idmap

import (
	"iter"
)

// entry is what a Map stores.
type entry[D any] struct {
	data D
	id   int
}

// Map stores data of type D with identifiers of type I.
// Identifiers are reused after removal; the lowest free
// identifier is always chosen first.
// Data is kept contiguous, so iteration does not depend
// on how many identifiers were ever allocated.
// The zero value is an empty Map ready for use.
type Map[I ~int, D any] struct {
	ids  []int
	used bitv
	data []entry[D]
}

// Insert inserts data into m.
// It returns an I value that identifies data in m.
func (m *Map[I, D]) Insert(data D) I {
	if m.used.rem == 0 {
		n := max(1, len(m.used.s))
		m.used.grow(n)
		m.ids = append(m.ids, make([]int, n*nbit)...)
	}
	idx, ok := m.used.search()
	if !ok {
		// Should never happen.
		panic("idmap: unexpected search failure")
	}
	m.used.set(idx)
	m.ids[idx] = len(m.data)
	m.data = append(m.data, entry[D]{data, idx})
	return I(idx)
}

// Has returns whether id is in use.
func (m *Map[I, _]) Has(id I) bool { return m.used.isSet(int(id)) }

// Remove removes the data identified by id.
// It returns the removed data.
// id must belong to m.
func (m *Map[I, D]) Remove(id I) D {
	if !m.Has(id) {
		panic("idmap: Remove called with unknown id")
	}
	d := m.ids[id]
	data := m.data[d].data
	last := len(m.data) - 1
	if d < last {
		swap := m.data[last].id
		m.ids[swap] = d
		m.data[d] = m.data[last]
	}
	m.ids[id] = -1
	m.used.unset(int(id))
	m.data[last] = entry[D]{}
	m.data = m.data[:last]
	return data
}

// Get returns a pointer to the data identified by id.
// The pointer is invalidated by the next call to Insert
// or Remove.
// id must belong to m.
func (m *Map[I, D]) Get(id I) *D {
	if !m.Has(id) {
		panic("idmap: Get called with unknown id")
	}
	return &m.data[m.ids[id]].data
}

// Len returns the number of elements in m.
func (m *Map[_, _]) Len() int { return len(m.data) }

// All returns an iterator over the elements of m.
// Order is unspecified, and m must not be modified during
// iteration.
func (m *Map[I, D]) All() iter.Seq2[I, *D] {
	return func(yield func(I, *D) bool) {
		for i := range m.data {
			if !yield(I(m.data[i].id), &m.data[i].data) {
				return
			}
		}
	}
}

// Clear removes every element of m.
func (m *Map[_, _]) Clear() {
	for i := range m.used.s {
		m.used.s[i] = 0
	}
	m.used.rem = m.used.len()
	clear(m.data)
	m.data = m.data[:0]
}
