// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package idmap

import (
	"math/bits"
)

// bitv is a growable bit vector.
// Set bits represent identifiers in use.
type bitv struct {
	s   []uint32
	rem int
}

const nbit = 32

// len returns the number of bits in the vector.
func (v *bitv) len() int { return len(v.s) * nbit }

// grow appends nplus unset Uints to the vector.
func (v *bitv) grow(nplus int) {
	if nplus > 0 {
		v.rem += nplus * nbit
		v.s = append(v.s, make([]uint32, nplus)...)
	}
}

func (v *bitv) set(index int) {
	i, b := index/nbit, uint32(1)<<(index&(nbit-1))
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

func (v *bitv) unset(index int) {
	i, b := index/nbit, uint32(1)<<(index&(nbit-1))
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

func (v *bitv) isSet(index int) bool {
	if index < 0 || index >= v.len() {
		return false
	}
	return v.s[index/nbit]&(uint32(1)<<(index&(nbit-1))) != 0
}

// search locates the lowest unset bit.
// It fails only when v.rem == 0.
func (v *bitv) search() (index int, ok bool) {
	if v.rem == 0 {
		return
	}
	for i, x := range v.s {
		if x == ^uint32(0) {
			continue
		}
		return i*nbit + bits.TrailingZeros32(^x), true
	}
	return
}
