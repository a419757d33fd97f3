// Copyright 2025 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a fixed-size bit vector type
// useful for free-slot tracking.
package bitvec

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// V is a bit vector with custom granularity.
// The zero value is an empty vector; sized vectors are
// created with New and never resize.
type V[T constraints.Unsigned] struct {
	s   []T
	n   int
	rem int
}

// New creates a vector of nbits unset bits.
func New[T constraints.Unsigned](nbits int) V[T] {
	var v V[T]
	if nbits <= 0 {
		return v
	}
	nb := v.nbit()
	v.s = make([]T, (nbits+nb-1)/nb)
	v.n = nbits
	v.rem = nbits
	// Padding bits of the last word are permanently set so
	// Search never yields an index >= nbits.
	if pad := len(v.s)*nb - nbits; pad > 0 {
		v.s[len(v.s)-1] = ^T(0) << (nb - pad)
	}
	return v
}

// nbit returns the number of bits in T.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return v.n }

// Rem returns the number of unset bits in the vector.
func (v *V[_]) Rem() int { return v.rem }

func (v *V[T]) locate(index int) (i int, b T) {
	if index < 0 || index >= v.n {
		panic("bitvec: index out of range")
	}
	nb := v.nbit()
	return index / nb, T(1) << (index & (nb - 1))
}

// Set sets a given bit.
func (v *V[T]) Set(index int) {
	i, b := v.locate(index)
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

// Unset unsets a given bit.
func (v *V[T]) Unset(index int) {
	i, b := v.locate(index)
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

// IsSet checks whether a given bit is set.
func (v *V[T]) IsSet(index int) bool {
	i, b := v.locate(index)
	return v.s[i]&b != 0
}

// Search locates the lowest unset bit in the vector.
// If ok is true, then index is a value suitable for use
// in a call to v.Set.
// This method will fail only when v.Rem() == 0.
func (v *V[T]) Search() (index int, ok bool) {
	if v.rem == 0 {
		return
	}
	nb := v.nbit()
	for i, x := range v.s {
		if x == ^T(0) {
			continue
		}
		b := 0
		for ; x&(1<<b) != 0; b++ {
		}
		return i*nb + b, true
	}
	panic("bitvec: rem miscount")
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	if v.n == 0 || v.rem == v.n {
		return
	}
	clear(v.s)
	nb := v.nbit()
	if pad := len(v.s)*nb - v.n; pad > 0 {
		v.s[len(v.s)-1] = ^T(0) << (nb - pad)
	}
	v.rem = v.n
}
