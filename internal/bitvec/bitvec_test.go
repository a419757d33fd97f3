// Copyright 2025 Gustavo C. Viegas. All rights reserved.

package bitvec

import "testing"

func TestNew(t *testing.T) {
	for _, x := range [...]struct {
		nbits    int
		len, rem int
	}{
		{0, 0, 0},
		{-1, 0, 0},
		{1, 1, 1},
		{6, 6, 6},
		{8, 8, 8},
		{13, 13, 13},
		{64, 64, 64},
		{65, 65, 65},
	} {
		v := New[uint8](x.nbits)
		if n := v.Len(); n != x.len {
			t.Fatalf("New(%d).Len:\nhave %d\nwant %d", x.nbits, n, x.len)
		}
		if n := v.Rem(); n != x.rem {
			t.Fatalf("New(%d).Rem:\nhave %d\nwant %d", x.nbits, n, x.rem)
		}
	}
}

func TestSetUnset(t *testing.T) {
	v := New[uint16](20)
	for _, i := range [...]int{0, 7, 15, 16, 19} {
		if v.IsSet(i) {
			t.Fatalf("IsSet(%d):\nhave true\nwant false", i)
		}
		v.Set(i)
		if !v.IsSet(i) {
			t.Fatalf("IsSet(%d):\nhave false\nwant true", i)
		}
	}
	if n := v.Rem(); n != 15 {
		t.Fatalf("Rem:\nhave %d\nwant 15", n)
	}
	// Setting a set bit changes nothing.
	v.Set(7)
	if n := v.Rem(); n != 15 {
		t.Fatalf("Rem:\nhave %d\nwant 15", n)
	}
	v.Unset(7)
	if v.IsSet(7) {
		t.Fatalf("IsSet(7):\nhave true\nwant false")
	}
	if n := v.Rem(); n != 16 {
		t.Fatalf("Rem:\nhave %d\nwant 16", n)
	}
	v.Unset(7)
	if n := v.Rem(); n != 16 {
		t.Fatalf("Rem:\nhave %d\nwant 16", n)
	}
}

func TestSearch(t *testing.T) {
	const n = 6
	v := New[uint8](n)
	for want := 0; want < n; want++ {
		i, ok := v.Search()
		if !ok || i != want {
			t.Fatalf("Search:\nhave %d, %v\nwant %d, true", i, ok, want)
		}
		v.Set(i)
	}
	// Full vector: the padding bits of the last word must
	// not be reported as free.
	if i, ok := v.Search(); ok {
		t.Fatalf("Search (full):\nhave %d, true\nwant _, false", i)
	}
	v.Unset(3)
	if i, ok := v.Search(); !ok || i != 3 {
		t.Fatalf("Search:\nhave %d, %v\nwant 3, true", i, ok)
	}
}

func TestSearchGranularity(t *testing.T) {
	v := New[uint64](130)
	for i := 0; i < 130; i++ {
		v.Set(i)
	}
	if i, ok := v.Search(); ok {
		t.Fatalf("Search (full):\nhave %d, true\nwant _, false", i)
	}
	v.Unset(129)
	if i, ok := v.Search(); !ok || i != 129 {
		t.Fatalf("Search:\nhave %d, %v\nwant 129, true", i, ok)
	}
}

func TestClear(t *testing.T) {
	v := New[uint32](10)
	for _, i := range [...]int{1, 2, 3, 5, 8} {
		v.Set(i)
	}
	v.Clear()
	if n := v.Rem(); n != 10 {
		t.Fatalf("Rem (after clear):\nhave %d\nwant 10", n)
	}
	for i := 0; i < 10; i++ {
		if v.IsSet(i) {
			t.Fatalf("IsSet(%d) (after clear):\nhave true\nwant false", i)
		}
	}
	// Clearing everything twice is fine.
	v.Clear()
	if i, ok := v.Search(); !ok || i != 0 {
		t.Fatalf("Search:\nhave %d, %v\nwant 0, true", i, ok)
	}
}
