package core

import "testing"

func TestNewRNGIsDeterministicForSameSeed(t *testing.T) {
	a := NewRNG(1)
	b := NewRNG(1)
	for i := 0; i < 50; i++ {
		va := a.Float32Range(0, 6000)
		vb := b.Float32Range(0, 6000)
		if va != vb {
			t.Fatalf("draw %d diverged: %v != %v", i, va, vb)
		}
	}
}

func TestFloat32RangeStaysWithinBounds(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 200; i++ {
		v := r.Float32Range(100, 500)
		if v < 100 || v >= 500 {
			t.Fatalf("value %v out of range [100, 500)", v)
		}
	}
}

func TestUint16nZeroAlwaysReturnsZero(t *testing.T) {
	r := NewRNG(3)
	if v := r.Uint16n(0); v != 0 {
		t.Fatalf("expected 0 for n=0, got %v", v)
	}
}
