package common

import (
	"testing"
)

func TestDeriveUniform(t *testing.T) {
	var seed [SeedSize]byte
	var p, p2 PolyHat
	copy(seed[:], "uniform sampling test seed")

	DeriveUniform(&p, seed[:], 0x0102)
	DeriveUniform(&p2, seed[:], 0x0102)
	if p != p2 {
		t.Fatal("sampling is not deterministic")
	}
	for i := range p {
		if p[i] >= Q {
			t.Fatalf("coefficient %d = %d out of range", i, p[i])
		}
	}

	DeriveUniform(&p2, seed[:], 0x0201)
	if p == p2 {
		t.Fatal("nonce does not separate the stream")
	}
}

func TestDeriveUniformLeqEta(t *testing.T) {
	var seed [64]byte
	copy(seed[:], "bounded sampling test seed")

	for _, eta := range []uint32{2, 4} {
		var p Poly
		DeriveUniformLeqEta(&p, seed[:], 3, eta)
		for i := range p {
			if norm(p[i]) > eta {
				t.Fatalf("eta=%d: coefficient %d = %d out of range", eta, i, p[i])
			}
		}
	}
}

func TestDeriveUniformLeGamma1(t *testing.T) {
	var seed [64]byte
	copy(seed[:], "mask sampling test seed")

	for _, bits := range []uint{17, 19} {
		var p Poly
		gamma1 := uint32(1) << bits
		DeriveUniformLeGamma1(&p, seed[:], 7, bits)
		for i := range p {
			c := centered(p[i])
			if c <= -int64(gamma1) || c > int64(gamma1) {
				t.Fatalf("gamma1Bits=%d: coefficient %d = %d out of range", bits, i, c)
			}
		}
	}
}

func TestDeriveUniformBall(t *testing.T) {
	var seed [SeedSize]byte
	copy(seed[:], "challenge sampling test seed")

	for _, tau := range []int{39, 49, 60} {
		var p Poly
		DeriveUniformBall(&p, seed[:], tau)
		nonzero := 0
		for i := range p {
			switch p[i] {
			case 0:
			case 1, Q - 1:
				nonzero++
			default:
				t.Fatalf("tau=%d: coefficient %d = %d not in {-1,0,1}", tau, i, p[i])
			}
		}
		if nonzero != tau {
			t.Fatalf("tau=%d: %d nonzero coefficients", tau, nonzero)
		}
	}
}
