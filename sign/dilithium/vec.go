package dilithium

import (
	"dilithium-sign/sign/dilithium/internal/common"
)

// vec is a vector of K or L polynomials in the standard domain.
type vec []common.Poly

func (v vec) ntt() []common.PolyHat {
	h := make([]common.PolyHat, len(v))
	for i := range v {
		h[i] = v[i].NTT()
	}
	return h
}

// exceeds reports whether any polynomial in the vector has a
// coefficient of centered magnitude at least bound.
func (v vec) exceeds(bound uint32) bool {
	for i := range v {
		if v[i].Exceeds(bound) {
			return true
		}
	}
	return false
}

func (v vec) equal(o vec) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// row slices the i-th row out of a K×L row-major matrix.
func row(a []common.PolyHat, l, i int) []common.PolyHat {
	return a[i*l : (i+1)*l]
}
