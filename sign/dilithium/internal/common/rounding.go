package common

const (
	// The two admissible low-order rounding ranges: γ₂ divides q-1
	// either 88 or 32 times twice over.
	Gamma2QMinus1Div88 = (Q - 1) / 88
	Gamma2QMinus1Div32 = (Q - 1) / 32
)

// power2Round splits a canonical r into r = r₁·2ᵈ + r₀ with the
// centered r₀ in (-2ᵈ⁻¹, 2ᵈ⁻¹].  r₀ is returned canonical in [0, q).
func power2Round(r uint32) (r1, r0 uint32) {
	r1 = r >> D
	r0 = r - r1<<D

	const half = 1 << (D - 1)
	if r0 > half {
		r0 = sub(r0, 1<<D)
		r1++
	}
	return
}

// highBits returns ⌊r⌋ for the decomposition r = r₁·2γ₂ + r₀, with the
// wrap-around at q-1 folded into r₁ = 0.  Division-free: the two
// supported γ₂ each have a fixed multiply-shift that computes the
// quotient exactly for all r in [0, q).
func highBits(r, gamma2 uint32) uint32 {
	r1 := int32((r + 127) >> 7)

	if gamma2 == Gamma2QMinus1Div32 {
		r1 = (r1*1025 + (1 << 21)) >> 22
		return uint32(r1) & 15
	}

	// gamma2 = (q-1)/88
	r1 = (r1*11275 + (1 << 23)) >> 24
	r1 ^= ((43 - r1) >> 31) & r1 // wrap 44 back to 0
	return uint32(r1)
}

// decompose returns r₁ = highBits(r) together with the matching low
// part r₀, canonical in [0, q), so that r ≡ r₁·2γ₂ + r₀ (mod q) with
// centered r₀ in [-γ₂, γ₂].  At the wrap-around r₀ absorbs the -1.
func decompose(r, gamma2 uint32) (r1, r0 uint32) {
	r1 = highBits(r, gamma2)
	t := int32(r) - int32(r1)*int32(gamma2)*2
	t -= ((int32(qMinus1Div2) - t) >> 31) & Q
	return r1, uint32(t) + (uint32(t)>>31)*Q
}

// makeHint returns 1 iff adding z to r changes the high bits of r.
func makeHint(z, r, gamma2 uint32) uint32 {
	if highBits(add(r, z), gamma2) != highBits(r, gamma2) {
		return 1
	}
	return 0
}

// useHint recovers highBits(r + z) from r and the hint bit produced by
// makeHint, without knowing z.
func useHint(hint, r, gamma2 uint32) uint32 {
	r1, r0 := decompose(r, gamma2)
	if hint == 0 {
		return r1
	}

	// The hint says the low part pushed r across a boundary; whether
	// it pushed up or down follows from the sign of r₀.
	positive := r0 != 0 && r0 <= qMinus1Div2

	if gamma2 == Gamma2QMinus1Div32 {
		if positive {
			return (r1 + 1) & 15
		}
		return (r1 - 1) & 15
	}
	if positive {
		if r1 == 43 {
			return 0
		}
		return r1 + 1
	}
	if r1 == 0 {
		return 43
	}
	return r1 - 1
}

// Power2Round splits p into high and low parts per power2Round.
func (p *Poly) Power2Round(p0, p1 *Poly) {
	for i := range p {
		p1[i], p0[i] = power2Round(p[i])
	}
}

// Decompose splits p into high and low parts relative to 2γ₂.
func (p *Poly) Decompose(p0, p1 *Poly, gamma2 uint32) {
	for i := range p {
		p1[i], p0[i] = decompose(p[i], gamma2)
	}
}

// MakeHint fills p with hint bits recording where adding z to r moves
// the high bits, and returns the number of set bits.
func (p *Poly) MakeHint(z, r *Poly, gamma2 uint32) (pop uint32) {
	for i := range p {
		p[i] = makeHint(z[i], r[i], gamma2)
		pop += p[i]
	}
	return
}

// UseHint replaces each coefficient of p by its corrected high bits.
func (p *Poly) UseHint(hint *Poly, gamma2 uint32) {
	for i := range p {
		p[i] = useHint(hint[i], p[i], gamma2)
	}
}
