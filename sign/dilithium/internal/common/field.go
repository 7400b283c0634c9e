// Package common holds the parameter-independent core of Dilithium:
// arithmetic modulo q over polynomials of degree 256, the NTT, the
// samplers and the fixed-width bit packers shared by all modes.
package common

const (
	// Degree of the polynomial ring Z_q[x]/(x^256 + 1).
	N = 256

	// The prime modulus q = 2²³ - 2¹³ + 1.
	Q = 8380417

	// Number of bits needed to represent a coefficient in [0, q).
	QBits = 23

	// Number of dropped bits in the Power2Round decomposition of t.
	D = 13

	// Size of seeds expanded into polynomials.
	SeedSize = 32

	// Size of a packed polynomial with 10-bit coefficients (t₁).
	PolyT1Size = (N * (QBits - D)) / 8

	// Size of a packed polynomial with 13-bit coefficients (t₀).
	PolyT0Size = (N * D) / 8
)

const (
	// qNegInv = -q⁻¹ mod 2³²
	qNegInv = 4236238847

	// montR = 2³² mod q
	montR = 4193792

	// montR2 = 2⁶⁴ mod q
	montR2 = 2365951

	// invN = 256⁻¹ · 2⁶⁴ mod q, the scale factor applied in the last
	// stage of the inverse NTT.
	invN = 41978

	qMinus1Div2 = (Q - 1) / 2
)

// reduceOnce reduces a value below 2q to the canonical range [0, q)
// without branching on the value.
func reduceOnce(a uint32) uint32 {
	x := a - Q
	x += (x >> 31) * Q
	return x
}

// add returns (a + b) mod q for canonical a, b.
func add(a, b uint32) uint32 {
	return reduceOnce(a + b)
}

// sub returns (a - b) mod q for canonical a, b.
func sub(a, b uint32) uint32 {
	return reduceOnce(a - b + Q)
}

// montReduce returns a·2⁻³² mod q in canonical form.  The input must
// be below q·2³²; products of two canonical coefficients and sums of
// up to 512 such products both satisfy this bound.
func montReduce(a uint64) uint32 {
	t := uint32(a) * qNegInv
	return reduceOnce(uint32((a + uint64(t)*Q) >> 32))
}

// montMul returns a·b·2⁻³² mod q for canonical a, b.
func montMul(a, b uint32) uint32 {
	return montReduce(uint64(a) * uint64(b))
}

// norm returns |a| for a canonical coefficient interpreted as its
// centered representative in (-q/2, q/2].  Branch-free: the sign is
// folded in with masks so secret coefficients do not steer branches.
func norm(a uint32) uint32 {
	x := int32(qMinus1Div2 - a)
	x ^= x >> 31
	return uint32(qMinus1Div2 - x)
}
