// Package accel abstracts the polynomial multiplication hot spots of
// the signature scheme behind an Engine so they can be offloaded to an
// alternative arithmetic backend.
//
// Engines trade in NTT-domain operands but always hand back exact
// canonical standard-domain results, so every byte a signer or
// verifier emits is independent of the engine in use.  This
// equivalence is what the cross-engine tests pin down.
package accel

import (
	"dilithium-sign/sign/dilithium/internal/common"
)

// Engine evaluates the ring products dominating signing and
// verification time.
type Engine interface {
	// Name identifies the backend in benchmark output.
	Name() string

	// Uniform expands seed and nonce into a uniform NTT-domain
	// polynomial, used for the rows of the matrix A.
	Uniform(p *common.PolyHat, seed []byte, nonce uint16)

	// MulHat returns the product of a and b, reduced to the standard
	// domain with canonical coefficients.
	MulHat(a, b *common.PolyHat) common.Poly

	// DotHat returns the inner product of the vectors a and b, reduced
	// to the standard domain with canonical coefficients.
	DotHat(a, b []common.PolyHat) common.Poly
}

// Software is the pure-Go engine built on the internal NTT.  It is the
// reference every other engine must agree with bit for bit.
type Software struct{}

func (Software) Name() string { return "software" }

func (Software) Uniform(p *common.PolyHat, seed []byte, nonce uint16) {
	common.DeriveUniform(p, seed, nonce)
}

func (Software) MulHat(a, b *common.PolyHat) common.Poly {
	var c common.PolyHat
	c.MulHat(a, b)
	return c.InvNTT()
}

func (Software) DotHat(a, b []common.PolyHat) common.Poly {
	var c common.PolyHat
	c.DotHat(a, b)
	return c.InvNTT()
}
