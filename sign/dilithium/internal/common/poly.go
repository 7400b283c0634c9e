package common

// Poly is a polynomial in the standard (coefficient) domain.
// Coefficients are always kept in the canonical range [0, q).
type Poly [N]uint32

// PolyHat is a polynomial in the NTT domain, in bit-reversed order.
// The distinct type keeps standard and NTT domain values from being
// mixed without an explicit transform.
type PolyHat [N]uint32

// Add sets p to a + b.  Nothing is assumed about the relation between
// p, a and b; aliasing is fine.
func (p *Poly) Add(a, b *Poly) {
	for i := range p {
		p[i] = add(a[i], b[i])
	}
}

// Sub sets p to a - b.
func (p *Poly) Sub(a, b *Poly) {
	for i := range p {
		p[i] = sub(a[i], b[i])
	}
}

// Neg sets p to -a.
func (p *Poly) Neg(a *Poly) {
	for i := range p {
		p[i] = sub(0, a[i])
	}
}

// MulBy2toD sets p to 2ᵈ·a without reduction.  Only valid when the
// coefficients of a are below 2^(QBits-D), as for t₁; the products
// then stay below q.
func (p *Poly) MulBy2toD(a *Poly) {
	for i := range p {
		p[i] = a[i] << D
	}
}

// Exceeds reports whether the infinity norm of p, over centered
// representatives, is at least bound.  The norm itself is computed
// with masks; only the comparison against the public bound branches,
// and whether a rejection happened is public anyway.
func (p *Poly) Exceeds(bound uint32) bool {
	for i := range p {
		if norm(p[i]) >= bound {
			return true
		}
	}
	return false
}

// Add sets p to a + b coefficient-wise in the NTT domain.
func (p *PolyHat) Add(a, b *PolyHat) {
	for i := range p {
		p[i] = add(a[i], b[i])
	}
}

// Equal reports whether two standard-domain polynomials are identical.
// Not constant-time; for public values and tests only.
func (p *Poly) Equal(o *Poly) bool {
	return *p == *o
}
