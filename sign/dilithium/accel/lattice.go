package accel

import (
	"github.com/tuneinsight/lattigo/v5/ring"

	"dilithium-sign/sign/dilithium/internal/common"
)

// Lattice runs the ring products on lattigo's residue arithmetic.  Its
// NTT uses a different root ordering than the internal one, so
// operands are taken back to the standard domain before they cross the
// boundary; the negacyclic product itself is the same on both sides,
// which keeps results byte-identical with Software.
//
// Seed expansion stays on the internal sampler: the matrix layout is
// defined by the internal transform's bit-reversed ordering and must
// not depend on the backend.
type Lattice struct {
	r *ring.Ring
}

// NewLattice sets up a lattigo ring matching the scheme modulus.
func NewLattice() (*Lattice, error) {
	r, err := ring.NewRing(common.N, []uint64{common.Q})
	if err != nil {
		return nil, err
	}
	return &Lattice{r: r}, nil
}

func (l *Lattice) Name() string { return "lattigo" }

func (l *Lattice) Uniform(p *common.PolyHat, seed []byte, nonce uint16) {
	common.DeriveUniform(p, seed, nonce)
}

func (l *Lattice) lift(p *common.PolyHat) ring.Poly {
	s := p.Standard()
	out := l.r.NewPoly()
	for i := 0; i < common.N; i++ {
		out.Coeffs[0][i] = uint64(s[i])
	}
	l.r.NTT(out, out)
	l.r.MForm(out, out)
	return out
}

func (l *Lattice) lower(p ring.Poly) common.Poly {
	l.r.IMForm(p, p)
	l.r.INTT(p, p)
	var out common.Poly
	for i := 0; i < common.N; i++ {
		out[i] = uint32(p.Coeffs[0][i])
	}
	return out
}

func (l *Lattice) MulHat(a, b *common.PolyHat) common.Poly {
	pa := l.lift(a)
	pb := l.lift(b)
	c := l.r.NewPoly()
	l.r.MulCoeffsMontgomery(pa, pb, c)
	return l.lower(c)
}

func (l *Lattice) DotHat(a, b []common.PolyHat) common.Poly {
	acc := l.r.NewPoly()
	for i := range a {
		pa := l.lift(&a[i])
		pb := l.lift(&b[i])
		l.r.MulCoeffsMontgomeryThenAdd(pa, pb, acc)
	}
	return l.lower(acc)
}
