package dilithium

import (
	"dilithium-sign/sign/dilithium/internal/common"
)

// unpackedSignature is a decoded signature: challenge seed, masked
// response and hint.
type unpackedSignature struct {
	c    [CTildeSize]byte
	z    vec
	hint vec
}

// packSig packs the signature as c̃ ‖ z ‖ hint into buf.
func (p *ParameterSet) packSig(buf []byte, sig *unpackedSignature) {
	copy(buf, sig.c[:])
	buf = buf[CTildeSize:]
	for i := range sig.z {
		common.PackLeGamma1(buf, &sig.z[i], p.Gamma1Bits)
		buf = buf[p.polyLeGamma1Size():]
	}
	p.packHint(buf, sig.hint)
}

// unpackSig decodes buf into sig and reports whether it is a valid
// encoding: correct length, ‖z‖∞ < γ₁ - β and a well-formed hint.
func (p *ParameterSet) unpackSig(sig *unpackedSignature, buf []byte) bool {
	if len(buf) != p.SignatureSize() {
		return false
	}
	copy(sig.c[:], buf)
	buf = buf[CTildeSize:]
	sig.z = make(vec, p.L)
	for i := range sig.z {
		common.UnpackLeGamma1(&sig.z[i], buf, p.Gamma1Bits)
		buf = buf[p.polyLeGamma1Size():]
	}
	if sig.z.exceeds(p.Gamma1() - p.Beta()) {
		return false
	}
	sig.hint = make(vec, p.K)
	return p.unpackHint(sig.hint, buf)
}

// packHint encodes the hint vector in ω+K bytes: the positions of the
// set bits in index order, then per polynomial the running count.
func (p *ParameterSet) packHint(buf []byte, hint vec) {
	idx := 0
	for i := 0; i < p.K; i++ {
		for j := 0; j < common.N; j++ {
			if hint[i][j] != 0 {
				buf[idx] = byte(j)
				idx++
			}
		}
		buf[p.Omega+i] = byte(idx)
	}
	for ; idx < p.Omega; idx++ {
		buf[idx] = 0
	}
}

// unpackHint decodes a hint encoding, enforcing that the counts are
// monotone and at most ω, positions strictly increase within each
// polynomial, and unused bytes are zero.  This rules out encoding
// malleability: a signature has exactly one valid byte string.
func (p *ParameterSet) unpackHint(hint vec, buf []byte) bool {
	idx := 0
	for i := 0; i < p.K; i++ {
		hint[i] = common.Poly{}
		limit := int(buf[p.Omega+i])
		if limit < idx || limit > p.Omega {
			return false
		}
		start := idx
		for ; idx < limit; idx++ {
			pos := buf[idx]
			if idx > start && buf[idx-1] >= pos {
				return false
			}
			hint[i][pos] = 1
		}
	}
	for ; idx < p.Omega; idx++ {
		if buf[idx] != 0 {
			return false
		}
	}
	return true
}

// packPublicKey packs ρ ‖ t₁.
func (p *ParameterSet) packPublicKey(buf []byte, rho *[SeedSize]byte, t1 vec) {
	copy(buf, rho[:])
	buf = buf[SeedSize:]
	for i := range t1 {
		common.PackT1(buf, &t1[i])
		buf = buf[common.PolyT1Size:]
	}
}

// packPrivateKey packs ρ ‖ key ‖ tr ‖ s₁ ‖ s₂ ‖ t₀.
func (p *ParameterSet) packPrivateKey(buf []byte, sk *PrivateKey) {
	copy(buf, sk.rho[:])
	copy(buf[SeedSize:], sk.key[:])
	copy(buf[2*SeedSize:], sk.tr[:])
	buf = buf[2*SeedSize+TRSize:]

	etaSize := common.PolyLeqEtaSize(p.Eta)
	for i := range sk.s1 {
		common.PackLeqEta(buf, &sk.s1[i], p.Eta)
		buf = buf[etaSize:]
	}
	for i := range sk.s2 {
		common.PackLeqEta(buf, &sk.s2[i], p.Eta)
		buf = buf[etaSize:]
	}
	for i := range sk.t0 {
		common.PackT0(buf, &sk.t0[i])
		buf = buf[common.PolyT0Size:]
	}
}

// unpackPrivateKey decodes the packed fields of a private key and
// reports whether the secret vectors were validly encoded.  The
// derived caches are not rebuilt here.
func (p *ParameterSet) unpackPrivateKey(sk *PrivateKey, buf []byte) bool {
	copy(sk.rho[:], buf)
	copy(sk.key[:], buf[SeedSize:])
	copy(sk.tr[:], buf[2*SeedSize:])
	buf = buf[2*SeedSize+TRSize:]

	etaSize := common.PolyLeqEtaSize(p.Eta)
	sk.s1 = make(vec, p.L)
	sk.s2 = make(vec, p.K)
	sk.t0 = make(vec, p.K)
	for i := range sk.s1 {
		if !common.UnpackLeqEta(&sk.s1[i], buf, p.Eta) {
			return false
		}
		buf = buf[etaSize:]
	}
	for i := range sk.s2 {
		if !common.UnpackLeqEta(&sk.s2[i], buf, p.Eta) {
			return false
		}
		buf = buf[etaSize:]
	}
	for i := range sk.t0 {
		common.UnpackT0(&sk.t0[i], buf)
		buf = buf[common.PolyT0Size:]
	}
	return true
}
