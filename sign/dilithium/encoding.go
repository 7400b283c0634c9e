package dilithium

import (
	"golang.org/x/crypto/sha3"

	"dilithium-sign/sign/dilithium/internal/common"
)

// Bytes returns the packed public key, ρ ‖ t₁.
func (pk *PublicKey) Bytes() []byte {
	out := make([]byte, len(pk.packed))
	copy(out, pk.packed)
	return out
}

// MarshalBinary packs the public key.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	return pk.Bytes(), nil
}

// Bytes returns the packed private key,
// ρ ‖ key ‖ tr ‖ s₁ ‖ s₂ ‖ t₀.
func (sk *PrivateKey) Bytes() []byte {
	buf := make([]byte, sk.mode.p.PrivateKeySize())
	sk.mode.p.packPrivateKey(buf, sk)
	return buf
}

// MarshalBinary packs the private key.
func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	return sk.Bytes(), nil
}

// PublicKeyFromBytes decodes a packed public key and rebuilds the
// cached matrix and tr.
func (m *Mode) PublicKeyFromBytes(data []byte) (*PublicKey, error) {
	p := &m.p
	if len(data) != p.PublicKeySize() {
		return nil, ErrMalformedPublicKey
	}

	pk := &PublicKey{mode: m}
	pk.packed = make([]byte, len(data))
	copy(pk.packed, data)

	copy(pk.rho[:], data)
	data = data[SeedSize:]
	pk.t1 = make(vec, p.K)
	for i := range pk.t1 {
		common.UnpackT1(&pk.t1[i], data)
		data = data[common.PolyT1Size:]
	}
	pk.a = m.deriveMatrix(&pk.rho)

	// tr = CRH(pk)
	h := sha3.NewShake256()
	_, _ = h.Write(pk.packed)
	_, _ = h.Read(pk.tr[:])

	return pk, nil
}

// PrivateKeyFromBytes decodes a packed private key, rebuilds the
// cached NTT vectors and the public key, and rejects encodings whose
// fields are out of range or inconsistent with each other.
func (m *Mode) PrivateKeyFromBytes(data []byte) (*PrivateKey, error) {
	p := &m.p
	if len(data) != p.PrivateKeySize() {
		return nil, ErrMalformedPrivateKey
	}

	sk := &PrivateKey{mode: m}
	if !p.unpackPrivateKey(sk, data) {
		return nil, ErrMalformedPrivateKey
	}
	sk.a = m.deriveMatrix(&sk.rho)
	sk.s1h = sk.s1.ntt()
	sk.s2h = sk.s2.ntt()
	sk.t0h = sk.t0.ntt()

	// Recompute t = A·s₁ + s₂.  Its low bits must match the packed
	// t₀ and the hash of the resulting public key must match tr;
	// anything else is a corrupted or stitched-together key.
	pk := &PublicKey{mode: m, rho: sk.rho, a: sk.a}
	pk.t1 = make(vec, p.K)
	for i := 0; i < p.K; i++ {
		t := m.eng.DotHat(row(sk.a, p.L, i), sk.s1h)
		t.Add(&t, &sk.s2[i])
		var t0 common.Poly
		t.Power2Round(&t0, &pk.t1[i])
		if t0 != sk.t0[i] {
			return nil, ErrMalformedPrivateKey
		}
	}

	pk.packed = make([]byte, p.PublicKeySize())
	p.packPublicKey(pk.packed, &pk.rho, pk.t1)

	h := sha3.NewShake256()
	_, _ = h.Write(pk.packed)
	_, _ = h.Read(pk.tr[:])
	if pk.tr != sk.tr {
		return nil, ErrMalformedPrivateKey
	}
	sk.pk = pk

	return sk, nil
}
