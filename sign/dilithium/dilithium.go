package dilithium

import (
	"crypto"
	cryptoRand "crypto/rand"
	"crypto/subtle"
	"errors"
	"io"

	"golang.org/x/crypto/sha3"

	"dilithium-sign/sign/dilithium/accel"
	"dilithium-sign/sign/dilithium/internal/common"
)

var (
	// ErrContextTooLong is returned when the optional context string
	// passed to SignTo or Verify exceeds 255 bytes.
	ErrContextTooLong = errors.New("dilithium: context string longer than 255 bytes")

	// ErrRetryLimit is returned when the rejection loop hits its
	// safety ceiling.  With an honestly generated key this has
	// probability under 2⁻¹²⁸ per signature.
	ErrRetryLimit = errors.New("dilithium: rejection sampling did not converge")

	// ErrModeMismatch is returned when a key from one parameter set is
	// used with a Mode holding another.
	ErrModeMismatch = errors.New("dilithium: key belongs to a different parameter set")

	// ErrMalformedPublicKey and ErrMalformedPrivateKey are returned by
	// the unmarshalers on inputs that are not valid packed keys.
	ErrMalformedPublicKey  = errors.New("dilithium: malformed public key")
	ErrMalformedPrivateKey = errors.New("dilithium: malformed private key")
)

// Mode is an instantiated parameter set bound to an arithmetic engine.
// The zero value is not usable; construct with NewMode.
type Mode struct {
	p   ParameterSet
	eng accel.Engine
}

// NewMode validates p and returns a Mode running on the pure-software
// engine.
func NewMode(p ParameterSet) (*Mode, error) {
	if err := p.Valid(); err != nil {
		return nil, err
	}
	return &Mode{p: p, eng: accel.Software{}}, nil
}

// WithEngine returns a copy of m running its ring products on eng.
// Signatures and keys are byte-identical across engines.
func (m *Mode) WithEngine(eng accel.Engine) *Mode {
	return &Mode{p: m.p, eng: eng}
}

// Params returns the parameter set of this mode.
func (m *Mode) Params() ParameterSet { return m.p }

// Name returns the name of the parameter set.
func (m *Mode) Name() string { return m.p.Name }

// PublicKey is a Dilithium public key.
type PublicKey struct {
	mode *Mode
	rho  [SeedSize]byte
	t1   vec

	// Cached values derived from the packed representation.
	packed []byte
	a      []common.PolyHat // ExpandA(ρ), K·L row-major
	tr     [TRSize]byte
}

// PrivateKey is a Dilithium private key.
type PrivateKey struct {
	mode *Mode
	rho  [SeedSize]byte
	key  [SeedSize]byte
	tr   [TRSize]byte
	s1   vec
	s2   vec
	t0   vec

	// Cached values.
	a   []common.PolyHat // ExpandA(ρ)
	s1h []common.PolyHat // NTT(s₁)
	s2h []common.PolyHat // NTT(s₂)
	t0h []common.PolyHat // NTT(t₀)
	pk  *PublicKey
}

func (m *Mode) deriveMatrix(rho *[SeedSize]byte) []common.PolyHat {
	a := make([]common.PolyHat, m.p.K*m.p.L)
	for i := 0; i < m.p.K; i++ {
		for j := 0; j < m.p.L; j++ {
			m.eng.Uniform(&a[i*m.p.L+j], rho[:], uint16(i<<8|j))
		}
	}
	return a
}

// GenerateKey generates a key pair from rand, which defaults to
// crypto/rand.Reader when nil.
func (m *Mode) GenerateKey(rand io.Reader) (*PublicKey, *PrivateKey, error) {
	if rand == nil {
		rand = cryptoRand.Reader
	}
	var seed [SeedSize]byte
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return nil, nil, err
	}
	pk, sk := m.NewKeyFromSeed(&seed)
	return pk, sk, nil
}

// NewKeyFromSeed derives a key pair deterministically from seed.  The
// appended dimensions separate the expansion domains of the three
// parameter sets, so one seed yields unrelated keys per set.
func (m *Mode) NewKeyFromSeed(seed *[SeedSize]byte) (*PublicKey, *PrivateKey) {
	p := &m.p
	pk := &PublicKey{mode: m}
	sk := &PrivateKey{mode: m}

	var sSeed [64]byte
	h := sha3.NewShake256()
	_, _ = h.Write(seed[:])
	_, _ = h.Write([]byte{byte(p.K), byte(p.L)})
	_, _ = h.Read(sk.rho[:])
	_, _ = h.Read(sSeed[:])
	_, _ = h.Read(sk.key[:])

	pk.rho = sk.rho
	sk.a = m.deriveMatrix(&sk.rho)
	pk.a = sk.a

	sk.s1 = make(vec, p.L)
	sk.s2 = make(vec, p.K)
	for j := 0; j < p.L; j++ {
		common.DeriveUniformLeqEta(&sk.s1[j], sSeed[:], uint16(j), p.Eta)
	}
	for i := 0; i < p.K; i++ {
		common.DeriveUniformLeqEta(&sk.s2[i], sSeed[:], uint16(p.L+i), p.Eta)
	}
	sk.s1h = sk.s1.ntt()
	sk.s2h = sk.s2.ntt()

	// t = A·s₁ + s₂, split into t₁ and t₀
	pk.t1 = make(vec, p.K)
	sk.t0 = make(vec, p.K)
	for i := 0; i < p.K; i++ {
		t := m.eng.DotHat(row(sk.a, p.L, i), sk.s1h)
		t.Add(&t, &sk.s2[i])
		t.Power2Round(&sk.t0[i], &pk.t1[i])
	}
	sk.t0h = sk.t0.ntt()

	pk.packed = make([]byte, p.PublicKeySize())
	p.packPublicKey(pk.packed, &pk.rho, pk.t1)

	// tr = CRH(pk)
	h.Reset()
	_, _ = h.Write(pk.packed)
	_, _ = h.Read(sk.tr[:])
	pk.tr = sk.tr
	sk.pk = pk

	return pk, sk
}

// ctxMessage frames msg with the domain separator for pure (non
// pre-hashed) signing: 0 ‖ len(ctx) ‖ ctx ‖ msg.
func ctxMessage(msg, ctx []byte) func(io.Writer) {
	return func(w io.Writer) {
		_, _ = w.Write([]byte{0, byte(len(ctx))})
		if ctx != nil {
			_, _ = w.Write(ctx)
		}
		_, _ = w.Write(msg)
	}
}

// SignTo signs msg under the optional context string ctx and writes
// the signature into sig, which must be SignatureSize bytes.  With
// randomized false the signature is deterministic.  A nil ctx is
// equivalent to an empty one.
func (m *Mode) SignTo(sk *PrivateKey, msg, ctx []byte, randomized bool, sig []byte) error {
	if len(ctx) > 255 {
		return ErrContextTooLong
	}
	if sk.mode.p != m.p {
		return ErrModeMismatch
	}
	var rnd [32]byte
	if randomized {
		if _, err := io.ReadFull(cryptoRand.Reader, rnd[:]); err != nil {
			return err
		}
	}
	return m.signTo(sk, ctxMessage(msg, ctx), rnd, sig)
}

func (m *Mode) signTo(sk *PrivateKey, msg func(io.Writer), rnd [32]byte, sig []byte) error {
	p := &m.p
	if len(sig) != p.SignatureSize() {
		panic("dilithium: sig must be SignatureSize bytes")
	}

	var mu [64]byte
	var rhop [64]byte
	h := sha3.NewShake256()

	// μ = CRH(tr ‖ M')
	_, _ = h.Write(sk.tr[:])
	msg(h)
	_, _ = h.Read(mu[:])

	// ρ' = CRH(key ‖ rnd ‖ μ); rnd is zero for deterministic signing.
	h.Reset()
	_, _ = h.Write(sk.key[:])
	_, _ = h.Write(rnd[:])
	_, _ = h.Write(mu[:])
	_, _ = h.Read(rhop[:])

	y := make(vec, p.L)
	w := make(vec, p.K)
	w0 := make(vec, p.K)
	w1 := make(vec, p.K)
	w1Packed := make([]byte, p.K*p.polyW1Size())
	var usig unpackedSignature
	usig.z = make(vec, p.L)
	usig.hint = make(vec, p.K)

	yNonce := uint16(0)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		// y = ExpandMask(ρ', nonce), fresh nonces every pass
		for j := 0; j < p.L; j++ {
			common.DeriveUniformLeGamma1(&y[j], rhop[:], yNonce+uint16(j), p.Gamma1Bits)
		}
		yNonce += uint16(p.L)

		// w = A·y, and its decomposition
		yh := y.ntt()
		for i := 0; i < p.K; i++ {
			w[i] = m.eng.DotHat(row(sk.a, p.L, i), yh)
			w[i].Decompose(&w0[i], &w1[i], p.Gamma2)
			common.PackW1(w1Packed[i*p.polyW1Size():], &w1[i], p.Gamma2)
		}

		// c̃ = H(μ ‖ w₁)
		h.Reset()
		_, _ = h.Write(mu[:])
		_, _ = h.Write(w1Packed)
		_, _ = h.Read(usig.c[:])

		var c common.Poly
		common.DeriveUniformBall(&c, usig.c[:], p.Tau)
		ch := c.NTT()

		// z = y + c·s₁
		for j := 0; j < p.L; j++ {
			cs1 := m.eng.MulHat(&ch, &sk.s1h[j])
			usig.z[j].Add(&y[j], &cs1)
		}
		if usig.z.exceeds(p.Gamma1() - p.Beta()) {
			continue
		}

		rejected := false
		hintPop := 0
		for i := 0; i < p.K; i++ {
			// Ensure ‖w₀ - c·s₂‖∞ < γ₂ - β, which also guarantees
			// that the high bits of w - c·s₂ still equal w₁.
			cs2 := m.eng.MulHat(&ch, &sk.s2h[i])
			var r0 common.Poly
			r0.Sub(&w0[i], &cs2)
			if r0.Exceeds(p.Gamma2 - p.Beta()) {
				rejected = true
				break
			}

			// Ensure ‖c·t₀‖∞ < γ₂; the hint must be able to absorb it.
			ct0 := m.eng.MulHat(&ch, &sk.t0h[i])
			if ct0.Exceeds(p.Gamma2) {
				rejected = true
				break
			}

			// hint = MakeHint(-c·t₀, w - c·s₂ + c·t₀); the second
			// argument is what the verifier reconstructs as
			// A·z - 2ᵈ·c·t₁.
			var negCt0, r common.Poly
			negCt0.Neg(&ct0)
			r.Sub(&w[i], &cs2)
			r.Add(&r, &ct0)
			hintPop += int(usig.hint[i].MakeHint(&negCt0, &r, p.Gamma2))
		}
		if rejected || hintPop > p.Omega {
			continue
		}

		p.packSig(sig, &usig)
		return nil
	}
	return ErrRetryLimit
}

// Verify reports whether sig is a valid signature on msg under ctx.
// One pass, no retries; the challenge comparison is constant-time.
func (m *Mode) Verify(pk *PublicKey, msg, ctx, sig []byte) bool {
	if len(ctx) > 255 || pk.mode.p != m.p {
		return false
	}
	return m.verify(pk, ctxMessage(msg, ctx), sig)
}

func (m *Mode) verify(pk *PublicKey, msg func(io.Writer), sig []byte) bool {
	p := &m.p

	// Unpacking enforces ‖z‖∞ < γ₁ - β and the hint weight bound.
	var usig unpackedSignature
	if !p.unpackSig(&usig, sig) {
		return false
	}

	var mu [64]byte
	h := sha3.NewShake256()
	_, _ = h.Write(pk.tr[:])
	msg(h)
	_, _ = h.Read(mu[:])

	var c common.Poly
	common.DeriveUniformBall(&c, usig.c[:], p.Tau)
	ch := c.NTT()
	zh := usig.z.ntt()

	// w' = UseHint(hint, A·z - 2ᵈ·c·t₁); its packed high bits must
	// reproduce the challenge seed.
	w1Packed := make([]byte, p.K*p.polyW1Size())
	for i := 0; i < p.K; i++ {
		az := m.eng.DotHat(row(pk.a, p.L, i), zh)

		var t1sh common.Poly
		t1sh.MulBy2toD(&pk.t1[i])
		t1h := t1sh.NTT()
		ct1 := m.eng.MulHat(&ch, &t1h)

		az.Sub(&az, &ct1)
		az.UseHint(&usig.hint[i], p.Gamma2)
		common.PackW1(w1Packed[i*p.polyW1Size():], &az, p.Gamma2)
	}

	var cp [CTildeSize]byte
	h.Reset()
	_, _ = h.Write(mu[:])
	_, _ = h.Write(w1Packed)
	_, _ = h.Read(cp[:])

	return subtle.ConstantTimeCompare(usig.c[:], cp[:]) == 1
}

// Public returns the public key of sk.
//
// The crypto.PublicKey return type makes PrivateKey implement the
// crypto.Signer interface.
func (sk *PrivateKey) Public() crypto.PublicKey {
	return sk.pk
}

// Sign signs msg deterministically with an empty context string.
//
// opts.HashFunc() must return zero, passing crypto.Hash(0) does;
// rand is ignored.  Implements crypto.Signer; the Mode-level SignTo is
// more flexible.
func (sk *PrivateKey) Sign(rand io.Reader, msg []byte, opts crypto.SignerOpts) ([]byte, error) {
	if opts != nil && opts.HashFunc() != crypto.Hash(0) {
		return nil, errors.New("dilithium: cannot sign hashed message")
	}
	sig := make([]byte, sk.mode.p.SignatureSize())
	if err := sk.mode.SignTo(sk, msg, nil, false, sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// Equal returns whether the two public keys are equal.
func (pk *PublicKey) Equal(other crypto.PublicKey) bool {
	o, ok := other.(*PublicKey)
	if !ok {
		return false
	}
	return pk.mode.p == o.mode.p && pk.rho == o.rho && pk.t1.equal(o.t1)
}

// Equal returns whether the two private keys are equal, in time
// independent of the secret contents.
func (sk *PrivateKey) Equal(other crypto.PrivateKey) bool {
	o, ok := other.(*PrivateKey)
	if !ok || sk.mode.p != o.mode.p {
		return false
	}

	ret := subtle.ConstantTimeCompare(sk.rho[:], o.rho[:]) &
		subtle.ConstantTimeCompare(sk.key[:], o.key[:]) &
		subtle.ConstantTimeCompare(sk.tr[:], o.tr[:])

	acc := uint32(0)
	for _, pair := range [][2]vec{{sk.s1, o.s1}, {sk.s2, o.s2}, {sk.t0, o.t0}} {
		for i := range pair[0] {
			for j := 0; j < common.N; j++ {
				acc |= pair[0][i][j] ^ pair[1][i][j]
			}
		}
	}
	return (ret & subtle.ConstantTimeEq(int32(acc), 0)) == 1
}
