package dilithium

import (
	"testing"
)

func TestHintRoundTrip(t *testing.T) {
	p := &Mode3
	hint := make(vec, p.K)
	hint[0][3] = 1
	hint[0][200] = 1
	hint[2][0] = 1
	hint[p.K-1][255] = 1

	buf := make([]byte, p.Omega+p.K)
	p.packHint(buf, hint)

	got := make(vec, p.K)
	if !p.unpackHint(got, buf) {
		t.Fatal("valid hint encoding rejected")
	}
	if !got.equal(hint) {
		t.Fatal("hint round trip failed")
	}
}

// The hint encoding must be canonical: out-of-order positions,
// decreasing counts and nonzero padding are all distinct byte strings
// for the same hint and must be rejected.
func TestHintEncodingStrict(t *testing.T) {
	p := &Mode2
	hint := make(vec, p.K)
	hint[1][10] = 1
	hint[1][20] = 1

	buf := make([]byte, p.Omega+p.K)
	p.packHint(buf, hint)
	got := make(vec, p.K)

	// Swap the two positions of polynomial 1.
	buf[0], buf[1] = buf[1], buf[0]
	if p.unpackHint(got, buf) {
		t.Fatal("out-of-order positions accepted")
	}
	buf[0], buf[1] = buf[1], buf[0]

	// Nonzero padding after the last used index.
	buf[p.Omega-1] = 7
	if p.unpackHint(got, buf) {
		t.Fatal("nonzero padding accepted")
	}
	buf[p.Omega-1] = 0

	// A decreasing per-polynomial count.
	buf[p.Omega+2] = buf[p.Omega+1] - 1
	if p.unpackHint(got, buf) {
		t.Fatal("decreasing hint count accepted")
	}

	// A count beyond omega.
	buf[p.Omega+2] = byte(p.Omega + 1)
	if p.unpackHint(got, buf) {
		t.Fatal("count beyond omega accepted")
	}
}

func TestSignatureUnpackRejects(t *testing.T) {
	for _, m := range allModes(t) {
		p := m.Params()
		var sig unpackedSignature
		if p.unpackSig(&sig, make([]byte, p.SignatureSize()-1)) {
			t.Fatalf("%s: truncated signature accepted", p.Name)
		}

		// z = γ₁ everywhere exceeds γ₁ - β.
		buf := make([]byte, p.SignatureSize())
		if p.unpackSig(&sig, buf) {
			t.Fatalf("%s: oversized z accepted", p.Name)
		}
	}
}

func TestMalformedPrivateKey(t *testing.T) {
	var seed [SeedSize]byte
	copy(seed[:], "malformed key test seed")

	for _, m := range allModes(t) {
		_, sk := m.NewKeyFromSeed(&seed)
		packed := sk.Bytes()

		if _, err := m.PrivateKeyFromBytes(packed); err != nil {
			t.Fatalf("%s: valid key rejected: %v", m.Name(), err)
		}
		if _, err := m.PrivateKeyFromBytes(packed[:len(packed)-1]); err == nil {
			t.Fatalf("%s: truncated key accepted", m.Name())
		}

		// An all-ones eta field is out of range for both eta values.
		tampered := make([]byte, len(packed))
		copy(tampered, packed)
		tampered[2*SeedSize+TRSize] = 0xff
		if _, err := m.PrivateKeyFromBytes(tampered); err == nil {
			t.Fatalf("%s: out-of-range secret coefficient accepted", m.Name())
		}

		// Flipping a bit of t0 breaks consistency with A·s1 + s2.
		copy(tampered, packed)
		tampered[len(tampered)-1] ^= 1
		if _, err := m.PrivateKeyFromBytes(tampered); err == nil {
			t.Fatalf("%s: inconsistent t0 accepted", m.Name())
		}

		// Flipping tr breaks the public key hash check.
		copy(tampered, packed)
		tampered[2*SeedSize] ^= 1
		if _, err := m.PrivateKeyFromBytes(tampered); err == nil {
			t.Fatalf("%s: wrong tr accepted", m.Name())
		}
	}
}

func TestMalformedPublicKey(t *testing.T) {
	m := allModes(t)[0]
	p := m.Params()
	if _, err := m.PublicKeyFromBytes(make([]byte, p.PublicKeySize()+1)); err == nil {
		t.Fatal("oversized public key accepted")
	}
}

func TestParameterSetValid(t *testing.T) {
	for _, p := range []ParameterSet{Mode2, Mode3, Mode5} {
		if err := p.Valid(); err != nil {
			t.Fatal(err)
		}
	}

	bad := Mode2
	bad.Eta = 3
	if bad.Valid() == nil {
		t.Fatal("eta=3 accepted")
	}
	bad = Mode3
	bad.K = 9
	if bad.Valid() == nil {
		t.Fatal("K=9 accepted")
	}
	if _, err := NewMode(bad); err == nil {
		t.Fatal("NewMode accepted invalid parameters")
	}

	if _, err := ParameterSetByName("Dilithium3"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParameterSetByName("Dilithium7"); err == nil {
		t.Fatal("unknown name accepted")
	}
}
