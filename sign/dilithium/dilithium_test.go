package dilithium

import (
	"bytes"
	"crypto"
	"encoding/binary"
	"testing"

	"dilithium-sign/sign/dilithium/accel"
)

func allModes(t testing.TB) []*Mode {
	var ms []*Mode
	for _, p := range []ParameterSet{Mode2, Mode3, Mode5} {
		m, err := NewMode(p)
		if err != nil {
			t.Fatal(err)
		}
		ms = append(ms, m)
	}
	return ms
}

func sigSize(m *Mode) int {
	p := m.Params()
	return p.SignatureSize()
}

func TestSignThenVerifyAndPacking(t *testing.T) {
	var seed [SeedSize]byte
	var msg [8]byte

	for _, m := range allModes(t) {
		sig := make([]byte, sigSize(m))
		for i := uint64(0); i < 10; i++ {
			binary.LittleEndian.PutUint64(seed[:], i)
			pk, sk := m.NewKeyFromSeed(&seed)

			for j := uint64(0); j < 5; j++ {
				binary.LittleEndian.PutUint64(msg[:], j)
				if err := m.SignTo(sk, msg[:], nil, false, sig); err != nil {
					t.Fatal(err)
				}
				if !m.Verify(pk, msg[:], nil, sig) {
					t.Fatalf("%s: valid signature rejected", m.Name())
				}
			}

			pk2, err := m.PublicKeyFromBytes(pk.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if !pk.Equal(pk2) {
				t.Fatalf("%s: public key does not survive packing", m.Name())
			}
			sk2, err := m.PrivateKeyFromBytes(sk.Bytes())
			if err != nil {
				t.Fatal(err)
			}
			if !sk.Equal(sk2) {
				t.Fatalf("%s: private key does not survive packing", m.Name())
			}
		}
	}
}

func TestWireSizes(t *testing.T) {
	for _, tc := range []struct {
		p        ParameterSet
		pk, sk, sig int
	}{
		{Mode2, 1312, 2528, 2420},
		{Mode3, 1952, 4000, 3293},
		{Mode5, 2592, 4864, 4595},
	} {
		if got := tc.p.PublicKeySize(); got != tc.pk {
			t.Errorf("%s: public key size %d, want %d", tc.p.Name, got, tc.pk)
		}
		if got := tc.p.PrivateKeySize(); got != tc.sk {
			t.Errorf("%s: private key size %d, want %d", tc.p.Name, got, tc.sk)
		}
		if got := tc.p.SignatureSize(); got != tc.sig {
			t.Errorf("%s: signature size %d, want %d", tc.p.Name, got, tc.sig)
		}
	}
}

func TestDeterministicSigning(t *testing.T) {
	var seed [SeedSize]byte
	copy(seed[:], "deterministic signing test")
	msg := []byte("the same message twice")

	for _, m := range allModes(t) {
		_, sk := m.NewKeyFromSeed(&seed)
		sig1 := make([]byte, sigSize(m))
		sig2 := make([]byte, sigSize(m))
		if err := m.SignTo(sk, msg, nil, false, sig1); err != nil {
			t.Fatal(err)
		}
		if err := m.SignTo(sk, msg, nil, false, sig2); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(sig1, sig2) {
			t.Fatalf("%s: deterministic signing disagrees with itself", m.Name())
		}

		if err := m.SignTo(sk, msg, nil, true, sig2); err != nil {
			t.Fatal(err)
		}
		if bytes.Equal(sig1, sig2) {
			t.Fatalf("%s: randomized signature equals deterministic one", m.Name())
		}
	}
}

func TestContextString(t *testing.T) {
	var seed [SeedSize]byte
	copy(seed[:], "context string test seed")
	msg := []byte("message")

	for _, m := range allModes(t) {
		pk, sk := m.NewKeyFromSeed(&seed)
		sig := make([]byte, sigSize(m))
		if err := m.SignTo(sk, msg, []byte("ctx-a"), false, sig); err != nil {
			t.Fatal(err)
		}
		if !m.Verify(pk, msg, []byte("ctx-a"), sig) {
			t.Fatalf("%s: signature under its own context rejected", m.Name())
		}
		if m.Verify(pk, msg, []byte("ctx-b"), sig) {
			t.Fatalf("%s: signature accepted under wrong context", m.Name())
		}
		if m.Verify(pk, msg, nil, sig) {
			t.Fatalf("%s: signature accepted without context", m.Name())
		}

		long := make([]byte, 256)
		if err := m.SignTo(sk, msg, long, false, sig); err != ErrContextTooLong {
			t.Fatalf("%s: got %v for oversized context", m.Name(), err)
		}
		if m.Verify(pk, msg, long, sig) {
			t.Fatalf("%s: oversized context accepted in verify", m.Name())
		}
	}
}

func TestBitFlips(t *testing.T) {
	var seed [SeedSize]byte
	copy(seed[:], "bit flip test seed")
	msg := []byte("untampered message")

	for _, m := range allModes(t) {
		pk, sk := m.NewKeyFromSeed(&seed)
		sig := make([]byte, sigSize(m))
		if err := m.SignTo(sk, msg, nil, false, sig); err != nil {
			t.Fatal(err)
		}
		for pos := 0; pos < len(sig); pos += 97 {
			sig[pos] ^= 1
			if m.Verify(pk, msg, nil, sig) {
				t.Fatalf("%s: flipped byte %d still verifies", m.Name(), pos)
			}
			sig[pos] ^= 1
		}
		msg[3] ^= 1
		if m.Verify(pk, msg, nil, sig) {
			t.Fatalf("%s: flipped message still verifies", m.Name())
		}
	}
}

func TestModeMismatch(t *testing.T) {
	var seed [SeedSize]byte
	ms := allModes(t)
	m2, m3 := ms[0], ms[1]
	pk, sk := m2.NewKeyFromSeed(&seed)
	sig := make([]byte, sigSize(m2))
	if err := m3.SignTo(sk, []byte("x"), nil, false, sig); err != ErrModeMismatch {
		t.Fatalf("got %v signing with mismatched mode", err)
	}
	if m3.Verify(pk, []byte("x"), nil, sig) {
		t.Fatal("mismatched mode verified")
	}
}

// One seed must give unrelated keys per parameter set, so mixing up
// levels can never produce a related key pair.
func TestSeedDomainSeparation(t *testing.T) {
	var seed [SeedSize]byte
	copy(seed[:], "domain separation test seed")
	ms := allModes(t)
	pkA, _ := ms[0].NewKeyFromSeed(&seed)
	pkB, _ := ms[1].NewKeyFromSeed(&seed)
	if bytes.Equal(pkA.Bytes()[:SeedSize], pkB.Bytes()[:SeedSize]) {
		t.Fatal("rho shared between parameter sets")
	}
}

func TestGenerateKey(t *testing.T) {
	for _, m := range allModes(t) {
		pk, sk, err := m.GenerateKey(nil)
		if err != nil {
			t.Fatal(err)
		}
		sig := make([]byte, sigSize(m))
		if err := m.SignTo(sk, []byte("fresh key"), nil, false, sig); err != nil {
			t.Fatal(err)
		}
		if !m.Verify(pk, []byte("fresh key"), nil, sig) {
			t.Fatalf("%s: fresh key cannot verify its own signature", m.Name())
		}
	}
}

func TestCryptoSigner(t *testing.T) {
	var seed [SeedSize]byte
	copy(seed[:], "crypto signer test seed")
	for _, m := range allModes(t) {
		_, sk := m.NewKeyFromSeed(&seed)

		var signer crypto.Signer = sk
		sig, err := signer.Sign(nil, []byte("signer"), crypto.Hash(0))
		if err != nil {
			t.Fatal(err)
		}
		pk, ok := signer.Public().(*PublicKey)
		if !ok {
			t.Fatal("Public() did not return a *PublicKey")
		}
		if !m.Verify(pk, []byte("signer"), nil, sig) {
			t.Fatalf("%s: crypto.Signer signature rejected", m.Name())
		}
		if _, err := signer.Sign(nil, []byte("x"), crypto.SHA256); err == nil {
			t.Fatal("pre-hashed signing accepted")
		}
	}
}

// Signatures and keys must not depend on the engine in use.
func TestEngineEquivalence(t *testing.T) {
	lat, err := accel.NewLattice()
	if err != nil {
		t.Fatal(err)
	}

	var seed [SeedSize]byte
	copy(seed[:], "engine equivalence test")
	msg := []byte("engine independent bytes")

	for _, m := range allModes(t) {
		ml := m.WithEngine(lat)

		pk, sk := m.NewKeyFromSeed(&seed)
		pkl, skl := ml.NewKeyFromSeed(&seed)
		if !bytes.Equal(pk.Bytes(), pkl.Bytes()) {
			t.Fatalf("%s: public keys differ across engines", m.Name())
		}
		if !bytes.Equal(sk.Bytes(), skl.Bytes()) {
			t.Fatalf("%s: private keys differ across engines", m.Name())
		}

		sig := make([]byte, sigSize(m))
		sigl := make([]byte, sigSize(m))
		if err := m.SignTo(sk, msg, nil, false, sig); err != nil {
			t.Fatal(err)
		}
		if err := ml.SignTo(skl, msg, nil, false, sigl); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(sig, sigl) {
			t.Fatalf("%s: signatures differ across engines", m.Name())
		}
		if !ml.Verify(pkl, msg, nil, sig) {
			t.Fatalf("%s: lattice engine rejects software signature", m.Name())
		}
	}
}

func BenchmarkSign(b *testing.B) {
	for _, m := range allModes(b) {
		b.Run(m.Name(), func(b *testing.B) {
			var seed [SeedSize]byte
			_, sk := m.NewKeyFromSeed(&seed)
			sig := make([]byte, sigSize(m))
			msg := []byte("benchmark message")
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				binary.LittleEndian.PutUint64(msg, uint64(i))
				if err := m.SignTo(sk, msg, nil, false, sig); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkVerify(b *testing.B) {
	for _, m := range allModes(b) {
		b.Run(m.Name(), func(b *testing.B) {
			var seed [SeedSize]byte
			pk, sk := m.NewKeyFromSeed(&seed)
			sig := make([]byte, sigSize(m))
			msg := []byte("benchmark message")
			if err := m.SignTo(sk, msg, nil, false, sig); err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if !m.Verify(pk, msg, nil, sig) {
					b.Fatal()
				}
			}
		})
	}
}
