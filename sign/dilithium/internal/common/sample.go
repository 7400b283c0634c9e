package common

import (
	"golang.org/x/crypto/sha3"
)

// DeriveUniform samples p uniformly from the seed and nonce by
// rejection from a SHAKE128 stream, three bytes per candidate.  The
// matrix A is defined in the NTT domain, so the sample is one too.
func DeriveUniform(p *PolyHat, seed []byte, nonce uint16) {
	var buf [168]byte // SHAKE128 rate

	h := sha3.NewShake128()
	_, _ = h.Write(seed)
	_, _ = h.Write([]byte{byte(nonce), byte(nonce >> 8)})

	j := 0
	for {
		_, _ = h.Read(buf[:])
		for i := 0; i < len(buf) && j < N; i += 3 {
			t := (uint32(buf[i]) | (uint32(buf[i+1]) << 8) |
				(uint32(buf[i+2]) << 16)) & 0x7fffff
			if t < Q {
				p[j] = t
				j++
			}
		}
		if j == N {
			return
		}
	}
}

// DeriveUniformLeqEta samples p with coefficients in {-η, ..., η} from
// a SHAKE256 stream, two candidate nibbles per byte.  η must be 2 or 4.
func DeriveUniformLeqEta(p *Poly, seed []byte, nonce uint16, eta uint32) {
	var buf [136]byte // SHAKE256 rate

	h := sha3.NewShake256()
	_, _ = h.Write(seed)
	_, _ = h.Write([]byte{byte(nonce), byte(nonce >> 8)})

	j := 0
	for {
		_, _ = h.Read(buf[:])
		for i := 0; i < len(buf) && j < N; i++ {
			for _, z := range [2]uint32{uint32(buf[i]) & 15, uint32(buf[i]) >> 4} {
				if j == N {
					break
				}
				if eta == 2 {
					if z < 15 {
						p[j] = sub(2, z%5)
						j++
					}
				} else if z <= 8 {
					p[j] = sub(4, z)
					j++
				}
			}
		}
		if j == N {
			return
		}
	}
}

// DeriveUniformLeGamma1 samples the masking polynomial with
// coefficients in (-γ₁, γ₁] by squeezing exactly the packed size and
// unpacking it, so a signer and a test vector agree byte for byte.
func DeriveUniformLeGamma1(p *Poly, seed []byte, nonce uint16, gamma1Bits uint) {
	var buf [PolyLeGamma1Size19]byte

	h := sha3.NewShake256()
	_, _ = h.Write(seed)
	_, _ = h.Write([]byte{byte(nonce), byte(nonce >> 8)})
	_, _ = h.Read(buf[:polyLeGamma1Size(gamma1Bits)])

	UnpackLeGamma1(p, buf[:], gamma1Bits)
}

// DeriveUniformBall samples the sparse challenge: τ coefficients set
// to ±1, the rest zero.  A Fisher-Yates shuffle places the signs; the
// first eight squeezed bytes feed the sign bits, index candidates are
// rejection-sampled from the rest of the stream.
func DeriveUniformBall(p *Poly, seed []byte, tau int) {
	var buf [136]byte

	h := sha3.NewShake256()
	_, _ = h.Write(seed)
	_, _ = h.Read(buf[:])

	var signs uint64
	for i := 0; i < 8; i++ {
		signs |= uint64(buf[i]) << (8 * i)
	}
	offset := 8

	*p = Poly{}
	for i := N - tau; i < N; i++ {
		var j byte
		for {
			if offset >= len(buf) {
				_, _ = h.Read(buf[:])
				offset = 0
			}
			j = buf[offset]
			offset++
			if int(j) <= i {
				break
			}
		}

		p[i] = p[j]
		p[j] = 1
		if signs&1 == 1 {
			p[j] = Q - 1
		}
		signs >>= 1
	}
}
