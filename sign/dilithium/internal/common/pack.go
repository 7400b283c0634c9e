package common

// Packed sizes of the per-polynomial encodings that depend on the
// parameter set only through a single width.
const (
	// Largest packed masking polynomial (γ₁ = 2¹⁹, 20-bit coefficients).
	PolyLeGamma1Size19 = 20 * N / 8
)

// PolyLeqEtaSize returns the packed size of a polynomial with
// coefficients in {-η, ..., η}: 3 bits each for η = 2, 4 for η = 4.
func PolyLeqEtaSize(eta uint32) int {
	if eta == 2 {
		return 3 * N / 8
	}
	return 4 * N / 8
}

func polyLeGamma1Size(gamma1Bits uint) int {
	return int(gamma1Bits+1) * N / 8
}

// PolyLeGamma1Size returns the packed size of a masking polynomial.
func PolyLeGamma1Size(gamma1Bits uint) int {
	return polyLeGamma1Size(gamma1Bits)
}

// PolyW1Size returns the packed size of a high-bits polynomial: the
// high part has 44 values for γ₂ = (q-1)/88 (6 bits) and 16 values
// for γ₂ = (q-1)/32 (4 bits).
func PolyW1Size(gamma2 uint32) int {
	if gamma2 == Gamma2QMinus1Div88 {
		return 6 * N / 8
	}
	return 4 * N / 8
}

// PackT1 packs the 10-bit coefficients of p into buf.
func PackT1(buf []byte, p *Poly) {
	for i := 0; i < N; i += 4 {
		x := uint64(p[i]) | uint64(p[i+1])<<10 | uint64(p[i+2])<<20 | uint64(p[i+3])<<30
		buf[0] = byte(x)
		buf[1] = byte(x >> 8)
		buf[2] = byte(x >> 16)
		buf[3] = byte(x >> 24)
		buf[4] = byte(x >> 32)
		buf = buf[5:]
	}
}

// UnpackT1 reverses PackT1.
func UnpackT1(p *Poly, buf []byte) {
	for i := 0; i < N; i += 4 {
		x := uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 |
			uint64(buf[3])<<24 | uint64(buf[4])<<32
		p[i] = uint32(x) & 0x3ff
		p[i+1] = uint32(x>>10) & 0x3ff
		p[i+2] = uint32(x>>20) & 0x3ff
		p[i+3] = uint32(x>>30) & 0x3ff
		buf = buf[5:]
	}
}

// PackT0 packs the centered 13-bit coefficients of p, stored as
// 2¹² - c so every field is non-negative.
func PackT0(buf []byte, p *Poly) {
	const center = 1 << (D - 1)
	for i := 0; i < N; i += 8 {
		x1 := uint64(sub(center, p[i]))
		x1 |= uint64(sub(center, p[i+1])) << 13
		x1 |= uint64(sub(center, p[i+2])) << 26
		x1 |= uint64(sub(center, p[i+3])) << 39
		a := uint64(sub(center, p[i+4]))
		x1 |= a << 52
		x2 := a >> 12
		x2 |= uint64(sub(center, p[i+5])) << 1
		x2 |= uint64(sub(center, p[i+6])) << 14
		x2 |= uint64(sub(center, p[i+7])) << 27

		buf[0] = byte(x1)
		buf[1] = byte(x1 >> 8)
		buf[2] = byte(x1 >> 16)
		buf[3] = byte(x1 >> 24)
		buf[4] = byte(x1 >> 32)
		buf[5] = byte(x1 >> 40)
		buf[6] = byte(x1 >> 48)
		buf[7] = byte(x1 >> 56)
		buf[8] = byte(x2)
		buf[9] = byte(x2 >> 8)
		buf[10] = byte(x2 >> 16)
		buf[11] = byte(x2 >> 24)
		buf[12] = byte(x2 >> 32)
		buf = buf[13:]
	}
}

// UnpackT0 reverses PackT0.
func UnpackT0(p *Poly, buf []byte) {
	const center = 1 << (D - 1)
	const mask = (1 << D) - 1
	for i := 0; i < N; i += 8 {
		x1 := uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 |
			uint64(buf[3])<<24 | uint64(buf[4])<<32 | uint64(buf[5])<<40 |
			uint64(buf[6])<<48 | uint64(buf[7])<<56
		x2 := uint64(buf[8]) | uint64(buf[9])<<8 | uint64(buf[10])<<16 |
			uint64(buf[11])<<24 | uint64(buf[12])<<32
		buf = buf[13:]

		p[i] = sub(center, uint32(x1&mask))
		p[i+1] = sub(center, uint32((x1>>13)&mask))
		p[i+2] = sub(center, uint32((x1>>26)&mask))
		p[i+3] = sub(center, uint32((x1>>39)&mask))
		p[i+4] = sub(center, uint32(((x1>>52)|(x2<<12))&mask))
		p[i+5] = sub(center, uint32((x2>>1)&mask))
		p[i+6] = sub(center, uint32((x2>>14)&mask))
		p[i+7] = sub(center, uint32((x2>>27)&mask))
	}
}

// PackLeqEta packs a secret polynomial with coefficients in
// {-η, ..., η}, stored as η - c.
func PackLeqEta(buf []byte, p *Poly, eta uint32) {
	if eta == 2 {
		for i := 0; i < N; i += 8 {
			var x uint32
			for j := 0; j < 8; j++ {
				x |= sub(2, p[i+j]) << (3 * j)
			}
			buf[0] = byte(x)
			buf[1] = byte(x >> 8)
			buf[2] = byte(x >> 16)
			buf = buf[3:]
		}
		return
	}
	for i := 0; i < N; i += 2 {
		buf[i/2] = byte(sub(4, p[i])) | byte(sub(4, p[i+1]))<<4
	}
}

// UnpackLeqEta reverses PackLeqEta and reports whether every field was
// a valid encoding; out-of-range fields make the secret key malformed.
func UnpackLeqEta(p *Poly, buf []byte, eta uint32) bool {
	if eta == 2 {
		for i := 0; i < N; i += 8 {
			x := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16
			// A 3-bit field is invalid iff it is 5, 6 or 7, i.e. the
			// top bit is set together with one of the lower two.
			msbs := x & 0o44444444
			if ((msbs>>1)|(msbs>>2))&x != 0 {
				return false
			}
			buf = buf[3:]
			for j := 0; j < 8; j++ {
				p[i+j] = sub(2, (x>>(3*j))&7)
			}
		}
		return true
	}
	for i := 0; i < N; i += 8 {
		x := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		// A nibble is invalid iff it exceeds 8.
		msbs := x & 0x88888888
		if ((msbs>>1)|(msbs>>2)|(msbs>>3))&x != 0 {
			return false
		}
		buf = buf[4:]
		for j := 0; j < 8; j++ {
			p[i+j] = sub(4, (x>>(4*j))&15)
		}
	}
	return true
}

// PackLeGamma1 packs a polynomial with coefficients in (-γ₁, γ₁],
// stored as γ₁ - c in γ₁Bits+1 bits.
func PackLeGamma1(buf []byte, p *Poly, gamma1Bits uint) {
	if gamma1Bits == 17 {
		const gamma1 = 1 << 17
		for i := 0; i < N; i += 4 {
			x1 := uint64(sub(gamma1, p[i]))
			x1 |= uint64(sub(gamma1, p[i+1])) << 18
			x1 |= uint64(sub(gamma1, p[i+2])) << 36
			x2 := uint64(sub(gamma1, p[i+3]))
			x1 |= x2 << 54
			x2 >>= 10

			buf[0] = byte(x1)
			buf[1] = byte(x1 >> 8)
			buf[2] = byte(x1 >> 16)
			buf[3] = byte(x1 >> 24)
			buf[4] = byte(x1 >> 32)
			buf[5] = byte(x1 >> 40)
			buf[6] = byte(x1 >> 48)
			buf[7] = byte(x1 >> 56)
			buf[8] = byte(x2)
			buf = buf[9:]
		}
		return
	}
	const gamma1 = 1 << 19
	for i := 0; i < N; i += 4 {
		x1 := uint64(sub(gamma1, p[i]))
		x1 |= uint64(sub(gamma1, p[i+1])) << 20
		x1 |= uint64(sub(gamma1, p[i+2])) << 40
		x2 := uint64(sub(gamma1, p[i+3]))
		x1 |= x2 << 60
		x2 >>= 4

		buf[0] = byte(x1)
		buf[1] = byte(x1 >> 8)
		buf[2] = byte(x1 >> 16)
		buf[3] = byte(x1 >> 24)
		buf[4] = byte(x1 >> 32)
		buf[5] = byte(x1 >> 40)
		buf[6] = byte(x1 >> 48)
		buf[7] = byte(x1 >> 56)
		buf[8] = byte(x2)
		buf[9] = byte(x2 >> 8)
		buf = buf[10:]
	}
}

// UnpackLeGamma1 reverses PackLeGamma1.
func UnpackLeGamma1(p *Poly, buf []byte, gamma1Bits uint) {
	if gamma1Bits == 17 {
		const gamma1 = 1 << 17
		const mask = (1 << 18) - 1
		for i := 0; i < N; i += 4 {
			x1 := uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 |
				uint64(buf[3])<<24 | uint64(buf[4])<<32 | uint64(buf[5])<<40 |
				uint64(buf[6])<<48 | uint64(buf[7])<<56
			x2 := uint64(buf[8])
			buf = buf[9:]
			p[i] = sub(gamma1, uint32(x1&mask))
			p[i+1] = sub(gamma1, uint32((x1>>18)&mask))
			p[i+2] = sub(gamma1, uint32((x1>>36)&mask))
			p[i+3] = sub(gamma1, uint32(((x1>>54)|(x2<<10))&mask))
		}
		return
	}
	const gamma1 = 1 << 19
	const mask = (1 << 20) - 1
	for i := 0; i < N; i += 4 {
		x1 := uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 |
			uint64(buf[3])<<24 | uint64(buf[4])<<32 | uint64(buf[5])<<40 |
			uint64(buf[6])<<48 | uint64(buf[7])<<56
		x2 := uint64(buf[8]) | uint64(buf[9])<<8
		buf = buf[10:]
		p[i] = sub(gamma1, uint32(x1&mask))
		p[i+1] = sub(gamma1, uint32((x1>>20)&mask))
		p[i+2] = sub(gamma1, uint32((x1>>40)&mask))
		p[i+3] = sub(gamma1, uint32(((x1>>60)|(x2<<4))&mask))
	}
}

// PackW1 packs a high-bits polynomial produced by Decompose or
// UseHint: 6-bit fields for γ₂ = (q-1)/88, 4-bit for (q-1)/32.
func PackW1(buf []byte, p *Poly, gamma2 uint32) {
	if gamma2 == Gamma2QMinus1Div88 {
		for i := 0; i < N; i += 4 {
			x := p[i] | p[i+1]<<6 | p[i+2]<<12 | p[i+3]<<18
			buf[0] = byte(x)
			buf[1] = byte(x >> 8)
			buf[2] = byte(x >> 16)
			buf = buf[3:]
		}
		return
	}
	for i := 0; i < N; i += 2 {
		buf[i/2] = byte(p[i]) | byte(p[i+1])<<4
	}
}
