// Package dilithium implements the Dilithium signature scheme (round 3
// of the NIST post-quantum competition) with its three parameter sets
// behind a single runtime-configured implementation.
package dilithium

import (
	"errors"
	"fmt"

	"dilithium-sign/sign/dilithium/internal/common"
)

const (
	// Size of the seed NewKeyFromSeed expands.
	SeedSize = common.SeedSize

	// Size of tr, the hash of the public key kept in the private key.
	TRSize = 32

	// Size of the challenge seed c̃ in a signature.
	CTildeSize = 32

	// Ceiling on rejection attempts per signature.  One attempt
	// succeeds with probability between 1/7 and 1/4 depending on the
	// mode, so reaching the ceiling has probability under 2⁻¹²⁸ for an
	// honest key; hitting it means broken randomness or memory.
	maxAttempts = 576
)

// ParameterSet fixes one security level of the scheme.  All key,
// signature and packed-field sizes derive from it.
type ParameterSet struct {
	Name string

	K          int    // rows of A, length of t, s₂ and the hint
	L          int    // columns of A, length of s₁, y and z
	Eta        uint32 // secret coefficient bound
	Tau        int    // nonzero challenge coefficients
	Gamma1Bits uint   // masking range γ₁ = 2^Gamma1Bits
	Gamma2     uint32 // low-order rounding range
	Omega      int    // total hint weight bound
}

// The three round-3 parameter sets, at NIST security levels 2, 3
// and 5.
var (
	Mode2 = ParameterSet{"Dilithium2", 4, 4, 2, 39, 17, common.Gamma2QMinus1Div88, 80}
	Mode3 = ParameterSet{"Dilithium3", 6, 5, 4, 49, 19, common.Gamma2QMinus1Div32, 55}
	Mode5 = ParameterSet{"Dilithium5", 8, 7, 2, 60, 19, common.Gamma2QMinus1Div32, 75}
)

// ParameterSetByName returns the parameter set with the given name.
func ParameterSetByName(name string) (ParameterSet, error) {
	for _, p := range []ParameterSet{Mode2, Mode3, Mode5} {
		if p.Name == name {
			return p, nil
		}
	}
	return ParameterSet{}, fmt.Errorf("dilithium: unknown parameter set %q", name)
}

// Gamma1 returns the masking range γ₁.
func (p *ParameterSet) Gamma1() uint32 { return 1 << p.Gamma1Bits }

// Beta returns β = τ·η, the largest possible coefficient of c·s.
func (p *ParameterSet) Beta() uint32 { return uint32(p.Tau) * p.Eta }

// PublicKeySize returns the size of a packed public key: ρ ‖ t₁.
func (p *ParameterSet) PublicKeySize() int {
	return SeedSize + p.K*common.PolyT1Size
}

// PrivateKeySize returns the size of a packed private key:
// ρ ‖ key ‖ tr ‖ s₁ ‖ s₂ ‖ t₀.
func (p *ParameterSet) PrivateKeySize() int {
	return SeedSize + SeedSize + TRSize +
		(p.K+p.L)*common.PolyLeqEtaSize(p.Eta) + p.K*common.PolyT0Size
}

// SignatureSize returns the size of a packed signature:
// c̃ ‖ z ‖ hint.
func (p *ParameterSet) SignatureSize() int {
	return CTildeSize + p.L*common.PolyLeGamma1Size(p.Gamma1Bits) + p.Omega + p.K
}

func (p *ParameterSet) polyLeGamma1Size() int {
	return common.PolyLeGamma1Size(p.Gamma1Bits)
}

func (p *ParameterSet) polyW1Size() int {
	return common.PolyW1Size(p.Gamma2)
}

// Valid checks the structural constraints a parameter set must meet
// before the arithmetic below is defined at all.
func (p *ParameterSet) Valid() error {
	if p.K <= 0 || p.L <= 0 || p.K < p.L {
		return errors.New("dilithium: invalid matrix dimensions")
	}
	if p.K > 8 {
		// DotHat's lazy accumulation is sized for at most 8 terms.
		return errors.New("dilithium: K out of range")
	}
	if p.Eta != 2 && p.Eta != 4 {
		return errors.New("dilithium: eta must be 2 or 4")
	}
	if p.Gamma1Bits != 17 && p.Gamma1Bits != 19 {
		return errors.New("dilithium: gamma1 must be 2^17 or 2^19")
	}
	if p.Gamma2 != common.Gamma2QMinus1Div88 && p.Gamma2 != common.Gamma2QMinus1Div32 {
		return errors.New("dilithium: gamma2 must divide q-1 per 2·44 or 2·16")
	}
	if p.Tau <= 0 || p.Tau > common.N {
		return errors.New("dilithium: tau out of range")
	}
	if p.Omega <= 0 || p.Omega > common.N*p.K {
		return errors.New("dilithium: omega out of range")
	}
	if p.Gamma2 <= p.Beta() {
		return errors.New("dilithium: beta must stay below gamma2")
	}
	return nil
}
