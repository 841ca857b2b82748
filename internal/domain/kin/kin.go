// Package kin models the 260-day cycle: a KIN and its Seal (1..20) and
// Tone (1..13) coordinates.
//
// 20 and 13 are coprime, so every (Seal, Tone) pair names exactly one KIN in
// 1..260 and Compose inverts Decompose for all 260 values.
package kin

import "fmt"

// Cycle sizes.
const (
	Cycle = 260
	Seals = 20
	Tones = 13

	// composeStride is the KIN distance between consecutive tones of the same
	// seal: 40 ≡ 0 (mod 20) and 40 ≡ 1 (mod 13).
	composeStride = 40
)

// Kin is a day of the 260-day cycle, 1..260.
type Kin int

// Seal is one of the 20 glyph categories, 1..20.
type Seal int

// Tone is one of the 13 numeric categories, 1..13.
type Tone int

// Valid reports whether k is within 1..260.
func (k Kin) Valid() bool { return k >= 1 && k <= Cycle }

// Valid reports whether s is within 1..20.
func (s Seal) Valid() bool { return s >= 1 && s <= Seals }

// Valid reports whether t is within 1..13.
func (t Tone) Valid() bool { return t >= 1 && t <= Tones }

// Seal returns the seal coordinate of k.
func (k Kin) Seal() Seal { return Seal(Mod(int(k)-1, Seals) + 1) }

// Tone returns the tone coordinate of k.
func (k Kin) Tone() Tone { return Tone(Mod(int(k)-1, Tones) + 1) }

// Wavespell returns the 1-based index of the 13-day block containing k.
func (k Kin) Wavespell() int { return (int(k)-1)/Tones + 1 }

// Mod returns a mod n in [0, n) for positive n, also for negative a.
func Mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Wrap maps any integer onto the cycle 1..260 with 0 → 260.
func Wrap(n int) Kin {
	return Kin(Mod(n-1, Cycle) + 1)
}

// WrapSeal maps any integer onto 1..20 with 0 → 20.
func WrapSeal(n int) Seal {
	return Seal(Mod(n-1, Seals) + 1)
}

// WrapTone maps any integer onto 1..13 with 0 → 13.
func WrapTone(n int) Tone {
	return Tone(Mod(n-1, Tones) + 1)
}

// New validates n as a KIN.
func New(n int) (Kin, error) {
	k := Kin(n)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidKin, n)
	}
	return k, nil
}

// Decompose splits k into its seal and tone.
func Decompose(k Kin) (Seal, Tone, error) {
	if !k.Valid() {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidKin, int(k))
	}
	return k.Seal(), k.Tone(), nil
}

// Compose returns the unique KIN with the given seal and tone. The result is
// checked against Decompose; a mismatch is reported as ErrInvariantViolation.
func Compose(s Seal, t Tone) (Kin, error) {
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSeal, int(s))
	}
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTone, int(t))
	}
	k := Kin(Mod(Mod(int(t)-int(s), Tones)*composeStride+int(s)-1, Cycle) + 1)
	if k.Seal() != s || k.Tone() != t {
		return 0, fmt.Errorf("%w: compose(seal=%d, tone=%d) = %d decomposes to (seal=%d, tone=%d)",
			ErrInvariantViolation, s, t, k, k.Seal(), k.Tone())
	}
	return k, nil
}

// Composite combines two KINs by summing them on the cycle.
func Composite(a, b Kin) (Kin, error) {
	if !a.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidKin, int(a))
	}
	if !b.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidKin, int(b))
	}
	return Wrap(int(a) + int(b)), nil
}
