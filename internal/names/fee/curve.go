// Package fee prices domain subscriptions by name length.
package fee

import (
	"math/bits"
	"unicode/utf8"

	dErrors "pns/pkg/domain-errors"
)

// Tiers holds the base fee per year for names of length 1, 2, 3, 4 and 5 or
// more.
type Tiers [5]uint64

// ReferenceTiers is the reference pricing table.
var ReferenceTiers = Tiers{200, 150, 100, 50, 5}

// PerYear returns the base yearly fee for a name of length n (n >= 1).
func (t Tiers) PerYear(n int) uint64 {
	if n < 1 {
		n = 1
	}
	if n > len(t) {
		n = len(t)
	}
	return t[n-1]
}

// Curve is the length-tiered pricing function.
type Curve struct {
	tiers Tiers
}

// NewCurve returns a Curve over tiers.
func NewCurve(tiers Tiers) Curve {
	return Curve{tiers: tiers}
}

// Quote returns the fee for subscribing name for years. Length is counted in
// characters, not bytes. Overflow aborts with CodeArithmeticOverflow rather
// than wrapping.
func (c Curve) Quote(name string, years uint32) (uint64, error) {
	if years == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidSubscriptionYears, "years must be at least 1")
	}
	perYear := c.tiers.PerYear(utf8.RuneCountInString(name))
	hi, lo := bits.Mul64(perYear, uint64(years))
	if hi != 0 {
		return 0, dErrors.New(dErrors.CodeArithmeticOverflow, "fee overflows")
	}
	return lo, nil
}
