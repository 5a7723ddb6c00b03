package models

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// maxLegacyDenominator bounds the search when a legacy float claim is
// converted to a fraction.
const maxLegacyDenominator = 100

// maxCommonDenominator bounds the tolerant search for hand-typed splits.
const maxCommonDenominator = 12

// maxRatDenominator is the denominator used when an exact rational no longer
// fits in int64.
const maxRatDenominator = 1000

// legacyTolerance is how far a legacy float may sit from n/d and still be
// read as n/d (0.333 reads as 1/3).
const legacyTolerance = 5e-4

// Share is a claimed number of units of an item, kept as an exact fraction.
// Whole-unit claims on multi-quantity items are N/1; split claims on a single
// unit are fractions such as 1/2 or 1/3. The zero value is an empty claim.
type Share struct {
	N int64 `json:"n" validate:"gte=0,lte=1000"`
	D int64 `json:"d" validate:"gte=0,lte=1000"`
}

// Units returns a whole-unit share.
func Units(n int64) Share {
	return Share{N: n, D: 1}
}

// Fraction returns n/d in lowest terms with a positive denominator.
// A zero denominator yields the empty share.
func Fraction(n, d int64) Share {
	if d == 0 || n == 0 {
		return Share{}
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs64(n), d)
	return Share{N: n / g, D: d / g}
}

// ShareFromRat converts an exact rational into a Share. A rational whose
// numerator or denominator overflows int64 is rounded down to thousandths, so
// a capacity computed from it never exceeds the exact value.
func ShareFromRat(r *big.Rat) Share {
	if r.Sign() == 0 {
		return Share{}
	}
	if r.Num().IsInt64() && r.Denom().IsInt64() {
		return Fraction(r.Num().Int64(), r.Denom().Int64())
	}

	// big.Int.Div is Euclidean, which floors for a positive divisor.
	n := new(big.Int).Mul(r.Num(), big.NewInt(maxRatDenominator))
	n.Div(n, r.Denom())
	if !n.IsInt64() {
		if n.Sign() > 0 {
			return Units(math.MaxInt64 / maxRatDenominator)
		}
		return Units(-math.MaxInt64 / maxRatDenominator)
	}
	return Fraction(n.Int64(), maxRatDenominator)
}

// ShareFromFloat reads a legacy float claim. An exact match with a
// denominator up to 100 wins; otherwise a common split (up to twelfths) within
// a small tolerance; otherwise the value is kept to thousandths.
func ShareFromFloat(x float64) Share {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return Share{}
	}
	if s, ok := nearestFraction(x, maxLegacyDenominator, 1e-9); ok {
		return s
	}
	if s, ok := nearestFraction(x, maxCommonDenominator, legacyTolerance); ok {
		return s
	}
	return Fraction(int64(math.Round(x*1000)), 1000)
}

func nearestFraction(x float64, maxDen int64, tolerance float64) (Share, bool) {
	for d := int64(1); d <= maxDen; d++ {
		n := math.Round(x * float64(d))
		if math.Abs(x-n/float64(d)) < tolerance {
			return Fraction(int64(n), d), true
		}
	}
	return Share{}, false
}

// Float returns the share as a float64 for price arithmetic.
func (s Share) Float() float64 {
	if s.D == 0 {
		return 0
	}
	return float64(s.N) / float64(s.D)
}

// Rat returns the share as an exact rational.
func (s Share) Rat() *big.Rat {
	if s.D == 0 {
		return new(big.Rat)
	}
	return big.NewRat(s.N, s.D)
}

// Sign returns -1, 0 or +1.
func (s Share) Sign() int {
	switch {
	case s.D == 0 || s.N == 0:
		return 0
	case (s.N < 0) != (s.D < 0):
		return -1
	default:
		return 1
	}
}

// IsZero reports whether the share claims nothing.
func (s Share) IsZero() bool {
	return s.Sign() == 0
}

// Cmp compares two shares exactly.
func (s Share) Cmp(o Share) int {
	return s.Rat().Cmp(o.Rat())
}

// Denominator returns the split denominator (2 for a half, 3 for a third).
func (s Share) Denominator() int64 {
	if s.D == 0 {
		return 1
	}
	return Fraction(s.N, s.D).D
}

func (s Share) String() string {
	if s.IsZero() {
		return "0"
	}
	f := Fraction(s.N, s.D)
	if f.D == 1 {
		return strconv.FormatInt(f.N, 10)
	}
	return fmt.Sprintf("%d/%d", f.N, f.D)
}

// UnmarshalJSON accepts {"n":1,"d":3} as well as a bare number written by
// older clients.
func (s *Share) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		type plain Share
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*s = Fraction(p.N, p.D)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("share must be an object or a number: %w", err)
	}
	*s = ShareFromFloat(f)
	return nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
