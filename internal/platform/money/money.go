package money

import "fmt"

// Cents is a money amount in integer minor units (US cents). All cap
// arithmetic runs on this type; floating point is never involved.
type Cents int64

func FromDollars(dollars int64) Cents {
	return Cents(dollars * 100)
}

func (c Cents) Dollars() int64 {
	return int64(c) / 100
}

func (c Cents) IsNegative() bool {
	return c < 0
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}

// ApplyBasisPoints scales an amount by bps/10000 using round-half-to-even
// on the division so repeated escalations do not drift in one direction.
func ApplyBasisPoints(c Cents, bps int64) Cents {
	return Cents(divRoundHalfEven(int64(c)*bps, 10000))
}

// SplitEven divides a total across n slots with floor division and returns
// the per-slot amount plus the remainder. Callers decide which slot absorbs
// the remainder.
func SplitEven(total Cents, n int) (per Cents, remainder Cents) {
	if n <= 0 {
		return 0, total
	}
	per = total / Cents(n)
	remainder = total - per*Cents(n)
	return per, remainder
}

// Sum adds amounts without any intermediate conversion.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}

func divRoundHalfEven(numerator, denominator int64) int64 {
	if denominator == 0 {
		return 0
	}
	neg := false
	if numerator < 0 {
		numerator = -numerator
		neg = true
	}
	if denominator < 0 {
		denominator = -denominator
		neg = !neg
	}

	quotient := numerator / denominator
	remainder := numerator % denominator

	twice := remainder * 2
	switch {
	case twice > denominator:
		quotient++
	case twice == denominator && quotient%2 == 1:
		quotient++
	}

	if neg {
		quotient = -quotient
	}
	return quotient
}
