package model

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// apdCtx is the shared decimal context. 34 digits covers any billing
// amount a cloud export can produce.
var apdCtx = apd.BaseContext.WithPrecision(34)

// Money is an exact decimal cost amount. The zero value is usable and
// equals zero.
type Money struct {
	d apd.Decimal
}

// NewMoney parses a decimal string such as "1234.56" or "-0.003".
func NewMoney(s string) (Money, error) {
	var m Money
	if _, _, err := m.d.SetString(s); err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return m, nil
}

// MustMoney is NewMoney that panics on invalid input. For constants and
// tests only.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromFloat converts a float64 amount. Only for boundaries where
// the source is already floating point.
func MoneyFromFloat(f float64) Money {
	var m Money
	m.d.SetFloat64(f)
	return m
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	var out Money
	apdCtx.Add(&out.d, &m.d, &other.d)
	return out
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	var out Money
	apdCtx.Sub(&out.d, &m.d, &other.d)
	return out
}

// Div returns m / other. Division by zero returns zero; callers guard
// the zero-denominator cases themselves because the meaning differs per
// routine.
func (m Money) Div(other Money) Money {
	if other.IsZero() {
		return Money{}
	}
	var out Money
	apdCtx.Quo(&out.d, &m.d, &other.d)
	return out
}

// MulInt returns m * n.
func (m Money) MulInt(n int64) Money {
	var out Money
	var factor apd.Decimal
	factor.SetInt64(n)
	apdCtx.Mul(&out.d, &m.d, &factor)
	return out
}

// Cmp returns -1, 0, or 1 comparing m to other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(&other.d)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.d.Negative && !m.d.IsZero()
}

// Float64 converts to float64 for statistical routines. Exactness ends
// here; keep sums in Money until this point.
func (m Money) Float64() float64 {
	f, err := m.d.Float64()
	if err != nil {
		return 0
	}
	return f
}

// String returns the plain decimal text, e.g. "1234.56".
func (m Money) String() string {
	return m.d.Text('f')
}

// Round2 returns the amount rounded to two fractional digits, for
// display.
func (m Money) Round2() Money {
	var out Money
	apdCtx.Quantize(&out.d, &m.d, -2)
	return out
}
