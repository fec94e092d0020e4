// Package lab holds the models behind the free-play number lab: a
// multiplication grid and a fraction explorer.
package lab

import "fmt"

// Grid bounds.
const (
	MinSide = 1
	MaxSide = 12

	DefaultRows = 4
	DefaultCols = 3
)

// Grid is a rows x cols array of dots illustrating a product.
type Grid struct {
	Rows int
	Cols int
}

// NewGrid returns a grid with both sides clamped to [1,12].
func NewGrid(rows, cols int) Grid {
	return Grid{Rows: clamp(rows, MinSide, MaxSide), Cols: clamp(cols, MinSide, MaxSide)}
}

// Cells is the number of dots, which is the product shown.
func (g Grid) Cells() int { return g.Rows * g.Cols }

// Equation renders the grid as "rows × cols = cells".
func (g Grid) Equation() string {
	return fmt.Sprintf("%d × %d = %d", g.Rows, g.Cols, g.Cells())
}

// Resize moves each side by the given delta, staying in bounds.
func (g Grid) Resize(dRows, dCols int) Grid {
	return NewGrid(g.Rows+dRows, g.Cols+dCols)
}

// Fraction bounds.
const (
	MinDenominator = 1
	MaxDenominator = 20
)

// Fraction is num/den with 0 <= num <= den and den in [1,20].
type Fraction struct {
	Num int
	Den int
}

// NewFraction clamps den to [1,20] and then num to [0,den].
func NewFraction(num, den int) Fraction {
	den = clamp(den, MinDenominator, MaxDenominator)
	return Fraction{Num: clamp(num, 0, den), Den: den}
}

// WithNum replaces the numerator.
func (f Fraction) WithNum(num int) Fraction { return NewFraction(num, f.Den) }

// WithDen replaces the denominator, pulling the numerator down when it no
// longer fits.
func (f Fraction) WithDen(den int) Fraction { return NewFraction(f.Num, den) }

// Rest is the part of the whole not covered by the fraction.
func (f Fraction) Rest() int { return f.Den - f.Num }

// Value is the fraction as a float.
func (f Fraction) Value() float64 { return float64(f.Num) / float64(f.Den) }

// Decimal formats the value with two decimals.
func (f Fraction) Decimal() string { return fmt.Sprintf("%.2f", f.Value()) }

// Percent is the value as a whole percentage, rounded half up.
func (f Fraction) Percent() int {
	return (f.Num*200 + f.Den) / (2 * f.Den)
}

// Simplified reduces the fraction to lowest terms. 0/n simplifies to 0/1.
func (f Fraction) Simplified() Fraction {
	if f.Num == 0 {
		return Fraction{Num: 0, Den: 1}
	}
	g := gcd(f.Num, f.Den)
	return Fraction{Num: f.Num / g, Den: f.Den / g}
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
