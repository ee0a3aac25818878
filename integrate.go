package nurbs

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// termIntegral integrates c/(t−root)ᵏ over the real interval [from, to]
// in closed form: a complex logarithm difference for k = 1, a power-law
// difference for k > 1. The result stays complex even for real inputs;
// conjugate pole contributions only cancel to a real value after
// summation.
func termIntegral(c, root complex128, k int, from, to float64) complex128 {
	if c == 0 {
		return 0
	}
	a := complex(from, 0) - root
	b := complex(to, 0) - root
	if k == 1 {
		return c * (cmplx.Log(b) - cmplx.Log(a))
	}
	e := complex(1-float64(k), 0)
	return c * (cmplx.Pow(a, e) - cmplx.Pow(b, e)) / complex(float64(k-1), 0)
}

// partialFractions decomposes num/den against the known poles of den,
// returning the coefficient of each 1/(t−rⱼ)ᵏ term flattened per root
// with k ascending from 1 to the root's multiplicity. num must have
// degree strictly below den, and the multiplicities must sum to den's
// degree.
//
// The decomposition is the linear system obtained by matching the
// coefficients of num against the basis polynomials den/(t−rⱼ)ᵏ. The
// complex system is solved through its 2n×2n real embedding.
func partialFractions(num CPoly, den CPoly, roots []Root) ([]complex128, error) {
	n := den.Deg()
	total := 0
	for _, r := range roots {
		total += r.Multiplicity
	}
	if total != n {
		return nil, fmt.Errorf("partial fractions: pole multiplicities sum to %d, want denominator degree %d", total, n)
	}
	if n == 0 {
		return nil, nil
	}
	if num.Deg() >= n {
		return nil, fmt.Errorf("partial fractions: numerator degree %d not below denominator degree %d", num.Deg(), n)
	}

	basis := make([]CPoly, 0, n)
	for _, r := range roots {
		phi := den
		for k := 1; k <= r.Multiplicity; k++ {
			quo, _, err := phi.Divide(NewCPoly(1, -r.Value))
			if err != nil {
				return nil, err
			}
			phi = quo
			basis = append(basis, phi)
		}
	}

	a := mat.NewDense(2*n, 2*n, nil)
	b := mat.NewVecDense(2*n, nil)
	for col, phi := range basis {
		for s := 0; s < n; s++ {
			var cv complex128
			if s <= phi.Deg() {
				cv = phi.coef[phi.Deg()-s]
			}
			a.Set(s, col, real(cv))
			a.Set(s, n+col, -imag(cv))
			a.Set(n+s, col, imag(cv))
			a.Set(n+s, n+col, real(cv))
		}
	}
	for s := 0; s < n; s++ {
		var cv complex128
		if s <= num.Deg() {
			cv = num.coef[num.Deg()-s]
		}
		b.SetVec(s, real(cv))
		b.SetVec(n+s, imag(cv))
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("partial fractions: singular decomposition system: %w", err)
	}
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(x.AtVec(i), x.AtVec(n+i))
	}
	return out, nil
}

// polesIntegral integrates num over the pole set of a denominator
// reconstructed from roots: ∫ num/∏(t−rⱼ)^(scale·mⱼ) dt over [from, to].
// When extra is a valid root index, that root's order is raised by one,
// which covers the per-root cross terms of the direct strategy.
func polesIntegral(num Poly, roots []Root, scale, extra int, from, to float64) (complex128, error) {
	if len(roots) == 0 || num.IsZero() {
		return 0, nil
	}
	mults := make([]Root, len(roots))
	den := NewCPoly(1)
	for j, r := range roots {
		m := r.Multiplicity * scale
		if j == extra {
			m++
		}
		mults[j] = Root{m, r.Value}
		for i := 0; i < m; i++ {
			den = den.Mul(NewCPoly(1, -r.Value))
		}
	}
	coefs, err := partialFractions(num.Complex(), den, mults)
	if err != nil {
		return 0, err
	}
	var sum complex128
	i := 0
	for _, r := range mults {
		for k := 1; k <= r.Multiplicity; k++ {
			sum += termIntegral(coefs[i], r.Value, k, from, to)
			i++
		}
	}
	return sum, nil
}

// splitRational splits num against den as num = den·quo + rem with
// deg(rem) < deg(den), treating a numerator of lower degree as quotient
// zero. Unlike [Poly.Divide] this cannot fail: a too-small numerator is
// already fully reduced.
func splitRational(num, den Poly) (quo, rem Poly) {
	if num.Deg() < den.Deg() {
		return NewConstant(0), num
	}
	quo, rem, _ = num.Divide(den)
	return quo, rem
}

// splitCRational is splitRational over complex coefficients.
func splitCRational(num, den CPoly) (quo, rem CPoly) {
	if num.Deg() < den.Deg() {
		return NewCPoly(0), num
	}
	quo, rem, _ = num.Divide(den)
	return quo, rem
}

// Legendre-Gauss quadrature coefficients as (weight, abscissa) pairs on
// [-1, 1], adapted from:
// <https://pomax.github.io/bezierinfo/legendre-gauss.html>
//
// The table is read-only after initialization; it is the fixed rule used
// by the numerical cross-check integral.
var gaussLegendreCoeffs16 = [...][2]float64{
	{0.1894506104550685, -0.0950125098376374},
	{0.1894506104550685, 0.0950125098376374},
	{0.1826034150449236, -0.2816035507792589},
	{0.1826034150449236, 0.2816035507792589},
	{0.1691565193950025, -0.4580167776572274},
	{0.1691565193950025, 0.4580167776572274},
	{0.1495959888165767, -0.6178762444026438},
	{0.1495959888165767, 0.6178762444026438},
	{0.1246289712555339, -0.7554044083550030},
	{0.1246289712555339, 0.7554044083550030},
	{0.0951585116824928, -0.8656312023878318},
	{0.0951585116824928, 0.8656312023878318},
	{0.0622535239386479, -0.9445750230732326},
	{0.0622535239386479, 0.9445750230732326},
	{0.0271524594117541, -0.9894009349916499},
	{0.0271524594117541, 0.9894009349916499},
}
