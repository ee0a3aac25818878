package nurbs

import (
	"math/cmplx"
	"slices"
)

// A CPoly is a dense univariate polynomial with complex128 coefficients,
// stored highest degree first like [Poly]. It carries the subset of the
// polynomial engine needed once intermediate results leave the real
// line: Laguerre deflation and the per-pole integral terms both divide
// by complex linear factors.
type CPoly struct {
	coef []complex128
}

// NewCPoly returns the complex polynomial with the given coefficients,
// highest degree first. With no arguments it returns the zero
// polynomial.
func NewCPoly(coefs ...complex128) CPoly {
	if len(coefs) == 0 {
		return CPoly{coef: []complex128{0}}
	}
	return CPoly{coef: slices.Clone(coefs)}
}

// Complex returns p with its coefficients widened to complex128.
func (p Poly) Complex() CPoly {
	coef := make([]complex128, len(p.coef))
	for i, c := range p.coef {
		coef[i] = complex(c, 0)
	}
	return CPoly{coef: coef}
}

// Deg returns the degree of the polynomial.
func (p CPoly) Deg() int {
	return len(p.coef) - 1
}

// Coef returns the i-th coefficient, counting from the highest degree.
func (p CPoly) Coef(i int) complex128 {
	return p.coef[i]
}

// At evaluates the polynomial at x using Horner's scheme.
func (p CPoly) At(x complex128) complex128 {
	b := p.coef[0]
	for d := 1; d < len(p.coef); d++ {
		b = p.coef[d] + b*x
	}
	return b
}

// Derivative returns the derivative of p.
func (p CPoly) Derivative() CPoly {
	deg := p.Deg()
	if deg == 0 {
		return NewCPoly(0)
	}
	coef := make([]complex128, deg)
	for i := 0; i < deg; i++ {
		coef[i] = p.coef[i] * complex(float64(deg-i), 0)
	}
	return CPoly{coef: coef}
}

// Antiderivative returns the antiderivative of p with zero integration
// constant.
func (p CPoly) Antiderivative() CPoly {
	deg := p.Deg()
	coef := make([]complex128, deg+2)
	for i := 0; i <= deg; i++ {
		coef[i] = p.coef[i] / complex(float64(deg-i+1), 0)
	}
	return CPoly{coef: coef}
}

// DefiniteIntegral returns the integral of p over the real interval
// [a, b].
func (p CPoly) DefiniteIntegral(a, b float64) complex128 {
	anti := p.Antiderivative()
	return anti.At(complex(b, 0)) - anti.At(complex(a, 0))
}

// Mul returns p·q by coefficient convolution, accumulating in ascending
// index order.
func (p CPoly) Mul(q CPoly) CPoly {
	coef := make([]complex128, p.Deg()+q.Deg()+1)
	for i := 0; i <= p.Deg(); i++ {
		for j := 0; j <= q.Deg(); j++ {
			coef[i+j] += p.coef[i] * q.coef[j]
		}
	}
	return CPoly{coef: coef}
}

// Divide performs Euclidean division of p by rhs, with the same contract
// as [Poly.Divide].
func (p CPoly) Divide(rhs CPoly) (quo, rem CPoly, err error) {
	d1, d2 := p.Deg(), rhs.Deg()
	if d1 < d2 {
		return CPoly{}, CPoly{}, &DegreeError{Dividend: d1, Divisor: d2}
	}
	r := slices.Clone(p.coef)
	q := make([]complex128, 0, d1-d2+1)
	for i := 0; i <= d1-d2; i++ {
		ai := r[i]
		r[i] = 0
		q = append(q, ai/rhs.coef[0])
		for j := 1; j <= d2; j++ {
			r[i+j] -= rhs.coef[j] * ai / rhs.coef[0]
		}
	}
	rem = CPoly{coef: r}
	rem.trim()
	return CPoly{coef: q}, rem, nil
}

// trim drops exactly-zero leading coefficients.
func (p *CPoly) trim() {
	i := 0
	for i < p.Deg() && p.coef[i] == 0 {
		i++
	}
	p.coef = p.coef[i:]
}

// trimEps drops leading coefficients with magnitude below eps.
func (p *CPoly) trimEps(eps float64) {
	i := 0
	for i < p.Deg() && cmplx.Abs(p.coef[i]) < eps {
		i++
	}
	p.coef = p.coef[i:]
}
