package nurbs

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// A Poly is a dense univariate polynomial with float64 coefficients,
// stored highest degree first: x³ + 2x² + x + 5 is [1, 2, 1, 5]. The
// degree is always len(coefficients)−1; no implicit leading or trailing
// zeros exist unless explicitly trimmed.
//
// Poly is an owned value type. Arithmetic returns new polynomials; the
// operations that modify coefficients in place (Normalize, Trim,
// TrimEps, Resize) are pointer methods and say so.
type Poly struct {
	coef []float64
}

// NewPoly returns the polynomial with the given coefficients, highest
// degree first. With no arguments it returns the zero polynomial.
func NewPoly(coefs ...float64) Poly {
	if len(coefs) == 0 {
		return Poly{coef: []float64{0}}
	}
	return Poly{coef: slices.Clone(coefs)}
}

// NewConstant returns the degree-0 polynomial with value v.
func NewConstant(v float64) Poly {
	return Poly{coef: []float64{v}}
}

// NewPolyOfDegree returns a polynomial of the given degree with every
// coefficient set to fill.
func NewPolyOfDegree(deg int, fill float64) Poly {
	coef := make([]float64, deg+1)
	for i := range coef {
		coef[i] = fill
	}
	return Poly{coef: coef}
}

// Deg returns the degree of the polynomial.
func (p Poly) Deg() int {
	return len(p.coef) - 1
}

// Coef returns the i-th coefficient, counting from the highest degree.
func (p Poly) Coef(i int) float64 {
	return p.coef[i]
}

// Coeffs returns a copy of the coefficients, highest degree first.
func (p Poly) Coeffs() []float64 {
	return slices.Clone(p.coef)
}

// Clone returns a copy of p that shares no storage with it.
func (p Poly) Clone() Poly {
	return Poly{coef: slices.Clone(p.coef)}
}

// IsZero reports whether p is the zero polynomial of degree 0.
func (p Poly) IsZero() bool {
	return len(p.coef) == 1 && p.coef[0] == 0
}

// At evaluates the polynomial at x using Horner's scheme.
func (p Poly) At(x float64) float64 {
	b := p.coef[0]
	for d := 1; d < len(p.coef); d++ {
		b = p.coef[d] + b*x
	}
	return b
}

// At2 evaluates the polynomial at x using compensated Horner summation.
// It has the same contract as At but roughly doubles the working
// precision, which matters near roots where cancellation dominates.
func (p Poly) At2(x float64) float64 {
	var s, c float64
	for _, a := range p.coef {
		p1, pi := twoProd(s, x)
		s1, t := twoSum(p1, a)
		s = s1
		c = c*x + pi + t
	}
	return s + c
}

// twoProd returns a*b and its rounding error.
func twoProd(a, b float64) (p, err float64) {
	p = a * b
	return p, math.FMA(a, b, -p)
}

// twoSum returns a+b and its rounding error.
func twoSum(a, b float64) (s, err float64) {
	s = a + b
	bs := s - a
	as := s - bs
	return s, (b - bs) + (a - as)
}

// Derivative returns the derivative of p. The derivative of a degree-0
// polynomial is the zero polynomial.
func (p Poly) Derivative() Poly {
	deg := p.Deg()
	if deg == 0 {
		return NewConstant(0)
	}
	coef := make([]float64, deg)
	for i := 0; i < deg; i++ {
		coef[i] = p.coef[i] * float64(deg-i)
	}
	return Poly{coef: coef}
}

// DerivativeN returns the n-th derivative of p.
func (p Poly) DerivativeN(n int) Poly {
	out := p.Clone()
	for ; n > 0; n-- {
		out = out.Derivative()
	}
	return out
}

// Antiderivative returns the antiderivative of p with zero integration
// constant. The result's degree is always exactly one higher.
func (p Poly) Antiderivative() Poly {
	deg := p.Deg()
	coef := make([]float64, deg+2)
	for i := 0; i <= deg; i++ {
		coef[i] = p.coef[i] / float64(deg-i+1)
	}
	return Poly{coef: coef}
}

// DefiniteIntegral returns the integral of p over [a, b].
func (p Poly) DefiniteIntegral(a, b float64) float64 {
	anti := p.Antiderivative()
	return anti.At(b) - anti.At(a)
}

// Neg returns −p.
func (p Poly) Neg() Poly {
	coef := make([]float64, len(p.coef))
	for i, c := range p.coef {
		coef[i] = -c
	}
	return Poly{coef: coef}
}

// Add returns p+q. The operands are aligned at the constant end; the
// result's degree is the larger of the two.
func (p Poly) Add(q Poly) Poly {
	hi, lo := p, q
	if q.Deg() > p.Deg() {
		hi, lo = q, p
	}
	coef := slices.Clone(hi.coef)
	dh, dl := hi.Deg(), lo.Deg()
	for i := 0; i <= dl; i++ {
		coef[dh-i] += lo.coef[dl-i]
	}
	return Poly{coef: coef}
}

// Sub returns p−q.
func (p Poly) Sub(q Poly) Poly {
	return p.Add(q.Neg())
}

// Mul returns p·q by coefficient convolution; the result's degree is the
// sum of the operand degrees. Accumulation runs in ascending index order
// so results are reproducible across platforms.
func (p Poly) Mul(q Poly) Poly {
	coef := make([]float64, p.Deg()+q.Deg()+1)
	for i := 0; i <= p.Deg(); i++ {
		for j := 0; j <= q.Deg(); j++ {
			coef[i+j] += p.coef[i] * q.coef[j]
		}
	}
	return Poly{coef: coef}
}

// Scale returns p·s. Scaling by zero collapses to the zero polynomial.
func (p Poly) Scale(s float64) Poly {
	if s == 0 {
		return NewConstant(0)
	}
	coef := make([]float64, len(p.coef))
	for i, c := range p.coef {
		coef[i] = c * s
	}
	return Poly{coef: coef}
}

// ScaleDiv returns p/s.
func (p Poly) ScaleDiv(s float64) Poly {
	coef := make([]float64, len(p.coef))
	for i, c := range p.coef {
		coef[i] = c / s
	}
	return Poly{coef: coef}
}

// A DegreeError reports a polynomial division whose dividend degree is
// below the divisor degree; the quotient is undefined in that regime.
type DegreeError struct {
	Dividend int
	Divisor  int
}

func (e *DegreeError) Error() string {
	return fmt.Sprintf("polynomial division: dividend degree %d below divisor degree %d", e.Dividend, e.Divisor)
}

// Divide performs Euclidean division of p by rhs, returning quotient and
// remainder with p = rhs·quo + rem and deg(rem) < deg(rhs). It returns a
// *DegreeError when deg(p) < deg(rhs).
func (p Poly) Divide(rhs Poly) (quo, rem Poly, err error) {
	d1, d2 := p.Deg(), rhs.Deg()
	if d1 < d2 {
		return Poly{}, Poly{}, &DegreeError{Dividend: d1, Divisor: d2}
	}
	r := slices.Clone(p.coef)
	q := make([]float64, 0, d1-d2+1)
	for i := 0; i <= d1-d2; i++ {
		ai := r[i]
		r[i] = 0
		q = append(q, ai/rhs.coef[0])
		for j := 1; j <= d2; j++ {
			r[i+j] -= rhs.coef[j] * ai / rhs.coef[0]
		}
	}
	rem = Poly{coef: r}
	rem.Trim()
	return Poly{coef: q}, rem, nil
}

// Normalize divides every coefficient by the leading coefficient, making
// p monic, and returns the original leading coefficient so callers can
// track the scale factor. It is a no-op when the leading coefficient is
// exactly zero.
func (p *Poly) Normalize() float64 {
	a0 := p.coef[0]
	if a0 == 0 {
		return a0
	}
	for i := range p.coef {
		p.coef[i] /= a0
	}
	return a0
}

// Trim drops leading coefficients that are exactly zero, reducing the
// degree accordingly. A polynomial of all zeros collapses to the zero
// polynomial of degree 0.
func (p *Poly) Trim() {
	p.trim(func(c float64) bool { return c == 0 })
}

// TrimEps drops leading coefficients with magnitude below eps. If every
// coefficient is negligible the polynomial collapses to the zero
// polynomial of degree 0.
func (p *Poly) TrimEps(eps float64) {
	p.trim(func(c float64) bool { return math.Abs(c) < eps })
}

func (p *Poly) trim(negligible func(float64) bool) {
	i := 0
	for i < p.Deg() && negligible(p.coef[i]) {
		i++
	}
	if i == p.Deg() && negligible(p.coef[i]) {
		p.coef = []float64{0}
		return
	}
	p.coef = p.coef[i:]
}

// Resize truncates leading coefficients to force degree deg. It is meant
// for denominators that are known, by construction, to have collapsed to
// a lower true degree.
func (p *Poly) Resize(deg int) {
	p.coef = p.coef[p.Deg()-deg:]
}

// Equal reports exact coefficient-wise equality.
func (p Poly) Equal(q Poly) bool {
	return slices.Equal(p.coef, q.coef)
}

// ApproxEqual reports coefficient-wise equality within eps. Polynomials
// of different degrees are never approximately equal.
func (p Poly) ApproxEqual(q Poly, eps float64) bool {
	if p.Deg() != q.Deg() {
		return false
	}
	for i, c := range p.coef {
		if math.Abs(c-q.coef[i]) > eps {
			return false
		}
	}
	return true
}

// String formats the coefficients highest degree first, as in [1, 2, 3].
func (p Poly) String() string {
	parts := make([]string, len(p.coef))
	for i, c := range p.coef {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
