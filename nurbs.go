package nurbs

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
)

// A Rational is the exact representation of one curve segment over one
// knot span: a numerator polynomial per coordinate dimension sharing a
// single denominator, all expressed in the curve's global parameter.
type Rational struct {
	Num []Poly
	Den Poly
}

// IntegrationStrategy selects one of the two independent analytic
// integration algorithms. Both compute the same quantity; keeping both
// lets either serve as a cross-check of the other.
type IntegrationStrategy int

const (
	// DirectStrategy expands the integrand into quotient/remainder
	// cross terms of the numerator and denominator derivatives and
	// accumulates explicit per-root, per-segment contributions.
	DirectStrategy IntegrationStrategy = iota
	// ResidueStrategy decomposes each segment's integrand against the
	// cubed denominator and integrates the partial fractions termwise.
	ResidueStrategy
)

// A Curve is a NURBS curve reduced to per-span rational segments. It is
// immutable after construction apart from the one-time coefficient
// polishing the constructors perform.
type Curve struct {
	p       int
	dim     int
	knots   []float64
	weights []float64
	points  []Point

	// domain is the knot-index pair [p, len(knots)-p-1); spans lists
	// the distinct knot indices that bound the segments.
	domain   [2]int
	spans    []int
	segments []Rational

	tol Tolerances
}

// NewCurve builds a curve from an explicit non-uniform knot vector,
// explicit weights and control points. It requires
// len(knots) == len(points)+p+1, len(weights) == len(points), degree
// p < len(points), and a non-decreasing knot vector, and fails fast
// otherwise.
func NewCurve(p int, knots, weights []float64, points []Point) (*Curve, error) {
	c, err := newCurve(p, knots, weights, points)
	if err != nil {
		return nil, err
	}
	c.polish(c.tol.Coeff)
	return c, nil
}

// NewUniformCurve builds a curve over a generated uniform knot vector
// (see [UniformKnots]) with explicit weights.
func NewUniformCurve(p int, weights []float64, points []Point) (*Curve, error) {
	c, err := newCurve(p, UniformKnots(len(points), p), weights, points)
	if err != nil {
		return nil, err
	}
	c.polish(c.tol.Coeff)
	return c, nil
}

// NewUniformRampCurve builds a curve over a generated uniform knot
// vector with weights interpolated linearly from wStart to wEnd. The
// periodic structure lets the polishing pass collapse interior segment
// denominators to their true degree.
func NewUniformRampCurve(p int, wStart, wEnd float64, points []Point) (*Curve, error) {
	c, err := newCurve(p, UniformKnots(len(points), p), linspace(wStart, wEnd, len(points)), points)
	if err != nil {
		return nil, err
	}
	c.polishUniform(c.tol.Coeff)
	return c, nil
}

func newCurve(p int, knots, weights []float64, points []Point) (*Curve, error) {
	dim, err := validateCurve(p, knots, weights, points)
	if err != nil {
		return nil, err
	}
	c := &Curve{
		p:       p,
		dim:     dim,
		knots:   slices.Clone(knots),
		weights: slices.Clone(weights),
		points:  clonePoints(points),
		tol:     DefaultTolerances,
	}
	c.domain = [2]int{p, len(knots) - p - 1}
	c.spans = spanBreaks(c.domain, c.knots)
	c.segments = make([]Rational, 0, len(c.spans)-1)
	for i := 0; i < len(c.spans)-1; i++ {
		c.segments = append(c.segments, deBoor(c.spans[i], c.knots, c.weights, c.points, p))
	}
	return c, nil
}

func validateCurve(p int, knots, weights []float64, points []Point) (int, error) {
	if len(points) == 0 {
		return 0, errors.New("nurbs: no control points")
	}
	if p < 1 || p >= len(points) {
		return 0, fmt.Errorf("nurbs: degree %d must satisfy 1 <= p < %d control points", p, len(points))
	}
	if len(weights) != len(points) {
		return 0, fmt.Errorf("nurbs: %d weights for %d control points", len(weights), len(points))
	}
	if len(knots) != len(points)+p+1 {
		return 0, fmt.Errorf("nurbs: knot vector length %d, want len(points)+p+1 = %d", len(knots), len(points)+p+1)
	}
	dim := points[0].Dim()
	for i, pt := range points {
		if pt.Dim() != dim {
			return 0, fmt.Errorf("nurbs: control point %d has %d coordinates, want %d", i, pt.Dim(), dim)
		}
	}
	for i := 1; i < len(knots); i++ {
		if knots[i] < knots[i-1] {
			return 0, fmt.Errorf("nurbs: knot vector must be non-decreasing, knots[%d] < knots[%d]", i, i-1)
		}
	}
	return dim, nil
}

func clonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	for i, pt := range points {
		out[i] = slices.Clone(pt)
	}
	return out
}

// UniformKnots returns the uniform knot vector on [0, 1] for n control
// points of degree p: n+p+1 evenly spaced values.
func UniformKnots(n, p int) []float64 {
	return linspace(0, 1, n+p+1)
}

func linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

// spanBreaks lists the knot indices inside the domain at which the knot
// value strictly increases, plus the domain's upper index. Consecutive
// entries bound one segment each.
func spanBreaks(domain [2]int, knots []float64) []int {
	var ks []int
	for i := domain[0]; i < domain[1]; i++ {
		if knots[i+1] > knots[i] {
			ks = append(ks, i)
		}
	}
	return append(ks, domain[1])
}

// deBoor runs the triangular de Boor recursion symbolically for knot
// span k, blending polynomials instead of points. After p levels the
// apex holds the span's exact rational parametrization in the global
// parameter, which is what allows closed-form integrals over [from, to]
// without reparametrizing each segment.
func deBoor(k int, knots, weights []float64, points []Point, p int) Rational {
	dim := len(points[0])
	num := make([][]Poly, p+1)
	den := make([]Poly, p+1)
	for i := 0; i <= p; i++ {
		w := weights[i+k-p]
		den[i] = NewConstant(w)
		num[i] = make([]Poly, dim)
		for d := 0; d < dim; d++ {
			num[i][d] = NewConstant(points[i+k-p][d] * w)
		}
	}
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			span := knots[j+1+k-r] - knots[j+k-p]
			b := -knots[j+k-p]
			d := knots[j+1+k-r]
			den[j] = blend(den[j], den[j-1], b, d, span)
			for i := 0; i < dim; i++ {
				num[j][i] = blend(num[j][i], num[j-1][i], b, d, span)
			}
		}
	}
	return Rational{Num: num[p], Den: den[p]}
}

// blend forms ((t+b)·cur + (d−t)·prev) / span, one cell of the de Boor
// triangle.
func blend(cur, prev Poly, b, d, span float64) Poly {
	t := NewPoly(1, 0)
	lhs := t.Mul(cur).Add(cur.Scale(b))
	rhs := t.Neg().Mul(prev).Add(prev.Scale(d))
	return lhs.Add(rhs).ScaleDiv(span)
}

// polish drops the near-zero coefficients that symbolic construction
// leaves behind.
func (c *Curve) polish(eps float64) {
	for i := range c.segments {
		c.segments[i].Den.TrimEps(eps)
		for d := range c.segments[i].Num {
			c.segments[i].Num[d].TrimEps(eps)
		}
	}
}

// polishUniform is the polishing pass for uniform knot vectors with a
// linear weight ramp. Interior segments' denominators are forced to
// degree 1: with uniform knots the weighted basis sum of linearly
// ramped weights is an affine function of t, so anything above degree 1
// is construction noise. Boundary segments, and curves too short to
// have a periodic interior, keep the plain tolerance trim.
func (c *Curve) polishUniform(eps float64) {
	n := len(c.segments)
	if n <= 2*(c.p-1) {
		c.polish(eps)
		return
	}
	for i := 0; i < c.p-1; i++ {
		for _, j := range [2]int{i, n - i - 1} {
			c.segments[j].Den.TrimEps(eps)
			for d := range c.segments[j].Num {
				c.segments[j].Num[d].TrimEps(eps)
			}
		}
	}
	for i := c.p - 1; i < n-c.p+1; i++ {
		c.segments[i].Den.Resize(1)
		for d := range c.segments[i].Num {
			c.segments[i].Num[d].TrimEps(eps)
		}
	}
}

// Degree returns the curve's polynomial degree p.
func (c *Curve) Degree() int { return c.p }

// Dim returns the coordinate dimensionality.
func (c *Curve) Dim() int { return c.dim }

// NumSegments returns the number of rational segments.
func (c *Curve) NumSegments() int { return len(c.segments) }

// Domain returns the parameter range the curve is defined on.
func (c *Curve) Domain() (float64, float64) {
	return c.knots[c.domain[0]], c.knots[c.domain[1]]
}

// Segments returns the curve's rational segments in span order. The
// returned slice and its polynomials are owned by the curve and must
// not be modified.
func (c *Curve) Segments() []Rational {
	return c.segments
}

// Knots returns a copy of the knot vector.
func (c *Curve) Knots() []float64 {
	return slices.Clone(c.knots)
}

// Weights returns a copy of the weight sequence.
func (c *Curve) Weights() []float64 {
	return slices.Clone(c.weights)
}

// SetTolerances replaces the numerical thresholds used by subsequent
// root finding and analytic integration. Construction-time polishing is
// unaffected.
func (c *Curve) SetTolerances(tol Tolerances) {
	c.tol = tol
}

// SamplePoints evaluates the curve at n parameter values evenly spaced
// over its domain.
func (c *Curve) SamplePoints(n int) []Point {
	lo, hi := c.Domain()
	ts := linspace(lo, hi, n)
	pts := make([]Point, n)
	j := 0
	for i, t := range ts {
		for j < len(c.segments)-1 && t > c.knots[c.spans[j+1]] {
			j++
		}
		seg := &c.segments[j]
		d := seg.Den.At(t)
		pt := make(Point, c.dim)
		for k := range pt {
			pt[k] = seg.Num[k].At(t) / d
		}
		pts[i] = pt
	}
	return pts
}

// SampleSlopes evaluates dy/dx at n parameter values evenly spaced over
// the domain, combining the numerator and denominator derivatives with
// the quotient rule. The curve must have at least two coordinate
// dimensions.
func (c *Curve) SampleSlopes(n int) []float64 {
	if c.dim < 2 {
		panic("nurbs: slope sampling needs at least two coordinate dimensions")
	}
	lo, hi := c.Domain()
	ts := linspace(lo, hi, n)
	out := make([]float64, n)
	j := -1
	var px, py, den, pxd, pyd, dend Poly
	for i, t := range ts {
		nj := max(j, 0)
		for nj < len(c.segments)-1 && t > c.knots[c.spans[nj+1]] {
			nj++
		}
		if nj != j {
			j = nj
			px, py, den = c.segments[j].Num[0], c.segments[j].Num[1], c.segments[j].Den
			pxd, pyd, dend = px.Derivative(), py.Derivative(), den.Derivative()
		}
		dv, ddv := den.At(t), dend.At(t)
		out[i] = (pyd.At(t)*dv - py.At(t)*ddv) / (pxd.At(t)*dv - px.At(t)*ddv)
	}
	return out
}

// NumericalIntegral approximates ∫ y·x′ dt over the whole domain with
// the fixed Legendre-Gauss rule, segment by segment. It exists as a
// numerical cross-check for [Curve.AnalyticIntegral] and has no
// accuracy parameter: the rule is fixed.
func (c *Curve) NumericalIntegral() float64 {
	if c.dim < 2 {
		panic("nurbs: the line integral needs at least two coordinate dimensions")
	}
	sum := 0.0
	for i := range c.segments {
		a := c.knots[c.spans[i]]
		b := c.knots[c.spans[i+1]]
		px := c.segments[i].Num[0]
		py := c.segments[i].Num[1]
		den := c.segments[i].Den
		pxd := px.Derivative()
		dend := den.Derivative()
		seg := 0.0
		for _, wx := range gaussLegendreCoeffs16 {
			x := (b-a)*wx[1]/2 + (a+b)/2
			d := den.At(x)
			d2 := d * d
			seg += wx[0] * py.At(x) * pxd.At(x) / d2
			seg -= wx[0] * py.At(x) * dend.At(x) * px.At(x) / (d2 * d)
		}
		sum += (b - a) / 2 * seg
	}
	return sum
}

// AnalyticIntegral computes ∫ y·x′ dt over [from, to] in closed form,
// using the selected decomposition strategy and root-finding method.
// Segments outside [from, to] are skipped; partially covered segments
// are clamped. The result is complex: conjugate pole contributions
// cancel to a (numerically) real value only after summation.
func (c *Curve) AnalyticIntegral(strategy IntegrationStrategy, method RootMethod, from, to float64) (complex128, error) {
	if c.dim < 2 {
		return 0, fmt.Errorf("nurbs: analytic integral needs at least two coordinate dimensions, have %d", c.dim)
	}
	switch strategy {
	case DirectStrategy:
		return c.directIntegral(method, from, to)
	case ResidueStrategy:
		return c.residueIntegral(method, from, to)
	}
	return 0, fmt.Errorf("nurbs: unknown integration strategy %d", strategy)
}

// directIntegral splits y·x′ = p_y·p_x′/den² − p_y·p_x·den′/den³ and
// reduces each part to quotient/remainder cross terms against the monic
// denominator. The left part integrates its polynomial quotients
// directly and its remainders over the pole set; the right part expands
// den′/den = Σ mⱼ/(t−rⱼ) and accumulates one contribution per pole.
func (c *Curve) directIntegral(method RootMethod, t0, t1 float64) (complex128, error) {
	var left, right complex128
	for i := range c.segments {
		from := c.knots[c.spans[i]]
		to := c.knots[c.spans[i+1]]
		if from > t1 {
			break
		}
		if to < t0 {
			continue
		}
		from = math.Max(from, t0)
		to = math.Min(to, t1)

		den := c.segments[i].Den.Clone()
		px := c.segments[i].Num[0]
		py := c.segments[i].Num[1]
		pxDer := px.Derivative()

		a0 := den.Normalize()
		norm := complex(a0*a0, 0)
		var roots []Root
		if den.Deg() > 0 {
			roots = den.Roots(method, c.tol)
		}

		// Left part: ∫ p_y·p_x′/den².
		q1, r1 := splitRational(py, den)
		q2, r2 := splitRational(pxDer, den)
		seg := complex(q1.Mul(q2).DefiniteIntegral(from, to), 0)
		cross := q1.Mul(r2).Add(q2.Mul(r1))
		q3, r3 := splitRational(cross, den)
		seg += complex(q3.DefiniteIntegral(from, to), 0)
		v, err := polesIntegral(r3, roots, 1, -1, from, to)
		if err != nil {
			return 0, err
		}
		seg += v
		v, err = polesIntegral(r1.Mul(r2), roots, 2, -1, from, to)
		if err != nil {
			return 0, err
		}
		seg += v
		left += seg / norm

		// Right part: ∫ p_y·p_x·den′/den³, one contribution per pole.
		q2, r2 = splitRational(px, den)
		p12c := q1.Mul(q2).Complex()
		cross = q1.Mul(r2).Add(q2.Mul(r1))
		q4, r4 := splitRational(cross, den)
		q4c := q4.Complex()
		r1r2 := r1.Mul(r2)
		seg = 0
		for j, rt := range roots {
			w := complex(float64(rt.Multiplicity), 0)
			divider := NewCPoly(1, -rt.Value)
			q5, r5 := splitCRational(p12c, divider)
			seg += w * termIntegral(r5.coef[r5.Deg()], rt.Value, 1, from, to)
			seg += w * q5.DefiniteIntegral(from, to)
			q6, r6 := splitCRational(q4c, divider)
			seg += w * q6.DefiniteIntegral(from, to)
			seg += w * termIntegral(r6.coef[r6.Deg()], rt.Value, 1, from, to)
			v, err = polesIntegral(r4, roots, 1, j, from, to)
			if err != nil {
				return 0, err
			}
			seg += w * v
			v, err = polesIntegral(r1r2, roots, 2, j, from, to)
			if err != nil {
				return 0, err
			}
			seg += w * v
		}
		right += seg / norm
	}
	return left - right, nil
}

// residueIntegral writes y·x′ over each segment as
// (p_y·p_x′·den − p_y·p_x·den′)/den³ and decomposes both numerators
// against the cubed monic denominator, whose poles are the segment
// roots with tripled multiplicities. Numerator parts of degree at or
// above the denominator are integrated directly after Euclidean
// division.
func (c *Curve) residueIntegral(method RootMethod, t0, t1 float64) (complex128, error) {
	var left, right complex128
	for i := range c.segments {
		from := c.knots[c.spans[i]]
		to := c.knots[c.spans[i+1]]
		if from > t1 {
			break
		}
		if to < t0 {
			continue
		}
		from = math.Max(from, t0)
		to = math.Min(to, t1)

		den := c.segments[i].Den.Clone()
		px := c.segments[i].Num[0]
		py := c.segments[i].Num[1]
		num1 := py.Mul(px.Derivative().Mul(den))
		num2 := py.Mul(den.Derivative()).Mul(px).Neg()

		a0 := den.Normalize()
		var roots []Root
		if den.Deg() > 0 {
			roots = den.Roots(method, c.tol)
		}
		den3 := den.Mul(den).Mul(den)
		a03 := complex(a0*a0*a0, 0)
		roots3 := make([]Root, len(roots))
		for j, r := range roots {
			roots3[j] = Root{3 * r.Multiplicity, r.Value}
		}

		b1 := complex(num1.Normalize(), 0)
		b2 := complex(num2.Normalize(), 0)

		if num1.Deg() >= den3.Deg() {
			quo, rem, err := num1.Divide(den3)
			if err != nil {
				return 0, err
			}
			left += b1 / a03 * complex(quo.DefiniteIntegral(from, to), 0)
			num1 = rem
		}
		if num2.Deg() >= den3.Deg() {
			quo, rem, err := num2.Divide(den3)
			if err != nil {
				return 0, err
			}
			right += b2 / a03 * complex(quo.DefiniteIntegral(from, to), 0)
			num2 = rem
		}

		if len(roots3) == 0 {
			continue
		}
		res1, err := partialFractions(num1.Complex(), den3.Complex(), roots3)
		if err != nil {
			return 0, err
		}
		res2, err := partialFractions(num2.Complex(), den3.Complex(), roots3)
		if err != nil {
			return 0, err
		}

		j := 0
		for _, rt := range roots3 {
			for k := 1; k <= rt.Multiplicity; k++ {
				left += b1 / a03 * termIntegral(res1[j], rt.Value, k, from, to)
				right += b2 / a03 * termIntegral(res2[j], rt.Value, k, from, to)
				j++
			}
		}
	}
	return left + right, nil
}

// WriteCoefficients writes one line of text per segment: the bracketed,
// comma-separated coefficient lists (highest degree first) of each
// numerator in dimension order, then of the denominator, separated by
// spaces.
//
// See [Curve.CoefficientsString] for a version that returns a string
// instead.
func (c *Curve) WriteCoefficients(w io.Writer) error {
	for _, seg := range c.segments {
		parts := make([]string, 0, c.dim+1)
		for _, num := range seg.Num {
			parts = append(parts, num.String())
		}
		parts = append(parts, seg.Den.String())
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

// CoefficientsString returns the segment coefficients as text, one line
// per segment.
//
// See [Curve.WriteCoefficients] for a version that writes to an
// [io.Writer] instead.
func (c *Curve) CoefficientsString() string {
	sb := &strings.Builder{}
	c.WriteCoefficients(sb)
	return sb.String()
}
