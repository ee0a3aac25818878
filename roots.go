package nurbs

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// RootMethod selects the numerical strategy for polynomials of degree
// four and above. Degrees one to three always use closed forms.
type RootMethod int

const (
	// Eigenvalues computes roots as the eigenvalues of the companion
	// matrix of the leading-coefficient-normalized polynomial.
	Eigenvalues RootMethod = iota
	// Laguerre computes roots by Laguerre iteration with sequential
	// synthetic deflation.
	Laguerre
)

// Tolerances collects the numerical thresholds used by root
// classification, coefficient polishing and the Laguerre iteration.
type Tolerances struct {
	// Root is the epsilon below which discriminants, residuals and
	// near-zero real or imaginary root components are treated as zero.
	Root float64
	// Coeff is the magnitude below which polished coefficients are
	// dropped.
	Coeff float64
	// MaxIterations caps a single Laguerre refinement. Reaching the cap
	// is not an error; the last iterate is accepted as the root
	// estimate.
	MaxIterations int
}

// DefaultTolerances suits curves whose knots and weights are of order
// unity. Ill-scaled inputs may need looser thresholds.
var DefaultTolerances = Tolerances{
	Root:          1e-12,
	Coeff:         1e-13,
	MaxIterations: 1000,
}

// A Root is a polynomial root together with its multiplicity.
type Root struct {
	Multiplicity int
	Value        complex128
}

// Roots returns the roots of p with multiplicities, in discovery order.
// The sum of the reported multiplicities equals the degree of p. Real
// and imaginary root components with magnitude below tol.Root are
// snapped to exact zero.
func (p Poly) Roots(method RootMethod, tol Tolerances) []Root {
	var roots []Root
	switch {
	case p.Deg() == 1:
		roots = []Root{{1, complex(-p.coef[1]/p.coef[0], 0)}}
	case p.Deg() == 2:
		roots = solveQuadratic(p, tol)
	case p.Deg() == 3:
		roots = solveCubic(p, tol)
	case p.Deg() >= 4:
		if method == Laguerre {
			roots = solveLaguerre(p, tol)
		} else {
			roots = solveEigenvalues(p, tol)
		}
	default:
		roots = []Root{{1, 0}}
	}
	for i := range roots {
		roots[i].Value = snapZero(roots[i].Value, tol.Root)
	}
	return roots
}

func snapZero(z complex128, eps float64) complex128 {
	re, im := real(z), imag(z)
	if math.Abs(re) < eps {
		re = 0
	}
	if math.Abs(im) < eps {
		im = 0
	}
	return complex(re, im)
}

// solveQuadratic applies the discriminant formula. A discriminant with
// magnitude below tol.Root is the degenerate case: one root of
// multiplicity two.
func solveQuadratic(p Poly, tol Tolerances) []Root {
	a, b, c := p.coef[0], p.coef[1], p.coef[2]
	d := b*b - 4*a*c
	if math.Abs(d) < tol.Root {
		return []Root{{2, complex(-b/(2*a), 0)}}
	}
	if d > 0 {
		sq := math.Sqrt(d)
		return []Root{
			{1, complex((-b+sq)/(2*a), 0)},
			{1, complex((-b-sq)/(2*a), 0)},
		}
	}
	sq := math.Sqrt(-d)
	return []Root{
		{1, complex(-b/(2*a), sq/(2*a))},
		{1, complex(-b/(2*a), -sq/(2*a))},
	}
}

// solveCubic solves the depressed cubic. Four regimes: a triple root
// when both invariants vanish, a double plus a simple root on the
// discriminant boundary 729r² = 2916q³ (the sign of r selects which root
// doubles), three distinct real roots through the trigonometric form,
// and otherwise one real Cardano root followed by deflation to a
// quadratic.
func solveCubic(p Poly, tol Tolerances) []Root {
	a := p.coef[1] / p.coef[0]
	b := p.coef[2] / p.coef[0]
	c := p.coef[3] / p.coef[0]
	q := a*a - 3*b
	r := 2*a*a*a - 9*a*b + 27*c
	bigQ := q / 9
	bigR := r / 54
	q3 := bigQ * bigQ * bigQ
	r2 := bigR * bigR
	cr2 := 729 * r * r
	cq3 := 2916 * q * q * q

	switch {
	case math.Abs(bigR) < tol.Root && math.Abs(bigQ) < tol.Root:
		return []Root{{3, complex(-a/3, 0)}}
	case math.Abs(cr2-cq3) < tol.Root:
		sqrtQ := math.Sqrt(bigQ)
		if bigR > 0 {
			return []Root{
				{1, complex(-2*sqrtQ-a/3, 0)},
				{2, complex(sqrtQ-a/3, 0)},
			}
		}
		return []Root{
			{2, complex(-sqrtQ-a/3, 0)},
			{1, complex(2*sqrtQ-a/3, 0)},
		}
	case r2 < q3:
		sgnR := 1.0
		if bigR < 0 {
			sgnR = -1.0
		}
		theta := math.Acos(sgnR * math.Sqrt(r2/q3))
		norm := -2 * math.Sqrt(bigQ)
		return []Root{
			{1, complex(norm*math.Cos(theta/3)-a/3, 0)},
			{1, complex(norm*math.Cos((theta+2*math.Pi)/3)-a/3, 0)},
			{1, complex(norm*math.Cos((theta-2*math.Pi)/3)-a/3, 0)},
		}
	default:
		sgnR := 1.0
		if bigR < 0 {
			sgnR = -1.0
		}
		bigA := -sgnR * math.Cbrt(math.Abs(bigR)+math.Sqrt(r2-q3))
		bigB := 0.0
		if bigA != 0 {
			bigB = bigQ / bigA
		}
		root := bigA + bigB - a/3
		quad, _, _ := p.Divide(NewPoly(1, -root))
		res := solveQuadratic(quad, tol)
		return append(res, Root{1, complex(root, 0)})
	}
}

// solveEigenvalues finds roots as eigenvalues of the companion matrix,
// each reported with multiplicity one. Eigenvalues with magnitude below
// tol.Root are treated as exact zeros.
func solveEigenvalues(p Poly, tol Tolerances) []Root {
	q := p.Clone()
	if q.coef[0] != 1 {
		q.Normalize()
	}
	n := q.Deg()
	m := mat.NewDense(n, n, nil)
	for i := 1; i <= n; i++ {
		m.Set(i-1, n-1, -q.coef[n-i+1])
	}
	for i := 0; i < n-1; i++ {
		m.Set(i+1, i, 1)
	}
	var eig mat.Eigen
	if !eig.Factorize(m, mat.EigenNone) {
		// The QR iteration failed to converge; Laguerre still gets an
		// answer out of such polynomials.
		return solveLaguerre(p, tol)
	}
	vals := eig.Values(nil)
	roots := make([]Root, 0, n)
	for _, v := range vals {
		if cmplx.Abs(v) < tol.Root {
			v = 0
		}
		roots = append(roots, Root{1, v})
	}
	return roots
}

// solveLaguerre iterates Laguerre's update with sequential deflation.
// Trailing near-zero coefficients are first stripped as an implicit zero
// root of the corresponding multiplicity. Each refinement starts at the
// lower root bound and stops on a small residual, a negligible step, or
// the iteration cap; non-convergence keeps the last iterate.
func solveLaguerre(p Poly, tol Tolerances) []Root {
	var roots []Root
	deg := p.Deg()
	k := 0
	for k < deg && math.Abs(p.coef[deg-k]) < tol.Coeff {
		k++
	}
	if k != 0 {
		roots = append(roots, Root{k, 0})
	}

	coef := make([]complex128, deg-k+1)
	for i := range coef {
		coef[i] = complex(p.coef[i], 0)
	}
	q := CPoly{coef: coef}
	q.trimEps(tol.Coeff)

	for q.Deg() > 0 {
		n := q.Deg()
		x := complex(lowerBound(q), 0)
		d1 := q.Derivative()
		d2 := d1.Derivative()
		cn := complex(float64(n), 0)
		for it := 0; it < tol.MaxIterations; it++ {
			pv := q.At(x)
			if cmplx.Abs(pv) < tol.Root {
				break
			}
			g := d1.At(x) / pv
			h := g*g - d2.At(x)/pv
			sq := cmplx.Sqrt(complex(float64(n-1), 0) * (cn*h - g*g))
			den := g + sq
			if cmplx.Abs(g-sq) > cmplx.Abs(den) {
				den = g - sq
			}
			step := cn / den
			if cmplx.Abs(step) < tol.Root {
				break
			}
			x -= step
		}
		quo, _, _ := q.Divide(NewCPoly(1, -x))
		q = quo
		roots = append(roots, Root{1, x})
	}
	return roots
}

// upperBound is the Cauchy bound 1 + max|cᵢ/c₀| on root magnitudes.
func upperBound(p CPoly) float64 {
	bound := 0.0
	for i := 1; i <= p.Deg(); i++ {
		if r := cmplx.Abs(p.coef[i] / p.coef[0]); r > bound {
			bound = r
		}
	}
	return 1 + bound
}

func lowerBound(p CPoly) float64 {
	return 1 / upperBound(p)
}
