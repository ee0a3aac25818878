package nurbs

import (
	"math"
	"math/cmplx"
	"sort"
	"testing"
)

// checkRoots compares found roots against expected ones, matching by
// value within eps and requiring the same multiplicities. Ordering is
// not part of the contract.
func checkRoots(t *testing.T, roots, expected []Root, eps float64) {
	t.Helper()
	if len(roots) != len(expected) {
		t.Fatalf("got %d roots %v, expected %d", len(roots), roots, len(expected))
	}
	byValue := func(rs []Root) func(i, j int) bool {
		return func(i, j int) bool {
			if real(rs[i].Value) != real(rs[j].Value) {
				return real(rs[i].Value) < real(rs[j].Value)
			}
			return imag(rs[i].Value) < imag(rs[j].Value)
		}
	}
	sort.Slice(roots, byValue(roots))
	sort.Slice(expected, byValue(expected))
	for i := range roots {
		if cmplx.Abs(roots[i].Value-expected[i].Value) > eps {
			t.Errorf("root %d is %v, expected %v", i, roots[i].Value, expected[i].Value)
		}
		if roots[i].Multiplicity != expected[i].Multiplicity {
			t.Errorf("root %d has multiplicity %d, expected %d", i, roots[i].Multiplicity, expected[i].Multiplicity)
		}
	}
}

// checkResiduals verifies that every reported root actually annihilates
// the polynomial, and that the multiplicities sum to the degree.
func checkResiduals(t *testing.T, p Poly, roots []Root, eps float64) {
	t.Helper()
	q := p.Complex()
	total := 0
	for _, r := range roots {
		total += r.Multiplicity
		if res := cmplx.Abs(q.At(r.Value)); res > eps {
			t.Errorf("residual %g at root %v", res, r.Value)
		}
	}
	if total != p.Deg() {
		t.Errorf("multiplicities sum to %d, expected degree %d", total, p.Deg())
	}
}

func TestRootsLinear(t *testing.T) {
	roots := NewPoly(2, -6).Roots(Eigenvalues, DefaultTolerances)
	checkRoots(t, roots, []Root{{1, 3}}, 1e-12)
}

func TestRootsQuadratic(t *testing.T) {
	// x²−5x+6 = (x−2)(x−3)
	roots := NewPoly(1, -5, 6).Roots(Eigenvalues, DefaultTolerances)
	checkRoots(t, roots, []Root{{1, 2}, {1, 3}}, 1e-12)

	// x²+2x+1 = (x+1)²
	roots = NewPoly(1, 2, 1).Roots(Eigenvalues, DefaultTolerances)
	checkRoots(t, roots, []Root{{2, -1}}, 1e-12)

	// x²+1
	roots = NewPoly(1, 0, 1).Roots(Eigenvalues, DefaultTolerances)
	checkRoots(t, roots, []Root{{1, 1i}, {1, -1i}}, 1e-12)
}

func TestRootsCubic(t *testing.T) {
	tests := []struct {
		name  string
		p     Poly
		roots []Root
	}{
		// (x+2)³ = x³+6x²+12x+8
		{"triple", NewPoly(1, 6, 12, 8), []Root{{3, -2}}},
		// (x−1)³ = x³−3x²+3x−1
		{"triple shifted", NewPoly(1, -3, 3, -1), []Root{{3, 1}}},
		// (x−1)²(x−3) = x³−5x²+7x−3
		{"double plus simple", NewPoly(1, -5, 7, -3), []Root{{2, 1}, {1, 3}}},
		// (x+1)²(x−2) = x³−3x−2, the doubled root on the other side
		{"double plus simple flipped", NewPoly(1, 0, -3, -2), []Root{{2, -1}, {1, 2}}},
		// (x−1)(x−2)(x−3) = x³−6x²+11x−6
		{"three real", NewPoly(1, -6, 11, -6), []Root{{1, 1}, {1, 2}, {1, 3}}},
		// (x−2)(x²+1) = x³−2x²+x−2
		{"one real pair complex", NewPoly(1, -2, 1, -2), []Root{{1, 2}, {1, 1i}, {1, -1i}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := tt.p.Roots(Eigenvalues, DefaultTolerances)
			checkRoots(t, roots, tt.roots, 1e-9)
			checkResiduals(t, tt.p, roots, 1e-8)
		})
	}
}

func TestRootsQuartic(t *testing.T) {
	// (x−1)(x−2)(x−3)(x−4) = x⁴−10x³+35x²−50x+24
	p := NewPoly(1, -10, 35, -50, 24)
	want := []Root{{1, 1}, {1, 2}, {1, 3}, {1, 4}}
	for _, method := range []RootMethod{Eigenvalues, Laguerre} {
		roots := p.Roots(method, DefaultTolerances)
		checkRoots(t, roots, want, 1e-8)
		checkResiduals(t, p, roots, 1e-6)
	}
}

func TestRootsQuarticComplex(t *testing.T) {
	// (x²+1)(x²+4) = x⁴+5x²+4
	p := NewPoly(1, 0, 5, 0, 4)
	want := []Root{{1, 1i}, {1, -1i}, {1, 2i}, {1, -2i}}
	for _, method := range []RootMethod{Eigenvalues, Laguerre} {
		roots := p.Roots(method, DefaultTolerances)
		checkRoots(t, roots, want, 1e-8)
	}
}

func TestRootsLaguerreZeroStripping(t *testing.T) {
	// x⁴−2x³ = x³(x−2): the trailing zeros come off as a single root
	// of multiplicity three before the iteration starts.
	p := NewPoly(1, -2, 0, 0, 0)
	roots := p.Roots(Laguerre, DefaultTolerances)
	checkRoots(t, roots, []Root{{3, 0}, {1, 2}}, 1e-10)
	checkResiduals(t, p, roots, 1e-9)
}

func TestRootsScaledLeading(t *testing.T) {
	// 3(x−1)(x−2)(x−3)(x−4): normalization must not change the roots.
	p := NewPoly(3, -30, 105, -150, 72)
	for _, method := range []RootMethod{Eigenvalues, Laguerre} {
		roots := p.Roots(method, DefaultTolerances)
		checkRoots(t, roots, []Root{{1, 1}, {1, 2}, {1, 3}, {1, 4}}, 1e-7)
	}
}

func TestRootsSnapZero(t *testing.T) {
	// x²−2x: the root at zero must come out exactly zero so that later
	// pole bookkeeping can group it.
	roots := NewPoly(1, -2, 0).Roots(Eigenvalues, DefaultTolerances)
	for _, r := range roots {
		if real(r.Value) != 0 && imag(r.Value) != 0 {
			continue
		}
		if math.Signbit(real(r.Value)) || math.Signbit(imag(r.Value)) {
			t.Errorf("snapped zero component with sign bit in %v", r.Value)
		}
	}
	checkRoots(t, roots, []Root{{1, 0}, {1, 2}}, 1e-12)
}
