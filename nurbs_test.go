package nurbs

import (
	"math"
	"strings"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

// quarterCircle returns the exact rational quarter circle from (1, 0)
// to (0, 1): degree 2, a doubly clamped knot vector and the middle
// weight √2/2.
func quarterCircle(t *testing.T) *Curve {
	t.Helper()
	c, err := NewCurve(2,
		[]float64{0, 0, 0, 1, 1, 1},
		[]float64{1, math.Sqrt2 / 2, 1},
		[]Point{Pt(1, 0), Pt(1, 1), Pt(0, 1)},
	)
	require.NoError(t, err)
	return c
}

func TestCurveValidation(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(1, 1), Pt(2, 0)}
	knots := []float64{0, 0, 0, 1, 1, 1}
	weights := []float64{1, 1, 1}

	_, err := NewCurve(2, knots, weights, nil)
	require.Error(t, err)
	_, err = NewCurve(3, knots, weights, pts)
	require.Error(t, err)
	_, err = NewCurve(0, knots, weights, pts)
	require.Error(t, err)
	_, err = NewCurve(2, knots[:5], weights, pts)
	require.Error(t, err)
	_, err = NewCurve(2, knots, weights[:2], pts)
	require.Error(t, err)
	_, err = NewCurve(2, []float64{0, 0, 1, 0, 1, 1}, weights, pts)
	require.Error(t, err)
	_, err = NewCurve(2, knots, weights, []Point{Pt(0, 0), Pt(1), Pt(2, 0)})
	require.Error(t, err)

	c, err := NewCurve(2, knots, weights, pts)
	require.NoError(t, err)
	if c.Degree() != 2 || c.Dim() != 2 || c.NumSegments() != 1 {
		t.Errorf("got degree %d, dim %d, %d segments", c.Degree(), c.Dim(), c.NumSegments())
	}
	lo, hi := c.Domain()
	require.InDelta(t, 0, lo, 1e-15)
	require.InDelta(t, 1, hi, 1e-15)
}

func TestQuarterCircleSegment(t *testing.T) {
	c := quarterCircle(t)
	segs := c.Segments()
	require.Len(t, segs, 1)

	// The weighted basis sum is (2−√2)t² + (√2−2)t + 1.
	want := NewPoly(2-math.Sqrt2, math.Sqrt2-2, 1)
	if !segs[0].Den.ApproxEqual(want, 1e-12) {
		t.Errorf("denominator is %v, expected %v", segs[0].Den, want)
	}
}

func TestQuarterCirclePoints(t *testing.T) {
	c := quarterCircle(t)
	pts := c.SamplePoints(33)
	require.Len(t, pts, 33)

	require.InDelta(t, 1, pts[0][0], 1e-12)
	require.InDelta(t, 0, pts[0][1], 1e-12)
	require.InDelta(t, 0, pts[32][0], 1e-12)
	require.InDelta(t, 1, pts[32][1], 1e-12)

	radial := make([]float64, len(pts))
	for i, pt := range pts {
		radial[i] = math.Abs(math.Hypot(pt[0], pt[1]) - 1)
	}
	worst, err := stats.Max(radial)
	require.NoError(t, err)
	require.Less(t, worst, 1e-12)
}

func TestQuarterCircleSlopes(t *testing.T) {
	c := quarterCircle(t)
	slopes := c.SampleSlopes(5)
	require.Len(t, slopes, 5)
	// At the 45° point the tangent has slope −1; at (0, 1) it is
	// horizontal.
	require.InDelta(t, -1, slopes[2], 1e-12)
	require.InDelta(t, 0, slopes[4], 1e-12)
}

func TestQuarterCircleIntegral(t *testing.T) {
	c := quarterCircle(t)
	// ∫ y dx from (1, 0) to (0, 1) sweeps the quarter disc backwards.
	want := -math.Pi / 4

	require.InDelta(t, want, c.NumericalIntegral(), 1e-12)

	for _, strategy := range []IntegrationStrategy{DirectStrategy, ResidueStrategy} {
		for _, method := range []RootMethod{Eigenvalues, Laguerre} {
			got, err := c.AnalyticIntegral(strategy, method, 0, 1)
			require.NoError(t, err)
			require.InDelta(t, want, real(got), 1e-9)
			require.InDelta(t, 0, imag(got), 1e-9)
		}
	}
}

func TestSampleCounts(t *testing.T) {
	c := quarterCircle(t)
	require.Empty(t, c.SamplePoints(0))
	require.Empty(t, c.SampleSlopes(0))

	pts := c.SamplePoints(1)
	require.Len(t, pts, 1)
	require.InDelta(t, 1, pts[0][0], 1e-12)
	require.InDelta(t, 0, pts[0][1], 1e-12)
}

func TestWeightedMultiSegmentIntegral(t *testing.T) {
	// Several spans with non-trivial weights: every segment keeps a
	// genuine quadratic denominator, and sub-ranges cut across segment
	// boundaries.
	pts := []Point{Pt(0, 0), Pt(1, 1), Pt(2, -1), Pt(3, 1), Pt(4, 0), Pt(5, 2)}
	weights := []float64{1, 1.2, 0.8, 1.1, 0.9, 1.3}
	c, err := NewUniformCurve(2, weights, pts)
	require.NoError(t, err)
	require.Greater(t, c.NumSegments(), 1)

	want := c.NumericalIntegral()
	lo, hi := c.Domain()
	for _, strategy := range []IntegrationStrategy{DirectStrategy, ResidueStrategy} {
		for _, method := range []RootMethod{Eigenvalues, Laguerre} {
			got, err := c.AnalyticIntegral(strategy, method, lo, hi)
			require.NoError(t, err)
			require.InDelta(t, want, real(got), 1e-9)
			require.InDelta(t, 0, imag(got), 1e-9)
		}
	}

	// Splitting mid-segment: both halves span multiple segments, so the
	// per-segment clamping has to agree with the full-range sum.
	mid := lo + 0.4*(hi-lo)
	full, err := c.AnalyticIntegral(DirectStrategy, Eigenvalues, lo, hi)
	require.NoError(t, err)
	a, err := c.AnalyticIntegral(DirectStrategy, Eigenvalues, lo, mid)
	require.NoError(t, err)
	b, err := c.AnalyticIntegral(DirectStrategy, Eigenvalues, mid, hi)
	require.NoError(t, err)
	require.InDelta(t, real(full), real(a+b), 1e-10)
	require.InDelta(t, imag(full), imag(a+b), 1e-10)
}

func TestAnalyticIntegralAdditivity(t *testing.T) {
	c := quarterCircle(t)
	full, err := c.AnalyticIntegral(DirectStrategy, Eigenvalues, 0, 1)
	require.NoError(t, err)
	lo, err := c.AnalyticIntegral(DirectStrategy, Eigenvalues, 0, 0.3)
	require.NoError(t, err)
	hi, err := c.AnalyticIntegral(DirectStrategy, Eigenvalues, 0.3, 1)
	require.NoError(t, err)
	require.InDelta(t, real(full), real(lo+hi), 1e-10)
	require.InDelta(t, imag(full), imag(lo+hi), 1e-10)
}

func TestQuarticCurveIntegral(t *testing.T) {
	c, err := NewCurve(4,
		[]float64{0, 0, 0, 0, 0, 1, 1, 1, 1, 1},
		[]float64{1, 0.8, 1.2, 0.9, 1},
		[]Point{Pt(0, 0), Pt(1, 2), Pt(2, -1), Pt(3, 2), Pt(4, 0)},
	)
	require.NoError(t, err)
	require.Equal(t, 1, c.NumSegments())

	want := c.NumericalIntegral()
	for _, strategy := range []IntegrationStrategy{DirectStrategy, ResidueStrategy} {
		for _, method := range []RootMethod{Eigenvalues, Laguerre} {
			got, err := c.AnalyticIntegral(strategy, method, 0, 1)
			require.NoError(t, err)
			require.InDelta(t, want, real(got), 1e-6)
			require.InDelta(t, 0, imag(got), 1e-6)
		}
	}
}

func TestUniformCurveIntegral(t *testing.T) {
	// Multiple spans with unit weights: the denominators collapse to
	// constants and the analytic path must survive the pole-free case.
	pts := []Point{Pt(0, 0), Pt(1, 1), Pt(2, -1), Pt(3, 1), Pt(4, 0), Pt(5, 2)}
	weights := []float64{1, 1, 1, 1, 1, 1}
	c, err := NewUniformCurve(2, weights, pts)
	require.NoError(t, err)
	require.Greater(t, c.NumSegments(), 1)

	want := c.NumericalIntegral()
	lo, hi := c.Domain()
	for _, strategy := range []IntegrationStrategy{DirectStrategy, ResidueStrategy} {
		got, err := c.AnalyticIntegral(strategy, Eigenvalues, lo, hi)
		require.NoError(t, err)
		require.InDelta(t, want, real(got), 1e-9)
		require.InDelta(t, 0, imag(got), 1e-9)
	}
}

func TestUniformRampMatchesGeneralPath(t *testing.T) {
	pts := make([]Point, 8)
	for i := range pts {
		x := float64(i)
		pts[i] = Pt(x, math.Sin(x/2))
	}
	ramp, err := NewUniformRampCurve(3, 1, 2, pts)
	require.NoError(t, err)
	general, err := NewCurve(3, UniformKnots(8, 3), linspace(1, 2, 8), pts)
	require.NoError(t, err)

	require.Equal(t, general.NumSegments(), ramp.NumSegments())

	// Interior denominators drop to the affine form the linear ramp
	// admits on uniform knots.
	segs := ramp.Segments()
	for i := 2; i < ramp.NumSegments()-2; i++ {
		require.Equal(t, 1, segs[i].Den.Deg())
	}

	a := ramp.SamplePoints(64)
	b := general.SamplePoints(64)
	for i := range a {
		require.InDelta(t, b[i][0], a[i][0], 1e-9)
		require.InDelta(t, b[i][1], a[i][1], 1e-9)
	}
}

func TestWriteCoefficients(t *testing.T) {
	// A straight line with unit weights has the plain Bézier
	// polynomials as its single segment.
	c, err := NewCurve(1,
		[]float64{0, 0, 1, 1},
		[]float64{1, 1},
		[]Point{Pt(0, 0), Pt(2, 4)},
	)
	require.NoError(t, err)

	sb := &strings.Builder{}
	require.NoError(t, c.WriteCoefficients(sb))
	require.Equal(t, "[2, 0] [4, 0] [1]\n", sb.String())
	require.Equal(t, sb.String(), c.CoefficientsString())

	slopes := c.SampleSlopes(3)
	for _, s := range slopes {
		require.InDelta(t, 2, s, 1e-12)
	}
}

func TestAnalyticIntegralNeedsTwoDims(t *testing.T) {
	c, err := NewCurve(1,
		[]float64{0, 0, 1, 1},
		[]float64{1, 1},
		[]Point{Pt(0), Pt(1)},
	)
	require.NoError(t, err)
	_, err = c.AnalyticIntegral(DirectStrategy, Eigenvalues, 0, 1)
	require.Error(t, err)
}

func TestSetTolerances(t *testing.T) {
	c := quarterCircle(t)
	tol := DefaultTolerances
	tol.Root = 1e-10
	c.SetTolerances(tol)
	got, err := c.AnalyticIntegral(ResidueStrategy, Laguerre, 0, 1)
	require.NoError(t, err)
	require.InDelta(t, -math.Pi/4, real(got), 1e-8)
}

func TestAccessorsCopy(t *testing.T) {
	c := quarterCircle(t)
	knots := c.Knots()
	knots[0] = 99
	require.InDelta(t, 0, c.Knots()[0], 1e-15)
	weights := c.Weights()
	weights[0] = 99
	require.InDelta(t, 1, c.Weights()[0], 1e-15)
}
