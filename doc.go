// Package nurbs evaluates, samples, and analytically integrates rational
// (NURBS) parametric curves.
//
// A curve is reduced, one knot span at a time, to an exact ratio of
// polynomials by running the de Boor recursion symbolically over the
// control points, weights and knots. Each span yields a [Rational]: a
// numerator polynomial per coordinate dimension and one shared
// denominator, all expressed in the curve's global parameter. Because the
// segments are plain polynomial ratios, the usual curve queries become
// polynomial algebra: sampling is Horner evaluation, slopes follow from
// the quotient rule, and line integrals along the curve have closed
// forms.
//
// # Polynomial engine
//
// [Poly] is a dense univariate polynomial over float64 with coefficients
// stored highest degree first. It supports arithmetic, derivatives and
// antiderivatives, Horner and compensated-summation evaluation, Euclidean
// division, and the trimming and normalization passes used to polish
// symbolically constructed coefficients. [CPoly] is its complex-valued
// companion, used wherever intermediate results leave the real line.
//
// # Root finding
//
// [Poly.Roots] reports roots with multiplicities, dispatching on degree:
// closed forms for degrees one to three, and a selectable numerical
// method ([Eigenvalues] or [Laguerre]) above that. Numerical thresholds
// are collected in [Tolerances] rather than scattered per call site.
//
// # Integration
//
// [Curve.AnalyticIntegral] computes the definite integral of y·x′ along
// the curve in closed form, by finding the poles of each segment's
// denominator, decomposing the rational integrand into partial fractions,
// and integrating the fractional terms as complex logarithms and power
// laws. Two independent strategies are provided, [DirectStrategy] and
// [ResidueStrategy]; they organize the decomposition differently and are
// intended as cross-checks of one another. A fixed Legendre-Gauss
// quadrature ([Curve.NumericalIntegral]) serves as a further numerical
// cross-check.
//
// # Literature
//
//   - The NURBS Book, Piegl & Tiller, 2nd edition (de Boor recursion,
//     knot span conventions)
//   - Numerical Recipes §9.5 (Laguerre's method)
//   - [Legendre-Gauss quadrature coefficients]
//
// [Legendre-Gauss quadrature coefficients]: https://pomax.github.io/bezierinfo/legendre-gauss.html
package nurbs
