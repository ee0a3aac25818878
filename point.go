package nurbs

import (
	"fmt"
	"strconv"
	"strings"
)

// A Point is a point (or vector) with a fixed number of coordinates. All
// control points of a curve must share one dimensionality.
type Point []float64

// Pt returns the point with the given coordinates.
func Pt(coords ...float64) Point {
	return Point(coords)
}

// Dim returns the number of coordinates.
func (pt Point) Dim() int {
	return len(pt)
}

func (pt Point) String() string {
	parts := make([]string, len(pt))
	for i, c := range pt {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
