// Package geometry holds the planar primitives shared by the field model and
// the renderers.
package geometry

import (
	"fmt"
	"math"
)

// Point is a position on the field in field units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// String formats the point as "(x, y)" with two decimals.
func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Within reports whether p lies in the square [0,size]x[0,size].
func (p Point) Within(size float64) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= size && p.Y <= size
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
