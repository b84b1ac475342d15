// Package geometry provides the coordinate math shared by the layout
// engines: cubic Bézier sampling, clamping, and the connector curve rules
// for radial and horizontal diagrams.
//
// All coordinates are abstract canvas units, not pixels. Rasterization maps
// them to pixels at render time.
package geometry

import "math"

// Point is a position in abstract canvas coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// coincidentEps is the tolerance below which two connector endpoints are
// treated as the same point and no curve is emitted. Guards the direction
// vectors against divide-by-zero.
const coincidentEps = 0.01

// straightThreshold is the edge length below which a connector degrades to a
// straight two-point segment instead of a sampled curve.
const straightThreshold = 0.1

// Sample counts for connector curves. The radial layout uses longer edges
// and gets a few more samples.
const (
	radialCurveSteps     = 50
	horizontalCurveSteps = 40
)

// CubicBezier evaluates the cubic Bézier curve defined by p0, c1, c2, p3 at
// steps evenly spaced parameter values in [0, 1], endpoints included.
// A steps value below 2 is raised to 2.
func CubicBezier(p0, c1, c2, p3 Point, steps int) []Point {
	if steps < 2 {
		steps = 2
	}
	out := make([]Point, steps)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		u := 1 - t
		b0 := u * u * u
		b1 := 3 * u * u * t
		b2 := 3 * u * t * t
		b3 := t * t * t
		out[i] = Point{
			X: b0*p0.X + b1*c1.X + b2*c2.X + b3*p3.X,
			Y: b0*p0.Y + b1*c1.Y + b2*c2.Y + b3*p3.Y,
		}
	}
	return out
}

// RadialCurve returns the sampled connector curve for a radial edge.
// The curve bows along the dominant axis of the edge so spokes leave their
// parent smoothly in every direction. Returns nil when the endpoints
// coincide within tolerance.
func RadialCurve(from, to Point) []Point {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if math.Abs(dx) < coincidentEps && math.Abs(dy) < coincidentEps {
		return nil
	}

	dist := math.Hypot(dx, dy)
	if dist < straightThreshold {
		return []Point{from, to}
	}

	cd := math.Min(dist*0.4, 2.0)
	var c1, c2 Point
	if math.Abs(dx) > math.Abs(dy) {
		c1 = Point{X: from.X + math.Copysign(cd, dx), Y: from.Y}
		c2 = Point{X: to.X - math.Copysign(cd, dx), Y: to.Y}
	} else {
		c1 = Point{X: from.X, Y: from.Y + math.Copysign(cd, dy)}
		c2 = Point{X: to.X, Y: to.Y - math.Copysign(cd, dy)}
	}
	return CubicBezier(from, c1, c2, to, radialCurveSteps)
}

// HorizontalCurve returns the sampled connector curve for a left-to-right
// edge. The curve always bows rightward out of the parent, easing into the
// child's vertical offset. Returns nil when the endpoints coincide within
// tolerance.
func HorizontalCurve(from, to Point) []Point {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if math.Abs(dx) < coincidentEps && math.Abs(dy) < coincidentEps {
		return nil
	}

	dist := math.Hypot(dx, dy)
	if dist < straightThreshold {
		return []Point{from, to}
	}

	cd := math.Min(dist*0.3, 1.5)
	c1 := Point{X: from.X + cd, Y: from.Y + dy*0.3}
	c2 := Point{X: to.X - cd*0.5, Y: to.Y - dy*0.3}
	return CubicBezier(from, c1, c2, to, horizontalCurveSteps)
}
