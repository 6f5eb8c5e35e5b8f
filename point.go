package shapes

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns the difference of two points (vector subtraction).
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Cross returns the 2D cross product (scalar).
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// cross returns the z component of (b-a) x (c-a). Positive when a, b, c
// turn counter-clockwise.
func cross(a, b, c Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// signedArea returns the shoelace area of an open ring. Counter-clockwise
// rings (y up) have positive area.
func signedArea(ring []Point) float64 {
	var sum float64
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		sum += ring[j].X*ring[i].Y - ring[i].X*ring[j].Y
	}
	return sum / 2
}
