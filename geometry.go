package shapes

import (
	"github.com/ctessum/geom"
)

// SimplifyTolerance is the distance every geometry is simplified with
// before translation. It trades fidelity for triangle and segment count.
const SimplifyTolerance = 0.01

// Kind identifies the variant of a Geometry.
type Kind uint8

// Geometry kinds.
const (
	// KindPoint is a single position. It has no area and no length, so the
	// translator rejects it.
	KindPoint Kind = iota

	// KindLine is an open polyline.
	KindLine

	// KindRing is a closed polyline. The closing point may be omitted.
	KindRing

	// KindPolygon is an outer ring with zero or more holes.
	KindPolygon
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLine:
		return "Line"
	case KindRing:
		return "Ring"
	case KindPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Geometry is the input the collection translates. The package provides
// Line, Ring, Polygon and PointGeometry; other implementations are accepted as long
// as Kind reports one of the supported kinds.
type Geometry interface {
	// Kind reports the variant.
	Kind() Kind

	// Exterior returns the ordered outer boundary. For lines this is the
	// line itself.
	Exterior() []Point

	// Interiors returns the ordered hole boundaries. Only polygons have any.
	Interiors() [][]Point

	// IsEmpty reports whether the geometry has nothing to draw.
	IsEmpty() bool

	// Simplify returns a same-kind geometry simplified with tolerance.
	Simplify(tolerance float64) Geometry
}

// Line is an open polyline.
type Line []Point

// Kind implements Geometry.
func (Line) Kind() Kind { return KindLine }

// Exterior implements Geometry.
func (l Line) Exterior() []Point { return l }

// Interiors implements Geometry.
func (Line) Interiors() [][]Point { return nil }

// IsEmpty reports whether the line has fewer than two points.
func (l Line) IsEmpty() bool { return len(l) < 2 }

// Simplify implements Geometry using Douglas-Peucker simplification.
func (l Line) Simplify(tolerance float64) Geometry {
	if len(l) < 3 {
		return l
	}
	s, ok := toLineString(l).Simplify(tolerance).(geom.LineString)
	if !ok || len(s) < 2 {
		return l
	}
	return Line(fromPath(s))
}

// Ring is a closed polyline. Whether the first point is repeated at the
// end does not matter.
type Ring []Point

// Kind implements Geometry.
func (Ring) Kind() Kind { return KindRing }

// Exterior implements Geometry.
func (r Ring) Exterior() []Point { return r }

// Interiors implements Geometry.
func (Ring) Interiors() [][]Point { return nil }

// IsEmpty reports whether the ring has fewer than two distinct points.
func (r Ring) IsEmpty() bool { return len(openRing(r)) < 2 }

// Simplify implements Geometry. The ring is closed before simplifying so
// the start point stays fixed.
func (r Ring) Simplify(tolerance float64) Geometry {
	open := openRing(r)
	if len(open) < 3 {
		return r
	}
	s, ok := toLineString(closeRing(open)).Simplify(tolerance).(geom.LineString)
	if !ok {
		return r
	}
	return Ring(openRing(fromPath(s)))
}

// Polygon is an outer ring minus zero or more holes. Rings may be given
// in either orientation, closed or open.
type Polygon struct {
	Outer []Point
	Holes [][]Point
}

// Kind implements Geometry.
func (Polygon) Kind() Kind { return KindPolygon }

// Exterior implements Geometry.
func (p Polygon) Exterior() []Point { return p.Outer }

// Interiors implements Geometry.
func (p Polygon) Interiors() [][]Point { return p.Holes }

// IsEmpty reports whether the outer ring encloses no area.
func (p Polygon) IsEmpty() bool { return len(openRing(p.Outer)) < 3 }

// Simplify implements Geometry. Holes that collapse below three points
// are dropped; if the outer ring collapses the result is empty.
func (p Polygon) Simplify(tolerance float64) Geometry {
	if p.IsEmpty() {
		return p
	}
	in := make(geom.Polygon, 0, 1+len(p.Holes))
	in = append(in, toPath(closeRing(openRing(p.Outer))))
	for _, h := range p.Holes {
		if len(openRing(h)) >= 3 {
			in = append(in, toPath(closeRing(openRing(h))))
		}
	}

	s, ok := in.Simplify(tolerance).(geom.Polygon)
	if !ok {
		return p
	}
	if len(s) == 0 {
		return Polygon{}
	}

	out := Polygon{Outer: openRing(fromPath(s[0]))}
	if len(out.Outer) < 3 {
		return Polygon{}
	}
	for _, h := range s[1:] {
		if ring := openRing(fromPath(h)); len(ring) >= 3 {
			out.Holes = append(out.Holes, ring)
		}
	}
	return out
}

// PointGeometry is a single position. The translator does not draw points.
type PointGeometry Point

// Kind implements Geometry.
func (PointGeometry) Kind() Kind { return KindPoint }

// Exterior implements Geometry.
func (p PointGeometry) Exterior() []Point { return []Point{Point(p)} }

// Interiors implements Geometry.
func (PointGeometry) Interiors() [][]Point { return nil }

// IsEmpty implements Geometry. A point is never empty.
func (PointGeometry) IsEmpty() bool { return false }

// Simplify implements Geometry.
func (p PointGeometry) Simplify(float64) Geometry { return p }

// openRing drops the closing point if the ring repeats its first point.
func openRing(pts []Point) []Point {
	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		return pts[:n-1]
	}
	return pts
}

// closeRing returns pts with the first point appended when it is not
// already repeated at the end. The input is not modified.
func closeRing(pts []Point) []Point {
	n := len(pts)
	if n == 0 || pts[0] == pts[n-1] {
		return pts
	}
	out := make([]Point, n+1)
	copy(out, pts)
	out[n] = pts[0]
	return out
}

func toPath(pts []Point) geom.Path {
	path := make(geom.Path, len(pts))
	for i, p := range pts {
		path[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return path
}

func toLineString(pts []Point) geom.LineString {
	return geom.LineString(toPath(pts))
}

func fromPath[S ~[]geom.Point](path S) []Point {
	pts := make([]Point, len(path))
	for i, p := range path {
		pts[i] = Point{X: p.X, Y: p.Y}
	}
	return pts
}
