package shapes

import (
	"fmt"
	"slices"
)

// Translator converts one geometry into cached fragments. It holds no
// per-shape state and can be shared by any number of shapes.
type Translator struct {
	triangulate Triangulator
	tolerance   float64
}

// NewTranslator creates a translator using triangulate for polygon fills.
// A nil triangulate falls back to Earcut.
func NewTranslator(triangulate Triangulator) *Translator {
	if triangulate == nil {
		triangulate = Earcut
	}
	return &Translator{triangulate: triangulate, tolerance: SimplifyTolerance}
}

// Translate converts g into a mesh fragment (polygon fill) and a segment
// fragment (lines, rings, polygon outlines). A nil color disables the
// corresponding part. Empty geometry yields empty fragments and no error.
//
// On error the returned fragments are always empty.
func (t *Translator) Translate(g Geometry, stroke, fill *RGBA) (Fragments, error) {
	if g == nil {
		return Fragments{}, nil
	}

	var translate func(Geometry, *RGBA, *RGBA) Fragments
	switch g.Kind() {
	case KindLine:
		translate = t.translateLine
	case KindRing:
		translate = t.translateRing
	case KindPolygon:
		translate = t.translatePolygon
	default:
		return Fragments{}, fmt.Errorf("%w: %v", ErrUnsupportedGeometryKind, g.Kind())
	}

	if g.IsEmpty() {
		return Fragments{}, nil
	}
	simple := g.Simplify(t.tolerance)
	if simple == nil || simple.IsEmpty() {
		return Fragments{}, nil
	}
	return translate(simple, stroke, fill), nil
}

func (t *Translator) translateLine(g Geometry, stroke, _ *RGBA) Fragments {
	if stroke == nil {
		return Fragments{}
	}
	return Fragments{Segments: colorSegments(lineToSegments(g.Exterior()), *stroke)}
}

func (t *Translator) translateRing(g Geometry, stroke, _ *RGBA) Fragments {
	if stroke == nil {
		return Fragments{}
	}
	return Fragments{Segments: colorSegments(ringToSegments(g.Exterior()), *stroke)}
}

func (t *Translator) translatePolygon(g Geometry, stroke, fill *RGBA) Fragments {
	var out Fragments

	if fill != nil {
		vertices, tris := t.triangulate(g.Exterior(), g.Interiors())
		if len(vertices) > 0 && len(tris) > 0 {
			out.Mesh = MeshFragment{
				Vertices:  vertices,
				Triangles: tris,
				Colors:    repeatColor(*fill, len(tris)),
			}
		}
	}

	if stroke != nil {
		pts := ringToSegments(g.Exterior())
		for _, hole := range g.Interiors() {
			pts = append(pts, ringToSegments(hole)...)
		}
		out.Segments = colorSegments(pts, *stroke)
	}

	return out
}

// lineToSegments expands a polyline into independent segments:
// [p0,p1, p1,p2, ...].
func lineToSegments(pts []Point) []Point {
	if len(pts) < 2 {
		return nil
	}
	out := make([]Point, 0, 2*(len(pts)-1))
	for i := 0; i+1 < len(pts); i++ {
		out = append(out, pts[i], pts[i+1])
	}
	return out
}

// ringToSegments is lineToSegments on the ring with its closing point
// synthesized when missing.
func ringToSegments(pts []Point) []Point {
	return lineToSegments(closeRing(pts))
}

func colorSegments(pts []Point, c RGBA) SegmentFragment {
	if len(pts) == 0 {
		return SegmentFragment{}
	}
	return SegmentFragment{Points: pts, Colors: repeatColor(c, len(pts))}
}

func repeatColor(c RGBA, n int) []RGBA {
	return slices.Repeat([]RGBA{c}, n)
}
