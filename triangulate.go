package shapes

import (
	"fmt"
	"strings"
)

// Triangulator fills outer minus holes with triangles. It returns the
// vertices it used and triangles indexing into them, so callers can remap
// indices per shape. Triangles must not cover holes.
type Triangulator func(outer []Point, holes [][]Point) ([]Point, []Triangle)

// Triangulation selects the triangulation backend of a Collection.
// Both produce equivalent coverage; they differ in triangle count and shape.
type Triangulation uint8

const (
	// TriangulationNative uses the built-in ear clipper (Earcut). It reuses
	// the ring vertices and produces n-2+2h triangles.
	TriangulationNative Triangulation = iota

	// TriangulationExternal uses polygon boolean operations from
	// github.com/ctessum/geom to cut the polygon into horizontal slabs,
	// then ear clips each piece (SlabTriangulate).
	TriangulationExternal
)

// String returns the configuration name of the strategy.
func (t Triangulation) String() string {
	switch t {
	case TriangulationNative:
		return "native"
	case TriangulationExternal:
		return "external"
	default:
		return "unknown"
	}
}

// ParseTriangulation parses "native" or "external" (case-insensitive).
func ParseTriangulation(s string) (Triangulation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "":
		return TriangulationNative, nil
	case "external":
		return TriangulationExternal, nil
	default:
		return 0, fmt.Errorf("%w: unknown triangulation %q", ErrInvalidConfig, s)
	}
}

// Triangulator returns the function implementing the strategy.
func (t Triangulation) Triangulator() (Triangulator, error) {
	switch t {
	case TriangulationNative:
		return Earcut, nil
	case TriangulationExternal:
		return SlabTriangulate, nil
	default:
		return nil, fmt.Errorf("%w: unknown triangulation %d", ErrInvalidConfig, t)
	}
}
