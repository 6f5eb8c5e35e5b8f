package shapes

import "fmt"

// Triangle holds three vertex indices local to the fragment it belongs to.
type Triangle [3]uint32

// MeshFragment is triangulated fill geometry with one flat color per
// triangle. Every index in Triangles is less than len(Vertices).
type MeshFragment struct {
	Vertices  []Point
	Triangles []Triangle
	Colors    []RGBA
}

// IsEmpty reports whether the fragment has no triangles.
func (m MeshFragment) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// Indices returns the triangle indices as a flat uint32 array, three per
// triangle, the layout index buffers expect.
func (m MeshFragment) Indices() []uint32 {
	out := make([]uint32, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}

// Validate checks the index and color invariants.
func (m MeshFragment) Validate() error {
	if len(m.Colors) != len(m.Triangles) {
		return fmt.Errorf("%w: %d colors for %d triangles", errColorCount, len(m.Colors), len(m.Triangles))
	}
	n := uint32(len(m.Vertices)) //nolint:gosec // vertex count fits uint32
	for i, t := range m.Triangles {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			return fmt.Errorf("%w: triangle %d %v with %d vertices", errIndexOutOfRange, i, t, n)
		}
	}
	return nil
}

// appendMesh appends src to dst, offsetting src's indices by the number of
// vertices dst held before the append.
func appendMesh(dst *MeshFragment, src MeshFragment) {
	base := uint32(len(dst.Vertices)) //nolint:gosec // vertex count fits uint32
	dst.Vertices = append(dst.Vertices, src.Vertices...)
	for _, t := range src.Triangles {
		dst.Triangles = append(dst.Triangles, Triangle{t[0] + base, t[1] + base, t[2] + base})
	}
	dst.Colors = append(dst.Colors, src.Colors...)
}

// SegmentFragment is a list of independent line segments: points 2i and
// 2i+1 form segment i. Colors holds one color per point.
type SegmentFragment struct {
	Points []Point
	Colors []RGBA
}

// IsEmpty reports whether the fragment has no segments.
func (s SegmentFragment) IsEmpty() bool {
	return len(s.Points) == 0
}

// Len returns the number of segments.
func (s SegmentFragment) Len() int {
	return len(s.Points) / 2
}

// Validate checks the pairing and color invariants.
func (s SegmentFragment) Validate() error {
	if len(s.Points)%2 != 0 {
		return fmt.Errorf("shapes: odd segment point count %d", len(s.Points))
	}
	if len(s.Colors) != len(s.Points) {
		return fmt.Errorf("%w: %d colors for %d points", errColorCount, len(s.Colors), len(s.Points))
	}
	return nil
}

// appendSegments appends src to dst. Segments are positional, so no
// remapping is needed.
func appendSegments(dst *SegmentFragment, src SegmentFragment) {
	dst.Points = append(dst.Points, src.Points...)
	dst.Colors = append(dst.Colors, src.Colors...)
}

// Fragments is the cached translation of one shape.
type Fragments struct {
	Mesh     MeshFragment
	Segments SegmentFragment
}
