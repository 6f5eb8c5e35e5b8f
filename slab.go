package shapes

import (
	"math"
	"slices"

	"github.com/ctessum/geom"
)

// slabMargin widens the clip rectangles past the polygon bounds so that
// the polygon's own left and right edges never coincide with them.
const slabMargin = 1.0

// SlabTriangulate subtracts the holes from the outer ring with polygon
// boolean operations, then intersects the result with horizontal slabs
// bounded by consecutive vertex ordinates. The contours of each slab piece
// are nested into outer rings and holes and ear clipped.
//
// Each piece contributes its own vertices; shared boundary points are
// duplicated between pieces.
func SlabTriangulate(outer []Point, holes [][]Point) ([]Point, []Triangle) {
	outer = openRing(outer)
	if len(outer) < 3 {
		return nil, nil
	}

	var poly geom.Polygonal = geom.Polygon{toPath(outer)}
	for _, h := range holes {
		h = openRing(h)
		if len(h) < 3 {
			continue
		}
		poly = poly.Difference(geom.Polygon{toPath(h)})
	}

	ys, minX, maxX := slabBounds(poly)
	if len(ys) < 2 {
		return nil, nil
	}

	var (
		vertices []Point
		tris     []Triangle
	)
	for k := 0; k+1 < len(ys); k++ {
		y0, y1 := ys[k], ys[k+1]
		clip := geom.Polygon{{
			{X: minX - slabMargin, Y: y0},
			{X: maxX + slabMargin, Y: y0},
			{X: maxX + slabMargin, Y: y1},
			{X: minX - slabMargin, Y: y1},
		}}
		for _, piece := range poly.Intersection(clip).Polygons() {
			var loops [][]Point
			for _, path := range piece {
				loops = append(loops, splitPinched(fromPath(path))...)
			}
			for _, p := range nestLoops(loops) {
				vertices, tris = appendEarcut(vertices, tris, p.Outer, p.Holes)
			}
		}
	}
	return vertices, tris
}

// slabBounds returns the sorted distinct ordinates of all vertices and the
// horizontal extent of the polygon.
func slabBounds(poly geom.Polygonal) ([]float64, float64, float64) {
	var ys []float64
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, pg := range poly.Polygons() {
		for _, path := range pg {
			for _, p := range path {
				ys = append(ys, p.Y)
				minX = math.Min(minX, p.X)
				maxX = math.Max(maxX, p.X)
			}
		}
	}
	slices.Sort(ys)
	return slices.Compact(ys), minX, maxX
}

// splitPinched splits a closed path that touches itself at a vertex into
// simple loops. Loops with fewer than three points are dropped.
func splitPinched(pts []Point) [][]Point {
	pts = openRing(pts)
	var loops [][]Point
	stack := make([]Point, 0, len(pts))
	seen := make(map[Point]int, len(pts))
	for _, p := range pts {
		if k, ok := seen[p]; ok {
			loop := slices.Clone(stack[k:])
			for _, q := range stack[k+1:] {
				delete(seen, q)
			}
			stack = stack[:k+1]
			if len(loop) >= 3 {
				loops = append(loops, loop)
			}
			continue
		}
		seen[p] = len(stack)
		stack = append(stack, p)
	}
	if len(stack) >= 3 {
		loops = append(loops, stack)
	}
	return loops
}

// nestLoops groups loops into polygons. A loop inside an odd number of
// other loops is a hole of the smallest even-depth loop containing it.
func nestLoops(loops [][]Point) []Polygon {
	n := len(loops)
	if n == 1 {
		return []Polygon{{Outer: loops[0]}}
	}

	areas := make([]float64, n)
	for i, l := range loops {
		areas[i] = math.Abs(signedArea(l))
	}
	contains := func(i, j int) bool {
		return i != j && areas[i] >= areas[j] && loopInside(loops[j], loops[i])
	}

	depth := make([]int, n)
	for j := range loops {
		for i := range loops {
			if contains(i, j) {
				depth[j]++
			}
		}
	}

	polys := make([]Polygon, n)
	for j := range loops {
		if depth[j]%2 == 1 {
			continue
		}
		polys[j].Outer = loops[j]
	}
	for j := range loops {
		if depth[j]%2 == 0 {
			continue
		}
		parent := -1
		for i := range loops {
			if depth[i]%2 == 0 && contains(i, j) && (parent < 0 || areas[i] < areas[parent]) {
				parent = i
			}
		}
		if parent >= 0 {
			polys[parent].Holes = append(polys[parent].Holes, loops[j])
		}
	}

	out := polys[:0]
	for _, p := range polys {
		if p.Outer != nil {
			out = append(out, p)
		}
	}
	return out
}

// loopInside reports whether inner lies within outer, judged by the first
// vertex of inner that is not on outer's boundary. A loop lying entirely on
// the boundary is not inside.
func loopInside(inner, outer []Point) bool {
	ring := geom.Polygon{toPath(outer)}
	for _, p := range inner {
		switch (geom.Point{X: p.X, Y: p.Y}).Within(ring) {
		case geom.Inside:
			return true
		case geom.Outside:
			return false
		}
	}
	return false
}

// appendEarcut ear clips one polygon and appends it with its indices
// offset past the existing vertices.
func appendEarcut(vertices []Point, tris []Triangle, outer []Point, holes [][]Point) ([]Point, []Triangle) {
	v, t := Earcut(outer, holes)
	if len(t) == 0 {
		return vertices, tris
	}
	base := uint32(len(vertices)) //nolint:gosec // vertex count fits uint32
	for _, tri := range t {
		tris = append(tris, Triangle{tri[0] + base, tri[1] + base, tri[2] + base})
	}
	return append(vertices, v...), tris
}
