package shapes

import (
	"math"
	"math/rand/v2"
	"testing"
)

// meshArea sums the unsigned areas of the triangles.
func meshArea(vertices []Point, tris []Triangle) float64 {
	var sum float64
	for _, t := range tris {
		sum += math.Abs(cross(vertices[t[0]], vertices[t[1]], vertices[t[2]])) / 2
	}
	return sum
}

func checkIndices(t *testing.T, vertices []Point, tris []Triangle) {
	t.Helper()
	n := uint32(len(vertices)) //nolint:gosec // test sizes are small
	for i, tri := range tris {
		for _, idx := range tri {
			if idx >= n {
				t.Fatalf("triangle %d = %v references vertex %d of %d", i, tri, idx, n)
			}
		}
	}
}

// randomPolygon builds a star-shaped outer ring around the origin with up
// to five small disjoint holes. Rings get random orientation.
func randomPolygon(rng *rand.Rand) Polygon {
	n := 8 + rng.IntN(33)
	outer := make([]Point, n)
	for i := range outer {
		a := 2 * math.Pi * (float64(i) + rng.Float64()*0.5) / float64(n)
		r := 8 + 2*rng.Float64()
		outer[i] = Pt(r*math.Cos(a), r*math.Sin(a))
	}
	if rng.IntN(2) == 0 {
		reverse(outer)
	}

	holes := make([][]Point, rng.IntN(6))
	phase := rng.Float64() * 2 * math.Pi
	for h := range holes {
		ca := phase + 2*math.Pi*float64(h)/5
		cx, cy := 4*math.Cos(ca), 4*math.Sin(ca)
		k := 3 + rng.IntN(6)
		hole := make([]Point, k)
		for i := range hole {
			a := 2 * math.Pi * (float64(i) + rng.Float64()*0.5) / float64(k)
			r := 0.5 + 0.4*rng.Float64()
			hole[i] = Pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
		}
		if rng.IntN(2) == 0 {
			reverse(hole)
		}
		holes[h] = hole
	}
	return Polygon{Outer: outer, Holes: holes}
}

func reverse(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

func polygonArea(p Polygon) float64 {
	area := math.Abs(signedArea(p.Outer))
	for _, h := range p.Holes {
		area -= math.Abs(signedArea(h))
	}
	return area
}

func TestEarcutSquare(t *testing.T) {
	square := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	vertices, tris := Earcut(square, nil)

	if len(vertices) != 4 {
		t.Errorf("len(vertices) = %d, want 4", len(vertices))
	}
	if len(tris) != 2 {
		t.Fatalf("len(tris) = %d, want 2", len(tris))
	}
	checkIndices(t, vertices, tris)
	if got := meshArea(vertices, tris); math.Abs(got-1) > 1e-12 {
		t.Errorf("area = %v, want 1", got)
	}
}

func TestEarcutClosedRing(t *testing.T) {
	// A repeated closing point must not become a vertex.
	ring := []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}
	vertices, tris := Earcut(ring, nil)
	if len(vertices) != 4 {
		t.Errorf("len(vertices) = %d, want 4", len(vertices))
	}
	if got := meshArea(vertices, tris); math.Abs(got-4) > 1e-12 {
		t.Errorf("area = %v, want 4", got)
	}
}

func TestEarcutSquareWithHole(t *testing.T) {
	outer := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	hole := []Point{{4, 4}, {4, 6}, {6, 6}, {6, 4}}
	vertices, tris := Earcut(outer, [][]Point{hole})

	if len(vertices) != 8 {
		t.Errorf("len(vertices) = %d, want 8", len(vertices))
	}
	checkIndices(t, vertices, tris)
	if got := meshArea(vertices, tris); math.Abs(got-96) > 1e-9 {
		t.Errorf("area = %v, want 96", got)
	}
}

func TestEarcutConcave(t *testing.T) {
	// L shape, clockwise.
	l := []Point{{0, 0}, {0, 2}, {1, 2}, {1, 1}, {2, 1}, {2, 0}}
	vertices, tris := Earcut(l, nil)
	if len(tris) != 4 {
		t.Errorf("len(tris) = %d, want 4", len(tris))
	}
	checkIndices(t, vertices, tris)
	if got := meshArea(vertices, tris); math.Abs(got-3) > 1e-12 {
		t.Errorf("area = %v, want 3", got)
	}
}

func TestEarcutDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		outer []Point
	}{
		{"empty", nil},
		{"point", []Point{{1, 1}}},
		{"segment", []Point{{0, 0}, {1, 1}}},
		{"closed segment", []Point{{0, 0}, {1, 1}, {0, 0}}},
		{"collinear", []Point{{0, 0}, {1, 0}, {2, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vertices, tris := Earcut(tt.outer, nil)
			if len(tris) != 0 {
				t.Errorf("len(tris) = %d, want 0", len(tris))
			}
			checkIndices(t, vertices, tris)
		})
	}
}

func TestEarcutSkipsShortHoles(t *testing.T) {
	outer := []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	vertices, tris := Earcut(outer, [][]Point{{{1, 1}, {2, 2}}})
	if len(vertices) != 4 {
		t.Errorf("len(vertices) = %d, want 4", len(vertices))
	}
	if got := meshArea(vertices, tris); math.Abs(got-16) > 1e-12 {
		t.Errorf("area = %v, want 16", got)
	}
}

// TestEarcutRandomPolygons checks the index invariant and full coverage
// on random polygons with zero to five holes.
func TestEarcutHolesOutOfOrder(t *testing.T) {
	outer := []Point{{0, 0}, {30, 0}, {30, 10}, {0, 10}}
	var holes [][]Point
	for _, x := range []float64{22, 12, 2} {
		holes = append(holes, []Point{{x, 3}, {x, 7}, {x + 4, 7}, {x + 4, 3}})
	}
	vertices, tris := Earcut(outer, holes)

	if len(vertices) != 16 {
		t.Errorf("len(vertices) = %d, want 16", len(vertices))
	}
	checkIndices(t, vertices, tris)
	if got := meshArea(vertices, tris); math.Abs(got-252) > 1e-9 {
		t.Errorf("area = %v, want 252", got)
	}
}

func TestEarcutRandomPolygons(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range 500 {
		p := randomPolygon(rng)
		vertices, tris := Earcut(p.Outer, p.Holes)

		checkIndices(t, vertices, tris)

		want := polygonArea(p)
		got := meshArea(vertices, tris)
		if math.Abs(got-want) > 1e-9*want {
			t.Fatalf("polygon %d (%d holes): area = %v, want %v", i, len(p.Holes), got, want)
		}
	}
}

func BenchmarkEarcut(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	p := randomPolygon(rng)
	b.ReportAllocs()
	for b.Loop() {
		Earcut(p.Outer, p.Holes)
	}
}
