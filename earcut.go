package shapes

import (
	"cmp"
	"math"
	"slices"
)

// earNode is a vertex in the circular doubly linked list the ear clipper
// works on. i indexes the vertex slice returned to the caller.
type earNode struct {
	i          int
	x, y       float64
	prev, next *earNode
	steiner    bool
}

// Earcut triangulates the polygon outer minus holes by ear clipping.
// Holes are joined to the outer ring through bridge edges first, turning
// the polygon into a single weakly simple ring.
//
// The returned vertices are the outer ring followed by every hole that has
// at least three points, each without a closing duplicate. Triangle indices
// refer to that slice. Rings may be given in either orientation.
func Earcut(outer []Point, holes [][]Point) ([]Point, []Triangle) {
	outer = openRing(outer)
	if len(outer) < 3 {
		return nil, nil
	}

	vertices := make([]Point, 0, len(outer))
	vertices = append(vertices, outer...)
	ringStarts := make([]int, 0, len(holes))
	for _, h := range holes {
		h = openRing(h)
		if len(h) < 3 {
			continue
		}
		ringStarts = append(ringStarts, len(vertices))
		vertices = append(vertices, h...)
	}

	outerEnd := len(outer)
	outerNode := linkRing(vertices, 0, outerEnd, true)
	if outerNode == nil || outerNode.next == outerNode.prev {
		return vertices, nil
	}

	if len(ringStarts) > 0 {
		outerNode = eliminateHoles(vertices, ringStarts, outerNode)
	}

	var tris []Triangle
	earcutLinked(outerNode, &tris, 0)
	return vertices, tris
}

// earArea is twice the signed area of triangle p, q, r with the sign
// convention of the ear clipper: negative for counter-clockwise (y up).
func earArea(p, q, r *earNode) float64 {
	return (q.y-p.y)*(r.x-q.x) - (q.x-p.x)*(r.y-q.y)
}

func linkRing(pts []Point, start, end int, ccw bool) *earNode {
	var last *earNode
	if ccw == (signedArea(pts[start:end]) > 0) {
		for i := start; i < end; i++ {
			last = insertNode(i, pts[i], last)
		}
	} else {
		for i := end - 1; i >= start; i-- {
			last = insertNode(i, pts[i], last)
		}
	}
	if last != nil && equalNodes(last, last.next) {
		removeNode(last)
		last = last.next
	}
	return last
}

func earcutLinked(ear *earNode, tris *[]Triangle, pass int) {
	if ear == nil {
		return
	}

	stop := ear
	for ear.prev != ear.next {
		prev, next := ear.prev, ear.next

		if isEar(ear) {
			*tris = append(*tris, Triangle{uint32(prev.i), uint32(ear.i), uint32(next.i)}) //nolint:gosec // vertex count fits uint32
			removeNode(ear)
			ear = next.next
			stop = next.next
			continue
		}

		ear = next
		if ear == stop {
			switch pass {
			case 0:
				earcutLinked(filterPoints(ear, nil), tris, 1)
			case 1:
				ear = cureLocalIntersections(filterPoints(ear, nil), tris)
				earcutLinked(ear, tris, 2)
			case 2:
				splitEarcut(ear, tris)
			}
			break
		}
	}
}

// isEar reports whether ear is convex and no other vertex lies inside the
// triangle it forms with its neighbours.
func isEar(ear *earNode) bool {
	a, b, c := ear.prev, ear, ear.next
	if earArea(a, b, c) >= 0 {
		return false
	}

	x0, x1 := math.Min(a.x, math.Min(b.x, c.x)), math.Max(a.x, math.Max(b.x, c.x))
	y0, y1 := math.Min(a.y, math.Min(b.y, c.y)), math.Max(a.y, math.Max(b.y, c.y))

	for p := c.next; p != a; p = p.next {
		if p.x >= x0 && p.x <= x1 && p.y >= y0 && p.y <= y1 &&
			pointInTriangle(a.x, a.y, b.x, b.y, c.x, c.y, p.x, p.y) &&
			earArea(p.prev, p, p.next) >= 0 {
			return false
		}
	}
	return true
}

// cureLocalIntersections clips the small self-intersections filtering can
// leave behind.
func cureLocalIntersections(start *earNode, tris *[]Triangle) *earNode {
	p := start
	for {
		a, b := p.prev, p.next.next
		if !equalNodes(a, b) && intersects(a, p, p.next, b) && locallyInside(a, b) && locallyInside(b, a) {
			*tris = append(*tris, Triangle{uint32(a.i), uint32(p.i), uint32(b.i)}) //nolint:gosec // vertex count fits uint32
			removeNode(p)
			removeNode(p.next)
			p, start = b, b
		}
		p = p.next
		if p == start {
			break
		}
	}
	return filterPoints(p, nil)
}

// splitEarcut splits the ring along a valid diagonal and triangulates both
// halves. It is the last resort when no ear can be found.
func splitEarcut(start *earNode, tris *[]Triangle) {
	a := start
	for {
		for b := a.next.next; b != a.prev; b = b.next {
			if a.i != b.i && isValidDiagonal(a, b) {
				c := splitPolygon(a, b)
				a = filterPoints(a, a.next)
				c = filterPoints(c, c.next)
				earcutLinked(a, tris, 0)
				earcutLinked(c, tris, 0)
				return
			}
		}
		a = a.next
		if a == start {
			return
		}
	}
}

func eliminateHoles(pts []Point, starts []int, outerNode *earNode) *earNode {
	queue := make([]*earNode, 0, len(starts))
	for k, start := range starts {
		end := len(pts)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		list := linkRing(pts, start, end, false)
		if list == nil {
			continue
		}
		if list == list.next {
			list.steiner = true
		}
		queue = append(queue, leftmost(list))
	}

	slices.SortStableFunc(queue, func(a, b *earNode) int { return cmp.Compare(a.x, b.x) })
	for _, hole := range queue {
		outerNode = eliminateHole(hole, outerNode)
	}
	return outerNode
}

func eliminateHole(hole, outerNode *earNode) *earNode {
	bridge := findHoleBridge(hole, outerNode)
	if bridge == nil {
		return outerNode
	}
	bridgeReverse := splitPolygon(bridge, hole)
	filterPoints(bridgeReverse, bridgeReverse.next)
	return filterPoints(bridge, bridge.next)
}

// findHoleBridge finds an outer vertex visible from the hole's leftmost
// vertex, using David Eberly's ray casting approach.
func findHoleBridge(hole, outerNode *earNode) *earNode {
	hx, hy := hole.x, hole.y
	qx := math.Inf(-1)
	var m *earNode

	p := outerNode
	for {
		if hy <= p.y && hy >= p.next.y && p.next.y != p.y {
			x := p.x + (hy-p.y)*(p.next.x-p.x)/(p.next.y-p.y)
			if x <= hx && x > qx {
				qx = x
				m = p.next
				if p.x < p.next.x {
					m = p
				}
				if x == hx {
					return m
				}
			}
		}
		p = p.next
		if p == outerNode {
			break
		}
	}
	if m == nil {
		return nil
	}

	stop := m
	mx, my := m.x, m.y
	tanMin := math.Inf(1)
	p = m
	for {
		ax, cx := qx, hx
		if hy < my {
			ax, cx = hx, qx
		}
		if hx >= p.x && p.x >= mx && hx != p.x && pointInTriangle(ax, hy, mx, my, cx, hy, p.x, p.y) {
			tan := math.Abs(hy-p.y) / (hx - p.x)
			if locallyInside(p, hole) &&
				(tan < tanMin || (tan == tanMin && (p.x > m.x || (p.x == m.x && sectorContainsSector(m, p))))) {
				m = p
				tanMin = tan
			}
		}
		p = p.next
		if p == stop {
			break
		}
	}
	return m
}

func sectorContainsSector(m, p *earNode) bool {
	return earArea(m.prev, m, p.prev) < 0 && earArea(p.next, m, m.next) < 0
}

func leftmost(start *earNode) *earNode {
	best := start
	for p := start.next; p != start; p = p.next {
		if p.x < best.x || (p.x == best.x && p.y < best.y) {
			best = p
		}
	}
	return best
}

func isValidDiagonal(a, b *earNode) bool {
	if a.next.i == b.i || a.prev.i == b.i || intersectsPolygon(a, b) {
		return false
	}
	if locallyInside(a, b) && locallyInside(b, a) && middleInside(a, b) &&
		(earArea(a.prev, a, b.prev) != 0 || earArea(a, b.prev, b) != 0) {
		return true
	}
	return equalNodes(a, b) && earArea(a.prev, a, a.next) > 0 && earArea(b.prev, b, b.next) > 0
}

func pointInTriangle(ax, ay, bx, by, cx, cy, px, py float64) bool {
	return (cx-px)*(ay-py) >= (ax-px)*(cy-py) &&
		(ax-px)*(by-py) >= (bx-px)*(ay-py) &&
		(bx-px)*(cy-py) >= (cx-px)*(by-py)
}

func equalNodes(a, b *earNode) bool {
	return a.x == b.x && a.y == b.y
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// intersects reports whether segments p1q1 and p2q2 intersect.
func intersects(p1, q1, p2, q2 *earNode) bool {
	o1 := sign(earArea(p1, q1, p2))
	o2 := sign(earArea(p1, q1, q2))
	o3 := sign(earArea(p2, q2, p1))
	o4 := sign(earArea(p2, q2, q1))

	if o1 != o2 && o3 != o4 {
		return true
	}
	return (o1 == 0 && onSegment(p1, p2, q1)) ||
		(o2 == 0 && onSegment(p1, q2, q1)) ||
		(o3 == 0 && onSegment(p2, p1, q2)) ||
		(o4 == 0 && onSegment(p2, q1, q2))
}

// onSegment reports whether q lies on segment pr, given the three points
// are collinear.
func onSegment(p, q, r *earNode) bool {
	return q.x <= math.Max(p.x, r.x) && q.x >= math.Min(p.x, r.x) &&
		q.y <= math.Max(p.y, r.y) && q.y >= math.Min(p.y, r.y)
}

func intersectsPolygon(a, b *earNode) bool {
	p := a
	for {
		if p.i != a.i && p.next.i != a.i && p.i != b.i && p.next.i != b.i && intersects(p, p.next, a, b) {
			return true
		}
		p = p.next
		if p == a {
			return false
		}
	}
}

func locallyInside(a, b *earNode) bool {
	if earArea(a.prev, a, a.next) < 0 {
		return earArea(a, b, a.next) >= 0 && earArea(a, a.prev, b) >= 0
	}
	return earArea(a, b, a.prev) < 0 || earArea(a, a.next, b) < 0
}

// middleInside reports whether the midpoint of diagonal ab is inside the
// ring.
func middleInside(a, b *earNode) bool {
	inside := false
	px, py := (a.x+b.x)/2, (a.y+b.y)/2
	p := a
	for {
		if (p.y > py) != (p.next.y > py) && p.next.y != p.y &&
			px < (p.next.x-p.x)*(py-p.y)/(p.next.y-p.y)+p.x {
			inside = !inside
		}
		p = p.next
		if p == a {
			return inside
		}
	}
}

// splitPolygon links a to b with a bridge, duplicating both vertices, and
// returns the start of the second ring.
func splitPolygon(a, b *earNode) *earNode {
	a2 := &earNode{i: a.i, x: a.x, y: a.y}
	b2 := &earNode{i: b.i, x: b.x, y: b.y}
	an, bp := a.next, b.prev

	a.next = b
	b.prev = a

	a2.next = an
	an.prev = a2

	b2.next = a2
	a2.prev = b2

	bp.next = b2
	b2.prev = bp

	return b2
}

func insertNode(i int, pt Point, last *earNode) *earNode {
	p := &earNode{i: i, x: pt.X, y: pt.Y}
	if last == nil {
		p.prev = p
		p.next = p
		return p
	}
	p.next = last.next
	p.prev = last
	last.next.prev = p
	last.next = p
	return p
}

func removeNode(p *earNode) {
	p.next.prev = p.prev
	p.prev.next = p.next
}

// filterPoints removes duplicate and collinear vertices between start and
// end (end defaults to start).
func filterPoints(start, end *earNode) *earNode {
	if start == nil {
		return nil
	}
	if end == nil {
		end = start
	}

	p := start
	for {
		again := false
		if !p.steiner && (equalNodes(p, p.next) || earArea(p.prev, p, p.next) == 0) {
			removeNode(p)
			p = p.prev
			end = p
			if p == p.next {
				break
			}
			again = true
		} else {
			p = p.next
		}
		if !again && p == end {
			break
		}
	}
	return end
}
