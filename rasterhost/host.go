package rasterhost

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/shapes"
)

// layer holds the buffers of one layer as last received.
type layer struct {
	mesh  shapes.MeshFragment
	lines shapes.SegmentFragment
	width float64
}

// Host implements shapes.Host by keeping the latest buffers per layer and
// rasterizing them on Render.
type Host struct {
	layers []layer

	viewport    [4]float64 // minX, minY, maxX, maxY
	hasViewport bool

	z *vector.Rasterizer
}

var _ shapes.Host = (*Host)(nil)

// New creates an empty host.
func New() *Host {
	return &Host{z: vector.NewRasterizer(0, 0)}
}

func (h *Host) layer(i int) (*layer, error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", shapes.ErrInvalidLayer, i)
	}
	for len(h.layers) <= i {
		h.layers = append(h.layers, layer{})
	}
	return &h.layers[i], nil
}

// UpdateMesh implements shapes.Host.
func (h *Host) UpdateMesh(i int, m shapes.MeshFragment) error {
	l, err := h.layer(i)
	if err != nil {
		return err
	}
	l.mesh = m
	return nil
}

// ClearMesh implements shapes.Host.
func (h *Host) ClearMesh(i int) error {
	if i >= 0 && i < len(h.layers) {
		h.layers[i].mesh = shapes.MeshFragment{}
	}
	return nil
}

// UpdateLines implements shapes.Host. width is in pixels.
func (h *Host) UpdateLines(i int, s shapes.SegmentFragment, width float64) error {
	l, err := h.layer(i)
	if err != nil {
		return err
	}
	l.lines = s
	l.width = width
	return nil
}

// ClearLines implements shapes.Host.
func (h *Host) ClearLines(i int) error {
	if i >= 0 && i < len(h.layers) {
		h.layers[i].lines = shapes.SegmentFragment{}
	}
	return nil
}

// SetViewport fixes the world rectangle Render maps onto the image. By
// default Render fits the bounds of all buffered geometry.
func (h *Host) SetViewport(minX, minY, maxX, maxY float64) error {
	if !(maxX > minX) || !(maxY > minY) {
		return fmt.Errorf("rasterhost: empty viewport [%v,%v]x[%v,%v]", minX, maxX, minY, maxY)
	}
	h.viewport = [4]float64{minX, minY, maxX, maxY}
	h.hasViewport = true
	return nil
}

// Bounds returns the bounding box of all buffered geometry. ok is false
// when nothing is buffered.
func (h *Host) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	extend := func(pts []shapes.Point) {
		for _, p := range pts {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	for i := range h.layers {
		if !h.layers[i].mesh.IsEmpty() {
			extend(h.layers[i].mesh.Vertices)
		}
		extend(h.layers[i].lines.Points)
	}
	return minX, minY, maxX, maxY, minX <= maxX && minY <= maxY
}

// transform maps world coordinates to pixel coordinates, y down.
type transform struct {
	scale, tx, ty float64
}

func (t transform) apply(p shapes.Point) (float32, float32) {
	return float32(p.X*t.scale + t.tx), float32(t.ty - p.Y*t.scale)
}

// fit returns the uniform-scale transform that centers the world
// rectangle in a w x h image.
func fit(vp [4]float64, w, h int) transform {
	ww, wh := vp[2]-vp[0], vp[3]-vp[1]
	if ww <= 0 {
		ww = 1
	}
	if wh <= 0 {
		wh = 1
	}
	scale := math.Min(float64(w)/ww, float64(h)/wh)
	cx, cy := (vp[0]+vp[2])/2, (vp[1]+vp[3])/2
	return transform{
		scale: scale,
		tx:    float64(w)/2 - cx*scale,
		ty:    float64(h)/2 + cy*scale,
	}
}

// Render paints all buffered layers onto dst, lowest layer first. dst is
// not cleared.
func (h *Host) Render(dst *image.RGBA) {
	vp := h.viewport
	if !h.hasViewport {
		minX, minY, maxX, maxY, ok := h.Bounds()
		if !ok {
			return
		}
		vp = [4]float64{minX, minY, maxX, maxY}
	}
	b := dst.Bounds()
	t := fit(vp, b.Dx(), b.Dy())

	var triangles, segments int
	for i := range h.layers {
		l := &h.layers[i]
		triangles += h.fillMesh(dst, t, l.mesh)
		segments += h.strokeSegments(dst, t, l.lines, l.width)
	}
	shapes.Logger().Debug("rasterhost: render",
		"layers", len(h.layers),
		"triangles", triangles,
		"segments", segments)
}

// fillMesh rasterizes runs of same-colored triangles in one pass each.
func (h *Host) fillMesh(dst *image.RGBA, t transform, m shapes.MeshFragment) int {
	if m.IsEmpty() || m.Validate() != nil {
		return 0
	}
	for start := 0; start < len(m.Triangles); {
		end := start + 1
		for end < len(m.Triangles) && m.Colors[end] == m.Colors[start] {
			end++
		}
		h.begin(dst)
		for _, tri := range m.Triangles[start:end] {
			a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
			h.addPolygon(t, a, b, c)
		}
		h.paint(dst, m.Colors[start])
		start = end
	}
	return len(m.Triangles)
}

// strokeSegments draws every segment as a quad width pixels wide, with one
// rasterizer pass per run of same-colored segments.
func (h *Host) strokeSegments(dst *image.RGBA, t transform, s shapes.SegmentFragment, width float64) int {
	if s.IsEmpty() || s.Validate() != nil {
		return 0
	}
	if width <= 0 {
		width = shapes.DefaultStrokeWidth
	}
	half := width / 2 / t.scale
	n := s.Len()
	for start := 0; start < n; {
		c := s.Colors[2*start]
		end := start + 1
		for end < n && s.Colors[2*end] == c {
			end++
		}
		h.begin(dst)
		for i := start; i < end; i++ {
			p, q := s.Points[2*i], s.Points[2*i+1]
			dx, dy := q.X-p.X, q.Y-p.Y
			length := math.Hypot(dx, dy)
			if length == 0 {
				continue
			}
			nx, ny := -dy/length*half, dx/length*half
			h.addPolygon(t,
				shapes.Pt(p.X+nx, p.Y+ny),
				shapes.Pt(p.X-nx, p.Y-ny),
				shapes.Pt(q.X-nx, q.Y-ny),
				shapes.Pt(q.X+nx, q.Y+ny))
		}
		h.paint(dst, c)
		start = end
	}
	return n
}

func (h *Host) begin(dst *image.RGBA) {
	b := dst.Bounds()
	h.z.Reset(b.Dx(), b.Dy())
	h.z.DrawOp = draw.Over
}

// addPolygon adds a closed convex polygon with a consistent winding, so
// that coverage of adjacent polygons adds up along shared edges.
func (h *Host) addPolygon(t transform, pts ...shapes.Point) {
	if signedArea(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	x, y := t.apply(pts[0])
	h.z.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = t.apply(p)
		h.z.LineTo(x, y)
	}
	h.z.ClosePath()
}

func (h *Host) paint(dst *image.RGBA, c shapes.RGBA) {
	b := dst.Bounds()
	h.z.Draw(dst, b, image.NewUniform(c.Color()), image.Point{})
}

func signedArea(pts []shapes.Point) float64 {
	var sum float64
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		sum += pts[j].X*pts[i].Y - pts[i].X*pts[j].Y
	}
	return sum / 2
}

// Image renders into a new w x h image filled with bg.
func (h *Host) Image(w, hgt int, bg color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, hgt))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	h.Render(dst)
	return dst
}
