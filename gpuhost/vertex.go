package gpuhost

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/shapes"
)

// vertexStride is the byte stride per vertex of both pipelines.
// Layout per vertex:
//
//	position (vec2<f32>) = 8 bytes  (location 0)
//	color    (vec4<f32>) = 16 bytes (location 1)
//
// Total = 24 bytes per vertex.
const vertexStride = 24

func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1}, // color
			},
		},
	}
}

// buildMeshVertices expands an indexed mesh into a triangle list with the
// triangle's color on all three of its vertices. It returns the (possibly
// reallocated) staging buffer and the valid vertex data.
func buildMeshVertices(m shapes.MeshFragment, staging []byte) ([]byte, []byte) {
	needed := len(m.Triangles) * 3 * vertexStride
	staging = grow(staging, needed)

	offset := 0
	for i, tri := range m.Triangles {
		color := m.Colors[i].Float32()
		for _, idx := range tri {
			p := m.Vertices[idx]
			writeVertex(staging[offset:], float32(p.X), float32(p.Y), color)
			offset += vertexStride
		}
	}
	return staging, staging[:offset]
}

// buildLineVertices writes one vertex per segment point.
func buildLineVertices(s shapes.SegmentFragment, staging []byte) ([]byte, []byte) {
	needed := len(s.Points) * vertexStride
	staging = grow(staging, needed)

	offset := 0
	for i, p := range s.Points {
		writeVertex(staging[offset:], float32(p.X), float32(p.Y), s.Colors[i].Float32())
		offset += vertexStride
	}
	return staging, staging[:offset]
}

func grow(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// writeVertex writes a single vertex into the buffer.
func writeVertex(buf []byte, px, py float32, color [4]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(px))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(py))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(color[0]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(color[1]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(color[2]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(color[3]))
}

// viewportUniformSize is the byte size of the Viewport uniform: scale and
// offset, two vec2<f32>.
const viewportUniformSize = 16

// viewport maps world coordinates to clip space.
type viewport struct {
	scaleX, scaleY   float32
	offsetX, offsetY float32
}

var identityViewport = viewport{scaleX: 1, scaleY: 1}

// fitViewport maps the world rectangle [minX,maxX]x[minY,maxY] onto
// clip space [-1,1]x[-1,1], y up.
func fitViewport(minX, minY, maxX, maxY float64) (viewport, bool) {
	w, h := maxX-minX, maxY-minY
	if !(w > 0) || !(h > 0) {
		return viewport{}, false
	}
	sx, sy := 2/w, 2/h
	return viewport{
		scaleX:  float32(sx),
		scaleY:  float32(sy),
		offsetX: float32(-1 - minX*sx),
		offsetY: float32(-1 - minY*sy),
	}, true
}

func (v viewport) bytes() []byte {
	buf := make([]byte, viewportUniformSize)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.scaleX))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.scaleY))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.offsetX))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.offsetY))
	return buf
}
