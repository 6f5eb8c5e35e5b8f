package gpuhost

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/shapes"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newTestHost(t *testing.T) *Host {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	h, err := New(device, queue)
	if err != nil {
		cleanup()
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		h.Destroy()
		cleanup()
	})
	return h
}

// drawCall is one draw recorded by fakeEncoder.
type drawCall struct {
	pipeline hal.RenderPipeline
	buffer   hal.Buffer
	count    uint32
}

type fakeEncoder struct {
	pipeline  hal.RenderPipeline
	buffer    hal.Buffer
	bindCalls int
	draws     []drawCall
}

func (e *fakeEncoder) SetPipeline(p hal.RenderPipeline) { e.pipeline = p }

func (e *fakeEncoder) SetBindGroup(uint32, hal.BindGroup, []uint32) { e.bindCalls++ }

func (e *fakeEncoder) SetVertexBuffer(_ uint32, b hal.Buffer, _ uint64) { e.buffer = b }

func (e *fakeEncoder) Draw(count, _, _, _ uint32) {
	e.draws = append(e.draws, drawCall{e.pipeline, e.buffer, count})
}

var (
	red   = shapes.RGBA{R: 1, A: 1}
	green = shapes.RGBA{G: 1, A: 1}
)

func squareMesh() shapes.MeshFragment {
	return shapes.MeshFragment{
		Vertices:  []shapes.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		Triangles: []shapes.Triangle{{0, 1, 2}, {0, 2, 3}},
		Colors:    []shapes.RGBA{red, red},
	}
}

func TestHostNew(t *testing.T) {
	h := newTestHost(t)
	if h.meshPipeline == nil || h.linePipeline == nil {
		t.Error("pipelines not created")
	}
	if h.bindGroup == nil || h.uniformBuf == nil {
		t.Error("viewport uniform not created")
	}
}

func TestHostUpdateAndClear(t *testing.T) {
	h := newTestHost(t)

	if err := h.UpdateMesh(1, squareMesh()); err != nil {
		t.Fatalf("UpdateMesh failed: %v", err)
	}
	// Two triangles, flattened.
	if got := h.MeshVertexCount(1); got != 6 {
		t.Errorf("MeshVertexCount(1) = %d, want 6", got)
	}
	if got := h.MeshVertexCount(0); got != 0 {
		t.Errorf("MeshVertexCount(0) = %d, want 0", got)
	}

	segs := shapes.SegmentFragment{
		Points: []shapes.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
		Colors: []shapes.RGBA{green, green},
	}
	if err := h.UpdateLines(1, segs, 2); err != nil {
		t.Fatalf("UpdateLines failed: %v", err)
	}
	if got := h.LineVertexCount(1); got != 2 {
		t.Errorf("LineVertexCount(1) = %d, want 2", got)
	}
	if got := h.StrokeWidth(1); got != 2 {
		t.Errorf("StrokeWidth(1) = %v, want 2", got)
	}

	buf := h.layers[1].mesh.buf
	if err := h.ClearMesh(1); err != nil {
		t.Fatal(err)
	}
	if err := h.ClearLines(1); err != nil {
		t.Fatal(err)
	}
	if h.MeshVertexCount(1) != 0 || h.LineVertexCount(1) != 0 {
		t.Error("layer 1 still draws after clearing")
	}

	// The buffer is reused by the next upload of the same size.
	if err := h.UpdateMesh(1, squareMesh()); err != nil {
		t.Fatal(err)
	}
	if h.layers[1].mesh.buf != buf {
		t.Error("mesh buffer reallocated for an upload that fits")
	}

	// A larger upload at least doubles the buffer.
	oldSize := h.layers[1].mesh.size
	big := squareMesh()
	big.Triangles = append(big.Triangles, shapes.Triangle{1, 2, 3})
	big.Colors = append(big.Colors, red)
	if err := h.UpdateMesh(1, big); err != nil {
		t.Fatal(err)
	}
	if got := h.layers[1].mesh.size; got < 2*oldSize {
		t.Errorf("mesh buffer grew from %d to %d bytes, want at least %d", oldSize, got, 2*oldSize)
	}

	// Clearing a layer that never existed is a no-op.
	if err := h.ClearMesh(9); err != nil {
		t.Errorf("ClearMesh(9) = %v", err)
	}
	if err := h.UpdateMesh(-1, squareMesh()); !errors.Is(err, shapes.ErrInvalidLayer) {
		t.Errorf("UpdateMesh(-1) error = %v, want ErrInvalidLayer", err)
	}
}

func TestHostRecordDrawsOrder(t *testing.T) {
	h := newTestHost(t)

	segs := shapes.SegmentFragment{
		Points: []shapes.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 0}},
		Colors: []shapes.RGBA{green, green, green, green},
	}
	if err := h.UpdateLines(0, segs, 1); err != nil {
		t.Fatal(err)
	}
	if err := h.UpdateMesh(2, squareMesh()); err != nil {
		t.Fatal(err)
	}
	if err := h.UpdateLines(2, segs, 1); err != nil {
		t.Fatal(err)
	}

	enc := &fakeEncoder{}
	h.RecordDraws(enc)

	want := []drawCall{
		{h.linePipeline, h.layers[0].lines.buf, 4},
		{h.meshPipeline, h.layers[2].mesh.buf, 6},
		{h.linePipeline, h.layers[2].lines.buf, 4},
	}
	if len(enc.draws) != len(want) {
		t.Fatalf("recorded %d draws, want %d", len(enc.draws), len(want))
	}
	for i := range want {
		if enc.draws[i] != want[i] {
			t.Errorf("draw %d = %+v, want %+v", i, enc.draws[i], want[i])
		}
	}
	if enc.bindCalls != 1 {
		t.Errorf("bind group set %d times, want 1", enc.bindCalls)
	}
}

func TestHostRecordDrawsEmpty(t *testing.T) {
	h := newTestHost(t)

	enc := &fakeEncoder{}
	h.RecordDraws(enc)
	if len(enc.draws) != 0 {
		t.Errorf("recorded %d draws for an empty host", len(enc.draws))
	}

	// A nil encoder is a no-op.
	h.RecordDraws(nil)
}

func TestHostWithCollection(t *testing.T) {
	h := newTestHost(t)

	c, err := shapes.New(shapes.WithHost(h), shapes.WithLayers(2))
	if err != nil {
		t.Fatal(err)
	}
	square := shapes.Polygon{Outer: []shapes.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}}
	id, err := c.Add(square, shapes.Style{Fill: "red", Stroke: "black", Layer: 1}, false)
	if err != nil {
		t.Fatal(err)
	}

	if got := h.MeshVertexCount(1); got != 6 {
		t.Errorf("MeshVertexCount(1) = %d, want 6", got)
	}
	if got := h.LineVertexCount(1); got != 8 {
		t.Errorf("LineVertexCount(1) = %d, want 8", got)
	}

	if err := c.Remove(id, false); err != nil {
		t.Fatal(err)
	}
	if h.MeshVertexCount(1) != 0 || h.LineVertexCount(1) != 0 {
		t.Error("removed shape still drawn")
	}
}

func TestHostDestroy(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	h, err := New(device, queue)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.UpdateMesh(0, squareMesh()); err != nil {
		t.Fatal(err)
	}

	h.Destroy()
	if h.meshPipeline != nil || h.shader != nil || h.layers != nil {
		t.Error("resources not released")
	}
	if err := h.UpdateMesh(0, squareMesh()); !errors.Is(err, ErrDestroyed) {
		t.Errorf("UpdateMesh after Destroy = %v, want ErrDestroyed", err)
	}

	// Double-destroy should be safe.
	h.Destroy()
}

func TestHostSetViewport(t *testing.T) {
	h := newTestHost(t)
	if err := h.SetViewport(0, 0, 10, 20); err != nil {
		t.Fatal(err)
	}
	if err := h.SetViewport(5, 5, 5, 10); err == nil {
		t.Error("SetViewport with zero width succeeded")
	}
}

func TestFitViewport(t *testing.T) {
	v, ok := fitViewport(-10, 0, 10, 4)
	if !ok {
		t.Fatal("fitViewport failed")
	}
	// Corners map to clip space corners.
	for _, c := range []struct{ x, y, wantX, wantY float64 }{
		{-10, 0, -1, -1},
		{10, 4, 1, 1},
		{0, 2, 0, 0},
	} {
		gx := c.x*float64(v.scaleX) + float64(v.offsetX)
		gy := c.y*float64(v.scaleY) + float64(v.offsetY)
		if math.Abs(gx-c.wantX) > 1e-6 || math.Abs(gy-c.wantY) > 1e-6 {
			t.Errorf("(%v,%v) -> (%v,%v), want (%v,%v)", c.x, c.y, gx, gy, c.wantX, c.wantY)
		}
	}
	if _, ok := fitViewport(0, 0, 0, 1); ok {
		t.Error("fitViewport accepted a zero width")
	}
}

func TestBuildMeshVertices(t *testing.T) {
	_, data := buildMeshVertices(squareMesh(), nil)
	if len(data) != 6*vertexStride {
		t.Fatalf("len(data) = %d, want %d", len(data), 6*vertexStride)
	}

	// Third vertex of the first triangle is (1,1), red.
	v := data[2*vertexStride:]
	px := math.Float32frombits(binary.LittleEndian.Uint32(v[0:4]))
	py := math.Float32frombits(binary.LittleEndian.Uint32(v[4:8]))
	r := math.Float32frombits(binary.LittleEndian.Uint32(v[8:12]))
	a := math.Float32frombits(binary.LittleEndian.Uint32(v[20:24]))
	if px != 1 || py != 1 {
		t.Errorf("position = (%v,%v), want (1,1)", px, py)
	}
	if r != 1 || a != 1 {
		t.Errorf("color r=%v a=%v, want 1, 1", r, a)
	}
}

func TestVertexLayout(t *testing.T) {
	layout := vertexLayout()
	if len(layout) != 1 {
		t.Fatalf("expected 1 buffer layout, got %d", len(layout))
	}
	vbl := layout[0]
	if vbl.ArrayStride != vertexStride {
		t.Errorf("expected stride %d, got %d", vertexStride, vbl.ArrayStride)
	}
	if len(vbl.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(vbl.Attributes))
	}
	if vbl.Attributes[1].Offset != 8 || vbl.Attributes[1].ShaderLocation != 1 {
		t.Errorf("color attribute: offset=%d location=%d, expected offset=8 location=1",
			vbl.Attributes[1].Offset, vbl.Attributes[1].ShaderLocation)
	}
}

func TestCompileShader(t *testing.T) {
	code, err := compileShader(shapeShaderWGSL)
	if err != nil {
		t.Fatalf("compileShader failed: %v", err)
	}
	// SPIR-V magic number.
	if len(code) == 0 || code[0] != 0x07230203 {
		t.Errorf("not a SPIR-V module: %d words", len(code))
	}
}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (mockProvider) Device() gpucontext.Device             { return nil }
func (mockProvider) Queue() gpucontext.Queue               { return nil }
func (mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }
func (mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock"}
}

// halMockProvider adds HAL access on a noop device.
type halMockProvider struct {
	mockProvider
	device hal.Device
	queue  hal.Queue
}

func (p halMockProvider) HalDevice() any { return p.device }
func (p halMockProvider) HalQueue() any  { return p.queue }

func TestNewFromProvider(t *testing.T) {
	if _, err := NewFromProvider(mockProvider{}); !errors.Is(err, ErrNoHALProvider) {
		t.Errorf("NewFromProvider(no HAL) error = %v, want ErrNoHALProvider", err)
	}

	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	h, err := NewFromProvider(halMockProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("NewFromProvider failed: %v", err)
	}
	defer h.Destroy()
	if h.cfg.format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v, want the provider's surface format", h.cfg.format)
	}
}
