package gpuhost

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/shapes"
)

var (
	// ErrNoHALProvider is returned when a device provider does not expose
	// hal.Device and hal.Queue.
	ErrNoHALProvider = errors.New("gpuhost: provider does not expose HAL types")

	// ErrDestroyed is returned by buffer updates after Destroy.
	ErrDestroyed = errors.New("gpuhost: host destroyed")
)

// Option configures a Host.
type Option func(*config)

type config struct {
	format      gputypes.TextureFormat
	sampleCount uint32
}

// WithFormat sets the color target format of both pipelines. It must match
// the render pass the host records into.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithSampleCount sets the MSAA sample count of both pipelines.
func WithSampleCount(n uint32) Option {
	return func(c *config) {
		if n > 0 {
			c.sampleCount = n
		}
	}
}

// Encoder is the part of hal.RenderPassEncoder the host records into.
type Encoder interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// Host implements shapes.Host on a HAL device.
//
// Host is not safe for concurrent use. Buffer updates and RecordDraws must
// run on the thread that owns the device queue.
type Host struct {
	device hal.Device
	queue  hal.Queue
	cfg    config

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	meshPipeline  hal.RenderPipeline
	linePipeline  hal.RenderPipeline
	uniformBuf    hal.Buffer
	bindGroup     hal.BindGroup

	layers  []layerBuffers
	staging []byte
}

// layerBuffers holds the GPU buffers of one layer. Buffers are reused
// across uploads and only grow.
type layerBuffers struct {
	mesh  vertexBuffer
	lines vertexBuffer
	width float64
}

type vertexBuffer struct {
	buf   hal.Buffer
	size  uint64
	count uint32
}

var _ shapes.Host = (*Host)(nil)

// New creates a host on the given device and queue and builds its
// pipelines.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Host, error) {
	cfg := config{
		format:      gputypes.TextureFormatBGRA8Unorm,
		sampleCount: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Host{device: device, queue: queue, cfg: cfg}
	if err := h.init(); err != nil {
		h.Destroy()
		return nil, err
	}
	return h, nil
}

// NewFromProvider creates a host on a device shared by an external
// provider such as a gogpu window. The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// The pipelines target the provider's surface format unless WithFormat
// overrides it.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Host, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}

	opts = append([]Option{WithFormat(provider.SurfaceFormat())}, opts...)
	return New(device, queue, opts...)
}

func (h *Host) init() error { //nolint:funlen // pipeline setup is a single cohesive unit
	code, err := compileShader(shapeShaderWGSL)
	if err != nil {
		return err
	}
	h.shader, err = createShaderModule(h.device, "shapes_shader", code)
	if err != nil {
		return fmt.Errorf("gpuhost: create shader module: %w", err)
	}

	h.uniformLayout, err = h.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "shapes_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpuhost: create uniform layout: %w", err)
	}

	h.pipeLayout, err = h.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "shapes_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{h.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("gpuhost: create pipeline layout: %w", err)
	}

	h.meshPipeline, err = h.createPipeline("shapes_mesh_pipeline", gputypes.PrimitiveTopologyTriangleList)
	if err != nil {
		return err
	}
	h.linePipeline, err = h.createPipeline("shapes_line_pipeline", gputypes.PrimitiveTopologyLineList)
	if err != nil {
		return err
	}

	h.uniformBuf, err = h.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "shapes_viewport_uniform",
		Size:  viewportUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpuhost: create uniform buffer: %w", err)
	}
	h.queue.WriteBuffer(h.uniformBuf, 0, identityViewport.bytes())

	h.bindGroup, err = h.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "shapes_viewport_bind",
		Layout: h.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: h.uniformBuf.NativeHandle(), Offset: 0, Size: viewportUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpuhost: create bind group: %w", err)
	}
	return nil
}

func (h *Host) createPipeline(label string, topology gputypes.PrimitiveTopology) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := h.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: h.pipeLayout,
		Vertex: hal.VertexState{
			Module:     h.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     h.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    h.cfg.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: h.cfg.sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpuhost: create %s: %w", label, err)
	}
	return pipeline, nil
}

// layer returns the buffers of layer i, growing the layer list as needed.
func (h *Host) layer(i int) (*layerBuffers, error) {
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", shapes.ErrInvalidLayer, i)
	}
	for len(h.layers) <= i {
		h.layers = append(h.layers, layerBuffers{})
	}
	return &h.layers[i], nil
}

// UpdateMesh uploads the layer's triangles.
func (h *Host) UpdateMesh(layer int, m shapes.MeshFragment) error {
	if h.device == nil {
		return ErrDestroyed
	}
	lb, err := h.layer(layer)
	if err != nil {
		return err
	}
	var data []byte
	h.staging, data = buildMeshVertices(m, h.staging)
	return h.upload(fmt.Sprintf("shapes_mesh_%d", layer), &lb.mesh, data)
}

// ClearMesh stops drawing the layer's triangles. The buffer is kept for
// the next upload.
func (h *Host) ClearMesh(layer int) error {
	if h.device == nil {
		return ErrDestroyed
	}
	if layer >= 0 && layer < len(h.layers) {
		h.layers[layer].mesh.count = 0
	}
	return nil
}

// UpdateLines uploads the layer's segments.
func (h *Host) UpdateLines(layer int, s shapes.SegmentFragment, width float64) error {
	if h.device == nil {
		return ErrDestroyed
	}
	lb, err := h.layer(layer)
	if err != nil {
		return err
	}
	lb.width = width
	var data []byte
	h.staging, data = buildLineVertices(s, h.staging)
	return h.upload(fmt.Sprintf("shapes_lines_%d", layer), &lb.lines, data)
}

// ClearLines stops drawing the layer's segments.
func (h *Host) ClearLines(layer int) error {
	if h.device == nil {
		return ErrDestroyed
	}
	if layer >= 0 && layer < len(h.layers) {
		h.layers[layer].lines.count = 0
	}
	return nil
}

// upload writes data into vb, replacing the GPU buffer when it is too
// small.
func (h *Host) upload(label string, vb *vertexBuffer, data []byte) error {
	size := uint64(len(data))
	if size == 0 {
		vb.count = 0
		return nil
	}
	if vb.buf == nil || vb.size < size {
		newSize := max(size, 2*vb.size)
		if vb.buf != nil {
			h.device.DestroyBuffer(vb.buf)
			vb.buf, vb.size = nil, 0
		}
		buf, err := h.device.CreateBuffer(&hal.BufferDescriptor{
			Label: label,
			Size:  newSize,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			vb.count = 0
			return fmt.Errorf("gpuhost: create %s: %w", label, err)
		}
		shapes.Logger().Debug("gpuhost: vertex buffer allocated", "label", label, "size", newSize)
		vb.buf, vb.size = buf, newSize
	}
	h.queue.WriteBuffer(vb.buf, 0, data)
	vb.count = uint32(size / vertexStride) //nolint:gosec // vertex count fits uint32
	return nil
}

// SetViewport maps the world rectangle [minX,maxX]x[minY,maxY] onto the
// render target. Until it is called world coordinates are clip
// coordinates.
func (h *Host) SetViewport(minX, minY, maxX, maxY float64) error {
	if h.device == nil {
		return ErrDestroyed
	}
	v, ok := fitViewport(minX, minY, maxX, maxY)
	if !ok {
		return fmt.Errorf("gpuhost: empty viewport [%v,%v]x[%v,%v]", minX, maxX, minY, maxY)
	}
	h.queue.WriteBuffer(h.uniformBuf, 0, v.bytes())
	return nil
}

// RecordDraws records the draw calls of all non-empty layer buffers into
// enc, lower layers first, each layer's mesh before its lines. The render
// pass is owned by the caller.
func (h *Host) RecordDraws(enc Encoder) {
	if h.device == nil || enc == nil {
		return
	}
	bound := false
	for i := range h.layers {
		lb := &h.layers[i]
		for _, d := range []struct {
			pipeline hal.RenderPipeline
			vb       *vertexBuffer
		}{
			{h.meshPipeline, &lb.mesh},
			{h.linePipeline, &lb.lines},
		} {
			if d.vb.count == 0 {
				continue
			}
			enc.SetPipeline(d.pipeline)
			if !bound {
				enc.SetBindGroup(0, h.bindGroup, nil)
				bound = true
			}
			enc.SetVertexBuffer(0, d.vb.buf, 0)
			enc.Draw(d.vb.count, 1, 0, 0)
		}
	}
}

// MeshVertexCount returns the number of triangle vertices the layer draws.
func (h *Host) MeshVertexCount(layer int) uint32 {
	if layer < 0 || layer >= len(h.layers) {
		return 0
	}
	return h.layers[layer].mesh.count
}

// LineVertexCount returns the number of segment points the layer draws.
func (h *Host) LineVertexCount(layer int) uint32 {
	if layer < 0 || layer >= len(h.layers) {
		return 0
	}
	return h.layers[layer].lines.count
}

// StrokeWidth returns the width last passed with the layer's lines.
func (h *Host) StrokeWidth(layer int) float64 {
	if layer < 0 || layer >= len(h.layers) {
		return 0
	}
	return h.layers[layer].width
}

// Destroy releases all GPU resources in reverse creation order. It is safe
// to call more than once. The device itself is not destroyed.
func (h *Host) Destroy() {
	if h.device == nil {
		return
	}
	for i := range h.layers {
		for _, vb := range []*vertexBuffer{&h.layers[i].mesh, &h.layers[i].lines} {
			if vb.buf != nil {
				h.device.DestroyBuffer(vb.buf)
			}
		}
	}
	h.layers = nil
	if h.bindGroup != nil {
		h.device.DestroyBindGroup(h.bindGroup)
		h.bindGroup = nil
	}
	if h.uniformBuf != nil {
		h.device.DestroyBuffer(h.uniformBuf)
		h.uniformBuf = nil
	}
	if h.linePipeline != nil {
		h.device.DestroyRenderPipeline(h.linePipeline)
		h.linePipeline = nil
	}
	if h.meshPipeline != nil {
		h.device.DestroyRenderPipeline(h.meshPipeline)
		h.meshPipeline = nil
	}
	if h.pipeLayout != nil {
		h.device.DestroyPipelineLayout(h.pipeLayout)
		h.pipeLayout = nil
	}
	if h.uniformLayout != nil {
		h.device.DestroyBindGroupLayout(h.uniformLayout)
		h.uniformLayout = nil
	}
	if h.shader != nil {
		h.device.DestroyShaderModule(h.shader)
		h.shader = nil
	}
	h.device = nil
	h.queue = nil
}
