// Package gpuhost draws a shapes.Collection with the gogpu/wgpu HAL.
//
// A Host keeps one triangle vertex buffer and one line vertex buffer per
// layer and re-uploads them when the collection redraws. RecordDraws records
// the draw calls into a render pass owned by the caller, layers bottom to
// top, the mesh of each layer before its lines.
//
//	h, err := gpuhost.NewFromProvider(app.GPUContextProvider())
//	if err != nil {
//	    return err
//	}
//	defer h.Destroy()
//
//	c, err := shapes.New(shapes.WithHost(h))
//	...
//	h.SetViewport(0, 0, 100, 100)
//	h.RecordDraws(renderPass)
//
// Meshes are uploaded as non-indexed triangle lists so that every triangle
// keeps its own flat color. Lines are drawn with the line-list topology,
// which WebGPU rasterizes one pixel wide; the stroke width is recorded per
// layer but not applied.
package gpuhost
