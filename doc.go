// Package shapes keeps a mutable collection of 2D vector shapes and turns
// it into renderer-ready buffers.
//
// # Overview
//
// Shapes are polygons with holes, open lines and closed rings. Each shape
// is translated once, when it is added: polygon fills become triangle
// meshes, and lines, rings and polygon outlines become independent line
// segments. The collection then merges the cached fragments of all visible
// shapes into a fixed number of depth layers and hands each layer to a Host.
//
// # Quick Start
//
//	c, err := shapes.New(shapes.WithLayers(2), shapes.WithHost(host))
//	if err != nil {
//		return err
//	}
//
//	square := shapes.Polygon{Outer: []shapes.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}
//	id, err := c.Add(square, shapes.Style{Fill: "steelblue", Stroke: "#000"}, false)
//
//	c.SetVisible(id, false) // host receives empty layer 0
//
// # Hosts
//
// The package never rasterizes and never owns GPU resources. A Host
// receives one mesh and one segment list per layer on every redraw. Two
// hosts are provided as sub-packages:
//   - gpuhost: vertex buffers and pipelines on gogpu/wgpu
//   - rasterhost: a software preview on golang.org/x/image/vector
//
// # Layers
//
// Layer 0 draws first. Within a layer the mesh draws before the lines, so
// the host always receives 2*LayerCount buffers per redraw. Empty layers
// are cleared explicitly rather than omitted.
//
// # Triangulation
//
// Two interchangeable strategies are available: TriangulationNative, an ear
// clipper over the ring vertices, and TriangulationExternal, which cuts the
// polygon into horizontal slabs with github.com/ctessum/geom.
package shapes
