// Package rasterhost is a software shapes.Host that paints the layer
// buffers of a collection into an image with golang.org/x/image/vector.
//
// It is meant for previews, tests and headless export; gpuhost is the
// interactive renderer. Layers are composited in ascending order with
// source-over blending, each layer's triangles before its segments.
package rasterhost
