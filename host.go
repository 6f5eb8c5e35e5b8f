package shapes

// Host receives the per-layer buffers of a Collection on every redraw.
// For every layer exactly one mesh call (UpdateMesh or ClearMesh) and one
// line call (UpdateLines or ClearLines) is made, in layer order.
//
// The fragments passed in are owned by the Collection until the next
// redraw; hosts that keep them must not modify them.
type Host interface {
	// UpdateMesh replaces the layer's triangle buffer. m is never empty.
	UpdateMesh(layer int, m MeshFragment) error

	// ClearMesh removes the layer's previous triangle buffer.
	ClearMesh(layer int) error

	// UpdateLines replaces the layer's segment buffer. Points are drawn as
	// independent segments, not as a connected polyline.
	UpdateLines(layer int, s SegmentFragment, width float64) error

	// ClearLines removes the layer's previous segment buffer.
	ClearLines(layer int) error
}

// nopHost discards all buffers.
type nopHost struct{}

func (nopHost) UpdateMesh(int, MeshFragment) error              { return nil }
func (nopHost) ClearMesh(int) error                             { return nil }
func (nopHost) UpdateLines(int, SegmentFragment, float64) error { return nil }
func (nopHost) ClearLines(int) error                            { return nil }
