package shapes

import (
	"errors"
	"fmt"
)

// Style describes how a shape is drawn.
//
// Stroke and Fill accept anything ParseColor accepts; nil disables that
// part. The zero Style draws nothing, on layer 0, visible.
type Style struct {
	Stroke any
	Fill   any
	Layer  int
	Hidden bool
}

// Collection is a mutable set of shapes that it translates once, on
// insertion, and merges into per-layer buffers on every redraw.
//
// A Collection is not safe for concurrent use.
type Collection struct {
	opts       options
	store      *Store
	translator *Translator
	last       []Layer
}

// New creates an empty collection.
func New(opts ...Option) (*Collection, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	tri, err := o.triangulation.Triangulator()
	if err != nil {
		return nil, err
	}

	return &Collection{
		opts:       o,
		store:      NewStore(),
		translator: NewTranslator(tri),
	}, nil
}

// Add translates g, stores it and returns its ID. Unless deferRedraw is
// set the layer buffers are redrawn afterwards.
//
// An unsupported geometry kind or an out-of-range layer fails the call and
// nothing is stored. A malformed stroke or fill color only drops that part:
// the shape is stored and Add returns its ID together with an error
// wrapping ErrMalformedColor.
func (c *Collection) Add(g Geometry, style Style, deferRedraw bool) (ID, error) {
	r, colorErr, err := c.newRecord(g, style)
	if err != nil {
		return -1, err
	}

	id := c.store.Insert(r)
	if !deferRedraw {
		if err := c.Redraw(); err != nil {
			return id, errors.Join(colorErr, err)
		}
	}
	return id, colorErr
}

// Restyle replaces the colors, layer and visibility of a shape and
// re-translates it. The same rules as Add apply; on failure other than a
// malformed color the shape is left unchanged.
func (c *Collection) Restyle(id ID, style Style, deferRedraw bool) error {
	old, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrShapeNotFound, id)
	}

	r, colorErr, err := c.newRecord(old.Geometry, style)
	if err != nil {
		return err
	}
	r.ID = old.ID
	*old = *r

	if !deferRedraw {
		if err := c.Redraw(); err != nil {
			return errors.Join(colorErr, err)
		}
	}
	return colorErr
}

// newRecord builds a translated record. colorErr reports dropped parts;
// err means the record must not be stored.
func (c *Collection) newRecord(g Geometry, style Style) (r *Record, colorErr, err error) {
	if style.Layer < 0 || style.Layer >= c.opts.layers {
		return nil, nil, fmt.Errorf("%w: layer %d outside [0, %d)", ErrInvalidLayer, style.Layer, c.opts.layers)
	}

	stroke, strokeErr := optionalColor("stroke", style.Stroke)
	fill, fillErr := optionalColor("fill", style.Fill)
	colorErr = errors.Join(strokeErr, fillErr)

	frags, err := c.translator.Translate(g, stroke, fill)
	if err != nil {
		return nil, nil, err
	}

	return &Record{
		Geometry: g,
		Stroke:   stroke,
		Fill:     fill,
		Visible:  !style.Hidden,
		Layer:    style.Layer,
		Mesh:     frags.Mesh,
		Segments: frags.Segments,
	}, colorErr, nil
}

// optionalColor parses v unless it is nil. A malformed value yields a nil
// color and the parse error.
func optionalColor(part string, v any) (*RGBA, error) {
	if v == nil {
		return nil, nil
	}
	c, err := ParseColor(v)
	if err != nil {
		return nil, fmt.Errorf("shapes: %s dropped: %w", part, err)
	}
	return &c, nil
}

// Remove deletes a shape. Removing an unknown ID is not an error.
func (c *Collection) Remove(id ID, deferRedraw bool) error {
	c.store.Remove(id)
	if deferRedraw {
		return nil
	}
	return c.Redraw()
}

// Clear deletes all shapes. IDs handed out before stay retired.
func (c *Collection) Clear(deferRedraw bool) error {
	c.store.Clear()
	if deferRedraw {
		return nil
	}
	return c.Redraw()
}

// SetVisible shows or hides a shape and redraws. The shape keeps its
// cached fragments while hidden.
func (c *Collection) SetVisible(id ID, visible bool) error {
	if !c.store.SetVisible(id, visible) {
		return fmt.Errorf("%w: %d", ErrShapeNotFound, id)
	}
	return c.Redraw()
}

// SetLayers changes the layer count. Shapes on layers that no longer exist
// stay stored but are skipped, with a warning, until they are restyled
// onto a valid layer or the count grows again. The host is redrawn so that
// it receives exactly n layers.
func (c *Collection) SetLayers(n int) error {
	o := c.opts
	o.layers = n
	if err := o.validate(); err != nil {
		return err
	}

	// Clear host layers that are about to disappear.
	var errs []error
	for layer := n; layer < c.opts.layers; layer++ {
		errs = append(errs, c.clearHostLayer(layer)...)
	}
	c.opts = o
	errs = append(errs, c.Redraw())
	return errors.Join(errs...)
}

// Redraw merges all visible shapes and pushes one mesh and one line
// buffer per layer to the host. Empty layers are explicitly cleared.
// Host errors do not stop the remaining layers and are returned joined.
func (c *Collection) Redraw() error {
	layers, skipped := Composite(c.store.All(), c.opts.layers)

	log := Logger()
	for _, s := range skipped {
		log.Warn("shapes: skipping shape", "id", s.ID, "err", s.Err)
	}

	var errs []error
	var triangles, segments int
	for i, l := range layers {
		triangles += len(l.Mesh.Triangles)
		segments += l.Segments.Len()

		if l.Mesh.IsEmpty() {
			errs = appendHostErr(errs, i, "clear mesh", c.opts.host.ClearMesh(i))
		} else {
			errs = appendHostErr(errs, i, "update mesh", c.opts.host.UpdateMesh(i, l.Mesh))
		}
		if l.Segments.IsEmpty() {
			errs = appendHostErr(errs, i, "clear lines", c.opts.host.ClearLines(i))
		} else {
			errs = appendHostErr(errs, i, "update lines", c.opts.host.UpdateLines(i, l.Segments, c.opts.strokeWidth))
		}
	}
	c.last = layers

	log.Debug("shapes: redraw",
		"shapes", c.store.Len(),
		"layers", len(layers),
		"triangles", triangles,
		"segments", segments,
		"skipped", len(skipped))

	return errors.Join(errs...)
}

func (c *Collection) clearHostLayer(layer int) []error {
	var errs []error
	errs = appendHostErr(errs, layer, "clear mesh", c.opts.host.ClearMesh(layer))
	errs = appendHostErr(errs, layer, "clear lines", c.opts.host.ClearLines(layer))
	return errs
}

func appendHostErr(errs []error, layer int, op string, err error) []error {
	if err == nil {
		return errs
	}
	Logger().Warn("shapes: host failed", "layer", layer, "op", op, "err", err)
	return append(errs, fmt.Errorf("shapes: layer %d: %s: %w", layer, op, err))
}

// Get returns a copy of the record for id. The fragment slices are shared
// with the collection and must not be modified.
func (c *Collection) Get(id ID) (Record, bool) {
	r, ok := c.store.Get(id)
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Len returns the number of stored shapes, visible or not.
func (c *Collection) Len() int {
	return c.store.Len()
}

// Layers returns the buffers of the last redraw. It is nil before the
// first redraw.
func (c *Collection) Layers() []Layer {
	return c.last
}

// LayerCount returns the configured number of layers.
func (c *Collection) LayerCount() int {
	return c.opts.layers
}

// StrokeWidth returns the configured stroke width.
func (c *Collection) StrokeWidth() float64 {
	return c.opts.strokeWidth
}
