package shapes

import "fmt"

// Default configuration values.
const (
	// DefaultLayers is the default layer count. Each layer costs the host
	// one mesh buffer and one line buffer.
	DefaultLayers = 3

	// DefaultStrokeWidth is the default width of segment rendering.
	DefaultStrokeWidth = 1.0
)

// Option configures a Collection during creation.
//
// Example:
//
//	c, err := shapes.New(
//	    shapes.WithLayers(4),
//	    shapes.WithTriangulation(shapes.TriangulationExternal),
//	    shapes.WithHost(host),
//	)
type Option func(*options)

// options holds the Collection configuration.
type options struct {
	layers        int
	strokeWidth   float64
	triangulation Triangulation
	host          Host
}

// defaultOptions returns the default collection options.
func defaultOptions() options {
	return options{
		layers:        DefaultLayers,
		strokeWidth:   DefaultStrokeWidth,
		triangulation: TriangulationNative,
		host:          nopHost{},
	}
}

func (o options) validate() error {
	if o.layers <= 0 {
		return fmt.Errorf("%w: layer count %d must be positive", ErrInvalidConfig, o.layers)
	}
	if !(o.strokeWidth > 0) {
		return fmt.Errorf("%w: stroke width %v must be positive", ErrInvalidConfig, o.strokeWidth)
	}
	return nil
}

// WithLayers sets the number of depth layers.
func WithLayers(n int) Option {
	return func(o *options) {
		o.layers = n
	}
}

// WithStrokeWidth sets the width passed to the host with every line
// buffer.
func WithStrokeWidth(w float64) Option {
	return func(o *options) {
		o.strokeWidth = w
	}
}

// WithTriangulation selects the polygon triangulation backend.
func WithTriangulation(t Triangulation) Option {
	return func(o *options) {
		o.triangulation = t
	}
}

// WithHost sets the rendering host that receives layer buffers on every
// redraw. A nil host discards them.
func WithHost(h Host) Option {
	return func(o *options) {
		if h == nil {
			h = nopHost{}
		}
		o.host = h
	}
}
