package shapes

import "errors"

var (
	// ErrUnsupportedGeometryKind is returned when a geometry is not a line,
	// ring or polygon. The shape is not inserted.
	ErrUnsupportedGeometryKind = errors.New("shapes: unsupported geometry kind")

	// ErrInvalidLayer is returned when a layer index is outside
	// [0, layer count). The shape is not inserted.
	ErrInvalidLayer = errors.New("shapes: invalid layer")

	// ErrMalformedColor is returned when a color value cannot be converted
	// to RGBA. Only the affected fill or stroke part is dropped.
	ErrMalformedColor = errors.New("shapes: malformed color")

	// ErrShapeNotFound is returned by operations that require an existing id.
	ErrShapeNotFound = errors.New("shapes: shape not found")

	// ErrInvalidConfig is returned for invalid construction options.
	ErrInvalidConfig = errors.New("shapes: invalid config")

	// errIndexOutOfRange marks a fragment whose triangles reference
	// vertices it does not have.
	errIndexOutOfRange = errors.New("shapes: triangle index out of range")

	// errColorCount marks a fragment whose color slice does not match its
	// primitives.
	errColorCount = errors.New("shapes: color count mismatch")
)
