// Package geoload adds GeoJSON features to a shapes.Collection.
//
// Feature styles are read from simplestyle properties: "stroke", "fill",
// "stroke-opacity", "fill-opacity", plus "layer" and "visible". Properties a
// feature lacks fall back to the loader's default style.
package geoload

import (
	"errors"
	"fmt"
	"io"
	"os"

	geojson "github.com/paulmach/go.geojson"

	"github.com/gogpu/shapes"
)

// Option configures a load.
type Option func(*loader)

// WithDefaultStyle sets the style for properties a feature does not set.
func WithDefaultStyle(s shapes.Style) Option {
	return func(l *loader) {
		l.style = s
	}
}

// WithLayerProperty reads the layer index from the named property instead
// of "layer".
func WithLayerProperty(name string) Option {
	return func(l *loader) {
		l.layerKey = name
	}
}

type loader struct {
	style    shapes.Style
	layerKey string
}

// LoadFile reads a GeoJSON FeatureCollection file into c.
func LoadFile(c *shapes.Collection, path string, opts ...Option) ([]shapes.ID, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Load(c, fp, opts...)
}

// Load reads a GeoJSON FeatureCollection and adds every feature to c with
// deferred redraw, then redraws once. Multi geometries become one shape per
// part; closed LineStrings become rings. Features that cannot be added are
// skipped and their errors returned joined, after the IDs of all shapes
// that were added.
func Load(c *shapes.Collection, r io.Reader, opts ...Option) ([]shapes.ID, error) {
	l := &loader{layerKey: "layer"}
	for _, opt := range opts {
		opt(l)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geoload: %w", err)
	}

	var (
		ids  []shapes.ID
		errs []error
	)
	for i, f := range fc.Features {
		style, err := l.featureStyle(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("geoload: feature %d: %w", i, err))
			continue
		}
		geoms, err := Geometries(f.Geometry)
		if err != nil {
			errs = append(errs, fmt.Errorf("geoload: feature %d: %w", i, err))
			continue
		}
		for _, g := range geoms {
			id, err := c.Add(g, style, true)
			if err != nil {
				errs = append(errs, fmt.Errorf("geoload: feature %d: %w", i, err))
				// Malformed colors still insert the shape.
				if !errors.Is(err, shapes.ErrMalformedColor) {
					continue
				}
			}
			ids = append(ids, id)
		}
	}

	shapes.Logger().Debug("geoload: loaded",
		"features", len(fc.Features),
		"shapes", len(ids),
		"errors", len(errs))

	if err := c.Redraw(); err != nil {
		errs = append(errs, err)
	}
	return ids, errors.Join(errs...)
}

// featureStyle merges the feature's properties over the default style.
func (l *loader) featureStyle(f *geojson.Feature) (shapes.Style, error) {
	s := l.style
	props := f.Properties

	if v, ok := props["stroke"]; ok {
		s.Stroke = v
	}
	if v, ok := props["fill"]; ok {
		s.Fill = v
	}

	var err error
	if s.Stroke, err = applyOpacity(s.Stroke, props, "stroke-opacity"); err != nil {
		return s, err
	}
	if s.Fill, err = applyOpacity(s.Fill, props, "fill-opacity"); err != nil {
		return s, err
	}

	if v, ok := props[l.layerKey]; ok {
		n, ok := v.(float64)
		if !ok || n != float64(int(n)) {
			return s, fmt.Errorf("%w: %s property %v is not an integer", shapes.ErrInvalidLayer, l.layerKey, v)
		}
		s.Layer = int(n)
	}
	if v, ok := props["visible"]; ok {
		b, ok := v.(bool)
		if !ok {
			return s, fmt.Errorf("geoload: visible property %v is not a boolean", v)
		}
		s.Hidden = !b
	}
	return s, nil
}

// applyOpacity scales the alpha of color c by the numeric property key.
// A malformed color is passed through so that the collection reports it.
func applyOpacity(c any, props map[string]any, key string) (any, error) {
	v, ok := props[key]
	if !ok || c == nil {
		return c, nil
	}
	opacity, ok := v.(float64)
	if !ok || opacity < 0 || opacity > 1 {
		return c, fmt.Errorf("geoload: %s %v outside [0, 1]", key, v)
	}
	rgba, err := shapes.ParseColor(c)
	if err != nil {
		return c, nil
	}
	rgba.A *= opacity
	return rgba, nil
}

// Geometries converts a GeoJSON geometry into collection geometries.
// Points and MultiPoints are returned as shapes.PointGeometry, which the
// collection rejects.
func Geometries(g *geojson.Geometry) ([]shapes.Geometry, error) {
	if g == nil {
		return nil, errors.New("geoload: feature has no geometry")
	}

	switch g.Type {
	case geojson.GeometryPoint:
		p, err := point(g.Point)
		if err != nil {
			return nil, err
		}
		return []shapes.Geometry{shapes.PointGeometry(p)}, nil
	case geojson.GeometryMultiPoint:
		out := make([]shapes.Geometry, 0, len(g.MultiPoint))
		for _, c := range g.MultiPoint {
			p, err := point(c)
			if err != nil {
				return nil, err
			}
			out = append(out, shapes.PointGeometry(p))
		}
		return out, nil
	case geojson.GeometryLineString:
		l, err := lineString(g.LineString)
		if err != nil {
			return nil, err
		}
		return []shapes.Geometry{l}, nil
	case geojson.GeometryMultiLineString:
		out := make([]shapes.Geometry, 0, len(g.MultiLineString))
		for _, ls := range g.MultiLineString {
			l, err := lineString(ls)
			if err != nil {
				return nil, err
			}
			out = append(out, l)
		}
		return out, nil
	case geojson.GeometryPolygon:
		p, err := polygon(g.Polygon)
		if err != nil {
			return nil, err
		}
		return []shapes.Geometry{p}, nil
	case geojson.GeometryMultiPolygon:
		out := make([]shapes.Geometry, 0, len(g.MultiPolygon))
		for _, rings := range g.MultiPolygon {
			p, err := polygon(rings)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	case geojson.GeometryCollection:
		var out []shapes.Geometry
		for _, child := range g.Geometries {
			geoms, err := Geometries(child)
			if err != nil {
				return nil, err
			}
			out = append(out, geoms...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", shapes.ErrUnsupportedGeometryKind, g.Type)
	}
}

func point(c []float64) (shapes.Point, error) {
	if len(c) < 2 {
		return shapes.Point{}, fmt.Errorf("geoload: position %v has fewer than two coordinates", c)
	}
	return shapes.Pt(c[0], c[1]), nil
}

func points(coords [][]float64) ([]shapes.Point, error) {
	out := make([]shapes.Point, len(coords))
	for i, c := range coords {
		p, err := point(c)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// lineString returns a Ring when the line ends where it starts.
func lineString(coords [][]float64) (shapes.Geometry, error) {
	pts, err := points(coords)
	if err != nil {
		return nil, err
	}
	if n := len(pts); n > 3 && pts[0] == pts[n-1] {
		return shapes.Ring(pts), nil
	}
	return shapes.Line(pts), nil
}

func polygon(rings [][][]float64) (shapes.Polygon, error) {
	if len(rings) == 0 {
		return shapes.Polygon{}, nil
	}
	outer, err := points(rings[0])
	if err != nil {
		return shapes.Polygon{}, err
	}
	p := shapes.Polygon{Outer: outer}
	for _, r := range rings[1:] {
		hole, err := points(r)
		if err != nil {
			return shapes.Polygon{}, err
		}
		p.Holes = append(p.Holes, hole)
	}
	return p, nil
}
