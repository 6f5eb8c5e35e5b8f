package shapes

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the collection options.
//
//	layers: 4
//	stroke_width: 1.5
//	triangulation: external
//	style:
//	  stroke: "#202020"
//	  fill: [0.2, 0.4, 0.8, 1]
//	  layer: 1
//
// Zero fields keep their defaults.
type Config struct {
	Layers        int         `yaml:"layers"`
	StrokeWidth   float64     `yaml:"stroke_width"`
	Triangulation string      `yaml:"triangulation"`
	Style         StyleConfig `yaml:"style"`
}

// StyleConfig is the default style for shapes loaded without one, such as
// GeoJSON features without stroke or fill properties.
type StyleConfig struct {
	Stroke any  `yaml:"stroke"`
	Fill   any  `yaml:"fill"`
	Layer  int  `yaml:"layer"`
	Hidden bool `yaml:"hidden"`
}

// Style converts the default style.
func (s StyleConfig) Style() Style {
	return Style{Stroke: s.Stroke, Fill: s.Fill, Layer: s.Layer, Hidden: s.Hidden}
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ParseConfig(fp)
}

// ParseConfig decodes a YAML configuration. Unknown fields are rejected.
// An empty document yields the zero Config.
func ParseConfig(in io.Reader) (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(in)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := ParseTriangulation(c.Triangulation); err != nil {
		return nil, err
	}
	return c, nil
}

// Options returns the collection options the configuration sets.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Layers != 0 {
		opts = append(opts, WithLayers(c.Layers))
	}
	if c.StrokeWidth != 0 {
		opts = append(opts, WithStrokeWidth(c.StrokeWidth))
	}
	if t, err := ParseTriangulation(c.Triangulation); err == nil {
		opts = append(opts, WithTriangulation(t))
	}
	return opts
}
