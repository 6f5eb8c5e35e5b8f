package shapes

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
	"golang.org/x/text/cases"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
// The result is not premultiplied.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// Float32 returns the components as float32, the layout GPU hosts upload.
func (c RGBA) Float32() [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

// valid reports whether every component lies in [0, 1].
func (c RGBA) valid() bool {
	for _, v := range [4]float64{c.R, c.G, c.B, c.A} {
		if !(v >= 0 && v <= 1) {
			return false
		}
	}
	return true
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

var folder = cases.Fold()

// ParseColor converts v to RGBA. Accepted values:
//   - RGBA, *RGBA and any color.Color
//   - [4]float64, [3]float64, []float64 and []any of numbers (RGB or RGBA)
//   - hex strings "#rgb", "#rgba", "#rrggbb", "#rrggbbaa" (leading # optional)
//   - SVG color names such as "red" or "SteelBlue"
//
// Float components must lie in [0, 1]. Anything else returns an error
// wrapping ErrMalformedColor.
func ParseColor(v any) (RGBA, error) {
	var c RGBA
	switch x := v.(type) {
	case RGBA:
		c = x
	case *RGBA:
		if x == nil {
			return RGBA{}, fmt.Errorf("%w: nil *RGBA", ErrMalformedColor)
		}
		c = *x
	case color.Color:
		return FromColor(x), nil
	case [4]float64:
		c = RGBA{R: x[0], G: x[1], B: x[2], A: x[3]}
	case [3]float64:
		c = RGB(x[0], x[1], x[2])
	case []float64:
		return fromComponents(x)
	case []any:
		comps := make([]float64, len(x))
		for i, e := range x {
			f, ok := toFloat(e)
			if !ok {
				return RGBA{}, fmt.Errorf("%w: component %d is %T", ErrMalformedColor, i, e)
			}
			comps[i] = f
		}
		return fromComponents(comps)
	case string:
		return parseColorString(x)
	default:
		return RGBA{}, fmt.Errorf("%w: unsupported type %T", ErrMalformedColor, v)
	}
	if !c.valid() {
		return RGBA{}, fmt.Errorf("%w: %v out of range", ErrMalformedColor, c)
	}
	return c, nil
}

func fromComponents(comps []float64) (RGBA, error) {
	var c RGBA
	switch len(comps) {
	case 3:
		c = RGB(comps[0], comps[1], comps[2])
	case 4:
		c = RGBA{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}
	default:
		return RGBA{}, fmt.Errorf("%w: %d components", ErrMalformedColor, len(comps))
	}
	if !c.valid() {
		return RGBA{}, fmt.Errorf("%w: %v out of range", ErrMalformedColor, c)
	}
	return c, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func parseColorString(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if named, ok := colornames.Map[folder.String(s)]; ok {
		return FromColor(named), nil
	}
	if c, ok := parseHexColor(s); ok {
		return c, nil
	}
	return RGBA{}, fmt.Errorf("%w: %q", ErrMalformedColor, s)
}

// parseHexColor parses "RGB", "RGBA", "RRGGBB" and "RRGGBBAA" with an
// optional leading '#'.
func parseHexColor(hex string) (RGBA, bool) {
	hex = strings.TrimPrefix(hex, "#")

	var r, g, b, a uint32
	a = 255
	ok := true
	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	default:
		return RGBA{}, false
	}
	if !ok {
		return RGBA{}, false
	}

	return RGBA{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, true
}

// parseHex parses hex digits into val, reporting false on a bad digit.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}
