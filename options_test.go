package shapes

import (
	"errors"
	"testing"
)

// TestNewDefaults tests the configuration New uses without options.
func TestNewDefaults(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.LayerCount() != DefaultLayers {
		t.Errorf("LayerCount() = %d, want %d", c.LayerCount(), DefaultLayers)
	}
	if c.StrokeWidth() != DefaultStrokeWidth {
		t.Errorf("StrokeWidth() = %v, want %v", c.StrokeWidth(), DefaultStrokeWidth)
	}
	if _, ok := c.opts.host.(nopHost); !ok {
		t.Errorf("host = %T, want nopHost", c.opts.host)
	}
}

// TestNewWithOptions tests that options override the defaults.
func TestNewWithOptions(t *testing.T) {
	h := &recordingHost{}
	c, err := New(
		WithLayers(5),
		WithStrokeWidth(2.5),
		WithTriangulation(TriangulationExternal),
		WithHost(h),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.LayerCount() != 5 {
		t.Errorf("LayerCount() = %d, want 5", c.LayerCount())
	}
	if c.StrokeWidth() != 2.5 {
		t.Errorf("StrokeWidth() = %v, want 2.5", c.StrokeWidth())
	}
	if c.opts.triangulation != TriangulationExternal {
		t.Errorf("triangulation = %v, want external", c.opts.triangulation)
	}
	if c.opts.host != h {
		t.Error("host is not the injected host")
	}
}

func TestWithHostNil(t *testing.T) {
	c, err := New(WithHost(nil))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.opts.host.(nopHost); !ok {
		t.Errorf("host = %T, want nopHost", c.opts.host)
	}
}

func TestNewInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"zero layers", WithLayers(0)},
		{"negative layers", WithLayers(-1)},
		{"zero stroke", WithStrokeWidth(0)},
		{"negative stroke", WithStrokeWidth(-2)},
		{"unknown triangulation", WithTriangulation(Triangulation(9))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opt)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
			if c != nil {
				t.Error("New() returned a collection on error")
			}
		})
	}
}

func TestParseTriangulation(t *testing.T) {
	tests := []struct {
		in      string
		want    Triangulation
		wantErr bool
	}{
		{"", TriangulationNative, false},
		{"native", TriangulationNative, false},
		{" External ", TriangulationExternal, false},
		{"delaunay", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTriangulation(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTriangulation(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTriangulation(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
