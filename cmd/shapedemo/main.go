// Command shapedemo renders a layered shape collection to a PNG file.
//
// Shapes come from a GeoJSON FeatureCollection, or from a built-in demo
// scene when no input is given. Collection settings and the default style
// are read from an optional YAML file.
package main

import (
	"flag"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/shapes"
	"github.com/gogpu/shapes/geoload"
	"github.com/gogpu/shapes/rasterhost"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		output  = flag.String("output", "shapes.png", "output file")
		input   = flag.String("input", "", "GeoJSON FeatureCollection (default: demo scene)")
		config  = flag.String("config", "", "YAML configuration file")
		verbose = flag.Bool("v", false, "log redraw statistics")
	)
	flag.Parse()

	if *verbose {
		shapes.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := &shapes.Config{}
	if *config != "" {
		var err error
		if cfg, err = shapes.LoadConfig(*config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	host := rasterhost.New()
	c, err := shapes.New(append(cfg.Options(), shapes.WithHost(host))...)
	if err != nil {
		log.Fatalf("Failed to create collection: %v", err)
	}

	if *input != "" {
		ids, err := geoload.LoadFile(c, *input, geoload.WithDefaultStyle(cfg.Style.Style()))
		if err != nil {
			// Skipped features are reported but do not stop the render.
			log.Printf("Load: %v", err)
		}
		log.Printf("Loaded %d shapes from %s", len(ids), *input)
	} else if err := addDemoScene(c); err != nil {
		log.Fatalf("Failed to build demo scene: %v", err)
	}

	img := host.Image(*width, *height, color.White)

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Fatalf("Failed to save: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	log.Printf("Demo saved to %s (%dx%d, %d layers)\n", *output, *width, *height, c.LayerCount())
}

// addDemoScene adds a framed polygon with holes, a star and a spiral,
// using every layer the collection has.
func addDemoScene(c *shapes.Collection) error {
	top := c.LayerCount() - 1

	frame := shapes.Polygon{
		Outer: []shapes.Point{{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 30}, {X: 0, Y: 30}},
		Holes: [][]shapes.Point{
			{{X: 4, Y: 4}, {X: 14, Y: 4}, {X: 14, Y: 14}, {X: 4, Y: 14}},
			{{X: 26, Y: 16}, {X: 36, Y: 16}, {X: 31, Y: 26}},
		},
	}
	if _, err := c.Add(frame, shapes.Style{Fill: "steelblue", Stroke: "navy"}, true); err != nil {
		return err
	}

	if _, err := c.Add(star(20, 15, 9, 4, 7), shapes.Style{Fill: "gold", Stroke: "darkorange", Layer: min(1, top)}, true); err != nil {
		return err
	}

	if _, err := c.Add(spiral(20, 15, 14, 4), shapes.Style{Stroke: "crimson", Layer: top}, true); err != nil {
		return err
	}

	return c.Redraw()
}

func star(cx, cy, outer, inner float64, points int) shapes.Polygon {
	pts := make([]shapes.Point, 0, 2*points)
	for i := range 2 * points {
		angle := float64(i)*math.Pi/float64(points) + math.Pi/2
		r := outer
		if i%2 == 1 {
			r = inner
		}
		pts = append(pts, shapes.Pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle)))
	}
	return shapes.Polygon{Outer: pts}
}

func spiral(cx, cy, radius float64, turns int) shapes.Line {
	const steps = 64
	n := turns * steps
	pts := make(shapes.Line, 0, n+1)
	for i := range n + 1 {
		t := float64(i) / float64(n)
		angle := t * float64(turns) * 2 * math.Pi
		pts = append(pts, shapes.Pt(cx+t*radius*math.Cos(angle), cy+t*radius*math.Sin(angle)))
	}
	return pts
}
