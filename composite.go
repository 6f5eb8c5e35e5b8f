package shapes

import (
	"fmt"
	"iter"
)

// Layer is the merged geometry of all visible shapes assigned to one
// layer. Higher layers draw on top of lower ones.
type Layer struct {
	Mesh     MeshFragment
	Segments SegmentFragment
}

// IsEmpty reports whether the layer has nothing to draw.
func (l Layer) IsEmpty() bool {
	return l.Mesh.IsEmpty() && l.Segments.IsEmpty()
}

// SkippedRecord reports a record left out of a composite.
type SkippedRecord struct {
	ID  ID
	Err error
}

// Composite merges the cached fragments of visible records into exactly
// layerCount layers, in record order. Each record's triangle indices are
// offset by the number of vertices its layer held before the record.
// Layers without contributing records are returned empty, never omitted.
//
// A record that cannot be merged (its layer is out of range, or its
// fragments break their invariants) is skipped and reported; the rest of
// the composite is unaffected.
func Composite(records iter.Seq[*Record], layerCount int) ([]Layer, []SkippedRecord) {
	if layerCount < 0 {
		layerCount = 0
	}
	layers := make([]Layer, layerCount)
	var skipped []SkippedRecord

	for r := range records {
		if !r.Visible {
			continue
		}
		if err := mergeRecord(layers, r); err != nil {
			skipped = append(skipped, SkippedRecord{ID: r.ID, Err: err})
		}
	}
	return layers, skipped
}

// mergeRecord appends r's fragments to its layer. Nothing is written when
// an error is returned.
func mergeRecord(layers []Layer, r *Record) error {
	if r.Layer < 0 || r.Layer >= len(layers) {
		return fmt.Errorf("%w: layer %d outside [0, %d)", ErrInvalidLayer, r.Layer, len(layers))
	}
	if err := r.Mesh.Validate(); err != nil {
		return err
	}
	if err := r.Segments.Validate(); err != nil {
		return err
	}

	l := &layers[r.Layer]
	appendMesh(&l.Mesh, r.Mesh)
	appendSegments(&l.Segments, r.Segments)
	return nil
}
