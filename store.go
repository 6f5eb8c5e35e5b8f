package shapes

import "iter"

// ID identifies a shape in a Store. IDs start at 0, increase by one per
// insertion and are never reused, not even after Clear.
type ID int

// Record is one shape with its cached translation.
type Record struct {
	ID       ID
	Geometry Geometry
	Stroke   *RGBA
	Fill     *RGBA
	Visible  bool
	Layer    int

	Mesh     MeshFragment
	Segments SegmentFragment
}

// Store owns shape records, keyed by monotonically increasing IDs and
// iterated in insertion order.
//
// Records live in a map keyed by ID; order holds the IDs in insertion
// order and may contain IDs that were removed since. Those holes are
// skipped on iteration and compacted once they outnumber live records.
type Store struct {
	next    ID
	records map[ID]*Record
	order   []ID
	holes   int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{records: make(map[ID]*Record)}
}

// Insert assigns the next ID to r, stores it and returns the ID.
func (s *Store) Insert(r *Record) ID {
	id := s.next
	s.next++
	r.ID = id
	s.records[id] = r
	s.order = append(s.order, id)
	return id
}

// Remove deletes the record with the given ID. Removing an absent ID is a
// no-op.
func (s *Store) Remove(id ID) {
	if _, ok := s.records[id]; !ok {
		return
	}
	delete(s.records, id)
	s.holes++
	if s.holes > len(s.records) {
		s.compact()
	}
}

// Clear deletes all records. The ID counter keeps running.
func (s *Store) Clear() {
	clear(s.records)
	s.order = s.order[:0]
	s.holes = 0
}

// SetVisible updates the visibility flag in place. It reports whether the
// record exists. Fragments are not touched.
func (s *Store) SetVisible(id ID, visible bool) bool {
	r, ok := s.records[id]
	if ok {
		r.Visible = visible
	}
	return ok
}

// Get returns the live record for id.
func (s *Store) Get(id ID) (*Record, bool) {
	r, ok := s.records[id]
	return r, ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// NextID returns the ID the next Insert will assign.
func (s *Store) NextID() ID {
	return s.next
}

// All yields live records in ID order. The store must not be mutated
// during iteration.
func (s *Store) All() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		for _, id := range s.order {
			r, ok := s.records[id]
			if !ok {
				continue
			}
			if !yield(r) {
				return
			}
		}
	}
}

func (s *Store) compact() {
	live := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.records[id]; ok {
			live = append(live, id)
		}
	}
	clear(s.order[len(live):])
	s.order = live
	s.holes = 0
}
