package diag

import (
	"iter"
	"time"
)

// Store holds diagnostics by path. It is not safe for concurrent use; the
// frame loop that owns it is the only writer.
type Store struct {
	byPath map[Path]*Diagnostic
	order  []*Diagnostic
}

func NewStore() *Store {
	return &Store{byPath: make(map[Path]*Diagnostic)}
}

// Register adds d, replacing any diagnostic with the same path.
func (s *Store) Register(d *Diagnostic) {
	if old, ok := s.byPath[d.path]; ok {
		for i, o := range s.order {
			if o == old {
				s.order[i] = d
			}
		}
	} else {
		s.order = append(s.order, d)
	}
	s.byPath[d.path] = d
}

// Add records a value for path, registering a default diagnostic the first
// time the path is seen.
func (s *Store) Add(path Path, value float64, at time.Time) {
	d, ok := s.byPath[path]
	if !ok {
		d = NewDiagnostic(path)
		s.Register(d)
	}
	d.Add(Measurement{Time: at, Value: value})
}

// Get returns the diagnostic for path.
func (s *Store) Get(path Path) (*Diagnostic, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.byPath[path]
	return d, ok
}

// All yields diagnostics in registration order.
func (s *Store) All() iter.Seq[*Diagnostic] {
	return func(yield func(*Diagnostic) bool) {
		if s == nil {
			return
		}
		for _, d := range s.order {
			if !yield(d) {
				return
			}
		}
	}
}

// Len returns the number of registered diagnostics.
func (s *Store) Len() int {
	return len(s.order)
}
