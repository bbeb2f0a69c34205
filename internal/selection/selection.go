// internal/selection/selection.go
// Package selection keeps the ordered set of chart points a user picked for
// comparison. All points of a selection come from the same test server.
package selection

import (
	"errors"
	"fmt"
)

// ErrSelectionConflict is returned when a point from another server is added.
var ErrSelectionConflict = errors.New("point belongs to a different test server")

// Point is anything that can be selected. Equal reports structural equality
// and Origin names the server that produced the point.
type Point[T any] interface {
	Equal(other T) bool
	Origin() string
}

// Set is an ordered, duplicate-free selection.
type Set[T Point[T]] struct {
	points     []T
	onConflict func(point T, err error)
}

// New returns an empty set. onConflict may be nil.
func New[T Point[T]](onConflict func(point T, err error)) *Set[T] {
	return &Set[T]{onConflict: onConflict}
}

// OnConflict replaces the conflict callback.
func (s *Set[T]) OnConflict(fn func(point T, err error)) {
	s.onConflict = fn
}

func (s *Set[T]) indexOf(p T) int {
	for i, existing := range s.points {
		if existing.Equal(p) {
			return i
		}
	}
	return -1
}

// Select adds p unless it is already present. A point whose origin differs
// from the first selected point is rejected and reported to the callback.
func (s *Set[T]) Select(p T) error {
	if s.indexOf(p) >= 0 {
		return nil
	}
	if len(s.points) > 0 {
		if first := s.points[0].Origin(); first != p.Origin() {
			err := fmt.Errorf("%w: selection is bound to %q, point is from %q", ErrSelectionConflict, first, p.Origin())
			if s.onConflict != nil {
				s.onConflict(p, err)
			}
			return err
		}
	}
	s.points = append(s.points, p)
	return nil
}

// Deselect removes p if present.
func (s *Set[T]) Deselect(p T) {
	if i := s.indexOf(p); i >= 0 {
		s.points = append(s.points[:i], s.points[i+1:]...)
	}
}

// Toggle deselects p if selected, otherwise selects it.
func (s *Set[T]) Toggle(p T) error {
	if s.IsSelected(p) {
		s.Deselect(p)
		return nil
	}
	return s.Select(p)
}

// IsSelected reports whether p is in the set.
func (s *Set[T]) IsSelected(p T) bool {
	return s.indexOf(p) >= 0
}

// All returns the selected points in selection order.
func (s *Set[T]) All() []T {
	return append([]T(nil), s.points...)
}

// First returns the earliest selected point.
func (s *Set[T]) First() (T, bool) {
	var zero T
	if len(s.points) == 0 {
		return zero, false
	}
	return s.points[0], true
}

// Count returns the number of selected points.
func (s *Set[T]) Count() int {
	return len(s.points)
}

// Clear empties the set.
func (s *Set[T]) Clear() {
	s.points = nil
}
