package surface

import (
	"errors"
	"sort"

	"github.com/Gurpartap/tape-tui/registry"
)

// ErrUnknownSurface is returned by any Stack operation given an id that
// is not currently bound.
var ErrUnknownSurface = errors.New("surface: unknown id")

// Surface binds a ComponentID to its Options.
type Surface struct {
	ID        ID
	Component registry.ComponentID
	Options   Options
}

// Stack owns the set of surfaces, in z-order. At most one surface exists
// per id; hidden surfaces retain their id and options for later unhide
// but are excluded from measure/allocate/composite and from input
// arbitration.
type Stack struct {
	byID map[ID]*Surface
	next uint32
}

// NewStack returns an empty Stack.
func NewStack() *Stack {
	return &Stack{byID: make(map[ID]*Surface)}
}

// Add registers a new surface bound to component, returning its id. The
// surface is appended to the front of z-order (highest z).
func (s *Stack) Add(component registry.ComponentID, opts Options) ID {
	id := newID()
	s.next++
	opts.Z = s.next
	s.byID[id] = &Surface{ID: id, Component: component, Options: opts}
	return id
}

// Remove deletes a surface. Removing an unknown id is an error, never a
// panic (spec §7 invalid-id handling).
func (s *Stack) Remove(id ID) error {
	if _, ok := s.byID[id]; !ok {
		return ErrUnknownSurface
	}
	delete(s.byID, id)
	return nil
}

// Get returns the surface bound to id, if any.
func (s *Stack) Get(id ID) (*Surface, bool) {
	sf, ok := s.byID[id]
	return sf, ok
}

// UpdateOptions replaces the options of an existing surface, preserving
// its current Z unless newOpts.Z is explicitly nonzero.
func (s *Stack) UpdateOptions(id ID, newOpts Options) error {
	sf, ok := s.byID[id]
	if !ok {
		return ErrUnknownSurface
	}
	if newOpts.Z == 0 {
		newOpts.Z = sf.Options.Z
	}
	sf.Options = newOpts
	return nil
}

// SetHidden toggles a surface's hidden flag without discarding its id or
// options.
func (s *Stack) SetHidden(id ID, hidden bool) error {
	sf, ok := s.byID[id]
	if !ok {
		return ErrUnknownSurface
	}
	sf.Options.Hidden = hidden
	return nil
}

// Ordered returns every surface in ascending z-order (lowest first,
// matching draw order: later entries painted on top).
func (s *Stack) Ordered() []*Surface {
	out := make([]*Surface, 0, len(s.byID))
	for _, sf := range s.byID {
		out = append(out, sf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Options.Z < out[j].Options.Z })
	return out
}

// Visible returns Ordered filtered to non-hidden surfaces.
func (s *Stack) Visible() []*Surface {
	all := s.Ordered()
	out := all[:0:0]
	for _, sf := range all {
		if !sf.Options.Hidden {
			out = append(out, sf)
		}
	}
	return out
}

// BringToFront assigns id the highest z of any surface.
func (s *Stack) BringToFront(id ID) error {
	sf, ok := s.byID[id]
	if !ok {
		return ErrUnknownSurface
	}
	s.next++
	sf.Options.Z = s.next
	return nil
}

// SendToBack assigns id a z lower than every other surface.
func (s *Stack) SendToBack(id ID) error {
	sf, ok := s.byID[id]
	if !ok {
		return ErrUnknownSurface
	}
	min := sf.Options.Z
	for _, other := range s.byID {
		if other.Options.Z < min {
			min = other.Options.Z
		}
	}
	if min == 0 {
		for _, other := range s.byID {
			other.Options.Z++
		}
		s.next++
		min = 1
	}
	sf.Options.Z = min - 1
	return nil
}

// Raise swaps id with its adjacent higher non-hidden neighbor. A no-op
// at the top edge.
func (s *Stack) Raise(id ID) error {
	return s.swapAdjacent(id, +1)
}

// Lower swaps id with its adjacent lower non-hidden neighbor. A no-op at
// the bottom edge.
func (s *Stack) Lower(id ID) error {
	return s.swapAdjacent(id, -1)
}

func (s *Stack) swapAdjacent(id ID, dir int) error {
	sf, ok := s.byID[id]
	if !ok {
		return ErrUnknownSurface
	}
	visible := s.Visible()
	idx := -1
	for i, v := range visible {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil // hidden surfaces don't participate in raise/lower
	}
	neighbor := idx + dir
	if neighbor < 0 || neighbor >= len(visible) {
		return nil // edge: no-op
	}
	sf.Options.Z, visible[neighbor].Options.Z = visible[neighbor].Options.Z, sf.Options.Z
	return nil
}
