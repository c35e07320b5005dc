package sketch

import "fmt"

// ParamID indexes a parameter slot in a ParamStore.
type ParamID int

// Group tags parameters with the solve batch they belong to. Only the
// active group is solved; earlier groups are held fixed.
type Group uint32

// Param is a single scalar unknown.
type Param struct {
	ID    ParamID
	Value float64
	Group Group
}

func (p Param) String() string {
	return fmt.Sprintf("p%d=%g (g%d)", p.ID, p.Value, p.Group)
}

// ParamStore is an append-only arena of parameters. Slots are never
// removed, so a ParamID stays valid for the life of the store.
type ParamStore struct {
	params []Param
	active Group
}

// NewParamStore returns an empty store whose active group is 1.
func NewParamStore() *ParamStore {
	return &ParamStore{active: 1}
}

// Add allocates a parameter with an initial value in the active group.
func (s *ParamStore) Add(initial float64) ParamID {
	id := ParamID(len(s.params))
	s.params = append(s.params, Param{ID: id, Value: initial, Group: s.active})
	return id
}

// Value returns the current value of id.
func (s *ParamStore) Value(id ParamID) float64 {
	return s.params[id].Value
}

// Set overwrites the value of id. Solvers are the only intended callers.
func (s *ParamStore) Set(id ParamID, v float64) {
	s.params[id].Value = v
}

// Param returns a copy of the slot for id.
func (s *ParamStore) Param(id ParamID) Param {
	return s.params[id]
}

// Has reports whether id addresses an allocated slot.
func (s *ParamStore) Has(id ParamID) bool {
	return id >= 0 && int(id) < len(s.params)
}

// Len returns the number of allocated parameters.
func (s *ParamStore) Len() int { return len(s.params) }

// ActiveGroup returns the group new parameters are tagged with.
func (s *ParamStore) ActiveGroup() Group { return s.active }

// BeginGroup advances the active group and returns it. Group numbers only
// ever increase.
func (s *ParamStore) BeginGroup() Group {
	s.active++
	return s.active
}

// InGroup lists the parameters tagged with g, in allocation order.
func (s *ParamStore) InGroup(g Group) []ParamID {
	var ids []ParamID
	for _, p := range s.params {
		if p.Group == g {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
