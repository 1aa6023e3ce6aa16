package model

import "crystalsim/internal/sim/growth/crystal"

// Stack is a held unit: an item id, a quantity and an optional property record.
// Props is treated as immutable; replace the pointer instead of writing through it.
type Stack struct {
	Item  string              `json:"item"`
	Count int                 `json:"count"`
	Props *crystal.Properties `json:"props,omitempty"`
}

func (s Stack) Empty() bool { return s.Item == "" || s.Count <= 0 }

func (s Stack) WithProps(p crystal.Properties) Stack {
	s.Props = &p
	return s
}

func (s Stack) WithCount(n int) Stack {
	s.Count = n
	return s
}

// Split takes up to n units off s. The property record is shared by both halves.
func (s Stack) Split(n int) (taken Stack, rest Stack) {
	if n > s.Count {
		n = s.Count
	}
	if n < 0 {
		n = 0
	}
	taken = s
	taken.Count = n
	rest = s
	rest.Count = s.Count - n
	return taken, rest
}

// Mergeable reports whether two stacks can share one entity.
func (s Stack) Mergeable(o Stack) bool {
	return s.Item == o.Item && s.Props == nil && o.Props == nil
}
