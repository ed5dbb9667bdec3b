// Package mmap models a reconstructed address space: mappings with their
// POSIX metadata, the byte sources backing them, and the ordered disjoint
// set they form.
package mmap

import (
	"sort"

	"github.com/pkg/errors"
)

// Mappings is one full address-space snapshot: an ordered set of disjoint
// mappings plus the identifier of the dump it was loaded from. It is built
// once by a loader and read-only afterward.
type Mappings struct {
	// Source is the normalized path or name of the originating dump.
	Source string

	list []*Mapping
}

// NewMappings returns an empty set tagged with the dump source.
func NewMappings(source string) *Mappings {
	return &Mappings{Source: source}
}

// Insert adds a mapping, keeping the set sorted by start address. It fails
// if the mapping's range overlaps one already in the set.
func (ms *Mappings) Insert(m *Mapping) error {
	if m.End <= m.Start {
		return errors.Errorf("mmap: invalid range %#x-%#x", m.Start, m.End)
	}
	i := sort.Search(len(ms.list), func(i int) bool {
		return ms.list[i].Start >= m.Start
	})
	if i > 0 && ms.list[i-1].End > m.Start {
		return errors.Errorf("mmap: %#x-%#x overlaps %#x-%#x", m.Start, m.End, ms.list[i-1].Start, ms.list[i-1].End)
	}
	if i < len(ms.list) && m.End > ms.list[i].Start {
		return errors.Errorf("mmap: %#x-%#x overlaps %#x-%#x", m.Start, m.End, ms.list[i].Start, ms.list[i].End)
	}
	ms.list = append(ms.list, nil)
	copy(ms.list[i+1:], ms.list[i:])
	ms.list[i] = m
	return nil
}

// Len returns the number of mappings in the set.
func (ms *Mappings) Len() int { return len(ms.list) }

// All returns the mappings in address order. The returned slice is shared;
// callers must not modify it.
func (ms *Mappings) All() []*Mapping { return ms.list }

// FindAddr returns the unique mapping containing addr, if any.
func (ms *Mappings) FindAddr(addr uint64) (*Mapping, bool) {
	// Binary search for the first mapping starting above addr, then check
	// its predecessor.
	i := sort.Search(len(ms.list), func(i int) bool {
		return ms.list[i].Start > addr
	})
	if i > 0 && ms.list[i-1].Contains(addr) {
		return ms.list[i-1], true
	}
	return nil, false
}

// FindPath returns every mapping whose pathname equals path, in address
// order.
func (ms *Mappings) FindPath(path string) []*Mapping {
	var found []*Mapping
	for _, m := range ms.list {
		if m.Pathname == path {
			found = append(found, m)
		}
	}
	return found
}
