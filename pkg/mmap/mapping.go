package mmap

import (
	"fmt"

	"github.com/pkg/errors"
)

// Mapping is one contiguous range [Start, End) of a target address space,
// with its /proc/<pid>/maps metadata and the byte source for its content.
type Mapping struct {
	Start    uint64
	End      uint64
	Perms    Perms
	Offset   uint64
	MajorDev uint64
	MinorDev uint64
	Inode    uint64
	// Pathname is the backing file path, a bracketed pseudo-name like
	// [heap] or [stack], or "" when the index recorded none.
	Pathname string

	backing Backing
}

// NewMapping builds a mapping over the given backing. A nil backing is
// treated as absent content.
func NewMapping(start, end uint64, perms Perms, offset, major, minor, inode uint64, pathname string, backing Backing) (*Mapping, error) {
	if end <= start {
		return nil, errors.Errorf("mmap: invalid range %#x-%#x", start, end)
	}
	if backing == nil {
		backing = AbsentBacking(int64(end - start))
	}
	return &Mapping{
		Start:    start,
		End:      end,
		Perms:    perms,
		Offset:   offset,
		MajorDev: major,
		MinorDev: minor,
		Inode:    inode,
		Pathname: pathname,
		backing:  backing,
	}, nil
}

// Size returns the length of the address range in bytes.
func (m *Mapping) Size() uint64 { return m.End - m.Start }

// Contains reports whether addr falls within [Start, End).
func (m *Mapping) Contains(addr uint64) bool {
	return m.Start <= addr && addr < m.End
}

// Backing returns the mapping's byte source.
func (m *Mapping) Backing() Backing { return m.backing }

// ReadAddr reads n bytes starting at the absolute address addr. The whole
// range must fall inside the mapping.
func (m *Mapping) ReadAddr(addr uint64, n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrOutOfRange, "negative length %d", n)
	}
	if !m.Contains(addr) {
		return nil, errors.Wrapf(ErrOutOfRange, "address %#x not in %#x-%#x", addr, m.Start, m.End)
	}
	buf := make([]byte, n)
	if _, err := m.backing.ReadAt(buf, int64(addr-m.Start)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (m *Mapping) String() string {
	path := m.Pathname
	if path == "" {
		path = "None"
	}
	return fmt.Sprintf("%x-%x %s %08x %02x:%02x %d %s",
		m.Start, m.End, m.Perms, m.Offset, m.MajorDev, m.MinorDev, m.Inode, path)
}
