// Package valid decides whether a raw address observed in a dump denotes a
// live, correctly sized object. Its outcomes are ordinary values: a
// rejected address is a normal, high-frequency analysis result for the
// pointer-chasing heuristics built on top, never a program error.
package valid

import (
	"github.com/blacktop/go-memdump/pkg/abi"
	"github.com/blacktop/go-memdump/pkg/mmap"
	"github.com/pkg/errors"
)

var (
	// ErrNull rejects address zero.
	ErrNull = errors.New("valid: null address")
	// ErrUnmapped rejects addresses outside every mapping.
	ErrUnmapped = errors.New("valid: address not mapped")
	// ErrOverflow rejects objects that do not fit inside the mapping
	// containing their start address.
	ErrOverflow = errors.New("valid: object overflows mapping")
)

// Validate checks addr against the mapping set and, when t is non-nil,
// checks that an object of t's target size fits inside the containing
// mapping. An object must not span two mappings, even adjacent contiguous
// ones. On success the containing mapping is returned; callers treat it as
// the capability to read Size(t) bytes at addr through its backing store.
func Validate(addr uint64, ms *mmap.Mappings, t abi.Type) (*mmap.Mapping, error) {
	if addr == 0 {
		return nil, ErrNull
	}
	m, ok := ms.FindAddr(addr)
	if !ok {
		return nil, errors.Wrapf(ErrUnmapped, "%#x", addr)
	}
	if t != nil {
		end := addr + t.Size()
		if end < addr || !m.Contains(end) {
			return nil, errors.Wrapf(ErrOverflow, "%s of %#x bytes at %#x exceeds %#x-%#x",
				t, t.Size(), addr, m.Start, m.End)
		}
	}
	return m, nil
}

// ValidateLocal runs the identical check against the analysis process's
// own address space, reconstructed fresh from /proc/self/maps. This is
// costly; callers probing many addresses should load mmap.Self once and
// use Validate directly.
func ValidateLocal(addr uint64, t abi.Type) (*mmap.Mapping, error) {
	ms, err := mmap.Self()
	if err != nil {
		return nil, err
	}
	return Validate(addr, ms, t)
}
