package abi

import "github.com/pkg/errors"

// ErrBadWidth is returned for a scalar width outside the supported set.
var ErrBadWidth = errors.New("abi: unsupported scalar width")

// Profile is the triple of target scalar widths, in bytes, that
// parameterizes every derived type layout. Two profiles with equal widths
// are interchangeable.
type Profile struct {
	PointerSize    uint64
	LongSize       uint64
	LongDoubleSize uint64
}

// Common targets.
var (
	// LP32 matches 32-bit linux (i386): 4-byte pointers and longs,
	// 12-byte long double.
	LP32 = Profile{PointerSize: 4, LongSize: 4, LongDoubleSize: 12}
	// LP64 matches 64-bit linux (amd64): 8-byte pointers and longs,
	// 16-byte long double.
	LP64 = Profile{PointerSize: 8, LongSize: 8, LongDoubleSize: 16}
)

// NewProfile validates the width triple.
func NewProfile(pointerSize, longSize, longDoubleSize uint64) (Profile, error) {
	if pointerSize != 4 && pointerSize != 8 {
		return Profile{}, errors.Wrapf(ErrBadWidth, "pointer width %d", pointerSize)
	}
	if longSize != 4 && longSize != 8 {
		return Profile{}, errors.Wrapf(ErrBadWidth, "long width %d", longSize)
	}
	switch longDoubleSize {
	case 8, 10, 12, 16:
	default:
		return Profile{}, errors.Wrapf(ErrBadWidth, "long double width %d", longDoubleSize)
	}
	return Profile{PointerSize: pointerSize, LongSize: longSize, LongDoubleSize: longDoubleSize}, nil
}
