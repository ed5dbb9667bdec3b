package abi

import "github.com/pkg/errors"

// ErrUnknownField is returned when a field name does not exist for the
// target struct layout. This is a caller error, not an analysis outcome.
var ErrUnknownField = errors.New("abi: unknown field")

// OffsetOf returns the byte offset of the named field within a struct
// descriptor. Offsets were computed once at descriptor build time.
func OffsetOf(t Type, field string) (uint64, error) {
	s, ok := t.(*Struct)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownField, "%s is not a struct", t)
	}
	f, ok := s.FieldByName(field)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownField, "struct %s has no field %q", s.Name(), field)
	}
	return f.Offset, nil
}

// ContainerOf computes the hypothetical address of a struct given the
// address of one of its members, as the kernel's container_of macro does.
// It is pure arithmetic: the result is only a candidate until it has been
// run through the address validator against a mapping set.
func ContainerOf(memberAddr uint64, t Type, field string) (uint64, error) {
	off, err := OffsetOf(t, field)
	if err != nil {
		return 0, err
	}
	return memberAddr - off, nil
}
