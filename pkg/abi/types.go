// Package abi describes in-memory data structures as they exist on a
// target machine whose pointer, long and extended-float widths may differ
// from the analysis host. Descriptors carry target sizes and offsets; the
// host's own layout is never consulted.
package abi

import (
	"github.com/apex/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// profiles memoizes descriptor sets by width triple. Building a set walks
// and re-derives every scalar, pointer and record descriptor, so repeated
// requests for the same target reuse one instance.
var profiles *lru.Cache[Profile, *Types]

func init() {
	profiles, _ = lru.New[Profile, *Types](16)
}

// Types is a complete descriptor set for one target profile. It is
// immutable once built and safe to share read-only for the whole session.
type Types struct {
	profile Profile

	void    Type
	scalars map[string]*Scalar
	cstring *CString
}

// TypesFor returns the descriptor set for the given profile, building it
// on first use and reusing the cached instance afterward.
func TypesFor(p Profile) (*Types, error) {
	p, err := NewProfile(p.PointerSize, p.LongSize, p.LongDoubleSize)
	if err != nil {
		return nil, err
	}
	if t, ok := profiles.Get(p); ok {
		return t, nil
	}
	log.Debugf("building type descriptors for pointer=%d long=%d longdouble=%d",
		p.PointerSize, p.LongSize, p.LongDoubleSize)
	t := newTypes(p)
	profiles.Add(p, t)
	return t, nil
}

func newTypes(p Profile) *Types {
	t := &Types{
		profile: p,
		void:    voidType{},
		scalars: make(map[string]*Scalar),
	}
	fixed := []struct {
		name string
		size uint64
	}{
		{"bool", 1}, {"char", 1}, {"uchar", 1},
		{"int8", 1}, {"uint8", 1},
		{"short", 2}, {"ushort", 2}, {"int16", 2}, {"uint16", 2},
		{"int", 4}, {"uint", 4}, {"int32", 4}, {"uint32", 4},
		{"longlong", 8}, {"ulonglong", 8}, {"int64", 8}, {"uint64", 8},
		{"float", 4}, {"double", 8},
	}
	for _, s := range fixed {
		t.scalars[s.name] = &Scalar{name: s.name, size: s.size, align: s.size}
	}
	// long and ulong take the target width; the descriptor is plain data,
	// so a redefinition is just a different size in the table.
	t.scalars["long"] = &Scalar{name: "long", size: p.LongSize, align: p.LongSize}
	t.scalars["ulong"] = &Scalar{name: "ulong", size: p.LongSize, align: p.LongSize}
	// int128 has no host equivalent anywhere; it is a 16-byte blob.
	t.scalars["int128"] = &Scalar{name: "int128", size: 16, align: 16, opaque: true}
	t.scalars["uint128"] = &Scalar{name: "uint128", size: 16, align: 16, opaque: true}
	// When the target's extended float is not the plain 8-byte double, its
	// bit layout is unspecified here; keep it as an opaque blob of the
	// declared width rather than pretending to interpret it.
	if p.LongDoubleSize == 8 {
		t.scalars["longdouble"] = &Scalar{name: "longdouble", size: 8, align: 8}
	} else {
		t.scalars["longdouble"] = &Scalar{
			name:   "longdouble",
			size:   p.LongDoubleSize,
			align:  longDoubleAlign(p.LongDoubleSize),
			opaque: true,
		}
	}
	t.cstring = &CString{u: t.union("cstring",
		Member{Name: "chars", Type: t.Pointer(t.scalars["char"])},
		Member{Name: "ptr", Type: t.Pointer(t.scalars["uint8"])},
	)}
	return t
}

func longDoubleAlign(size uint64) uint64 {
	switch size {
	case 10:
		return 2
	case 12:
		return 4
	default:
		return size
	}
}

// Profile returns the width triple this set was derived from.
func (t *Types) Profile() Profile { return t.profile }

// Scalar returns the named basic type descriptor.
func (t *Types) Scalar(name string) (Type, error) {
	s, ok := t.scalars[name]
	if !ok {
		return nil, errors.Errorf("abi: no scalar type %q", name)
	}
	return s, nil
}

// Void returns the zero-size void descriptor.
func (t *Types) Void() Type { return t.void }

// Long returns the target's long descriptor.
func (t *Types) Long() Type { return t.scalars["long"] }

// LongDouble returns the target's extended-float descriptor.
func (t *Types) LongDouble() Type { return t.scalars["longdouble"] }

// CString returns the bytes-or-pointer string descriptor.
func (t *Types) CString() Type { return t.cstring }

// Pointer returns a pointer descriptor to pointee. A nil pointee yields a
// void pointer.
func (t *Types) Pointer(pointee Type) *Pointer {
	if pointee == nil {
		pointee = t.void
	}
	return &Pointer{pointee: pointee, size: t.profile.PointerSize}
}

// FuncPointer returns a function pointer descriptor.
func (t *Types) FuncPointer() *Pointer {
	return &Pointer{pointee: t.void, size: t.profile.PointerSize, fn: true}
}

// Array returns an array descriptor of count elements.
func (t *Types) Array(elem Type, count uint64) *Array {
	return &Array{elem: elem, count: count}
}

// Struct lays out a record under the target's natural-alignment rules:
// each field is placed at the next offset aligned to the field type, and
// the total size is rounded up to the strictest member alignment. The host
// compiler's layout for a same-named declaration is never consulted.
func (t *Types) Struct(name string, fields ...Member) (*Struct, error) {
	var (
		offset uint64
		align  uint64 = 1
		laid   []Field
	)
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return nil, errors.Errorf("abi: struct %s: duplicate field %q", name, f.Name)
		}
		seen[f.Name] = struct{}{}
		offset = alignUp(offset, f.Type.Align())
		laid = append(laid, Field{Name: f.Name, Type: f.Type, Offset: offset})
		offset += f.Type.Size()
		if f.Type.Align() > align {
			align = f.Type.Align()
		}
	}
	return &Struct{name: name, fields: laid, size: alignUp(offset, align), align: align}, nil
}

// Union returns a union descriptor sized to its largest member.
func (t *Types) Union(name string, members ...Member) *Union {
	return t.union(name, members...)
}

func (t *Types) union(name string, members ...Member) *Union {
	var size, align uint64 = 0, 1
	for _, m := range members {
		if m.Type.Size() > size {
			size = m.Type.Size()
		}
		if m.Type.Align() > align {
			align = m.Type.Align()
		}
	}
	return &Union{name: name, members: members, size: alignUp(size, align), align: align}
}

func alignUp(n, align uint64) uint64 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}
