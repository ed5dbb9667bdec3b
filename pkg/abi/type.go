package abi

import (
	"fmt"
	"strings"
)

// Kind discriminates the closed set of type descriptor variants.
type Kind int

const (
	KindVoid Kind = iota
	KindScalar
	KindPointer
	KindArray
	KindStruct
	KindUnion
	KindCString
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindScalar:
		return "scalar"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindCString:
		return "cstring"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Type is one target type descriptor. Sizes and alignments always reflect
// the owning profile's target rules, never the analysis host.
type Type interface {
	Name() string
	Size() uint64
	Align() uint64
	Kind() Kind
	String() string
}

// Scalar is a basic type: integers, chars, floats, and the opaque
// long-double blob when the target's extended float is not interpretable.
type Scalar struct {
	name  string
	size  uint64
	align uint64
	// opaque marks a fixed-size blob whose bit layout is unspecified.
	opaque bool
}

func (s *Scalar) Name() string   { return s.name }
func (s *Scalar) Size() uint64   { return s.size }
func (s *Scalar) Align() uint64  { return s.align }
func (s *Scalar) Kind() Kind     { return KindScalar }
func (s *Scalar) Opaque() bool   { return s.opaque }
func (s *Scalar) String() string { return s.name }

// Pointer is an opaque pointer-width integer tagged with its pointee type.
// It is never dereferenced by the type system; resolving a pointer value to
// bytes is an explicit consumer step against a mapping set.
type Pointer struct {
	pointee Type
	size    uint64
	fn      bool
}

// Pointee returns the pointed-to type; a void pointer's pointee has
// KindVoid.
func (p *Pointer) Pointee() Type { return p.pointee }

func (p *Pointer) Name() string  { return "*" + p.pointee.Name() }
func (p *Pointer) Size() uint64  { return p.size }
func (p *Pointer) Align() uint64 { return p.size }
func (p *Pointer) Kind() Kind    { return KindPointer }
func (p *Pointer) String() string {
	if p.fn {
		return "void (*)()"
	}
	return "*" + p.pointee.String()
}

// Array is a fixed-count sequence of one element type.
type Array struct {
	elem  Type
	count uint64
}

func (a *Array) Elem() Type     { return a.elem }
func (a *Array) Count() uint64  { return a.count }
func (a *Array) Name() string   { return fmt.Sprintf("%s[%d]", a.elem.Name(), a.count) }
func (a *Array) Size() uint64   { return a.elem.Size() * a.count }
func (a *Array) Align() uint64  { return a.elem.Align() }
func (a *Array) Kind() Kind     { return KindArray }
func (a *Array) String() string { return a.Name() }

// Field is one struct member with its computed target offset.
type Field struct {
	Name   string
	Type   Type
	Offset uint64
}

// Struct is a record type laid out by the target's natural-alignment rules.
type Struct struct {
	name   string
	fields []Field
	size   uint64
	align  uint64
}

func (s *Struct) Name() string    { return s.name }
func (s *Struct) Size() uint64    { return s.size }
func (s *Struct) Align() uint64   { return s.align }
func (s *Struct) Kind() Kind      { return KindStruct }
func (s *Struct) Fields() []Field { return s.fields }

// FieldByName returns the named field's descriptor.
func (s *Struct) FieldByName(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s *Struct) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {", s.name)
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(&b, " %s %s /* +%#x */", f.Type.Name(), f.Name, f.Offset)
	}
	b.WriteString(" }")
	return b.String()
}

// Member is one union alternative.
type Member struct {
	Name string
	Type Type
}

// Union is an overlay of members; its size is the largest member rounded
// up to the strictest alignment.
type Union struct {
	name    string
	members []Member
	size    uint64
	align   uint64
}

func (u *Union) Name() string      { return u.name }
func (u *Union) Size() uint64      { return u.size }
func (u *Union) Align() uint64     { return u.align }
func (u *Union) Kind() Kind        { return KindUnion }
func (u *Union) Members() []Member { return u.members }
func (u *Union) String() string    { return "union " + u.name }

// CString is a tagged choice between inline bytes and a pointer to bytes.
// A field that looks like a string may actually be an unvalidated pointer;
// deciding which reading is correct is left to the address validator's
// callers, never to the type system. It is a union internally but is
// deliberately excluded from the union predicate.
type CString struct {
	u *Union
}

func (c *CString) Name() string   { return "cstring" }
func (c *CString) Size() uint64   { return c.u.Size() }
func (c *CString) Align() uint64  { return c.u.Align() }
func (c *CString) Kind() Kind     { return KindCString }
func (c *CString) String() string { return "cstring" }

// voidType is the pointee of a void pointer; it has no size.
type voidType struct{}

func (voidType) Name() string   { return "void" }
func (voidType) Size() uint64   { return 0 }
func (voidType) Align() uint64  { return 1 }
func (voidType) Kind() Kind     { return KindVoid }
func (voidType) String() string { return "void" }
