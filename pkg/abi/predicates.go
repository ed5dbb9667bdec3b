package abi

// Predicates over the closed descriptor variant set. Each is a pure,
// exhaustive match on the kind tag; passing nil returns false.

// IsScalar reports whether t is a basic type. The opaque long-double blob
// counts as a scalar even though it carries no interpretable layout.
func IsScalar(t Type) bool {
	return t != nil && t.Kind() == KindScalar
}

// IsPointer reports whether t is a (data or function) pointer.
func IsPointer(t Type) bool {
	return t != nil && t.Kind() == KindPointer
}

// IsPointerToScalar reports whether t points at a basic type.
func IsPointerToScalar(t Type) bool {
	p, ok := t.(*Pointer)
	return ok && !p.fn && p.pointee.Kind() == KindScalar
}

// IsPointerToStruct reports whether t points at a struct.
func IsPointerToStruct(t Type) bool {
	p, ok := t.(*Pointer)
	return ok && !p.fn && p.pointee.Kind() == KindStruct
}

// IsPointerToUnion reports whether t points at a union.
func IsPointerToUnion(t Type) bool {
	p, ok := t.(*Pointer)
	return ok && !p.fn && p.pointee.Kind() == KindUnion
}

// IsPointerToVoid reports whether t is a void pointer.
func IsPointerToVoid(t Type) bool {
	p, ok := t.(*Pointer)
	return ok && !p.fn && p.pointee.Kind() == KindVoid
}

// IsFunctionPointer reports whether t is a function pointer.
func IsFunctionPointer(t Type) bool {
	p, ok := t.(*Pointer)
	return ok && p.fn
}

// IsScalarArray reports whether t is an array whose elements are basic
// types (not pointers, not records).
func IsScalarArray(t Type) bool {
	a, ok := t.(*Array)
	return ok && a.elem.Kind() == KindScalar
}

// IsStruct reports whether t is a struct.
func IsStruct(t Type) bool {
	return t != nil && t.Kind() == KindStruct
}

// IsUnion reports whether t is a plain union. The cstring type and the
// opaque long-double blob are excluded even though both are unions or
// blobs internally; they have their own tags.
func IsUnion(t Type) bool {
	return t != nil && t.Kind() == KindUnion
}

// IsCString reports whether t is the bytes-or-pointer string type.
func IsCString(t Type) bool {
	return t != nil && t.Kind() == KindCString
}
