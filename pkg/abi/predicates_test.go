package abi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	types, err := TypesFor(LP32)
	require.NoError(t, err)

	char, err := types.Scalar("char")
	require.NoError(t, err)
	node, err := types.Struct("node", Member{Name: "next", Type: types.Pointer(nil)})
	require.NoError(t, err)
	u := types.Union("either", Member{Name: "c", Type: char}, Member{Name: "l", Type: types.Long()})

	tests := []struct {
		name string
		pred func(Type) bool
		typ  Type
		want bool
	}{
		{"scalar yes", IsScalar, char, true},
		{"scalar no", IsScalar, node, false},
		{"long double blob is scalar", IsScalar, types.LongDouble(), true},
		{"pointer yes", IsPointer, types.Pointer(char), true},
		{"pointer no", IsPointer, char, false},
		{"function pointer is a pointer", IsPointer, types.FuncPointer(), true},
		{"pointer to scalar yes", IsPointerToScalar, types.Pointer(char), true},
		{"pointer to scalar no", IsPointerToScalar, types.Pointer(node), false},
		{"pointer to struct yes", IsPointerToStruct, types.Pointer(node), true},
		{"pointer to struct no", IsPointerToStruct, types.Pointer(u), false},
		{"pointer to union yes", IsPointerToUnion, types.Pointer(u), true},
		{"pointer to void yes", IsPointerToVoid, types.Pointer(nil), true},
		{"pointer to void no", IsPointerToVoid, types.Pointer(char), false},
		{"func pointer is not void pointer", IsPointerToVoid, types.FuncPointer(), false},
		{"function pointer yes", IsFunctionPointer, types.FuncPointer(), true},
		{"function pointer no", IsFunctionPointer, types.Pointer(nil), false},
		{"scalar array yes", IsScalarArray, types.Array(char, 16), true},
		{"pointer array is not scalar array", IsScalarArray, types.Array(types.Pointer(char), 4), false},
		{"struct array is not scalar array", IsScalarArray, types.Array(node, 4), false},
		{"struct yes", IsStruct, node, true},
		{"struct no", IsStruct, u, false},
		{"union yes", IsUnion, u, true},
		{"union no", IsUnion, node, false},
		{"cstring is not a union", IsUnion, types.CString(), false},
		{"long double blob is not a union", IsUnion, types.LongDouble(), false},
		{"cstring yes", IsCString, types.CString(), true},
		{"cstring no", IsCString, u, false},
		{"nil is nothing", IsScalar, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.typ); got != tt.want {
				t.Errorf("predicate(%v) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}
