package abi

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewProfileWidths(t *testing.T) {
	tests := []struct {
		name            string
		ptr, long, ldbl uint64
		wantErr         bool
	}{
		{"lp64", 8, 8, 16, false},
		{"lp32", 4, 4, 12, false},
		{"win32 style", 4, 4, 8, false},
		{"x87 10 byte", 4, 4, 10, false},
		{"bad pointer", 2, 8, 16, true},
		{"bad long", 8, 16, 16, true},
		{"bad long double", 8, 8, 11, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProfile(tt.ptr, tt.long, tt.ldbl)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewProfile(%d,%d,%d) error = %v, wantErr %v", tt.ptr, tt.long, tt.ldbl, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrBadWidth) {
				t.Errorf("error = %v, want ErrBadWidth", err)
			}
		})
	}
}

func TestTypesForMemoized(t *testing.T) {
	a, err := TypesFor(LP32)
	require.NoError(t, err)
	b, err := TypesFor(Profile{PointerSize: 4, LongSize: 4, LongDoubleSize: 12})
	require.NoError(t, err)
	require.Same(t, a, b, "equal triples must share one descriptor set")

	c, err := TypesFor(LP64)
	require.NoError(t, err)
	require.NotSame(t, a, c)
}

func TestScalarWidthsFollowProfile(t *testing.T) {
	lp32, err := TypesFor(LP32)
	require.NoError(t, err)
	lp64, err := TypesFor(LP64)
	require.NoError(t, err)

	if got := lp32.Long().Size(); got != 4 {
		t.Errorf("lp32 long size = %d, want 4", got)
	}
	if got := lp64.Long().Size(); got != 8 {
		t.Errorf("lp64 long size = %d, want 8", got)
	}
	if got := lp32.Pointer(nil).Size(); got != 4 {
		t.Errorf("lp32 pointer size = %d, want 4", got)
	}
	if got := lp64.Pointer(nil).Size(); got != 8 {
		t.Errorf("lp64 pointer size = %d, want 8", got)
	}
	// extended float is an opaque blob of the declared width
	if got := lp32.LongDouble().Size(); got != 12 {
		t.Errorf("lp32 long double size = %d, want 12", got)
	}
	if got := lp64.LongDouble().Size(); got != 16 {
		t.Errorf("lp64 long double size = %d, want 16", got)
	}
	// cstring is pointer sized either way
	if got := lp32.CString().Size(); got != 4 {
		t.Errorf("lp32 cstring size = %d, want 4", got)
	}
	if got := lp64.CString().Size(); got != 8 {
		t.Errorf("lp64 cstring size = %d, want 8", got)
	}
}

func TestStructLayoutPerTarget(t *testing.T) {
	// struct { char c; void *p; long l; short s; }
	build := func(types *Types) *Struct {
		char, err := types.Scalar("char")
		require.NoError(t, err)
		short, err := types.Scalar("short")
		require.NoError(t, err)
		s, err := types.Struct("node",
			Member{Name: "c", Type: char},
			Member{Name: "p", Type: types.Pointer(nil)},
			Member{Name: "l", Type: types.Long()},
			Member{Name: "s", Type: short},
		)
		require.NoError(t, err)
		return s
	}

	lp32, err := TypesFor(LP32)
	require.NoError(t, err)
	lp64, err := TypesFor(LP64)
	require.NoError(t, err)

	tests := []struct {
		name    string
		s       *Struct
		offsets []uint64
		size    uint64
	}{
		{"lp32", build(lp32), []uint64{0, 4, 8, 12}, 16},
		{"lp64", build(lp64), []uint64{0, 8, 16, 24}, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := tt.s.Fields()
			require.Len(t, fields, len(tt.offsets))
			for i, f := range fields {
				if f.Offset != tt.offsets[i] {
					t.Errorf("field %s offset = %d, want %d", f.Name, f.Offset, tt.offsets[i])
				}
			}
			if tt.s.Size() != tt.size {
				t.Errorf("size = %d, want %d", tt.s.Size(), tt.size)
			}
		})
	}
}

func TestStructLayoutDeterministic(t *testing.T) {
	types, err := TypesFor(LP64)
	require.NoError(t, err)

	build := func() *Struct {
		char, _ := types.Scalar("char")
		s, err := types.Struct("twice",
			Member{Name: "a", Type: char},
			Member{Name: "b", Type: types.Long()},
			Member{Name: "c", Type: types.Pointer(types.Long())},
		)
		require.NoError(t, err)
		return s
	}
	first, second := build(), build()
	require.Equal(t, first.Size(), second.Size())
	for i := range first.Fields() {
		require.Equal(t, first.Fields()[i].Offset, second.Fields()[i].Offset)
	}
}

func TestStructRejectsDuplicateField(t *testing.T) {
	types, err := TypesFor(LP64)
	require.NoError(t, err)
	_, err = types.Struct("dup",
		Member{Name: "x", Type: types.Long()},
		Member{Name: "x", Type: types.Long()},
	)
	require.Error(t, err)
}

func TestUnionLayout(t *testing.T) {
	types, err := TypesFor(LP64)
	require.NoError(t, err)
	char, _ := types.Scalar("char")
	u := types.Union("u",
		Member{Name: "c", Type: types.Array(char, 3)},
		Member{Name: "l", Type: types.Long()},
	)
	if u.Size() != 8 {
		t.Errorf("union size = %d, want 8", u.Size())
	}
	if u.Align() != 8 {
		t.Errorf("union align = %d, want 8", u.Align())
	}
}
