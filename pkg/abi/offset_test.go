package abi

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestOffsetOf(t *testing.T) {
	types, err := TypesFor(LP64)
	require.NoError(t, err)
	char, _ := types.Scalar("char")
	task, err := types.Struct("task",
		Member{Name: "state", Type: types.Long()},
		Member{Name: "flags", Type: char},
		Member{Name: "next", Type: types.Pointer(nil)},
	)
	require.NoError(t, err)

	off, err := OffsetOf(task, "next")
	require.NoError(t, err)
	require.Equal(t, uint64(16), off)

	_, err = OffsetOf(task, "prev")
	require.ErrorIs(t, err, ErrUnknownField)

	_, err = OffsetOf(types.Long(), "anything")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestContainerOf(t *testing.T) {
	types, err := TypesFor(LP64)
	require.NoError(t, err)
	task, err := types.Struct("task",
		Member{Name: "state", Type: types.Long()},
		Member{Name: "next", Type: types.Pointer(nil)},
	)
	require.NoError(t, err)

	const base = uint64(0x7f0000001000)
	off, err := OffsetOf(task, "next")
	require.NoError(t, err)

	got, err := ContainerOf(base+off, task, "next")
	require.NoError(t, err)
	require.Equal(t, base, got, "container_of must invert offset_of")

	if _, err := ContainerOf(base, task, "missing"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("ContainerOf unknown field: err = %v, want ErrUnknownField", err)
	}
}
