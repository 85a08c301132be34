package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opossumdb/perrors"
	"opossumdb/types"
)

func baseTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable(0)
	require.NoError(t, tbl.AddColumn("name", "string", false))
	require.NoError(t, tbl.Append([]types.Variant{types.FromString("Alexander")}))
	require.NoError(t, tbl.Append([]types.Variant{types.FromString("Hasso")}))
	return tbl
}

func TestReferenceSegmentDereferences(t *testing.T) {
	tbl := baseTable(t)
	positions := NewPositionList()
	positions.Append(RowID{ChunkID: 0, Offset: 1})
	positions.Append(RowID{ChunkID: 0, Offset: 0})

	ref, err := NewReferenceSegment(tbl, 0, positions)
	require.NoError(t, err)
	require.Equal(t, 2, ref.Len())

	v, err := ref.At(0)
	require.NoError(t, err)
	require.Equal(t, "Hasso", v.String())

	s, ok, err := TypedValueAt[string](ref, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Alexander", s)
}

func TestReferenceSegmentNullRow(t *testing.T) {
	tbl := baseTable(t)
	positions := NewPositionList()
	positions.Append(NullRowID)

	ref, err := NewReferenceSegment(tbl, 0, positions)
	require.NoError(t, err)
	v, err := ref.At(0)
	require.NoError(t, err)
	require.True(t, v.IsNull())

	_, ok, err := TypedValueAt[string](ref, 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReferenceSegmentRejectsRecursiveReference(t *testing.T) {
	base := baseTable(t)
	positions := NewPositionList()
	positions.Append(RowID{ChunkID: 0, Offset: 0})
	first, err := NewReferenceSegment(base, 0, positions)
	require.NoError(t, err)

	outer := NewTable(0)
	require.NoError(t, outer.AddColumnDefinition("name", "string", false))
	chunk, err := outer.Chunk(0)
	require.NoError(t, err)
	require.NoError(t, chunk.AddSegment(first))

	_, err = NewReferenceSegment(outer, 0, NewPositionList())
	require.True(t, perrors.Is(err, perrors.RecursiveReference))
}

func TestReferenceSegmentAppendFails(t *testing.T) {
	tbl := baseTable(t)
	ref, err := NewReferenceSegment(tbl, 0, NewPositionList())
	require.NoError(t, err)
	err = ref.Append(types.FromInt32(1))
	require.True(t, perrors.Is(err, perrors.FrozenSegment))
}
