package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opossumdb/perrors"
	"opossumdb/types"
)

func newPeopleTable(t *testing.T, targetChunkSize int) *Table {
	t.Helper()
	tbl := NewTable(targetChunkSize)
	require.NoError(t, tbl.AddColumn("id", "int", false))
	require.NoError(t, tbl.AddColumn("name", "string", true))
	return tbl
}

func TestTableAddColumnAfterRowsFails(t *testing.T) {
	tbl := newPeopleTable(t, 0)
	require.NoError(t, tbl.Append([]types.Variant{types.FromInt32(1), types.FromString("Bill")}))
	err := tbl.AddColumn("extra", "long", false)
	require.True(t, perrors.Is(err, perrors.SchemaFrozen))
}

func TestTableAddColumnDuplicateName(t *testing.T) {
	tbl := newPeopleTable(t, 0)
	err := tbl.AddColumn("id", "long", false)
	require.True(t, perrors.Is(err, perrors.DuplicateColumn))
}

func TestTableAddColumnUnknownType(t *testing.T) {
	tbl := NewTable(0)
	err := tbl.AddColumn("x", "bool", false)
	require.True(t, perrors.Is(err, perrors.UnknownType))
}

func TestTableAppendSplitsChunksAtTargetSize(t *testing.T) {
	tbl := newPeopleTable(t, 2)
	for i := int32(0); i < 5; i++ {
		require.NoError(t, tbl.Append([]types.Variant{types.FromInt32(i), types.Null()}))
	}
	require.Equal(t, 5, tbl.RowCount())
	require.Equal(t, 3, tbl.ChunkCount())

	c0, err := tbl.Chunk(0)
	require.NoError(t, err)
	require.Equal(t, 2, c0.Len())
	c2, err := tbl.Chunk(2)
	require.NoError(t, err)
	require.Equal(t, 1, c2.Len())
}

func TestTableCompressChunkAppendsFreshChunkAndSwaps(t *testing.T) {
	tbl := newPeopleTable(t, 0)
	for _, name := range []string{"Bill", "Steve", "Alexander", "Steve", "Hasso"} {
		require.NoError(t, tbl.Append([]types.Variant{types.FromInt32(1), types.FromString(name)}))
	}
	require.Equal(t, 1, tbl.ChunkCount())

	require.NoError(t, tbl.CompressChunk(0))
	require.Equal(t, 2, tbl.ChunkCount())

	compressed, err := tbl.Chunk(0)
	require.NoError(t, err)
	seg, err := compressed.GetSegment(1)
	require.NoError(t, err)
	require.Equal(t, SegmentDictionaryKind, seg.Kind())
	require.Equal(t, 5, compressed.Len())

	fresh, err := tbl.Chunk(1)
	require.NoError(t, err)
	require.Equal(t, 0, fresh.Len())
	freshSeg, err := fresh.GetSegment(0)
	require.NoError(t, err)
	require.Equal(t, SegmentValueKind, freshSeg.Kind())
}

func TestTableCompressChunkTwiceFails(t *testing.T) {
	tbl := newPeopleTable(t, 0)
	require.NoError(t, tbl.Append([]types.Variant{types.FromInt32(1), types.FromString("Bill")}))
	require.NoError(t, tbl.CompressChunk(0))

	err := tbl.CompressChunk(0)
	require.True(t, perrors.Is(err, perrors.FrozenSegment))
	// the failed second compression must not have appended another chunk
	require.Equal(t, 2, tbl.ChunkCount())
}

func TestTableAppendAfterCompressionLandsInNewChunk(t *testing.T) {
	tbl := newPeopleTable(t, 0)
	require.NoError(t, tbl.Append([]types.Variant{types.FromInt32(1), types.FromString("Bill")}))
	require.NoError(t, tbl.CompressChunk(0))

	require.NoError(t, tbl.Append([]types.Variant{types.FromInt32(2), types.FromString("Steve")}))
	require.Equal(t, 2, tbl.RowCount())

	sealed, err := tbl.Chunk(0)
	require.NoError(t, err)
	require.Equal(t, 1, sealed.Len())
	active, err := tbl.Chunk(1)
	require.NoError(t, err)
	require.Equal(t, 1, active.Len())
}

func TestTableColumnAccessors(t *testing.T) {
	tbl := newPeopleTable(t, 0)
	id, err := tbl.ColumnIDByName("name")
	require.NoError(t, err)
	require.Equal(t, ColumnID(1), id)

	_, err = tbl.ColumnIDByName("missing")
	require.True(t, perrors.Is(err, perrors.UnknownColumn))

	name, err := tbl.ColumnName(0)
	require.NoError(t, err)
	require.Equal(t, "id", name)

	typ, err := tbl.ColumnType(1)
	require.NoError(t, err)
	require.Equal(t, "string", typ)

	nullable, err := tbl.ColumnNullable(1)
	require.NoError(t, err)
	require.True(t, nullable)
}
