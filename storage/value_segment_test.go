package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opossumdb/perrors"
	"opossumdb/types"
)

func TestValueSegmentAppendAndGet(t *testing.T) {
	seg := NewValueSegment[int32](false)
	require.NoError(t, seg.Append(types.FromInt32(7)))
	require.NoError(t, seg.Append(types.FromInt32(-3)))
	require.Equal(t, 2, seg.Len())
	require.Equal(t, int32(7), seg.Get(0))
	require.Equal(t, int32(-3), seg.Get(1))
}

func TestValueSegmentRejectsNullWhenNotNullable(t *testing.T) {
	seg := NewValueSegment[int32](false)
	err := seg.Append(types.Null())
	require.Error(t, err)
	require.True(t, perrors.Is(err, perrors.NullInNonNullable))
}

func TestValueSegmentNullable(t *testing.T) {
	seg := NewValueSegment[string](true)
	require.NoError(t, seg.Append(types.FromString("Bill")))
	require.NoError(t, seg.Append(types.Null()))
	require.False(t, seg.IsNull(0))
	require.True(t, seg.IsNull(1))

	v, err := seg.At(1)
	require.NoError(t, err)
	require.True(t, v.IsNull())
}

func TestValueSegmentAtOutOfBounds(t *testing.T) {
	seg := NewValueSegment[int32](false)
	_, err := seg.At(0)
	require.True(t, perrors.Is(err, perrors.OutOfBounds))
}

func TestValueSegmentAppendCastsStringLiteral(t *testing.T) {
	seg := NewValueSegment[int64](false)
	require.NoError(t, seg.Append(types.FromString("42")))
	require.Equal(t, int64(42), seg.Get(0))
}

func TestValueSegmentGetPanicsOnNull(t *testing.T) {
	seg := NewValueSegment[int32](true)
	require.NoError(t, seg.Append(types.Null()))
	require.Panics(t, func() { seg.Get(0) })
}
