package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opossumdb/perrors"
	"opossumdb/types"
)

// Mirrors the dictionary-encoding walkthrough: seven rows (six names, two of
// them repeated, plus one null), encoded into a four-entry sorted dictionary.
func TestDictionarySegmentEncodesNamesWithNull(t *testing.T) {
	src := NewValueSegment[string](true)
	for _, name := range []string{"Bill", "Steve", "Alexander", "Steve", "Hasso", "Bill", ""} {
		if name == "" {
			require.NoError(t, src.Append(types.Null()))
			continue
		}
		src.AppendTyped(name)
	}

	dict, err := NewDictionarySegment[string](src)
	require.NoError(t, err)

	require.Equal(t, []string{"Alexander", "Bill", "Hasso", "Steve"}, dict.Dict())
	require.Equal(t, ValueID(4), dict.NullValueID())
	require.Equal(t, 7, dict.Len())

	require.True(t, dict.IsNull(6))
	require.False(t, dict.IsNull(0))
	require.Equal(t, "Bill", dict.Get(0))
	require.Equal(t, "Steve", dict.Get(1))
	require.Equal(t, "Alexander", dict.Get(2))
	require.Equal(t, "Steve", dict.Get(3))
	require.Equal(t, "Hasso", dict.Get(4))
	require.Equal(t, "Bill", dict.Get(5))
}

// Mirrors the bound-lookup walkthrough over the dictionary {0,2,4,6,8,10}.
func TestDictionarySegmentLowerUpperBound(t *testing.T) {
	src := NewValueSegment[int32](false)
	for _, v := range []int32{0, 2, 4, 6, 8, 10} {
		src.AppendTyped(v)
	}
	dict, err := NewDictionarySegment[int32](src)
	require.NoError(t, err)
	require.Equal(t, []int32{0, 2, 4, 6, 8, 10}, dict.Dict())

	require.Equal(t, ValueID(2), dict.LowerBound(4))
	require.Equal(t, ValueID(3), dict.UpperBound(4))
	require.Equal(t, ValueID(0), dict.LowerBound(0))
	require.Equal(t, ValueID(0), dict.UpperBound(-1))
	require.Equal(t, InvalidValueID, dict.UpperBound(10))
	require.Equal(t, InvalidValueID, dict.LowerBound(11))
}

func TestDictionarySegmentAppendFails(t *testing.T) {
	src := NewValueSegment[int32](false)
	src.AppendTyped(1)
	dict, err := NewDictionarySegment[int32](src)
	require.NoError(t, err)
	err = dict.Append(types.Null())
	require.True(t, perrors.Is(err, perrors.FrozenSegment))
}

func TestDictionarySegmentMemoryEstimateEmptyIsZero(t *testing.T) {
	src := NewValueSegment[int32](false)
	dict, err := NewDictionarySegment[int32](src)
	require.NoError(t, err)
	require.Equal(t, uintptr(0), dict.MemoryEstimate())
}

func TestDictionarySegmentValueOfRejectsNullID(t *testing.T) {
	src := NewValueSegment[int32](false)
	src.AppendTyped(1)
	dict, err := NewDictionarySegment[int32](src)
	require.NoError(t, err)
	_, err = dict.ValueOf(dict.NullValueID())
	require.True(t, perrors.Is(err, perrors.OutOfBounds))
}
