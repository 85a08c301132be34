package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opossumdb/perrors"
)

func TestKindForName(t *testing.T) {
	cases := map[string]Kind{
		"int":    KindInt32,
		"long":   KindInt64,
		"float":  KindFloat32,
		"double": KindFloat64,
		"string": KindString,
	}
	for name, want := range cases {
		got, err := KindForName(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := KindForName("bool")
	require.Error(t, err)
	require.True(t, perrors.Is(err, perrors.UnknownType))
}

func TestCastToExactKind(t *testing.T) {
	v, err := CastTo[int32](FromInt32(42))
	require.NoError(t, err)
	require.Equal(t, int32(42), v)
}

func TestCastToStringToNumeric(t *testing.T) {
	v, err := CastTo[int64](FromString("123"))
	require.NoError(t, err)
	require.Equal(t, int64(123), v)

	_, err = CastTo[int64](FromString("not-a-number"))
	require.Error(t, err)
}

func TestCastToNumericToString(t *testing.T) {
	s, err := CastTo[string](FromInt32(7))
	require.NoError(t, err)
	require.Equal(t, "7", s)
}

func TestCastToPrecisionLoss(t *testing.T) {
	_, err := CastTo[int32](FromFloat64(1.5))
	require.Error(t, err)

	v, err := CastTo[int32](FromFloat64(4.0))
	require.NoError(t, err)
	require.Equal(t, int32(4), v)
}

func TestCastToNull(t *testing.T) {
	_, err := CastTo[int32](Null())
	require.Error(t, err)
}

func TestResolveDataTypeUnknown(t *testing.T) {
	err := ResolveDataType("bogus", recordingVisitor{})
	require.Error(t, err)
}

type recordingVisitor struct{}

func (recordingVisitor) VisitInt32()   {}
func (recordingVisitor) VisitInt64()   {}
func (recordingVisitor) VisitFloat32() {}
func (recordingVisitor) VisitFloat64() {}
func (recordingVisitor) VisitString()  {}

func TestCompare(t *testing.T) {
	require.Equal(t, -1, Compare[int32](1, 2))
	require.Equal(t, 1, Compare[string]("b", "a"))
	require.Equal(t, 0, Compare[float64](1.5, 1.5))
}
