package storage

import (
	"unsafe"

	"opossumdb/perrors"
	"opossumdb/types"
)

// ValueSegment is an append-only typed column. Null rows are tracked by
// an optional parallel flag vector that only exists when the segment is
// nullable; a null row still reserves a zero-value slot in values so
// Values() and NullFlags() stay index-aligned.
type ValueSegment[T types.Scalar] struct {
	nullable bool
	values   []T
	nulls    []bool
}

func NewValueSegment[T types.Scalar](nullable bool) *ValueSegment[T] {
	return &ValueSegment[T]{nullable: nullable}
}

func (s *ValueSegment[T]) Kind() SegmentKind { return SegmentValueKind }

func (s *ValueSegment[T]) Len() int { return len(s.values) }

func (s *ValueSegment[T]) Nullable() bool { return s.nullable }

func (s *ValueSegment[T]) Values() []T { return s.values }

func (s *ValueSegment[T]) NullFlags() []bool { return s.nulls }

// Append casts v to T (per types.CastTo's lexical-conversion rules) and
// appends it, or appends null if v is null and the segment is nullable.
func (s *ValueSegment[T]) Append(v types.Variant) error {
	if v.IsNull() {
		if !s.nullable {
			return perrors.NewError(perrors.NullInNonNullable, "cannot append null to a non-nullable value segment")
		}
		var zero T
		s.values = append(s.values, zero)
		s.nulls = append(s.nulls, true)
		return nil
	}
	val, err := types.CastTo[T](v)
	if err != nil {
		return err
	}
	s.values = append(s.values, val)
	if s.nullable {
		s.nulls = append(s.nulls, false)
	}
	return nil
}

// AppendTyped appends an already-typed, non-null value - used internally
// by dictionary construction and tests that build segments without going
// through the Variant boxing/unboxing path.
func (s *ValueSegment[T]) AppendTyped(v T) {
	s.values = append(s.values, v)
	if s.nullable {
		s.nulls = append(s.nulls, false)
	}
}

// Truncate discards every row beyond n. n must not exceed the segment's
// current length.
func (s *ValueSegment[T]) Truncate(n int) error {
	if n > len(s.values) {
		return perrors.NewErrorf(perrors.OutOfBounds, "cannot truncate a value segment of length %d to length %d", len(s.values), n)
	}
	s.values = s.values[:n]
	if s.nullable {
		s.nulls = s.nulls[:n]
	}
	return nil
}

func (s *ValueSegment[T]) IsNull(offset ChunkOffset) bool {
	if !s.nullable {
		return false
	}
	return s.nulls[offset]
}

// Get returns the value at offset, panicking if the row is null - the
// caller is expected to have checked IsNull first, mirroring the source's
// get() which asserts non-null.
func (s *ValueSegment[T]) Get(offset ChunkOffset) T {
	if s.IsNull(offset) {
		panic("storage: Get called on a null value")
	}
	return s.values[offset]
}

func (s *ValueSegment[T]) GetTypedValue(offset ChunkOffset) (T, bool) {
	var zero T
	if s.IsNull(offset) {
		return zero, false
	}
	return s.values[offset], true
}

func (s *ValueSegment[T]) At(offset ChunkOffset) (types.Variant, error) {
	if int(offset) >= len(s.values) {
		return types.Variant{}, perrors.NewErrorf(perrors.OutOfBounds, "offset %d out of bounds for value segment of length %d", offset, len(s.values))
	}
	if s.IsNull(offset) {
		return types.Null(), nil
	}
	return types.From(s.values[offset]), nil
}

func (s *ValueSegment[T]) MemoryEstimate() uintptr {
	var zero T
	size := unsafe.Sizeof(zero) * uintptr(len(s.values))
	size += uintptr(len(s.nulls))
	return size
}
