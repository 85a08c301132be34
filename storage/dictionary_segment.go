package storage

import (
	"sort"
	"unsafe"

	"opossumdb/perrors"
	"opossumdb/types"
)

// DictionarySegment stores a column as a sorted, distinct dictionary of
// values plus a width-compressed attribute vector of ids into it.
// null_value_id is fixed at dict.len() (one past the last valid id): this
// keeps dict[id] a direct index for every non-null id and never biases
// the attribute-vector width threshold, per spec §9.
type DictionarySegment[T types.Scalar] struct {
	dict        []T
	av          *AttributeVector
	nullValueID ValueID
}

// NewDictionarySegment builds a dictionary segment from a value segment.
// The insertion order of the source is irrelevant; only the distinct
// non-null values and their positions matter.
func NewDictionarySegment[T types.Scalar](src *ValueSegment[T]) (*DictionarySegment[T], error) {
	values := src.Values()
	distinct := make(map[T]struct{}, len(values))
	for i := range values {
		if !src.IsNull(ChunkOffset(i)) {
			distinct[values[i]] = struct{}{}
		}
	}
	dict := make([]T, 0, len(distinct))
	for v := range distinct {
		dict = append(dict, v)
	}
	sort.Slice(dict, func(i, j int) bool {
		return types.Compare(dict[i], dict[j]) < 0
	})

	nullValueID := ValueID(len(dict))
	idOf := make(map[T]ValueID, len(dict))
	for i, v := range dict {
		idOf[v] = ValueID(i)
	}

	ids := make([]ValueID, src.Len())
	for i := range ids {
		if src.IsNull(ChunkOffset(i)) {
			ids[i] = nullValueID
		} else {
			ids[i] = idOf[values[i]]
		}
	}

	av, err := NewAttributeVector(ids)
	if err != nil {
		return nil, err
	}
	return &DictionarySegment[T]{dict: dict, av: av, nullValueID: nullValueID}, nil
}

func (d *DictionarySegment[T]) Kind() SegmentKind { return SegmentDictionaryKind }

func (d *DictionarySegment[T]) Append(types.Variant) error {
	return perrors.NewError(perrors.FrozenSegment, "cannot append to a dictionary segment")
}

func (d *DictionarySegment[T]) Truncate(n int) error {
	if n == d.Len() {
		return nil
	}
	return perrors.NewError(perrors.FrozenSegment, "cannot truncate a dictionary segment")
}

func (d *DictionarySegment[T]) Dict() []T { return d.dict }

func (d *DictionarySegment[T]) AttributeVector() *AttributeVector { return d.av }

func (d *DictionarySegment[T]) UniqueValuesCount() int { return len(d.dict) }

func (d *DictionarySegment[T]) Len() int { return d.av.Len() }

func (d *DictionarySegment[T]) NullValueID() ValueID { return d.nullValueID }

// ValueOf returns the dictionary entry for id. id must be a valid,
// non-null id; callers (attribute-vector driven scans) never pass
// null_value_id here.
func (d *DictionarySegment[T]) ValueOf(id ValueID) (T, error) {
	var zero T
	if id == d.nullValueID || int(id) >= len(d.dict) {
		return zero, perrors.NewErrorf(perrors.OutOfBounds, "value id %d is out of range for a dictionary of size %d", id, len(d.dict))
	}
	return d.dict[id], nil
}

func (d *DictionarySegment[T]) IsNull(offset ChunkOffset) bool {
	id, err := d.av.Get(offset)
	if err != nil {
		return false
	}
	return id == d.nullValueID
}

func (d *DictionarySegment[T]) Get(offset ChunkOffset) T {
	v, ok := d.GetTypedValue(offset)
	if !ok {
		panic("storage: Get called on a null value")
	}
	return v
}

func (d *DictionarySegment[T]) GetTypedValue(offset ChunkOffset) (T, bool) {
	var zero T
	id, err := d.av.Get(offset)
	if err != nil || id == d.nullValueID {
		return zero, false
	}
	return d.dict[id], true
}

func (d *DictionarySegment[T]) At(offset ChunkOffset) (types.Variant, error) {
	id, err := d.av.Get(offset)
	if err != nil {
		return types.Variant{}, err
	}
	if id == d.nullValueID {
		return types.Null(), nil
	}
	v, err := d.ValueOf(id)
	if err != nil {
		return types.Variant{}, err
	}
	return types.From(v), nil
}

// LowerBound returns the index dict would need to be inserted at to keep
// it sorted - the first id whose value is >= v - or InvalidValueID if v
// is greater than every dictionary entry.
func (d *DictionarySegment[T]) LowerBound(v T) ValueID {
	idx := sort.Search(len(d.dict), func(i int) bool {
		return types.Compare(d.dict[i], v) >= 0
	})
	if idx == len(d.dict) {
		return InvalidValueID
	}
	return ValueID(idx)
}

// UpperBound returns the first id whose value is > v, or InvalidValueID
// if none exists.
func (d *DictionarySegment[T]) UpperBound(v T) ValueID {
	idx := sort.Search(len(d.dict), func(i int) bool {
		return types.Compare(d.dict[i], v) > 0
	})
	if idx == len(d.dict) {
		return InvalidValueID
	}
	return ValueID(idx)
}

func (d *DictionarySegment[T]) MemoryEstimate() uintptr {
	if len(d.dict) == 0 {
		return 0
	}
	var zero T
	return unsafe.Sizeof(zero)*uintptr(len(d.dict)) + d.av.MemoryEstimate()
}
