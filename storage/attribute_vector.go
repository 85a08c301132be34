package storage

import (
	"sort"

	"github.com/cznic/sortutil"

	"opossumdb/perrors"
)

// AttributeVector is the dictionary segment's id vector, stored at the
// narrowest of {8,16,32} bits that can hold every id it was built from.
type AttributeVector struct {
	width  int // bytes per slot: 1, 2, or 4
	data8  []uint8
	data16 []uint16
	data32 []uint32
}

// NewAttributeVector builds a width-compressed attribute vector from ids,
// picking the narrowest width that fits every value. Writing
// InvalidValueID is never allowed, even though the sentinel's own width
// would never be chosen by compression - it does not represent a real
// dictionary entry.
func NewAttributeVector(ids []ValueID) (*AttributeVector, error) {
	width, err := compressedWidth(ids)
	if err != nil {
		return nil, err
	}
	av := &AttributeVector{width: width}
	switch width {
	case 1:
		av.data8 = make([]uint8, len(ids))
	case 2:
		av.data16 = make([]uint16, len(ids))
	case 4:
		av.data32 = make([]uint32, len(ids))
	}
	for i, id := range ids {
		if err := av.Set(ChunkOffset(i), id); err != nil {
			return nil, err
		}
	}
	return av, nil
}

// compressedWidth picks the narrowest of {1,2,4} bytes that fits every id
// in ids. The incoming slice is sorted (via the same sortutil.Uint32Slice
// pattern the teacher uses to sort sample counts before building a
// count-min sketch) so the maximum is simply the last element, instead of
// a manual running-max reduction.
func compressedWidth(ids []ValueID) (int, error) {
	if len(ids) == 0 {
		return 1, nil
	}
	sorted := make([]uint32, len(ids))
	for i, id := range ids {
		if id == InvalidValueID {
			return 0, perrors.NewError(perrors.AttributeWidthOverflow, "cannot store INVALID_VALUE_ID in an attribute vector")
		}
		sorted[i] = uint32(id)
	}
	sort.Sort(sortutil.Uint32Slice(sorted))
	max := sorted[len(sorted)-1]
	switch {
	case max <= 0xFF:
		return 1, nil
	case max <= 0xFFFF:
		return 2, nil
	default:
		return 4, nil
	}
}

func (av *AttributeVector) Len() int {
	switch av.width {
	case 1:
		return len(av.data8)
	case 2:
		return len(av.data16)
	default:
		return len(av.data32)
	}
}

// Width reports the number of bytes used per slot.
func (av *AttributeVector) Width() int { return av.width }

func (av *AttributeVector) Get(i ChunkOffset) (ValueID, error) {
	if int(i) >= av.Len() {
		return 0, perrors.NewErrorf(perrors.OutOfBounds, "offset %d out of bounds for attribute vector of length %d", i, av.Len())
	}
	switch av.width {
	case 1:
		return ValueID(av.data8[i]), nil
	case 2:
		return ValueID(av.data16[i]), nil
	default:
		return ValueID(av.data32[i]), nil
	}
}

func (av *AttributeVector) Set(i ChunkOffset, id ValueID) error {
	if int(i) >= av.Len() {
		return perrors.NewErrorf(perrors.OutOfBounds, "offset %d out of bounds for attribute vector of length %d", i, av.Len())
	}
	if id == InvalidValueID {
		return perrors.NewError(perrors.AttributeWidthOverflow, "cannot store INVALID_VALUE_ID in an attribute vector")
	}
	if !fitsWidth(id, av.width) {
		return perrors.NewErrorf(perrors.AttributeWidthOverflow, "value id %d does not fit in a %d-bit attribute vector", id, av.width*8)
	}
	switch av.width {
	case 1:
		av.data8[i] = uint8(id)
	case 2:
		av.data16[i] = uint16(id)
	default:
		av.data32[i] = uint32(id)
	}
	return nil
}

func fitsWidth(id ValueID, width int) bool {
	switch width {
	case 1:
		return id <= 0xFF
	case 2:
		return id <= 0xFFFF
	default:
		return true
	}
}

func (av *AttributeVector) MemoryEstimate() uintptr {
	return uintptr(av.width * av.Len())
}
