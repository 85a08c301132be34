package storage

import "opossumdb/types"

// SegmentKind tags which of the three segment variants a Segment is, so
// callers can check the variant (for example, detect a reference segment)
// without a type assertion.
type SegmentKind int

const (
	SegmentValueKind SegmentKind = iota
	SegmentDictionaryKind
	SegmentReferenceKind
)

// Segment is the shared, variant-blind contract every column segment
// implements - the capability-object rendering of the source's abstract
// segment base class, since Go has no class hierarchy to model it with.
type Segment interface {
	// Len returns the number of rows in this segment.
	Len() int
	// At returns the value at offset as an AllTypeVariant, or a null
	// variant if the row is null.
	At(offset ChunkOffset) (types.Variant, error)
	// Append adds a value to the segment. Only ValueSegment accepts
	// appends; dictionary and reference segments fail with FrozenSegment.
	Append(v types.Variant) error
	// Truncate discards every row beyond n, restoring a value segment to
	// a length it held earlier. Used to roll back the segments a
	// multi-column append already grew once a later column's append
	// fails, so a chunk never ends up with mismatched segment lengths.
	// Dictionary and reference segments, which never grow, fail with
	// FrozenSegment for any n other than their current length.
	Truncate(n int) error
	// MemoryEstimate reports an approximate number of bytes retained by
	// this segment.
	MemoryEstimate() uintptr
	// Kind reports which segment variant this is.
	Kind() SegmentKind
}
