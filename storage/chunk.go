package storage

import (
	"opossumdb/perrors"
	"opossumdb/types"
)

// Chunk holds one segment per column, all sharing the same row count.
type Chunk struct {
	segments []Segment
}

func NewChunk() *Chunk { return &Chunk{} }

// AddSegment appends a segment to the chunk, rejecting a segment that is
// already present by identity (the same *ValueSegment/*DictionarySegment/
// *ReferenceSegment pointer added twice).
func (c *Chunk) AddSegment(s Segment) error {
	for _, existing := range c.segments {
		if existing == s {
			return perrors.NewError(perrors.DuplicateSegment, "segment already belongs to this chunk")
		}
	}
	c.segments = append(c.segments, s)
	return nil
}

// Append appends one value per column, dispatching each to its segment's
// Append. All segments must already be of value-segment kind; a chunk
// that has been compressed rejects further appends with FrozenSegment.
//
// A failure partway through must not leave the chunk's segments at
// mismatched lengths, so every segment that already grew this call is
// truncated back to its pre-call length before the error is returned.
func (c *Chunk) Append(values []types.Variant) error {
	if len(values) != len(c.segments) {
		return perrors.NewErrorf(perrors.OutOfBounds, "expected %d values, got %d", len(c.segments), len(values))
	}
	originalLen := c.Len()
	for i, seg := range c.segments {
		if err := seg.Append(values[i]); err != nil {
			for _, grown := range c.segments[:i] {
				_ = grown.Truncate(originalLen)
			}
			return err
		}
	}
	return nil
}

func (c *Chunk) GetSegment(col ColumnID) (Segment, error) {
	if int(col) >= len(c.segments) {
		return nil, perrors.NewErrorf(perrors.OutOfBounds, "column %d out of bounds for chunk with %d columns", col, len(c.segments))
	}
	return c.segments[col], nil
}

// ReplaceSegment swaps the segment at col for replacement in place,
// without touching the chunk's other columns.
func (c *Chunk) ReplaceSegment(col ColumnID, replacement Segment) error {
	if int(col) >= len(c.segments) {
		return perrors.NewErrorf(perrors.OutOfBounds, "column %d out of bounds for chunk with %d columns", col, len(c.segments))
	}
	c.segments[col] = replacement
	return nil
}

func (c *Chunk) ColumnCount() ColumnCount { return ColumnCount(len(c.segments)) }

func (c *Chunk) Len() int {
	if len(c.segments) == 0 {
		return 0
	}
	return c.segments[0].Len()
}
