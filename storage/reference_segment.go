package storage

import (
	"unsafe"

	"opossumdb/perrors"
	"opossumdb/types"
)

// PositionList is the shared, ordered list of row ids that defines a scan
// result's rows. Multiple reference segments forming the columns of one
// result table share a single PositionList, so a row is identified by a
// single offset across all of that result's columns.
type PositionList struct {
	rows []RowID
}

func NewPositionList() *PositionList { return &PositionList{} }

func (p *PositionList) Append(id RowID) { p.rows = append(p.rows, id) }

func (p *PositionList) Len() int { return len(p.rows) }

func (p *PositionList) Get(offset ChunkOffset) (RowID, error) {
	if int(offset) >= len(p.rows) {
		return RowID{}, perrors.NewErrorf(perrors.OutOfBounds, "offset %d out of bounds for position list of length %d", offset, len(p.rows))
	}
	return p.rows[offset], nil
}

// ReferenceSegment is a logical view onto a base table: it carries no
// data of its own, only a pointer at a (table, column) pair and a shared
// position list of which rows of that pair to expose.
type ReferenceSegment struct {
	referencedTable  *Table
	referencedColumn ColumnID
	positions        *PositionList
}

// NewReferenceSegment constructs a view over referencedTable's column
// referencedColumn. The referenced column must not itself hold reference
// segments - callers (the table scan operator) are responsible for
// flattening reference-of-reference before constructing one of these;
// this is asserted here as a last line of defense.
func NewReferenceSegment(referencedTable *Table, referencedColumn ColumnID, positions *PositionList) (*ReferenceSegment, error) {
	if referencedTable.ChunkCount() > 0 {
		chunk, err := referencedTable.Chunk(0)
		if err != nil {
			return nil, err
		}
		if chunk.ColumnCount() > 0 {
			seg, err := chunk.GetSegment(referencedColumn)
			if err != nil {
				return nil, err
			}
			if seg.Kind() == SegmentReferenceKind {
				return nil, perrors.NewError(perrors.RecursiveReference, "reference segment cannot reference another reference segment")
			}
		}
	}
	return &ReferenceSegment{
		referencedTable:  referencedTable,
		referencedColumn: referencedColumn,
		positions:        positions,
	}, nil
}

func (r *ReferenceSegment) Kind() SegmentKind { return SegmentReferenceKind }

func (r *ReferenceSegment) Append(types.Variant) error {
	return perrors.NewError(perrors.FrozenSegment, "cannot append to a reference segment")
}

func (r *ReferenceSegment) Truncate(n int) error {
	if n == r.Len() {
		return nil
	}
	return perrors.NewError(perrors.FrozenSegment, "cannot truncate a reference segment")
}

func (r *ReferenceSegment) Len() int { return r.positions.Len() }

func (r *ReferenceSegment) PositionList() *PositionList { return r.positions }

func (r *ReferenceSegment) ReferencedTable() *Table { return r.referencedTable }

func (r *ReferenceSegment) ReferencedColumn() ColumnID { return r.referencedColumn }

// RowIDAt returns the underlying row id at offset, without dereferencing
// it - used by the table scan operator to flatten reference-of-reference
// results (it pushes this row id, not (chunk, offset) of this segment).
func (r *ReferenceSegment) RowIDAt(offset ChunkOffset) (RowID, error) {
	return r.positions.Get(offset)
}

// underlyingSegment resolves the base segment a given offset dereferences
// to, failing with RecursiveReference if that segment is itself a
// reference - the first hop never nests.
func (r *ReferenceSegment) underlyingSegment(row RowID) (Segment, error) {
	chunk, err := r.referencedTable.Chunk(row.ChunkID)
	if err != nil {
		return nil, err
	}
	seg, err := chunk.GetSegment(r.referencedColumn)
	if err != nil {
		return nil, err
	}
	if seg.Kind() == SegmentReferenceKind {
		return nil, perrors.NewError(perrors.RecursiveReference, "reference segment only supports referencing value or dictionary segments")
	}
	return seg, nil
}

func (r *ReferenceSegment) At(offset ChunkOffset) (types.Variant, error) {
	row, err := r.positions.Get(offset)
	if err != nil {
		return types.Variant{}, err
	}
	if row.IsNull() {
		return types.Null(), nil
	}
	seg, err := r.underlyingSegment(row)
	if err != nil {
		return types.Variant{}, err
	}
	return seg.At(row.Offset)
}

// TypedValueAt returns the typed, non-null value at offset, dispatching
// on the underlying segment's concrete variant (value or dictionary).
func TypedValueAt[T types.Scalar](r *ReferenceSegment, offset ChunkOffset) (T, bool, error) {
	var zero T
	row, err := r.positions.Get(offset)
	if err != nil {
		return zero, false, err
	}
	if row.IsNull() {
		return zero, false, nil
	}
	seg, err := r.underlyingSegment(row)
	if err != nil {
		return zero, false, err
	}
	switch s := seg.(type) {
	case *ValueSegment[T]:
		v, ok := s.GetTypedValue(row.Offset)
		return v, ok, nil
	case *DictionarySegment[T]:
		v, ok := s.GetTypedValue(row.Offset)
		return v, ok, nil
	default:
		return zero, false, perrors.NewError(perrors.UnsupportedSegment, "reference segment points at an unsupported segment variant")
	}
}

// MemoryEstimate is a fixed header size: the position list is shared and
// must not be double-counted against every reference segment that points
// at it.
func (r *ReferenceSegment) MemoryEstimate() uintptr {
	return unsafe.Sizeof(*r)
}
