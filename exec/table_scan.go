package exec

import (
	"opossumdb/perrors"
	"opossumdb/storage"
	"opossumdb/types"
)

// CompareOp is one of the six comparisons a table scan's predicate may use.
type CompareOp int

const (
	OpEqual CompareOp = iota
	OpNotEqual
	OpLessThan
	OpLessOrEqual
	OpGreaterThan
	OpGreaterOrEqual
)

// Predicate is a single column-against-literal condition. A nil predicate
// on TableScan means "scan everything, no filtering".
type Predicate struct {
	Column storage.ColumnID
	Op     CompareOp
	Value  types.Variant
}

// TableScan filters its input table's rows against a single predicate (or
// passes every row through, if its predicate is nil) and returns a new
// table made entirely of reference segments over the table the rows
// logically belong to.
//
// If the input is itself a scan result (its columns are reference
// segments), the output references flatten straight through to the
// underlying base table rather than referencing the input - a reference
// segment never points at another reference segment.
type TableScan struct {
	base
	predicate *Predicate
}

func NewTableScan(input Operator, predicate *Predicate) *TableScan {
	return &TableScan{base: base{left: input}, predicate: predicate}
}

func (s *TableScan) Execute() (*storage.Table, error) {
	return s.memoize(s.scan)
}

func (s *TableScan) scan() (*storage.Table, error) {
	input, err := s.leftInputTable()
	if err != nil {
		return nil, err
	}
	colCount := int(input.ColumnCount())

	referenceMode, baseTable, baseColumns, err := detectReferenceMode(input, colCount)
	if err != nil {
		return nil, err
	}

	positions := storage.NewPositionList()
	for ci := 0; ci < input.ChunkCount(); ci++ {
		chunk, err := input.Chunk(storage.ChunkID(ci))
		if err != nil {
			return nil, err
		}
		localMatches, err := s.matchesInChunk(input, chunk)
		if err != nil {
			return nil, err
		}
		for _, offset := range localMatches {
			row := storage.RowID{ChunkID: storage.ChunkID(ci), Offset: offset}
			if referenceMode {
				anyRefSeg, err := chunk.GetSegment(0)
				if err != nil {
					return nil, err
				}
				row, err = anyRefSeg.(*storage.ReferenceSegment).RowIDAt(offset)
				if err != nil {
					return nil, err
				}
			}
			positions.Append(row)
		}
	}

	resultChunk := storage.NewChunk()
	names := make([]string, colCount)
	typeNames := make([]string, colCount)
	nullables := make([]bool, colCount)
	for col := 0; col < colCount; col++ {
		name, err := input.ColumnName(storage.ColumnID(col))
		if err != nil {
			return nil, err
		}
		typeName, err := input.ColumnType(storage.ColumnID(col))
		if err != nil {
			return nil, err
		}
		nullable, err := input.ColumnNullable(storage.ColumnID(col))
		if err != nil {
			return nil, err
		}
		names[col], typeNames[col], nullables[col] = name, typeName, nullable

		refTable, refCol := input, storage.ColumnID(col)
		if referenceMode {
			refTable, refCol = baseTable, baseColumns[col]
		}
		seg, err := storage.NewReferenceSegment(refTable, refCol, positions)
		if err != nil {
			return nil, err
		}
		if err := resultChunk.AddSegment(seg); err != nil {
			return nil, err
		}
	}
	return storage.NewResultTable(names, typeNames, nullables, resultChunk), nil
}

// detectReferenceMode inspects the input's first chunk's first column: if
// it is a reference segment, every column of every chunk is assumed to be
// one too (a scan's output is uniformly either all-reference or
// all-direct), and the flattening target is that segment's own referenced
// table and, per column, that column's own referenced column.
func detectReferenceMode(input *storage.Table, colCount int) (bool, *storage.Table, []storage.ColumnID, error) {
	if input.ChunkCount() == 0 || colCount == 0 {
		return false, nil, nil, nil
	}
	chunk, err := input.Chunk(0)
	if err != nil {
		return false, nil, nil, err
	}
	first, err := chunk.GetSegment(0)
	if err != nil {
		return false, nil, nil, err
	}
	if first.Kind() != storage.SegmentReferenceKind {
		return false, nil, nil, nil
	}
	baseTable := first.(*storage.ReferenceSegment).ReferencedTable()
	baseColumns := make([]storage.ColumnID, colCount)
	for col := 0; col < colCount; col++ {
		seg, err := chunk.GetSegment(storage.ColumnID(col))
		if err != nil {
			return false, nil, nil, err
		}
		ref, ok := seg.(*storage.ReferenceSegment)
		if !ok {
			return false, nil, nil, perrors.NewError(perrors.UnsupportedSegment, "scan result has a mix of reference and direct segments")
		}
		baseColumns[col] = ref.ReferencedColumn()
	}
	return true, baseTable, baseColumns, nil
}

func (s *TableScan) matchesInChunk(input *storage.Table, chunk *storage.Chunk) ([]storage.ChunkOffset, error) {
	if s.predicate == nil {
		return fullRange(chunk.Len()), nil
	}
	// A null search value can never be equal, unequal-in-the-usual-sense,
	// or ordered against a stored value the way two non-null values are:
	// every comparison against null is unknown except "is not equal",
	// which every non-null row satisfies and every null row does not.
	if s.predicate.Value.IsNull() {
		if s.predicate.Op != OpNotEqual {
			return nil, nil
		}
		seg, err := chunk.GetSegment(s.predicate.Column)
		if err != nil {
			return nil, err
		}
		return nonNullOffsets(seg)
	}
	typeName, err := input.ColumnType(s.predicate.Column)
	if err != nil {
		return nil, err
	}
	v := &matchVisitor{chunk: chunk, col: s.predicate.Column, op: s.predicate.Op, raw: s.predicate.Value}
	if err := types.ResolveDataType(typeName, v); err != nil {
		return nil, err
	}
	return v.matches, v.err
}

// nonNullOffsets returns every offset in seg whose value is not null,
// dispatching through Segment.At rather than a typed comparison since a
// null search value carries no type to resolve against.
func nonNullOffsets(seg storage.Segment) ([]storage.ChunkOffset, error) {
	matches := make([]storage.ChunkOffset, 0, seg.Len())
	for i := 0; i < seg.Len(); i++ {
		v, err := seg.At(storage.ChunkOffset(i))
		if err != nil {
			return nil, err
		}
		if !v.IsNull() {
			matches = append(matches, storage.ChunkOffset(i))
		}
	}
	return matches, nil
}

func fullRange(n int) []storage.ChunkOffset {
	out := make([]storage.ChunkOffset, n)
	for i := range out {
		out[i] = storage.ChunkOffset(i)
	}
	return out
}

// matchVisitor dispatches a predicate evaluation to the concrete scalar
// type of the column being scanned, the exec-layer counterpart of
// types.ResolveDataType's use inside storage for segment construction.
type matchVisitor struct {
	chunk   *storage.Chunk
	col     storage.ColumnID
	op      CompareOp
	raw     types.Variant
	matches []storage.ChunkOffset
	err     error
}

func (v *matchVisitor) VisitInt32()   { v.matches, v.err = matchChunk[int32](v.chunk, v.col, v.op, v.raw) }
func (v *matchVisitor) VisitInt64()   { v.matches, v.err = matchChunk[int64](v.chunk, v.col, v.op, v.raw) }
func (v *matchVisitor) VisitFloat32() { v.matches, v.err = matchChunk[float32](v.chunk, v.col, v.op, v.raw) }
func (v *matchVisitor) VisitFloat64() { v.matches, v.err = matchChunk[float64](v.chunk, v.col, v.op, v.raw) }
func (v *matchVisitor) VisitString()  { v.matches, v.err = matchChunk[string](v.chunk, v.col, v.op, v.raw) }

func matchChunk[T types.Scalar](chunk *storage.Chunk, col storage.ColumnID, op CompareOp, raw types.Variant) ([]storage.ChunkOffset, error) {
	bound, err := types.CastTo[T](raw)
	if err != nil {
		return nil, err
	}
	seg, err := chunk.GetSegment(col)
	if err != nil {
		return nil, err
	}
	switch concrete := seg.(type) {
	case *storage.ValueSegment[T]:
		return scanValueSegment(concrete, op, bound), nil
	case *storage.DictionarySegment[T]:
		return scanDictionarySegment(concrete, op, bound)
	case *storage.ReferenceSegment:
		return scanReferenceSegment[T](concrete, op, bound)
	default:
		return nil, perrors.NewError(perrors.UnsupportedSegment, "table scan cannot evaluate a predicate against this segment variant")
	}
}

func compareMatches(cmp int, op CompareOp) bool {
	switch op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLessThan:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	default:
		return false
	}
}

func scanValueSegment[T types.Scalar](vs *storage.ValueSegment[T], op CompareOp, bound T) []storage.ChunkOffset {
	matches := make([]storage.ChunkOffset, 0)
	for i := 0; i < vs.Len(); i++ {
		v, ok := vs.GetTypedValue(storage.ChunkOffset(i))
		if !ok {
			continue
		}
		if compareMatches(types.Compare(v, bound), op) {
			matches = append(matches, storage.ChunkOffset(i))
		}
	}
	return matches
}

func scanReferenceSegment[T types.Scalar](rs *storage.ReferenceSegment, op CompareOp, bound T) ([]storage.ChunkOffset, error) {
	matches := make([]storage.ChunkOffset, 0)
	for i := 0; i < rs.Len(); i++ {
		v, ok, err := storage.TypedValueAt[T](rs, storage.ChunkOffset(i))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if compareMatches(types.Compare(v, bound), op) {
			matches = append(matches, storage.ChunkOffset(i))
		}
	}
	return matches, nil
}

// idRange is a half-open [lo, hi) span of dictionary value ids.
type idRange struct{ lo, hi storage.ValueID }

// idRangesFor is the dictionary segment's scan-prune table: a single
// binary search against the sorted dictionary (via LowerBound/UpperBound)
// turns every comparison operator into one or two contiguous id ranges,
// so the attribute vector pass below never touches the dictionary again.
func idRangesFor[T types.Scalar](ds *storage.DictionarySegment[T], op CompareOp, bound T) []idRange {
	n := storage.ValueID(ds.UniqueValuesCount())
	lb := clampID(ds.LowerBound(bound), n)
	ub := clampID(ds.UpperBound(bound), n)
	switch op {
	case OpEqual:
		return []idRange{{lb, ub}}
	case OpNotEqual:
		return []idRange{{0, lb}, {ub, n}}
	case OpLessThan:
		return []idRange{{0, lb}}
	case OpLessOrEqual:
		return []idRange{{0, ub}}
	case OpGreaterThan:
		return []idRange{{ub, n}}
	case OpGreaterOrEqual:
		return []idRange{{lb, n}}
	default:
		return nil
	}
}

func clampID(id, n storage.ValueID) storage.ValueID {
	if id == storage.InvalidValueID {
		return n
	}
	return id
}

func idInRanges(id storage.ValueID, ranges []idRange) bool {
	for _, r := range ranges {
		if id >= r.lo && id < r.hi {
			return true
		}
	}
	return false
}

func scanDictionarySegment[T types.Scalar](ds *storage.DictionarySegment[T], op CompareOp, bound T) ([]storage.ChunkOffset, error) {
	ranges := idRangesFor(ds, op, bound)
	av := ds.AttributeVector()
	matches := make([]storage.ChunkOffset, 0)
	for i := 0; i < av.Len(); i++ {
		id, err := av.Get(storage.ChunkOffset(i))
		if err != nil {
			return nil, err
		}
		if idInRanges(id, ranges) {
			matches = append(matches, storage.ChunkOffset(i))
		}
	}
	return matches, nil
}
