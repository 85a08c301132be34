package storage

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cznic/mathutil"

	"opossumdb/perrors"
	"opossumdb/types"
)

// Table is a schema plus an ordered sequence of chunks. Column definitions
// must all be added before the first row (add_column before any append);
// chunks are created lazily on append-overflow and atomically swapped for
// dictionary chunks by CompressChunk.
type Table struct {
	columnNames     []string
	columnTypes     []string
	columnNullable  []bool
	chunks          []*Chunk
	targetChunkSize int
}

// NewTable creates a table with one empty chunk. A targetChunkSize of 0
// disables splitting: the single chunk grows without bound.
func NewTable(targetChunkSize int) *Table {
	return &Table{
		targetChunkSize: targetChunkSize,
		chunks:          []*Chunk{NewChunk()},
	}
}

func (t *Table) TargetChunkSize() int { return t.targetChunkSize }

// NewResultTable wraps a single already-built chunk (typically one made of
// reference segments) as a table, for operators that produce a result
// without going through the append/compress lifecycle - the scan
// operator's output table, notably.
func NewResultTable(columnNames, columnTypes []string, columnNullable []bool, chunk *Chunk) *Table {
	return &Table{
		columnNames:    columnNames,
		columnTypes:    columnTypes,
		columnNullable: columnNullable,
		chunks:         []*Chunk{chunk},
	}
}

// AddColumnDefinition records a column's schema without materializing a
// segment for it. It fails with SchemaFrozen once any row exists, and
// DuplicateColumn on a repeated name.
func (t *Table) AddColumnDefinition(name, typeName string, nullable bool) error {
	if t.RowCount() > 0 {
		return perrors.NewError(perrors.SchemaFrozen, "cannot add a column after rows have been inserted")
	}
	for _, existing := range t.columnNames {
		if existing == name {
			return perrors.NewErrorf(perrors.DuplicateColumn, "column %q already exists", name)
		}
	}
	if _, err := types.KindForName(typeName); err != nil {
		return err
	}
	t.columnNames = append(t.columnNames, name)
	t.columnTypes = append(t.columnTypes, typeName)
	t.columnNullable = append(t.columnNullable, nullable)
	return nil
}

// AddColumn records the column's schema and materializes an empty value
// segment for it in the table's single (necessarily empty) chunk.
func (t *Table) AddColumn(name, typeName string, nullable bool) error {
	if err := t.AddColumnDefinition(name, typeName, nullable); err != nil {
		return err
	}
	seg, err := newValueSegmentFor(typeName, nullable)
	if err != nil {
		return err
	}
	return t.chunks[0].AddSegment(seg)
}

func (t *Table) createChunk() (*Chunk, error) {
	c := NewChunk()
	for i := range t.columnNames {
		seg, err := newValueSegmentFor(t.columnTypes[i], t.columnNullable[i])
		if err != nil {
			return nil, err
		}
		if err := c.AddSegment(seg); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Append inserts one row. If the active chunk has reached the target
// size, a fresh chunk mirroring the schema is created first.
func (t *Table) Append(values []types.Variant) error {
	active := t.chunks[len(t.chunks)-1]
	// mathutil.Max guards against a negative target leaking in from a
	// caller-supplied configuration; 0 keeps the "unbounded" meaning.
	limit := mathutil.Max(t.targetChunkSize, 0)
	if limit > 0 && active.Len() >= limit {
		next, err := t.createChunk()
		if err != nil {
			return err
		}
		t.chunks = append(t.chunks, next)
		active = next
	}
	return active.Append(values)
}

func (t *Table) RowCount() int {
	count := 0
	for _, c := range t.chunks {
		count += c.Len()
	}
	return count
}

func (t *Table) ColumnCount() ColumnCount { return ColumnCount(len(t.columnNames)) }

func (t *Table) ChunkCount() int { return len(t.chunks) }

func (t *Table) Chunk(id ChunkID) (*Chunk, error) {
	if int(id) >= len(t.chunks) {
		return nil, perrors.NewErrorf(perrors.OutOfBounds, "chunk %d out of bounds for table with %d chunks", id, len(t.chunks))
	}
	return t.chunks[id], nil
}

func (t *Table) ColumnIDByName(name string) (ColumnID, error) {
	for i, existing := range t.columnNames {
		if existing == name {
			return ColumnID(i), nil
		}
	}
	return 0, perrors.NewErrorf(perrors.UnknownColumn, "column %q not found", name)
}

func (t *Table) ColumnName(id ColumnID) (string, error) {
	if int(id) >= len(t.columnNames) {
		return "", perrors.NewErrorf(perrors.OutOfBounds, "column %d does not exist", id)
	}
	return t.columnNames[id], nil
}

func (t *Table) ColumnType(id ColumnID) (string, error) {
	if int(id) >= len(t.columnTypes) {
		return "", perrors.NewErrorf(perrors.OutOfBounds, "column %d does not exist", id)
	}
	return t.columnTypes[id], nil
}

func (t *Table) ColumnNullable(id ColumnID) (bool, error) {
	if int(id) >= len(t.columnNullable) {
		return false, perrors.NewErrorf(perrors.OutOfBounds, "column %d does not exist", id)
	}
	return t.columnNullable[id], nil
}

// CompressChunk replaces chunk id's value segments with dictionary
// segments. A fresh, appendable chunk is created and appended before any
// dictionary is built, so a concurrent append lands in a disjoint chunk
// rather than blocking on, or being lost to, the compression.
func (t *Table) CompressChunk(id ChunkID) error {
	target, err := t.Chunk(id)
	if err != nil {
		return err
	}
	colCount := int(target.ColumnCount())
	for col := 0; col < colCount; col++ {
		seg, err := target.GetSegment(ColumnID(col))
		if err != nil {
			return err
		}
		if seg.Kind() != SegmentValueKind {
			return perrors.NewErrorf(perrors.FrozenSegment, "chunk %d column %d is already compressed", id, col)
		}
	}

	next, err := t.createChunk()
	if err != nil {
		return err
	}
	t.chunks = append(t.chunks, next)
	log.WithFields(log.Fields{"chunk": id, "columns": colCount}).Debug("compressing chunk")

	compressed := make([]Segment, colCount)
	g := new(errgroup.Group)
	for col := 0; col < colCount; col++ {
		col := col
		g.Go(func() error {
			seg, err := target.GetSegment(ColumnID(col))
			if err != nil {
				return err
			}
			v := &dictionaryBuilder{src: seg}
			if err := types.ResolveDataType(t.columnTypes[col], v); err != nil {
				return err
			}
			if v.err != nil {
				return v.err
			}
			compressed[col] = v.result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sealed := NewChunk()
	for _, seg := range compressed {
		if err := sealed.AddSegment(seg); err != nil {
			return err
		}
	}
	t.chunks[id] = sealed
	return nil
}

// newValueSegmentFor materializes an empty, nullable-as-requested value
// segment of the type named by typeName.
func newValueSegmentFor(typeName string, nullable bool) (Segment, error) {
	v := &valueSegmentBuilder{nullable: nullable}
	if err := types.ResolveDataType(typeName, v); err != nil {
		return nil, err
	}
	return v.result, nil
}

type valueSegmentBuilder struct {
	nullable bool
	result   Segment
}

func (b *valueSegmentBuilder) VisitInt32()   { b.result = NewValueSegment[int32](b.nullable) }
func (b *valueSegmentBuilder) VisitInt64()   { b.result = NewValueSegment[int64](b.nullable) }
func (b *valueSegmentBuilder) VisitFloat32() { b.result = NewValueSegment[float32](b.nullable) }
func (b *valueSegmentBuilder) VisitFloat64() { b.result = NewValueSegment[float64](b.nullable) }
func (b *valueSegmentBuilder) VisitString()  { b.result = NewValueSegment[string](b.nullable) }

type dictionaryBuilder struct {
	src    Segment
	result Segment
	err    error
}

func buildDictionaryFrom[T types.Scalar](src Segment) (Segment, error) {
	vs, ok := src.(*ValueSegment[T])
	if !ok {
		return nil, perrors.NewError(perrors.FrozenSegment, "cannot compress a segment that is not a value segment")
	}
	return NewDictionarySegment[T](vs)
}

func (b *dictionaryBuilder) VisitInt32()   { b.result, b.err = buildDictionaryFrom[int32](b.src) }
func (b *dictionaryBuilder) VisitInt64()   { b.result, b.err = buildDictionaryFrom[int64](b.src) }
func (b *dictionaryBuilder) VisitFloat32() { b.result, b.err = buildDictionaryFrom[float32](b.src) }
func (b *dictionaryBuilder) VisitFloat64() { b.result, b.err = buildDictionaryFrom[float64](b.src) }
func (b *dictionaryBuilder) VisitString()  { b.result, b.err = buildDictionaryFrom[string](b.src) }
