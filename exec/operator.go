// Package exec implements the operator layer that sits on top of storage:
// a thin base every operator embeds (memoized, execute-once semantics over
// up to two inputs, mirroring the source's AbstractOperator), a leaf that
// feeds a stored table into that layer, and the table scan operator.
package exec

import (
	"opossumdb/perrors"
	"opossumdb/storage"
)

// Operator produces a result table. Execute is idempotent: the first call
// computes and caches the result, every later call returns the cached
// table without recomputing it - operators in a plan DAG may be shared by
// more than one consumer.
type Operator interface {
	Execute() (*storage.Table, error)
}

// base is embedded by every concrete operator. It holds up to two input
// operators (GetTable uses zero, TableScan uses one; a future join would
// use two) and memoizes the owning operator's own result.
type base struct {
	left, right Operator
	result      *storage.Table
	done        bool
}

func (b *base) leftInputTable() (*storage.Table, error) {
	if b.left == nil {
		return nil, perrors.NewError(perrors.InternalError, "operator has no left input")
	}
	return b.left.Execute()
}

func (b *base) rightInputTable() (*storage.Table, error) {
	if b.right == nil {
		return nil, perrors.NewError(perrors.InternalError, "operator has no right input")
	}
	return b.right.Execute()
}

// memoize runs compute exactly once and caches its result for every
// subsequent call - the shared implementation behind each operator's
// public Execute method.
func (b *base) memoize(compute func() (*storage.Table, error)) (*storage.Table, error) {
	if b.done {
		return b.result, nil
	}
	t, err := compute()
	if err != nil {
		return nil, err
	}
	b.result = t
	b.done = true
	return t, nil
}

// GetTable is the zero-input leaf operator: it hands a catalog-resident
// table straight to its consumer.
type GetTable struct {
	base
	table *storage.Table
}

func NewGetTable(table *storage.Table) *GetTable {
	return &GetTable{table: table}
}

func (g *GetTable) Execute() (*storage.Table, error) {
	return g.memoize(func() (*storage.Table, error) { return g.table, nil })
}
