package exec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"opossumdb/perrors"
	"opossumdb/storage"
)

func TestGetTableExecuteMemoizes(t *testing.T) {
	tbl := storage.NewTable(0)
	leaf := NewGetTable(tbl)
	first, err := leaf.Execute()
	require.NoError(t, err)
	require.Same(t, tbl, first)

	second, err := leaf.Execute()
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestBaseRejectsMissingInputs(t *testing.T) {
	var b base
	_, err := b.leftInputTable()
	require.True(t, perrors.Is(err, perrors.InternalError))
	_, err = b.rightInputTable()
	require.True(t, perrors.Is(err, perrors.InternalError))
}
