package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"opossumdb/perrors"
	"opossumdb/storage"
	"opossumdb/types"
)

func sampleTable(t *testing.T) *storage.Table {
	t.Helper()
	tbl := storage.NewTable(0)
	require.NoError(t, tbl.AddColumn("id", "int", false))
	return tbl
}

func TestCatalogAddGetDrop(t *testing.T) {
	c := New()
	tbl := sampleTable(t)
	require.NoError(t, c.AddTable("people", tbl))
	require.True(t, c.HasTable("people"))

	got, err := c.GetTable("people")
	require.NoError(t, err)
	require.Same(t, tbl, got)

	require.NoError(t, c.DropTable("people"))
	require.False(t, c.HasTable("people"))
}

func TestCatalogAddTableDuplicate(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTable("people", sampleTable(t)))
	err := c.AddTable("people", sampleTable(t))
	require.True(t, perrors.Is(err, perrors.DuplicateTable))
}

func TestCatalogGetUnknownTable(t *testing.T) {
	c := New()
	_, err := c.GetTable("ghost")
	require.True(t, perrors.Is(err, perrors.UnknownTable))
}

func TestCatalogDropUnknownTable(t *testing.T) {
	c := New()
	err := c.DropTable("ghost")
	require.True(t, perrors.Is(err, perrors.UnknownTable))
}

func TestCatalogTableNamesAreSorted(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTable("zebra", sampleTable(t)))
	require.NoError(t, c.AddTable("alpha", sampleTable(t)))
	require.NoError(t, c.AddTable("mango", sampleTable(t)))
	require.Equal(t, []string{"alpha", "mango", "zebra"}, c.TableNames())
}

func TestCatalogPrint(t *testing.T) {
	c := New()
	tbl := sampleTable(t)
	require.NoError(t, tbl.Append([]types.Variant{types.FromInt32(1)}))
	require.NoError(t, c.AddTable("people", tbl))

	var buf bytes.Buffer
	require.NoError(t, c.Print(&buf))
	require.Contains(t, buf.String(), "people")
	require.Contains(t, buf.String(), "columns=1")
}

func TestCatalogReset(t *testing.T) {
	c := New()
	require.NoError(t, c.AddTable("people", sampleTable(t)))
	c.Reset()
	require.False(t, c.HasTable("people"))
}
