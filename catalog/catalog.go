// Package catalog is the name -> table registry, the storage core's
// equivalent of the source's StorageManager singleton. Tables are kept in
// an ordered btree.BTree so Print and TableNames can report them in a
// stable, lexical order without sorting on every call.
package catalog

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/btree"
	log "github.com/sirupsen/logrus"

	"opossumdb/perrors"
	"opossumdb/storage"
)

// degree follows the teacher's fake in-memory btree usage: small enough
// that node splits are frequent and the balance logic gets exercised even
// for a catalog with a handful of tables.
const degree = 3

type entry struct {
	name  string
	table *storage.Table
}

func (e *entry) Less(than btree.Item) bool {
	return e.name < than.(*entry).name
}

// Catalog is safe for concurrent readers; mutation (AddTable/DropTable) is
// expected to happen from a single writer, matching the storage core's
// single-threaded mutation model.
type Catalog struct {
	mu     sync.RWMutex
	tables *btree.BTree
}

func New() *Catalog {
	return &Catalog{tables: btree.New(degree)}
}

// AddTable registers table under name. It fails with DuplicateTable if the
// name is already taken.
func (c *Catalog) AddTable(name string, table *storage.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tables.Has(&entry{name: name}) {
		return perrors.NewErrorf(perrors.DuplicateTable, "table %q already exists", name)
	}
	c.tables.ReplaceOrInsert(&entry{name: name, table: table})
	log.WithField("table", name).Info("table added to catalog")
	return nil
}

// DropTable removes name from the catalog, failing with UnknownTable if it
// is not present.
func (c *Catalog) DropTable(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if removed := c.tables.Delete(&entry{name: name}); removed == nil {
		return perrors.NewErrorf(perrors.UnknownTable, "table %q not found", name)
	}
	log.WithField("table", name).Info("table dropped from catalog")
	return nil
}

// GetTable returns the table registered under name.
func (c *Catalog) GetTable(name string) (*storage.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item := c.tables.Get(&entry{name: name})
	if item == nil {
		return nil, perrors.NewErrorf(perrors.UnknownTable, "table %q not found", name)
	}
	return item.(*entry).table, nil
}

func (c *Catalog) HasTable(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables.Has(&entry{name: name})
}

// TableNames returns every registered name in ascending lexical order.
func (c *Catalog) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, c.tables.Len())
	c.tables.Ascend(func(i btree.Item) bool {
		names = append(names, i.(*entry).name)
		return true
	})
	return names
}

// Reset empties the catalog, e.g. to isolate tests from one another.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables = btree.New(degree)
}

// Print writes one line per table, in ascending name order, reporting its
// column count, row count, and chunk count.
func (c *Catalog) Print(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var err error
	c.tables.Ascend(func(i btree.Item) bool {
		e := i.(*entry)
		_, werr := fmt.Fprintf(w, "%s\tcolumns=%d\trows=%d\tchunks=%d\n",
			e.name, e.table.ColumnCount(), e.table.RowCount(), e.table.ChunkCount())
		if werr != nil {
			err = werr
			return false
		}
		return true
	})
	return err
}

var (
	defaultOnce sync.Once
	defaultInst *Catalog
)

// Default returns the process-wide catalog singleton, analogous to the
// source's StorageManager::get().
func Default() *Catalog {
	defaultOnce.Do(func() { defaultInst = New() })
	return defaultInst
}
