package lookup

import (
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
)

var _ Source = MemDBSource{}

// MemDBSource loads records from one table of an in-memory database by a
// unique string index.
type MemDBSource struct {
	db    *memdb.MemDB
	table string
	index string // e.g. "id"
}

func NewMemDBSource(table, index string, schema *memdb.DBSchema) (MemDBSource, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return MemDBSource{}, fmt.Errorf("fail to create memdb: %w", err)
	}
	return MemDBSource{db: db, table: table, index: index}, nil
}

func (m MemDBSource) Load(key string) (value any, ok bool, err error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(m.table, m.index, key)
	if err != nil || raw == nil {
		return nil, false, err
	}
	return raw, true, nil
}

// Insert writes records in one transaction, replacing those with the same index.
func (m MemDBSource) Insert(records ...any) error {
	txn := m.db.Txn(true)
	defer txn.Abort()

	for _, r := range records {
		if err := txn.Insert(m.table, r); err != nil {
			return fmt.Errorf("fail to insert into %s: %w", m.table, err)
		}
	}
	txn.Commit()
	return nil
}
