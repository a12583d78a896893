package dbz

import (
	"context"
	"fmt"
	"strings"
)

// ColumnLister lists the names of a table's columns, in the order the
// table defines them. Each supported backend family has its own
// implementation; ColumnListerFor selects one from a driver name.
type ColumnLister interface {
	ListColumns(ctx context.Context, r Runner, table string) ([]string, error)
}

// SQLiteColumns lists columns with PRAGMA table_info
type SQLiteColumns struct{}

// MySQLColumns lists columns with DESCRIBE
type MySQLColumns struct{}

// InformationSchemaColumns lists columns from information_schema.columns,
// which most other databases (e.g. PostgreSQL) provide
type InformationSchemaColumns struct{}

// ColumnListerFor returns the column lister for a database/sql driver name
func ColumnListerFor(driverName string) ColumnLister {
	switch driverName {
	case DriverSQLite, "sqlite3":
		return SQLiteColumns{}
	case DriverMySQL:
		return MySQLColumns{}
	default:
		return InformationSchemaColumns{}
	}
}

// ListColumns implements the ColumnLister interface
func (SQLiteColumns) ListColumns(ctx context.Context, r Runner, table string) ([]string, error) {
	query := "PRAGMA table_info('" + strings.ReplaceAll(table, "'", "''") + "')"
	return columnNames(r.RunContext(ctx, query), "name")
}

// ListColumns implements the ColumnLister interface
func (MySQLColumns) ListColumns(ctx context.Context, r Runner, table string) ([]string, error) {
	return columnNames(r.RunContext(ctx, "DESCRIBE "+table), "Field")
}

// ListColumns implements the ColumnLister interface
func (InformationSchemaColumns) ListColumns(ctx context.Context, r Runner, table string) ([]string, error) {
	query := "SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position"
	return columnNames(r.RunContext(ctx, query, table), "column_name")
}

func columnNames(res Result, key string) ([]string, error) {
	if res.Failed() {
		return nil, res.Err
	}

	cols := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		name, ok := row[key]
		if !ok {
			return nil, fmt.Errorf("column listing has no %q column", key)
		}
		cols = append(cols, fmt.Sprint(name))
	}

	return cols, nil
}

// Columns returns the names of the table's columns. They are fetched from
// the database the first time, and cached until ForgetColumns is called or
// a statement that may modify the schema is run.
func (db *DB) Columns(table string) ([]string, error) {
	return db.ColumnsContext(context.Background(), table)
}

// ColumnsContext is the same as Columns, but with a context
func (db *DB) ColumnsContext(ctx context.Context, table string) ([]string, error) {
	if !db.Connected() {
		return nil, ErrNotConnected
	}

	db.schemaMu.RLock()
	cols, ok := db.schema[table]
	db.schemaMu.RUnlock()
	if ok {
		return cols, nil
	}

	cols, err := db.lister.ListColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}

	db.schemaMu.Lock()
	db.schema[table] = cols
	db.schemaMu.Unlock()

	return cols, nil
}

// ForgetColumns drops the cached columns of the provided tables, or of all
// tables if none are provided
func (db *DB) ForgetColumns(tables ...string) {
	db.schemaMu.Lock()
	defer db.schemaMu.Unlock()

	if len(tables) == 0 {
		db.schema = make(map[string][]string)
		return
	}

	for _, table := range tables {
		delete(db.schema, table)
	}
}

// FilterColumns returns the fields of data whose keys are columns of the
// table, ordered as the table orders its columns. Keys that are not columns
// are dropped. If the columns cannot be listed, FilterColumns returns an
// empty list.
func (db *DB) FilterColumns(table string, data FieldMap) []Field {
	return db.FilterColumnsContext(context.Background(), table, data)
}

// FilterColumnsContext is the same as FilterColumns, but with a context
func (db *DB) FilterColumnsContext(ctx context.Context, table string, data FieldMap) []Field {
	cols, err := db.ColumnsContext(ctx, table)
	if err != nil {
		db.log.Warn().Err(err).Str("table", table).Msg("failed listing columns")
		return []Field{}
	}

	fields := make([]Field, 0, len(data))
	for _, col := range cols {
		if value, ok := data[col]; ok {
			fields = append(fields, Field{Column: col, Value: value})
		}
	}

	return fields
}
