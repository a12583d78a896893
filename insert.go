package dbz

import (
	"context"
	"strings"
)

// Insert inserts a row into the table. Only the fields of data that are
// columns of the table are inserted, the rest are ignored. The values are
// bound to named placeholders. Insert returns the number of affected rows;
// the generated ID, if any, is available from LastInsertID.
func (db *DB) Insert(table string, data FieldMap) (int64, error) {
	return db.InsertContext(context.Background(), table, data)
}

// InsertContext is the same as Insert, but with a context
func (db *DB) InsertContext(ctx context.Context, table string, data FieldMap) (int64, error) {
	if !db.Connected() {
		return 0, db.notConnected()
	}

	fields := db.FilterColumnsContext(ctx, table, data)
	if len(fields) == 0 {
		return 0, db.fail(ErrNoColumns)
	}

	asSQL, bindings := insertSQL(table, fields)

	res := db.RunContext(ctx, asSQL, bindings)
	if res.Failed() {
		return 0, res.Err
	}

	return res.RowsAffected, nil
}

func insertSQL(table string, fields []Field) (asSQL string, bindings Named) {
	bindings = make(Named, len(fields))

	cols := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	for i, field := range fields {
		cols[i] = field.Column
		placeholders[i] = ":" + field.Column
		bindings[field.Column] = field.Value
	}

	var clauses = []string{
		"INSERT INTO " + table,
		"(" + strings.Join(cols, ", ") + ")",
		"VALUES (" + strings.Join(placeholders, ", ") + ")",
	}

	return strings.Join(clauses, " "), bindings
}
