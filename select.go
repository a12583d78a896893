package dbz

import (
	"context"
	"strings"
)

// Select runs a SELECT * statement on the table, with an optional WHERE
// clause and its bindings, and returns the resulting rows. The WHERE clause
// is used as-is; never build it from user-supplied input, use bindings or
// Where instead.
func (db *DB) Select(table, where string, bind ...interface{}) ([]Row, error) {
	return db.SelectFieldsContext(context.Background(), table, "*", where, bind...)
}

// SelectContext is the same as Select, but with a context
func (db *DB) SelectContext(ctx context.Context, table, where string, bind ...interface{}) ([]Row, error) {
	return db.SelectFieldsContext(ctx, table, "*", where, bind...)
}

// SelectFields is the same as Select, but selects the provided fields
// expression rather than all columns. You can use any SQL syntax supported
// by your database system, e.g. "id, name" or "MAX(id) maxID".
func (db *DB) SelectFields(table, fields, where string, bind ...interface{}) ([]Row, error) {
	return db.SelectFieldsContext(context.Background(), table, fields, where, bind...)
}

// SelectFieldsContext is the same as SelectFields, but with a context
func (db *DB) SelectFieldsContext(ctx context.Context, table, fields, where string, bind ...interface{}) ([]Row, error) {
	res := db.RunContext(ctx, selectSQL(table, fields, where), bind...)
	if res.Failed() {
		return nil, res.Err
	}
	return res.Rows, nil
}

func selectSQL(table, fields, where string) string {
	if fields == "" {
		fields = "*"
	}

	var clauses = []string{"SELECT " + fields, "FROM " + table}

	if where != "" {
		clauses = append(clauses, "WHERE "+where)
	}

	return strings.Join(clauses, " ")
}
