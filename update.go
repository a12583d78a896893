package dbz

import (
	"context"
	"strings"
)

// updatePrefix prefixes the names of the SET clause's placeholders, so
// they do not collide with those of the WHERE clause
const updatePrefix = "update_"

// Update modifies the rows of the table matching the WHERE clause. Only the
// fields of data that are columns of the table are updated, the rest are
// ignored. The values are bound to placeholders named ":update_<column>";
// bind holds the bindings of the WHERE clause itself, either Named or
// positional. Update returns the number of affected rows.
//
// The WHERE clause is used as-is; never build it from user-supplied input,
// use bindings or Where instead.
func (db *DB) Update(table string, data FieldMap, where string, bind ...interface{}) (int64, error) {
	return db.UpdateContext(context.Background(), table, data, where, bind...)
}

// UpdateContext is the same as Update, but with a context
func (db *DB) UpdateContext(ctx context.Context, table string, data FieldMap, where string, bind ...interface{}) (int64, error) {
	if !db.Connected() {
		return 0, db.notConnected()
	}

	if strings.TrimSpace(where) == "" {
		return 0, db.fail(ErrEmptyWhere)
	}

	fields := db.FilterColumnsContext(ctx, table, data)
	if len(fields) == 0 {
		return 0, db.fail(ErrNoColumns)
	}

	asSQL, bindings := updateSQL(table, fields, where)

	// the SET clause's bindings go first, as its placeholders come first
	res := db.RunContext(ctx, asSQL, append([]interface{}{bindings}, bind...)...)
	if res.Failed() {
		return 0, res.Err
	}

	return res.RowsAffected, nil
}

func updateSQL(table string, fields []Field, where string) (asSQL string, bindings Named) {
	bindings = make(Named, len(fields))

	updates := make([]string, len(fields))
	for i, field := range fields {
		name := updatePrefix + field.Column
		updates[i] = field.Column + " = :" + name
		bindings[name] = field.Value
	}

	var clauses = []string{
		"UPDATE " + table,
		"SET " + strings.Join(updates, ", "),
		"WHERE " + where,
	}

	return strings.Join(clauses, " "), bindings
}
