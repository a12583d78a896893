package dbz

import (
	"context"
	"strings"
)

// Delete deletes the rows of the table matching the WHERE clause, and
// returns the number of deleted rows. The WHERE clause is used as-is;
// never build it from user-supplied input, use bindings or Where instead.
func (db *DB) Delete(table, where string, bind ...interface{}) (int64, error) {
	return db.DeleteContext(context.Background(), table, where, bind...)
}

// DeleteContext is the same as Delete, but with a context
func (db *DB) DeleteContext(ctx context.Context, table, where string, bind ...interface{}) (int64, error) {
	if !db.Connected() {
		return 0, db.notConnected()
	}

	if strings.TrimSpace(where) == "" {
		return 0, db.fail(ErrEmptyWhere)
	}

	res := db.RunContext(ctx, deleteSQL(table, where), bind...)
	if res.Failed() {
		return 0, res.Err
	}

	return res.RowsAffected, nil
}

func deleteSQL(table, where string) string {
	var clauses = []string{"DELETE FROM " + table, "WHERE " + where}
	return strings.Join(clauses, " ")
}
