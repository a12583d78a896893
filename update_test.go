package dbz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
)

func TestUpdateSQL(t *testing.T) {
	asSQL, bindings := updateSQL("table", []Field{{"something", 3}, {"other", true}}, "id = :id")

	runTests(t, []test{
		{
			name:             "update with named where clause",
			sql:              asSQL,
			bindings:         bindings,
			expectedSQL:      "UPDATE table SET something = :update_something, other = :update_other WHERE id = :id",
			expectedBindings: Named{"update_something": 3, "update_other": true},
		},
	})
}

func TestUpdate(t *testing.T) {
	db, mock := newMock(t, DriverMySQL)

	expectColumns(mock, "DESCRIBE users", "Field", "id", "name", "email")

	mock.ExpectExec(exactly("UPDATE users SET name = ?, email = ? WHERE id = ?")).
		WithArgs("New Name", "new@example.com", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(exactly("UPDATE users SET name = ? WHERE id = ? AND name <> ?")).
		WithArgs("Other Name", 4, "Other Name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := db.Update(
		"users",
		FieldMap{"email": "new@example.com", "name": "New Name", "unknown": 1},
		"id = :id",
		Named{"id": 3},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	where, bind := Where(Eq("id", 4), Ne("name", "Other Name"))
	affected, err = db.Update("users", FieldMap{"name": "Other Name"}, where, bind...)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmptyWhere(t *testing.T) {
	db, mock := newMock(t, DriverMySQL)

	_, err := db.Update("users", FieldMap{"name": "x"}, " ")
	assert.ErrorIs(t, err, ErrEmptyWhere)
	assert.Equal(t, ErrEmptyWhere.Error(), db.LastError())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateVerbatimWhere(t *testing.T) {
	db, mock := newMock(t, DriverPostgres)

	expectColumns(mock,
		"SELECT column_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position",
		"column_name", "id", "title", "note", "created")

	mock.ExpectExec(exactly("UPDATE events SET title = $1 WHERE note = 'a::b' AND created::date = $2 AND at < '2020-01-01 10:30:00'")).
		WithArgs("New Title", "2020-01-01").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := db.Update(
		"events",
		FieldMap{"title": "New Title"},
		"note = 'a::b' AND created::date = :day AND at < '2020-01-01 10:30:00'",
		Named{"day": "2020-01-01"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	assert.NoError(t, mock.ExpectationsWereMet())
}
