package dbz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openSQLite opens an in-memory SQLite database with a users table
func openSQLite(t *testing.T) *DB {
	t.Helper()

	db, err := Open("sqlite::memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	res := db.Run(`CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		age INTEGER
	)`)
	require.Equal(t, Empty, res.Kind, "failed creating table: %v", res.Err)

	return db
}

func TestSQLiteSelectOne(t *testing.T) {
	db := openSQLite(t)

	res := db.Run("SELECT 1")
	require.Equal(t, RowSet, res.Kind, "unexpected result: %v", res.Err)
	assert.Equal(t, []Row{{"1": int64(1)}}, res.Rows)
}

func TestSQLiteFilterColumns(t *testing.T) {
	db := openSQLite(t)

	cols, err := db.Columns("users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email", "age"}, cols)

	fields := db.FilterColumns("users", FieldMap{"age": 40, "nickname": "x", "name": "Someone"})
	assert.Equal(t, []Field{{"name", "Someone"}, {"age", 40}}, fields)

	assert.Empty(t, db.FilterColumns("no_such_table", FieldMap{"id": 1}))
}

func TestSQLiteCRUD(t *testing.T) {
	db := openSQLite(t)

	affected, err := db.Insert("users", FieldMap{
		"name":     "First",
		"email":    "first@example.com",
		"age":      30,
		"nickname": "dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	id := db.LastInsertID()
	require.NotZero(t, id)

	_, err = db.Insert("users", FieldMap{"name": "Second", "age": 20})
	require.NoError(t, err)
	secondID := db.LastInsertID()

	rows, err := db.Select("users", "id = :id", Named{":id": id})
	require.NoError(t, err)
	assert.Equal(t, []Row{{
		"id":    id,
		"name":  "First",
		"email": "first@example.com",
		"age":   int64(30),
	}}, rows)

	affected, err = db.Update("users", FieldMap{"age": 31, "id_typo": 5}, "id = :id", Named{"id": id})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = db.Update("users", FieldMap{"age": 99}, "id = ?", int64(12345))
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	rows, err = db.SelectFields("users", "id, age", "", Named{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []Row{
		{"id": id, "age": int64(31)},
		{"id": secondID, "age": int64(20)},
	}, rows)

	affected, err = db.Delete("users", "id = ?", id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows, err = db.Select("users", "id = ?", id)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = db.Select("users", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Second", rows[0]["name"])
}

func TestSQLiteFailure(t *testing.T) {
	db := openSQLite(t)

	res := db.Run("SELECT * FROM no_such_table")
	require.True(t, res.Failed())
	assert.NotEmpty(t, db.LastError())
	assert.Equal(t, res.Err.Error(), db.LastError())

	_, err := db.Insert("users", FieldMap{"email": "missing-name@example.com"})
	require.Error(t, err)
	assert.Contains(t, db.LastError(), "NOT NULL")
}

func TestSQLiteSchemaChange(t *testing.T) {
	db := openSQLite(t)

	_, err := db.Insert("users", FieldMap{"name": "Someone", "city": "Nowhere"})
	require.NoError(t, err)

	res := db.Run("ALTER TABLE users ADD COLUMN city TEXT")
	require.Equal(t, Empty, res.Kind, "unexpected result: %v", res.Err)

	_, err = db.Insert("users", FieldMap{"name": "Someone Else", "city": "Somewhere"})
	require.NoError(t, err)

	rows, err := db.SelectFields("users", "name, city", "city IS NOT NULL")
	require.NoError(t, err)
	assert.Equal(t, []Row{{"name": "Someone Else", "city": "Somewhere"}}, rows)
}

func TestSQLiteVerbatimWhere(t *testing.T) {
	db := openSQLite(t)

	for _, name := range []string{"a::b", "a:b", "why?"} {
		_, err := db.Insert("users", FieldMap{"name": name, "email": "at 10:30:00", "age": 1})
		require.NoError(t, err)
	}

	affected, err := db.Update("users", FieldMap{"age": 2}, "name = 'a::b' AND email = 'at 10:30:00'")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows, err := db.SelectFields("users", "name", "age = :age", Named{"age": 2})
	require.NoError(t, err)
	assert.Equal(t, []Row{{"name": "a::b"}}, rows)

	rows, err = db.SelectFields("users", "name", "name = 'why?' AND age = ?", 1)
	require.NoError(t, err)
	assert.Equal(t, []Row{{"name": "why?"}}, rows)

	affected, err = db.Delete("users", "name = 'a:b' AND email LIKE '%:30:%' AND age = :age", Named{"age": 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	res := db.Run("SELECT name FROM users WHERE name <> ':x?' AND CAST(age AS TEXT) = :age ORDER BY id", Named{"age": "1"})
	require.Equal(t, RowSet, res.Kind, "unexpected result: %v", res.Err)
	assert.Equal(t, []Row{{"name": "why?"}}, res.Rows)
}
