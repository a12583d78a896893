// Package dbz (pronounced "dee-bee-zee") is a minimal CRUD facade over a
// relational database connection, based on github.com/jmoiron/sqlx.
//
// A DB holds one connection and builds simple INSERT, UPDATE, SELECT and
// DELETE statements from maps of column names to values. Before inserting or
// updating, the map is filtered against the table's actual columns (as
// reported by the database, and cached per table), so callers can pass
// request payloads or other loosely-shaped data without worrying about
// extra keys. Values are always bound to placeholders. WHERE clauses are
// used verbatim, so either bind their values or build them with Where.
//
// Three backend families are supported out of the box, selected by the
// prefix of the DSN given to Open: SQLite (modernc.org/sqlite), MySQL
// (github.com/go-sql-driver/mysql), and PostgreSQL
// (github.com/jackc/pgx/v5). Any other database/sql driver can be used
// through New, in which case columns are listed from information_schema.
//
// Every statement goes through Run, which classifies the statement by its
// leading keyword and returns a Result holding either rows, an affected row
// count, nothing, or the failure.
//
//		import (
//			"fmt"
//			"github.com/ido50/dbz"
//		)
//
//		func main() {
//			db, err := dbz.Open("sqlite:app.db", "", "")
//			if err != nil {
//				panic(err)
//			}
//			defer db.Close()
//
//			// "admin" is not a column of users, so it is ignored
//			_, err = db.Insert("users", dbz.FieldMap{
//				"id":    1,
//				"name":  "Some Name",
//				"admin": true,
//			})
//			if err != nil {
//				panic(err)
//			}
//
//			rows, err := db.Select("users", "id = :id", dbz.Named{"id": 1})
//			if err != nil {
//				panic(err)
//			}
//
//			fmt.Printf("%+v\n", rows)
//		}
package dbz
