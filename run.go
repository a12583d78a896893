package dbz

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is an enumerated type representing what running a statement
// produced
type Kind int

// Empty means the statement ran but produces no value (e.g. DDL)
// RowSet means the statement returned rows
// AffectedCount means the statement reported a number of affected rows
// Failure means the statement failed
const (
	Empty Kind = iota
	RowSet
	AffectedCount
	Failure
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case RowSet:
		return "rows"
	case AffectedCount:
		return "affected"
	case Failure:
		return "failure"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Result is the outcome of running a statement. Which fields are set
// depends on Kind: Rows for RowSet, RowsAffected and LastInsertID for
// AffectedCount, Err for Failure.
type Result struct {
	Kind         Kind
	Rows         []Row
	RowsAffected int64
	LastInsertID int64
	Err          error
}

// Failed returns true if the statement failed
func (res Result) Failed() bool {
	return res.Kind == Failure
}

// Named is a set of named bindings. Keys may be written with or without
// the leading colon of their placeholder (":id" and "id" are the same).
type Named map[string]interface{}

// Runner executes raw statements. DB implements it.
type Runner interface {
	RunContext(ctx context.Context, query string, bind ...interface{}) Result
}

var (
	rowsStmt     = regexp.MustCompile(`(?i)^(select|describe|pragma)\s`)
	affectedStmt = regexp.MustCompile(`(?i)^(delete|insert|update)\s`)
)

// classify determines what a statement produces from its leading keyword
func classify(query string) Kind {
	switch {
	case rowsStmt.MatchString(query):
		return RowSet
	case affectedStmt.MatchString(query):
		return AffectedCount
	default:
		return Empty
	}
}

// Run executes a raw SQL statement with optional bindings, and returns its
// result. Named (or map[string]interface{}) arguments hold named bindings
// for ":name" placeholders; all other arguments are positional bindings for
// "?" placeholders, in order. Placeholders inside quoted strings or
// comments are not replaced, and neither are "::" casts. A statement
// without bindings is sent as-is.
//
// SELECT, DESCRIBE and PRAGMA statements return their rows. DELETE, INSERT
// and UPDATE statements return the number of affected rows. Other
// statements return an Empty result.
func (db *DB) Run(query string, bind ...interface{}) Result {
	return db.RunContext(context.Background(), query, bind...)
}

// RunContext is the same as Run, but with a context
func (db *DB) RunContext(ctx context.Context, query string, bind ...interface{}) Result {
	if !db.Connected() {
		return Result{Kind: Failure, Err: db.notConnected()}
	}

	query = strings.TrimSpace(query)

	asSQL, args, err := db.compile(query, bind)

	db.mu.Lock()
	db.lastSQL = query
	db.lastBind = args
	db.lastErr = ""
	db.mu.Unlock()

	if err != nil {
		return db.failure(query, err)
	}

	db.log.Debug().
		Str("sql", asSQL).
		Int("bindings", len(args)).
		Msg("running statement")

	kind := classify(query)

	switch kind {
	case RowSet:
		rows, err := db.queryRows(ctx, asSQL, args)
		if err != nil {
			return db.failure(query, err)
		}
		return Result{Kind: RowSet, Rows: rows}
	default:
		res, err := db.ExecContext(ctx, asSQL, args...)
		if err != nil {
			return db.failure(query, err)
		}

		if kind == Empty {
			// the statement may have changed a table's columns
			db.ForgetColumns()
			return Result{Kind: Empty}
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return db.failure(query, err)
		}

		// not every driver supports this (e.g. PostgreSQL)
		id, _ := res.LastInsertId()

		db.mu.Lock()
		db.lastInsertID = id
		db.mu.Unlock()

		return Result{Kind: AffectedCount, RowsAffected: affected, LastInsertID: id}
	}
}

func (db *DB) failure(query string, err error) Result {
	err = &StatementError{SQL: query, Err: err}

	db.log.Error().
		Err(err).
		Str("sql", query).
		Msg("statement failed")

	return Result{Kind: Failure, Err: db.fail(err)}
}

// compile separates named and positional bindings, and replaces their
// placeholders with the driver's bindvars
func (db *DB) compile(query string, bind []interface{}) (asSQL string, args []interface{}, err error) {
	named := make(map[string]interface{})
	var positional []interface{}

	for _, b := range bind {
		switch values := b.(type) {
		case Named:
			mergeNamed(named, values)
		case map[string]interface{}:
			mergeNamed(named, values)
		default:
			positional = append(positional, b)
		}
	}

	asSQL, args, err = bindQuery(db.DriverName(), query, named, positional)
	if err != nil {
		return query, nil, fmt.Errorf("failed binding parameters: %w", err)
	}

	return asSQL, args, nil
}

func mergeNamed(into, from map[string]interface{}) {
	for key, value := range from {
		into[strings.TrimPrefix(key, ":")] = value
	}
}

func (db *DB) queryRows(ctx context.Context, asSQL string, args []interface{}) ([]Row, error) {
	rows, err := db.QueryxContext(ctx, asSQL, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Row{}

	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed scanning row: %w", err)
		}

		for col, val := range row {
			if b, ok := val.([]byte); ok {
				row[col] = string(b)
			}
		}

		result = append(result, Row(row))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
