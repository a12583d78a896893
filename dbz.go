package dbz

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Row is a single result row, mapping column names to values
type Row map[string]interface{}

// FieldMap maps column names to the values to insert or update. Keys that
// are not columns of the target table are ignored.
type FieldMap map[string]interface{}

// Field is a column and its value, as retained from a FieldMap after
// filtering it against the table's columns
type Field struct {
	Column string
	Value  interface{}
}

// Pool holds connection pool settings. Zero values leave the sql.DB
// defaults in place, except ConnMaxIdleTime which is always disabled so
// that connections persist between calls.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DB is a wrapper around sqlx.DB (which is a wrapper around sql.DB). The
// embedded connection is nil if Open failed, in which case every operation
// fails with ErrNotConnected.
type DB struct {
	*sqlx.DB

	log         zerolog.Logger
	errHandlers []func(err error)
	lister      ColumnLister
	pool        Pool

	schemaMu sync.RWMutex
	schema   map[string][]string

	mu           sync.Mutex
	lastErr      string
	lastSQL      string
	lastBind     []interface{}
	lastInsertID int64
}

// Option configures a DB
type Option func(db *DB)

// WithLogger sets the logger statements are reported to. By default,
// nothing is logged.
func WithLogger(log zerolog.Logger) Option {
	return func(db *DB) {
		db.log = log
	}
}

// WithErrorHandler registers a function that is called with the error of
// every failed operation. Multiple handlers may be registered.
func WithErrorHandler(handler func(err error)) Option {
	return func(db *DB) {
		db.errHandlers = append(db.errHandlers, handler)
	}
}

// WithColumnLister overrides the column lister selected from the driver
// name
func WithColumnLister(lister ColumnLister) Option {
	return func(db *DB) {
		db.lister = lister
	}
}

// WithPool sets connection pool limits. It only applies to connections
// created by Open.
func WithPool(pool Pool) Option {
	return func(db *DB) {
		db.pool = pool
	}
}

// Open parses the provided DSN (e.g. "sqlite:/path/to/file.db",
// "mysql:host=localhost;dbname=test", "pgsql:host=localhost;dbname=test"),
// connects to the database and verifies the connection. The user and
// password may be empty.
//
// Open always returns a DB. If connecting failed, the error is returned and
// also recorded as the DB's last error, and every operation on the DB fails
// with ErrNotConnected.
func Open(dsn, user, password string, opts ...Option) (*DB, error) {
	return OpenContext(context.Background(), dsn, user, password, opts...)
}

// OpenContext is the same as Open, but uses the provided context while
// verifying the connection
func OpenContext(ctx context.Context, dsn, user, password string, opts ...Option) (*DB, error) {
	db := newDB(opts...)

	conn, err := connect(ctx, dsn, user, password, db.pool)
	if err != nil {
		db.lastErr = err.Error()
		db.log.Error().Err(err).Msg("failed connecting to database")
		db.handleError(err)
		return db, err
	}

	db.attach(conn)
	db.log.Debug().Str("driver", conn.DriverName()).Msg("connected to database")

	return db, nil
}

// New creates a new DB instance from an underlying sql.DB object.
// It requires the name of the SQL driver in order to use the correct
// placeholders and column listing statements.
func New(db *sql.DB, driverName string, opts ...Option) *DB {
	return Newx(sqlx.NewDb(db, driverName), opts...)
}

// Newx creates a new DB instance from an underlying sqlx.DB object
func Newx(conn *sqlx.DB, opts ...Option) *DB {
	db := newDB(opts...)
	db.attach(conn)
	return db
}

func newDB(opts ...Option) *DB {
	db := &DB{
		log:    zerolog.Nop(),
		schema: make(map[string][]string),
	}

	for _, opt := range opts {
		opt(db)
	}

	return db
}

func (db *DB) attach(conn *sqlx.DB) {
	db.DB = conn
	if db.lister == nil {
		db.lister = ColumnListerFor(conn.DriverName())
	}
}

// Connected returns true if the DB holds a live connection handle
func (db *DB) Connected() bool {
	return db != nil && db.DB != nil
}

// Close releases the underlying connection, if any
func (db *DB) Close() error {
	if !db.Connected() {
		return nil
	}
	return db.DB.Close()
}

// LastError returns the message of the last failure, or an empty string if
// the last statement succeeded. Prefer checking returned errors; this exists
// for callers that inspect the DB after the fact.
func (db *DB) LastError() string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.lastErr
}

// LastInsertID returns the ID generated by the last successful INSERT, if
// the driver reports one
func (db *DB) LastInsertID() int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.lastInsertID
}

// String describes the DB's connection and its last statement, bindings and
// error
func (db *DB) String() string {
	db.mu.Lock()
	defer db.mu.Unlock()

	driver := "<not connected>"
	if db.Connected() {
		driver = db.DriverName()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "dbz.DB{driver: %s", driver)
	fmt.Fprintf(&b, ", sql: %q", db.lastSQL)
	fmt.Fprintf(&b, ", bind: %v", db.lastBind)
	fmt.Fprintf(&b, ", error: %q}", db.lastErr)

	return b.String()
}

// handleError executes all of the DB's error handlers with the error
func (db *DB) handleError(err error) {
	for _, handler := range db.errHandlers {
		handler(err)
	}
}

func (db *DB) notConnected() error {
	db.handleError(ErrNotConnected)
	return ErrNotConnected
}

// fail records err as the last error and reports it
func (db *DB) fail(err error) error {
	db.mu.Lock()
	db.lastErr = err.Error()
	db.mu.Unlock()

	db.handleError(err)
	return err
}
