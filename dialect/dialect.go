package dialect

import (
	"context"
)

// Supported dialect names.
const (
	// MySQL is the MySQL/MariaDB dialect.
	MySQL = "mysql"
	// SQLite is the SQLite dialect.
	SQLite = "sqlite"
	// Postgres is the PostgreSQL dialect.
	Postgres = "postgres"
)

// ExecQuerier wraps the two standard database operations.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. The v
	// argument receives the execution result and may be nil.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows. The v argument
	// receives the rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the minimal interface a database backend exposes to the
// record layer.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx is a transaction created by a Driver.
type Tx interface {
	ExecQuerier
	// Commit commits the transaction.
	Commit() error
	// Rollback discards the transaction.
	Rollback() error
}
