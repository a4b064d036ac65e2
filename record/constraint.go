package record

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Constraint identifies the kind of database constraint a write
// violated.
type Constraint int

// Constraint kinds.
const (
	// UniqueConstraint is a uniqueness violation, e.g. a duplicate
	// value in a unique index.
	UniqueConstraint Constraint = iota
	// ForeignKeyConstraint is a foreign-key violation, e.g. a missing
	// parent row.
	ForeignKeyConstraint
	// CheckConstraint is a check-condition violation.
	CheckConstraint
)

// Message returns a stable, user-facing message for the constraint
// kind, suitable for a record's error map.
func (c Constraint) Message() string {
	switch c {
	case UniqueConstraint:
		return "value already exists"
	case ForeignKeyConstraint:
		return "related record does not exist"
	case CheckConstraint:
		return "value violates a check constraint"
	default:
		return "constraint violated"
	}
}

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// ConstraintKind reports whether the error resulted from a database
// constraint violation and, if so, which kind. Postgres and MySQL
// errors are recognized by driver error code; other drivers fall back
// to message matching.
func ConstraintKind(err error) (Constraint, bool) {
	if err == nil {
		return 0, false
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		switch string(pqe.Code) {
		case pgUniqueViolation:
			return UniqueConstraint, true
		case pgForeignKeyViolation:
			return ForeignKeyConstraint, true
		case pgCheckViolation:
			return CheckConstraint, true
		}
		return 0, false
	}
	var mye *mysql.MySQLError
	if errors.As(err, &mye) {
		switch mye.Number {
		case mysqlDuplicateEntry:
			return UniqueConstraint, true
		case mysqlForeignKeyParent, mysqlForeignKeyChild:
			return ForeignKeyConstraint, true
		case mysqlCheckConstraintViolate:
			return CheckConstraint, true
		}
		return 0, false
	}
	// Fallback for drivers that expose no typed errors.
	msg := err.Error()
	switch {
	case containsAny(msg,
		"UNIQUE constraint failed",   // SQLite
		"violates unique constraint", // Postgres, wrapped
		"Error 1062"):                // MySQL, wrapped
		return UniqueConstraint, true
	case containsAny(msg,
		"FOREIGN KEY constraint failed",   // SQLite
		"violates foreign key constraint", // Postgres, wrapped
		"Error 1451", "Error 1452"):       // MySQL, wrapped
		return ForeignKeyConstraint, true
	case containsAny(msg,
		"CHECK constraint failed",   // SQLite
		"violates check constraint", // Postgres, wrapped
		"Error 3819"):               // MySQL, wrapped
		return CheckConstraint, true
	}
	return 0, false
}

// IsConstraintError reports whether the error resulted from any
// database constraint violation.
func IsConstraintError(err error) bool {
	_, ok := ConstraintKind(err)
	return ok
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
