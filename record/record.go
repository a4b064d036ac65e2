// Package record provides a reference implementation of the
// relsync.Record persistence primitive: an attribute-map row bound to a
// table and key column over a dialect driver.
//
// The engine itself only requires the relsync.Record interface;
// applications with their own persistence layer can ignore this package
// entirely.
package record

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/syssam/relsync"
	"github.com/syssam/relsync/dialect"
	sqld "github.com/syssam/relsync/dialect/sql"
)

// baseErrorKey collects record-level errors that are not attributable
// to a single attribute, such as constraint violations.
const baseErrorKey = "base"

// Validator checks a single attribute value.
type Validator func(value any) error

// Base is an attribute-map record persisted to a single table row.
// It implements relsync.Record.
type Base struct {
	drv        dialect.Driver
	ctx        context.Context
	table      string
	key        string
	names      []string
	attrs      map[string]any
	validators map[string][]Validator
	errs       map[string][]string
	uuidKey    bool
	exists     bool
}

// Option configures a Base record.
type Option func(*Base)

// Key sets the identity column. The default is "id".
func Key(name string) Option {
	return func(b *Base) { b.key = name }
}

// Attributes declares the record's assignable attributes. The identity
// column is declared implicitly.
func Attributes(names ...string) Option {
	return func(b *Base) { b.names = append(b.names, names...) }
}

// Validate attaches a validator to the named attribute. Multiple
// validators on the same attribute run in registration order.
func Validate(name string, v Validator) Option {
	return func(b *Base) {
		b.validators[name] = append(b.validators[name], v)
	}
}

// UUIDKey makes the record generate a UUID identity on first save
// instead of relying on a database auto-increment.
func UUIDKey() Option {
	return func(b *Base) { b.uuidKey = true }
}

// Context sets the context used for the record's database calls.
func Context(ctx context.Context) Option {
	return func(b *Base) { b.ctx = ctx }
}

// New returns an unsaved record bound to the given table.
func New(drv dialect.Driver, table string, opts ...Option) *Base {
	b := &Base{
		drv:        drv,
		ctx:        context.Background(),
		table:      table,
		key:        "id",
		attrs:      make(map[string]any),
		validators: make(map[string][]Validator),
		errs:       make(map[string][]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load mass-assigns the given attribute values, ignoring names the
// record does not declare, and reports whether anything was applied.
func (b *Base) Load(attrs map[string]any) bool {
	applied := false
	for name, value := range attrs {
		if !b.declared(name) {
			continue
		}
		b.attrs[name] = value
		applied = true
	}
	return applied
}

// Hydrate loads attribute values from storage and marks the record as
// persisted, so the next Save updates instead of inserting.
func (b *Base) Hydrate(attrs map[string]any) {
	b.Load(attrs)
	b.exists = true
}

// Persisted reports whether the record is backed by a stored row.
func (b *Base) Persisted() bool {
	return b.exists
}

// Attribute returns the current value of the named attribute.
func (b *Base) Attribute(name string) any {
	return b.attrs[name]
}

// AttributeNames lists the declared attributes, identity column first.
func (b *Base) AttributeNames() []string {
	return append([]string{b.key}, b.names...)
}

// PrimaryKey returns the record's identity value, or nil if the record
// has no identity yet.
func (b *Base) PrimaryKey() any {
	return b.attrs[b.key]
}

// Errors returns the errors currently recorded against the record.
// The map is empty when the record is clean.
func (b *Base) Errors() map[string][]string {
	return b.errs
}

// Validate runs the attached validators for the named attributes, or
// for every declared attribute if attrs is nil, and reports whether all
// of them passed. Failures are recorded in the error map.
func (b *Base) Validate(attrs []string, clearErrors bool) bool {
	if clearErrors {
		b.errs = make(map[string][]string)
	}
	names := attrs
	if names == nil {
		names = b.AttributeNames()
	}
	ok := true
	for _, name := range names {
		for _, v := range b.validators[name] {
			if err := v(b.attrs[name]); err != nil {
				b.errs[name] = append(b.errs[name], err.Error())
				ok = false
			}
		}
	}
	return ok
}

// Save inserts or updates the record's row, reporting success. With
// runValidation set, a failing validation pass aborts the save. A nil
// attrs saves every assigned attribute; a subset restricts both the
// validated and the written columns.
func (b *Base) Save(runValidation bool, attrs []string) bool {
	if runValidation && !b.Validate(attrs, true) {
		return false
	}
	var err error
	if b.exists {
		err = b.update(attrs)
	} else {
		err = b.insert(attrs)
	}
	if err != nil {
		b.recordError(err)
		return false
	}
	b.exists = true
	return true
}

// Delete removes the record's row, reporting success. Deleting a record
// without identity fails.
func (b *Base) Delete() bool {
	pk := b.PrimaryKey()
	if pk == nil {
		b.errs[baseErrorKey] = append(b.errs[baseErrorKey], "cannot delete a record without identity")
		return false
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", b.table, b.key, b.placeholder(1))
	if err := b.drv.Exec(b.ctx, query, []any{pk}, nil); err != nil {
		b.recordError(err)
		return false
	}
	b.exists = false
	return true
}

// insert writes a new row and captures the generated identity.
func (b *Base) insert(attrs []string) error {
	if b.uuidKey && b.attrs[b.key] == nil {
		b.attrs[b.key] = uuid.NewString()
	}
	cols, vals := b.columns(attrs, true)
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = b.placeholder(i + 1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	if b.drv.Dialect() == dialect.Postgres && !b.uuidKey {
		return b.insertReturning(query, vals)
	}
	var res sqld.Result
	if err := b.drv.Exec(b.ctx, query, vals, &res); err != nil {
		return err
	}
	if b.attrs[b.key] == nil {
		if id, err := res.LastInsertId(); err == nil {
			b.attrs[b.key] = id
		}
	}
	return nil
}

// insertReturning inserts with a RETURNING clause; Postgres has no
// LastInsertId.
func (b *Base) insertReturning(query string, vals []any) error {
	query = fmt.Sprintf("%s RETURNING %s", query, b.key)
	var rows sqld.Rows
	if err := b.drv.Query(b.ctx, query, vals, &rows); err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		b.attrs[b.key] = id
	}
	return rows.Err()
}

// update rewrites the row's non-key columns.
func (b *Base) update(attrs []string) error {
	cols, vals := b.columns(attrs, false)
	if len(cols) == 0 {
		return nil
	}
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = %s", col, b.placeholder(i+1))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		b.table, strings.Join(sets, ", "), b.key, b.placeholder(len(cols)+1))
	vals = append(vals, b.PrimaryKey())
	return b.drv.Exec(b.ctx, query, vals, nil)
}

// columns returns the assigned columns and values to write, in declared
// order. A non-nil subset restricts the result; withKey includes the
// identity column when it carries a value.
func (b *Base) columns(subset []string, withKey bool) (cols []string, vals []any) {
	include := func(name string) bool {
		if subset == nil {
			return true
		}
		for _, s := range subset {
			if s == name {
				return true
			}
		}
		return false
	}
	if withKey && b.attrs[b.key] != nil {
		cols = append(cols, b.key)
		vals = append(vals, b.attrs[b.key])
	}
	for _, name := range b.names {
		value, ok := b.attrs[name]
		if !ok || !include(name) {
			continue
		}
		cols = append(cols, name)
		vals = append(vals, value)
	}
	return cols, vals
}

// recordError translates a database error into the record's error map.
// Constraint violations get a stable, user-facing message; anything
// else is recorded verbatim.
func (b *Base) recordError(err error) {
	if kind, ok := ConstraintKind(err); ok {
		b.errs[baseErrorKey] = append(b.errs[baseErrorKey], kind.Message())
		return
	}
	b.errs[baseErrorKey] = append(b.errs[baseErrorKey], err.Error())
}

// placeholder returns the i-th parameter placeholder for the driver's
// dialect.
func (b *Base) placeholder(i int) string {
	if b.drv.Dialect() == dialect.Postgres {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// declared reports whether name is the identity column or a declared
// attribute.
func (b *Base) declared(name string) bool {
	if name == b.key {
		return true
	}
	for _, n := range b.names {
		if n == name {
			return true
		}
	}
	return false
}

var _ relsync.Record = (*Base)(nil)

// NotEmpty returns a validator rejecting nil and empty-string values.
func NotEmpty() Validator {
	return func(value any) error {
		if value == nil {
			return fmt.Errorf("cannot be blank")
		}
		if s, ok := value.(string); ok && s == "" {
			return fmt.Errorf("cannot be blank")
		}
		return nil
	}
}

// MaxLen returns a validator rejecting string values longer than n.
func MaxLen(n int) Validator {
	return func(value any) error {
		if s, ok := value.(string); ok && len(s) > n {
			return fmt.Errorf("value is too long (maximum is %d characters)", n)
		}
		return nil
	}
}
