package record

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relsync/dialect"
)

// TestConstraintKind tests driver error decoding across backends.
func TestConstraintKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Constraint
		ok   bool
	}{
		{
			name: "postgres_unique",
			err:  &pq.Error{Code: "23505"},
			want: UniqueConstraint,
			ok:   true,
		},
		{
			name: "postgres_foreign_key",
			err:  &pq.Error{Code: "23503"},
			want: ForeignKeyConstraint,
			ok:   true,
		},
		{
			name: "postgres_check",
			err:  &pq.Error{Code: "23514"},
			want: CheckConstraint,
			ok:   true,
		},
		{
			name: "postgres_unrelated",
			err:  &pq.Error{Code: "42P01"},
			ok:   false,
		},
		{
			name: "mysql_duplicate",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
			want: UniqueConstraint,
			ok:   true,
		},
		{
			name: "mysql_fk_parent",
			err:  &mysql.MySQLError{Number: 1451},
			want: ForeignKeyConstraint,
			ok:   true,
		},
		{
			name: "mysql_fk_child",
			err:  &mysql.MySQLError{Number: 1452},
			want: ForeignKeyConstraint,
			ok:   true,
		},
		{
			name: "mysql_check",
			err:  &mysql.MySQLError{Number: 3819},
			want: CheckConstraint,
			ok:   true,
		},
		{
			name: "sqlite_unique_message",
			err:  errors.New("constraint failed: UNIQUE constraint failed: items.name (2067)"),
			want: UniqueConstraint,
			ok:   true,
		},
		{
			name: "sqlite_foreign_key_message",
			err:  errors.New("constraint failed: FOREIGN KEY constraint failed (787)"),
			want: ForeignKeyConstraint,
			ok:   true,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}),
			want: UniqueConstraint,
			ok:   true,
		},
		{
			name: "unrelated",
			err:  errors.New("connection refused"),
			ok:   false,
		},
		{
			name: "nil",
			err:  nil,
			ok:   false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind, ok := ConstraintKind(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ok, IsConstraintError(tt.err))
			if tt.ok {
				assert.Equal(t, tt.want, kind)
			}
		})
	}
}

// TestSaveConstraintError tests that a constraint violation surfaces as
// a stable message in the record's error map, not as a Go error.
func TestSaveConstraintError(t *testing.T) {
	drv, mock := mockDriver(t, dialect.Postgres)
	mock.ExpectQuery("INSERT INTO items (name) VALUES ($1) RETURNING id").
		WithArgs("widget").
		WillReturnError(&pq.Error{Code: "23505"})

	rec := New(drv, "items", Attributes("name"))
	rec.Load(map[string]any{"name": "widget"})

	assert.False(t, rec.Save(false, nil))
	assert.False(t, rec.Persisted())
	assert.Equal(t, []string{"value already exists"}, rec.Errors()["base"])
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestConstraintMessages pins the user-facing messages.
func TestConstraintMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "value already exists", UniqueConstraint.Message())
	assert.Equal(t, "related record does not exist", ForeignKeyConstraint.Message())
	assert.Equal(t, "value violates a check constraint", CheckConstraint.Message())
}
