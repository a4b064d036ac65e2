package relation_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relsync/relation"
)

const schemaV1 = `
order:
  - name: items
    type: order_item
    foreign_key: order_id
    keep_updated: true
`

const schemaV2 = `
order:
  - name: items
    type: order_item
    foreign_key: order_id
    keep_updated: true
  - name: notes
    type: note
    foreign_key: order_id
`

// TestWatchReload tests that a schema file change is picked up.
func TestWatchReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(schemaV1), 0o644))

	reloaded := make(chan relation.Schema, 1)
	w, err := relation.Watch(path, func(s relation.Schema, err error) {
		if err == nil {
			select {
			case reloaded <- s:
			default:
			}
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.Len(t, w.Schema().Relations("order"), 1)

	require.NoError(t, os.WriteFile(path, []byte(schemaV2), 0o644))

	select {
	case s := <-reloaded:
		assert.Len(t, s.Relations("order"), 2)
	case <-time.After(5 * time.Second):
		t.Fatal("schema reload not observed")
	}
	assert.Len(t, w.Schema().Relations("order"), 2)
}

// TestWatchMissingFile tests the startup failure on an unreadable
// schema file.
func TestWatchMissingFile(t *testing.T) {
	t.Parallel()

	_, err := relation.Watch(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "read schema")
}
