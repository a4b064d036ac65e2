package relsync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/relsync"
)

var orderType = relsync.RecordType{
	Label: "order",
	New: func() relsync.Record {
		return newFake("number", "status")
	},
}

// TestCloneCollection verifies clones copy attribute values but not
// identity, and persist nothing.
func TestCloneCollection(t *testing.T) {
	t.Parallel()

	owner := newOrder().with("id", int64(1))
	r := relsync.New(owner, itemsRelation())

	src := newFake("order_id", "name", "status").
		with("id", int64(10)).
		with("name", "widget").
		with("status", "active")
	require.NoError(t, r.Assign("items", []relsync.Record{src}))

	clones, err := r.CloneCollection("items")
	require.NoError(t, err)
	require.Len(t, clones, 1)

	clone := clones[0]
	assert.NotSame(t, src, clone)
	assert.Nil(t, clone.PrimaryKey())
	assert.Equal(t, "widget", clone.Attribute("name"))
	assert.Equal(t, "active", clone.Attribute("status"))

	// Cloning persists nothing and leaves the source untouched.
	assert.Equal(t, 0, src.saves)
	assert.Equal(t, int64(10), src.PrimaryKey())

	_, err = r.CloneCollection("ghosts")
	assert.True(t, relsync.IsUnknownRelation(err))
}

// TestFilterCollection verifies in-place filtering by exact attribute
// equality, order preserved, snapshot untouched.
func TestFilterCollection(t *testing.T) {
	t.Parallel()

	owner := newOrder().with("id", int64(1))
	r := relsync.New(owner, itemsRelation())

	active1 := newFake("order_id", "status").with("id", int64(1)).with("status", "active")
	stale := newFake("order_id", "status").with("id", int64(2)).with("status", "stale")
	active2 := newFake("order_id", "status").with("id", int64(3)).with("status", "active")
	all := []relsync.Record{active1, stale, active2}
	require.NoError(t, r.Assign("items", all))
	require.NoError(t, r.Resync("items"))

	require.NoError(t, r.FilterCollection("items", map[string]any{"status": "active"}))
	assert.Equal(t, []any{int64(1), int64(3)}, ids(r.Collection("items")))

	// Snapshot keeps the unfiltered collection, so the filtered-out
	// record is a removal candidate on the next save.
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, ids(r.Snapshot("items")))

	assert.True(t, relsync.IsUnknownRelation(r.FilterCollection("ghosts", nil)))
}

// TestDeepClone verifies the full unsaved duplicate: parent without
// identity, equal attributes, and every relation populated with cloned
// children.
func TestDeepClone(t *testing.T) {
	t.Parallel()

	owner := newOrder().
		with("id", int64(1)).
		with("number", "SO-100").
		with("status", "open")
	r := relsync.New(owner, itemsRelation())

	child := newFake("order_id", "name", "status").
		with("id", int64(10)).
		with("name", "widget")
	require.NoError(t, r.Assign("items", []relsync.Record{child}))

	clone, cloned := r.DeepClone(orderType)

	assert.Nil(t, clone.PrimaryKey())
	assert.Equal(t, "SO-100", clone.Attribute("number"))
	assert.Equal(t, "open", clone.Attribute("status"))

	children := cloned.Collection("items")
	require.Len(t, children, 1)
	assert.NotSame(t, child, children[0])
	assert.Nil(t, children[0].PrimaryKey())
	assert.Equal(t, "widget", children[0].Attribute("name"))

	// Nothing in the duplicate graph was persisted.
	assert.Equal(t, 0, child.saves)
}

// TestCloneDeepCopiesValues verifies nested attribute values do not
// share state with the source record.
func TestCloneDeepCopiesValues(t *testing.T) {
	t.Parallel()

	owner := newOrder().with("id", int64(1))
	r := relsync.New(owner, itemsRelation())

	src := newFake("order_id", "name", "status").
		with("id", int64(1)).
		with("name", map[string]any{"en": "widget"})
	require.NoError(t, r.Assign("items", []relsync.Record{src}))

	clones, err := r.CloneCollection("items")
	require.NoError(t, err)
	require.Len(t, clones, 1)

	nested, ok := clones[0].Attribute("name").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "widget", nested["en"])

	// Mutating the clone's nested value leaves the source alone.
	nested["en"] = "gadget"
	srcNested := src.Attribute("name").(map[string]any)
	assert.Equal(t, "widget", srcNested["en"])
}
