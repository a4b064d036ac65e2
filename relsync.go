// Package relsync keeps the persisted state of one-to-many record
// associations consistent with a desired in-memory collection.
//
// The engine is layered on a generic single-record persistence primitive:
// any type implementing [Record] can participate, as a parent or as a
// child. For every declared relation, a [Relator] tracks the desired
// collection together with a snapshot of the collection as it stood before
// the most recent assignment. At save time the snapshot and the desired
// collection are diffed by primary-key identity, the parent key is
// propagated into each child's foreign-key attribute, and the resulting
// upsert/remove sets are applied one record at a time.
//
// Multi-record operations are best-effort and non-transactional: each
// child save or delete either succeeds or fails on its own, outcomes are
// aggregated into a single boolean, and nothing is rolled back. Callers
// that need atomicity should wrap the reconciliation in a transaction
// boundary supplied by their storage layer.
package relsync

import (
	"github.com/go-openapi/inflect"

	"github.com/syssam/relsync/relation"
)

// Record is the single-record persistence primitive the engine is built
// on. Implementations own their storage; the engine only orchestrates.
//
// Per-record validation, save and delete failures are reported through
// the boolean results and the Errors map, never as Go errors. Go errors
// are reserved for structural misuse of the engine itself (for example,
// naming a relation that was never declared).
type Record interface {
	// Load mass-assigns the given attribute values and reports whether
	// any attribute was applied. Unknown attribute names are ignored.
	Load(attrs map[string]any) bool

	// Validate validates the named attributes, or every declared
	// attribute if attrs is nil. When clearErrors is true, previously
	// recorded errors are discarded first.
	Validate(attrs []string, clearErrors bool) bool

	// Save persists the record, inserting or updating as appropriate.
	// When runValidation is true, validation failures abort the save.
	// A nil attrs saves every declared attribute.
	Save(runValidation bool, attrs []string) bool

	// Delete removes the persisted row backing the record.
	Delete() bool

	// PrimaryKey returns the record's identity value, or nil if the
	// record has never been persisted.
	PrimaryKey() any

	// AttributeNames lists the record's declared attributes.
	AttributeNames() []string

	// Attribute returns the current value of the named attribute.
	Attribute(name string) any

	// Errors returns the validation and persistence errors currently
	// recorded against the record, keyed by attribute name.
	Errors() map[string][]string
}

// RecordType describes a constructible record type. It binds a runtime
// constructor to the type label that declarative descriptors and payload
// scopes refer to.
type RecordType struct {
	// Label is the canonical name of the type, in underscore form
	// (for example "order_item").
	Label string

	// Key is the identity attribute name. Empty means "id".
	Key string

	// New constructs a fresh, unsaved record of this type.
	New func() Record
}

// KeyName returns the identity attribute name, defaulting to "id".
func (t RecordType) KeyName() string {
	if t.Key != "" {
		return t.Key
	}
	return "id"
}

// ScopeName returns the conventional payload scope key for collections
// of this type: the pluralized label (for example "order_items").
func (t RecordType) ScopeName() string {
	return inflect.Pluralize(t.Label)
}

// Relation is a one-to-many association from a parent record to a
// collection of child records, ready to be registered on a [Relator].
type Relation struct {
	// Name identifies the relation on its parent.
	Name string

	// Type constructs child records.
	Type RecordType

	// Link ties the child's foreign-key attribute to the parent's
	// local key attribute.
	Link relation.Link

	// KeepUpdated marks the relation as managed by the cascade
	// operations (SaveAll, DeleteAll, BeforeDelete). Relations built
	// with Many are kept updated unless declared otherwise.
	KeepUpdated bool
}

// Many returns a kept-updated one-to-many Relation with the given name,
// child type and link.
func Many(name string, typ RecordType, link relation.Link) Relation {
	return Relation{Name: name, Type: typ, Link: link, KeepUpdated: true}
}

// Bind resolves declarative descriptors against a set of known record
// types, producing registrable relations. Descriptors reference child
// types by label; a label with no matching RecordType yields an
// *UnknownTypeError.
func Bind(types map[string]RecordType, descs ...*relation.Descriptor) ([]Relation, error) {
	rels := make([]Relation, 0, len(descs))
	for _, d := range descs {
		typ, ok := types[d.Type]
		if !ok {
			return nil, &UnknownTypeError{Label: d.Type}
		}
		rels = append(rels, Relation{
			Name:        d.Name,
			Type:        typ,
			Link:        d.Link,
			KeepUpdated: d.KeepUpdated,
		})
	}
	return rels, nil
}
