// Package relation provides declarative descriptors for one-to-many
// record associations.
//
// A relation is declared with an explicit name, child type label and
// link at definition time; there is no runtime discovery of relation
// names. Descriptors are pure data: they reference child types by label
// and are bound to runtime constructors by the engine.
//
// Declaring a relation:
//
//	relation.Many("items", "order_item").
//		ForeignKey("order_id").
//		LocalKey("id")
//
// Relation sets can also be loaded from a YAML schema file; see
// [Parse] and [ParseFile].
package relation

// Link ties a child record's foreign-key attribute to an attribute on
// the parent. LocalKey is the parent's identity attribute in this
// domain.
type Link struct {
	// ForeignKey is the child attribute holding the parent's key.
	ForeignKey string `yaml:"foreign_key"`

	// LocalKey is the parent attribute the foreign key mirrors.
	// Empty means "id".
	LocalKey string `yaml:"local_key"`
}

// Local returns the parent-side key attribute, defaulting to "id".
func (l Link) Local() string {
	if l.LocalKey != "" {
		return l.LocalKey
	}
	return "id"
}

// Descriptor is the declarative form of a one-to-many relation. It is
// immutable once registered on a parent instance; re-declaring the same
// name overwrites the previous entry.
type Descriptor struct {
	// Name identifies the relation on its parent.
	Name string `yaml:"name"`

	// Type is the child record type label (for example "order_item").
	Type string `yaml:"type"`

	// Link ties the child's foreign key to the parent's local key.
	Link Link `yaml:",inline"`

	// KeepUpdated marks the relation as managed by cascade save and
	// delete operations.
	KeepUpdated bool `yaml:"keep_updated"`
}

// ManyBuilder builds a one-to-many relation descriptor.
type ManyBuilder struct {
	desc *Descriptor
}

// Many starts building a kept-updated one-to-many relation with the
// given name and child type label.
func Many(name, typeLabel string) *ManyBuilder {
	return &ManyBuilder{desc: &Descriptor{
		Name:        name,
		Type:        typeLabel,
		KeepUpdated: true,
	}}
}

// ForeignKey sets the child attribute holding the parent's key.
func (b *ManyBuilder) ForeignKey(name string) *ManyBuilder {
	b.desc.Link.ForeignKey = name
	return b
}

// LocalKey sets the parent attribute the foreign key mirrors.
// The default is "id".
func (b *ManyBuilder) LocalKey(name string) *ManyBuilder {
	b.desc.Link.LocalKey = name
	return b
}

// Advisory excludes the relation from cascade save and delete; it can
// still be reconciled explicitly by name.
func (b *ManyBuilder) Advisory() *ManyBuilder {
	b.desc.KeepUpdated = false
	return b
}

// Descriptor returns the built descriptor.
func (b *ManyBuilder) Descriptor() *Descriptor {
	return b.desc
}
