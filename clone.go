package relsync

import (
	"github.com/vmihailenco/msgpack/v5"
)

// CloneCollection returns fresh, unsaved copies of the records
// currently in the named relation's desired collection. Each clone
// carries the source record's attribute values but not its identity,
// so the clones can be assigned and saved elsewhere without colliding
// on primary keys. Nothing is persisted.
func (r *Relator) CloneCollection(name string) ([]Record, error) {
	rel, err := r.resolve(name)
	if err != nil {
		return nil, err
	}
	coll := r.collections[name]
	clones := make([]Record, 0, len(coll))
	for _, child := range coll {
		clone := rel.Type.New()
		clone.Load(cloneAttrs(child, rel.Type.KeyName()))
		clones = append(clones, clone)
	}
	return clones, nil
}

// FilterCollection replaces the named relation's desired collection
// with the subsequence whose attributes equal every key/value pair in
// match, preserving the original relative order. The snapshot is left
// untouched, so dropped records become removal candidates on the next
// save.
func (r *Relator) FilterCollection(name string, match map[string]any) error {
	if _, err := r.resolve(name); err != nil {
		return err
	}
	coll := r.collections[name]
	kept := make([]Record, 0, len(coll))
	for _, child := range coll {
		if attrsMatch(child, match) {
			kept = append(kept, child)
		}
	}
	r.collections[name] = kept
	return nil
}

// DeepClone produces a full unsaved duplicate of the parent and its
// children: a new parent record of typ carrying the owner's non-key
// attribute values, wrapped in a new Relator with the same relations,
// each populated with CloneCollection's output. Neither the clone nor
// its children are persisted; every identity in the duplicate graph is
// empty.
func (r *Relator) DeepClone(typ RecordType) (Record, *Relator) {
	clone := typ.New()
	clone.Load(cloneAttrs(r.owner, typ.KeyName()))
	cloned := New(clone, r.Relations()...)
	for _, name := range r.order {
		children, _ := r.CloneCollection(name)
		_ = cloned.Assign(name, children)
	}
	return clone, cloned
}

// cloneAttrs captures a record's attribute values, excluding the
// identity attribute, as a fresh map. Values are deep-copied through a
// msgpack round trip so the clone shares no mutable state (nested maps,
// slices) with the source.
func cloneAttrs(rec Record, key string) map[string]any {
	attrs := make(map[string]any)
	for _, name := range rec.AttributeNames() {
		if name == key {
			continue
		}
		if v := rec.Attribute(name); v != nil {
			attrs[name] = v
		}
	}
	data, err := msgpack.Marshal(attrs)
	if err != nil {
		return attrs
	}
	copied := make(map[string]any, len(attrs))
	if err := msgpack.Unmarshal(data, &copied); err != nil {
		return attrs
	}
	return copied
}

// attrsMatch reports whether every key/value pair in match equals the
// record's current attribute value.
func attrsMatch(rec Record, match map[string]any) bool {
	for name, want := range match {
		if rec.Attribute(name) != want {
			return false
		}
	}
	return true
}
