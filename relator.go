package relsync

// Relator tracks the relation state of a single parent record: the
// registered relations, the desired collection currently assigned to
// each, and the snapshot of each collection as it stood before the most
// recent assignment. The snapshot is the diff baseline for save-time
// reconciliation.
//
// A Relator is request-scoped and not safe for concurrent use; it lives
// and dies with one logical operation on its parent record.
type Relator struct {
	owner       Record
	relations   map[string]Relation
	order       []string
	snapshots   map[string][]Record
	collections map[string][]Record
}

// New returns a Relator for the given parent record with the given
// relations registered.
func New(owner Record, rels ...Relation) *Relator {
	r := &Relator{
		owner:       owner,
		relations:   make(map[string]Relation, len(rels)),
		snapshots:   make(map[string][]Record),
		collections: make(map[string][]Record),
	}
	for _, rel := range rels {
		r.Register(rel)
	}
	return r
}

// Owner returns the parent record.
func (r *Relator) Owner() Record {
	return r.owner
}

// Register adds a relation to the registry. Registering a name twice
// overwrites the previous entry; registration order is preserved and
// drives the iteration order of the cascade operations.
func (r *Relator) Register(rel Relation) {
	if _, ok := r.relations[rel.Name]; !ok {
		r.order = append(r.order, rel.Name)
	}
	r.relations[rel.Name] = rel
}

// Relations returns the registered relations in registration order.
func (r *Relator) Relations() []Relation {
	rels := make([]Relation, 0, len(r.order))
	for _, name := range r.order {
		rels = append(rels, r.relations[name])
	}
	return rels
}

// resolve looks up a registered relation by name.
func (r *Relator) resolve(name string) (Relation, error) {
	rel, ok := r.relations[name]
	if !ok {
		return Relation{}, &UnknownRelationError{Name: name}
	}
	return rel, nil
}

// Assign replaces the desired collection of the named relation. The
// collection that was current the instant before the call is captured
// as the relation's snapshot, and the parent's local key is propagated
// into the foreign-key attribute of every record in children.
//
// The snapshot is not refreshed by a later Save; callers that run
// repeated save passes without reassigning must call Resync in between.
func (r *Relator) Assign(name string, children []Record) error {
	rel, err := r.resolve(name)
	if err != nil {
		return err
	}
	r.snapshots[name] = r.collections[name]
	r.propagate(rel, children)
	r.collections[name] = children
	return nil
}

// Collection returns the desired collection currently assigned to the
// named relation. The returned slice is the live collection; callers
// may mutate records in place between load and save.
func (r *Relator) Collection(name string) []Record {
	return r.collections[name]
}

// Snapshot returns the diff baseline of the named relation: the
// collection that was current before the most recent Assign.
func (r *Relator) Snapshot(name string) []Record {
	return r.snapshots[name]
}

// Resync resets the named relation's snapshot to its current desired
// collection, making the collection its own diff baseline for the next
// save pass.
func (r *Relator) Resync(name string) error {
	if _, err := r.resolve(name); err != nil {
		return err
	}
	r.snapshots[name] = r.collections[name]
	return nil
}

// Validate validates every record in the named relation's desired
// collection and reports whether all of them passed. Validation does
// not stop at the first failing record; every record is validated and
// its errors recorded.
//
// With no explicit attribute subset, each record is validated on all of
// its declared attributes except the relation's foreign key, which is
// system-managed rather than user-supplied.
func (r *Relator) Validate(name string, attrs ...string) (bool, error) {
	rel, err := r.resolve(name)
	if err != nil {
		return false, err
	}
	ok := true
	for _, child := range r.collections[name] {
		names := attrs
		if len(names) == 0 {
			names = withoutAttr(child.AttributeNames(), rel.Link.ForeignKey)
		}
		if !child.Validate(names, true) {
			ok = false
		}
	}
	return ok, nil
}

// Save reconciles the named relation's persisted state with its desired
// collection: the snapshot and the desired collection are diffed by
// identity, every member of the desired collection is saved with the
// parent key re-propagated into its foreign key, and every removed
// member is deleted.
//
// The pass is best-effort and non-transactional. A failing record does
// not abort the remainder; Save reports false if any individual save or
// delete failed, and nothing is rolled back.
func (r *Relator) Save(name string) (bool, error) {
	return r.save(name, true)
}

// Delete deletes every record currently in the named relation's desired
// collection, reporting whether all deletions succeeded.
func (r *Relator) Delete(name string) (bool, error) {
	if _, err := r.resolve(name); err != nil {
		return false, err
	}
	ok := true
	for _, child := range r.collections[name] {
		if !child.Delete() {
			ok = false
		}
	}
	return ok, nil
}

// save runs one reconciliation pass. runValidation is forwarded to the
// per-record save: cascade saves that already ran a validation pass
// disable it to avoid validating twice.
func (r *Relator) save(name string, runValidation bool) (bool, error) {
	rel, err := r.resolve(name)
	if err != nil {
		return false, err
	}
	upsert, remove := Diff(r.snapshots[name], r.collections[name])
	ok := true
	for _, child := range upsert {
		// Re-propagate the key: the parent may have gained its
		// identity since Assign, on first insert.
		r.propagate(rel, []Record{child})
		if !child.Save(runValidation, nil) {
			ok = false
		}
	}
	for _, child := range remove {
		if !child.Delete() {
			ok = false
		}
	}
	return ok, nil
}

// propagate copies the parent's local key value into the foreign-key
// attribute of each child.
func (r *Relator) propagate(rel Relation, children []Record) {
	key := r.owner.Attribute(rel.Link.Local())
	for _, child := range children {
		child.Load(map[string]any{rel.Link.ForeignKey: key})
	}
}

// withoutAttr returns names with the given attribute removed.
func withoutAttr(names []string, attr string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != attr {
			out = append(out, n)
		}
	}
	return out
}
