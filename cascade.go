package relsync

// SaveOption configures a cascade save pass.
type SaveOption func(*saveOptions)

type saveOptions struct {
	skipValidation bool
}

// SkipValidation disables the validation gate of SaveAll and Reconcile.
// Records are then saved without any validation pass; the caller takes
// responsibility for the state being written.
func SkipValidation() SaveOption {
	return func(o *saveOptions) { o.skipValidation = true }
}

// assigned returns, in registration order, the relations that have been
// assigned at least once. Cascade operations fan out over exactly this
// set: a relation never assigned has no snapshot and nothing to
// reconcile.
func (r *Relator) assigned() []string {
	names := make([]string, 0, len(r.order))
	for _, name := range r.order {
		if _, ok := r.snapshots[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// ValidateAll validates the desired collection of every assigned
// relation, reporting whether all records of all relations passed.
// Every record is validated regardless of earlier failures.
func (r *Relator) ValidateAll() bool {
	ok := true
	for _, name := range r.assigned() {
		if valid, _ := r.Validate(name); !valid {
			ok = false
		}
	}
	return ok
}

// SaveAll reconciles every assigned relation. Unless validation is
// explicitly skipped, a full ValidateAll pass gates the save: if any
// record fails validation, SaveAll returns false without having saved
// or deleted anything. Once the gate passes, records are saved without
// a second per-record validation.
func (r *Relator) SaveAll(opts ...SaveOption) bool {
	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.skipValidation && !r.ValidateAll() {
		return false
	}
	ok := true
	for _, name := range r.assigned() {
		if saved, _ := r.save(name, false); !saved {
			ok = false
		}
	}
	return ok
}

// DeleteAll deletes the desired collection of every assigned relation,
// reporting whether every deletion succeeded.
func (r *Relator) DeleteAll() bool {
	ok := true
	for _, name := range r.assigned() {
		if deleted, _ := r.Delete(name); !deleted {
			ok = false
		}
	}
	return ok
}

// Reconcile validates and saves the named relations only. Every name
// must be registered and declared kept updated; a name outside the
// kept-updated set fails with an *InvalidRelationError before anything
// is validated or saved.
func (r *Relator) Reconcile(names []string, opts ...SaveOption) (bool, error) {
	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}
	for _, name := range names {
		rel, err := r.resolve(name)
		if err != nil {
			return false, err
		}
		if !rel.KeepUpdated {
			return false, &InvalidRelationError{Name: name}
		}
	}
	if !o.skipValidation {
		valid := true
		for _, name := range names {
			if ok, _ := r.Validate(name); !ok {
				valid = false
			}
		}
		if !valid {
			return false, nil
		}
	}
	ok := true
	for _, name := range names {
		if saved, _ := r.save(name, false); !saved {
			ok = false
		}
	}
	return ok, nil
}

// BeforeDelete deletes the desired collection of every kept-updated
// relation, clearing dependents ahead of the parent row's removal. The
// aggregate result is advisory: a failing child deletion is reported to
// the caller but does not by itself veto the parent's own delete.
func (r *Relator) BeforeDelete() bool {
	ok := true
	for _, name := range r.order {
		if !r.relations[name].KeepUpdated {
			continue
		}
		if deleted, _ := r.Delete(name); !deleted {
			ok = false
		}
	}
	return ok
}

// AllErrors collects, per assigned relation, the error map of every
// record in its desired collection that currently carries errors.
// Relations whose records are all clean are omitted.
func (r *Relator) AllErrors() map[string][]map[string][]string {
	all := make(map[string][]map[string][]string)
	for _, name := range r.assigned() {
		for _, child := range r.collections[name] {
			if errs := child.Errors(); len(errs) > 0 {
				all[name] = append(all[name], errs)
			}
		}
	}
	return all
}
