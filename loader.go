package relsync

// Merge merges a payload of attribute maps into an existing collection,
// producing the updated desired collection in payload order.
//
// Existing records are indexed by identity. A payload entry carrying an
// identity that matches an indexed record reuses that record instance
// and overwrites its attributes; every other entry becomes a fresh,
// unsaved instance of typ. Existing records referenced by no payload
// entry are dropped from the result, which makes them removal
// candidates on the next save once the result is assigned back.
//
// Two payload entries carrying the same identity resolve to the same
// record instance, the later entry overwriting the earlier one's
// attributes. The duplicate is kept in the result rather than
// deduplicated.
func Merge(existing []Record, typ RecordType, entries []map[string]any) []Record {
	key := typ.KeyName()
	index := make(map[any]Record, len(existing))
	for _, r := range existing {
		if pk := r.PrimaryKey(); pk != nil {
			index[pk] = r
		}
	}
	out := make([]Record, 0, len(entries))
	for _, entry := range entries {
		var rec Record
		if id, ok := entry[key]; ok && id != nil {
			rec = index[id]
		}
		if rec == nil {
			rec = typ.New()
		}
		rec.Load(entry)
		out = append(out, rec)
	}
	return out
}

// MergeScoped locates payload entries for typ inside an untyped input
// and merges them into existing. Entries are accepted either as the
// input itself or nested one level under the type's conventional scope
// key (see RecordType.ScopeName).
//
// When the input carries no entries for the type at all — a nil input,
// an input map without the scope key, or an unrecognized shape — the
// original collection is returned unchanged with ok reported false.
// That is "no effective input", not an error: absence of a scope key is
// how a payload says nothing about the relation.
func MergeScoped(existing []Record, typ RecordType, input any) (coll []Record, ok bool) {
	entries, ok := scopedEntries(typ, input)
	if !ok {
		return existing, false
	}
	return Merge(existing, typ, entries), true
}

// MergeIDs back-fills identity values positionally onto the current
// collection: ids[i] is loaded into the identity attribute of
// current[i]. Surplus ids are ignored. This narrow variant serves flows
// that reconcile primary keys only, with no accompanying attributes.
func MergeIDs(current []Record, typ RecordType, ids []any) []Record {
	key := typ.KeyName()
	for i, id := range ids {
		if i >= len(current) {
			break
		}
		current[i].Load(map[string]any{key: id})
	}
	return current
}

// scopedEntries extracts the attribute-map sequence for typ from an
// untyped payload.
func scopedEntries(typ RecordType, input any) ([]map[string]any, bool) {
	switch v := input.(type) {
	case []map[string]any:
		return v, true
	case []any:
		return castEntries(v)
	case map[string]any:
		scoped, ok := v[typ.ScopeName()]
		if !ok {
			return nil, false
		}
		return scopedEntries(typ, scoped)
	default:
		return nil, false
	}
}

// castEntries converts a decoded []any payload (the shape produced by
// generic JSON and YAML decoding) into attribute maps. A sequence with
// any non-map member is rejected as a whole.
func castEntries(v []any) ([]map[string]any, bool) {
	entries := make([]map[string]any, 0, len(v))
	for _, e := range v {
		m, ok := e.(map[string]any)
		if !ok {
			return nil, false
		}
		entries = append(entries, m)
	}
	return entries, true
}

// LoadPayload merges the input's entries for the named relation into
// its desired collection and assigns the result back, snapshotting the
// pre-merge collection as the diff baseline. It reports whether the
// input carried effective entries for the relation; with no effective
// input the relation is left untouched.
func (r *Relator) LoadPayload(name string, input any) (bool, error) {
	rel, err := r.resolve(name)
	if err != nil {
		return false, err
	}
	merged, ok := MergeScoped(r.collections[name], rel.Type, input)
	if !ok {
		return false, nil
	}
	return true, r.Assign(name, merged)
}

// LoadPayloadAll runs LoadPayload for every kept-updated relation,
// reporting whether any relation received effective input. A nil input
// is a bad-input condition and returns ErrEmptyPayload.
func (r *Relator) LoadPayloadAll(input map[string]any) (bool, error) {
	if input == nil {
		return false, ErrEmptyPayload
	}
	effective := false
	for _, name := range r.order {
		if !r.relations[name].KeepUpdated {
			continue
		}
		ok, err := r.LoadPayload(name, input)
		if err != nil {
			return effective, err
		}
		if ok {
			effective = true
		}
	}
	return effective, nil
}
