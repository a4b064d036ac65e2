package relsync

// Diff partitions an old and a new collection into the records to
// upsert and the records to remove, matching records across the two
// collections by primary-key identity.
//
// upsert is always the new collection itself, unmodified and in its
// original order: a record that survived the reassignment still gets
// saved, so attribute updates are never lost. remove holds the members
// of old whose identity does not appear anywhere in new, in old's
// original order.
//
// Records without a persisted identity cannot be matched for removal:
// they are excluded from the identity index, land in upsert like every
// other member of new, and never land in remove. When a collection
// contains duplicate identities the last occurrence wins for lookup
// purposes; the sequences themselves are not deduplicated.
func Diff(old, cur []Record) (upsert, remove []Record) {
	upsert = cur
	index := make(map[any]struct{}, len(cur))
	for _, r := range cur {
		if pk := r.PrimaryKey(); pk != nil {
			index[pk] = struct{}{}
		}
	}
	for _, r := range old {
		pk := r.PrimaryKey()
		if pk == nil {
			continue
		}
		if _, ok := index[pk]; !ok {
			remove = append(remove, r)
		}
	}
	return upsert, remove
}
