package relsync_test

import (
	"github.com/syssam/relsync"
)

// fakeRecord is an in-memory Record for exercising the engine without a
// database. Identity lives in the "id" attribute; nextID, when set, is
// assigned on the first successful save to simulate an insert.
type fakeRecord struct {
	names   []string
	attrs   map[string]any
	errs    map[string][]string
	invalid map[string]string // attribute -> validation failure message

	nextID     any
	failSave   bool
	failDelete bool

	saves     int
	deletes   int
	validated [][]string
}

func newFake(names ...string) *fakeRecord {
	return &fakeRecord{
		names:   names,
		attrs:   make(map[string]any),
		errs:    make(map[string][]string),
		invalid: make(map[string]string),
	}
}

func (f *fakeRecord) with(name string, value any) *fakeRecord {
	f.attrs[name] = value
	return f
}

func (f *fakeRecord) Load(attrs map[string]any) bool {
	applied := false
	for name, value := range attrs {
		if !f.declared(name) {
			continue
		}
		f.attrs[name] = value
		applied = true
	}
	return applied
}

func (f *fakeRecord) Validate(attrs []string, clearErrors bool) bool {
	if clearErrors {
		f.errs = make(map[string][]string)
	}
	names := attrs
	if names == nil {
		names = f.AttributeNames()
	}
	f.validated = append(f.validated, names)
	ok := true
	for _, name := range names {
		if msg, bad := f.invalid[name]; bad {
			f.errs[name] = append(f.errs[name], msg)
			ok = false
		}
	}
	return ok
}

func (f *fakeRecord) Save(runValidation bool, attrs []string) bool {
	if runValidation && !f.Validate(attrs, true) {
		return false
	}
	f.saves++
	if f.failSave {
		f.errs["base"] = append(f.errs["base"], "save failed")
		return false
	}
	if f.attrs["id"] == nil && f.nextID != nil {
		f.attrs["id"] = f.nextID
	}
	return true
}

func (f *fakeRecord) Delete() bool {
	f.deletes++
	return !f.failDelete
}

func (f *fakeRecord) PrimaryKey() any {
	return f.attrs["id"]
}

func (f *fakeRecord) AttributeNames() []string {
	return append([]string{"id"}, f.names...)
}

func (f *fakeRecord) Attribute(name string) any {
	return f.attrs[name]
}

func (f *fakeRecord) Errors() map[string][]string {
	return f.errs
}

func (f *fakeRecord) declared(name string) bool {
	if name == "id" {
		return true
	}
	for _, n := range f.names {
		if n == name {
			return true
		}
	}
	return false
}

var _ relsync.Record = (*fakeRecord)(nil)

// itemType constructs child records with "order_id" and "name"
// attributes, as used throughout the engine tests.
var itemType = relsync.RecordType{
	Label: "item",
	New: func() relsync.Record {
		return newFake("order_id", "name", "status")
	},
}
