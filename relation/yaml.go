package relation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema is a set of relation declarations grouped by parent type
// label, as loaded from a YAML schema file:
//
//	customer:
//	  - name: orders
//	    type: order
//	    foreign_key: customer_id
//	    keep_updated: true
//	order:
//	  - name: items
//	    type: order_item
//	    foreign_key: order_id
//	    keep_updated: true
type Schema map[string][]*Descriptor

// Relations returns the declarations for the given parent type label.
func (s Schema) Relations(parent string) []*Descriptor {
	return s[parent]
}

// Parse decodes a YAML relation schema.
func Parse(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("relation: parse schema: %w", err)
	}
	for parent, descs := range s {
		for _, d := range descs {
			if err := check(parent, d); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// ParseFile reads and decodes a YAML relation schema file.
func ParseFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("relation: read schema: %w", err)
	}
	return Parse(data)
}

// check validates a single declaration.
func check(parent string, d *Descriptor) error {
	switch {
	case d.Name == "":
		return fmt.Errorf("relation: %s: declaration without a name", parent)
	case d.Type == "":
		return fmt.Errorf("relation: %s.%s: declaration without a child type", parent, d.Name)
	case d.Link.ForeignKey == "":
		return fmt.Errorf("relation: %s.%s: declaration without a foreign key", parent, d.Name)
	}
	return nil
}
