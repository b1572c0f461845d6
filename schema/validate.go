package schema

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Validate checks that every node in the tree has the fields its kind
// requires. Shape violations are fatal: the walker refuses to start a
// session over an invalid schema rather than guessing mid-prompt.
func (n *Node) Validate() error {
	return n.validate("schema")
}

func (n *Node) validate(path string) error {
	if n == nil {
		return fmt.Errorf("schema: %s: node is nil", path)
	}
	switch n.Kind {
	case Null, Bool, Integer, Number:
		return nil

	case String:
		if n.Match != "" {
			if _, err := glob.Compile(n.Match); err != nil {
				return fmt.Errorf("schema: %s: invalid match pattern %q: %w", path, n.Match, err)
			}
		}
		return nil

	case Optional:
		if n.Inner == nil {
			return fmt.Errorf("schema: %s: optional node has no inner schema", path)
		}
		return n.Inner.validate(path)

	case Sequence:
		if n.Item == nil {
			return fmt.Errorf("schema: %s: sequence node has no item schema", path)
		}
		if n.MinItems < 0 {
			return fmt.Errorf("schema: %s: negative minItems %d", path, n.MinItems)
		}
		if n.MaxItems != 0 && n.MaxItems < n.MinItems {
			return fmt.Errorf("schema: %s: maxItems %d is below minItems %d", path, n.MaxItems, n.MinItems)
		}
		return n.Item.validate(path + "[]")

	case Enum:
		if len(n.Variants) == 0 {
			return fmt.Errorf("schema: %s: enum node has no variants", path)
		}
		seen := make(map[string]bool, len(n.Variants))
		for _, v := range n.Variants {
			if v.Name == "" {
				return fmt.Errorf("schema: %s: enum variant has no name", path)
			}
			if seen[v.Name] {
				return fmt.Errorf("schema: %s: duplicate enum variant %q", path, v.Name)
			}
			seen[v.Name] = true
			if v.Payload != nil {
				if err := v.Payload.validate(path + "." + v.Name); err != nil {
					return err
				}
			}
		}
		return nil

	case Struct:
		seen := make(map[string]bool, len(n.Fields))
		for _, f := range n.Fields {
			if f.Name == "" {
				return fmt.Errorf("schema: %s: struct field has no name", path)
			}
			if seen[f.Name] {
				return fmt.Errorf("schema: %s: duplicate struct field %q", path, f.Name)
			}
			seen[f.Name] = true
			if err := f.Schema.validate(path + "." + f.Name); err != nil {
				return err
			}
		}
		return nil

	case Ref:
		return fmt.Errorf("schema: %s: unresolved reference %q", path, n.Ref)

	default:
		return fmt.Errorf("schema: %s: unsupported node kind %q", path, n.Kind)
	}
}
