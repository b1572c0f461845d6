package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Document is the on-disk form of a schema: a root node plus optional named
// definitions that Ref nodes may point at. Definitions may reference each
// other as long as the result stays a tree; cycles are a load error.
type Document struct {
	Definitions map[string]*Node `json:"definitions,omitempty" yaml:"definitions,omitempty"`
	Schema      *Node            `json:"schema" yaml:"schema"`
}

// LoadFile reads a schema document from a YAML or JSON file, resolves its
// references, and validates the result.
func LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("schema: %s: unsupported schema file extension (want .yaml, .yml, or .json)", path)
	}
}

// ParseYAML parses a YAML schema document.
func ParseYAML(data []byte) (*Node, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}
	return doc.Resolve()
}

// ParseJSON parses a JSON schema document.
func ParseJSON(data []byte) (*Node, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse json: %w", err)
	}
	return doc.Resolve()
}

// Resolve expands every Ref node against the document's definitions and
// validates the resolved tree. Shared definitions are copied per use so the
// result is a tree, never a graph.
func (d *Document) Resolve() (*Node, error) {
	if d.Schema == nil {
		return nil, fmt.Errorf("schema: document has no schema")
	}
	resolved, err := resolveRefs(d.Schema, d.Definitions, nil)
	if err != nil {
		return nil, err
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func resolveRefs(n *Node, defs map[string]*Node, active []string) (*Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind == Ref {
		for _, name := range active {
			if name == n.Ref {
				return nil, fmt.Errorf("schema: cyclic reference %q (via %s)", n.Ref, strings.Join(active, " -> "))
			}
		}
		def, ok := defs[n.Ref]
		if !ok {
			return nil, fmt.Errorf("schema: reference to unknown definition %q", n.Ref)
		}
		return resolveRefs(def.clone(), defs, append(active, n.Ref))
	}

	out := *n
	var err error
	if out.Inner, err = resolveRefs(n.Inner, defs, active); err != nil {
		return nil, err
	}
	if out.Item, err = resolveRefs(n.Item, defs, active); err != nil {
		return nil, err
	}
	if n.Variants != nil {
		out.Variants = make([]Variant, len(n.Variants))
		for i, v := range n.Variants {
			if v.Payload, err = resolveRefs(v.Payload, defs, active); err != nil {
				return nil, err
			}
			out.Variants[i] = v
		}
	}
	if n.Fields != nil {
		out.Fields = make([]Field, len(n.Fields))
		for i, f := range n.Fields {
			if f.Schema, err = resolveRefs(f.Schema, defs, active); err != nil {
				return nil, err
			}
			out.Fields[i] = f
		}
	}
	return &out, nil
}
