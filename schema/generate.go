package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Generate derives a schema Node for the given Go value using reflection.
// Pointers become Optional nodes, slices and arrays become Sequences, and
// struct fields are read in declaration order with their `json` names.
//
// Recognized struct tags:
//
//	type Server struct {
//	  Name  string   `json:"name" description:"Display name"`
//	  Ports []int    `json:"ports" minItems:"1" maxItems:"8"`
//	  Mode  string   `json:"mode" enum:"dev,staging,prod"`
//	  Host  *string  `json:"host,omitempty" match:"*.example.com"`
//	}
func Generate(v any) (*Node, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("schema: cannot generate a schema for a nil value")
	}
	// A top-level pointer is the caller's handle on the value, not a
	// statement that the whole value is optional.
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflectType(t)
}

func reflectType(t reflect.Type) (*Node, error) {
	switch t.Kind() {
	case reflect.String:
		return &Node{Kind: String}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Node{Kind: Integer}, nil

	case reflect.Float32, reflect.Float64:
		return &Node{Kind: Number}, nil

	case reflect.Bool:
		return &Node{Kind: Bool}, nil

	case reflect.Slice, reflect.Array:
		item, err := reflectType(t.Elem())
		if err != nil {
			return nil, fmt.Errorf("schema: element of %s: %w", t, err)
		}
		return &Node{Kind: Sequence, Item: item}, nil

	case reflect.Ptr:
		inner, err := reflectType(t.Elem())
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Optional, Inner: inner}, nil

	case reflect.Struct:
		return reflectStruct(t)

	default:
		return nil, fmt.Errorf("schema: unsupported Go kind %s", t.Kind())
	}
}

func reflectStruct(t reflect.Type) (*Node, error) {
	node := &Node{Kind: Struct}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "-" {
			continue
		}
		child, err := reflectType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("schema: field %s.%s: %w", t.Name(), field.Name, err)
		}
		applyFieldTags(child, field)
		node.Fields = append(node.Fields, Field{
			Name:   name,
			Doc:    field.Tag.Get("description"),
			Schema: child,
		})
	}
	return node, nil
}

// fieldName returns the JSON name for a struct field, falling back to the
// Go field name when no tag is present.
func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}

// applyFieldTags folds tag-level constraints into the generated node. Tags
// apply through an Optional wrapper so `*string` fields can still carry
// enum or match constraints.
func applyFieldTags(n *Node, field reflect.StructField) {
	target := n
	if target.Kind == Optional {
		target = target.Inner
	}

	switch target.Kind {
	case String:
		if e := field.Tag.Get("enum"); e != "" {
			var variants []Variant
			for _, name := range strings.Split(e, ",") {
				if name = strings.TrimSpace(name); name != "" {
					variants = append(variants, Variant{Name: name})
				}
			}
			*target = Node{Kind: Enum, Variants: variants}
			return
		}
		if m := field.Tag.Get("match"); m != "" {
			target.Match = m
		}
	case Sequence:
		if v, err := strconv.Atoi(field.Tag.Get("minItems")); err == nil {
			target.MinItems = v
		}
		if v, err := strconv.Atoi(field.Tag.Get("maxItems")); err == nil {
			target.MaxItems = v
		}
	}
}
