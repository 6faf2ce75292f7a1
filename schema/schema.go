package schema

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"go.jacobcolvin.com/procdoc"
)

// JSON Schema type constants.
const (
	typeBoolean = "boolean"
	typeInteger = "integer"
	typeNumber  = "number"
	typeString  = "string"
	typeArray   = "array"
	typeObject  = "object"
)

// ErrUnknownSection indicates the requested section is not in the tree or
// carries no items.
var ErrUnknownSection = fmt.Errorf("unknown or non-item section")

// FromTree builds an object schema for one item-carrying section of an
// annotation tree, keyed by item name in source order. The section's
// canonical name becomes the schema title.
func FromTree(tree *procdoc.Tree, section string) (*jsonschema.Schema, error) {
	s, ok := tree.Section(section)
	if !ok || s.Items == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	schema := FromItems(s.Items)
	schema.Title = s.Name

	return schema, nil
}

// FromItems builds an object schema from an item mapping. Property order
// follows item source order.
func FromItems(items *procdoc.Items) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       typeObject,
		Properties: make(map[string]*jsonschema.Schema),
	}

	var order []string

	for _, item := range items.All() {
		schema.Properties[item.Name] = FromItem(item)
		order = append(order, item.Name)
	}

	schema.PropertyOrder = order

	return schema
}

// FromItem builds a schema for a single item from its merged attributes:
// help becomes the description, the type tag maps onto a JSON Schema type,
// a repeatable cardinality wraps the type in an array, namespace items
// recurse into their terms as object properties, and plain terms become an
// enum of the documented values.
func FromItem(item *procdoc.Item) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Description: item.Help,
	}

	if namespace, ok := item.Attrs.Get("namespace"); ok && namespace.Any() == true {
		nested := FromItems(item.Terms)
		schema.Type = typeObject
		schema.Properties = nested.Properties
		schema.PropertyOrder = nested.PropertyOrder

		return schema
	}

	elem := ""

	for _, key := range []string{"type", "itype", "otype"} {
		if tag, ok := item.Attrs.Get(key); ok {
			elem = mapType(fmt.Sprint(tag.Any()))

			break
		}
	}

	repeatable := false
	if c, ok := item.Attrs.Get("cardinality"); ok {
		repeatable = c.Any() == string(procdoc.Repeatable)
	}

	switch {
	case repeatable:
		schema.Type = typeArray

		if elem != "" {
			schema.Items = &jsonschema.Schema{Type: elem}
		}
	case elem != "":
		schema.Type = elem
	}

	if def, ok := item.Attrs.Get("default"); ok {
		schema.Default = defaultValue(def)
	}

	if item.Terms.Len() > 0 {
		for _, name := range item.Terms.Keys() {
			schema.Enum = append(schema.Enum, name)
		}
	}

	return schema
}

// mapType maps a field type tag onto a JSON Schema type. File-like and
// variable tags describe string-valued fields; unknown tags produce no
// type constraint.
func mapType(tag string) string {
	switch tag {
	case "bool", "boolean":
		return typeBoolean
	case "int", "integer":
		return typeInteger
	case "float", "number":
		return typeNumber
	case "str", "string", "var", "file", "dir", "files", "dirs":
		return typeString
	case "list", "array":
		return typeArray
	case "dict", "json", "object", "ns", "namespace":
		return typeObject
	}

	return ""
}

// defaultValue converts an attribute value to a JSON Schema default.
// Returns nil if marshaling fails.
func defaultValue(v procdoc.Value) json.RawMessage {
	b, err := json.Marshal(v.Any())
	if err != nil {
		return nil
	}

	return b
}
