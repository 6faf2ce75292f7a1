// Package schema exports annotation trees as JSON Schema so UI generators
// can build forms and validators from documented configuration arguments.
//
// [FromTree] converts one item-carrying section into an object schema:
// item help becomes the property description, merged type tags map onto
// JSON Schema types, repeatable items become arrays, namespace items
// recurse into nested objects, and documented terms surface as enums.
// Property order follows docstring source order via PropertyOrder.
//
//	tree, _ := procdoc.Annotate(proc)
//	s, err := schema.FromTree(tree, "Envs")
//	out, _ := json.MarshalIndent(s, "", "  ")
package schema
