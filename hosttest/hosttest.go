// Package hosttest provides a canned [procdoc.Host] implementation for
// tests and examples, so annotation behavior can be exercised without a
// real process framework.
package hosttest

import "go.jacobcolvin.com/procdoc"

// Proc is a [procdoc.Host] backed by literal field slices. Use pointers to
// Proc so each value has a stable identity for annotator caching. A
// non-nil Parent makes the Proc inherit documentation as a
// [procdoc.Derived] host.
type Proc struct {
	Doc     string
	Inputs  []procdoc.Field
	Outputs []procdoc.Field
	Args    []procdoc.Field
	Parent  procdoc.Host
}

// Docstring implements [procdoc.Host].
func (p *Proc) Docstring() string { return p.Doc }

// InputFields implements [procdoc.Host].
func (p *Proc) InputFields() []procdoc.Field { return p.Inputs }

// OutputFields implements [procdoc.Host].
func (p *Proc) OutputFields() []procdoc.Field { return p.Outputs }

// ArgFields implements [procdoc.Host].
func (p *Proc) ArgFields() []procdoc.Field { return p.Args }

// Base implements [procdoc.Derived].
func (p *Proc) Base() procdoc.Host { return p.Parent }

// Input declares an input field with the given type tag.
func Input(name, typ string) procdoc.Field {
	return procdoc.Field{Name: name, Type: typ}
}

// Output declares an output field with the given type tag and template.
func Output(name, typ, template string) procdoc.Field {
	return procdoc.Field{Name: name, Type: typ, Default: template, HasDefault: true}
}

// Arg declares a configuration argument with the given default value.
func Arg(name string, def any) procdoc.Field {
	return procdoc.Field{Name: name, Default: def, HasDefault: true}
}

// Namespace declares a mapping-valued configuration argument with nested
// sub-fields.
func Namespace(name string, fields ...procdoc.Field) procdoc.Field {
	return procdoc.Field{Name: name, Fields: fields}
}
