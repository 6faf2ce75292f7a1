package procdoc

// Cardinality describes how many values a declared field accepts.
type Cardinality string

const (
	// Single means the field holds exactly one value.
	Single Cardinality = "single"
	// Repeatable means the field holds a sequence of values.
	Repeatable Cardinality = "repeatable"
)

// Field is one live field declaration on a [Host]: an input slot, an output
// slot, or a configuration argument. It carries only what the host declares;
// the docstring contributes everything else during merge.
type Field struct {
	// Name is the field name as declared on the host.
	Name string
	// Type is the declared type tag (e.g. "file", "dir", "var", "int").
	// Empty means the host does not declare a type for this field.
	Type string
	// Default is the declared default value, if any. For output fields this
	// is the output template. Use HasDefault to distinguish a nil default
	// from no default at all.
	Default any
	// HasDefault reports whether Default carries a declared value.
	HasDefault bool
	// Cardinality is the declared multiplicity. Empty means undeclared;
	// the merge engine then picks a kind-appropriate default.
	Cardinality Cardinality
	// Fields holds nested sub-fields when the field is a namespace of
	// further configuration values (a mapping-valued argument). The merge
	// engine recurses into them through the item's terms.
	Fields []Field
}

// Host exposes the live field declarations of the object being annotated.
// The annotation engine depends only on this interface, never on a concrete
// host type, so any process-like object can be documented and tests can
// substitute fixtures freely.
//
// Implementations must be comparable (in practice: use pointer types) so an
// [Annotator] can key its cache by host identity. The field slices are read
// once per annotation and must be stable for a given host.
type Host interface {
	// Docstring returns the raw documentation text attached to the host.
	// An empty string is valid and yields a tree with only the synthesized
	// sections for declared fields.
	Docstring() string
	// InputFields returns the declared input fields, in declaration order.
	InputFields() []Field
	// OutputFields returns the declared output fields, in declaration order.
	OutputFields() []Field
	// ArgFields returns the declared configuration arguments, in
	// declaration order.
	ArgFields() []Field
}

// Derived is an optional interface for hosts that inherit documentation
// from a base host. When a host implements Derived and Base returns a
// non-nil host, [Annotate] computes the base tree first and overlays the
// derived host's own sections on top of it.
type Derived interface {
	Host

	// Base returns the host this one derives from, or nil.
	Base() Host
}

// baseOf returns the base host when h opts into doc inheritance.
func baseOf(h Host) Host {
	d, ok := h.(Derived)
	if !ok {
		return nil
	}

	return d.Base()
}
