package procdoc

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// ValueKind identifies the variant held by a [Value].
type ValueKind int

// Value kinds, decided once when the attribute literal is parsed.
const (
	NullValue ValueKind = iota
	BoolValue
	IntValue
	FloatValue
	StringValue
	ListValue
)

// Value is an attribute value: a tagged union over null, boolean, integer,
// float, string, and list-of-string. The variant is fixed at parse time
// from the literal text of the inline clause, or at merge time from the
// live field's declared default.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
	list []string
}

// Null returns the null Value.
func Null() Value { return Value{kind: NullValue} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: BoolValue, b: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: IntValue, i: i} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: FloatValue, f: f} }

// String returns a string Value.
func String(s string) Value { return Value{kind: StringValue, s: s} }

// List returns a list-of-string Value.
func List(elems ...string) Value { return Value{kind: ListValue, list: elems} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// Any returns the value as a plain Go value: nil, bool, int64, float64,
// string, or []string.
func (v Value) Any() any {
	switch v.kind {
	case BoolValue:
		return v.b
	case IntValue:
		return v.i
	case FloatValue:
		return v.f
	case StringValue:
		return v.s
	case ListValue:
		return v.list
	case NullValue:
	}

	return nil
}

// Equal reports whether two Values hold the same variant and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	if v.kind != ListValue {
		return v.Any() == o.Any()
	}

	if len(v.list) != len(o.list) {
		return false
	}

	for i := range v.list {
		if v.list[i] != o.list[i] {
			return false
		}
	}

	return true
}

// Text renders the value as attribute-literal text, the inverse of the
// inline-clause parse.
func (v Value) Text() string {
	switch v.kind {
	case BoolValue:
		if v.b {
			return "true"
		}

		return "false"
	case IntValue:
		return fmt.Sprintf("%d", v.i)
	case FloatValue:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)

		// Keep a decimal point so the literal re-parses as a float,
		// not an integer.
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}

		return s
	case StringValue:
		return v.s
	case ListValue:
		return "[" + strings.Join(v.list, ", ") + "]"
	case NullValue:
	}

	return ""
}

// MarshalJSON implements [json.Marshaler].
func (v Value) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(v.Any())
	if err != nil {
		return nil, fmt.Errorf("marshaling value: %w", err)
	}

	return b, nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Any(), nil
}

var attrKeyRegex = regexp.MustCompile(`^[A-Za-z_][\w-]*$`)

// parseClause parses the inline attribute clause of an item header: a
// comma-separated list of key=value pairs and bare keys. Bare keys resolve
// to boolean true; an explicit empty value (key=) resolves to null. Commas
// inside bracketed list literals do not split.
func parseClause(clause string) (*Attrs, error) {
	attrs := NewAttrs()

	for _, token := range splitClause(clause) {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("%w: empty attribute in clause %q", ErrInvalidAttrs, clause)
		}

		key, literal, found := strings.Cut(token, "=")

		key = strings.TrimSpace(key)
		if !attrKeyRegex.MatchString(key) {
			return nil, fmt.Errorf("%w: bad attribute key %q in clause %q", ErrInvalidAttrs, key, clause)
		}

		if !found {
			attrs.Set(key, Bool(true))

			continue
		}

		attrs.Set(key, parseLiteral(strings.TrimSpace(literal)))
	}

	return attrs, nil
}

// splitClause splits on commas at bracket depth zero.
func splitClause(clause string) []string {
	var (
		tokens []string
		depth  int
		start  int
	)

	for i, r := range clause {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				tokens = append(tokens, clause[start:i])
				start = i + 1
			}
		}
	}

	return append(tokens, clause[start:])
}

// parseLiteral infers a typed Value from attribute literal text. Bracketed
// comma lists become list values; scalar literals are typed by parsing them
// as YAML scalars, so unquoted true/false, integers, floats, and null all
// land on their natural variant and anything else stays a string.
func parseLiteral(literal string) Value {
	if literal == "" {
		return Null()
	}

	if strings.HasPrefix(literal, "[") && strings.HasSuffix(literal, "]") {
		inner := strings.TrimSpace(literal[1 : len(literal)-1])
		if inner == "" {
			return List()
		}

		parts := strings.Split(inner, ",")
		elems := make([]string, 0, len(parts))

		for _, part := range parts {
			elems = append(elems, strings.TrimSpace(part))
		}

		return List(elems...)
	}

	var v any

	if err := yaml.Unmarshal([]byte(literal), &v); err != nil {
		return String(literal)
	}

	switch n := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(n)
	case int:
		return Int(int64(n))
	case int64:
		return Int(n)
	case uint64:
		return Int(int64(n))
	case float64:
		return Float(n)
	case string:
		return String(n)
	}

	// Mappings and other YAML structures have no attribute variant.
	return String(literal)
}

// valueFromLive converts a live field's declared default into a Value.
// Scalars map onto their variant; string slices become lists; anything else
// is rendered to its string form so no declared information is lost.
func valueFromLive(v any) Value {
	switch n := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(n)
	case int:
		return Int(int64(n))
	case int64:
		return Int(n)
	case float64:
		return Float(n)
	case string:
		return String(n)
	case []string:
		return List(n...)
	case []any:
		elems := make([]string, 0, len(n))
		for _, e := range n {
			elems = append(elems, fmt.Sprint(e))
		}

		return List(elems...)
	}

	return String(fmt.Sprint(v))
}

// liveTypeTag returns the type tag synthesized from a scalar live default
// when the host declares no type. Non-scalar defaults produce no tag.
func liveTypeTag(v any) string {
	switch v.(type) {
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	}

	return ""
}
