package procdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Attrs is an insertion-ordered mapping of attribute name to [Value].
// Keys keep the position of their first Set; consumers rely on stable
// ordering for display.
type Attrs struct {
	m     map[string]Value
	order []string
}

// NewAttrs creates an empty attribute mapping.
func NewAttrs() *Attrs {
	return &Attrs{m: make(map[string]Value)}
}

// Set stores a value under key, keeping the key's original position when it
// already exists.
func (a *Attrs) Set(key string, v Value) {
	if _, ok := a.m[key]; !ok {
		a.order = append(a.order, key)
	}

	a.m[key] = v
}

// SetDefault stores a value only when the key is absent and reports whether
// it stored anything. The merge engine uses this so text-declared values
// always win and re-merging is idempotent.
func (a *Attrs) SetDefault(key string, v Value) bool {
	if _, ok := a.m[key]; ok {
		return false
	}

	a.Set(key, v)

	return true
}

// Get returns the value for key.
func (a *Attrs) Get(key string) (Value, bool) {
	v, ok := a.m[key]

	return v, ok
}

// Has reports whether key is present.
func (a *Attrs) Has(key string) bool {
	_, ok := a.m[key]

	return ok
}

// Len returns the number of attributes.
func (a *Attrs) Len() int { return len(a.order) }

// Keys returns the attribute names in insertion order.
func (a *Attrs) Keys() []string {
	keys := make([]string, len(a.order))
	copy(keys, a.order)

	return keys
}

// MarshalJSON implements [json.Marshaler], preserving insertion order.
func (a *Attrs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range a.order {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshaling attr key %q: %w", key, err)
		}

		v, err := json.Marshal(a.m[key])
		if err != nil {
			return nil, fmt.Errorf("marshaling attr %q: %w", key, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler, preserving insertion
// order via [yaml.MapSlice].
func (a *Attrs) MarshalYAML() (any, error) {
	slice := make(yaml.MapSlice, 0, len(a.order))

	for _, key := range a.order {
		slice = append(slice, yaml.MapItem{Key: key, Value: a.m[key].Any()})
	}

	return slice, nil
}

func (a *Attrs) clone() *Attrs {
	c := NewAttrs()

	for _, key := range a.order {
		c.Set(key, a.m[key])
	}

	return c
}

// Item is one documented field within a section.
type Item struct {
	// Name is the item name as written in the docstring or declared on
	// the host.
	Name string
	// Help is the single-line help text from the item header.
	Help string
	// Attrs holds the item's resolved attributes.
	Attrs *Attrs
	// Terms holds nested sub-entries documenting enumerable values or
	// namespace members under this item.
	Terms *Items
	// More holds auxiliary free-text paragraphs that were neither terms
	// nor attributes. Lines within a paragraph are joined with newlines.
	More []string
}

func newItem(name string) *Item {
	return &Item{
		Name:  name,
		Attrs: NewAttrs(),
		Terms: NewItems(),
	}
}

// MarshalJSON implements [json.Marshaler].
func (it *Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"name":`)

	writeField := func(v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling item %q: %w", it.Name, err)
		}

		buf.Write(b)

		return nil
	}

	if err := writeField(it.Name); err != nil {
		return nil, err
	}

	buf.WriteString(`,"help":`)

	if err := writeField(it.Help); err != nil {
		return nil, err
	}

	buf.WriteString(`,"attrs":`)

	if err := writeField(it.Attrs); err != nil {
		return nil, err
	}

	buf.WriteString(`,"terms":`)

	if err := writeField(it.Terms); err != nil {
		return nil, err
	}

	if len(it.More) > 0 {
		buf.WriteString(`,"more":`)

		if err := writeField(it.More); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (it *Item) MarshalYAML() (any, error) {
	attrs, err := it.Attrs.MarshalYAML()
	if err != nil {
		return nil, err
	}

	terms, err := it.Terms.MarshalYAML()
	if err != nil {
		return nil, err
	}

	slice := yaml.MapSlice{
		{Key: "name", Value: it.Name},
		{Key: "help", Value: it.Help},
		{Key: "attrs", Value: attrs},
		{Key: "terms", Value: terms},
	}

	if len(it.More) > 0 {
		slice = append(slice, yaml.MapItem{Key: "more", Value: it.More})
	}

	return slice, nil
}

func (it *Item) clone() *Item {
	c := &Item{
		Name:  it.Name,
		Help:  it.Help,
		Attrs: it.Attrs.clone(),
		Terms: it.Terms.clone(),
	}

	c.More = append(c.More, it.More...)

	return c
}

// Items is an insertion-ordered mapping of item name to [*Item].
type Items struct {
	m     map[string]*Item
	order []string
}

// NewItems creates an empty item mapping.
func NewItems() *Items {
	return &Items{m: make(map[string]*Item)}
}

// Add stores an item under its name, keeping the original position when the
// name already exists.
func (is *Items) Add(item *Item) {
	if _, ok := is.m[item.Name]; !ok {
		is.order = append(is.order, item.Name)
	}

	is.m[item.Name] = item
}

// Get returns the item with the given name.
func (is *Items) Get(name string) (*Item, bool) {
	item, ok := is.m[name]

	return item, ok
}

// Has reports whether an item with the given name is present.
func (is *Items) Has(name string) bool {
	_, ok := is.m[name]

	return ok
}

// Len returns the number of items.
func (is *Items) Len() int { return len(is.order) }

// Keys returns the item names in insertion order.
func (is *Items) Keys() []string {
	keys := make([]string, len(is.order))
	copy(keys, is.order)

	return keys
}

// All returns the items in insertion order.
func (is *Items) All() []*Item {
	items := make([]*Item, 0, len(is.order))

	for _, name := range is.order {
		items = append(items, is.m[name])
	}

	return items
}

// MarshalJSON implements [json.Marshaler], preserving insertion order.
func (is *Items) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, name := range is.order {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("marshaling item key %q: %w", name, err)
		}

		v, err := json.Marshal(is.m[name])
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (is *Items) MarshalYAML() (any, error) {
	slice := make(yaml.MapSlice, 0, len(is.order))

	for _, name := range is.order {
		v, err := is.m[name].MarshalYAML()
		if err != nil {
			return nil, err
		}

		slice = append(slice, yaml.MapItem{Key: name, Value: v})
	}

	return slice, nil
}

func (is *Items) clone() *Items {
	c := NewItems()

	for _, name := range is.order {
		c.Add(is.m[name].clone())
	}

	return c
}

// SectionKind determines how a section's body is parsed and merged.
type SectionKind int

const (
	// KindSummary is the implicit unnamed leading block.
	KindSummary SectionKind = iota
	// KindItems is a plain item list with no live-field merge.
	KindItems
	// KindInput is an item list merged against the host's input fields.
	KindInput
	// KindOutput is an item list merged against the host's output fields.
	KindOutput
	// KindConfig is an item list merged against the host's configuration
	// arguments.
	KindConfig
	// KindText is a verbatim free-text block.
	KindText
)

// isItemKind reports whether sections of this kind carry items.
func (k SectionKind) isItemKind() bool {
	switch k {
	case KindItems, KindInput, KindOutput, KindConfig:
		return true
	case KindSummary, KindText:
	}

	return false
}

// Section is one named group of documented items, or a verbatim text block.
type Section struct {
	// Name is the canonical section name.
	Name string
	// Kind determines whether Items or Text carries the content.
	Kind SectionKind
	// Items holds the section's items for item-carrying kinds; nil for
	// text sections.
	Items *Items
	// Text holds the dedented body lines for text sections.
	Text []string
}

func (s *Section) clone() *Section {
	c := &Section{Name: s.Name, Kind: s.Kind}

	if s.Items != nil {
		c.Items = s.Items.clone()
	}

	c.Text = append(c.Text, s.Text...)

	return c
}

// Summary is the implicit leading block of a docstring.
type Summary struct {
	// Short is the first paragraph, stripped.
	Short string
	// Long is the remaining paragraphs before the first named section,
	// stripped; may be empty.
	Long string
}

// DiscrepancyKind classifies a non-fatal mismatch found during merge or
// attribute resolution.
type DiscrepancyKind string

const (
	// MissingAnnotation marks a live field with no documented item; a
	// placeholder entry is synthesized for it.
	MissingAnnotation DiscrepancyKind = "missing_annotation"
	// UndeclaredItem marks a documented item with no matching live field;
	// the item is retained as written.
	UndeclaredItem DiscrepancyKind = "undeclared_item"
	// InvalidAttrs marks an item whose inline attribute clause failed to
	// parse; the item keeps an empty attribute set.
	InvalidAttrs DiscrepancyKind = "invalid_attrs"
)

// Discrepancy records one non-fatal mismatch. Discrepancies are never
// dropped; they accumulate on the [Tree] so callers can surface them.
type Discrepancy struct {
	Kind    DiscrepancyKind
	Section string
	Item    string
	Detail  string
}

// Tree is the annotation result: the summary plus the named sections in
// source order, with all merges applied. Trees are built once per host and
// treated as immutable afterwards.
type Tree struct {
	// Summary is the implicit leading block.
	Summary Summary
	// Discrepancies lists the non-fatal mismatches found while building
	// the tree, in discovery order.
	Discrepancies []Discrepancy

	sections map[string]*Section
	order    []string
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{sections: make(map[string]*Section)}
}

// Section returns the named section.
func (t *Tree) Section(name string) (*Section, bool) {
	s, ok := t.sections[name]

	return s, ok
}

// Sections returns the named sections in source order.
func (t *Tree) Sections() []*Section {
	sections := make([]*Section, 0, len(t.order))

	for _, name := range t.order {
		sections = append(sections, t.sections[name])
	}

	return sections
}

// SectionNames returns the section names in source order.
func (t *Tree) SectionNames() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)

	return names
}

func (t *Tree) addSection(s *Section) {
	if _, ok := t.sections[s.Name]; !ok {
		t.order = append(t.order, s.Name)
	}

	t.sections[s.Name] = s
}

// Item is a convenience lookup of one item by section and name.
func (t *Tree) Item(section, name string) (*Item, bool) {
	s, ok := t.sections[section]
	if !ok || s.Items == nil {
		return nil, false
	}

	return s.Items.Get(name)
}

// MarshalJSON implements [json.Marshaler]. The output is a plain nested
// object keyed by "Summary" and the canonical section names, in source
// order, so downstream tooling can serialize the tree without loss.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"Summary":`)

	sb, err := json.Marshal(struct {
		Short string `json:"short"`
		Long  string `json:"long"`
	}{t.Summary.Short, t.Summary.Long})
	if err != nil {
		return nil, fmt.Errorf("marshaling summary: %w", err)
	}

	buf.Write(sb)

	for _, name := range t.order {
		buf.WriteByte(',')

		k, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("marshaling section key %q: %w", name, err)
		}

		buf.Write(k)
		buf.WriteByte(':')

		section := t.sections[name]

		var body []byte

		if section.Kind.isItemKind() {
			body, err = json.Marshal(section.Items)
		} else {
			body, err = json.Marshal(strings.Join(section.Text, "\n"))
		}

		if err != nil {
			return nil, fmt.Errorf("marshaling section %q: %w", name, err)
		}

		buf.Write(body)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler with the same shape and
// ordering as [Tree.MarshalJSON].
func (t *Tree) MarshalYAML() (any, error) {
	slice := yaml.MapSlice{
		{Key: "Summary", Value: yaml.MapSlice{
			{Key: "short", Value: t.Summary.Short},
			{Key: "long", Value: t.Summary.Long},
		}},
	}

	for _, name := range t.order {
		section := t.sections[name]

		if section.Kind.isItemKind() {
			body, err := section.Items.MarshalYAML()
			if err != nil {
				return nil, err
			}

			slice = append(slice, yaml.MapItem{Key: name, Value: body})

			continue
		}

		slice = append(slice, yaml.MapItem{Key: name, Value: strings.Join(section.Text, "\n")})
	}

	return slice, nil
}

func (t *Tree) clone() *Tree {
	c := NewTree()
	c.Summary = t.Summary
	c.Discrepancies = append(c.Discrepancies, t.Discrepancies...)

	for _, name := range t.order {
		c.addSection(t.sections[name].clone())
	}

	return c
}
