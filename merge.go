package procdoc

import (
	"log/slog"
)

// notAnnotated is the help text synthesized for live fields the docstring
// never documents.
const notAnnotated = "Not annotated"

// merger reconciles parsed items against the host's live field definitions.
// It is the only point where text-derived data meets live-object data.
// Every rule is fill-gaps-only: values the text declares always win, and
// re-running a merge with the same inputs changes nothing.
type merger struct {
	tree *Tree
	log  *slog.Logger
}

// mergeTree applies the host's input, output, and configuration field
// definitions to a parsed tree. The result is total over the union of both
// sources: undocumented fields gain synthesized entries and undeclared
// items are retained, with a discrepancy recorded either way.
func mergeTree(tree *Tree, host Host, log *slog.Logger) {
	m := &merger{tree: tree, log: log}

	m.mergeInputs(host.InputFields())
	m.mergeOutputs(host.OutputFields())
	m.mergeConfig(host.ArgFields())
}

func (m *merger) warn(msg string, d Discrepancy) {
	m.tree.Discrepancies = append(m.tree.Discrepancies, d)
	m.log.Warn(msg,
		slog.String("kind", string(d.Kind)),
		slog.String("section", d.Section),
		slog.String("item", d.Item),
		slog.String("detail", d.Detail),
	)
}

// section returns the first section of the given kind in source order,
// creating one with the given canonical name when the host declares fields
// but the docstring has no matching section.
func (m *merger) section(kind SectionKind, name string, declared int) *Section {
	for _, s := range m.tree.Sections() {
		if s.Kind == kind {
			return s
		}
	}

	if declared == 0 {
		return nil
	}

	s := &Section{Name: name, Kind: kind, Items: NewItems()}
	m.tree.addSection(s)

	return s
}

func (m *merger) mergeInputs(fields []Field) {
	section := m.section(KindInput, "Input", len(fields))
	if section == nil {
		return
	}

	for _, f := range fields {
		item, ok := section.Items.Get(f.Name)
		if !ok {
			item = newItem(f.Name)
			item.Help = notAnnotated
			section.Items.Add(item)

			m.warn("missing annotation", Discrepancy{
				Kind:    MissingAnnotation,
				Section: section.Name,
				Item:    f.Name,
			})
		}

		itype := f.Type
		if itype == "" {
			itype = "var"
		}

		item.Attrs.SetDefault("itype", String(itype))

		// Inputs consume channels: repeatable unless declared otherwise.
		cardinality := f.Cardinality
		if cardinality == "" {
			cardinality = Repeatable
		}

		item.Attrs.SetDefault("cardinality", String(string(cardinality)))
	}

	m.reportUndeclared(section, fields)
}

func (m *merger) mergeOutputs(fields []Field) {
	section := m.section(KindOutput, "Output", len(fields))
	if section == nil {
		return
	}

	for _, f := range fields {
		item, ok := section.Items.Get(f.Name)
		if !ok {
			item = newItem(f.Name)
			item.Help = notAnnotated
			section.Items.Add(item)

			m.warn("missing annotation", Discrepancy{
				Kind:    MissingAnnotation,
				Section: section.Name,
				Item:    f.Name,
			})
		}

		otype := f.Type
		if otype == "" {
			otype = "var"
		}

		item.Attrs.SetDefault("otype", String(otype))

		if f.HasDefault {
			item.Attrs.SetDefault("default", valueFromLive(f.Default))
		}

		cardinality := f.Cardinality
		if cardinality == "" {
			cardinality = Single
		}

		item.Attrs.SetDefault("cardinality", String(string(cardinality)))
	}

	m.reportUndeclared(section, fields)
}

// mergeConfig reconciles configuration arguments against every config
// section in the docstring. A docstring may split its arguments across
// Envs and Args; each declared field merges into whichever section
// documents it, and undocumented fields are synthesized into the first.
func (m *merger) mergeConfig(fields []Field) {
	var sections []*Section

	for _, s := range m.tree.Sections() {
		if s.Kind == KindConfig {
			sections = append(sections, s)
		}
	}

	if len(sections) == 0 {
		if len(fields) == 0 {
			return
		}

		s := &Section{Name: "Envs", Kind: KindConfig, Items: NewItems()}
		m.tree.addSection(s)
		sections = append(sections, s)
	}

	for _, f := range fields {
		section, item := configItem(sections, f.Name)
		if item == nil {
			section = sections[0]
			item = newItem(f.Name)
			item.Help = notAnnotated
			section.Items.Add(item)

			m.warn("missing annotation", Discrepancy{
				Kind:    MissingAnnotation,
				Section: section.Name,
				Item:    f.Name,
			})
		}

		m.mergeConfigItem(section.Name, f.Name, item, f)
	}

	for _, s := range sections {
		m.reportUndeclaredAt(s.Name, "", s.Items, fields)
	}
}

// configItem finds a documented item by name across the config sections
// in source order.
func configItem(sections []*Section, name string) (*Section, *Item) {
	for _, s := range sections {
		if item, ok := s.Items.Get(name); ok {
			return s, item
		}
	}

	return nil, nil
}

// mergeConfigItem applies one configuration field's live facts to its
// item, recursing into namespace fields through the item's terms.
func (m *merger) mergeConfigItem(section, path string, item *Item, f Field) {
	if len(f.Fields) > 0 {
		item.Attrs.SetDefault("namespace", Bool(true))
		m.mergeConfigFields(section, path, item.Terms, f.Fields)

		return
	}

	if f.HasDefault {
		item.Attrs.SetDefault("default", valueFromLive(f.Default))
	}

	tag := f.Type
	if tag == "" && f.HasDefault {
		tag = liveTypeTag(f.Default)
	}

	if tag != "" {
		item.Attrs.SetDefault("type", String(tag))
	}

	cardinality := f.Cardinality
	if cardinality == "" {
		cardinality = Single

		if f.HasDefault {
			if v := valueFromLive(f.Default); v.Kind() == ListValue {
				cardinality = Repeatable
			}
		}
	}

	item.Attrs.SetDefault("cardinality", String(string(cardinality)))
}

// mergeConfigFields reconciles one nested level of configuration
// arguments under a namespace item.
func (m *merger) mergeConfigFields(section, prefix string, items *Items, fields []Field) {
	for _, f := range fields {
		path := prefix + "." + f.Name

		item, ok := items.Get(f.Name)
		if !ok {
			item = newItem(f.Name)
			item.Help = notAnnotated
			items.Add(item)

			m.warn("missing annotation", Discrepancy{
				Kind:    MissingAnnotation,
				Section: section,
				Item:    path,
			})
		}

		m.mergeConfigItem(section, path, item, f)
	}

	m.reportUndeclaredAt(section, prefix, items, fields)
}

func (m *merger) reportUndeclared(section *Section, fields []Field) {
	m.reportUndeclaredAt(section.Name, "", section.Items, fields)
}

// reportUndeclaredAt records documented items with no matching live field.
// The items themselves are retained untouched.
func (m *merger) reportUndeclaredAt(section, prefix string, items *Items, fields []Field) {
	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name] = true
	}

	for _, name := range items.Keys() {
		if declared[name] {
			continue
		}

		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		m.warn("item not declared on host", Discrepancy{
			Kind:    UndeclaredItem,
			Section: section,
			Item:    path,
		})
	}
}
