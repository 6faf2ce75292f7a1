package procdoc

import (
	"strings"
)

// Format renders a tree back into canonical docstring text: the summary,
// then every named section in source order, indented with the given unit
// (the default unit when spaces <= 0). CLI help builders use this to show a
// normalized view of the documentation after merging.
func Format(t *Tree, spaces int) string {
	if spaces <= 0 {
		spaces = defaultIndentUnit
	}

	indent := strings.Repeat(" ", spaces)

	var sb strings.Builder

	if t.Summary.Short != "" {
		sb.WriteString(t.Summary.Short)
		sb.WriteString("\n")
	}

	if t.Summary.Long != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Summary.Long)
		sb.WriteString("\n")
	}

	for _, section := range t.Sections() {
		sb.WriteString("\n")
		sb.WriteString(section.Name)
		sb.WriteString(":\n")

		if !section.Kind.isItemKind() {
			for _, line := range section.Text {
				writeIndented(&sb, indent, line)
			}

			continue
		}

		for _, item := range section.Items.All() {
			formatItem(&sb, item, indent, 1, false)
		}
	}

	return sb.String()
}

// FormatItem renders a single item, with its attributes, paragraphs, and
// terms, starting at the given indentation.
func FormatItem(item *Item, indentation string) string {
	var sb strings.Builder

	unit := indentation
	if unit == "" {
		unit = strings.Repeat(" ", defaultIndentUnit)
	}

	formatItem(&sb, item, unit, 0, false)

	return sb.String()
}

func formatItem(sb *strings.Builder, item *Item, unit string, depth int, term bool) {
	prefix := strings.Repeat(unit, depth)
	if term {
		prefix += "- "
	}

	header := item.Name

	if item.Attrs.Len() > 0 {
		header += " (" + formatClause(item.Attrs) + ")"
	}

	header += ":"

	if item.Help != "" {
		header += " " + item.Help
	}

	sb.WriteString(prefix)
	sb.WriteString(header)
	sb.WriteString("\n")

	body := strings.Repeat(unit, depth+1)

	for i, para := range item.More {
		if i > 0 {
			sb.WriteString("\n")
		}

		for _, line := range strings.Split(para, "\n") {
			writeIndented(sb, body, line)
		}
	}

	for _, nested := range item.Terms.All() {
		formatItem(sb, nested, unit, depth+1, true)
	}
}

// formatClause renders an attribute set as inline-clause text, the inverse
// of the clause parse: bare keys for boolean true, key= for null, and
// key=literal otherwise.
func formatClause(attrs *Attrs) string {
	parts := make([]string, 0, attrs.Len())

	for _, key := range attrs.Keys() {
		v, _ := attrs.Get(key)

		switch {
		case v.Kind() == BoolValue && v.Any() == true:
			parts = append(parts, key)
		case v.Kind() == NullValue:
			parts = append(parts, key+"=")
		default:
			parts = append(parts, key+"="+v.Text())
		}
	}

	return strings.Join(parts, ",")
}

func writeIndented(sb *strings.Builder, indent, line string) {
	if strings.TrimSpace(line) == "" {
		sb.WriteString("\n")

		return
	}

	sb.WriteString(indent)
	sb.WriteString(line)
	sb.WriteString("\n")
}
