package procdoc

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
)

var sectionHeaderRegex = regexp.MustCompile(`^([A-Za-z_]\w*(?:[ -][A-Za-z_]\w*)*)\s*:$`)

// sectionRegistry maps section names (case-insensitive) to their kind and
// canonical casing.
type sectionRegistry struct {
	mu        sync.RWMutex
	kinds     map[string]SectionKind // lowercased name -> kind
	canonical map[string]string      // lowercased name -> canonical casing
}

func newSectionRegistry() *sectionRegistry {
	r := &sectionRegistry{
		kinds:     make(map[string]SectionKind),
		canonical: make(map[string]string),
	}

	for name, kind := range map[string]SectionKind{
		"Summary":    KindSummary,
		"Input":      KindInput,
		"Output":     KindOutput,
		"Envs":       KindConfig,
		"Args":       KindConfig,
		"Returns":    KindItems,
		"Raises":     KindItems,
		"Warns":      KindItems,
		"Items":      KindItems,
		"See Also":   KindText,
		"Notes":      KindText,
		"References": KindText,
		"Examples":   KindText,
		"Todo":       KindText,
		"Text":       KindText,
	} {
		r.set(name, kind)
	}

	return r
}

func (r *sectionRegistry) set(name string, kind SectionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(name)
	r.kinds[key] = kind
	r.canonical[key] = name
}

func (r *sectionRegistry) unset(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(name)
	delete(r.kinds, key)
	delete(r.canonical, key)
}

func (r *sectionRegistry) lookup(name string) (string, SectionKind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(name)

	kind, ok := r.kinds[key]
	if !ok {
		return "", 0, false
	}

	return r.canonical[key], kind, true
}

// defaultSections is the package-level section table, extensible via
// [RegisterSection] and [UnregisterSection].
var defaultSections = newSectionRegistry()

// RegisterSection adds a section name to the recognized set, with the
// given parsing kind. The name's casing becomes the canonical casing in
// output trees; matching is case-insensitive.
func RegisterSection(name string, kind SectionKind) {
	defaultSections.set(name, kind)
}

// UnregisterSection removes a section name from the recognized set.
func UnregisterSection(name string) {
	defaultSections.unset(name)
}

var itemLineRegex = regexp.MustCompile(`^([A-Za-z_][\w-]*)\s*(?:\((.*)\)\s*)?:(.*)$`)

// unbalancedItemRegex recognizes an item header whose attribute clause was
// opened but never closed, so the failure can be recovered per item instead
// of aborting the section.
var unbalancedItemRegex = regexp.MustCompile(`^([A-Za-z_][\w-]*)\s*\(.*$`)

// parser runs one docstring through lexing, section grouping, and item
// parsing. It is single-use; Annotate creates a fresh one per call.
type parser struct {
	opts *options
	unit int
	tree *Tree
	log  *slog.Logger
}

func (p *parser) warn(msg string, d Discrepancy) {
	p.tree.Discrepancies = append(p.tree.Discrepancies, d)
	p.log.Warn(msg,
		slog.String("kind", string(d.Kind)),
		slog.String("section", d.Section),
		slog.String("item", d.Item),
		slog.String("detail", d.Detail),
	)
}

// parseDoc parses a docstring into a tree with no live-field merging
// applied yet.
func parseDoc(doc string, opts *options) (*Tree, error) {
	p := &parser{
		opts: opts,
		tree: NewTree(),
		log:  opts.logger,
	}

	lines, unit, err := lexDocstring(doc, opts.indentUnit)
	if err != nil {
		return nil, err
	}

	p.unit = unit

	var (
		summaryLines []rawLine
		current      *openSection
		summarySeen  bool
	)

	summaryContent := func() bool {
		for _, l := range summaryLines {
			if !l.blank() {
				return true
			}
		}

		return false
	}

	closeSection := func() error {
		if current == nil {
			p.tree.Summary = parseSummary(summaryLines)

			return nil
		}

		// An explicit Summary: header replaces the implicit leading block.
		if current.kind == KindSummary {
			p.tree.Summary = parseSummary(current.body)

			return nil
		}

		section, err := p.buildSection(current)
		if err != nil {
			return err
		}

		p.tree.addSection(section)

		return nil
	}

	for _, line := range lines {
		name, header := p.matchSectionHeader(line)
		if !header {
			if current == nil {
				summaryLines = append(summaryLines, line)
			} else {
				current.body = append(current.body, line)
			}

			continue
		}

		canonical, kind, known := p.lookupSection(name)
		if !known {
			if !p.opts.permissive {
				return nil, fmt.Errorf(
					"%w: line %d: %q", ErrUnknownSection, line.num, name,
				)
			}

			p.log.Warn("unknown section retained verbatim",
				slog.String("section", name),
				slog.Int("line", line.num),
			)

			canonical, kind = name, KindText
		}

		// The summary never lands in the named-section table, so its
		// duplicate check tracks the implicit leading block and any
		// earlier explicit header instead.
		if kind == KindSummary {
			if summarySeen || summaryContent() {
				return nil, fmt.Errorf(
					"%w: line %d: duplicate section %q",
					ErrMalformedDocstring, line.num, canonical,
				)
			}

			summarySeen = true
		}

		if err := closeSection(); err != nil {
			return nil, err
		}

		if _, dup := p.tree.Section(canonical); dup {
			return nil, fmt.Errorf(
				"%w: line %d: duplicate section %q",
				ErrMalformedDocstring, line.num, canonical,
			)
		}

		current = &openSection{name: canonical, kind: kind, line: line.num}
	}

	if err := closeSection(); err != nil {
		return nil, err
	}

	return p.tree, nil
}

// openSection accumulates body lines for one named section until the next
// header or end of text.
type openSection struct {
	name string
	kind SectionKind
	line int
	body []rawLine
}

// matchSectionHeader reports whether the line is a section header at the
// margin and returns its name.
func (p *parser) matchSectionHeader(line rawLine) (string, bool) {
	if line.blank() || line.indent != 0 {
		return "", false
	}

	m := sectionHeaderRegex.FindStringSubmatch(line.text)
	if m == nil {
		return "", false
	}

	return m[1], true
}

func (p *parser) lookupSection(name string) (string, SectionKind, bool) {
	if p.opts.sections != nil {
		if kind, ok := p.opts.sections[strings.ToLower(name)]; ok {
			return p.opts.sectionCasing[strings.ToLower(name)], kind, true
		}
	}

	return defaultSections.lookup(name)
}

// buildSection parses an accumulated section body according to its kind.
func (p *parser) buildSection(open *openSection) (*Section, error) {
	section := &Section{Name: open.name, Kind: open.kind}

	if !open.kind.isItemKind() {
		section.Text = textBody(open.body)

		return section, nil
	}

	items, err := p.parseSectionItems(open)
	if err != nil {
		return nil, err
	}

	section.Items = items

	return section, nil
}

// textBody dedents a text section's lines and trims surrounding blanks.
func textBody(body []rawLine) []string {
	lines := make([]string, 0, len(body))

	for _, l := range body {
		lines = append(lines, l.text)
	}

	lines = dedentBlock(lines)

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// parseSummary splits the implicit leading block into the short (first
// paragraph) and long (remaining paragraphs) descriptions.
func parseSummary(lines []rawLine) Summary {
	var (
		paragraphs [][]string
		current    []string
	)

	for _, l := range lines {
		if l.blank() {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}

			continue
		}

		current = append(current, strings.TrimSpace(l.text))
	}

	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}

	if len(paragraphs) == 0 {
		return Summary{}
	}

	joined := make([]string, 0, len(paragraphs)-1)
	for _, para := range paragraphs[1:] {
		joined = append(joined, strings.Join(para, "\n"))
	}

	return Summary{
		Short: strings.Join(paragraphs[0], "\n"),
		Long:  strings.Join(joined, "\n\n"),
	}
}

// parseSectionItems parses the body of an item-carrying section. Item
// headers sit exactly one indentation unit deep; deeper lines continue the
// open item as terms or auxiliary paragraphs.
func (p *parser) parseSectionItems(open *openSection) (*Items, error) {
	items := NewItems()

	var (
		cur  *Item
		para []string // current More paragraph, relative lines
		sub  []string // term buffer, relative lines
	)

	flushPara := func() {
		if len(para) == 0 {
			return
		}

		lines := dedentBlock(para)
		cur.More = append(cur.More, strings.Join(lines, "\n"))
		para = nil
	}

	closeItem := func() error {
		if cur == nil {
			return nil
		}

		flushPara()

		if len(sub) > 0 {
			terms, err := p.parseTerms(open.name, cur.Name, sub)
			if err != nil {
				return err
			}

			cur.Terms = terms
			sub = nil
		}

		if items.Has(cur.Name) {
			return fmt.Errorf(
				"%w: section %q: duplicate item %q",
				ErrMalformedDocstring, open.name, cur.Name,
			)
		}

		items.Add(cur)
		cur = nil

		return nil
	}

	for _, line := range open.body {
		if line.blank() {
			if cur == nil {
				continue
			}

			if len(sub) > 0 {
				sub = append(sub, "")
			} else {
				flushPara()
			}

			continue
		}

		if line.indent == 0 {
			return nil, fmt.Errorf(
				"%w: line %d: item line indented less than its section %q",
				ErrMalformedDocstring, line.num, open.name,
			)
		}

		if line.indent == p.unit {
			if err := closeItem(); err != nil {
				return nil, err
			}

			item, err := p.parseItemHeader(open.name, line)
			if err != nil {
				return nil, err
			}

			cur = item

			continue
		}

		// Deeper than the item header: continuation.
		if cur == nil {
			return nil, fmt.Errorf(
				"%w: line %d: continuation with no open item in section %q",
				ErrMalformedDocstring, line.num, open.name,
			)
		}

		rel := line.text[p.unit:]

		switch {
		case len(sub) > 0:
			sub = append(sub, rel)
		case strings.HasPrefix(strings.TrimLeft(rel, " "), "- "):
			flushPara()

			sub = append(sub, rel)
		default:
			para = append(para, rel)
		}
	}

	if err := closeItem(); err != nil {
		return nil, err
	}

	return items, nil
}

// parseItemHeader splits an item header line into name, inline attribute
// clause, and first-line help. A malformed clause is recovered per item:
// the item keeps an empty attribute set and parsing continues.
func (p *parser) parseItemHeader(section string, line rawLine) (*Item, error) {
	body := line.body()

	m := itemLineRegex.FindStringSubmatch(body)
	if m == nil {
		if u := unbalancedItemRegex.FindStringSubmatch(body); u != nil {
			item := newItem(u[1])
			if idx := strings.LastIndexByte(body, ':'); idx >= 0 {
				item.Help = strings.TrimSpace(body[idx+1:])
			}

			p.warn("invalid attribute clause", Discrepancy{
				Kind:    InvalidAttrs,
				Section: section,
				Item:    u[1],
				Detail:  fmt.Sprintf("line %d: unbalanced parentheses in %q", line.num, body),
			})

			return item, nil
		}

		return nil, fmt.Errorf(
			"%w: line %d: invalid item line %q in section %q",
			ErrMalformedDocstring, line.num, body, section,
		)
	}

	item := newItem(m[1])
	item.Help = strings.TrimSpace(m[3])

	if m[2] != "" {
		attrs, err := parseClause(m[2])
		if err != nil {
			p.warn("invalid attribute clause", Discrepancy{
				Kind:    InvalidAttrs,
				Section: section,
				Item:    m[1],
				Detail:  fmt.Sprintf("line %d: %v", line.num, err),
			})
		} else {
			item.Attrs = attrs
		}
	}

	return item, nil
}

// parseTerms parses nested term lines under an item. Terms are marked with
// a "- " prefix at a common depth; lines indented deeper than a term belong
// to it, either extending its help (directly under the marker) or forming
// its own nested terms.
func (p *parser) parseTerms(section, itemName string, lines []string) (*Items, error) {
	terms := NewItems()
	lines = dedentBlock(lines)

	var (
		cur         *Item
		sub         []string
		justMatched bool
	)

	closeTerm := func() error {
		if cur == nil || len(sub) == 0 {
			sub = nil

			return nil
		}

		nested, err := p.parseTerms(section, cur.Name, sub)
		if err != nil {
			return err
		}

		cur.Terms = nested
		sub = nil

		return nil
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(sub) > 0 {
				sub = append(sub, "")
			}

			continue
		}

		var m []string
		if strings.HasPrefix(line, "- ") {
			m = itemLineRegex.FindStringSubmatch(line[2:])
		}

		trimLeft := strings.TrimLeft(line, " ")

		switch {
		case m != nil:
			if err := closeTerm(); err != nil {
				return nil, err
			}

			cur = newItem(m[1])
			cur.Help = strings.TrimSpace(m[3])

			if m[2] != "" {
				attrs, err := parseClause(m[2])
				if err != nil {
					p.warn("invalid attribute clause", Discrepancy{
						Kind:    InvalidAttrs,
						Section: section,
						Item:    itemName + "." + m[1],
						Detail:  err.Error(),
					})
				} else {
					cur.Attrs = attrs
				}
			}

			terms.Add(cur)

			justMatched = true
		case cur == nil:
			return nil, fmt.Errorf(
				"%w: section %q item %q: invalid term line %q",
				ErrMalformedDocstring, section, itemName, line,
			)
		case justMatched && !strings.HasPrefix(trimLeft, "- "):
			cur.Help += " " + strings.TrimSpace(line)
		default:
			sub = append(sub, line)

			if strings.HasPrefix(trimLeft, "- ") {
				justMatched = false
			}
		}
	}

	if err := closeTerm(); err != nil {
		return nil, err
	}

	return terms, nil
}
