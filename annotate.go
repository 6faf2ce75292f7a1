package procdoc

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Sentinel errors returned by parsing and annotation.
var (
	// ErrMalformedDocstring indicates an indentation or structure
	// violation; the annotation of that host is aborted.
	ErrMalformedDocstring = errors.New("malformed docstring")
	// ErrUnknownSection indicates a section name outside the recognized
	// set while strict checking is in effect.
	ErrUnknownSection = errors.New("unknown section")
	// ErrInvalidAttrs indicates a malformed inline attribute clause. It is
	// recovered per item and surfaces only inside discrepancy details.
	ErrInvalidAttrs = errors.New("invalid attribute clause")
	// ErrInvalidOption indicates an invalid configuration value.
	ErrInvalidOption = errors.New("invalid option")
)

type options struct {
	permissive    bool
	indentUnit    int
	logger        *slog.Logger
	sections      map[string]SectionKind
	sectionCasing map[string]string
}

// Option configures a single parse or annotation run.
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// WithPermissive controls unknown-section handling. When permissive,
// unrecognized section names are retained verbatim as text sections and a
// warning is logged; the default is strict, which fails with
// [ErrUnknownSection].
func WithPermissive(permissive bool) Option {
	return func(o *options) {
		o.permissive = permissive
	}
}

// WithIndentUnit overrides the indentation unit in spaces. The default is
// auto-detection from the first indented line.
func WithIndentUnit(spaces int) Option {
	return func(o *options) {
		o.indentUnit = spaces
	}
}

// WithLogger sets the logger used for warnings. The default is
// [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSections recognizes additional section names for this run only,
// without touching the package-level table installed by [RegisterSection].
// Map keys provide the canonical casing; matching is case-insensitive.
func WithSections(sections map[string]SectionKind) Option {
	return func(o *options) {
		if o.sections == nil {
			o.sections = make(map[string]SectionKind, len(sections))
			o.sectionCasing = make(map[string]string, len(sections))
		}

		for name, kind := range sections {
			key := strings.ToLower(name)
			o.sections[key] = kind
			o.sectionCasing[key] = name
		}
	}
}

// Parse parses a docstring into a [Tree] without reconciling it against any
// live field definitions. Use [Annotate] when a [Host] is available.
func Parse(doc string, opts ...Option) (*Tree, error) {
	return parseDoc(doc, newOptions(opts))
}

// Annotate parses the host's docstring and merges the result with the
// host's live field definitions into a fresh [Tree]. It is a pure function
// of the docstring and the field snapshot; use an [Annotator] to cache
// results per host.
//
// When the host implements [Derived], the base host is annotated first and
// the derived host's own sections are overlaid on the base tree.
func Annotate(host Host, opts ...Option) (*Tree, error) {
	return annotateHost(host, newOptions(opts))
}

func annotateHost(host Host, o *options) (*Tree, error) {
	tree, err := parseDoc(host.Docstring(), o)
	if err != nil {
		return nil, err
	}

	mergeTree(tree, host, o.logger)

	base := baseOf(host)
	if base == nil {
		return tree, nil
	}

	baseTree, err := annotateHost(base, o)
	if err != nil {
		return nil, fmt.Errorf("annotating base host: %w", err)
	}

	return overlayTrees(baseTree, tree), nil
}

// overlayTrees applies a derived host's tree on top of its base tree.
// Item sections merge item-wise with the derived item winning wholesale;
// other section kinds are replaced. The base tree is not mutated.
func overlayTrees(base, derived *Tree) *Tree {
	out := base.clone()

	if derived.Summary != (Summary{}) {
		out.Summary = derived.Summary
	}

	out.Discrepancies = append(out.Discrepancies, derived.Discrepancies...)

	for _, section := range derived.Sections() {
		existing, ok := out.Section(section.Name)
		if !ok || existing.Kind != section.Kind || !section.Kind.isItemKind() {
			out.addSection(section.clone())

			continue
		}

		for _, item := range section.Items.All() {
			baseItem, has := existing.Items.Get(item.Name)
			if has && item.Help == notAnnotated {
				// The derived docstring adds nothing textual for this
				// item; keep the inherited documentation and only fill
				// in attrs the derived merge synthesized.
				for _, key := range item.Attrs.Keys() {
					v, _ := item.Attrs.Get(key)
					baseItem.Attrs.SetDefault(key, v)
				}

				continue
			}

			existing.Items.Add(item.clone())
		}
	}

	return out
}

// inflight tracks one in-progress annotation so concurrent first accesses
// of the same host share a single computation.
type inflight struct {
	done chan struct{}
	tree *Tree
	err  error
}

// Annotator memoizes [Annotate] results per host. Trees are computed once
// per host and treated as immutable; a failed annotation leaves no cache
// entry, so the next access retries. Safe for concurrent use.
//
// Hosts are keyed by identity, so host implementations must be comparable;
// pointer types are.
type Annotator struct {
	opts    []Option
	mu      sync.Mutex
	trees   map[Host]*Tree
	pending map[Host]*inflight
}

// NewAnnotator creates an [Annotator] applying the given options to every
// annotation it computes.
func NewAnnotator(opts ...Option) *Annotator {
	return &Annotator{
		opts:    opts,
		trees:   make(map[Host]*Tree),
		pending: make(map[Host]*inflight),
	}
}

// Annotate returns the cached tree for the host, computing it on first
// access.
func (a *Annotator) Annotate(host Host) (*Tree, error) {
	a.mu.Lock()

	if tree, ok := a.trees[host]; ok {
		a.mu.Unlock()

		return tree, nil
	}

	if f, ok := a.pending[host]; ok {
		a.mu.Unlock()
		<-f.done

		return f.tree, f.err
	}

	f := &inflight{done: make(chan struct{})}
	a.pending[host] = f
	a.mu.Unlock()

	f.tree, f.err = Annotate(host, a.opts...)

	a.mu.Lock()
	delete(a.pending, host)

	if f.err == nil {
		a.trees[host] = f.tree
	}

	a.mu.Unlock()
	close(f.done)

	return f.tree, f.err
}

// Invalidate drops the cached tree for the host. The next access computes
// a fresh tree; the old one is never mutated in place.
func (a *Annotator) Invalidate(host Host) {
	a.mu.Lock()
	delete(a.trees, host)
	a.mu.Unlock()
}
