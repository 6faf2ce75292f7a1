// Package procdoc converts structured docstrings attached to process-like
// objects into normalized, machine-queryable annotation trees. A process
// declares named input fields, output fields, and configuration arguments;
// its docstring documents them in an indentation-delimited dialect. The
// package parses that dialect, reconciles the parsed items against the live
// field declarations, and produces an ordered [Tree] that frameworks, UI
// generators, and CLI help builders can read instead of re-parsing text.
//
// # Docstring Dialect
//
// A docstring is an implicit leading summary block followed by named
// sections:
//
//	Build genome indexes for the aligner.
//
//	Longer description, possibly spanning
//	several paragraphs.
//
//	Input:
//	    infile: An input file
//	    invar: An input variable
//	Output:
//	    outdir: The output directory
//	Envs:
//	    ncores (type=int): Number of cores to use
//	        Extra paragraph about core counting.
//	        - auto: detect from the machine
//	        - fixed: use the value as given
//
// Section headers sit at the margin and end with a colon. Item headers sit
// one indentation unit deep: a name, an optional parenthesized attribute
// clause, a colon, and single-line help. Deeper lines continue the open
// item, either as "- name: help" term lists (which nest recursively) or as
// auxiliary free-text paragraphs. Blank lines separate paragraphs but never
// terminate an item. The indentation unit is detected from the first
// indented line and can be overridden with [WithIndentUnit]; a line
// indented to a depth with no open block to continue fails with
// [ErrMalformedDocstring].
//
// The recognized section names are Summary (implicit), Input, Output,
// Envs, Args, Returns, Raises, Warns, Items, See Also, Notes, References,
// Examples, Todo, and Text. Matching is case-insensitive and output uses
// the canonical casing. [RegisterSection] extends the set globally;
// [WithSections] extends it for one run. Unknown names fail with
// [ErrUnknownSection] unless [WithPermissive] is set, in which case the
// section is retained verbatim as a text section and a warning is logged.
//
// # Attribute Clauses
//
// The inline clause is a comma-separated list of key=value pairs and bare
// keys. Bare keys mean boolean true; key= means null. Values are typed once
// at parse time into the [Value] union: unquoted true/false become
// booleans, numeric literals become integers or floats, bracketed comma
// lists become string lists, and everything else stays a string. A
// malformed clause never aborts the parse: the item keeps an empty
// attribute set, a [Discrepancy] of kind [InvalidAttrs] is recorded, and
// sibling items parse normally.
//
// # Merging
//
// [Annotate] reconciles the parsed tree against the [Host] interface, the
// only view of the live object the package depends on. Per attribute, a
// text-declared value always wins; when the text is silent the merge
// synthesizes the type tag, default value, and cardinality flag from the
// declared field. The merge is total over the union of both sources: a
// declared field with no documented item gains a synthesized entry with
// "Not annotated" help, and a documented item with no declared field is
// retained as written; both record a [Discrepancy] rather than dropping
// data. Synthesis is fill-gaps-only, so merging is idempotent.
//
// Hosts implementing [Derived] inherit documentation: the base host's tree
// is computed first and the derived host's own sections are overlaid on
// top, item-wise for item sections.
//
// # Output
//
// The resulting [Tree] preserves source order everywhere: sections,
// items, attributes, and terms all iterate in insertion order, and the
// ordered JSON and YAML marshalers emit plain nested mappings with the
// same ordering. [Format] renders a tree back into canonical docstring
// text. The schema subpackage exports item sections as JSON Schema for UI
// generators.
//
// # Errors
//
// Three sentinel errors surface from parsing, usable with [errors.Is]:
//
//   - [ErrMalformedDocstring]: indentation or structure violation (fatal,
//     carries the offending line number).
//   - [ErrUnknownSection]: unrecognized section under strict checking
//     (fatal unless permissive).
//   - [ErrInvalidOption]: invalid configuration, such as an unknown
//     section kind in [Config.NewAnnotator].
//
// Attribute clause failures and merge mismatches are not fatal; they are
// logged as warnings through [log/slog] and recorded on
// [Tree.Discrepancies].
//
// # Concurrency
//
// Parsing and merging are pure, synchronous transformations with no shared
// state; annotating different hosts in parallel needs no coordination. The
// only shared resource is the [Annotator] cache, which guarantees that
// concurrent first accesses of one host share a single computation and
// that failed annotations never populate the cache.
//
// # Basic Usage
//
//	tree, err := procdoc.Annotate(proc)
//	item, _ := tree.Item("Envs", "ncores")
//	fmt.Println(item.Help)
//
// # Cached Usage
//
//	annotator := procdoc.NewAnnotator(procdoc.WithPermissive(true))
//	tree, err := annotator.Annotate(proc) // computed once per host
//
// # CLI Integration
//
//	cfg := procdoc.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	_ = cfg.RegisterCompletions(rootCmd)
//
//	annotator, err := cfg.NewAnnotator()
package procdoc
