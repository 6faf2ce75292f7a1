package procdoc

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// sectionKindNames maps kind shortcut strings, as accepted on the command
// line, to section kinds.
var sectionKindNames = map[string]SectionKind{
	"summary": KindSummary,
	"items":   KindItems,
	"input":   KindInput,
	"output":  KindOutput,
	"config":  KindConfig,
	"envs":    KindConfig,
	"text":    KindText,
}

// Flags holds CLI flag names for annotation configuration, allowing callers
// to customize flag names while keeping sensible defaults.
type Flags struct {
	Permissive string
	IndentUnit string
	Sections   string
}

// Config holds CLI flag values for annotation configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewAnnotator] to create an
// [Annotator], or [Config.Options] to feed [Annotate] directly.
type Config struct {
	Flags      Flags
	Sections   []string
	IndentUnit int
	Permissive bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Permissive: "permissive-sections",
		IndentUnit: "indent-unit",
		Sections:   "sections",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds annotation flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.Permissive, c.Flags.Permissive, false,
		"retain unknown docstring sections verbatim instead of rejecting them")
	flags.IntVar(&c.IndentUnit, c.Flags.IndentUnit, 0,
		"docstring indentation unit in spaces (0 = auto-detect)")
	flags.StringSliceVar(&c.Sections, c.Flags.Sections, nil,
		"additional recognized sections as name=kind pairs "+
			"(kinds: summary, items, input, output, config, text)")
}

// RegisterCompletions registers shell completions for annotation flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.IndentUnit, c.Flags.Sections} {
		err := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// Options converts the config into [Option] values for [Annotate] or
// [Parse].
func (c *Config) Options() ([]Option, error) {
	var opts []Option

	if c.Permissive {
		opts = append(opts, WithPermissive(true))
	}

	if c.IndentUnit > 0 {
		opts = append(opts, WithIndentUnit(c.IndentUnit))
	}

	if len(c.Sections) > 0 {
		sections, err := c.parseSections()
		if err != nil {
			return nil, err
		}

		opts = append(opts, WithSections(sections))
	}

	return opts, nil
}

// NewAnnotator creates an [Annotator] using this [Config].
func (c *Config) NewAnnotator() (*Annotator, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}

	return NewAnnotator(opts...), nil
}

// parseSections parses name=kind pairs from the sections flag.
func (c *Config) parseSections() (map[string]SectionKind, error) {
	sections := make(map[string]SectionKind, len(c.Sections))

	for _, pair := range c.Sections {
		name, kindName, found := strings.Cut(pair, "=")

		name = strings.TrimSpace(name)
		if name == "" || !found {
			return nil, fmt.Errorf("%w: section pair %q, want name=kind", ErrInvalidOption, pair)
		}

		kind, ok := sectionKindNames[strings.ToLower(strings.TrimSpace(kindName))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown section kind %q", ErrInvalidOption, kindName)
		}

		sections[name] = kind
	}

	return sections, nil
}
