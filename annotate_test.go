package procdoc_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/procdoc"
	"go.jacobcolvin.com/procdoc/hosttest"
	"go.jacobcolvin.com/procdoc/stringtest"
)

func TestAnnotateMalformed(t *testing.T) {
	t.Parallel()

	host := &hosttest.Proc{
		Doc: stringtest.JoinLF(
			"Short.",
			"",
			"Input:",
			stringtest.Indent(1, "infile: The input"),
			"  bad: Too shallow",
		),
		Inputs: []procdoc.Field{hosttest.Input("infile", "file")},
	}

	_, err := procdoc.Annotate(host)
	require.ErrorIs(t, err, procdoc.ErrMalformedDocstring)
	assert.ErrorContains(t, err, "line 5")
}

func TestAnnotateInheritance(t *testing.T) {
	t.Parallel()

	base := &hosttest.Proc{
		Doc: stringtest.JoinLF(
			"Base process.",
			"",
			"Envs:",
			stringtest.Indent(1, "level: Log level"),
		),
		Args: []procdoc.Field{hosttest.Arg("level", "info")},
	}

	derived := &hosttest.Proc{
		Doc: stringtest.JoinLF(
			"Derived process.",
			"",
			"Envs:",
			stringtest.Indent(1, "extra: An extra knob"),
		),
		Args: []procdoc.Field{
			hosttest.Arg("level", "info"),
			hosttest.Arg("extra", 0),
		},
		Parent: base,
	}

	tree, err := procdoc.Annotate(derived)
	require.NoError(t, err)

	// The derived summary replaces the base summary.
	assert.Equal(t, "Derived process.", tree.Summary.Short)

	// The inherited item keeps its base documentation.
	level, ok := tree.Item("Envs", "level")
	require.True(t, ok)
	assert.Equal(t, "Log level", level.Help)
	assert.Equal(t, procdoc.String("info"), getAttr(t, level, "default"))

	extra, ok := tree.Item("Envs", "extra")
	require.True(t, ok)
	assert.Equal(t, "An extra knob", extra.Help)
	assert.Equal(t, procdoc.Int(0), getAttr(t, extra, "default"))
}

func TestAnnotateInheritanceOverride(t *testing.T) {
	t.Parallel()

	base := &hosttest.Proc{
		Doc: stringtest.JoinLF(
			"Base process.",
			"",
			"Envs:",
			stringtest.Indent(1, "level: Log level"),
		),
		Args: []procdoc.Field{hosttest.Arg("level", "info")},
	}

	derived := &hosttest.Proc{
		Doc: stringtest.JoinLF(
			"Derived process.",
			"",
			"Envs:",
			stringtest.Indent(1, "level (default=debug): Verbosity for this stage"),
		),
		Args:   []procdoc.Field{hosttest.Arg("level", "info")},
		Parent: base,
	}

	tree, err := procdoc.Annotate(derived)
	require.NoError(t, err)

	level, ok := tree.Item("Envs", "level")
	require.True(t, ok)

	// A re-documented item replaces the inherited one wholesale.
	assert.Equal(t, "Verbosity for this stage", level.Help)
	assert.Equal(t, procdoc.String("debug"), getAttr(t, level, "default"))
}

func TestAnnotatorCache(t *testing.T) {
	t.Parallel()

	hostA := &hosttest.Proc{Doc: "First."}
	hostB := &hosttest.Proc{Doc: "Second."}

	annotator := procdoc.NewAnnotator()

	treeA, err := annotator.Annotate(hostA)
	require.NoError(t, err)

	again, err := annotator.Annotate(hostA)
	require.NoError(t, err)
	assert.Same(t, treeA, again)

	treeB, err := annotator.Annotate(hostB)
	require.NoError(t, err)
	assert.NotSame(t, treeA, treeB)
}

func TestAnnotatorInvalidate(t *testing.T) {
	t.Parallel()

	host := &hosttest.Proc{Doc: "Short."}
	annotator := procdoc.NewAnnotator()

	before, err := annotator.Annotate(host)
	require.NoError(t, err)

	annotator.Invalidate(host)

	after, err := annotator.Annotate(host)
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.Equal(t, before.Summary, after.Summary)
}

func TestAnnotatorDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	host := &hosttest.Proc{
		Doc: stringtest.JoinLF(
			"Short.",
			"",
			"Bogus:",
			stringtest.Indent(1, "nope: unknown section"),
		),
	}

	annotator := procdoc.NewAnnotator()

	_, err := annotator.Annotate(host)
	require.ErrorIs(t, err, procdoc.ErrUnknownSection)

	// The failure left no entry behind; the same error surfaces again.
	_, err = annotator.Annotate(host)
	require.ErrorIs(t, err, procdoc.ErrUnknownSection)
}

func TestAnnotatorConcurrent(t *testing.T) {
	t.Parallel()

	host := &hosttest.Proc{
		Doc: stringtest.JoinLF(
			"Short.",
			"",
			"Envs:",
			stringtest.Indent(1, "ncores (type=int): Number of cores"),
		),
		Args: []procdoc.Field{hosttest.Arg("ncores", 1)},
	}

	annotator := procdoc.NewAnnotator()

	const workers = 16

	trees := make([]*procdoc.Tree, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tree, err := annotator.Annotate(host)
			assert.NoError(t, err)

			trees[i] = tree
		}()
	}

	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, trees[0], trees[i])
	}
}

func TestAnnotatorOptions(t *testing.T) {
	t.Parallel()

	host := &hosttest.Proc{
		Doc: stringtest.JoinLF(
			"Short.",
			"",
			"Bogus:",
			stringtest.Indent(1, "kept verbatim"),
		),
	}

	annotator := procdoc.NewAnnotator(procdoc.WithPermissive(true))

	tree, err := annotator.Annotate(host)
	require.NoError(t, err)

	section, ok := tree.Section("Bogus")
	require.True(t, ok)
	assert.Equal(t, []string{"kept verbatim"}, section.Text)
}
