package procdoc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/procdoc"
	"go.jacobcolvin.com/procdoc/stringtest"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	doc := stringtest.JoinLF(
		"Short.",
		"",
		"Input:",
		stringtest.Indent(1, "infile (itype=file): The input"),
	)

	tree, err := procdoc.Parse(doc)
	require.NoError(t, err)

	want := stringtest.JoinLF(
		"Short.",
		"",
		"Input:",
		stringtest.Indent(1, "infile (itype=file): The input"),
		"",
	)

	assert.Equal(t, want, procdoc.Format(tree, 0))
}

func TestFormatIndent(t *testing.T) {
	t.Parallel()

	doc := stringtest.JoinLF(
		"Short.",
		"",
		"Input:",
		stringtest.Indent(1, "infile: The input"),
	)

	tree, err := procdoc.Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, stringtest.JoinLF(
		"Short.",
		"",
		"Input:",
		"  infile: The input",
		"",
	), procdoc.Format(tree, 2))
}

func TestFormatRoundTrip(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"summary and sections": stringtest.JoinLF(
			"Short.",
			"",
			"Long paragraph one.",
			"",
			"Long paragraph two.",
			"",
			"Input:",
			stringtest.Indent(1, "infile (itype=file,cardinality=repeatable): The input"),
			"Notes:",
			stringtest.Indent(1, "A note line"),
		),
		"attribute variants": stringtest.JoinLF(
			"Short.",
			"",
			"Envs:",
			stringtest.Indent(1, "ncores (type=int,default=5): Number of cores"),
			stringtest.Indent(1, "quiet (required,opt=): Suppress output"),
			stringtest.Indent(1, "ratio (default=1.5): A ratio"),
			stringtest.Indent(1, "scale (default=2.0): Output scale"),
			stringtest.Indent(1, "choices (default=[a, b]): Pick one"),
		),
		"more paragraphs and terms": stringtest.JoinLF(
			"Short.",
			"",
			"Envs:",
			stringtest.Indent(1, "mode: Processing mode"),
			stringtest.Indent(2, "Extra prose about the mode."),
			"",
			stringtest.Indent(2, "Second paragraph."),
			stringtest.Indent(1, "level: Verbosity"),
			stringtest.Indent(2, "- debug: Everything"),
			stringtest.Indent(2, "- info: The usual"),
		),
	}

	for name, doc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tree, err := procdoc.Parse(doc)
			require.NoError(t, err)

			reparsed, err := procdoc.Parse(procdoc.Format(tree, 0))
			require.NoError(t, err)

			a, err := json.Marshal(tree)
			require.NoError(t, err)

			b, err := json.Marshal(reparsed)
			require.NoError(t, err)

			assert.JSONEq(t, string(a), string(b))
		})
	}
}

func TestFormatKeepsFloatKind(t *testing.T) {
	t.Parallel()

	doc := stringtest.JoinLF(
		"Short.",
		"",
		"Envs:",
		stringtest.Indent(1, "scale (default=2.0): Output scale"),
	)

	tree, err := procdoc.Parse(doc)
	require.NoError(t, err)

	item, ok := tree.Item("Envs", "scale")
	require.True(t, ok)

	v := getAttr(t, item, "default")
	require.Equal(t, procdoc.FloatValue, v.Kind())
	assert.Equal(t, "2.0", v.Text())

	// A whole-valued float must render with a decimal point so the
	// re-parsed literal stays a float.
	reparsed, err := procdoc.Parse(procdoc.Format(tree, 0))
	require.NoError(t, err)

	item, ok = reparsed.Item("Envs", "scale")
	require.True(t, ok)

	got := getAttr(t, item, "default")
	assert.Equal(t, procdoc.FloatValue, got.Kind())
	assert.True(t, v.Equal(got))
}

func TestFormatItem(t *testing.T) {
	t.Parallel()

	doc := stringtest.JoinLF(
		"Short.",
		"",
		"Envs:",
		stringtest.Indent(1, "level (type=str): Verbosity"),
		stringtest.Indent(2, "- debug: Everything"),
	)

	tree, err := procdoc.Parse(doc)
	require.NoError(t, err)

	item, ok := tree.Item("Envs", "level")
	require.True(t, ok)

	assert.Equal(t, stringtest.JoinLF(
		"level (type=str): Verbosity",
		"  - debug: Everything",
		"",
	), procdoc.FormatItem(item, "  "))
}
