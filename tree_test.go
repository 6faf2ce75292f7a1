package procdoc_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/procdoc"
	"go.jacobcolvin.com/procdoc/stringtest"
)

func TestTreeMarshalJSON(t *testing.T) {
	t.Parallel()

	doc := stringtest.JoinLF(
		"Short.",
		"",
		"Input:",
		stringtest.Indent(1, "infile (itype=file): The input"),
		"Notes:",
		stringtest.Indent(1, "A note line"),
	)

	tree, err := procdoc.Parse(doc)
	require.NoError(t, err)

	b, err := json.Marshal(tree)
	require.NoError(t, err)

	want := `{` +
		`"Summary":{"short":"Short.","long":""},` +
		`"Input":{"infile":{"name":"infile","help":"The input",` +
		`"attrs":{"itype":"file"},"terms":{}}},` +
		`"Notes":"A note line"` +
		`}`

	assert.Equal(t, want, string(b))
}

func TestTreeMarshalOrder(t *testing.T) {
	t.Parallel()

	doc := stringtest.JoinLF(
		"Short.",
		"",
		"Output:",
		stringtest.Indent(1, "zebra: Listed first"),
		stringtest.Indent(1, "alpha: Listed second"),
		"Input:",
		stringtest.Indent(1, "infile: The input"),
	)

	tree, err := procdoc.Parse(doc)
	require.NoError(t, err)

	tcs := map[string]func() (string, error){
		"json": func() (string, error) {
			b, err := json.Marshal(tree)

			return string(b), err
		},
		"yaml": func() (string, error) {
			b, err := yaml.Marshal(tree)

			return string(b), err
		},
	}

	for name, marshal := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := marshal()
			require.NoError(t, err)

			// Sections and items appear in source order, not sorted.
			positions := []int{
				strings.Index(out, "Summary"),
				strings.Index(out, "Output"),
				strings.Index(out, "zebra"),
				strings.Index(out, "alpha"),
				strings.Index(out, "Input"),
				strings.Index(out, "infile"),
			}

			for i, pos := range positions {
				require.GreaterOrEqual(t, pos, 0, "marker %d missing in %q", i, out)

				if i > 0 {
					assert.Greater(t, pos, positions[i-1])
				}
			}
		})
	}
}

func TestTreeAccessors(t *testing.T) {
	t.Parallel()

	doc := stringtest.JoinLF(
		"Short.",
		"",
		"Input:",
		stringtest.Indent(1, "infile: The input"),
		"Notes:",
		stringtest.Indent(1, "A note"),
	)

	tree, err := procdoc.Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"Input", "Notes"}, tree.SectionNames())
	assert.Len(t, tree.Sections(), 2)

	_, ok := tree.Section("Output")
	assert.False(t, ok)

	_, ok = tree.Item("Input", "nope")
	assert.False(t, ok)

	// Text sections carry no items.
	_, ok = tree.Item("Notes", "infile")
	assert.False(t, ok)
}

func TestAttrsOrder(t *testing.T) {
	t.Parallel()

	attrs := procdoc.NewAttrs()
	attrs.Set("b", procdoc.Int(1))
	attrs.Set("a", procdoc.Int(2))
	attrs.Set("b", procdoc.Int(3))

	// Re-setting a key keeps its original position.
	assert.Equal(t, []string{"b", "a"}, attrs.Keys())
	assert.Equal(t, 2, attrs.Len())

	v, ok := attrs.Get("b")
	require.True(t, ok)
	assert.Equal(t, procdoc.Int(3), v)

	assert.False(t, attrs.SetDefault("a", procdoc.Int(9)))
	assert.True(t, attrs.SetDefault("c", procdoc.Int(4)))
	assert.Equal(t, []string{"b", "a", "c"}, attrs.Keys())

	b, err := json.Marshal(attrs)
	require.NoError(t, err)
	assert.Equal(t, `{"b":3,"a":2,"c":4}`, string(b))
}

func TestItemsOrder(t *testing.T) {
	t.Parallel()

	items := procdoc.NewItems()

	for _, name := range []string{"c", "a", "b"} {
		item := &procdoc.Item{Name: name, Attrs: procdoc.NewAttrs(), Terms: procdoc.NewItems()}
		items.Add(item)
	}

	assert.Equal(t, []string{"c", "a", "b"}, items.Keys())
	assert.Equal(t, 3, items.Len())
	assert.True(t, items.Has("a"))
	assert.False(t, items.Has("z"))

	all := items.All()
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Name)
}
