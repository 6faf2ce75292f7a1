package stringtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/procdoc/stringtest"
)

func TestJoinLF(t *testing.T) {
	t.Parallel()

	assert.Empty(t, stringtest.JoinLF())
	assert.Equal(t, "a", stringtest.JoinLF("a"))
	assert.Equal(t, "a\n\nb", stringtest.JoinLF("a", "", "b"))
}

func TestIndent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "    x", stringtest.Indent(1, "x"))
	assert.Equal(t, "        x", stringtest.Indent(2, "x"))
}

func TestIndentN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "    a\n\n    b", stringtest.IndentN(1, "a", "", "b"))
}
