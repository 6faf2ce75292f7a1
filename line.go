package procdoc

import (
	"fmt"
	"strings"
)

// defaultIndentUnit is used when the docstring has no indented line to
// detect the unit from and no override is configured.
const defaultIndentUnit = 4

// rawLine is one classified source line after docstring dedenting.
type rawLine struct {
	text   string // dedented, right-trimmed text including its own indent
	num    int    // 1-based line number in the original docstring
	indent int    // leading spaces after dedenting
}

func (l rawLine) blank() bool { return strings.TrimSpace(l.text) == "" }

// body returns the line text with its indentation stripped.
func (l rawLine) body() string { return l.text[l.indent:] }

// lexDocstring splits a docstring into dedented, measured lines and
// establishes the indentation unit. The unit comes from the override when
// positive, otherwise from the first indented line. A non-blank line
// indented to a depth shallower than one unit has no open block to
// continue and is a structural error.
func lexDocstring(doc string, unitOverride int) ([]rawLine, int, error) {
	lines := dedentDocstring(doc)

	raw := make([]rawLine, 0, len(lines))

	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", defaultIndentUnit))
		line = strings.TrimRight(line, " ")

		raw = append(raw, rawLine{
			text:   line,
			num:    i + 1,
			indent: len(line) - len(strings.TrimLeft(line, " ")),
		})
	}

	unit := unitOverride
	if unit <= 0 {
		unit = detectIndentUnit(raw)
	}

	for _, l := range raw {
		if !l.blank() && l.indent > 0 && l.indent < unit {
			return nil, 0, fmt.Errorf(
				"%w: line %d: indented %d spaces, shallower than the %d-space indent unit",
				ErrMalformedDocstring, l.num, l.indent, unit,
			)
		}
	}

	return raw, unit, nil
}

// detectIndentUnit returns the indentation of the first indented non-blank
// line, or the default unit when every line starts at the margin.
func detectIndentUnit(lines []rawLine) int {
	for _, l := range lines {
		if !l.blank() && l.indent > 0 {
			return l.indent
		}
	}

	return defaultIndentUnit
}

// dedentDocstring strips the uniform leading indentation shared by all
// lines after the first. The first line is handled separately because
// docstrings conventionally start right after the opening quote with no
// indentation of their own.
func dedentDocstring(doc string) []string {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	lines := strings.Split(doc, "\n")

	if len(lines) == 0 {
		return nil
	}

	first := lines[0]
	rest := lines[1:]

	if strings.HasPrefix(first, " ") || strings.HasPrefix(first, "\t") {
		// The whole docstring is indented uniformly.
		return dedentLines(lines)
	}

	return append([]string{first}, dedentLines(rest)...)
}

// dedentLines removes the longest common leading run of spaces from every
// non-blank line.
func dedentLines(lines []string) []string {
	margin := -1

	for _, line := range lines {
		expanded := strings.ReplaceAll(line, "\t", strings.Repeat(" ", defaultIndentUnit))
		if strings.TrimSpace(expanded) == "" {
			continue
		}

		indent := len(expanded) - len(strings.TrimLeft(expanded, " "))
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	if margin <= 0 {
		return lines
	}

	out := make([]string, 0, len(lines))

	for _, line := range lines {
		expanded := strings.ReplaceAll(line, "\t", strings.Repeat(" ", defaultIndentUnit))
		if strings.TrimSpace(expanded) == "" {
			out = append(out, "")

			continue
		}

		out = append(out, expanded[margin:])
	}

	return out
}

// dedentBlock strips the longest common leading run of spaces from a block
// of already-lexed continuation lines, as a plain string slice.
func dedentBlock(lines []string) []string {
	return dedentLines(lines)
}
