// Package stringtest provides helpers for constructing multi-line test
// input with explicit line endings and indentation.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct docstring test input line by line.
//
// Example:
//
//	doc := stringtest.JoinLF(
//		"Short summary.",
//		"",
//		"Input:",
//		stringtest.Indent(1, "infile: An input file"),
//	)
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}

// Indent prefixes s with n four-space indentation levels, matching the
// default docstring indentation unit.
func Indent(n int, s string) string {
	return strings.Repeat("    ", n) + s
}

// IndentN prefixes every non-blank line with n four-space levels and joins
// the lines with LF, for building whole indented blocks.
func IndentN(n int, ss ...string) string {
	indented := make([]string, 0, len(ss))

	for _, s := range ss {
		if s == "" {
			indented = append(indented, "")

			continue
		}

		indented = append(indented, Indent(n, s))
	}

	return JoinLF(indented...)
}
