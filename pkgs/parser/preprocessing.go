package parser

import "strings"

// CleanSource removes trailing inline whitespace from every line of src:
// space, tab, and carriage-return characters immediately preceding a line
// break, or trailing at end of input, are deleted. Interior whitespace and
// blank lines are left untouched, so the line-break count is preserved
// exactly and the transform is idempotent.
//
// Parse applies this pre-pass before the scanner sees the text; the
// scanner treats a whitespace-only line that still carries indentation as
// a hard error, so cleaning has to happen first.
func CleanSource(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	lineStart := 0
	flush := func(end int) {
		line := src[lineStart:end]
		b.WriteString(strings.TrimRight(line, " \t\r"))
	}

	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			flush(i)
			b.WriteByte('\n')
			lineStart = i + 1
		}
	}
	flush(len(src))

	return b.String()
}
