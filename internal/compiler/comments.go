package compiler

import (
	"strings"
	"unicode"
)

// StripComments deletes every comment from src.
// A comment opens at a '(' found at line start, after whitespace or right after a
// colon, and closes at the next ')' on the same line. Unclosed comments run to the
// end of the line. Line structure is kept so later errors report the right line.
func StripComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = stripLine(line)
	}
	return strings.Join(lines, "\n")
}

func stripLine(line string) string {
	if !strings.ContainsRune(line, '(') {
		return line
	}

	var sb strings.Builder
	inComment := false
	prev := rune(-1)
	for _, r := range line {
		switch {
		case inComment:
			if r == ')' {
				inComment = false
			}
		case r == '(' && (prev == -1 || unicode.IsSpace(prev) || prev == ':'):
			inComment = true
		default:
			sb.WriteRune(r)
		}
		prev = r
	}
	return sb.String()
}
