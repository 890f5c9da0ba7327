package asm

import "strings"

// sourceLine is one significant line of source, after comment-stripping
// and blank-line elision, tagged with its original line number for
// diagnostics.
type sourceLine struct {
	Number int
	Text   string
}

// stripComment removes everything from the first '#' to end of line. The
// reference assembler only special-cases whole-line comments, but test
// fixtures use trailing "# ..." comments, so the permissive behavior
// (strip from the first '#' anywhere in the line) is what implementations
// should match.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// splitLines trims, strips comments, and drops blank lines, preserving
// 1-based original line numbers.
func splitLines(source string) []sourceLine {
	raw := strings.Split(source, "\n")
	var out []sourceLine
	for i, l := range raw {
		l = strings.TrimSpace(stripComment(l))
		if l == "" {
			continue
		}
		out = append(out, sourceLine{Number: i + 1, Text: l})
	}
	return out
}

// isLabelLine reports whether l declares a label (ends in ':') and returns
// the label name without the trailing colon.
func isLabelLine(l string) (string, bool) {
	if strings.HasSuffix(l, ":") {
		return strings.TrimSuffix(l, ":"), true
	}
	return "", false
}

// fields splits an instruction line on whitespace and strips trailing
// commas from each token — the reference assembler tolerates commas as
// either separators or noise, so both "x1, x2" and "x1 x2" tokenize the
// same way.
func fields(l string) []string {
	raw := strings.Fields(l)
	out := make([]string, len(raw))
	for i, f := range raw {
		out[i] = strings.TrimSuffix(f, ",")
	}
	return out
}
