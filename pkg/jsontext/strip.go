// Package jsontext reads the relaxed JSON dialect used by device
// configuration files: standard JSON extended with //-prefixed
// end-of-line comments.
//
// [StripComments] converts the relaxed text to strict JSON text;
// [Parse] and [ReadFile] strip and decode in one step, producing
// document values with key order and numeric text preserved.
package jsontext

import "strings"

// StripComments removes // comments from JSON text.
//
// A // sequence starts a comment only outside a double-quoted string
// literal; string tracking respects backslash escapes, so an escaped
// quote does not terminate the string. Scanning is line-by-line and
// scanner state resets at every line start (strings cannot span lines in
// JSON). Commented lines keep their prefix, so line numbers in parser
// errors still refer to the original text.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))

	for li, line := range lines {
		inString := false
		escaped := false
		commentPos := -1

		for i := 0; i < len(line); i++ {
			c := line[i]

			if escaped {
				escaped = false
				continue
			}

			if c == '\\' {
				escaped = true
				continue
			}

			if c == '"' {
				inString = !inString
				continue
			}

			if !inString && c == '/' && i+1 < len(line) && line[i+1] == '/' {
				commentPos = i
				break
			}
		}

		if commentPos >= 0 {
			out[li] = strings.TrimRight(line[:commentPos], " \t")
		} else {
			out[li] = line
		}
	}

	return strings.Join(out, "\n")
}
