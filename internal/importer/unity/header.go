package unity

import "strings"

// headerLines is the number of preamble lines Unity writes before the YAML
// body:
//
//	%YAML 1.1
//	%TAG !u! tag:unity3d.com,2011:
//	--- !u!114 &11400000
//
// The tag shorthand in the third line is not valid YAML for the parser, so the
// whole preamble is dropped.
const headerLines = 3

// StripHeader removes exactly the first three lines of a Unity asset file and
// returns the rest verbatim. The content of the removed lines is not checked.
//
// Postcondition: returns the text following the third newline, or a format
// error when text has fewer than three lines.
func StripHeader(text string) (string, error) {
	rest := text
	for i := 0; i < headerLines; i++ {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			if i == headerLines-1 && rest != "" {
				// Three lines with no trailing newline: the body is empty.
				return "", nil
			}
			return "", formatErr("", "", "expected a %d-line header, found %d line(s)", headerLines, i)
		}
		rest = rest[idx+1:]
	}
	return rest, nil
}
