package cue

import "strings"

const wordDelims = " \t\r"

func isDelim(r rune) bool {
	return strings.ContainsRune(wordDelims, r)
}

// word returns the n-th (1-based) whitespace-delimited word of line, or "".
func word(line string, n int) string {
	if n < 1 {
		return ""
	}
	fields := strings.FieldsFunc(line, isDelim)
	if n > len(fields) {
		return ""
	}
	return fields[n-1]
}

// lastWord returns the final whitespace-delimited word of line, or "".
func lastWord(line string) string {
	fields := strings.FieldsFunc(line, isDelim)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// quoted returns the text between the first and last double quote of line.
// ok is false unless both quotes are present.
func quoted(line string) (string, bool) {
	first := strings.IndexByte(line, '"')
	last := strings.LastIndexByte(line, '"')
	if first < 0 || first == last {
		return "", false
	}
	return line[first+1 : last], true
}
