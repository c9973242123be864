package textfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLineRange is returned when an edit addresses a line that does not exist.
var ErrLineRange = errors.New("textfile: line index out of range")

// Lines is an editable list of text lines without terminators.
type Lines []string

// Split breaks text on LF, dropping a trailing CR from each line and the
// empty element after a final newline.
func Split(text string) Lines {
	if text == "" {
		return Lines{}
	}
	parts := strings.Split(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return Lines(parts)
}

func (l Lines) Len() int { return len(l) }

// Append adds line at the end.
func (l *Lines) Append(line string) {
	*l = append(*l, line)
}

// Insert places line before index i; i == Len() appends.
func (l *Lines) Insert(i int, line string) error {
	if i < 0 || i > len(*l) {
		return fmt.Errorf("%w: insert at %d of %d", ErrLineRange, i, len(*l))
	}
	*l = append(*l, "")
	copy((*l)[i+1:], (*l)[i:])
	(*l)[i] = line
	return nil
}

// Replace overwrites line i.
func (l Lines) Replace(i int, line string) error {
	if i < 0 || i >= len(l) {
		return fmt.Errorf("%w: replace %d of %d", ErrLineRange, i, len(l))
	}
	l[i] = line
	return nil
}

// Remove deletes line i.
func (l *Lines) Remove(i int) error {
	if i < 0 || i >= len(*l) {
		return fmt.Errorf("%w: remove %d of %d", ErrLineRange, i, len(*l))
	}
	*l = append((*l)[:i], (*l)[i+1:]...)
	return nil
}

// Join renders the lines, terminating each with eol.
func (l Lines) Join(eol string) string {
	var b strings.Builder
	for _, line := range l {
		b.WriteString(line)
		b.WriteString(eol)
	}
	return b.String()
}
