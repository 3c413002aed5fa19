package diagnostic

import "strings"

// Lines splits content on "\n". A trailing newline terminates the last line
// rather than starting an empty one, and text after the final newline is
// still a line. "\r" is left in place.
func Lines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
