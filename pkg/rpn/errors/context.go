package errors

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxContextWidth bounds how much of a long input is shown around an error.
const maxContextWidth = 60

// ExtractContext renders the input with a caret under the rune at position.
// Long inputs are clipped to a window around the position. It returns an
// empty string when there is no input or the position is unknown.
func ExtractContext(input string, position int) string {
	if input == "" || position < 0 {
		return ""
	}

	runes := []rune(input)
	if position > len(runes) {
		position = len(runes)
	}

	start, end := 0, len(runes)
	if len(runes) > maxContextWidth {
		start = position - maxContextWidth/2
		if start < 0 {
			start = 0
		}
		end = start + maxContextWidth
		if end > len(runes) {
			end = len(runes)
			start = end - maxContextWidth
		}
	}

	prefix, suffix := "", ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}

	line := prefix + string(runes[start:end]) + suffix
	column := utf8.RuneCountInString(prefix) + position - start

	var sb strings.Builder
	fmt.Fprintf(&sb, "  | %s\n", line)
	fmt.Fprintf(&sb, "  | %s^\n", strings.Repeat(" ", column))
	return sb.String()
}
