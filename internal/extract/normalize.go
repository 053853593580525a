package extract

import "strings"

// LineEnding joins snippet lines into a value.
const LineEnding = "\n"

// TrimPadding drops leading and trailing whitespace-only lines.
func TrimPadding(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && isBlank(lines[start]) {
		start++
	}
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	return lines[start:end]
}

// TrimIndentation removes the leading whitespace width shared by every
// non-blank line. Lines shorter than that width are kept unchanged.
func TrimIndentation(lines []string) []string {
	width := -1
	for _, l := range lines {
		if isBlank(l) {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if width == -1 || n < width {
			width = n
		}
	}
	if width <= 0 {
		return lines
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) < width {
			out[i] = l
			continue
		}
		out[i] = l[width:]
	}
	return out
}

// Normalize applies padding removal then re-indentation.
func Normalize(lines []string) []string {
	return TrimIndentation(TrimPadding(lines))
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
