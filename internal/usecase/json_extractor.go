package usecase

import "strings"

// extractBalancedRegion scans text for a balanced top-level JSON value at its
// start and returns that prefix. It is the fallback used when a strict parse
// of the whole sanitized text fails, typically because the model appended
// commentary after an otherwise valid object.
//
// The scan tracks string literals with backslash-escape awareness, and counts
// nesting only for the bracket pair opened by the first character. Mismatched
// bracket kinds are not special-cased: if a balanced value exists as a prefix
// it is found exactly, and truncated input yields no region.
func extractBalancedRegion(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", false
	}

	var open, close byte
	switch s[0] {
	case '{':
		open, close = '{', '}'
	case '[':
		open, close = '[', ']'
	default:
		// Not JSON-shaped; extraction is not attempted.
		return "", false
	}

	depth := 0
	opened := false
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
			opened = true
		case close:
			depth--
			if depth == 0 && opened {
				return s[:i+1], true
			}
		}
	}

	// Counter never returned to zero: truncated input.
	return "", false
}
