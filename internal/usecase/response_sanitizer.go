package usecase

import (
	"regexp"
	"strings"
)

// Compiled line-shape patterns for response sanitization
var (
	// Matches a dangling placeholder the model emits for fields it left empty,
	// e.g. "similarItems: []" or "metadata: {}," on a line of its own.
	// Quoted keys are deliberately not matched so valid JSON members survive.
	placeholderLinePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\s*:\s*(?:\[\]|\{\})\s*,?\s*$`)

	// Matches stray prose glued onto the start of a line that otherwise carries
	// a quoted JSON token, e.g. `Here is the value "name": "Mug"`.
	leadingJunkPattern = regexp.MustCompile(`^\s*[A-Za-z][^"{}\[\]:,]*"`)

	// Matches a line that is a "key": ... member.
	keyValueLinePattern = regexp.MustCompile(`^"(?:[^"\\]|\\.)*"\s*:`)

	// Matches a bare numeric/boolean/null literal, optionally comma-terminated.
	bareLiteralPattern = regexp.MustCompile(`^(?:-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?|true|false|null)\s*,?$`)

	// Collapses runs of blank lines left behind by discarded content.
	blankRunPattern = regexp.MustCompile(`\n{3,}`)

	// Detects any alphabetic content on a line.
	alphabeticPattern = regexp.MustCompile(`[A-Za-z]`)
)

// jsonStructuralChars are the characters a kept line may start or end with.
const jsonStructuralChars = `{}[],"`

// SanitizeModelText strips formatting artifacts from raw model output that is
// believed to contain JSON: whole-string code fences, dangling placeholder
// lines, junk prefixes, and interleaved natural-language commentary.
//
// This is a best-effort lossy pre-filter, not a guarantee: a line that merely
// resembles prose can be discarded even when it carried legitimate content.
// The transform never fails and is idempotent.
func SanitizeModelText(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	// Step 1: unwrap code fences that span the whole string. Looped because a
	// fenced block can itself contain another fully-fenced block.
	for {
		unwrapped := unwrapFence(text)
		if unwrapped == text {
			break
		}
		text = unwrapped
	}

	// Step 2: line-by-line pass.
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Fence markers not caught by the whole-string unwrap are stray
		// formatting; sanitized text must never contain them.
		if strings.HasPrefix(trimmed, "```") {
			continue
		}

		if placeholderLinePattern.MatchString(trimmed) {
			continue
		}

		// Strip unquoted junk tokens preceding a quoted string on the same line.
		if loc := leadingJunkPattern.FindStringIndex(trimmed); loc != nil {
			trimmed = trimmed[loc[1]-1:]
		}

		if !keepLine(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}

	// Step 3: collapse blank runs and trim.
	result := strings.Join(kept, "\n")
	result = blankRunPattern.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// unwrapFence removes a fenced code block (optionally tagged with a language
// name) when the fence wraps the entire string. Partial fences are left alone.
func unwrapFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}

	inner := strings.TrimPrefix(text, "```")
	inner = strings.TrimSuffix(inner, "```")
	if inner == "" {
		return ""
	}

	// Drop the optional language tag on the opening fence line.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(inner[:nl])
		if isFenceTag(firstLine) {
			inner = inner[nl+1:]
		}
	} else if isFenceTag(strings.TrimSpace(inner)) {
		// The whole block was just a tag, e.g. "```json```".
		return ""
	}

	return strings.TrimSpace(inner)
}

// isFenceTag reports whether s could be a fence language tag ("json", "JSON5",
// or empty). Anything containing JSON structure is content, not a tag.
func isFenceTag(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// keepLine classifies a trimmed line. Lines that look structurally like JSON
// are kept; lines carrying alphabetic text that match no JSON shape are judged
// to be stray commentary and discarded.
func keepLine(line string) bool {
	if line == "" {
		return true
	}
	if strings.ContainsRune(jsonStructuralChars, rune(line[0])) {
		return true
	}
	if strings.ContainsRune(jsonStructuralChars, rune(line[len(line)-1])) {
		return true
	}
	if keyValueLinePattern.MatchString(line) {
		return true
	}
	if bareLiteralPattern.MatchString(line) {
		return true
	}
	// No JSON shape matched: discard only if the line carries prose.
	return !alphabeticPattern.MatchString(line)
}
