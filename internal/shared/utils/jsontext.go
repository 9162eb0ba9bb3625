package utils

import (
	"errors"
	"strings"
)

// ErrNoJSONFound is returned when no JSON array or object could be located
// inside a free-form text response.
var ErrNoJSONFound = errors.New("no JSON value found in text")

// ExtractJSON locates the first balanced JSON array or object inside
// free-form text. Language-model responses routinely wrap their JSON in
// commentary or markdown code fences, so the raw body cannot be handed to
// json.Unmarshal directly.
func ExtractJSON(text string) (string, error) {
	text = StripCodeFences(text)

	start := -1
	var open, close rune
	for i, r := range text {
		if r == '[' || r == '{' {
			start = i
			open = r
			if r == '[' {
				close = ']'
			} else {
				close = '}'
			}
			break
		}
	}
	if start < 0 {
		return "", ErrNoJSONFound
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := rune(text[i])

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
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrNoJSONFound
}

// StripCodeFences removes a surrounding markdown code fence
// (```json ... ```) if present. Inner content is returned unchanged.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{[") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}
