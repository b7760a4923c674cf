package orchestrator

import (
	"encoding/json"
	"strings"

	"github.com/alibaizhanov/mengram/internal/domain/extraction"
)

// parseResponse defensively parses raw into an extraction.Result (spec §4.7
// "Response parsing"): strip whitespace and a leading fence marker, try a
// direct JSON parse, then fall back to the outermost `{...}` substring, then
// fall back to an empty result with a warning.
func parseResponse(raw string) extraction.Result {
	cleaned := stripFence(strings.TrimSpace(raw))

	var result extraction.Result
	if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
		result.RawResponse = raw
		return result
	}

	if outer := outermostObject(cleaned); outer != "" {
		var retry extraction.Result
		if err := json.Unmarshal([]byte(outer), &retry); err == nil {
			retry.RawResponse = raw
			return retry
		}
	}

	return extraction.Empty(raw, "could not parse LLM response as JSON")
}

// stripFence removes a leading ```json / ``` fence marker and its trailing
// counterpart, if present.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(s[:nl])
		if firstLine == "" || strings.EqualFold(firstLine, "json") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// outermostObject locates the outermost balanced `{...}` substring of s,
// respecting string literals so braces inside quoted content don't confuse
// the brace count.
func outermostObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string literal, ignore brace characters
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
