package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// matches a fenced code block, optionally tagged as json
var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON strips a markdown code fence from an LLM response, returning the
// inner payload. Responses without a fence are returned trimmed as-is.
func ExtractJSON(content string) string {
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(content)
}

// ParseOr decodes an LLM response into T, falling back to the provided value
// when the payload is not valid JSON for T. Malformed model output is an
// expected condition, not an error.
func ParseOr[T any](content string, fallback T) T {
	var out T
	if err := json.Unmarshal([]byte(ExtractJSON(content)), &out); err != nil {
		return fallback
	}
	return out
}
