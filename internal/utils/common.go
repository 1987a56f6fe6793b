// Package utils provides shared utility functions used across multiple packages.
package utils

import (
	"strconv"
	"strings"
)

// SplitAndTrim splits s by sep and trims whitespace from each part.
// Empty parts are omitted, so "done  3" split on " " yields ["done", "3"].
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LastToken returns the last non-empty sep-separated token of s and the
// number of tokens found.
func LastToken(s, sep string) (string, int) {
	tokens := SplitAndTrim(s, sep)
	if len(tokens) == 0 {
		return "", 0
	}
	return tokens[len(tokens)-1], len(tokens)
}

// NormalizeKeyword lowercases and trims a configuration keyword such as a
// log level or formatter name.
func NormalizeKeyword(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// JSONPointerToPath converts a JSON Pointer (RFC 6901) to a dot/bracket path.
// "#/0/done" becomes "[0].done" and "/items/2/name" becomes "items[2].name".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		// ~1 is an escaped "/", ~0 an escaped "~"
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
