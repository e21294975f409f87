// Package strings holds the list cleaning used for whitelist batches and
// comma separated configuration.
package strings

import (
	"strings"
)

// DedupeAndTrim trims every element and drops blanks and repeats, keeping
// first-seen order.
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "}) // [foo bar]
func DedupeAndTrim(values []string) []string {
	return cleanList(values, strings.TrimSpace)
}

// DedupeAndTrimLower is DedupeAndTrim with case folding, for addresses
// that arrive in mixed-case hex.
func DedupeAndTrimLower(values []string) []string {
	return cleanList(values, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

// SplitList splits a comma separated value and cleans it with DedupeAndTrim.
// An empty input yields nil.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(s, ","))
}

func cleanList(values []string, norm func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = norm(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
