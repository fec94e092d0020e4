package problemgen

import (
	"fmt"
	"strings"
)

// buildRecent formats recently shown questions for the prompt, keeping the
// newest max entries.
func buildRecent(recent []string, max int) string {
	if len(recent) == 0 {
		return "None"
	}
	if max > 0 && len(recent) > max {
		recent = recent[len(recent)-max:]
	}

	var b strings.Builder
	for i, q := range recent {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
