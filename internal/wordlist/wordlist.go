// Package wordlist loads the plain-text list of words and phrases to mute.
package wordlist

import (
	"fmt"
	"os"
	"strings"
)

// Load reads a target list: one term per line, arbitrary whitespace and
// casing, blank lines and '#' comments skipped. Multi-word lines are
// phrase targets. Normalization and de-duplication happen when the terms
// are compiled into a match.Set; Load only guarantees the file is
// readable and contains at least one usable term.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}

	var terms []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}

	if len(terms) == 0 {
		return nil, fmt.Errorf("word list %s: no usable terms", path)
	}
	return terms, nil
}
