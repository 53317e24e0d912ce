package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// SelectFiles lists regular files directly inside dir whose base name
// matches pattern, mirroring the original's directory-scoped regex
// filter used to gather one run's sibling stream files for batch
// conversion.
func SelectFiles(dir, pattern string) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("store: compile pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("store: read dir %s: %w", dir, err)
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if re.MatchString(e.Name()) {
			matches = append(matches, filepath.Join(dir, e.Name()))
		}
	}
	return matches, nil
}
