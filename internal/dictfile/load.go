package dictfile

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// LoadFile parses one dictionary file.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary file %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, path)
}

// LoadGlob parses every file matching pattern, which may use ** to match
// nested directories. Files are read in lexical order and their results merged.
// It returns the matched files.
func LoadGlob(pattern string) (*Result, []string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, nil, fmt.Errorf("invalid dictionary glob %q", pattern)
	}
	paths, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to expand dictionary glob %q: %w", pattern, err)
	}
	sort.Strings(paths)

	merged := &Result{}
	for _, p := range paths {
		res, err := LoadFile(p)
		if err != nil {
			return nil, nil, err
		}
		merged.Entries = append(merged.Entries, res.Entries...)
		merged.Rejected = append(merged.Rejected, res.Rejected...)
		merged.Sections = append(merged.Sections, res.Sections...)
	}
	return merged, paths, nil
}

// Matches reports whether path matches the dictionary glob pattern.
func Matches(pattern, path string) bool {
	ok, err := doublestar.PathMatch(pattern, path)
	return err == nil && ok
}

// ValidPattern reports whether pattern is a usable dictionary glob.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(pattern)
}
