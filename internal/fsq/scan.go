package fsq

import (
	"os"
	"sort"
	"strings"
)

// ListBucketDirs returns the bucket directory names under <root>/output,
// sorted. Hidden entries and plain files are skipped.
func ListBucketDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(OutputDir(root))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		out = append(out, entry.Name())
	}
	sort.Strings(out)
	return out, nil
}

// ListFiles returns the plain file names in dir, skipping hidden and
// temporary files left by an interrupted atomic write.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
