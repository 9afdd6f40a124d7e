// Package fileutil provides the small directory probes the pipeline stages
// share.
package fileutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindWithBase scans dir for a file whose name starts with base and whose
// extension is one of exts (lowercase, with leading dot). Returns the file
// name of the first match in lexicographic order.
func FindWithBase(dir, base string, exts []string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	accepted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		accepted[ext] = struct{}{}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if !strings.HasPrefix(name, base) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := accepted[ext]; ok {
			return name, true
		}
	}
	return "", false
}

// ListWithExtensions returns the sorted file names in dir whose extension is
// one of exts (lowercase, with leading dot). A missing directory yields an
// empty list.
func ListWithExtensions(dir string, exts []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	accepted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		accepted[ext] = struct{}{}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := accepted[ext]; ok {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}
