// Package fsutil provides the file-copy primitives used when materialising
// a scaffolded project tree.
package fsutil

import (
	"fmt"
	"os"
)

// excludedNames are files/directories never copied into a scaffolded tree.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// Excluded reports whether a file or directory name is junk that tree copies
// must skip. Disk template roots are edited by hand and pick these up.
func Excluded(name string) bool {
	return excludedNames[name]
}

// CopyFile copies a single file from src to dst byte-for-byte, preserving
// the source's permission bits.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if err := os.WriteFile(dst, data, srcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

// IsEmptyDir reports whether path is a directory with no entries. A missing
// path reports false with a nil error.
func IsEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return len(entries) == 0, nil
}
