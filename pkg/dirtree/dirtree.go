// Package dirtree builds an in-memory, sorted tree of a directory hierarchy.
package dirtree

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Sumatoshi-tech/codecbench/pkg/list"
)

// Sentinel errors.
var (
	// ErrList indicates that a directory inside the tree could not be listed.
	ErrList = errors.New("list directory")
	// ErrRootNotFound indicates that the scan root does not exist.
	ErrRootNotFound = errors.New("root directory not found")
	// ErrRootNotDir indicates that the scan root is not a directory.
	ErrRootNotDir = errors.New("root is not a directory")
)

// ignoredNames are never included in a scan.
var ignoredNames = map[string]bool{
	".":         true,
	"..":        true,
	".DS_Store": true,
}

// Entry is one node of the tree. Children is non-nil only for directories and is
// owned by this entry alone.
type Entry struct {
	Name     string
	IsDir    bool
	Children *list.List[Entry]
}

// Scanner reads directory trees from a filesystem.
type Scanner struct {
	Fs afero.Fs
}

// NewScanner returns a Scanner over fsys. A nil fsys selects the OS filesystem.
func NewScanner(fsys afero.Fs) *Scanner {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return &Scanner{Fs: fsys}
}

// CheckRoot verifies that path exists and is a directory.
func (s *Scanner) CheckRoot(path string) error {
	info, err := s.Fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, path)
		}

		return fmt.Errorf("%w %s: %w", ErrList, path, err)
	}

	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDir, path)
	}

	return nil
}

// Scan recursively lists path and returns its children sorted with Compare.
// A path that does not exist yields an empty list and no error.
func (s *Scanner) Scan(path string) (*list.List[Entry], error) {
	infos, err := afero.ReadDir(s.Fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &list.List[Entry]{}, nil
		}

		return nil, fmt.Errorf("%w %s: %w", ErrList, path, err)
	}

	entries := list.New[Entry](len(infos) + 1)

	for _, info := range infos {
		name := info.Name()
		if ignoredNames[name] {
			continue
		}

		switch mode := info.Mode(); {
		case mode.IsDir():
			children, scanErr := s.Scan(filepath.Join(path, name))
			if scanErr != nil {
				return nil, scanErr
			}

			entries.Append(Entry{Name: name, IsDir: true, Children: children})
		case mode.IsRegular():
			entries.Append(Entry{Name: name})
		}
	}

	entries.SortFunc(Compare)

	return entries, nil
}

// Compare orders directories before files, then names case-insensitively (ASCII).
func Compare(a, b Entry) int {
	if a.IsDir != b.IsDir {
		if a.IsDir {
			return -1
		}

		return 1
	}

	return CompareFold(a.Name, b.Name)
}

// CompareFold compares two names byte by byte with ASCII letters folded to lower case.
// A name that is a prefix of the other sorts first.
func CompareFold(a, b string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ca, cb := lowerASCII(a[i]), lowerASCII(b[i])
		if ca != cb {
			return int(ca) - int(cb)
		}
	}

	return len(a) - len(b)
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}

	return c
}

// Walk visits entries depth-first in tree order. dir is the path of the directory
// holding entry, built by joining root with the names of its ancestors.
// Returning false from fn stops the walk.
func Walk(root string, entries *list.List[Entry], fn func(dir string, entry Entry) bool) bool {
	if entries == nil {
		return true
	}

	for entry := range entries.Values() {
		if !fn(root, entry) {
			return false
		}

		if entry.IsDir && !Walk(filepath.Join(root, entry.Name), entry.Children, fn) {
			return false
		}
	}

	return true
}

// CountFiles returns the number of files in the tree accepted by match.
// When recursive is false only the top level is counted.
func CountFiles(entries *list.List[Entry], recursive bool, match func(name string) bool) int {
	count := 0

	if entries == nil {
		return count
	}

	for entry := range entries.Values() {
		switch {
		case entry.IsDir && recursive:
			count += CountFiles(entry.Children, recursive, match)
		case !entry.IsDir && match(entry.Name):
			count++
		}
	}

	return count
}
