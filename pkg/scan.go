package dupehash

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ============================================================================
// TYPE DEFINITIONS
// ============================================================================

// Candidate is a file that passed the filter and will be hashed
type Candidate struct {
	Path    string // path as reachable from the scan root
	RelPath string // path relative to the scan root
	Size    uint64
}

// TraverseResult is everything the traversal phase produced
type TraverseResult struct {
	Candidates  []Candidate
	Warnings    []*TraverseError
	Rejected    map[FilterDecision]int
	DirsVisited int
}

// TotalBytes sums candidate sizes
func (r *TraverseResult) TotalBytes() uint64 {
	var total uint64
	for i := range r.Candidates {
		total += r.Candidates[i].Size
	}
	return total
}

func (r *TraverseResult) warn(path, op string, err error) {
	r.Warnings = append(r.Warnings, &TraverseError{Path: path, Op: op, Err: err})
	if IsDebugEnabled(DebugScan) {
		VerboseLog(2, "scan: skipping %s (%s): %v", path, op, err)
	}
}

// Traverser walks a directory tree single-threaded and collects candidates
type Traverser struct {
	root      string
	recursive bool
	follow    bool
	filter    *Filter
}

// dirKey identifies a directory by (device, inode), or by its resolved
// absolute path where the platform has no inode
type dirKey struct {
	id   fileID
	path string
}

// dirNode links a directory being walked to its parent so that cycles can be
// detected against the current ancestry only
type dirNode struct {
	key    dirKey
	parent *dirNode
}

func (n *dirNode) hasAncestor(key dirKey) bool {
	for ; n != nil; n = n.parent {
		if n.key == key {
			return true
		}
	}
	return false
}

// walkItem is a pending path together with the directory it was listed from
type walkItem struct {
	path   string
	parent *dirNode
}

// ============================================================================
// FILESYSTEM SCANNING FUNCTIONS
// ============================================================================

// ValidateRoot checks that root exists and is a directory
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &ConfigError{Field: "root", Value: root, Err: fmt.Errorf("%w: %v", ErrInvalidRoot, err)}
	}
	if !info.IsDir() {
		return &ConfigError{Field: "root", Value: root, Err: ErrInvalidRoot}
	}
	return nil
}

// NewTraverser builds a traverser from scan options, loading any ignore file
func NewTraverser(opts *ScanOptions) (*Traverser, error) {
	ignore := NewIgnoreManager(opts.IgnoreFile)
	if err := ignore.LoadIgnorePatterns(); err != nil {
		return nil, &ConfigError{Field: "ignore file", Value: opts.IgnoreFile, Err: err}
	}
	for _, p := range opts.IgnorePatterns {
		if err := ignore.AddPattern(p); err != nil {
			return nil, &ConfigError{Field: "ignore pattern", Value: p, Err: err}
		}
	}

	return &Traverser{
		root:      opts.Root,
		recursive: opts.Recursive,
		follow:    opts.FollowSymlinks,
		filter:    NewFilter(opts, ignore),
	}, nil
}

// Walk validates the root and returns every candidate under it. Entries that
// cannot be inspected are recorded as warnings and skipped; only an invalid
// root or cancellation makes Walk fail.
//
// The walk is depth-first with children visited in name order, so discovery
// order is stable across runs. A directory reached again through one of its
// own descendants is a cycle and is not re-entered; the same directory reached
// through an unrelated symlink is walked under that path as well.
func (t *Traverser) Walk(ctx context.Context) (*TraverseResult, error) {
	defer VerboseEnter()()

	if err := ValidateRoot(t.root); err != nil {
		return nil, err
	}

	result := &TraverseResult{Rejected: make(map[FilterDecision]int)}

	rootInfo, err := os.Stat(t.root)
	if err != nil {
		return nil, &ConfigError{Field: "root", Value: t.root, Err: err}
	}
	rootNode := &dirNode{key: dirKeyOf(t.root, rootInfo)}

	names, err := readDirNames(t.root)
	if err != nil {
		return nil, &ConfigError{Field: "root", Value: t.root, Err: err}
	}
	result.DirsVisited++
	stack := pushChildren(nil, t.root, names, rootNode)

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("traversal of %s: %w", t.root, ErrInterrupted)
		default:
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		currentPath := item.path

		relPath, err := filepath.Rel(t.root, currentPath)
		if err != nil {
			result.warn(currentPath, "rel", err)
			continue
		}

		info, err := os.Lstat(currentPath)
		if err != nil {
			result.warn(currentPath, "lstat", err)
			continue
		}

		entry := Entry{Name: filepath.Base(currentPath), RelPath: relPath}
		if info.Mode()&os.ModeSymlink != 0 {
			entry.Symlink = true
			if t.follow {
				targetInfo, err := os.Stat(currentPath)
				if err != nil {
					result.warn(currentPath, "stat", err)
					continue
				}
				info = targetInfo
			}
		}
		entry.Kind = entryKindOf(info.Mode())
		if entry.Kind == EntryFile {
			entry.Size = uint64(info.Size())
		}

		if decision := t.filter.Check(entry); decision != Accept {
			result.Rejected[decision]++
			if IsDebugEnabled(DebugScan) {
				VerboseLog(3, "scan: rejected %s (%s)", relPath, decision)
			}
			continue
		}

		switch entry.Kind {
		case EntryDir:
			if !t.recursive {
				continue
			}
			key := dirKeyOf(currentPath, info)
			if item.parent.hasAncestor(key) {
				if IsDebugEnabled(DebugScan) {
					VerboseLog(2, "scan: %s loops back to an ancestor, not descending", relPath)
				}
				continue
			}
			names, err := readDirNames(currentPath)
			if err != nil {
				result.warn(currentPath, "readdir", err)
				continue
			}
			result.DirsVisited++
			stack = pushChildren(stack, currentPath, names, &dirNode{key: key, parent: item.parent})

		case EntryFile:
			if IsDebugEnabled(DebugScan) {
				VerboseLog(3, "scan: found file %s (%d bytes)", relPath, entry.Size)
			}
			result.Candidates = append(result.Candidates, Candidate{
				Path:    currentPath,
				RelPath: relPath,
				Size:    entry.Size,
			})
		}
	}

	return result, nil
}

func dirKeyOf(path string, info os.FileInfo) dirKey {
	if id, ok := fileIDOf(info); ok {
		return dirKey{id: id}
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = filepath.Clean(path)
	}
	if abs, err := filepath.Abs(resolved); err == nil {
		resolved = abs
	}
	return dirKey{path: resolved}
}

func entryKindOf(mode os.FileMode) EntryKind {
	switch {
	case mode.IsRegular():
		return EntryFile
	case mode.IsDir():
		return EntryDir
	default:
		return EntryOther
	}
}

// readDirNames lists a directory's entry names in sorted order
func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// joinPath appends name to dir without cleaning dir, so reported paths keep
// the root exactly as the user wrote it
func joinPath(dir, name string) string {
	if dir != "" && os.IsPathSeparator(dir[len(dir)-1]) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// pushChildren pushes dir's children onto the stack in reverse name order so
// they pop in name order
func pushChildren(stack []walkItem, dir string, names []string, parent *dirNode) []walkItem {
	sort.Strings(names)
	for i := len(names) - 1; i >= 0; i-- {
		stack = append(stack, walkItem{path: joinPath(dir, names[i]), parent: parent})
	}
	return stack
}
