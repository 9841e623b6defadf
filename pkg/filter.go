package dupehash

import (
	"regexp"
	"strings"
)

// EntryKind classifies a directory entry for filtering
type EntryKind uint8

const (
	EntryFile EntryKind = iota
	EntryDir
	EntryOther
)

// Entry is the metadata the filter sees for one directory entry. For a
// followed symlink Kind and Size describe the target.
type Entry struct {
	Name    string
	RelPath string
	Kind    EntryKind
	Symlink bool
	Size    uint64
}

// FilterDecision is the outcome of a filter check; anything but Accept names
// the first rule that rejected the entry.
type FilterDecision uint8

const (
	Accept FilterDecision = iota
	RejectSymlink
	RejectDot
	RejectIgnored
	RejectPattern
	RejectTooSmall
	RejectTooLarge
	RejectSpecial
)

var filterDecisionNames = [...]string{
	Accept:         "accept",
	RejectSymlink:  "symlink",
	RejectDot:      "dot-entry",
	RejectIgnored:  "ignored",
	RejectPattern:  "name-pattern",
	RejectTooSmall: "below-min-size",
	RejectTooLarge: "above-max-size",
	RejectSpecial:  "special-file",
}

func (d FilterDecision) String() string {
	if int(d) < len(filterDecisionNames) {
		return filterDecisionNames[d]
	}
	return "unknown"
}

// Filter decides whether an entry becomes a candidate (files) or is
// descended into (directories).
type Filter struct {
	followSymlinks bool
	excludeDots    bool
	pattern        *regexp.Regexp
	minSize        *uint64
	maxSize        *uint64
	ignore         *IgnoreManager
}

// NewFilter builds a filter from scan options. ignore may be nil.
func NewFilter(opts *ScanOptions, ignore *IgnoreManager) *Filter {
	if ignore != nil && !ignore.HasPatterns() {
		ignore = nil
	}
	return &Filter{
		followSymlinks: opts.FollowSymlinks,
		excludeDots:    opts.ExcludeDots,
		pattern:        opts.NamePattern,
		minSize:        opts.MinSize,
		maxSize:        opts.MaxSize,
		ignore:         ignore,
	}
}

// Check applies the rules in order and returns the first rejection, or Accept.
// Name pattern and size bounds only apply to files.
func (f *Filter) Check(e Entry) FilterDecision {
	if e.Symlink && !f.followSymlinks {
		return RejectSymlink
	}
	if f.excludeDots && strings.HasPrefix(e.Name, ".") {
		return RejectDot
	}
	if f.ignore != nil && e.RelPath != "" && f.ignore.ShouldIgnore(e.RelPath) {
		return RejectIgnored
	}

	switch e.Kind {
	case EntryDir:
		return Accept
	case EntryOther:
		return RejectSpecial
	}

	if f.pattern != nil && !f.pattern.MatchString(e.Name) {
		return RejectPattern
	}
	if f.minSize != nil && e.Size < *f.minSize {
		return RejectTooSmall
	}
	if f.maxSize != nil && e.Size > *f.maxSize {
		return RejectTooLarge
	}
	return Accept
}
