package dupehash

import (
	"fmt"
	"regexp"
	"runtime"
)

// ScanOptions configures one duplicate search
type ScanOptions struct {
	Root           string
	Recursive      bool
	ExcludeDots    bool
	NamePattern    *regexp.Regexp // matched against file base names
	IgnoreFile     string
	IgnorePatterns []string // matched against root-relative slash paths
	FollowSymlinks bool

	Algorithm   string
	MinSize     *uint64 // inclusive, nil means unbounded
	MaxSize     *uint64 // inclusive, nil means unbounded
	HashWorkers int
	HashBuffer  int
	StoreShards int
	FailFast    bool

	Progress ProgressFunc
}

// DefaultScanOptions returns options for a non-recursive sha256 scan of ./
func DefaultScanOptions() *ScanOptions {
	buf, _ := ParseHumanSize(DefaultHashBuffer)
	workers := runtime.NumCPU()
	if workers > MaxHashWorkers {
		workers = MaxHashWorkers
	}
	return &ScanOptions{
		Root:        DefaultRoot,
		Algorithm:   DefaultHashAlgorithm,
		HashWorkers: workers,
		HashBuffer:  int(buf),
		StoreShards: DefaultStoreShards,
	}
}

// SetNamePattern compiles and sets the file name filter. An empty pattern clears it.
func (o *ScanOptions) SetNamePattern(pattern string) error {
	if pattern == "" {
		o.NamePattern = nil
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &ConfigError{Field: "name filter", Value: pattern, Err: err}
	}
	o.NamePattern = re
	return nil
}

// SetSizeBounds parses human-readable bounds; empty strings leave a bound unset
func (o *ScanOptions) SetSizeBounds(minSize, maxSize string) error {
	if minSize != "" {
		n, err := ParseHumanSize(minSize)
		if err != nil {
			return &ConfigError{Field: "min size", Value: minSize, Err: err}
		}
		o.MinSize = &n
	}
	if maxSize != "" {
		n, err := ParseHumanSize(maxSize)
		if err != nil {
			return &ConfigError{Field: "max size", Value: maxSize, Err: err}
		}
		o.MaxSize = &n
	}
	return nil
}

// Validate checks everything that can be checked before the scan starts.
// All failures are *ConfigError.
func (o *ScanOptions) Validate() error {
	if err := ValidateRoot(o.Root); err != nil {
		return err
	}
	if err := ValidateHashAlgorithm(o.Algorithm); err != nil {
		return &ConfigError{Field: "algorithm", Value: o.Algorithm, Err: err}
	}
	if err := ValidateHashWorkers(o.HashWorkers); err != nil {
		return &ConfigError{Field: "hash workers", Err: err}
	}
	if o.HashBuffer <= 0 {
		return &ConfigError{Field: "hash buffer", Err: fmt.Errorf("must be positive, got %d", o.HashBuffer)}
	}
	if o.MinSize != nil && o.MaxSize != nil && *o.MinSize > *o.MaxSize {
		return &ConfigError{Field: "size bounds", Err: fmt.Errorf("min size %d exceeds max size %d", *o.MinSize, *o.MaxSize)}
	}
	return nil
}
