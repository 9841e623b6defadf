package dupehash

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DuplicateGroup represents a group of files with the same size and hash
type DuplicateGroup struct {
	key    GroupKey
	Hash   string   `json:"hash"`
	Size   uint64   `json:"size"`
	Files  []string `json:"files"`
	Count  int      `json:"count"`
	Wasted uint64   `json:"wasted"`
}

// Key returns the group's size and digest
func (g *DuplicateGroup) Key() GroupKey {
	return g.key
}

// Report is the result of FindDuplicates
type Report struct {
	RunID          string
	Root           string
	Algorithm      string
	HashType       uint16
	Groups         []DuplicateGroup
	TotalWasted    uint64
	CandidateCount int
	CandidateBytes uint64
	Warnings       []*TraverseError
	HashErrors     []*HashError
	Started        time.Time
	Elapsed        time.Duration
}

// NoCandidates reports whether the traversal found nothing to hash
func (r *Report) NoCandidates() bool {
	return r.CandidateCount == 0
}

// HasProblems reports whether any entry was skipped or failed to hash
func (r *Report) HasProblems() bool {
	return len(r.Warnings) > 0 || len(r.HashErrors) > 0
}

// FindDuplicates runs the traversal, hashing and aggregation phases in order.
// A *ConfigError means nothing was scanned. With FailFast a hashing failure
// aborts the run; otherwise failures are listed in Report.HashErrors.
func FindDuplicates(ctx context.Context, opts *ScanOptions) (*Report, error) {
	defer VerboseEnter()()

	report := &Report{
		RunID:     uuid.NewString(),
		Root:      opts.Root,
		Algorithm: opts.Algorithm,
		Started:   time.Now(),
	}
	log := Logger().With().Str("run", report.RunID).Logger()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	traverser, err := NewTraverser(opts)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}
	report.Algorithm = engine.Algorithm().Name
	report.HashType = engine.Algorithm().TypeID

	scanned, err := traverser.Walk(ctx)
	if err != nil {
		return nil, err
	}
	report.Warnings = scanned.Warnings
	report.CandidateCount = len(scanned.Candidates)
	report.CandidateBytes = scanned.TotalBytes()

	log.Info().
		Str("root", opts.Root).
		Int("candidates", report.CandidateCount).
		Uint64("bytes", report.CandidateBytes).
		Int("dirs", scanned.DirsVisited).
		Int("warnings", len(scanned.Warnings)).
		Msg("traversal complete")

	if report.NoCandidates() {
		report.Elapsed = time.Since(report.Started)
		return report, nil
	}

	hashed, err := engine.Run(ctx, scanned.Candidates)
	if err != nil {
		return nil, fmt.Errorf("find duplicates in %s: %w", opts.Root, err)
	}
	report.HashErrors = hashed.HashErrors

	report.Groups, report.TotalWasted = Aggregate(hashed.Store.Snapshot())
	report.Elapsed = time.Since(report.Started)

	log.Info().
		Str("algorithm", report.Algorithm).
		Int("hashed", hashed.Hashed).
		Int("hash_errors", len(hashed.HashErrors)).
		Int("groups", len(report.Groups)).
		Uint64("wasted", report.TotalWasted).
		Dur("elapsed", report.Elapsed).
		Msg("scan complete")

	return report, nil
}
