package dupehash

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ProgressFunc receives one call per processed candidate. It is invoked from
// worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done, total int)

// Engine hashes candidates on a bounded worker pool and groups them by
// (size, digest) in a sharded GroupingStore.
type Engine struct {
	algorithm  *HashAlgorithm
	workers    int
	bufferSize int
	shards     int
	failFast   bool
	progress   ProgressFunc
}

// EngineResult is the output of one Run
type EngineResult struct {
	Store      *GroupingStore
	HashErrors []*HashError
	Hashed     int
	BytesRead  uint64
}

// NewEngine builds an engine from validated scan options
func NewEngine(opts *ScanOptions) (*Engine, error) {
	algorithm, err := GetHashAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, &ConfigError{Field: "algorithm", Value: opts.Algorithm, Err: err}
	}
	if err := ValidateHashWorkers(opts.HashWorkers); err != nil {
		return nil, &ConfigError{Field: "hash workers", Err: err}
	}
	if opts.HashBuffer <= 0 {
		return nil, &ConfigError{Field: "hash buffer", Err: fmt.Errorf("must be positive, got %d", opts.HashBuffer)}
	}

	shards := opts.StoreShards
	if shards <= 0 {
		shards = DefaultStoreShards
	}

	return &Engine{
		algorithm:  algorithm,
		workers:    opts.HashWorkers,
		bufferSize: opts.HashBuffer,
		shards:     shards,
		failFast:   opts.FailFast,
		progress:   opts.Progress,
	}, nil
}

// Algorithm returns the digest algorithm used for every candidate in a run
func (e *Engine) Algorithm() *HashAlgorithm {
	return e.algorithm
}

// hashManager coordinates the job queue and the per-run shared state
type hashManager struct {
	engine     *Engine
	store      *GroupingStore
	total      int
	done       atomic.Int64
	bytesRead  atomic.Uint64
	errMutex   sync.Mutex
	hashErrors []*HashError
}

// Run hashes every candidate and returns the sealed store. Hash failures are
// collected in the result unless fail-fast is set, in which case the first one
// cancels the remaining work and is returned as the error. Cancelling ctx
// stops workers between buffer reads and returns ErrInterrupted.
func (e *Engine) Run(ctx context.Context, candidates []Candidate) (*EngineResult, error) {
	defer VerboseEnter()()

	hm := &hashManager{
		engine: e,
		store:  NewGroupingStore(e.shards),
		total:  len(candidates),
	}
	if IsDebugEnabled(DebugStore) {
		VerboseLog(2, "store: %d shards for %d candidates", hm.store.ShardCount(), hm.total)
	}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan *Candidate, hashJobQueueSize)

	g.Go(func() error {
		defer close(jobs)
		for i := range candidates {
			select {
			case jobs <- &candidates[i]:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	workers := e.workers
	if workers > len(candidates) && len(candidates) > 0 {
		workers = len(candidates)
	}
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			return hm.hashWorker(gctx, jobs)
		})
	}

	err := g.Wait()
	hm.store.Seal()
	sort.Slice(hm.hashErrors, func(i, j int) bool {
		return hm.hashErrors[i].Path < hm.hashErrors[j].Path
	})

	result := &EngineResult{
		Store:      hm.store,
		HashErrors: hm.hashErrors,
		Hashed:     int(hm.done.Load()),
		BytesRead:  hm.bytesRead.Load(),
	}

	if err != nil {
		return result, fmt.Errorf("hashing aborted: %w", err)
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("hashing: %w", ErrInterrupted)
	}
	return result, nil
}

// hashWorker hashes jobs until the queue closes or the run is cancelled
func (hm *hashManager) hashWorker(ctx context.Context, jobs <-chan *Candidate) error {
	e := hm.engine
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return nil
			}

			digest, size, err := HashFileInterruptible(ctx, job.Path, e.algorithm, e.bufferSize)
			if err != nil {
				if errors.Is(err, ErrInterrupted) {
					return nil
				}
				herr := &HashError{Path: job.Path, Err: err}
				if IsDebugEnabled(DebugHash) {
					VerboseLog(2, "hash: failed %s: %v", job.Path, err)
				}
				if e.failFast {
					return herr
				}
				hm.errMutex.Lock()
				hm.hashErrors = append(hm.hashErrors, herr)
				hm.errMutex.Unlock()
			} else {
				// Key on what was read; the file may have changed since traversal
				if size != job.Size && IsDebugEnabled(DebugHash) {
					VerboseLog(2, "hash: %s changed size %d -> %d", job.Path, job.Size, size)
				}
				created := hm.store.Upsert(NewGroupKey(size, digest), job.Path)
				hm.bytesRead.Add(size)
				if IsDebugEnabled(DebugStore) {
					VerboseLog(3, "store: %s -> %x (new group: %t)", job.Path, digest, created)
				}
			}

			done := hm.done.Add(1)
			if e.progress != nil {
				e.progress(int(done), hm.total)
			}

		case <-ctx.Done():
			return nil
		}
	}
}
